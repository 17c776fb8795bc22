// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/insight-engine/pkg/types"
)

type storeKey struct {
	persona    string
	axis       int
	recordType types.RecordType
}

// MemoryStore serves records held in memory. It backs the CLI when no
// database has been built yet and stands in for SQLite in tests.
type MemoryStore struct {
	records map[storeKey][]types.ContentRecord
}

// NewMemoryStore indexes records by (persona, axis, record type).
func NewMemoryStore(records []types.ContentRecord) *MemoryStore {
	m := &MemoryStore{records: make(map[storeKey][]types.ContentRecord)}
	for _, r := range records {
		k := storeKey{strings.ToLower(r.Persona), r.AxisValue, r.RecordType}
		m.records[k] = append(m.records[k], r)
	}
	return m
}

// NewMemoryStoreFromDir reads every corpus file under dir into a MemoryStore.
func NewMemoryStoreFromDir(dir string) (*MemoryStore, error) {
	files, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var records []types.ContentRecord
	for _, name := range names {
		records = append(records, files[name].Records...)
	}
	return NewMemoryStore(records), nil
}

// Get returns a copy of the records for the key, or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, persona string, axis int, recordType types.RecordType) ([]types.ContentRecord, error) {
	recs, ok := m.records[storeKey{strings.ToLower(persona), axis, recordType}]
	if !ok || len(recs) == 0 {
		return nil, fmt.Errorf("%w: persona=%s axis=%d type=%s", ErrNotFound, persona, axis, recordType)
	}
	out := make([]types.ContentRecord, len(recs))
	copy(out, recs)
	return out, nil
}
