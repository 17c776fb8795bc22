// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// All returns every record in the corpus ordered by persona, record type,
// axis value, and ingestion order.
func (s *SQLiteStore) All(ctx context.Context) ([]types.ContentRecord, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows,
		selectColumns+` ORDER BY persona, record_type, axis_value, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return toRecords(rows)
}

// ExportYAML writes the corpus to index/export.yaml and returns the path.
func (s *SQLiteStore) ExportYAML(ctx context.Context) (string, error) {
	records, err := s.All(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.indexDir, "export.yaml")
	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the corpus to index/export.json and returns the path.
func (s *SQLiteStore) ExportJSON(ctx context.Context) (string, error) {
	records, err := s.All(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.indexDir, "export.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}
