// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus stores curated content records and serves them to the
// selector through a memoizing cache.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const dbFile = "corpus.db"

// ErrNotFound is returned when no records exist for a key. Callers treat it
// as zero candidates.
var ErrNotFound = errors.New("corpus records not found")

// Store is the read-only contract the cache consumes.
type Store interface {
	Get(ctx context.Context, persona string, axis int, recordType types.RecordType) ([]types.ContentRecord, error)
}

// SQLiteStore keeps the corpus in a SQLite database with an optional FTS5
// index over record text.
type SQLiteStore struct {
	db        *sqlx.DB
	corpusDir string
	indexDir  string
	fts       bool
}

// NewSQLiteStore opens or creates the corpus database at
// cfg.IndexDir/corpus.db and creates the schema if it does not exist.
func NewSQLiteStore(cfg types.CorpusConfig) (*SQLiteStore, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{
		db:        db,
		corpusDir: cfg.Dir,
		indexDir:  cfg.IndexDir,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			persona TEXT NOT NULL,
			axis_value INTEGER NOT NULL,
			record_type TEXT NOT NULL,
			text TEXT NOT NULL,
			category TEXT,
			support_tags TEXT,
			challenge_tags TEXT,
			source_id TEXT NOT NULL,
			file TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_key ON records(persona, axis_value, record_type)`,
		`CREATE INDEX IF NOT EXISTS idx_records_file ON records(file)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			file TEXT PRIMARY KEY,
			digest TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 is compiled into go-sqlite3 only with the sqlite_fts5 tag; without
	// it Search falls back to LIKE matching.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE records_fts USING fts5(text, content=records, content_rowid=rowid)`,
		`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
			INSERT INTO records_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
		`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
			INSERT INTO records_fts(records_fts, rowid, text) VALUES('delete', old.rowid, old.text);
		END`,
	}
	if _, err := s.db.Exec(ftsStatements[0]); err != nil {
		return nil
	}
	for _, stmt := range ftsStatements[1:] {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// recordRow is the database shape of a ContentRecord; tag sets are JSON.
type recordRow struct {
	Persona       string `db:"persona"`
	AxisValue     int    `db:"axis_value"`
	RecordType    string `db:"record_type"`
	Text          string `db:"text"`
	Category      string `db:"category"`
	SupportTags   string `db:"support_tags"`
	ChallengeTags string `db:"challenge_tags"`
	SourceID      string `db:"source_id"`
}

func (r recordRow) record() (types.ContentRecord, error) {
	rec := types.ContentRecord{
		Persona:    r.Persona,
		AxisValue:  r.AxisValue,
		RecordType: types.RecordType(r.RecordType),
		Text:       r.Text,
		Category:   r.Category,
		SourceID:   r.SourceID,
	}
	if r.SupportTags != "" {
		if err := json.Unmarshal([]byte(r.SupportTags), &rec.SupportTags); err != nil {
			return rec, fmt.Errorf("decoding support tags for %s: %w", r.SourceID, err)
		}
	}
	if r.ChallengeTags != "" {
		if err := json.Unmarshal([]byte(r.ChallengeTags), &rec.ChallengeTags); err != nil {
			return rec, fmt.Errorf("decoding challenge tags for %s: %w", r.SourceID, err)
		}
	}
	return rec, nil
}

func toRecords(rows []recordRow) ([]types.ContentRecord, error) {
	records := make([]types.ContentRecord, len(rows))
	for i, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

const selectColumns = `SELECT persona, axis_value, record_type, text,
	COALESCE(category, '') AS category,
	COALESCE(support_tags, '') AS support_tags,
	COALESCE(challenge_tags, '') AS challenge_tags,
	source_id FROM records`

// Get returns the records for one (persona, axis, record type) key in
// ingestion order, or ErrNotFound when there are none.
func (s *SQLiteStore) Get(ctx context.Context, persona string, axis int, recordType types.RecordType) ([]types.ContentRecord, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows,
		selectColumns+` WHERE persona = ? AND axis_value = ? AND record_type = ? ORDER BY rowid`,
		strings.ToLower(persona), axis, string(recordType))
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: persona=%s axis=%d type=%s", ErrNotFound, persona, axis, recordType)
	}

	return toRecords(rows)
}

// Search returns up to limit records whose text matches query, using FTS5
// ranking when available.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]types.ContentRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = 20
	}

	var (
		rows []recordRow
		err  error
	)
	if s.fts {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT r.persona, r.axis_value, r.record_type, r.text,
				COALESCE(r.category, '') AS category,
				COALESCE(r.support_tags, '') AS support_tags,
				COALESCE(r.challenge_tags, '') AS challenge_tags,
				r.source_id
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			WHERE records_fts MATCH ?
			ORDER BY records_fts.rank
			LIMIT ?`, query, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			selectColumns+` WHERE text LIKE ? ORDER BY rowid LIMIT ?`,
			"%"+query+"%", limit)
	}
	if err != nil {
		return nil, fmt.Errorf("searching corpus: %w", err)
	}

	return toRecords(rows)
}

// Keys returns the distinct personas and axis values present in the corpus.
func (s *SQLiteStore) Keys(ctx context.Context) (personas []string, axes []int, err error) {
	if err := s.db.SelectContext(ctx, &personas, `SELECT DISTINCT persona FROM records ORDER BY persona`); err != nil {
		return nil, nil, fmt.Errorf("listing personas: %w", err)
	}
	if err := s.db.SelectContext(ctx, &axes, `SELECT DISTINCT axis_value FROM records ORDER BY axis_value`); err != nil {
		return nil, nil, fmt.Errorf("listing axes: %w", err)
	}
	return personas, axes, nil
}
