// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// IngestSummary holds counts from a corpus ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
	Records int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// ReadFile parses one corpus YAML file, validates it against the corpus
// schema, and fills record-level persona, record type, and source ID
// defaults from the file header.
func ReadFile(path string) (types.CorpusFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CorpusFile{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return types.CorpusFile{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return types.CorpusFile{}, fmt.Errorf("converting %s: %w", path, err)
	}
	if err := ValidateJSON(asJSON); err != nil {
		return types.CorpusFile{}, fmt.Errorf("%s: %w", path, err)
	}

	var cf types.CorpusFile
	if err := json.Unmarshal(asJSON, &cf); err != nil {
		return types.CorpusFile{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	normalizeFile(&cf)
	return cf, nil
}

// normalizeFile fills inherited record fields and derives missing source IDs.
func normalizeFile(cf *types.CorpusFile) {
	cf.Persona = strings.ToLower(cf.Persona)
	for i := range cf.Records {
		r := &cf.Records[i]
		if r.Persona == "" {
			r.Persona = cf.Persona
		}
		r.Persona = strings.ToLower(r.Persona)
		if r.RecordType == "" {
			r.RecordType = cf.RecordType
		}
		if r.RecordType == "" {
			r.RecordType = types.RecordFocus
		}
		if r.SourceID == "" {
			r.SourceID = stableSourceID(r.Persona, r.AxisValue, string(r.RecordType), r.Text)
		}
	}
}

// ReadDir returns every corpus file below dir (any depth, .yaml or .yml),
// keyed by path relative to dir.
func ReadDir(dir string) (map[string]types.CorpusFile, error) {
	files := make(map[string]types.CorpusFile)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}
		cf, err := ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		files[filepath.ToSlash(rel)] = cf
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}
	return files, nil
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// Ingest reads every corpus file under the configured corpus directory and
// loads it into the database. Files whose canonical content digest matches
// the previous run are skipped; changed files replace their old records.
func (s *SQLiteStore) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	var paths []string
	err := filepath.WalkDir(s.corpusDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isYAML(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading corpus directory %s: %w", s.corpusDir, err)
	}
	sort.Strings(paths)

	var summary IngestSummary
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rel, _ := filepath.Rel(s.corpusDir, path)
		rel = filepath.ToSlash(rel)

		cf, err := ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
			summary.Failed++
			continue
		}
		s.ingestOne(ctx, w, rel, cf, &summary)
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// IngestFiles loads already-parsed corpus files, keyed by a logical file
// name used for change detection (e.g. "xlsx:curated.xlsx#mystic").
func (s *SQLiteStore) IngestFiles(ctx context.Context, w io.Writer, files map[string]types.CorpusFile) (IngestSummary, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var summary IngestSummary
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		cf := files[name]
		normalizeFile(&cf)
		s.ingestOne(ctx, w, name, cf, &summary)
	}
	return summary, nil
}

func (s *SQLiteStore) ingestOne(ctx context.Context, w io.Writer, name string, cf types.CorpusFile, summary *IngestSummary) {
	digest, err := digestJCS(cf)
	if err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", name, err)
		summary.Failed++
		return
	}

	var stored string
	err = s.db.GetContext(ctx, &stored, `SELECT digest FROM ingest_status WHERE file = ?`, name)
	if err == nil && stored == digest {
		fmt.Fprintf(w, "skipped %s\n", name)
		summary.Skipped++
		return
	}
	isUpdate := err == nil

	if err := s.ingestFile(ctx, name, cf, digest); err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", name, err)
		summary.Failed++
		return
	}

	summary.Records += len(cf.Records)
	if isUpdate {
		fmt.Fprintf(w, "updated %s (%d records)\n", name, len(cf.Records))
		summary.Updated++
	} else {
		fmt.Fprintf(w, "indexing %s (%d records)\n", name, len(cf.Records))
		summary.Indexed++
	}
}

func (s *SQLiteStore) ingestFile(ctx context.Context, name string, cf types.CorpusFile, digest string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE file = ?`, name); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO records (persona, axis_value, record_type, text, category, support_tags, challenge_tags, source_id, file)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range cf.Records {
		supportJSON, _ := json.Marshal(r.SupportTags)
		challengeJSON, _ := json.Marshal(r.ChallengeTags)
		_, err := stmt.ExecContext(ctx,
			r.Persona, r.AxisValue, string(r.RecordType), r.Text, r.Category,
			string(supportJSON), string(challengeJSON), r.SourceID, name,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", r.SourceID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (file, digest) VALUES (?, ?)
		 ON CONFLICT(file) DO UPDATE SET digest=excluded.digest`,
		name, digest,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}
