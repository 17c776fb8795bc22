// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// xlsxColumns are the recognised header names of a curation spreadsheet.
var xlsxColumns = []string{
	"persona", "record_type", "axis_value", "category",
	"text", "support_tags", "challenge_tags", "source_id",
}

// ReadXLSX converts a curation spreadsheet into corpus files. Every sheet
// must start with a header row naming at least persona, axis_value, and
// text; rows are grouped by persona and record type. Keys have the form
// "xlsx:<file>#<persona>/<record-type>".
func ReadXLSX(path string) (map[string]types.CorpusFile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	base := filepath.Base(path)
	files := make(map[string]types.CorpusFile)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		cols := headerIndex(rows[0])
		for _, required := range []string{"persona", "axis_value", "text"} {
			if _, ok := cols[required]; !ok {
				return nil, fmt.Errorf("sheet %s: missing %q column", sheet, required)
			}
		}

		for i, row := range rows[1:] {
			cell := func(name string) string {
				idx, ok := cols[name]
				if !ok || idx >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[idx])
			}

			text := cell("text")
			if text == "" {
				continue
			}
			axis, err := strconv.Atoi(cell("axis_value"))
			if err != nil || axis < 1 {
				return nil, fmt.Errorf("sheet %s row %d: invalid axis_value %q", sheet, i+2, cell("axis_value"))
			}

			persona := strings.ToLower(cell("persona"))
			recordType := types.RecordType(cell("record_type"))
			if recordType == "" {
				recordType = types.RecordFocus
			}
			if recordType != types.RecordFocus && recordType != types.RecordRealm {
				return nil, fmt.Errorf("sheet %s row %d: invalid record_type %q", sheet, i+2, recordType)
			}

			key := fmt.Sprintf("xlsx:%s#%s/%s", base, persona, recordType)
			cf := files[key]
			cf.Persona = persona
			cf.RecordType = recordType
			cf.Records = append(cf.Records, types.ContentRecord{
				Persona:       persona,
				AxisValue:     axis,
				RecordType:    recordType,
				Text:          text,
				Category:      cell("category"),
				SupportTags:   splitTags(cell("support_tags")),
				ChallengeTags: splitTags(cell("challenge_tags")),
				SourceID:      cell("source_id"),
			})
			files[key] = cf
		}
	}

	for key, cf := range files {
		normalizeFile(&cf)
		files[key] = cf
	}
	return files, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, known := range xlsxColumns {
			if name == known {
				cols[name] = i
			}
		}
	}
	return cols
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
