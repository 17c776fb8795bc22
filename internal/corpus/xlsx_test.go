// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/insight-engine/pkg/types"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "curated.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"persona", "record_type", "axis_value", "category", "text", "support_tags"},
		{"Mystic", "focus-origin", 3, "voice", "Your voice carries sacred energy.", "expression, joy"},
		{"mystic", "realm-origin", 6, "home", "Home is a sacred space of care.", ""},
		{"mystic", "", 3, "", "Creative light wants an outlet.", ""},
		{"mystic", "focus-origin", 3, "", "", ""},
	})

	files, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Len(t, files, 2)

	focus := files["xlsx:curated.xlsx#mystic/focus-origin"]
	require.Len(t, focus.Records, 2, "blank text rows are skipped")
	assert.Equal(t, "mystic", focus.Records[0].Persona)
	assert.Equal(t, []string{"expression", "joy"}, focus.Records[0].SupportTags)
	assert.NotEmpty(t, focus.Records[1].SourceID)

	realm := files["xlsx:curated.xlsx#mystic/realm-origin"]
	require.Len(t, realm.Records, 1)
	assert.Equal(t, 6, realm.Records[0].AxisValue)
}

func TestReadXLSXErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
	}{
		{name: "missing text column", rows: [][]any{{"persona", "axis_value"}, {"sage", 1}}},
		{name: "bad axis", rows: [][]any{{"persona", "axis_value", "text"}, {"sage", "one", "hello there"}}},
		{name: "bad record type", rows: [][]any{{"persona", "axis_value", "text", "record_type"}, {"sage", 1, "hello", "other"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadXLSX(writeWorkbook(t, tt.rows))
			assert.Error(t, err)
		})
	}
}

func TestIngestFilesFromXLSX(t *testing.T) {
	store, _ := testSetup(t)
	path := writeWorkbook(t, [][]any{
		{"persona", "axis_value", "text"},
		{"coach", 4, "Build one habit this week and track it daily."},
	})
	files, err := ReadXLSX(path)
	require.NoError(t, err)

	var buf strings.Builder
	summary, err := store.IngestFiles(context.Background(), &buf, files)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)

	recs, err := store.Get(context.Background(), "coach", 4, types.RecordFocus)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	summary, err = store.IngestFiles(context.Background(), &buf, files)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
}
