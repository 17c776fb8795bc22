// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfilesHaveTenTemplates(t *testing.T) {
	r := NewRegistry()
	for _, id := range r.IDs() {
		p, ok := r.Lookup(id)
		require.True(t, ok, id)
		assert.GreaterOrEqual(t, len(p.Templates), 10, id)
		for _, tmpl := range p.Templates {
			assert.GreaterOrEqual(t, tmpl.Sentences, 2, tmpl.Name)
			assert.LessOrEqual(t, tmpl.Sentences, 4, tmpl.Name)
		}
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	p, ok := r.Lookup("nobody")
	assert.False(t, ok)
	assert.Equal(t, DefaultID, p.ID)

	p, ok = r.Lookup("  Coach ")
	assert.True(t, ok)
	assert.Equal(t, "coach", p.ID)
}

func TestRegisterRejectsBadTemplates(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(Profile{}))

	tests := []struct {
		name string
		tmpl Template
	}{
		{"too many sentences", Template{Name: "t", Sentences: 5, Body: "{{.Focus}} {{.Realm}} {{.S1}}"}},
		{"too few sentences", Template{Name: "t", Sentences: 1, Body: "{{.Focus}} {{.Realm}} {{.S1}}"}},
		{"focus only", Template{Name: "t", Sentences: 2, Body: "About {{.Focus}}. {{.S1}} {{.S2}}"}},
		{"realm only", Template{Name: "t", Sentences: 2, Body: "{{.S1}} Within {{.Realm}}, {{.S2}}"}},
		{"no phrases", Template{Name: "t", Sentences: 2, Body: "{{.S1}} {{.S2}}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, r.Register(Profile{ID: "x", Templates: []Template{tt.tmpl}}))
		})
	}
	_, ok := r.Lookup("x")
	assert.False(t, ok)

	err := r.Register(Profile{ID: "x", Templates: []Template{{Name: "t", Sentences: 2, Body: "{{ .Focus }} and {{ .Realm }}. {{.S1}} {{.S2}}"}}})
	assert.NoError(t, err)
}

func TestBuiltinTemplatesNameBothAxes(t *testing.T) {
	for _, p := range builtinProfiles() {
		for _, tmpl := range p.Templates {
			assert.Contains(t, tmpl.Body, "{{.Focus}}", tmpl.Name)
			assert.Contains(t, tmpl.Body, "{{.Realm}}", tmpl.Name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`personas:
  - id: gardener
    markers: [soil, seed, grow]
    keywords: [soil, seed]
    phrases: [plant the seed]
    templates:
      - name: gardener-seed
        sentences: 2
        body: "Plant {{.Focus}} in {{.Realm}}. {{.S1}} {{.S2}}"
`), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))

	p, ok := r.Lookup("gardener")
	require.True(t, ok)
	assert.Equal(t, []string{"soil", "seed", "grow"}, p.Markers)
	assert.Len(t, p.Templates, 1)
}

func TestLoadFileErrors(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	oneAxis := filepath.Join(t.TempDir(), "one-axis.yaml")
	require.NoError(t, os.WriteFile(oneAxis, []byte(`personas:
  - id: gardener
    templates:
      - name: gardener-seed
        sentences: 2
        body: "Tend {{.Focus}}. {{.S1}} {{.S2}}"
`), 0o644))
	assert.Error(t, r.LoadFile(oneAxis))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{bad"), 0o644))
	assert.Error(t, r.LoadFile(path))
}

func TestAxisTables(t *testing.T) {
	for _, axis := range KnownAxes() {
		assert.NotEmpty(t, AxisKeywords(axis), "axis %d", axis)
		assert.NotEqual(t, "the path in front of you", AxisPhrase(axis), "axis %d", axis)
	}
	assert.Equal(t, "leadership and new beginnings", AxisPhrase(1))
	assert.Nil(t, AxisKeywords(42))
	assert.Equal(t, "the path in front of you", AxisPhrase(42))
}
