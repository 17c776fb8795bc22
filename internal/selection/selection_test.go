// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/insight-engine/internal/corpus"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/internal/scoring"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// fixedScorer returns scores from a table keyed by sentence text.
type fixedScorer map[string]float64

func (f fixedScorer) Detail(_ context.Context, sentence, _ string, _ int, primary bool) scoring.Detail {
	return scoring.Detail{Total: f[sentence], Primary: primary}
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, string, int, types.RecordType) ([]types.ContentRecord, error) {
	return nil, errors.New("store offline")
}

func realScorer() *scoring.Scorer {
	return scoring.NewScorer(persona.NewRegistry(), nil)
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{
			name: "two sentences",
			text: "Courage grows with every step. Leadership begins within.",
			want: []string{"Courage grows with every step.", "Leadership begins within."},
		},
		{
			name: "short fragment dropped",
			text: "Yes. Your path opens when you begin.",
			want: []string{"Your path opens when you begin."},
		},
		{
			name: "punctuation runs and decimals",
			text: "Is this the moment?! Growth of 2.5 times is possible here",
			want: []string{"Is this the moment?!", "Growth of 2.5 times is possible here"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}

func TestSelectEmptyCorpus(t *testing.T) {
	sel := NewSelector(corpus.NewCache(corpus.NewMemoryStore(nil), 0), realScorer())
	res, err := sel.Select(context.Background(), 1, 2, "sage", types.DefaultSelectionConfig())
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.Zero(t, res.CandidateCount)
	assert.Zero(t, res.AverageScore)
}

func TestSelectStoreFailureStillReturnsResult(t *testing.T) {
	sel := NewSelector(failingLoader{}, realScorer())
	res, err := sel.Select(context.Background(), 1, 2, "sage", types.DefaultSelectionConfig())
	assert.Error(t, err)
	assert.True(t, res.IsEmpty())
}

func TestSelectMinimalCorpus(t *testing.T) {
	store := corpus.NewMemoryStore([]types.ContentRecord{{
		Persona:    "x",
		AxisValue:  7,
		RecordType: types.RecordFocus,
		Text:       "Solitude sharpens your inner truth. Quiet study reveals what matters.",
		SourceID:   "x7",
	}})
	sel := NewSelector(corpus.NewCache(store, 0), realScorer())

	cfg := types.DefaultSelectionConfig()
	cfg.DesiredCount = 6
	res, err := sel.Select(context.Background(), 7, 7, "x", cfg)
	require.NoError(t, err)
	assert.Len(t, res.Sentences, 2)
	assert.Equal(t, []string{"x7"}, res.SourceIDs)
	assert.True(t, res.SemanticFallback)
}

func TestSelectTotalityAndBound(t *testing.T) {
	var records []types.ContentRecord
	for i := 0; i < 10; i++ {
		records = append(records, types.ContentRecord{
			Persona:    "sage",
			AxisValue:  1,
			RecordType: types.RecordFocus,
			Text:       fmt.Sprintf("Leadership lesson number %d begins with courage.", i),
			SourceID:   fmt.Sprintf("s%d", i),
		})
	}
	records = append(records, types.ContentRecord{
		Persona:    "sage",
		AxisValue:  6,
		RecordType: types.RecordRealm,
		Text:       "Home is where care becomes a daily practice.",
		SourceID:   "realm",
	})
	sel := NewSelector(corpus.NewCache(corpus.NewMemoryStore(records), 0), realScorer())

	for _, desired := range []int{1, 3, 6, 11, 20} {
		cfg := types.DefaultSelectionConfig()
		cfg.DesiredCount = desired
		res, err := sel.Select(context.Background(), 1, 6, "sage", cfg)
		require.NoError(t, err)
		assert.False(t, res.IsEmpty())
		assert.LessOrEqual(t, len(res.Sentences), desired)
		assert.Equal(t, min(desired, 11), len(res.Sentences))
		assert.Equal(t, 11, res.CandidateCount)
	}

	// Only the realm category has data.
	res, err := sel.Select(context.Background(), 9, 6, "sage", types.DefaultSelectionConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Home is where care becomes a daily practice."}, res.Sentences)
}

func diversityFixture() ([]types.ContentRecord, fixedScorer) {
	texts := []struct {
		text, src, cat string
		score          float64
	}{
		{"Alpha sentence with enough length.", "src1", "a", 0.9},
		{"Bravo sentence with enough length.", "src1", "a", 0.8},
		{"Charlie sentence with enough length.", "src1", "a", 0.7},
		{"Delta sentence with enough length.", "src1", "a", 0.5},
		{"Echo sentence with enough length.", "src2", "b", 0.45},
	}
	var records []types.ContentRecord
	scores := fixedScorer{}
	for _, tt := range texts {
		records = append(records, types.ContentRecord{
			Persona: "sage", AxisValue: 1, RecordType: types.RecordFocus,
			Text: tt.text, SourceID: tt.src, Category: tt.cat,
		})
		scores[tt.text] = tt.score
	}
	return records, scores
}

func TestSelectDiversityPrefersNewSources(t *testing.T) {
	records, scores := diversityFixture()
	loaderSel := NewSelector(corpus.NewCache(corpus.NewMemoryStore(records), 0), scores)

	cfg := types.DefaultSelectionConfig()
	cfg.DesiredCount = 4
	res, err := loaderSel.Select(context.Background(), 1, 2, "sage", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Alpha sentence with enough length.",
		"Bravo sentence with enough length.",
		"Charlie sentence with enough length.",
		"Echo sentence with enough length.",
	}, res.Sentences)
	assert.Equal(t, []string{"src1", "src2"}, res.SourceIDs)
	assert.InDelta(t, (0.9+0.8+0.7+0.45)/4, res.AverageScore, 1e-9)

	cfg.DesiredCount = 5
	res, err = loaderSel.Select(context.Background(), 1, 2, "sage", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Delta sentence with enough length.", res.Sentences[4], "backfill appends the best unused candidate")
}

func TestSelectLengthFilter(t *testing.T) {
	records, scores := diversityFixture()
	sel := NewSelector(corpus.NewCache(corpus.NewMemoryStore(records), 0), scores)

	cfg := types.DefaultSelectionConfig()
	cfg.MaxLength = 34
	res, err := sel.Select(context.Background(), 1, 2, "sage", cfg)
	require.NoError(t, err)
	for _, s := range res.Sentences {
		assert.LessOrEqual(t, len(s), 34)
	}
	assert.NotContains(t, res.Sentences, "Charlie sentence with enough length.")

	relaxed, err := sel.SelectRelaxed(context.Background(), 1, 2, "sage", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Alpha sentence with enough length.",
		"Bravo sentence with enough length.",
	}, relaxed.Sentences)
}
