// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/insight-engine/internal/lexicon"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/pkg/types"
)

const passingCoachText = "Today, take one small step toward your goal and make a plan this week. " +
	"Start with a steady, simple action: write the first step, schedule ten minutes, " +
	"choose one thing, practice it, and share your progress. Commit to focus. " +
	"This reveals deeper meaning and truth, invites insight, reminds you of purpose, " +
	"guides your growth and calls your inner energy. Be gentle, grounded, warm, kind, " +
	"patient, honest, clear and calm, and trust the care you give."

var passingFragments = []string{
	"Write the first step today.",
	"Share your progress with steady focus.",
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(persona.NewRegistry(), types.EvaluationConfig{})
}

func TestEvaluatePassingPassage(t *testing.T) {
	e := newTestEvaluator()
	res, err := e.Evaluate(passingCoachText, passingFragments, "coach")
	require.NoError(t, err)

	assert.InDelta(t, 0.4*4.0/12.0+0.6, res.Dimensions.Authenticity, 1e-9)
	assert.Equal(t, 1.0, res.Dimensions.PersonaFidelity)
	assert.Equal(t, 1.0, res.Dimensions.Coherence)
	assert.Equal(t, 1.0, res.Dimensions.Practicality)
	assert.Equal(t, 1.0, res.Dimensions.BrandAlignment)
	assert.True(t, res.PassesThreshold)
	assert.Equal(t, types.GradeA, res.Grade)
	assert.Empty(t, res.Recommendations)
}

func TestEvaluateZeroAuthenticityFails(t *testing.T) {
	e := newTestEvaluator()
	text := "Take one small step today and make a plan this week. Commit to your goal and track progress."
	res, err := e.Evaluate(text, []string{"Make a plan today."}, "coach")

	require.ErrorIs(t, err, ErrQualityBelowFloor)
	assert.Zero(t, res.Dimensions.Authenticity)
	assert.False(t, res.PassesThreshold)
	assert.Contains(t, err.Error(), "authenticity")
}

func TestEvaluateFloorOverridesOverall(t *testing.T) {
	e := newTestEvaluator()
	// Dropping three spiritual terms puts authenticity under its floor
	// while the weighted overall still clears the pass threshold.
	text := strings.NewReplacer(" inner energy", " attention", "guides your growth", "guides you").Replace(passingCoachText)
	res, err := e.Evaluate(text, passingFragments, "coach")

	require.ErrorIs(t, err, ErrQualityBelowFloor)
	assert.Less(t, res.Dimensions.Authenticity, 0.70)
	assert.GreaterOrEqual(t, res.OverallScore, 0.80)
	assert.False(t, res.PassesThreshold)
}

func TestEvaluatePersonaFidelityFloor(t *testing.T) {
	e := newTestEvaluator()
	res, err := e.Evaluate(passingCoachText, passingFragments, "mystic")
	require.ErrorIs(t, err, ErrQualityBelowFloor)
	assert.Less(t, res.Dimensions.PersonaFidelity, 0.75)
	assert.Contains(t, err.Error(), "persona fidelity")
}

func TestEvaluateWeightInvariant(t *testing.T) {
	e := newTestEvaluator()
	texts := []string{
		"",
		passingCoachText,
		"The celestial tapestry of cosmic light.",
		"Your soul reveals a deeper truth about partnership and home.",
	}
	for _, text := range texts {
		for _, id := range []string{"sage", "coach", "mystic", "philosopher"} {
			res, _ := e.Evaluate(text, passingFragments, id)
			d := res.Dimensions
			want := 0.30*d.Authenticity + 0.25*d.PersonaFidelity + 0.20*d.Coherence +
				0.15*d.Practicality + 0.10*d.BrandAlignment
			assert.InDelta(t, want, res.OverallScore, 1e-9)
			assert.Equal(t, types.GradeFor(res.OverallScore), res.Grade)
		}
	}
}

func TestBrandAlignment(t *testing.T) {
	reg := persona.NewRegistry()
	sage, _ := reg.Lookup("sage")
	mystic, _ := reg.Lookup("mystic")

	tests := []struct {
		name   string
		text   string
		sage   float64
		mystic float64
	}{
		{name: "no warm terms", text: "Look at the road ahead.", sage: 0, mystic: 0},
		{name: "two warm terms", text: "A warm and kind path.", sage: 2.0 / 12.0, mystic: 2.0 / 12.0},
		{name: "one ornate term", text: "A warm, kind and calm path through the cosmic night.", sage: 3.0/12.0 - 0.15, mystic: 3.0 / 12.0},
		{name: "penalty floors at zero", text: "A warm, kind and calm path through the cosmic tapestry.", sage: 0, mystic: 3.0 / 12.0},
		{name: "every warm term", text: strings.Join(lexicon.Warm, " "), sage: 1, mystic: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.sage, brandAlignment(tt.text, sage), 1e-9)
			assert.InDelta(t, tt.mystic, brandAlignment(tt.text, mystic), 1e-9)
		})
	}
}

func TestCoherence(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		fragments []string
		want      float64
	}{
		{name: "no fragments", text: "anything", fragments: nil, want: 0},
		{name: "balanced", text: "courage and patience", fragments: []string{"courage", "patience"}, want: 1},
		{name: "one sided", text: "courage only", fragments: []string{"courage", "patience"}, want: 0.5 - 0.5},
		{name: "blending bonus", text: "courage blends with patience and weaves", fragments: []string{"courage", "patience"}, want: 1},
		{name: "focus only", text: "courage", fragments: []string{"courage"}, want: 1},
		{name: "bonus capped", text: "courage combines fuses integrates blends weaves merges", fragments: []string{"courage", "patience"}, want: 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, coherence(tt.text, tt.fragments), 1e-9)
		})
	}
}

func TestRecommendations(t *testing.T) {
	recs := recommendations(types.EvaluationDimensions{Authenticity: 1, PersonaFidelity: 1, Coherence: 0.2, Practicality: 0.9, BrandAlignment: 0.1})
	assert.Len(t, recs, 2)
}

func TestStats(t *testing.T) {
	e := newTestEvaluator()
	_, err := e.Evaluate(passingCoachText, passingFragments, "coach")
	require.NoError(t, err)
	_, err = e.Evaluate("plain words", nil, "coach")
	require.Error(t, err)

	snap := e.Stats()
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, 1, snap.Passed)
	assert.InDelta(t, 0.5, snap.PassRate, 1e-9)
	assert.Equal(t, 1, snap.Grades[types.GradeA])
	assert.Equal(t, 1, snap.Grades[types.GradeF])
	assert.Greater(t, snap.AverageScore, 0.0)
	assert.InDelta(t, snap.AverageScore, snap.RecentMedian, 1e-9)
}

func TestStatsDoNotAffectScoring(t *testing.T) {
	e := newTestEvaluator()
	first, _ := e.Evaluate(passingCoachText, passingFragments, "coach")
	for i := 0; i < 5; i++ {
		_, _ = e.Evaluate("nothing here", nil, "sage")
	}
	again, _ := e.Evaluate(passingCoachText, passingFragments, "coach")
	assert.Equal(t, first, again)
}

func TestStatsWindowAndConcurrency(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 60; j++ {
				s.record(types.EvaluationResult{OverallScore: 0.5, Grade: types.GradeF})
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 240, snap.Count)
	assert.Equal(t, 240, snap.Grades[types.GradeF])
	assert.InDelta(t, 0.5, snap.RecentMedian, 1e-9)
	assert.Len(t, s.recent, recentWindow)
}
