// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/insight-engine/internal/corpus"
	"github.com/pdiddy/insight-engine/internal/fusion"
	"github.com/pdiddy/insight-engine/internal/llm"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/internal/scoring"
	"github.com/pdiddy/insight-engine/internal/selection"
	"github.com/pdiddy/insight-engine/pkg/types"
)

func testRecords() []types.ContentRecord {
	return []types.ContentRecord{
		{Persona: "coach", AxisValue: 1, RecordType: types.RecordFocus, SourceID: "f1", Category: "drive",
			Text: "Start the project you keep postponing. Courage grows when you begin before you feel ready."},
		{Persona: "coach", AxisValue: 1, RecordType: types.RecordFocus, SourceID: "f2", Category: "lead",
			Text: "Lead by taking the first visible step today."},
		{Persona: "coach", AxisValue: 6, RecordType: types.RecordRealm, SourceID: "r1", Category: "home",
			Text: "Care for your home like a training ground. Family routines reward steady effort."},
	}
}

func newSelector(records []types.ContentRecord) *selection.Selector {
	cache := corpus.NewCache(corpus.NewMemoryStore(records), 0)
	return selection.NewSelector(cache, scoring.NewScorer(persona.NewRegistry(), nil))
}

var coachRequest = types.InsightRequest{FocusAxis: 1, RealmAxis: 6, Persona: "coach", MaxSentences: 2}

func TestTemplateBackendGenerate(t *testing.T) {
	b := NewTemplateBackend(newSelector(testRecords()), fusion.NewComposer(nil, fusion.NewRandomSource(1)),
		types.DefaultSelectionConfig(), DefaultTemplatePriority)
	require.True(t, b.IsReady())
	require.NoError(t, b.Warmup(context.Background()))

	gen, err := b.Generate(context.Background(), coachRequest)
	require.NoError(t, err)
	assert.NotEmpty(t, gen.Text)
	assert.Len(t, gen.Fragments, 5)
	assert.True(t, strings.HasPrefix(gen.Metadata["technique"], "template:coach-"))
	assert.Equal(t, "true", gen.Metadata["semantic_fallback"])
	assert.Contains(t, gen.Metadata["source_ids"], "f1")
	assert.Equal(t, TemplateID, b.ID())
	assert.Equal(t, DefaultTemplatePriority, b.Priority())
}

func TestTemplateBackendEmptyCorpus(t *testing.T) {
	b := NewTemplateBackend(newSelector(nil), fusion.NewComposer(nil, nil), types.DefaultSelectionConfig(), 50)
	_, err := b.Generate(context.Background(), coachRequest)
	assert.ErrorIs(t, err, selection.ErrSelectionEmpty)
}

func TestTemplateBackendShutdown(t *testing.T) {
	b := NewTemplateBackend(newSelector(testRecords()), fusion.NewComposer(nil, nil), types.DefaultSelectionConfig(), 50)
	b.Shutdown()
	b.Shutdown()
	assert.False(t, b.IsReady())
	_, err := b.Generate(context.Background(), coachRequest)
	assert.ErrorIs(t, err, ErrNotReady)
}

type fakeClient struct {
	available bool
	text      string
	err       error
	prompts   []llm.Prompt
}

func (f *fakeClient) Provider() string { return "fake" }

func (f *fakeClient) Available(context.Context) bool { return f.available }

func (f *fakeClient) Generate(_ context.Context, p llm.Prompt) (llm.Completion, error) {
	f.prompts = append(f.prompts, p)
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Text: f.text, Model: "fake-1"}, nil
}

func TestModelBackendWarmup(t *testing.T) {
	client := &fakeClient{}
	b := NewModelBackend(client, newSelector(testRecords()), nil, types.DefaultSelectionConfig(), 100)
	assert.False(t, b.IsReady())

	err := b.Warmup(context.Background())
	assert.ErrorIs(t, err, llm.ErrUnavailable)
	assert.False(t, b.IsReady())

	_, err = b.Generate(context.Background(), coachRequest)
	assert.ErrorIs(t, err, ErrNotReady)

	client.available = true
	require.NoError(t, b.Warmup(context.Background()))
	assert.True(t, b.IsReady())
	assert.Equal(t, "model:fake", b.ID())
}

func TestModelBackendGenerate(t *testing.T) {
	client := &fakeClient{available: true, text: `"Start today. Take one step. Then rest."`}
	b := NewModelBackend(client, newSelector(testRecords()), nil, types.DefaultSelectionConfig(), 100)
	require.NoError(t, b.Warmup(context.Background()))

	req := coachRequest
	req.FocusArea = "career"
	req.UserContext = map[string]string{"mood": "restless"}
	gen, err := b.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Start today. Take one step.", gen.Text)
	assert.Len(t, gen.Fragments, 5)
	assert.Equal(t, "fake-1", gen.Metadata["model"])

	require.Len(t, client.prompts, 1)
	p := client.prompts[0]
	assert.Contains(t, p.System, "voice of the coach")
	assert.Contains(t, p.System, "at most 2 sentences")
	assert.Contains(t, p.User, "leadership and new beginnings")
	assert.Contains(t, p.User, "care, home, and responsibility")
	assert.Contains(t, p.User, "The reader is focused on: career.")
	assert.Contains(t, p.User, "mood: restless")
	assert.Contains(t, p.User, "- Lead by taking the first visible step today.")
}

func TestModelBackendClientError(t *testing.T) {
	client := &fakeClient{available: true, err: llm.ErrTimeout}
	b := NewModelBackend(client, newSelector(testRecords()), nil, types.DefaultSelectionConfig(), 100)
	require.NoError(t, b.Warmup(context.Background()))

	_, err := b.Generate(context.Background(), coachRequest)
	assert.ErrorIs(t, err, llm.ErrTimeout)
}

func TestLimitSentences(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"One. Two. Three.", 2, "One. Two."},
		{"One. Two.", 0, "One. Two."},
		{"Wait... what? Yes!", 2, "Wait... what?"},
		{"No terminator here", 1, "No terminator here"},
		{"Costs 2.5 units. Done.", 1, "Costs 2.5 units."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, limitSentences(tt.text, tt.n), tt.text)
	}
}

type failingSelector struct{}

func (failingSelector) Select(context.Context, int, int, string, types.SelectionConfig) (types.SelectionResult, error) {
	return types.SelectionResult{}, errors.New("store offline")
}

func (failingSelector) SelectRelaxed(context.Context, int, int, string, int) (types.SelectionResult, error) {
	return types.SelectionResult{}, errors.New("store offline")
}

func TestLegacyAlwaysProducesText(t *testing.T) {
	tests := []struct {
		name     string
		selector Selector
		wantTech string
	}{
		{name: "empty corpus", selector: newSelector(nil), wantTech: "axis-phrase"},
		{name: "store failure", selector: failingSelector{}, wantTech: "axis-phrase"},
		{name: "nil selector", selector: nil, wantTech: "axis-phrase"},
		{name: "corpus available", selector: newSelector(testRecords())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewLegacy(tt.selector, nil).Generate(context.Background(), coachRequest)
			assert.NotEmpty(t, gen.Text)
			if tt.wantTech != "" {
				assert.Equal(t, tt.wantTech, gen.Metadata["technique"])
			}
		})
	}
}

func TestLegacyIsDeterministic(t *testing.T) {
	l := NewLegacy(newSelector(testRecords()), nil)
	first := l.Generate(context.Background(), coachRequest)
	second := l.Generate(context.Background(), coachRequest)
	assert.Equal(t, first.Text, second.Text)
	assert.NotEqual(t, "axis-phrase", first.Metadata["technique"])
}

func TestLegacyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := NewLegacy(newSelector(testRecords()), nil).Generate(ctx, coachRequest)
	assert.NotEmpty(t, gen.Text)
}
