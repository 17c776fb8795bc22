// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pdiddy/insight-engine/internal/llm"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/internal/selection"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// ModelBackend grounds a language model in selected corpus sentences.
type ModelBackend struct {
	client   llm.Client
	selector Selector
	personas *persona.Registry
	cfg      types.SelectionConfig
	priority int
	ready    atomic.Bool
}

// NewModelBackend returns a model backend. It is not ready until Warmup
// reaches the model server.
func NewModelBackend(client llm.Client, selector Selector, personas *persona.Registry, cfg types.SelectionConfig, priority int) *ModelBackend {
	if personas == nil {
		personas = persona.NewRegistry()
	}
	return &ModelBackend{client: client, selector: selector, personas: personas, cfg: cfg, priority: priority}
}

// ID is "model:<provider>".
func (b *ModelBackend) ID() string    { return "model:" + b.client.Provider() }
func (b *ModelBackend) Priority() int { return b.priority }
func (b *ModelBackend) IsReady() bool { return b.ready.Load() }

// Warmup marks the backend ready when the model server answers.
func (b *ModelBackend) Warmup(ctx context.Context) error {
	if !b.client.Available(ctx) {
		b.ready.Store(false)
		return fmt.Errorf("%s: %w", b.ID(), llm.ErrUnavailable)
	}
	b.ready.Store(true)
	return nil
}

func (b *ModelBackend) Shutdown() { b.ready.Store(false) }

// Generate selects grounding sentences, prompts the model, and trims the
// answer to the requested sentence count.
func (b *ModelBackend) Generate(ctx context.Context, req types.InsightRequest) (Generation, error) {
	if !b.IsReady() {
		return Generation{}, ErrNotReady
	}
	start := time.Now()

	sel, err := b.selector.Select(ctx, req.FocusAxis, req.RealmAxis, req.Persona, b.cfg)
	if sel.IsEmpty() {
		if err != nil {
			return Generation{}, fmt.Errorf("selecting: %w", err)
		}
		return Generation{}, selection.ErrSelectionEmpty
	}

	profile, _ := b.personas.Lookup(req.Persona)
	system, user, err := renderPrompt(req, profile, sel.Sentences)
	if err != nil {
		return Generation{}, fmt.Errorf("rendering prompt: %w", err)
	}

	out, err := b.client.Generate(ctx, llm.Prompt{System: system, User: user})
	if err != nil {
		return Generation{}, err
	}

	md := map[string]string{
		"provider":        b.client.Provider(),
		"model":           out.Model,
		"candidate_count": fmt.Sprint(sel.CandidateCount),
	}
	if sel.SemanticFallback {
		md["semantic_fallback"] = "true"
	}
	return Generation{
		Text:      limitSentences(out.Text, req.MaxSentences),
		Fragments: sel.Sentences,
		Latency:   time.Since(start),
		Metadata:  md,
	}, nil
}

// limitSentences keeps the first n sentences of text. n <= 0 keeps all.
func limitSentences(text string, n int) string {
	text = strings.Trim(strings.TrimSpace(text), `"`)
	if n <= 0 {
		return text
	}
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' {
			continue
		}
		if count++; count == n {
			return text[:i+1]
		}
	}
	return text
}
