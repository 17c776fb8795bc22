// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pdiddy/insight-engine/internal/fusion"
	"github.com/pdiddy/insight-engine/internal/selection"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// TemplateID identifies the template backend.
const TemplateID = "template"

// DefaultTemplatePriority places the template backend after the model.
const DefaultTemplatePriority = 50

// DefaultModelPriority ranks the model backend ahead of templates.
const DefaultModelPriority = 100

// TemplateBackend selects corpus sentences and fuses them through persona
// templates.
type TemplateBackend struct {
	selector Selector
	composer *fusion.Composer
	cfg      types.SelectionConfig
	priority int
	ready    atomic.Bool
}

// NewTemplateBackend returns a ready template backend.
func NewTemplateBackend(selector Selector, composer *fusion.Composer, cfg types.SelectionConfig, priority int) *TemplateBackend {
	b := &TemplateBackend{selector: selector, composer: composer, cfg: cfg, priority: priority}
	b.ready.Store(true)
	return b
}

func (b *TemplateBackend) ID() string    { return TemplateID }
func (b *TemplateBackend) Priority() int { return b.priority }
func (b *TemplateBackend) IsReady() bool { return b.ready.Load() }

// Warmup has nothing to prepare; corpus prewarming is done by the cache.
func (b *TemplateBackend) Warmup(context.Context) error { return nil }

func (b *TemplateBackend) Shutdown() { b.ready.Store(false) }

// Generate selects sentences for the request and composes them.
func (b *TemplateBackend) Generate(ctx context.Context, req types.InsightRequest) (Generation, error) {
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
	if err := ctx.Err(); err != nil {
		return Generation{}, err
	}

	passage := b.composer.Compose(sel.Sentences, req.FocusAxis, req.RealmAxis, req.Persona)
	return Generation{
		Text:      passage.Text,
		Fragments: sel.Sentences,
		Latency:   time.Since(start),
		Metadata:  selectionMetadata(sel, passage),
	}, nil
}

func selectionMetadata(sel types.SelectionResult, passage types.FusedPassage) map[string]string {
	md := map[string]string{
		"technique":       passage.Technique,
		"confidence":      strconv.FormatFloat(passage.Confidence, 'f', 2, 64),
		"candidate_count": strconv.Itoa(sel.CandidateCount),
		"selection_score": strconv.FormatFloat(sel.AverageScore, 'f', 3, 64),
	}
	if len(sel.SourceIDs) > 0 {
		md["source_ids"] = strings.Join(sel.SourceIDs, ",")
	}
	if sel.SemanticFallback {
		md["semantic_fallback"] = "true"
	}
	return md
}
