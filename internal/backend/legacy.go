// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/pdiddy/insight-engine/internal/fusion"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// LegacyID is the method tag of the terminal fallback.
const LegacyID = "legacy"

// Legacy is the terminal fallback. Generate cannot fail: it composes from a
// relaxed selection with a random source seeded by the request, and falls
// back to a fixed sentence built from the axis phrases when the corpus has
// nothing.
type Legacy struct {
	selector Selector
	personas *persona.Registry
	desired  int
}

// NewLegacy returns the fallback generator.
func NewLegacy(selector Selector, personas *persona.Registry) *Legacy {
	if personas == nil {
		personas = persona.NewRegistry()
	}
	return &Legacy{selector: selector, personas: personas, desired: types.DefaultSelectionConfig().DesiredCount}
}

// Generate returns a passage for req. ctx bounds only the corpus read.
func (l *Legacy) Generate(ctx context.Context, req types.InsightRequest) Generation {
	start := time.Now()
	md := map[string]string{}

	var sentences []string
	if l.selector != nil {
		sel, err := l.selector.SelectRelaxed(ctx, req.FocusAxis, req.RealmAxis, req.Persona, l.desired)
		sentences = sel.Sentences
		if err != nil {
			md["selection_error"] = err.Error()
		}
		if sel.SemanticFallback {
			md["semantic_fallback"] = "true"
		}
	}

	if len(sentences) == 0 {
		md["technique"] = "axis-phrase"
		return Generation{
			Text:     fallbackSentence(req),
			Latency:  time.Since(start),
			Metadata: md,
		}
	}

	composer := fusion.NewComposer(l.personas, fusion.NewRandomSource(requestSeed(req)))
	passage := composer.Compose(sentences, req.FocusAxis, req.RealmAxis, req.Persona)
	md["technique"] = passage.Technique
	return Generation{
		Text:      passage.Text,
		Fragments: sentences,
		Latency:   time.Since(start),
		Metadata:  md,
	}
}

func fallbackSentence(req types.InsightRequest) string {
	return fmt.Sprintf("Today is a good day to bring %s into %s, one small step at a time.",
		persona.AxisPhrase(req.FocusAxis), persona.AxisPhrase(req.RealmAxis))
}

func requestSeed(req types.InsightRequest) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%s", req.FocusAxis, req.RealmAxis, req.Persona)
	return h.Sum64()
}
