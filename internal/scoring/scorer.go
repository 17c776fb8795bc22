// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring rates candidate sentences for relevance to an axis value
// and a persona voice.
package scoring

import (
	"context"
	"strings"

	"github.com/pdiddy/insight-engine/internal/lexicon"
	"github.com/pdiddy/insight-engine/internal/persona"
)

// Sub-score weights. They sum to 1.
const (
	WeightKeyword  = 0.30
	WeightDepth    = 0.20
	WeightPersona  = 0.20
	WeightSemantic = 0.30
)

// depthSaturation is the number of transcendent terms that saturate the
// depth sub-score.
const depthSaturation = 3

// Persona heuristic adjustments.
const (
	actionVerbBonus    = 0.1
	actionVerbBonusCap = 0.2
	timeBoundBonus     = 0.1
	benedictionPenalty = 0.2
	ornatePenalty      = 0.15
	sentencePenalty    = 0.1
)

// Detail is the breakdown behind a score.
type Detail struct {
	Keyword  float64 `json:"keyword"`
	Depth    float64 `json:"depth"`
	Persona  float64 `json:"persona"`
	Semantic float64 `json:"semantic"`
	Total    float64 `json:"total"`

	// SemanticFallback is set when no embedding was available and the
	// semantic sub-score reused the keyword value.
	SemanticFallback bool `json:"semantic_fallback"`

	// Primary records whether the sentence came from the focus axis.
	Primary bool `json:"primary"`
}

// Scorer computes candidate relevance scores. A Scorer is safe for
// concurrent use when its embedding provider is.
type Scorer struct {
	personas   *persona.Registry
	embeddings EmbeddingProvider
}

// NewScorer returns a scorer. A nil embeddings provider makes the semantic
// sub-score fall back to keyword relevance.
func NewScorer(personas *persona.Registry, embeddings EmbeddingProvider) *Scorer {
	if personas == nil {
		personas = persona.NewRegistry()
	}
	return &Scorer{personas: personas, embeddings: embeddings}
}

// Score returns the relevance of sentence to axis for the persona, in [0,1].
func (s *Scorer) Score(sentence, personaID string, axis int, primary bool) float64 {
	return s.Detail(context.Background(), sentence, personaID, axis, primary).Total
}

// Detail returns the score together with its sub-scores.
func (s *Scorer) Detail(ctx context.Context, sentence, personaID string, axis int, primary bool) Detail {
	profile, _ := s.personas.Lookup(personaID)
	keywords := persona.AxisKeywords(axis)

	d := Detail{Primary: primary}
	d.Keyword = lexicon.Fraction(sentence, keywords)
	d.Depth = lexicon.Clamp(float64(lexicon.Count(sentence, lexicon.Transcendent)) / depthSaturation)
	d.Persona = personaScore(sentence, profile)

	semantic, ok := s.semantic(ctx, sentence, keywords)
	if ok {
		d.Semantic = semantic
	} else {
		d.Semantic = d.Keyword
		d.SemanticFallback = true
	}

	d.Total = lexicon.Clamp(WeightKeyword*d.Keyword +
		WeightDepth*d.Depth +
		WeightPersona*d.Persona +
		WeightSemantic*d.Semantic)
	return d
}

func (s *Scorer) semantic(ctx context.Context, sentence string, keywords []string) (float64, bool) {
	if s.embeddings == nil || len(keywords) == 0 {
		return 0, false
	}
	words := lexicon.Words(sentence)
	if len(words) == 0 {
		return 0, false
	}
	sv, err := s.embeddings.Embed(ctx, words)
	if err != nil {
		return 0, false
	}
	kv, err := s.embeddings.Embed(ctx, keywords)
	if err != nil {
		return 0, false
	}
	sim, ok := Cosine(sv, kv)
	if !ok {
		return 0, false
	}
	return lexicon.Clamp(sim), true
}

// personaScore is the fraction of persona markers present, adjusted by the
// persona's heuristics.
func personaScore(sentence string, p persona.Profile) float64 {
	score := lexicon.Fraction(sentence, p.Markers)
	h := p.Heuristics

	if h.ActionBonus {
		score += min(actionVerbBonusCap, actionVerbBonus*float64(lexicon.Count(sentence, lexicon.ActionVerbs)))
		if lexicon.Count(sentence, lexicon.Specificity) > 0 {
			score += timeBoundBonus
		}
	}
	if h.PenalizeBenediction && isBenediction(sentence) {
		score -= benedictionPenalty
	}
	if h.PenalizeOrnate && lexicon.Count(sentence, lexicon.Ornate) >= 2 {
		score -= ornatePenalty
	}
	if h.MaxSentences > 0 {
		if extra := CountSentences(sentence) - h.MaxSentences; extra > 0 {
			score -= sentencePenalty * float64(extra)
		}
	}
	return lexicon.Clamp(score)
}

func isBenediction(sentence string) bool {
	s := strings.ToLower(strings.TrimSpace(sentence))
	return strings.HasPrefix(s, "may ")
}

// CountSentences counts terminal punctuation runs. Text without any
// terminator counts as one sentence.
func CountSentences(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	n := 0
	inRun := false
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if !inRun {
				n++
			}
			inRun = true
			continue
		}
		inRun = false
	}
	last := text[len(text)-1]
	if last != '.' && last != '!' && last != '?' {
		n++
	}
	return n
}
