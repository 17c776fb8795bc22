// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate grades synthesized passages on five quality dimensions
// and enforces the authenticity and persona fidelity floors.
package evaluate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/insight-engine/internal/lexicon"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// ErrQualityBelowFloor is returned alongside the result when authenticity
// or persona fidelity is under its floor.
var ErrQualityBelowFloor = errors.New("quality below floor")

// recommendThreshold is the dimension score below which a recommendation is
// emitted.
const recommendThreshold = 0.70

const (
	blendingBonusPerTerm = 0.05
	blendingBonusCap     = 0.2
	ornatePenaltyPerTerm = 0.15
)

// Evaluator scores passages. It is safe for concurrent use.
type Evaluator struct {
	personas *persona.Registry
	cfg      types.EvaluationConfig
	stats    *Stats
}

// NewEvaluator returns an evaluator with the given thresholds. Zero-valued
// thresholds take their defaults.
func NewEvaluator(personas *persona.Registry, cfg types.EvaluationConfig) *Evaluator {
	if personas == nil {
		personas = persona.NewRegistry()
	}
	def := types.DefaultEvaluationConfig()
	if cfg.PassThreshold == 0 {
		cfg.PassThreshold = def.PassThreshold
	}
	if cfg.AuthenticityFloor == 0 {
		cfg.AuthenticityFloor = def.AuthenticityFloor
	}
	if cfg.PersonaFidelityFloor == 0 {
		cfg.PersonaFidelityFloor = def.PersonaFidelityFloor
	}
	return &Evaluator{personas: personas, cfg: cfg, stats: NewStats()}
}

// Evaluate grades text against the fragments it was built from and the
// expected persona. When a floor is violated the full result is returned
// together with an error wrapping ErrQualityBelowFloor.
func (e *Evaluator) Evaluate(text string, fragments []string, personaID string) (types.EvaluationResult, error) {
	profile, _ := e.personas.Lookup(personaID)

	dims := types.EvaluationDimensions{
		Authenticity:    authenticity(text),
		PersonaFidelity: personaFidelity(text, profile),
		Coherence:       coherence(text, fragments),
		Practicality:    practicality(text),
		BrandAlignment:  brandAlignment(text, profile),
	}
	overall := dims.Overall()

	var floorErrs []string
	if dims.Authenticity < e.cfg.AuthenticityFloor {
		floorErrs = append(floorErrs, fmt.Sprintf("authenticity %.2f < %.2f", dims.Authenticity, e.cfg.AuthenticityFloor))
	}
	if dims.PersonaFidelity < e.cfg.PersonaFidelityFloor {
		floorErrs = append(floorErrs, fmt.Sprintf("persona fidelity %.2f < %.2f", dims.PersonaFidelity, e.cfg.PersonaFidelityFloor))
	}

	result := types.EvaluationResult{
		Dimensions:      dims,
		OverallScore:    overall,
		Grade:           types.GradeFor(overall),
		PassesThreshold: overall >= e.cfg.PassThreshold && len(floorErrs) == 0,
		Recommendations: recommendations(dims),
	}
	e.stats.record(result)

	if len(floorErrs) > 0 {
		return result, fmt.Errorf("%w: %s", ErrQualityBelowFloor, strings.Join(floorErrs, "; "))
	}
	return result, nil
}

// Stats returns a snapshot of the running aggregate.
func (e *Evaluator) Stats() Snapshot {
	return e.stats.Snapshot()
}

func authenticity(text string) float64 {
	return lexicon.Clamp(0.4*lexicon.Fraction(text, lexicon.Spiritual) +
		0.3*lexicon.Scaled(lexicon.Fraction(text, lexicon.Depth), 3) +
		0.3*lexicon.Scaled(lexicon.Fraction(text, lexicon.InsightVerbs), 2.5))
}

func personaFidelity(text string, p persona.Profile) float64 {
	return lexicon.Clamp(0.6*lexicon.Fraction(text, p.Keywords) +
		0.4*lexicon.Scaled(lexicon.Fraction(text, p.Phrases), 2.5))
}

// coherence measures how well the passage carries both halves of its
// source fragments. The first half (rounded up) is the focus side.
func coherence(text string, fragments []string) float64 {
	half := (len(fragments) + 1) / 2
	focus, fok := presence(text, fragments[:half])
	realm, rok := presence(text, fragments[half:])

	var score float64
	switch {
	case fok && rok:
		diff := focus - realm
		if diff < 0 {
			diff = -diff
		}
		score = (focus+realm)/2 - 0.5*diff
	case fok:
		score = focus
	case rok:
		score = realm
	default:
		return 0
	}

	bonus := min(blendingBonusCap, blendingBonusPerTerm*float64(lexicon.Count(text, lexicon.Blending)))
	return lexicon.Clamp(score + bonus)
}

// presence returns the fraction of the fragments' key terms found in text.
// It reports false when the fragments have no key terms.
func presence(text string, fragments []string) (float64, bool) {
	terms := lexicon.KeyTerms(strings.Join(fragments, " "))
	if len(terms) == 0 {
		return 0, false
	}
	return lexicon.Fraction(text, terms), true
}

func practicality(text string) float64 {
	return lexicon.Clamp(0.6*lexicon.Scaled(lexicon.Fraction(text, lexicon.ActionVerbs), 2) +
		0.4*lexicon.Scaled(lexicon.Fraction(text, lexicon.Specificity), 3))
}

// brandAlignment is the fraction of the warm vocabulary present, less a
// penalty per ornate term for personas that do not allow ornate language.
func brandAlignment(text string, p persona.Profile) float64 {
	score := lexicon.Fraction(text, lexicon.Warm)
	if !p.OrnateAllowed {
		score -= ornatePenaltyPerTerm * float64(lexicon.Count(text, lexicon.Ornate))
	}
	return lexicon.Clamp(score)
}

func recommendations(d types.EvaluationDimensions) []string {
	var recs []string
	if d.Authenticity < recommendThreshold {
		recs = append(recs, "Deepen the language: name purpose, growth, or inner work and use verbs like reveals or invites.")
	}
	if d.PersonaFidelity < recommendThreshold {
		recs = append(recs, "Use more of the persona's own vocabulary and signature phrases.")
	}
	if d.Coherence < recommendThreshold {
		recs = append(recs, "Carry key terms from both the focus and realm fragments, and say how they combine.")
	}
	if d.Practicality < recommendThreshold {
		recs = append(recs, "Add a concrete action with a time frame, such as one thing to try today.")
	}
	if d.BrandAlignment < recommendThreshold {
		recs = append(recs, "Keep the tone warm and grounded; trade ornate imagery for plain, kind words.")
	}
	return recs
}
