// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection picks a relevant and diverse set of sentences from the
// corpus for a focus axis, a realm axis, and a persona.
package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/pdiddy/insight-engine/internal/corpus"
	"github.com/pdiddy/insight-engine/internal/scoring"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// ErrSelectionEmpty is returned by callers that require at least one
// sentence and got none.
var ErrSelectionEmpty = errors.New("selection produced no sentences")

// Diversity constants.
const (
	newSourceBonus   = 0.2
	newCategoryBonus = 0.1
	acceptThreshold  = 0.4
	minimumAccepted  = 3
)

// Loader reads corpus records. *corpus.Cache satisfies it.
type Loader interface {
	Load(ctx context.Context, persona string, axis int, recordType types.RecordType) ([]types.ContentRecord, error)
}

// Scorer rates one sentence. *scoring.Scorer satisfies it.
type Scorer interface {
	Detail(ctx context.Context, sentence, persona string, axis int, primary bool) scoring.Detail
}

// Selector runs the selection algorithm.
type Selector struct {
	loader Loader
	scorer Scorer
}

// NewSelector returns a Selector reading from loader and scoring with scorer.
func NewSelector(loader Loader, scorer Scorer) *Selector {
	return &Selector{loader: loader, scorer: scorer}
}

// Select returns up to cfg.DesiredCount sentences in selection order.
//
// The result is always usable: missing corpus data yields an empty result
// and a nil error. A non-nil error reports a store failure or cancellation;
// the result then holds whatever could be selected from the categories that
// did load.
func (s *Selector) Select(ctx context.Context, focus, realm int, persona string, cfg types.SelectionConfig) (types.SelectionResult, error) {
	start := time.Now()
	if cfg.DesiredCount <= 0 {
		cfg.DesiredCount = types.DefaultSelectionConfig().DesiredCount
	}

	candidates, fallback, loadErr := s.candidates(ctx, focus, realm, persona)
	considered := len(candidates)

	valid := candidates[:0:0]
	for _, c := range candidates {
		n := len([]rune(c.Text))
		if n < cfg.MinLength || (cfg.MaxLength > 0 && n > cfg.MaxLength) {
			continue
		}
		valid = append(valid, c)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].RelevanceScore > valid[j].RelevanceScore
	})

	chosen := diversify(valid, cfg)
	result := summarize(chosen, considered, time.Since(start))
	result.SemanticFallback = fallback
	return result, loadErr
}

// SelectRelaxed selects with no length bounds beyond the fragment minimum
// and no diversity weighting. It backs the last-resort fallback path.
func (s *Selector) SelectRelaxed(ctx context.Context, focus, realm int, persona string, desired int) (types.SelectionResult, error) {
	cfg := types.DefaultSelectionConfig()
	if desired > 0 {
		cfg.DesiredCount = desired
	}
	cfg.MinLength = 0
	cfg.MaxLength = 0
	cfg.DiversityWeight = 0
	return s.Select(ctx, focus, realm, persona, cfg)
}

func (s *Selector) candidates(ctx context.Context, focus, realm int, persona string) ([]types.ScoredCandidate, bool, error) {
	sources := []struct {
		axis   int
		origin types.RecordType
	}{
		{focus, types.RecordFocus},
		{realm, types.RecordRealm},
	}

	var (
		out      []types.ScoredCandidate
		fallback bool
		errs     []error
	)
	pos := 0
	for _, src := range sources {
		records, err := s.loader.Load(ctx, persona, src.axis, src.origin)
		if err != nil {
			if !errors.Is(err, corpus.ErrNotFound) {
				errs = append(errs, fmt.Errorf("loading %s axis %d: %w", src.origin, src.axis, err))
			}
			continue
		}
		primary := src.origin == types.RecordFocus
		for _, rec := range records {
			for _, sentence := range SplitSentences(rec.Text) {
				d := s.scorer.Detail(ctx, sentence, persona, src.axis, primary)
				fallback = fallback || d.SemanticFallback
				out = append(out, types.ScoredCandidate{
					Text:           sentence,
					RelevanceScore: d.Total,
					SourceID:       rec.SourceID,
					Category:       rec.Category,
					PositionIndex:  pos,
					Origin:         src.origin,
				})
				pos++
			}
		}
	}
	return out, fallback, errors.Join(errs...)
}

// diversify walks ranked candidates and accepts those whose weighted score
// plus diversity bonus clears the threshold, always accepting the first
// few. Any shortfall is backfilled from the best unused candidates.
func diversify(ranked []types.ScoredCandidate, cfg types.SelectionConfig) []types.ScoredCandidate {
	var (
		chosen     []types.ScoredCandidate
		used       = make([]bool, len(ranked))
		sources    = make(map[string]bool)
		categories = make(map[string]bool)
	)

	for i, c := range ranked {
		if len(chosen) >= cfg.DesiredCount {
			break
		}
		bonus := 0.0
		if !sources[c.SourceID] {
			bonus += newSourceBonus
		}
		if c.Category != "" && !categories[c.Category] {
			bonus += newCategoryBonus
		}
		combined := cfg.RelevanceWeight*c.RelevanceScore + cfg.DiversityWeight*bonus
		if combined > acceptThreshold || len(chosen) < minimumAccepted {
			chosen = append(chosen, c)
			used[i] = true
			sources[c.SourceID] = true
			if c.Category != "" {
				categories[c.Category] = true
			}
		}
	}

	for i, c := range ranked {
		if len(chosen) >= cfg.DesiredCount {
			break
		}
		if !used[i] {
			chosen = append(chosen, c)
			used[i] = true
		}
	}
	return chosen
}

func summarize(chosen []types.ScoredCandidate, considered int, elapsed time.Duration) types.SelectionResult {
	result := types.SelectionResult{
		CandidateCount: considered,
		Elapsed:        elapsed,
	}
	seen := make(map[string]bool)
	scores := make([]float64, 0, len(chosen))
	for _, c := range chosen {
		result.Sentences = append(result.Sentences, c.Text)
		scores = append(scores, c.RelevanceScore)
		if c.SourceID != "" && !seen[c.SourceID] {
			seen[c.SourceID] = true
			result.SourceIDs = append(result.SourceIDs, c.SourceID)
		}
	}
	if mean, err := stats.Mean(scores); err == nil {
		result.AverageScore = mean
	}
	return result
}
