// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ScoredCandidate is a sentence extracted from a corpus record along with its
// relevance score. Candidates live only for the duration of one selection.
type ScoredCandidate struct {
	Text           string     `json:"text" yaml:"text"`
	RelevanceScore float64    `json:"relevance_score" yaml:"relevance_score"`
	SourceID       string     `json:"source_id" yaml:"source_id"`
	Category       string     `json:"category" yaml:"category"`
	PositionIndex  int        `json:"position_index" yaml:"position_index"`
	Origin         RecordType `json:"origin" yaml:"origin"`
}

// SelectionConfig tunes one selection request. The two weights are applied
// independently and need not sum to 1.
type SelectionConfig struct {
	// DesiredCount is the number of sentences to select (default 6).
	DesiredCount int `json:"desired_count" yaml:"desired_count" mapstructure:"desired_count"`

	// RelevanceWeight scales the candidate's relevance score.
	RelevanceWeight float64 `json:"relevance_weight" yaml:"relevance_weight" mapstructure:"relevance_weight"`

	// DiversityWeight scales the diversity bonus.
	DiversityWeight float64 `json:"diversity_weight" yaml:"diversity_weight" mapstructure:"diversity_weight"`

	// MinLength and MaxLength bound sentence length in characters.
	MinLength int `json:"min_length" yaml:"min_length" mapstructure:"min_length"`
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`
}

// DefaultSelectionConfig returns the selection settings used when a caller
// does not supply its own.
func DefaultSelectionConfig() SelectionConfig {
	return SelectionConfig{
		DesiredCount:    6,
		RelevanceWeight: 0.7,
		DiversityWeight: 0.3,
		MinLength:       20,
		MaxLength:       300,
	}
}

// SelectionResult holds the chosen sentences in selection order.
type SelectionResult struct {
	Sentences      []string      `json:"sentences" yaml:"sentences"`
	CandidateCount int           `json:"candidate_count" yaml:"candidate_count"`
	Elapsed        time.Duration `json:"elapsed" yaml:"elapsed"`
	AverageScore   float64       `json:"average_score" yaml:"average_score"`
	SourceIDs      []string      `json:"source_ids" yaml:"source_ids"`

	// SemanticFallback is set when any candidate was scored without an
	// embedding.
	SemanticFallback bool `json:"semantic_fallback,omitempty" yaml:"semantic_fallback,omitempty"`
}

// IsEmpty reports whether no sentence was selected.
func (r SelectionResult) IsEmpty() bool {
	return len(r.Sentences) == 0
}

// FusedPassage is the output of the fusion composer.
type FusedPassage struct {
	Text       string        `json:"text" yaml:"text"`
	Technique  string        `json:"technique" yaml:"technique"`
	Confidence float64       `json:"confidence" yaml:"confidence"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
}
