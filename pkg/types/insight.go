// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// InsightRequest is the normalized prompt handed to every backend.
type InsightRequest struct {
	FocusAxis    int               `json:"focus_axis" yaml:"focus_axis"`
	RealmAxis    int               `json:"realm_axis" yaml:"realm_axis"`
	Persona      string            `json:"persona" yaml:"persona"`
	MaxSentences int               `json:"max_sentences" yaml:"max_sentences"`
	FocusArea    string            `json:"focus_area,omitempty" yaml:"focus_area,omitempty"`
	UserContext  map[string]string `json:"user_context,omitempty" yaml:"user_context,omitempty"`
}

// InsightResult is the final output of the backend chain.
type InsightResult struct {
	Text         string            `json:"text" yaml:"text"`
	Method       string            `json:"method" yaml:"method"`
	QualityScore float64           `json:"quality_score" yaml:"quality_score"`
	Latency      time.Duration     `json:"latency" yaml:"latency"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Equal compares two results on text, method, quality score, and latency.
// Metadata is diagnostic and excluded.
func (r InsightResult) Equal(other InsightResult) bool {
	return r.Text == other.Text &&
		r.Method == other.Method &&
		r.QualityScore == other.QualityScore &&
		r.Latency == other.Latency
}
