// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Dimension weights for the overall evaluation score.
const (
	WeightAuthenticity    = 0.30
	WeightPersonaFidelity = 0.25
	WeightCoherence       = 0.20
	WeightPracticality    = 0.15
	WeightBrandAlignment  = 0.10
)

// EvaluationDimensions holds the five independent quality scores, each in [0,1].
type EvaluationDimensions struct {
	Authenticity    float64 `json:"authenticity" yaml:"authenticity"`
	PersonaFidelity float64 `json:"persona_fidelity" yaml:"persona_fidelity"`
	Coherence       float64 `json:"coherence" yaml:"coherence"`
	Practicality    float64 `json:"practicality" yaml:"practicality"`
	BrandAlignment  float64 `json:"brand_alignment" yaml:"brand_alignment"`
}

// Overall returns the fixed weighted sum of the dimensions.
func (d EvaluationDimensions) Overall() float64 {
	return WeightAuthenticity*d.Authenticity +
		WeightPersonaFidelity*d.PersonaFidelity +
		WeightCoherence*d.Coherence +
		WeightPracticality*d.Practicality +
		WeightBrandAlignment*d.BrandAlignment
}

// Grade is a letter grade derived from the overall score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeFor maps an overall score to its letter grade.
func GradeFor(score float64) Grade {
	switch {
	case score >= 0.90:
		return GradeA
	case score >= 0.80:
		return GradeB
	case score >= 0.70:
		return GradeC
	case score >= 0.60:
		return GradeD
	default:
		return GradeF
	}
}

// EvaluationResult is the verdict for one synthesized passage.
type EvaluationResult struct {
	Dimensions      EvaluationDimensions `json:"dimensions" yaml:"dimensions"`
	OverallScore    float64              `json:"overall_score" yaml:"overall_score"`
	Grade           Grade                `json:"grade" yaml:"grade"`
	PassesThreshold bool                 `json:"passes_threshold" yaml:"passes_threshold"`
	Recommendations []string             `json:"recommendations" yaml:"recommendations"`
}
