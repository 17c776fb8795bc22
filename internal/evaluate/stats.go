// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"sync"

	"github.com/montanaflynn/stats"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// recentWindow is the number of recent overall scores kept for the median.
const recentWindow = 100

// Stats aggregates evaluation outcomes. It is diagnostic only.
type Stats struct {
	mu      sync.Mutex
	count   int
	passed  int
	average float64
	grades  map[types.Grade]int
	recent  []float64
	next    int
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Count        int                 `json:"count"`
	Passed       int                 `json:"passed"`
	PassRate     float64             `json:"pass_rate"`
	AverageScore float64             `json:"average_score"`
	RecentMedian float64             `json:"recent_median"`
	Grades       map[types.Grade]int `json:"grades"`
}

// NewStats returns an empty aggregate.
func NewStats() *Stats {
	return &Stats{grades: make(map[types.Grade]int)}
}

func (s *Stats) record(r types.EvaluationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if r.PassesThreshold {
		s.passed++
	}
	s.average += (r.OverallScore - s.average) / float64(s.count)
	s.grades[r.Grade]++

	if len(s.recent) < recentWindow {
		s.recent = append(s.recent, r.OverallScore)
	} else {
		s.recent[s.next] = r.OverallScore
	}
	s.next = (s.next + 1) % recentWindow
}

// Snapshot copies the current aggregate.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Count:        s.count,
		Passed:       s.passed,
		AverageScore: s.average,
		Grades:       make(map[types.Grade]int, len(s.grades)),
	}
	if s.count > 0 {
		snap.PassRate = float64(s.passed) / float64(s.count)
	}
	if median, err := stats.Median(s.recent); err == nil {
		snap.RecentMedian = median
	}
	for g, n := range s.grades {
		snap.Grades[g] = n
	}
	return snap
}
