// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fusion

import (
	"math/rand/v2"
	"sync"
)

// RandomSource picks indexes for template and sentence choice.
type RandomSource interface {
	// IntN returns a value in [0,n). n is always positive.
	IntN(n int) int
}

// processSource draws from the process-wide generator.
type processSource struct{}

func (processSource) IntN(n int) int { return rand.IntN(n) }

// seededSource is a seeded generator guarded for concurrent use.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a reproducible source for seed.
func NewRandomSource(seed uint64) RandomSource {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
