// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend defines the generator contract used by the chain engine
// and its template, model, and legacy implementations.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// ErrNotReady is returned by Generate on a backend that is not ready.
var ErrNotReady = errors.New("backend not ready")

// Generation is the raw output of one backend call.
type Generation struct {
	Text string

	// Fragments are the corpus sentences the text was built from. The
	// evaluator measures coherence against them.
	Fragments []string

	Latency  time.Duration
	Metadata map[string]string
}

// Backend is one generator in the chain.
type Backend interface {
	ID() string

	// Priority orders backends; higher runs first.
	Priority() int

	IsReady() bool

	// Warmup prepares the backend. Failures leave it not ready.
	Warmup(ctx context.Context) error

	Generate(ctx context.Context, req types.InsightRequest) (Generation, error)

	// Shutdown releases resources. It must be idempotent.
	Shutdown()
}

// Selector is the part of selection.Selector the backends use.
type Selector interface {
	Select(ctx context.Context, focus, realm int, persona string, cfg types.SelectionConfig) (types.SelectionResult, error)
	SelectRelaxed(ctx context.Context, focus, realm int, persona string, desired int) (types.SelectionResult, error)
}
