// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chain

import "errors"

var (
	// ErrBackendTimeout indicates a backend exceeded its latency budget.
	ErrBackendTimeout = errors.New("backend timed out")

	// ErrBackendError indicates a backend failed to produce output.
	ErrBackendError = errors.New("backend failed")

	// ErrAllBackendsExhausted indicates no backend produced an accepted
	// result. Generate never returns it; it is logged before the legacy
	// fallback runs.
	ErrAllBackendsExhausted = errors.New("all backends exhausted")
)
