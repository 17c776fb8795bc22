// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import "errors"

var (
	// ErrUnavailable indicates the model server could not be reached.
	ErrUnavailable = errors.New("model server unavailable")

	// ErrTimeout indicates the request outlived its context.
	ErrTimeout = errors.New("model request timed out")

	// ErrEmptyOutput indicates the model returned no text.
	ErrEmptyOutput = errors.New("model returned empty output")

	// ErrBadStatus indicates a non-200 response after retries.
	ErrBadStatus = errors.New("model returned error status")

	// ErrUnknownProvider indicates a provider name New does not recognise.
	ErrUnknownProvider = errors.New("unknown model provider")
)
