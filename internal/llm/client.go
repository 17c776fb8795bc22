// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm talks to language models over HTTP: a local Ollama server or
// the Claude Messages API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// Prompt is one generation request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completion is the model's answer to a Prompt.
type Completion struct {
	Text    string
	Model   string
	Latency time.Duration
}

// Client generates text from a prompt.
type Client interface {
	// Provider names the backing service ("ollama", "claude").
	Provider() string

	// Generate sends the prompt and returns the raw text response.
	Generate(ctx context.Context, p Prompt) (Completion, error)

	// Available reports whether the service answers.
	Available(ctx context.Context) bool
}

// New builds the client named by cfg.Provider.
func New(cfg types.ModelConfig, observer Observer) (Client, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaClient(cfg, observer), nil
	case "claude":
		return NewClaudeClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
}

// classify maps a transport failure to a package sentinel.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrEmptyOutput):
		return "EMPTY_OUTPUT"
	case errors.Is(err, ErrBadStatus):
		return "BAD_STATUS"
	default:
		return "UNKNOWN"
	}
}
