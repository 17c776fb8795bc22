// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/insight-engine/internal/httputil"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// ClaudeAPIURL is the Messages API endpoint. Tests substitute it.
var ClaudeAPIURL = "https://api.anthropic.com/v1/messages"

const anthropicVersion = "2023-06-01"

// ClaudeClient calls the Claude Messages API.
type ClaudeClient struct {
	cfg      types.ModelConfig
	http     *http.Client
	observer Observer
}

// NewClaudeClient returns a client authenticated with cfg.APIKey.
func NewClaudeClient(cfg types.ModelConfig, observer Observer) *ClaudeClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ClaudeClient{cfg: cfg, http: newHTTPClient(), observer: observer}
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Model   string          `json:"model"`
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Provider returns "claude".
func (c *ClaudeClient) Provider() string { return "claude" }

// Generate sends one user message and returns the concatenated text blocks.
func (c *ClaudeClient) Generate(ctx context.Context, p Prompt) (Completion, error) {
	start := time.Now()
	text, model, err := c.call(ctx, p)
	latency := time.Since(start)

	c.observer.OnCallComplete(CallEvent{
		Provider:  c.Provider(),
		Model:     c.cfg.Model,
		Latency:   latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return Completion{}, err
	}
	return Completion{Text: text, Model: model, Latency: latency}, nil
}

func (c *ClaudeClient) call(ctx context.Context, p Prompt) (string, string, error) {
	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}
	body := claudeRequest{
		Model:       c.cfg.Model,
		MaxTokens:   maxTokens,
		System:      p.System,
		Temperature: firstNonZero(p.Temperature, c.cfg.Temperature),
		Messages:    []claudeMessage{{Role: "user", Content: p.User}},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ClaudeAPIURL, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return "", "", classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("%w: claude %d: %s", ErrBadStatus, resp.StatusCode, string(msg))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", "", classify(ctx, fmt.Errorf("decoding response: %w", err))
	}

	var parts []string
	for _, block := range cResp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			parts = append(parts, strings.TrimSpace(block.Text))
		}
	}
	if len(parts) == 0 {
		return "", "", ErrEmptyOutput
	}
	return strings.Join(parts, "\n"), cResp.Model, nil
}

// Available reports whether an API key is configured.
func (c *ClaudeClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
