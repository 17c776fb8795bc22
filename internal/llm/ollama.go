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

// OllamaClient calls a local Ollama server.
type OllamaClient struct {
	cfg      types.ModelConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient returns a client for cfg.Endpoint.
func NewOllamaClient(cfg types.ModelConfig, observer Observer) *OllamaClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &OllamaClient{cfg: cfg, http: newHTTPClient(), observer: observer}
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Provider returns "ollama".
func (c *OllamaClient) Provider() string { return "ollama" }

// Generate calls POST /api/generate without streaming.
func (c *OllamaClient) Generate(ctx context.Context, p Prompt) (Completion, error) {
	start := time.Now()
	body := ollamaGenerateRequest{
		Model:  c.cfg.Model,
		System: p.System,
		Prompt: p.User,
		Options: ollamaOptions{
			Temperature: firstNonZero(p.Temperature, c.cfg.Temperature),
			NumPredict:  int(firstNonZero(float64(p.MaxTokens), float64(c.cfg.MaxTokens))),
		},
	}

	var resp ollamaGenerateResponse
	err := c.post(ctx, "/api/generate", body, &resp)
	if err == nil && strings.TrimSpace(resp.Response) == "" {
		err = ErrEmptyOutput
	}

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
	return Completion{Text: strings.TrimSpace(resp.Response), Model: resp.Model, Latency: latency}, nil
}

// Embed calls POST /api/embeddings with the configured model.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float64, error) {
	var resp ollamaEmbedResponse
	if err := c.post(ctx, "/api/embeddings", ollamaEmbedRequest{Model: c.cfg.Model, Prompt: text}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, ErrEmptyOutput
	}
	return resp.Embedding, nil
}

// WithModel returns a copy of the client that uses model.
func (c *OllamaClient) WithModel(model string) *OllamaClient {
	cp := *c
	cp.cfg.Model = model
	return &cp
}

// Available checks GET /api/tags.
func (c *OllamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *OllamaClient) post(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(ctx, fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama %d: %s", ErrBadStatus, resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func firstNonZero(a, b float64) float64 {
	if a != 0 {
		return a
	}
	return b
}
