// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/insight-engine/pkg/types"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func ollamaConfig(url string) types.ModelConfig {
	return types.ModelConfig{Provider: "ollama", Endpoint: url + "/", Model: "llama3.2", MaxTokens: 128, Temperature: 0.4}
}

func TestOllamaGenerate(t *testing.T) {
	var got ollamaGenerateRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Model: "llama3.2", Response: "  Courage begins today.  "})
	}))
	defer ts.Close()

	obs := &recordingObserver{}
	c := NewOllamaClient(ollamaConfig(ts.URL), obs)
	out, err := c.Generate(context.Background(), Prompt{System: "be kind", User: "write"})
	require.NoError(t, err)

	assert.Equal(t, "Courage begins today.", out.Text)
	assert.Equal(t, "llama3.2", got.Model)
	assert.Equal(t, "be kind", got.System)
	assert.False(t, got.Stream)
	assert.Equal(t, 128, got.Options.NumPredict)
	assert.Equal(t, 0.4, got.Options.Temperature)
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
}

func TestOllamaGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			wantErr: ErrBadStatus,
		},
		{
			name: "empty output",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"model":"llama3.2","response":"   "}`))
			},
			wantErr: ErrEmptyOutput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			obs := &recordingObserver{}
			_, err := NewOllamaClient(ollamaConfig(ts.URL), obs).Generate(context.Background(), Prompt{User: "x"})
			assert.ErrorIs(t, err, tt.wantErr)
			require.Len(t, obs.events, 1)
			assert.False(t, obs.events[0].Success)
			assert.NotEmpty(t, obs.events[0].ErrorCode)
		})
	}
}

func TestOllamaTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"response":"late"}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewOllamaClient(ollamaConfig(ts.URL), nil).Generate(ctx, Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewOllamaClient(ollamaConfig(url), nil)
	_, err := c.Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, c.Available(context.Background()))
}

func TestOllamaEmbedAndAvailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Write([]byte(`{"models":[]}`))
		case "/api/embeddings":
			var req ollamaEmbedRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Model != "nomic-embed-text" {
				http.Error(w, "wrong model", http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := NewOllamaClient(ollamaConfig(ts.URL), nil)
	assert.True(t, c.Available(context.Background()))

	v, err := c.WithModel("nomic-embed-text").Embed(context.Background(), "quiet courage")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, v)

	_, err = c.Embed(context.Background(), "quiet courage")
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestClaudeGenerate(t *testing.T) {
	var got claudeRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"model":"claude-test","content":[{"type":"text","text":"Begin with one honest step."}]}`))
	}))
	defer ts.Close()

	old := ClaudeAPIURL
	ClaudeAPIURL = ts.URL
	defer func() { ClaudeAPIURL = old }()

	c := NewClaudeClient(types.ModelConfig{Model: "claude-test", APIKey: "test-key", MaxTokens: 300}, nil)
	assert.True(t, c.Available(context.Background()))

	out, err := c.Generate(context.Background(), Prompt{System: "sys", User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Begin with one honest step.", out.Text)
	assert.Equal(t, "claude-test", out.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.Equal(t, "sys", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestClaudeEmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[{"type":"tool_use"}]}`))
	}))
	defer ts.Close()

	old := ClaudeAPIURL
	ClaudeAPIURL = ts.URL
	defer func() { ClaudeAPIURL = old }()

	_, err := NewClaudeClient(types.ModelConfig{APIKey: "k"}, nil).Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrEmptyOutput)
	assert.False(t, NewClaudeClient(types.ModelConfig{}, nil).Available(context.Background()))
}

func TestNew(t *testing.T) {
	c, err := New(types.ModelConfig{Provider: "ollama"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.Provider())

	c, err = New(types.ModelConfig{Provider: "claude"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "claude", c.Provider())

	_, err = New(types.ModelConfig{Provider: "gpt"}, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
