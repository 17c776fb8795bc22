// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CorpusConfig holds settings for the corpus store and cache.
type CorpusConfig struct {
	// Dir is the directory of curated YAML files (<persona>/<record-type>.yaml).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// IndexDir holds the SQLite database (corpus.db).
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`

	// PrewarmPersonas and PrewarmAxes define the cross product loaded at startup.
	PrewarmPersonas []string `json:"prewarm_personas,omitempty" yaml:"prewarm_personas,omitempty" mapstructure:"prewarm_personas"`
	PrewarmAxes     []int    `json:"prewarm_axes,omitempty" yaml:"prewarm_axes,omitempty" mapstructure:"prewarm_axes"`

	// PrewarmConcurrency bounds parallel store reads during prewarm (default 4).
	PrewarmConcurrency int `json:"prewarm_concurrency" yaml:"prewarm_concurrency" mapstructure:"prewarm_concurrency"`

	// PersonasFile optionally adds or overrides persona profiles (YAML).
	PersonasFile string `json:"personas_file,omitempty" yaml:"personas_file,omitempty" mapstructure:"personas_file"`
}

// ScoringConfig selects the embedding provider for semantic similarity.
type ScoringConfig struct {
	// Embeddings is "none", "static", or "ollama".
	Embeddings string `json:"embeddings" yaml:"embeddings" mapstructure:"embeddings"`

	// EmbeddingsFile is the YAML word-vector table used by the static provider.
	EmbeddingsFile string `json:"embeddings_file,omitempty" yaml:"embeddings_file,omitempty" mapstructure:"embeddings_file"`

	// EmbeddingModel is the Ollama embedding model (e.g. "nomic-embed-text").
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty" mapstructure:"embedding_model"`
}

// EvaluationConfig holds the quality gate thresholds. The defaults have no
// empirical derivation and are expected to be tuned.
type EvaluationConfig struct {
	PassThreshold        float64 `json:"pass_threshold" yaml:"pass_threshold" mapstructure:"pass_threshold"`
	AuthenticityFloor    float64 `json:"authenticity_floor" yaml:"authenticity_floor" mapstructure:"authenticity_floor"`
	PersonaFidelityFloor float64 `json:"persona_fidelity_floor" yaml:"persona_fidelity_floor" mapstructure:"persona_fidelity_floor"`
}

// ChainConfig holds per-backend budgets for the backend chain.
type ChainConfig struct {
	// BackendTimeout bounds a single backend call.
	BackendTimeout time.Duration `json:"backend_timeout" yaml:"backend_timeout" mapstructure:"backend_timeout"`

	// MaxLatency maps a backend ID to the highest latency at which its
	// output may still be accepted. Missing entries use BackendTimeout.
	MaxLatency map[string]time.Duration `json:"max_latency,omitempty" yaml:"max_latency,omitempty" mapstructure:"max_latency"`

	// DeadlineReserve is the time kept back for the guaranteed fallback
	// when the caller imposes an overall deadline.
	DeadlineReserve time.Duration `json:"deadline_reserve" yaml:"deadline_reserve" mapstructure:"deadline_reserve"`
}

// ModelConfig holds settings for the language-model backend.
type ModelConfig struct {
	// Provider is "ollama", "claude", or "" to disable the model backend.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Endpoint is the Ollama base URL.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Model is the model identifier.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates hosted providers.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxTokens caps the generated length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxRetries is the number of retry attempts for failed calls (default 1).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Priority overrides the model backend priority (default 100).
	Priority int `json:"priority" yaml:"priority" mapstructure:"priority"`
}

// TelemetryConfig controls event emission.
type TelemetryConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	BufferSize int  `json:"buffer_size" yaml:"buffer_size" mapstructure:"buffer_size"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	RequestDeadline time.Duration `json:"request_deadline" yaml:"request_deadline" mapstructure:"request_deadline"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Corpus     CorpusConfig     `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Selection  SelectionConfig  `json:"selection" yaml:"selection" mapstructure:"selection"`
	Scoring    ScoringConfig    `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Evaluation EvaluationConfig `json:"evaluation" yaml:"evaluation" mapstructure:"evaluation"`
	Chain      ChainConfig      `json:"chain" yaml:"chain" mapstructure:"chain"`
	Model      ModelConfig      `json:"model" yaml:"model" mapstructure:"model"`
	Telemetry  TelemetryConfig  `json:"telemetry" yaml:"telemetry" mapstructure:"telemetry"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultEvaluationConfig returns the quality gate defaults.
func DefaultEvaluationConfig() EvaluationConfig {
	return EvaluationConfig{
		PassThreshold:        0.80,
		AuthenticityFloor:    0.70,
		PersonaFidelityFloor: 0.75,
	}
}

// DefaultPipelineConfig returns a configuration that runs entirely offline:
// template backend only, no embeddings, telemetry to the log.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Corpus: CorpusConfig{
			Dir:                "corpus",
			IndexDir:           "index",
			PrewarmConcurrency: 4,
		},
		Selection:  DefaultSelectionConfig(),
		Scoring:    ScoringConfig{Embeddings: "none"},
		Evaluation: DefaultEvaluationConfig(),
		Chain: ChainConfig{
			BackendTimeout:  5 * time.Second,
			DeadlineReserve: 250 * time.Millisecond,
		},
		Model: ModelConfig{
			Endpoint:    "http://localhost:11434",
			Model:       "llama3.2",
			MaxTokens:   512,
			Temperature: 0.4,
			MaxRetries:  1,
			Priority:    100,
		},
		Telemetry: TelemetryConfig{Enabled: true, BufferSize: 256},
		Server: ServerConfig{
			Addr:            ":8080",
			RequestDeadline: 10 * time.Second,
		},
	}
}
