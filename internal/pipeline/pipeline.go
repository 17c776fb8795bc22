// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the corpus, scoring, selection, fusion,
// evaluation, backends, and chain engine into one instance.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pdiddy/insight-engine/internal/backend"
	"github.com/pdiddy/insight-engine/internal/chain"
	"github.com/pdiddy/insight-engine/internal/corpus"
	"github.com/pdiddy/insight-engine/internal/evaluate"
	"github.com/pdiddy/insight-engine/internal/fusion"
	"github.com/pdiddy/insight-engine/internal/llm"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/internal/scoring"
	"github.com/pdiddy/insight-engine/internal/selection"
	"github.com/pdiddy/insight-engine/internal/telemetry"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// Options overrides collaborators New would otherwise build from config.
type Options struct {
	// Store replaces the SQLite corpus store.
	Store corpus.Store

	// Logger defaults to a text handler on stderr.
	Logger *slog.Logger

	// Random seeds the template composer.
	Random fusion.RandomSource

	// Sink replaces the configured telemetry sink.
	Sink telemetry.Sink

	// Backends are registered in addition to the configured ones.
	Backends []backend.Backend
}

// Pipeline owns every long-lived object of one engine instance.
type Pipeline struct {
	cfg       types.PipelineConfig
	logger    *slog.Logger
	store     corpus.Store
	sqlite    *corpus.SQLiteStore
	cache     *corpus.Cache
	personas  *persona.Registry
	selector  *selection.Selector
	evaluator *evaluate.Evaluator
	engine    *chain.Engine
	sink      telemetry.Sink
	async     *telemetry.AsyncSink
}

// New builds a pipeline from cfg.
func New(cfg types.PipelineConfig, opts Options) (*Pipeline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	p := &Pipeline{cfg: cfg, logger: logger}

	p.personas = persona.NewRegistry()
	if cfg.Corpus.PersonasFile != "" {
		if err := p.personas.LoadFile(cfg.Corpus.PersonasFile); err != nil {
			return nil, fmt.Errorf("loading personas: %w", err)
		}
	}

	p.store = opts.Store
	if p.store == nil {
		s, err := corpus.NewSQLiteStore(cfg.Corpus)
		if err != nil {
			return nil, fmt.Errorf("opening corpus store: %w", err)
		}
		p.store, p.sqlite = s, s
	}
	p.cache = corpus.NewCache(p.store, cfg.Corpus.PrewarmConcurrency)

	embeddings, err := newEmbeddings(cfg)
	if err != nil {
		p.Close()
		return nil, err
	}
	scorer := scoring.NewScorer(p.personas, embeddings)
	p.selector = selection.NewSelector(p.cache, scorer)
	p.evaluator = evaluate.NewEvaluator(p.personas, cfg.Evaluation)

	p.sink = opts.Sink
	if p.sink == nil {
		p.sink = telemetry.NoopSink{}
		if cfg.Telemetry.Enabled {
			p.async = telemetry.NewAsyncSink(telemetry.NewLogSink(logger), cfg.Telemetry.BufferSize)
			p.sink = p.async
		}
	}

	backends := []backend.Backend{
		backend.NewTemplateBackend(p.selector, fusion.NewComposer(p.personas, opts.Random), cfg.Selection, backend.DefaultTemplatePriority),
	}
	if cfg.Model.Provider != "" {
		client, err := llm.New(cfg.Model, llm.NewLogObserver(logger))
		if err != nil {
			p.Close()
			return nil, err
		}
		priority := cfg.Model.Priority
		if priority <= 0 {
			priority = backend.DefaultModelPriority
		}
		backends = append(backends, backend.NewModelBackend(client, p.selector, p.personas, cfg.Selection, priority))
	}
	backends = append(backends, opts.Backends...)

	p.engine = chain.New(cfg.Chain, chain.Deps{
		Gate:   p.evaluator,
		Legacy: backend.NewLegacy(p.selector, p.personas),
		Sink:   p.sink,
		Logger: logger,
	}, backends...)
	return p, nil
}

func newEmbeddings(cfg types.PipelineConfig) (scoring.EmbeddingProvider, error) {
	switch cfg.Scoring.Embeddings {
	case "", "none":
		return nil, nil
	case "static":
		s, err := scoring.LoadStaticEmbeddings(cfg.Scoring.EmbeddingsFile)
		if err != nil {
			return nil, fmt.Errorf("loading embeddings: %w", err)
		}
		return s, nil
	case "ollama":
		client := llm.NewOllamaClient(cfg.Model, nil).WithModel(cfg.Scoring.EmbeddingModel)
		return scoring.NewEmbeddingCache(scoring.NewModelEmbeddings(client)), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Scoring.Embeddings)
	}
}

// Warmup prewarms the corpus cache for the configured personas and axes,
// then warms the backends. Unconfigured lists default to the keys present in
// the SQLite index, or to every registered persona and known axis.
func (p *Pipeline) Warmup(ctx context.Context) error {
	personas, axes, err := p.prewarmKeys(ctx)
	if err != nil {
		return err
	}
	if err := p.cache.Prewarm(ctx, personas, axes); err != nil {
		return fmt.Errorf("prewarming corpus: %w", err)
	}
	stats := p.cache.Stats()
	p.logger.Info("corpus prewarmed", "entries", stats.Entries, "personas", len(personas), "axes", len(axes))

	p.engine.Warmup(ctx)
	return nil
}

func (p *Pipeline) prewarmKeys(ctx context.Context) ([]string, []int, error) {
	personas, axes := p.cfg.Corpus.PrewarmPersonas, p.cfg.Corpus.PrewarmAxes
	if p.sqlite != nil && (len(personas) == 0 || len(axes) == 0) {
		indexed, indexedAxes, err := p.sqlite.Keys(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("listing corpus keys: %w", err)
		}
		if len(personas) == 0 {
			personas = indexed
		}
		if len(axes) == 0 {
			axes = indexedAxes
		}
	}
	if len(personas) == 0 {
		personas = p.personas.IDs()
	}
	if len(axes) == 0 {
		axes = persona.KnownAxes()
	}
	return personas, axes, nil
}

// Generate runs the backend chain. It always returns a result.
func (p *Pipeline) Generate(ctx context.Context, req types.InsightRequest) types.InsightResult {
	return p.engine.Generate(ctx, req)
}

// Select runs selection alone with the configured settings.
func (p *Pipeline) Select(ctx context.Context, focus, realm int, personaID string) (types.SelectionResult, error) {
	return p.selector.Select(ctx, focus, realm, personaID, p.cfg.Selection)
}

// Evaluate grades text with the pipeline's evaluator.
func (p *Pipeline) Evaluate(text string, fragments []string, personaID string) (types.EvaluationResult, error) {
	return p.evaluator.Evaluate(text, fragments, personaID)
}

// Stats is a diagnostic snapshot of the pipeline.
type Stats struct {
	Engine           string            `json:"engine"`
	Backends         []string          `json:"backends"`
	Evaluations      evaluate.Snapshot `json:"evaluations"`
	Cache            corpus.CacheStats `json:"cache"`
	TelemetryDropped int64             `json:"telemetry_dropped"`
}

// Stats returns the current diagnostics.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Engine:      p.engine.State().String(),
		Backends:    p.engine.Backends(),
		Evaluations: p.evaluator.Stats(),
		Cache:       p.cache.Stats(),
	}
	if p.async != nil {
		s.TelemetryDropped = p.async.Dropped()
	}
	return s
}

// Personas returns the persona registry.
func (p *Pipeline) Personas() *persona.Registry { return p.personas }

// Cache returns the corpus cache.
func (p *Pipeline) Cache() *corpus.Cache { return p.cache }

// SQLite returns the SQLite store, or nil when Options.Store replaced it.
func (p *Pipeline) SQLite() *corpus.SQLiteStore { return p.sqlite }

// Close shuts the engine down, flushes telemetry, and closes the store.
func (p *Pipeline) Close() error {
	if p.engine != nil {
		p.engine.Shutdown()
	}
	if p.async != nil {
		p.async.Close()
	}
	if p.sqlite != nil {
		return p.sqlite.Close()
	}
	return nil
}
