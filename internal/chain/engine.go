// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chain runs generative backends in priority order under latency
// budgets and a quality gate, with a fallback that always answers.
package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/insight-engine/internal/backend"
	"github.com/pdiddy/insight-engine/internal/evaluate"
	"github.com/pdiddy/insight-engine/internal/persona"
	"github.com/pdiddy/insight-engine/internal/telemetry"
	"github.com/pdiddy/insight-engine/pkg/types"
)

const (
	defaultBackendTimeout  = 5 * time.Second
	defaultDeadlineReserve = 250 * time.Millisecond
)

// Attempt outcomes reported in telemetry.
const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeSlow     = "too_slow"
	outcomeTimeout  = "timeout"
	outcomeError    = "error"
	outcomeNotReady = "not_ready"
)

// Gate grades a backend's text. *evaluate.Evaluator satisfies it.
type Gate interface {
	Evaluate(text string, fragments []string, persona string) (types.EvaluationResult, error)
}

// Deps are the collaborators of an Engine. Zero values get defaults: the
// built-in evaluator, a corpus-free legacy fallback, no telemetry, and the
// default logger.
type Deps struct {
	Gate   Gate
	Legacy *backend.Legacy
	Sink   telemetry.Sink
	Logger *slog.Logger
}

// Engine tries backends in priority order. Generate is safe for concurrent
// use.
type Engine struct {
	cfg      types.ChainConfig
	backends []backend.Backend
	gate     Gate
	legacy   *backend.Legacy
	sink     telemetry.Sink
	logger   *slog.Logger

	state    atomic.Int32
	inflight atomic.Int32
	stopOnce sync.Once
}

// New returns an idle engine. Backend order is fixed here: higher priority
// first, registration order among equals.
func New(cfg types.ChainConfig, deps Deps, backends ...backend.Backend) *Engine {
	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = defaultBackendTimeout
	}
	if cfg.DeadlineReserve <= 0 {
		cfg.DeadlineReserve = defaultDeadlineReserve
	}
	if deps.Gate == nil {
		deps.Gate = evaluate.NewEvaluator(nil, types.DefaultEvaluationConfig())
	}
	if deps.Legacy == nil {
		deps.Legacy = backend.NewLegacy(nil, nil)
	}
	if deps.Sink == nil {
		deps.Sink = telemetry.NoopSink{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	ordered := append([]backend.Backend(nil), backends...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() > ordered[j].Priority()
	})

	return &Engine{
		cfg:      cfg,
		backends: ordered,
		gate:     deps.Gate,
		legacy:   deps.Legacy,
		sink:     deps.Sink,
		logger:   deps.Logger,
	}
}

// State returns the engine lifecycle state. A ready engine reports
// StateGenerating while any request is in flight.
func (e *Engine) State() State {
	s := State(e.state.Load())
	if s == StateReady && e.inflight.Load() > 0 {
		return StateGenerating
	}
	return s
}

// Backends returns the backend IDs in the order they are tried.
func (e *Engine) Backends() []string {
	ids := make([]string, len(e.backends))
	for i, b := range e.backends {
		ids[i] = b.ID()
	}
	return ids
}

// Warmup runs every backend's warmup hook. Failures are logged and leave
// that backend not ready; the engine becomes Ready regardless. Only the
// first call from Idle has any effect.
func (e *Engine) Warmup(ctx context.Context) {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateWarming)) {
		return
	}
	for _, b := range e.backends {
		start := time.Now()
		err := b.Warmup(ctx)
		fields := map[string]any{
			"backend":    b.ID(),
			"ready":      b.IsReady(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			fields["error"] = err.Error()
			e.logger.Warn("backend warmup failed", "backend", b.ID(), "error", err)
		}
		e.sink.Emit(telemetry.Event{Name: telemetry.EventWarmup, Fields: fields})
	}
	e.state.CompareAndSwap(int32(StateWarming), int32(StateReady))
}

// Shutdown releases every backend. Later calls do nothing.
func (e *Engine) Shutdown() {
	e.stopOnce.Do(func() {
		for _, b := range e.backends {
			b.Shutdown()
		}
		e.state.Store(int32(StateStopped))
		e.sink.Emit(telemetry.Event{Name: telemetry.EventEngineStopped})
	})
}

// Generate returns an insight for req. It always returns a usable result:
// when no backend is accepted the legacy fallback answers.
func (e *Engine) Generate(ctx context.Context, req types.InsightRequest) types.InsightResult {
	start := time.Now()
	e.inflight.Add(1)
	defer e.inflight.Add(-1)

	req = normalize(req)
	requestID := uuid.NewString()

	var lastErr error
	for _, b := range e.backends {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		if !e.hasBudget(ctx) {
			lastErr = fmt.Errorf("%w: deadline reserve reached before %s", ErrBackendTimeout, b.ID())
			e.sink.Emit(telemetry.Event{Name: telemetry.EventDeadlineSkip, Fields: map[string]any{
				"request_id": requestID,
				"backend":    b.ID(),
			}})
			break
		}
		if !b.IsReady() {
			e.emitAttempt(requestID, b.ID(), outcomeNotReady, 0, nil, nil)
			continue
		}

		res, err := e.attempt(ctx, requestID, b, req)
		if err == nil {
			res.Latency = time.Since(start)
			return res
		}
		lastErr = err
	}

	return e.fallback(ctx, requestID, req, start, lastErr)
}

// attempt runs one backend under its budget and gates the output. A nil
// error means the result is accepted.
func (e *Engine) attempt(ctx context.Context, requestID string, b backend.Backend, req types.InsightRequest) (types.InsightResult, error) {
	bctx, cancel := context.WithTimeout(ctx, e.budget(ctx))
	defer cancel()

	callStart := time.Now()
	gen, err := call(bctx, b, req)
	latency := time.Since(callStart)

	if err != nil {
		outcome := outcomeError
		if errors.Is(err, ErrBackendTimeout) {
			outcome = outcomeTimeout
		}
		e.emitAttempt(requestID, b.ID(), outcome, latency, nil, err)
		return types.InsightResult{}, err
	}

	eval, evalErr := e.gate.Evaluate(gen.Text, gen.Fragments, req.Persona)
	maxLatency := e.maxLatency(b.ID())

	switch {
	case !eval.PassesThreshold || evalErr != nil:
		if evalErr == nil {
			evalErr = fmt.Errorf("%s: overall %.2f below threshold", b.ID(), eval.OverallScore)
		}
		e.emitAttempt(requestID, b.ID(), outcomeRejected, latency, &eval, evalErr)
		return types.InsightResult{}, evalErr
	case latency > maxLatency:
		err := fmt.Errorf("%w: %s took %s, limit %s", ErrBackendTimeout, b.ID(), latency, maxLatency)
		e.emitAttempt(requestID, b.ID(), outcomeSlow, latency, &eval, err)
		return types.InsightResult{}, err
	}

	e.emitAttempt(requestID, b.ID(), outcomeAccepted, latency, &eval, nil)
	md := resultMetadata(gen, requestID, StateAccepted, eval)
	e.sink.Emit(telemetry.Event{Name: telemetry.EventAccepted, Fields: map[string]any{
		"request_id":         requestID,
		"method":             b.ID(),
		"quality":            eval.OverallScore,
		"backend_latency_ms": gen.Latency.Milliseconds(),
	}})
	return types.InsightResult{
		Text:         gen.Text,
		Method:       b.ID(),
		QualityScore: eval.OverallScore,
		Metadata:     md,
	}, nil
}

// call runs b.Generate and stops waiting when ctx ends, so a backend that
// ignores cancellation cannot overrun its budget.
func call(ctx context.Context, b backend.Backend, req types.InsightRequest) (backend.Generation, error) {
	type outcome struct {
		gen backend.Generation
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		gen, err := b.Generate(ctx, req)
		done <- outcome{gen, err}
	}()

	select {
	case o := <-done:
		switch {
		case o.err != nil && ctx.Err() != nil:
			return backend.Generation{}, fmt.Errorf("%w: %s: %v", ErrBackendTimeout, b.ID(), o.err)
		case o.err != nil:
			return backend.Generation{}, fmt.Errorf("%w: %s: %v", ErrBackendError, b.ID(), o.err)
		case strings.TrimSpace(o.gen.Text) == "":
			return backend.Generation{}, fmt.Errorf("%w: %s: empty text", ErrBackendError, b.ID())
		}
		return o.gen, nil
	case <-ctx.Done():
		return backend.Generation{}, fmt.Errorf("%w: %s: %v", ErrBackendTimeout, b.ID(), ctx.Err())
	}
}

func (e *Engine) fallback(ctx context.Context, requestID string, req types.InsightRequest, start time.Time, cause error) types.InsightResult {
	err := ErrAllBackendsExhausted
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrAllBackendsExhausted, cause)
	}
	e.logger.Warn("using legacy fallback", "request_id", requestID, "error", err)

	lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.DeadlineReserve)
	defer cancel()
	gen := e.legacy.Generate(lctx, req)

	eval, _ := e.gate.Evaluate(gen.Text, gen.Fragments, req.Persona)
	md := resultMetadata(gen, requestID, StateExhausted, eval)
	if cause != nil {
		md["fallback_reason"] = cause.Error()
	}
	e.sink.Emit(telemetry.Event{Name: telemetry.EventFallback, Fields: map[string]any{
		"request_id":         requestID,
		"quality":            eval.OverallScore,
		"reason":             md["fallback_reason"],
		"backend_latency_ms": gen.Latency.Milliseconds(),
	}})
	return types.InsightResult{
		Text:         gen.Text,
		Method:       backend.LegacyID,
		QualityScore: eval.OverallScore,
		Latency:      time.Since(start),
		Metadata:     md,
	}
}

// hasBudget reports whether more than the deadline reserve remains.
func (e *Engine) hasBudget(ctx context.Context) bool {
	deadline, ok := ctx.Deadline()
	return !ok || time.Until(deadline) > e.cfg.DeadlineReserve
}

// budget is the backend timeout, shortened so the reserve survives.
func (e *Engine) budget(ctx context.Context) time.Duration {
	d := e.cfg.BackendTimeout
	if deadline, ok := ctx.Deadline(); ok {
		d = min(d, time.Until(deadline)-e.cfg.DeadlineReserve)
	}
	return d
}

func (e *Engine) maxLatency(id string) time.Duration {
	if d, ok := e.cfg.MaxLatency[id]; ok && d > 0 {
		return d
	}
	return e.cfg.BackendTimeout
}

func (e *Engine) emitAttempt(requestID, id, outcome string, latency time.Duration, eval *types.EvaluationResult, err error) {
	fields := map[string]any{
		"request_id": requestID,
		"backend":    id,
		"outcome":    outcome,
		"latency_ms": latency.Milliseconds(),
	}
	if eval != nil {
		fields["quality"] = eval.OverallScore
		fields["grade"] = string(eval.Grade)
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	e.sink.Emit(telemetry.Event{Name: telemetry.EventAttempt, Fields: fields})
}

// resultMetadata merges the generation's metadata with the request id,
// final state, grade and the backend's self-reported latency.
func resultMetadata(gen backend.Generation, requestID string, state State, eval types.EvaluationResult) map[string]string {
	md := make(map[string]string, len(gen.Metadata)+5)
	for k, v := range gen.Metadata {
		md[k] = v
	}
	md["backend_latency_ms"] = strconv.FormatInt(gen.Latency.Milliseconds(), 10)
	md["request_id"] = requestID
	md["state"] = state.String()
	md["grade"] = string(eval.Grade)
	md["passes_threshold"] = strconv.FormatBool(eval.PassesThreshold)
	return md
}

func normalize(req types.InsightRequest) types.InsightRequest {
	req.Persona = strings.ToLower(strings.TrimSpace(req.Persona))
	if req.Persona == "" {
		req.Persona = persona.DefaultID
	}
	return req
}
