// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry carries engine events to a sink without blocking the
// request path.
package telemetry

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// Event names emitted by the engine.
const (
	EventWarmup        = "backend_warmup"
	EventAttempt       = "backend_attempt"
	EventAccepted      = "insight_accepted"
	EventFallback      = "insight_fallback"
	EventDeadlineSkip  = "deadline_skip"
	EventEngineStopped = "engine_shutdown"
)

// Event is one telemetry record.
type Event struct {
	Name   string
	Fields map[string]any
}

// Sink receives events. Emit must not block.
type Sink interface {
	Emit(e Event)
}

// NoopSink discards events.
type NoopSink struct{}

func (NoopSink) Emit(Event) {}

// LogSink writes events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink logging to logger, or the default logger when nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(e Event) {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.Fields[k]))
	}
	s.logger.LogAttrs(context.Background(), slog.LevelInfo, e.Name, attrs...)
}

// MemorySink keeps events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (s *MemorySink) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Events returns a copy of the recorded events.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Named returns the recorded events with the given name.
func (s *MemorySink) Named(name string) []Event {
	var out []Event
	for _, e := range s.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// AsyncSink forwards events to another sink from a single goroutine.
// Events are dropped when the buffer is full or the sink is closed.
type AsyncSink struct {
	next    Sink
	ch      chan Event
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewAsyncSink starts the drain goroutine. size defaults to 256.
func NewAsyncSink(next Sink, size int) *AsyncSink {
	if size <= 0 {
		size = 256
	}
	s := &AsyncSink{next: next, ch: make(chan Event, size), done: make(chan struct{})}
	go s.drain()
	return s
}

func (s *AsyncSink) drain() {
	defer close(s.done)
	for e := range s.ch {
		s.next.Emit(e)
	}
}

// Emit queues e without blocking.
func (s *AsyncSink) Emit(e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.ch <- e:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of events discarded so far.
func (s *AsyncSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close stops accepting events and waits for queued ones to be delivered.
// It is safe to call more than once.
func (s *AsyncSink) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
	<-s.done
}
