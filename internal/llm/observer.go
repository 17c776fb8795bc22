// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"log/slog"
	"time"
)

// CallEvent records one model invocation.
type CallEvent struct {
	Provider  string
	Model     string
	Latency   time.Duration
	Success   bool
	ErrorCode string
}

// Observer receives model call events.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an Observer logging to logger, or to the default
// logger when nil.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"provider", e.Provider,
		"model", e.Model,
		"latency_ms", e.Latency.Milliseconds(),
		"success", e.Success,
	}
	if !e.Success {
		o.logger.Warn("llm_call", append(attrs, "error_code", e.ErrorCode)...)
		return
	}
	o.logger.Info("llm_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
