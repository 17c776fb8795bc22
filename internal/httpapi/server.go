// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi exposes the pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/insight-engine/internal/evaluate"
	"github.com/pdiddy/insight-engine/internal/pipeline"
	"github.com/pdiddy/insight-engine/pkg/types"
)

const maxBodyBytes = 1 << 20

// Service is the subset of the pipeline the HTTP surface calls.
type Service interface {
	Generate(ctx context.Context, req types.InsightRequest) types.InsightResult
	Select(ctx context.Context, focus, realm int, persona string) (types.SelectionResult, error)
	Evaluate(text string, fragments []string, persona string) (types.EvaluationResult, error)
	Stats() pipeline.Stats
}

// Server routes requests to a Service.
type Server struct {
	svc      Service
	deadline time.Duration
	logger   *slog.Logger
	router   *chi.Mux
}

// NewServer returns a server whose insight requests run under deadline.
// A zero deadline leaves requests bounded only by the client.
func NewServer(svc Service, deadline time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, deadline: deadline, logger: logger, router: chi.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/insights", s.handleInsight)
		r.Post("/selections", s.handleSelection)
		r.Post("/evaluations", s.handleEvaluation)
		r.Get("/stats", s.handleStats)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	var req types.InsightRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.FocusAxis <= 0 || req.RealmAxis <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("focus_axis and realm_axis must be positive"))
		return
	}

	ctx := r.Context()
	if s.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deadline)
		defer cancel()
	}
	res := s.svc.Generate(ctx, req)
	s.logger.Info("insight served",
		"request_id", middleware.GetReqID(r.Context()),
		"method", res.Method,
		"quality", res.QualityScore,
		"latency", res.Latency,
	)
	writeJSON(w, http.StatusOK, res)
}

type selectionRequest struct {
	FocusAxis int    `json:"focus_axis"`
	RealmAxis int    `json:"realm_axis"`
	Persona   string `json:"persona"`
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.svc.Select(r.Context(), req.FocusAxis, req.RealmAxis, req.Persona)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type evaluationRequest struct {
	Text      string   `json:"text"`
	Fragments []string `json:"fragments"`
	Persona   string   `json:"persona"`
}

// handleEvaluation reports the full result even when a floor fails; the
// floor error only changes passes_threshold.
func (s *Server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	var req evaluationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	res, err := s.svc.Evaluate(req.Text, req.Fragments, req.Persona)
	if err != nil && !errors.Is(err, evaluate.ErrQualityBelowFloor) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
