// Package server exposes the decision pipeline over HTTP with a small
// JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"praxis/internal/analyzer"
	"praxis/internal/domain"
	"praxis/internal/engine"
	"praxis/internal/knowledge"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// Server holds the wired pipeline behind the HTTP handlers.
type Server struct {
	log      *zap.Logger
	kb       *knowledge.Base
	engine   *engine.DecisionEngine
	analyzer *analyzer.GapAnalyzer
}

// New creates a server over an already-wired pipeline.
func New(log *zap.Logger, kb *knowledge.Base, eng *engine.DecisionEngine, gap *analyzer.GapAnalyzer) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log, kb: kb, engine: eng, analyzer: gap}
}

// Handler builds the route table:
//
//	GET  /health
//	GET  /api/principles
//	GET  /api/sops
//	POST /api/analyze
//	POST /api/history
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/principles", s.handlePrinciples)
	mux.HandleFunc("/api/sops", s.handleSOPs)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/history", s.handleHistory)
	return s.logRequests(mux)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info("http server listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"principles": len(s.kb.Principles),
		"sops":       len(s.kb.SOPs),
	})
}

func (s *Server) handlePrinciples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.kb.Principles)
}

func (s *Server) handleSOPs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.kb.SOPs)
}

type analyzeRequest struct {
	ID          string                  `json:"id,omitempty"`
	Description string                  `json:"description"`
	Context     domain.SituationContext `json:"context,omitempty"`
	Stakes      domain.Stakes           `json:"stakes,omitempty"`
	Domain      domain.LifeDomain       `json:"domain,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	situation := &domain.Situation{
		ID:          req.ID,
		Description: req.Description,
		Context:     req.Context,
		Stakes:      req.Stakes,
		Domain:      req.Domain,
		Tags:        req.Tags,
	}

	result, err := s.engine.Evaluate(r.Context(), situation)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		s.log.Error("evaluate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var hist domain.HistoricalSituation
	if err := decodeBody(w, r, &hist); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if hist.ID == "" {
		hist.ID = uuid.NewString()
	}

	report, err := s.analyzer.Analyze(r.Context(), &hist)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		s.log.Error("analyze failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing to do.
		_ = err
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
