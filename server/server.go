// Package server exposes session engines over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

// Options configures the HTTP surface.
type Options struct {
	// NewBackend builds the analysis backend for each new session.
	// Nil uses the portable backend.
	NewBackend func() mirasdk.AnalysisBackend
	// Persister stores session profiles; nil keeps sessions in memory.
	Persister *mirasdk.ProfilePersister
	// Chat generates replies for /respond; nil always answers offline.
	Chat mirasdk.ChatBackend
	// Engine is the template config; Namespace is set to the session id.
	Engine mirasdk.EngineConfig
}

type session struct {
	mu     sync.Mutex
	engine *mirasdk.Engine
}

// Server holds one engine per session.
type Server struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*session

	// shared engine for the sessionless endpoints
	utilMu sync.Mutex
	util   *mirasdk.Engine
}

// New creates a server.
func New(opts Options) (*Server, error) {
	util, err := mirasdk.NewEngine(newBackend(opts), nil, opts.Engine)
	if err != nil {
		return nil, err
	}
	return &Server{
		opts:     opts,
		sessions: make(map[string]*session),
		util:     util,
	}, nil
}

func newBackend(opts Options) mirasdk.AnalysisBackend {
	if opts.NewBackend == nil {
		return nil
	}
	return opts.NewBackend()
}

// Router returns the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/humanize", s.handleHumanize)
	r.Get("/offline", s.handleOffline)
	r.Get("/riddle", s.handleRiddle)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleCloseSession)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/respond", s.handleRespond)
			r.Get("/expression", s.handleExpression)
			r.Get("/trend", s.handleTrend)
			r.Get("/prompt", s.handlePrompt)
			r.Get("/history", s.handleHistory)
		})
	})
	return r
}

// Close flushes and releases every session.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	var errs []error
	for id, sess := range sessions {
		sess.mu.Lock()
		if err := sess.engine.Close(ctx); err != nil {
			log.Printf("[Server] close session %s: %v", id, err)
			errs = append(errs, err)
		}
		sess.mu.Unlock()
	}
	errs = append(errs, s.util.Close(ctx))
	return errors.Join(errs...)
}

// ──────────────────────────────────────────────
// Sessions
// ──────────────────────────────────────────────

type createSessionRequest struct {
	ID string `json:"id,omitempty"`
}

type createSessionResponse struct {
	ID       string `json:"id"`
	Restored bool   `json:"restored"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	s.mu.Lock()
	if _, exists := s.sessions[req.ID]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, errors.New("session already exists"))
		return
	}
	cfg := s.opts.Engine
	cfg.Namespace = req.ID
	engine, err := mirasdk.NewEngine(newBackend(s.opts), s.opts.Persister, cfg)
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.sessions[req.ID] = &session{engine: engine}
	s.mu.Unlock()

	restored := engine.Restore(r.Context())
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: req.ID, Restored: restored})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.engine.Close(r.Context()); err != nil {
		log.Printf("[Server] close session %s: %v", id, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// withSession runs fn under the session lock, or answers 404.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*mirasdk.Engine)) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.engine)
}

type textRequest struct {
	Text string `json:"text"`
}

type textResponse struct {
	Text string `json:"text"`
}

func decodeText(r *http.Request) (string, error) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Text) == "" {
		return "", mirasdk.ErrEmptyInput
	}
	return req.Text, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.withSession(w, r, func(e *mirasdk.Engine) {
		writeJSON(w, http.StatusOK, e.Analyze(text))
	})
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.withSession(w, r, func(e *mirasdk.Engine) {
		writeJSON(w, http.StatusOK, e.Respond(r.Context(), s.opts.Chat, text))
	})
}

type expressionResponse struct {
	Blend   mirasdk.ExpressionBlend `json:"blend"`
	Trigger mirasdk.TriggerTier     `json:"trigger"`
	Mood    mirasdk.Mood            `json:"mood"`
}

func (s *Server) handleExpression(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *mirasdk.Engine) {
		writeJSON(w, http.StatusOK, expressionResponse{
			Blend:   e.CurrentBlend(),
			Trigger: e.TriggerTier(),
			Mood:    e.CurrentMood(),
		})
	})
}

type trendResponse struct {
	Trendline        *mirasdk.MoodTrendline `json:"trendline,omitempty"`
	InsufficientData bool                   `json:"insufficient_data"`
	DominantMood     mirasdk.Mood           `json:"dominant_mood"`
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *mirasdk.Engine) {
		trend, ok := e.CalculateMoodTrendline()
		writeJSON(w, http.StatusOK, trendResponse{
			Trendline:        trend,
			InsufficientData: !ok,
			DominantMood:     e.DominantMood(),
		})
	})
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *mirasdk.Engine) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(e.BuildSystemPrompt()))
	})
}

type historyResponse struct {
	Emotions []mirasdk.EmotionHistoryEntry `json:"emotions"`
	Moods    []mirasdk.MoodHistoryEntry    `json:"moods"`
	Topics   []string                      `json:"topics"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *mirasdk.Engine) {
		writeJSON(w, http.StatusOK, historyResponse{
			Emotions: e.EmotionHistory(),
			Moods:    e.MoodHistory(),
			Topics:   e.Topics(),
		})
	})
}

// ──────────────────────────────────────────────
// Sessionless helpers
// ──────────────────────────────────────────────

func (s *Server) handleHumanize(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.utilMu.Lock()
	out := s.util.Humanize(text)
	s.utilMu.Unlock()
	writeJSON(w, http.StatusOK, textResponse{Text: out})
}

func (s *Server) handleOffline(w http.ResponseWriter, _ *http.Request) {
	s.utilMu.Lock()
	out := s.util.OfflineResponse()
	s.utilMu.Unlock()
	writeJSON(w, http.StatusOK, textResponse{Text: out})
}

func (s *Server) handleRiddle(w http.ResponseWriter, _ *http.Request) {
	s.utilMu.Lock()
	riddle := s.util.Riddle()
	s.utilMu.Unlock()
	writeJSON(w, http.StatusOK, riddle)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
