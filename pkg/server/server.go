// Package server exposes the assistant over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lucasmr/memoria/pkg/assistant"
	"github.com/lucasmr/memoria/pkg/model"
)

// Server routes HTTP requests onto the assistant and its store.
type Server struct {
	assistant *assistant.Assistant
	store     model.Store
	logger    *slog.Logger
}

func New(a *assistant.Assistant, store model.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Server{assistant: a, store: store, logger: logger}
}

// Router builds the chi router with the full API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/turn", s.handleTurn)
	r.Get("/events", s.handleEvents)
	r.Get("/interactions", s.handleInteractions)
	r.Get("/identities", s.handleIdentities)
	r.Get("/context", s.handleContext)

	return r
}

type turnRequest struct {
	Text      string `json:"text"`
	AudioPath string `json:"audio_path"`
}

func (s *Server) handleTurn(w http.ResponseWriter, req *http.Request) {
	var in turnRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result *assistant.TurnResult
	var err error
	switch {
	case in.Text != "":
		result, err = s.assistant.ProcessTranscript(req.Context(), in.Text)
	case in.AudioPath != "":
		result, err = s.assistant.ProcessAudio(req.Context(), in.AudioPath)
	default:
		http.Error(w, "text or audio_path is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		// Turn failures are recoverable: log, tell the caller, keep serving.
		s.logger.Error("turn failed", "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrTranscription) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, req *http.Request) {
	date := req.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required (DD/MM/YYYY)", http.StatusBadRequest)
		return
	}
	events, err := s.store.GetEventsByDate(req.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handleInteractions(w http.ResponseWriter, req *http.Request) {
	limit := 10
	if v := req.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	interactions, err := s.store.GetRecentInteractions(req.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, interactions)
}

func (s *Server) handleIdentities(w http.ResponseWriter, req *http.Request) {
	identities, err := s.store.ListIdentities(req.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, identities)
}

func (s *Server) handleContext(w http.ResponseWriter, req *http.Request) {
	mc, err := s.store.GetMemoryContext(req.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, mc)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
