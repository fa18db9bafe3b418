// Package api exposes the chat service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rizecleaning/clara/internal/ai"
	"github.com/rizecleaning/clara/internal/store"
)

// Version is reported by the banner endpoint.
const Version = "1.0.0"

type Handler struct {
	svc      *ai.Service
	feedback store.Store
	logger   *slog.Logger
}

func NewHandler(svc *ai.Service, feedback store.Store, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, feedback: feedback, logger: logger}
}

// NewRouter wires every route with the standard middleware stack.
func NewRouter(h *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/message", h.HandleMessage)
		r.Get("/health", h.HandleChatHealth)
		r.Post("/feedback", h.HandleFeedback)
	})

	return r
}

// HandleMessage answers one chat message. Model failures never reach the
// client; they come back as a normal reply from the fallback rules.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.Respond(r.Context(), req.ConversationID, req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}
		h.logger.Error("respond failed", "error", err)
		writeError(w, http.StatusInternalServerError, "error processing message")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:       reply.Text,
		ConversationID: reply.ConversationID,
		Timestamp:      time.Now().UTC(),
		Sources:        []string{},
	})
}

func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	err := h.feedback.SaveFeedback(store.Feedback{
		ConversationID: req.ConversationID,
		Rating:         req.Rating,
		Comment:        req.Feedback,
	})
	if err != nil {
		h.logger.Error("saving feedback failed", "error", err, "conversation_id", req.ConversationID)
		writeError(w, http.StatusInternalServerError, "error saving feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":         "feedback received",
		"conversation_id": req.ConversationID,
	})
}

func (h *Handler) HandleChatHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "chat",
	})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	// Startup refuses to run without a model credential, so a live process
	// always has one.
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"model_configured": true,
	})
}

func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Clara Chat API",
		"version": Version,
		"status":  "running",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
