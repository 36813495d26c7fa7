package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/NuZard84/go-speedtype/internal/manager"
	"github.com/NuZard84/go-speedtype/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// TextSource acquires one paragraph of practice text.
type TextSource interface {
	Acquire(ctx context.Context) models.TextResult
}

type Handler struct {
	Sessions      *manager.SessionManager
	Text          TextSource
	AllowedOrigin string
	Upgrader      websocket.Upgrader
	logger        *zap.SugaredLogger
}

func New(sessions *manager.SessionManager, text TextSource, allowedOrigin string, logger *zap.SugaredLogger) *Handler {
	h := &Handler{
		Sessions:      sessions,
		Text:          text,
		AllowedOrigin: allowedOrigin,
		logger:        logger,
	}
	h.Upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts same-host pages, non-browser clients and the configured frontend origin.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == h.AllowedOrigin {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Routes builds the HTTP router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.HandleIndex)
	r.Get("/ws/session", h.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.enableCORS)

		r.Get("/text", h.HandleText)
		r.Post("/sessions", h.HandleCreateSession)
		r.Get("/sessions/{id}", h.HandleGetSession)
		r.Delete("/sessions/{id}", h.HandleDeleteSession)
		r.Post("/sessions/{id}/start", h.HandleStart)
		r.Put("/sessions/{id}/input", h.HandleInput)
		r.Post("/sessions/{id}/theme", h.HandleToggleTheme)
		r.Get("/sessions/{id}/events", h.HandleEvents)
	})
	return r
}

func (h *Handler) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warnw("Failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, message string, status int) {
	h.respondJSON(w, map[string]string{"error": message}, status)
}
