package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NuZard84/go-speedtype/internal/game"
	"github.com/NuZard84/go-speedtype/internal/manager"
	"github.com/NuZard84/go-speedtype/internal/view"
	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	ID    string     `json:"id"`
	Panel view.Panel `json:"panel"`
}

type inputResponse struct {
	Accepted bool       `json:"accepted"`
	Panel    view.Panel `json:"panel"`
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, manager.ErrSessionNotFound):
		h.respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, manager.ErrTooManySessions):
		h.respondError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, game.ErrLoading):
		h.respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, game.ErrClosed):
		h.respondError(w, err.Error(), http.StatusGone)
	default:
		h.logger.Errorw("Session request failed", "error", err)
		h.respondError(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*game.Controller, bool) {
	ctrl, err := h.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeSessionError(w, err)
		return nil, false
	}
	return ctrl, true
}

// HandleIndex creates a session for the page and renders it.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.Sessions.Create(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := view.Render(&buf, view.NewPanel(ctrl.Snapshot())); err != nil {
		h.logger.Errorw("Failed to render page", "error", err)
		h.Sessions.Remove(ctrl.ID)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debugw("Failed to write page", "session", ctrl.ID, "error", err)
	}
}

func (h *Handler) HandleText(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, h.Text.Acquire(r.Context()), http.StatusOK)
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.Sessions.Create(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.respondJSON(w, sessionResponse{ID: ctrl.ID, Panel: view.NewPanel(ctrl.Snapshot())}, http.StatusCreated)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, view.NewPanel(ctrl.Snapshot()), http.StatusOK)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Remove(chi.URLParam(r, "id")); err != nil {
		h.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := ctrl.Start(r.Context()); err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.respondJSON(w, view.NewPanel(ctrl.Snapshot()), http.StatusOK)
}

func (h *Handler) HandleInput(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	accepted := ctrl.Input(req.Text)
	h.respondJSON(w, inputResponse{Accepted: accepted, Panel: view.NewPanel(ctrl.Snapshot())}, http.StatusOK)
}

func (h *Handler) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	ctrl.ToggleTheme()
	h.respondJSON(w, view.NewPanel(ctrl.Snapshot()), http.StatusOK)
}
