package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/models"
	"github.com/NuZard84/go-speedtype/internal/view"
)

// HandleEvents streams panel updates as server-sent events.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// buffered so a slow reader never blocks the countdown
	events := make(chan models.Snapshot, 8)
	unsubscribe := ctrl.Subscribe(func(snap models.Snapshot) {
		select {
		case events <- snap:
		default:
		}
	})
	defer unsubscribe()

	write := func(snap models.Snapshot) bool {
		if err := writeEvent(w, snap); err != nil {
			h.logger.Debugw("Event stream closed", "session", ctrl.ID, "error", err)
			return false
		}
		flusher.Flush()
		return true
	}

	if !write(ctrl.Snapshot()) {
		return
	}

	for {
		select {
		case snap := <-events:
			if !write(snap) {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// writeEvent writes one session_state frame carrying the panel for snap.
func writeEvent(w io.Writer, snap models.Snapshot) error {
	data, err := json.Marshal(view.NewPanel(snap))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", constants.MessageSessionState, data)
	return err
}
