package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/game"
	"github.com/NuZard84/go-speedtype/internal/manager"
	"github.com/NuZard84/go-speedtype/internal/models"
	"github.com/gorilla/websocket"
)

// HandleWebSocket attaches a page to its session
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "Missing session_id", http.StatusBadRequest)
		return
	}

	ctrl, err := h.Sessions.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("WebSocket upgrade error", "error", err)
		return
	}

	client := game.NewClient(conn, sessionID)
	if err := ctrl.AddClient(client); err != nil {
		h.logger.Warnw("Failed to attach client", "session", sessionID, "error", err)
		client.Send(models.Message{
			Type: constants.MessageError,
			Data: err.Error(),
		})
		client.Close()
		return
	}

	go h.HandleClientMessage(ctrl, client)
}

// HandleClientMessage processes incoming messages until the page goes away.
// The session is removed with its last client.
func (h *Handler) HandleClientMessage(ctrl *game.Controller, client *game.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		client.Close()
		if ctrl.RemoveClient(client) == 0 {
			if err := h.Sessions.Remove(ctrl.ID); err != nil && !errors.Is(err, manager.ErrSessionNotFound) {
				h.logger.Warnw("Failed to remove session", "session", ctrl.ID, "error", err)
			}
		}
	}()

	for {
		var msg models.Message
		err := client.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warnw("WebSocket error", "session", ctrl.ID, "error", err)
			}
			return
		}

		switch msg.Type {
		case constants.MessageStart:
			go h.handleStart(ctx, ctrl, client)
		case constants.MessageInput:
			h.handleInput(ctrl, client, msg)
		case constants.MessageToggleTheme:
			ctrl.ToggleTheme()
		case constants.MessagePing:
			h.handlePing(client)
		default:
			h.sendError(client, "unknown message type: "+msg.Type)
		}
	}
}

func (h *Handler) handleStart(ctx context.Context, ctrl *game.Controller, client *game.Client) {
	if err := ctrl.Start(ctx); err != nil {
		h.sendError(client, err.Error())
	}
}

// handleInput forwards typed text; rejected input is silently ignored
func (h *Handler) handleInput(ctrl *game.Controller, client *game.Client, msg models.Message) {
	text, ok := msg.Data.(string)
	if !ok {
		h.sendError(client, "input data must be a string")
		return
	}
	ctrl.Input(text)
}

// handlePing responds to client ping messages
func (h *Handler) handlePing(client *game.Client) {
	if err := client.Send(models.Message{
		Type: constants.MessagePong,
		Data: time.Now(),
	}); err != nil {
		h.logger.Debugw("Failed to send pong", "session", client.SessionID, "error", err)
	}
}

func (h *Handler) sendError(client *game.Client, message string) {
	if err := client.Send(models.Message{
		Type: constants.MessageError,
		Data: message,
	}); err != nil {
		h.logger.Debugw("Failed to send error", "session", client.SessionID, "error", err)
	}
}
