package game

import (
	"sync"
	"time"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/models"
	"github.com/gorilla/websocket"
)

// Client is a page connected to a session over a WebSocket
type Client struct {
	Conn      *websocket.Conn
	SessionID string
	WriteMu   sync.Mutex
}

// NewClient creates a new client bound to sessionID
func NewClient(conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		Conn:      conn,
		SessionID: sessionID,
	}
}

// Send writes one message, giving up after the write timeout.
func (c *Client) Send(msg models.Message) error {
	c.WriteMu.Lock()
	defer c.WriteMu.Unlock()

	if msg.Time.IsZero() {
		msg.Time = time.Now()
	}
	msg.SessionID = c.SessionID

	if err := c.Conn.SetWriteDeadline(time.Now().Add(constants.WriteTimeout)); err != nil {
		return err
	}
	return c.Conn.WriteJSON(msg)
}

func (c *Client) Close() error {
	c.WriteMu.Lock()
	defer c.WriteMu.Unlock()
	return c.Conn.Close()
}
