package session

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client wraps one live-session WebSocket connection.
type Client struct {
	Conn *websocket.Conn
	mu   sync.Mutex
	hook func(Snapshot)
}

func NewClient(conn *websocket.Conn) *Client { return &Client{Conn: conn} }

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(Snapshot)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(snap)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(snap)
}
