package ws

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"decrypto/internal/app"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. It starts unbound and is
// bound to a room and player by join_room.
type Client struct {
	conn       *websocket.Conn
	dispatcher *app.Dispatcher
	limiter    *rate.Limiter
	send       chan []byte
	done       chan struct{}
	logger     *slog.Logger

	mu       sync.Mutex
	closed   bool
	roomCode string
	playerID string
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, dispatcher *app.Dispatcher, limiter *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		conn:       conn,
		dispatcher: dispatcher,
		limiter:    limiter,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// GetPlayerID returns the bound player ID, or "" before join_room
func (c *Client) GetPlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// GetRoomCode returns the bound room code, or "" before join_room
func (c *Client) GetRoomCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode
}

// Bind attaches the connection to a room and player
func (c *Client) Bind(roomCode, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = roomCode
	c.playerID = playerID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(replyType app.ReplyType, payload interface{}) error {
	data, err := json.Marshal(NewServerMessage(replyType, payload))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.dispatcher.Disconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
// Each queued message is its own frame so clients can parse frames as JSON.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes an incoming message and hands it to the dispatcher
func (c *Client) handleMessage(data []byte) {
	if c.limiter != nil && !c.limiter.Allow() {
		c.sendError(ErrCodeRateLimited, "Too many messages")
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	cmd, ok := app.NewCommand(msg.Type)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
		return
	}

	if payload := bytes.TrimSpace(msg.Payload); len(payload) > 0 && !bytes.Equal(payload, []byte("null")) {
		if err := json.Unmarshal(payload, cmd); err != nil {
			c.sendError(ErrCodeInvalidMessage, "Invalid payload")
			return
		}
	}

	// Errors were already answered by the dispatcher
	_ = c.dispatcher.Dispatch(c, cmd)
}

// sendError sends a transport-level error to the client
func (c *Client) sendError(code, message string) {
	c.Send(app.ReplyError, &app.ErrorPayload{
		Code:    code,
		Message: message,
	})
}
