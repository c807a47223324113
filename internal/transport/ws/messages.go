package ws

import (
	"encoding/json"
	"time"

	"decrypto/internal/app"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    app.CommandType `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      app.ReplyType `json:"type"`
	Payload   interface{}   `json:"payload,omitempty"`
	Timestamp string        `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType app.ReplyType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Transport-level error codes. Game errors use the domain error kinds.
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRateLimited    = "RATE_LIMITED"
)
