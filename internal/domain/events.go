package domain

import (
	"fmt"
	"time"
)

// EventType represents the type of room log entry
type EventType string

const (
	EventPlayerJoined   EventType = "PLAYER_JOINED"
	EventPlayerLeft     EventType = "PLAYER_LEFT"
	EventTeamChanged    EventType = "TEAM_CHANGED"
	EventGameStarted    EventType = "GAME_STARTED"
	EventRoundStarted   EventType = "ROUND_STARTED"
	EventClueSubmitted  EventType = "CLUE_SUBMITTED"
	EventInterceptGuess EventType = "INTERCEPT_GUESS"
	EventRoundResolved  EventType = "ROUND_RESOLVED"
	EventGameEnded      EventType = "GAME_ENDED"
)

// GameEvent is one line of the room's message log
type GameEvent struct {
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates a new log entry
func NewEvent(eventType EventType, format string, args ...interface{}) GameEvent {
	return GameEvent{
		Type:      eventType,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}
}

// EventLog keeps the most recent events up to a fixed size
type EventLog struct {
	entries []GameEvent
	limit   int
}

// NewEventLog creates a log holding at most limit entries
func NewEventLog(limit int) *EventLog {
	if limit <= 0 {
		limit = 1
	}
	return &EventLog{
		entries: make([]GameEvent, 0, limit),
		limit:   limit,
	}
}

// Append adds an entry, dropping the oldest when full
func (l *EventLog) Append(event GameEvent) {
	if len(l.entries) >= l.limit {
		l.entries = append(l.entries[:0], l.entries[1:]...)
	}
	l.entries = append(l.entries, event)
}

// Entries returns a copy of the log, oldest first
func (l *EventLog) Entries() []GameEvent {
	out := make([]GameEvent, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *EventLog) Len() int {
	return len(l.entries)
}
