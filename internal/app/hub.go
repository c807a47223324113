package app

import (
	"crypto/rand"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"decrypto/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// DefaultEmptyRoomTTL is how long a room may sit with nobody connected
	DefaultEmptyRoomTTL = 30 * time.Minute

	// DefaultCleanupInterval is how often the hub looks for rooms to collect
	DefaultCleanupInterval = time.Minute

	maxRoomCodeAttempts = 10
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HubOptions configures a GameHub. Zero values fall back to defaults.
type HubOptions struct {
	Settings        domain.GameSettings
	RoomCodeLength  int
	EmptyRoomTTL    time.Duration
	CleanupInterval time.Duration
	Words           *WordPool
}

// GameHub manages all active rooms
type GameHub struct {
	sessions        map[string]*RoomSession
	mu              sync.RWMutex
	settings        domain.GameSettings
	roomCodeLength  int
	emptyRoomTTL    time.Duration
	cleanupInterval time.Duration
	words           *WordPool
	logger          *slog.Logger
	done            chan struct{}
	closeOnce       sync.Once

	// generateCode is swapped out in tests to force collisions
	generateCode func(length int) string
}

// NewGameHub creates a new game hub and starts its cleanup loop
func NewGameHub(opts HubOptions, logger *slog.Logger) *GameHub {
	if opts.RoomCodeLength <= 0 {
		opts.RoomCodeLength = DefaultRoomCodeLength
	}
	if opts.EmptyRoomTTL <= 0 {
		opts.EmptyRoomTTL = DefaultEmptyRoomTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}
	if opts.Words == nil {
		opts.Words = NewWordPool(SecretWords, nil)
	}
	if opts.Settings == (domain.GameSettings{}) {
		opts.Settings = domain.DefaultGameSettings()
	}
	opts.Settings = opts.Settings.Normalize()

	hub := &GameHub{
		sessions:        make(map[string]*RoomSession),
		settings:        opts.Settings,
		roomCodeLength:  opts.RoomCodeLength,
		emptyRoomTTL:    opts.EmptyRoomTTL,
		cleanupInterval: opts.CleanupInterval,
		words:           opts.Words,
		logger:          logger,
		done:            make(chan struct{}),
		generateCode:    generateRoomCode,
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateRoom creates a new room and returns its session
func (h *GameHub) CreateRoom() (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Generate unique room code
	roomCode := ""
	for attempts := 0; attempts < maxRoomCodeAttempts; attempts++ {
		candidate := h.generateCode(h.roomCodeLength)
		if _, exists := h.sessions[candidate]; !exists {
			roomCode = candidate
			break
		}
	}

	if roomCode == "" {
		h.logger.Error("failed to generate unique room code",
			"attempts", maxRoomCodeAttempts, "rooms", len(h.sessions))
		return nil, domain.ErrCodeSpaceExhausted
	}

	game := domain.NewGame(roomCode, h.settings, nil)
	session := NewRoomSession(game, h.words, h.logger)
	h.sessions[roomCode] = session

	h.logger.Info("room created", "roomCode", roomCode)

	return session, nil
}

// GetRoom returns a room by code. Lookup is case-insensitive.
func (h *GameHub) GetRoom(roomCode string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[NormalizeRoomCode(roomCode)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// JoinRoom adds a new player to an existing room
func (h *GameHub) JoinRoom(roomCode, nickname string) (*RoomSession, *domain.Player, error) {
	session, err := h.GetRoom(roomCode)
	if err != nil {
		return nil, nil, err
	}

	player, err := session.AddPlayer(uuid.New().String(), nickname)
	if err != nil {
		return nil, nil, err
	}

	return session, player, nil
}

// DeleteRoom removes a room and disconnects its clients
func (h *GameHub) DeleteRoom(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomCode = NormalizeRoomCode(roomCode)
	if session, ok := h.sessions[roomCode]; ok {
		session.Close()
		delete(h.sessions, roomCode)
		h.logger.Info("room deleted", "roomCode", roomCode)
	}
}

// RoomCount returns the number of active rooms
func (h *GameHub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// PlayerCount returns the total number of players across all rooms
func (h *GameHub) PlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.GetPlayerCount()
	}
	return total
}

// Close shuts down the hub and all rooms
func (h *GameHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, session := range h.sessions {
			session.Close()
		}
		h.sessions = make(map[string]*RoomSession)
	})
}

// NormalizeRoomCode upper-cases and trims a user-supplied room code
func NormalizeRoomCode(roomCode string) string {
	return strings.ToUpper(strings.TrimSpace(roomCode))
}

// generateRoomCode generates a random room code
func generateRoomCode(length int) string {
	b := make([]byte, length)
	rand.Read(b)

	code := make([]byte, length)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically collects abandoned rooms
func (h *GameHub) cleanupLoop() {
	ticker := time.NewTicker(h.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupRooms(time.Now())
		}
	}
}

// cleanupRooms removes rooms nobody has been connected to for the TTL, and
// rooms closed after an invariant violation
func (h *GameHub) cleanupRooms(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	stale := make([]string, 0)
	for roomCode, session := range h.sessions {
		if session.IsClosed() {
			stale = append(stale, roomCode)
			continue
		}
		if since, empty := session.IsEmptySince(); empty && now.Sub(since) > h.emptyRoomTTL {
			stale = append(stale, roomCode)
		}
	}

	for _, roomCode := range stale {
		if session, ok := h.sessions[roomCode]; ok {
			session.Close()
			delete(h.sessions, roomCode)
			h.logger.Info("empty room cleaned up", "roomCode", roomCode)
		}
	}

	return len(stale)
}
