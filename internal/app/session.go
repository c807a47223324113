package app

import (
	"log/slog"
	"sync"
	"time"

	"decrypto/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(replyType ReplyType, payload interface{}) error
	GetPlayerID() string
	Close() error
}

// outbound is a reply queued for one client
type outbound struct {
	playerID  string
	replyType ReplyType
	payload   interface{}
}

// RoomSession wraps a room with concurrency control and client management.
// Every operation on the room runs under one lock, so round transitions are
// atomic with respect to concurrent submissions. Rooms never share a lock.
type RoomSession struct {
	game      *domain.Game
	words     *WordPool
	mu        sync.Mutex
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	logger    *slog.Logger

	emptySince time.Time
	closedErr  error

	// Event channel for broadcasting
	events    chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

// NewRoomSession creates a new room session
func NewRoomSession(game *domain.Game, words *WordPool, logger *slog.Logger) *RoomSession {
	session := &RoomSession{
		game:       game,
		words:      words,
		clients:    make(map[string]ClientConnection),
		logger:     logger.With("roomCode", game.ID),
		emptySince: game.CreatedAt,
		events:     make(chan outbound, 256),
		done:       make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// GetRoomCode returns the room code
func (s *RoomSession) GetRoomCode() string {
	return s.game.ID
}

// GetPlayerCount returns the number of players
func (s *RoomSession) GetPlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.game.Players)
}

// GetPhase returns the current phase
func (s *RoomSession) GetPhase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase
}

// CanJoin checks if a new player can join the room
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxPlayers := s.game.Settings.MaxPlayers
	return s.closedErr == nil && (maxPlayers == 0 || len(s.game.Players) < maxPlayers)
}

// IsEmptySince reports whether no player is connected and since when
func (s *RoomSession) IsEmptySince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emptySince, !s.emptySince.IsZero()
}

// IsClosed returns true after an invariant violation shut the room down
func (s *RoomSession) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closedErr != nil
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// GetClient returns the client for a player
func (s *RoomSession) GetClient(playerID string) (ClientConnection, bool) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	client, ok := s.clients[playerID]
	return client, ok
}

// AddPlayer adds a player to the room
func (s *RoomSession) AddPlayer(playerID, nickname string) (*domain.Player, error) {
	var player *domain.Player
	err := s.mutate(func(g *domain.Game) error {
		var err error
		player, err = g.AddPlayer(playerID, nickname)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player joined", "playerID", playerID, "nickname", player.Nickname)
	return player, nil
}

// RemovePlayer removes a player from the room
func (s *RoomSession) RemovePlayer(playerID string) error {
	err := s.mutate(func(g *domain.Game) error {
		return g.RemovePlayer(playerID)
	})
	if err != nil {
		return err
	}

	s.UnregisterClient(playerID)
	s.logger.Info("player left", "playerID", playerID)
	return nil
}

// DisconnectPlayer handles a dropped connection. Before a game the player is
// removed; during a game they stay on the roster, marked disconnected, so
// teams and history are untouched.
func (s *RoomSession) DisconnectPlayer(playerID string) {
	s.UnregisterClient(playerID)

	_ = s.mutate(func(g *domain.Game) error {
		player, err := g.GetPlayer(playerID)
		if err != nil {
			return err
		}
		if g.Phase == domain.PhaseWaiting || g.Phase == domain.PhaseSetup {
			return g.RemovePlayer(playerID)
		}
		player.Disconnect()
		return nil
	})
}

// JoinTeam moves a player to a team
func (s *RoomSession) JoinTeam(playerID string, team domain.Team) error {
	return s.mutate(func(g *domain.Game) error {
		return g.JoinTeam(playerID, team)
	})
}

// StartGame deals words and starts the first round. Any member may start.
func (s *RoomSession) StartGame(playerID string) error {
	err := s.mutate(func(g *domain.Game) error {
		if _, err := g.GetPlayer(playerID); err != nil {
			return err
		}
		if !g.Phase.IsPregame() {
			return domain.ErrGameInProgress
		}
		if !g.CanStart() {
			return domain.ErrTeamsTooSmall
		}

		words, err := s.words.Draw(2 * g.Settings.WordsPerTeam)
		if err != nil {
			return err
		}
		return g.StartGame(words)
	})
	if err != nil {
		return err
	}

	s.logger.Info("game started", "playerID", playerID)
	return nil
}

// SubmitClue submits the encoder's clues
func (s *RoomSession) SubmitClue(playerID string, words []string) error {
	return s.mutate(func(g *domain.Game) error {
		return g.SubmitClue(playerID, words)
	})
}

// SubmitGuess submits an interception attempt
func (s *RoomSession) SubmitGuess(playerID string, guess domain.Code) error {
	return s.mutate(func(g *domain.Game) error {
		return g.SubmitGuess(playerID, guess)
	})
}

// PassIntercept declines the current interception
func (s *RoomSession) PassIntercept(playerID string) error {
	return s.mutate(func(g *domain.Game) error {
		return g.PassIntercept(playerID)
	})
}

// ReportOwnResult resolves the current round
func (s *RoomSession) ReportOwnResult(playerID string, guessed bool) (*domain.RoundRecord, error) {
	var record *domain.RoundRecord
	err := s.mutate(func(g *domain.Game) error {
		var err error
		record, err = g.ReportOwnResult(playerID, guessed)
		if err == nil && g.Phase == domain.PhaseGameOver {
			s.logger.Info("game over", "winner", g.Winner)
		}
		return err
	})
	return record, err
}

// NextRound starts the next round
func (s *RoomSession) NextRound(playerID string) error {
	return s.mutate(func(g *domain.Game) error {
		return g.NextRound(playerID)
	})
}

// GetState returns the room as seen by playerID
func (s *RoomSession) GetState(playerID string) *domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.ViewFor(playerID)
}

// SendState queues the current state to a single player
func (s *RoomSession) SendState(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueState(playerID)
}

// mutate runs op under the room lock and broadcasts on success. Rejected
// operations broadcast nothing. An invariant violation closes the room.
func (s *RoomSession) mutate(op func(g *domain.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closedErr != nil {
		return domain.ErrRoomClosed
	}

	if err := op(s.game); err != nil {
		switch {
		case domain.IsInvariantViolation(err):
			s.logger.Error("room invariant violated, closing room", "error", err)
			s.closedErr = err
		case domain.KindOf(err) == domain.KindInternal:
			s.logger.Error("room operation failed", "error", err)
		}
		return err
	}

	s.updateOccupancy()
	s.broadcastState()
	return nil
}

// updateOccupancy tracks when the room last became empty (caller must hold lock)
func (s *RoomSession) updateOccupancy() {
	if s.game.GetConnectedPlayerCount() > 0 {
		s.emptySince = time.Time{}
	} else if s.emptySince.IsZero() {
		s.emptySince = time.Now()
	}
}

// broadcastState queues a personal snapshot for every registered client
// (caller must hold lock)
func (s *RoomSession) broadcastState() {
	s.clientsMu.RLock()
	playerIDs := make([]string, 0, len(s.clients))
	for playerID := range s.clients {
		playerIDs = append(playerIDs, playerID)
	}
	s.clientsMu.RUnlock()

	for _, playerID := range playerIDs {
		s.queueState(playerID)
	}
}

// queueState projects the room for one player (caller must hold lock)
func (s *RoomSession) queueState(playerID string) {
	s.queueEvent(outbound{
		playerID:  playerID,
		replyType: ReplyStateUpdate,
		payload: &StateUpdatePayload{
			State:        s.game.ViewFor(playerID),
			YourPlayerID: playerID,
		},
	})
}

// queueEvent adds a message to the send queue
func (s *RoomSession) queueEvent(event outbound) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.replyType, "playerID", event.playerID)
	}
}

// eventLoop delivers queued messages in order
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.deliver(event)
		}
	}
}

// deliver sends a message to its client, if still connected
func (s *RoomSession) deliver(event outbound) {
	client, ok := s.GetClient(event.playerID)
	if !ok {
		return
	}

	if err := client.Send(event.replyType, event.payload); err != nil {
		s.logger.Debug("failed to send to client", "playerID", event.playerID, "error", err)
	}
}

// Close shuts down the session
func (s *RoomSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		// Close all client connections
		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}
