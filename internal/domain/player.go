package domain

import "time"

// ConnectionStatus represents a player's connection state
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "CONNECTED"
	StatusDisconnected ConnectionStatus = "DISCONNECTED"
)

// Player represents a participant in a room
type Player struct {
	ID       string           `json:"id"`
	Nickname string           `json:"nickname"`
	Team     Team             `json:"team"`
	Status   ConnectionStatus `json:"status"`
	JoinedAt time.Time        `json:"joinedAt"`
}

// NewPlayer creates a new player with no team
func NewPlayer(id, nickname string) *Player {
	return &Player{
		ID:       id,
		Nickname: nickname,
		Team:     TeamNone,
		Status:   StatusConnected,
		JoinedAt: time.Now(),
	}
}

// IsConnected returns true if the player is currently connected
func (p *Player) IsConnected() bool {
	return p.Status == StatusConnected
}

// Disconnect marks the player as disconnected
func (p *Player) Disconnect() {
	p.Status = StatusDisconnected
}

// PlayerInfo is the public view of a player
type PlayerInfo struct {
	ID        string           `json:"id"`
	Nickname  string           `json:"nickname"`
	Team      Team             `json:"team"`
	IsEncoder bool             `json:"isEncoder"`
	Status    ConnectionStatus `json:"status"`
}

// ToInfo converts a Player to PlayerInfo
func (p *Player) ToInfo(isEncoder bool) PlayerInfo {
	return PlayerInfo{
		ID:        p.ID,
		Nickname:  p.Nickname,
		Team:      p.Team,
		IsEncoder: isEncoder,
		Status:    p.Status,
	}
}
