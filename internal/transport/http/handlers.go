package http

import (
	"encoding/json"
	"net/http"

	"github.com/skip2/go-qrcode"

	"decrypto/internal/app"
	"decrypto/internal/domain"
)

// qrSize is the edge of the invite QR image in pixels
const qrSize = 320

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomCode   string `json:"roomCode"`
	InviteLink string `json:"inviteLink"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode    string `json:"roomCode"`
	PlayerCount int    `json:"playerCount"`
	Phase       string `json:"phase"`
	CanJoin     bool   `json:"canJoin"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	session, err := s.hub.CreateRoom()
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &CreateRoomResponse{
		RoomCode:   session.GetRoomCode(),
		InviteLink: s.inviteLink(r, session.GetRoomCode()),
	})
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:    session.GetRoomCode(),
		PlayerCount: session.GetPlayerCount(),
		Phase:       string(session.GetPhase()),
		CanJoin:     session.CanJoin(),
	})
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	roomCode := r.PathValue("roomCode")
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return
	}

	_, err := s.hub.GetRoom(roomCode)
	exists := err == nil

	s.sendSuccess(w, &RoomExistsResponse{
		Exists: exists,
	})
}

// handleRoomQR handles GET /api/rooms/{roomCode}/qr with a PNG of the invite link
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(s.inviteLink(r, session.GetRoomCode()), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "roomCode", session.GetRoomCode(), "error", err)
		s.sendError(w, http.StatusInternalServerError, string(domain.KindInternal), "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms:  s.hub.RoomCount(),
		TotalPlayers: s.hub.PlayerCount(),
	})
}

// lookupRoom resolves the {roomCode} path value, answering the request
// itself when the room cannot be found
func (s *Server) lookupRoom(w http.ResponseWriter, r *http.Request) (*app.RoomSession, bool) {
	roomCode := r.PathValue("roomCode")
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return nil, false
	}

	session, err := s.hub.GetRoom(roomCode)
	if err != nil {
		s.sendDomainError(w, err)
		return nil, false
	}
	return session, true
}

// inviteLink builds the join URL for a room, from PUBLIC_URL when set
func (s *Server) inviteLink(r *http.Request, roomCode string) string {
	base := s.config.Server.PublicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + roomCode
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendDomainError maps a domain error kind to an HTTP status
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindInvalidAction:
		status = http.StatusConflict
	case domain.KindValidation:
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "error", err)
	}

	s.sendError(w, status, string(kind), err.Error())
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
