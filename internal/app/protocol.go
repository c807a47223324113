package app

import "decrypto/internal/domain"

// CommandType identifies an inbound client intent
type CommandType string

// Client → Server commands
const (
	CmdCreateRoom      CommandType = "create_room"
	CmdJoinRoom        CommandType = "join_room"
	CmdJoinTeam        CommandType = "join_team"
	CmdStartGame       CommandType = "start_game"
	CmdSubmitClue      CommandType = "submit_clue"
	CmdSubmitGuess     CommandType = "submit_guess"
	CmdPassIntercept   CommandType = "pass_intercept"
	CmdReportOwnResult CommandType = "report_own_result"
	CmdNextRound       CommandType = "next_round"
	CmdLeaveRoom       CommandType = "leave_room"
	CmdGetState        CommandType = "get_state"
	CmdPing            CommandType = "ping"
)

// Command is one of the command structs below
type Command interface {
	Type() CommandType
}

// RoomRef names the room and player a command is addressed to. Both are
// optional on the wire; when present they must match the connection.
type RoomRef struct {
	RoomCode string `json:"room_code,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
}

// Ref returns the addressed room and player
func (r RoomRef) Ref() RoomRef { return r }

// roomScoped is implemented by every command that embeds RoomRef
type roomScoped interface {
	Ref() RoomRef
}

type CreateRoomCommand struct{}

type JoinRoomCommand struct {
	RoomCode string `json:"room_code"`
	Nickname string `json:"nickname"`
}

type JoinTeamCommand struct {
	RoomRef
	Team string `json:"team"`
}

type StartGameCommand struct {
	RoomRef
}

type SubmitClueCommand struct {
	RoomRef
	ClueWords []string `json:"clue_words"`
}

// SubmitGuessCommand is an interception attempt by the opposing team
type SubmitGuessCommand struct {
	RoomRef
	GuessCode []int `json:"guess_code"`
}

// PassInterceptCommand declines this round's interception
type PassInterceptCommand struct {
	RoomRef
}

// ReportOwnResultCommand is sent by the encoder once their team has decoded
// (or failed to decode) the clues. It resolves the round.
type ReportOwnResultCommand struct {
	RoomRef
	GuessedCorrectly bool `json:"guessed_correctly"`
}

type NextRoundCommand struct {
	RoomRef
}

type LeaveRoomCommand struct {
	RoomRef
}

type GetStateCommand struct {
	RoomRef
}

type PingCommand struct{}

func (*CreateRoomCommand) Type() CommandType { return CmdCreateRoom }
func (*JoinRoomCommand) Type() CommandType { return CmdJoinRoom }
func (*JoinTeamCommand) Type() CommandType { return CmdJoinTeam }
func (*StartGameCommand) Type() CommandType { return CmdStartGame }
func (*SubmitClueCommand) Type() CommandType { return CmdSubmitClue }
func (*SubmitGuessCommand) Type() CommandType { return CmdSubmitGuess }
func (*PassInterceptCommand) Type() CommandType { return CmdPassIntercept }
func (*ReportOwnResultCommand) Type() CommandType { return CmdReportOwnResult }
func (*NextRoundCommand) Type() CommandType { return CmdNextRound }
func (*LeaveRoomCommand) Type() CommandType { return CmdLeaveRoom }
func (*GetStateCommand) Type() CommandType { return CmdGetState }
func (*PingCommand) Type() CommandType { return CmdPing }

// NewCommand returns an empty command of the given type, ready to be
// decoded into. ok is false for unknown types.
func NewCommand(t CommandType) (cmd Command, ok bool) {
	switch t {
	case CmdCreateRoom:
		return &CreateRoomCommand{}, true
	case CmdJoinRoom:
		return &JoinRoomCommand{}, true
	case CmdJoinTeam:
		return &JoinTeamCommand{}, true
	case CmdStartGame:
		return &StartGameCommand{}, true
	case CmdSubmitClue:
		return &SubmitClueCommand{}, true
	case CmdSubmitGuess:
		return &SubmitGuessCommand{}, true
	case CmdPassIntercept:
		return &PassInterceptCommand{}, true
	case CmdReportOwnResult:
		return &ReportOwnResultCommand{}, true
	case CmdNextRound:
		return &NextRoundCommand{}, true
	case CmdLeaveRoom:
		return &LeaveRoomCommand{}, true
	case CmdGetState:
		return &GetStateCommand{}, true
	case CmdPing:
		return &PingCommand{}, true
	default:
		return nil, false
	}
}

// ReplyType identifies an outbound server message
type ReplyType string

// Server → Client replies
const (
	ReplyRoomCreated ReplyType = "room_created"
	ReplyJoined      ReplyType = "joined"
	ReplyStateUpdate ReplyType = "state_update"
	ReplyLeft        ReplyType = "left"
	ReplyError       ReplyType = "error"
	ReplyPong        ReplyType = "pong"
)

// RoomCreatedPayload is the payload for room_created
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

// JoinedPayload is the payload for joined
type JoinedPayload struct {
	PlayerID string `json:"player_id"`
	RoomCode string `json:"room_code"`
	Nickname string `json:"nickname"`
}

// StateUpdatePayload is the per-player snapshot sent after every accepted mutation
type StateUpdatePayload struct {
	State        *domain.View `json:"state"`
	YourPlayerID string       `json:"your_player_id"`
}

// ErrorPayload is the payload for error
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
