package app

import (
	"log/slog"

	"decrypto/internal/domain"
)

// Conn is a client connection that can be bound to a room and player.
// A fresh connection is unbound until join_room succeeds.
type Conn interface {
	ClientConnection
	Bind(roomCode, playerID string)
	GetRoomCode() string
}

// Dispatcher routes decoded commands to the hub and room sessions
type Dispatcher struct {
	hub    *GameHub
	logger *slog.Logger
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(hub *GameHub, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		hub:    hub,
		logger: logger,
	}
}

// Hub returns the registry commands are dispatched to
func (d *Dispatcher) Hub() *GameHub {
	return d.hub
}

// Dispatch executes cmd on behalf of conn. A rejected command is answered
// with an error reply to conn alone and the error is returned.
func (d *Dispatcher) Dispatch(conn Conn, cmd Command) error {
	err := d.dispatch(conn, cmd)
	if err != nil {
		d.reject(conn, cmd, err)
	}
	return err
}

func (d *Dispatcher) dispatch(conn Conn, cmd Command) error {
	switch c := cmd.(type) {
	case *PingCommand:
		return conn.Send(ReplyPong, nil)

	case *CreateRoomCommand:
		session, err := d.hub.CreateRoom()
		if err != nil {
			return err
		}
		return conn.Send(ReplyRoomCreated, &RoomCreatedPayload{RoomCode: session.GetRoomCode()})

	case *JoinRoomCommand:
		return d.joinRoom(conn, c)
	}

	session, playerID, err := d.resolve(conn, cmd)
	if err != nil {
		return err
	}

	switch c := cmd.(type) {
	case *JoinTeamCommand:
		team, err := domain.ParseTeam(c.Team)
		if err != nil {
			return err
		}
		return session.JoinTeam(playerID, team)

	case *StartGameCommand:
		return session.StartGame(playerID)

	case *SubmitClueCommand:
		return session.SubmitClue(playerID, c.ClueWords)

	case *SubmitGuessCommand:
		return session.SubmitGuess(playerID, domain.Code(c.GuessCode))

	case *PassInterceptCommand:
		return session.PassIntercept(playerID)

	case *ReportOwnResultCommand:
		_, err := session.ReportOwnResult(playerID, c.GuessedCorrectly)
		return err

	case *NextRoundCommand:
		return session.NextRound(playerID)

	case *LeaveRoomCommand:
		if err := session.RemovePlayer(playerID); err != nil {
			return err
		}
		conn.Bind("", "")
		return conn.Send(ReplyLeft, nil)

	case *GetStateCommand:
		session.SendState(playerID)
		return nil

	default:
		return domain.ErrUnknownCommand
	}
}

func (d *Dispatcher) joinRoom(conn Conn, cmd *JoinRoomCommand) error {
	if conn.GetRoomCode() != "" {
		return domain.ErrAlreadyInRoom
	}

	session, player, err := d.hub.JoinRoom(cmd.RoomCode, cmd.Nickname)
	if err != nil {
		return err
	}

	roomCode := session.GetRoomCode()
	conn.Bind(roomCode, player.ID)
	session.RegisterClient(player.ID, conn)

	if err := conn.Send(ReplyJoined, &JoinedPayload{
		PlayerID: player.ID,
		RoomCode: roomCode,
		Nickname: player.Nickname,
	}); err != nil {
		return err
	}

	session.SendState(player.ID)
	return nil
}

// resolve finds the room and player bound to conn and checks the identity
// carried by the command against it
func (d *Dispatcher) resolve(conn Conn, cmd Command) (*RoomSession, string, error) {
	roomCode, playerID := conn.GetRoomCode(), conn.GetPlayerID()
	if roomCode == "" || playerID == "" {
		return nil, "", domain.ErrNotInRoom
	}

	if scoped, ok := cmd.(roomScoped); ok {
		ref := scoped.Ref()
		if ref.RoomCode != "" && NormalizeRoomCode(ref.RoomCode) != roomCode {
			return nil, "", domain.ErrIdentityMismatch
		}
		if ref.PlayerID != "" && ref.PlayerID != playerID {
			return nil, "", domain.ErrIdentityMismatch
		}
	}

	session, err := d.hub.GetRoom(roomCode)
	if err != nil {
		return nil, "", err
	}
	return session, playerID, nil
}

// Disconnect handles a closed connection
func (d *Dispatcher) Disconnect(conn Conn) {
	roomCode, playerID := conn.GetRoomCode(), conn.GetPlayerID()
	if roomCode == "" || playerID == "" {
		return
	}

	session, err := d.hub.GetRoom(roomCode)
	if err != nil {
		return
	}

	session.DisconnectPlayer(playerID)
	d.logger.Info("player disconnected", "roomCode", roomCode, "playerID", playerID)
}

// reject answers the sender with an error reply
func (d *Dispatcher) reject(conn Conn, cmd Command, err error) {
	kind := domain.KindOf(err)
	attrs := []any{
		"command", cmd.Type(),
		"roomCode", conn.GetRoomCode(),
		"playerID", conn.GetPlayerID(),
		"error", err,
	}
	if kind == domain.KindInternal {
		d.logger.Error("command failed", attrs...)
	} else {
		d.logger.Debug("command rejected", attrs...)
	}

	if sendErr := conn.Send(ReplyError, &ErrorPayload{
		Code:    string(kind),
		Message: err.Error(),
	}); sendErr != nil {
		d.logger.Debug("failed to send error", "error", sendErr)
	}
}
