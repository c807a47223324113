package domain

import "errors"

// ErrorKind classifies a domain error for the transport layer
type ErrorKind string

const (
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindInvalidAction ErrorKind = "INVALID_ACTION"
	KindValidation    ErrorKind = "VALIDATION_ERROR"
	KindInternal      ErrorKind = "INTERNAL_ERROR"
)

// Error is a domain error with a kind
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Domain errors
var (
	// NotFound
	ErrRoomNotFound   = newError(KindNotFound, "room not found")
	ErrPlayerNotFound = newError(KindNotFound, "player not found")

	// InvalidAction
	ErrRoomFull            = newError(KindInvalidAction, "room is full")
	ErrGameInProgress      = newError(KindInvalidAction, "game already in progress")
	ErrTeamsTooSmall       = newError(KindInvalidAction, "each team needs more players to start")
	ErrInvalidPhase        = newError(KindInvalidAction, "invalid action for current phase")
	ErrNotEncoder          = newError(KindInvalidAction, "only the current encoder can do that")
	ErrNotOnTeam           = newError(KindInvalidAction, "player is not on a team")
	ErrNotOpponent         = newError(KindInvalidAction, "only the opposing team can intercept")
	ErrAlreadyGuessed      = newError(KindInvalidAction, "interception already attempted this round")
	ErrInterceptPending    = newError(KindInvalidAction, "the opposing team has not guessed or passed yet")
	ErrFirstRoundIntercept = newError(KindInvalidAction, "interception is not possible in a team's first round")
	ErrIdentityMismatch    = newError(KindInvalidAction, "request does not match this connection")
	ErrNotInRoom           = newError(KindInvalidAction, "join a room first")
	ErrAlreadyInRoom       = newError(KindInvalidAction, "connection already joined a room")

	// ValidationError
	ErrInvalidTeam      = newError(KindValidation, "invalid team")
	ErrEmptyNickname    = newError(KindValidation, "nickname cannot be empty")
	ErrNicknameTooLong  = newError(KindValidation, "nickname is too long")
	ErrClueCount        = newError(KindValidation, "wrong number of clues")
	ErrEmptyClue        = newError(KindValidation, "clue cannot be empty")
	ErrClueTooLong      = newError(KindValidation, "clue is too long")
	ErrInvalidCode      = newError(KindValidation, "code must be distinct digits within range")
	ErrInvalidCodeCount = newError(KindValidation, "code has the wrong number of digits")
	ErrUnknownCommand   = newError(KindValidation, "unknown message type")

	// Internal
	ErrCodeSpaceExhausted   = newError(KindInternal, "failed to generate unique room code")
	ErrWordPoolTooSmall     = newError(KindInternal, "word pool too small for two teams")
	ErrRoundAlreadyResolved = newError(KindInternal, "round already resolved")
	ErrRoomClosed           = newError(KindInternal, "room is no longer available")
)

// KindOf returns the kind of err, or KindInternal for errors outside the domain
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsInvariantViolation reports errors after which a room cannot continue
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrRoundAlreadyResolved)
}
