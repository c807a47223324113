package domain

import "time"

// Round is the round currently being played by one team
type Round struct {
	Number          int       `json:"number"`    // Room-wide round counter
	TeamRound       int       `json:"teamRound"` // How many times this team has encoded
	Team            Team      `json:"team"`
	EncoderID       string    `json:"encoderId"`
	EncoderNickname string    `json:"encoderNickname"`
	Code            Code      `json:"-"`
	Clue            *Clue     `json:"clue,omitempty"`
	InterceptGuess  Code      `json:"-"`
	InterceptorID   string    `json:"-"`
	InterceptPassed bool      `json:"interceptPassed"`
	StartedAt       time.Time `json:"startedAt"`

	resolved bool
}

// NewRound creates a new round for the given team and encoder
func NewRound(number, teamRound int, team Team, encoderID, encoderNickname string, code Code) *Round {
	return &Round{
		Number:          number,
		TeamRound:       teamRound,
		Team:            team,
		EncoderID:       encoderID,
		EncoderNickname: encoderNickname,
		Code:            code,
		StartedAt:       time.Now(),
	}
}

// IsEncoder checks if the given player is this round's encoder
func (r *Round) IsEncoder(playerID string) bool {
	return r.EncoderID == playerID
}

// HasInterceptGuess returns true once the opposing team has guessed
func (r *Round) HasInterceptGuess() bool {
	return r.InterceptGuess != nil
}

// InterceptSettled returns true once the opposing team has guessed or passed
func (r *Round) InterceptSettled() bool {
	return r.HasInterceptGuess() || r.InterceptPassed
}

// AddInterceptGuess records the opposing team's single guess for this round
func (r *Round) AddInterceptGuess(playerID string, guess Code) error {
	if r.InterceptSettled() {
		return ErrAlreadyGuessed
	}

	r.InterceptGuess = append(Code(nil), guess...)
	r.InterceptorID = playerID
	return nil
}

// PassIntercept records that the opposing team declines to intercept
func (r *Round) PassIntercept(playerID string) error {
	if r.InterceptSettled() {
		return ErrAlreadyGuessed
	}

	r.InterceptPassed = true
	r.InterceptorID = playerID
	return nil
}

// Intercepted returns true if the opposing team's guess matches the code
func (r *Round) Intercepted() bool {
	return r.HasInterceptGuess() && r.InterceptGuess.Equal(r.Code)
}

// Resolve closes the round and produces its history record. A round can only
// be resolved once.
func (r *Round) Resolve(ownTeamGuessed bool) (*RoundRecord, error) {
	if r.resolved {
		return nil, ErrRoundAlreadyResolved
	}
	r.resolved = true

	record := &RoundRecord{
		Number:          r.Number,
		TeamRound:       r.TeamRound,
		Team:            r.Team,
		EncoderNickname: r.EncoderNickname,
		Code:            append(Code(nil), r.Code...),
		InterceptGuess:  append(Code(nil), r.InterceptGuess...),
		Intercepted:     r.Intercepted(),
		Mistake:         !ownTeamGuessed,
		OwnTeamGuessed:  ownTeamGuessed,
		Completed:       true,
		StartedAt:       r.StartedAt,
		EndedAt:         time.Now(),
	}
	if r.Clue != nil {
		record.Clues = append([]string(nil), r.Clue.Words...)
	}
	if record.Intercepted {
		record.InterceptedBy = r.Team.Opponent()
	}

	return record, nil
}

// RoundRecord is an immutable history entry for a completed round
type RoundRecord struct {
	Number          int       `json:"number"`
	TeamRound       int       `json:"teamRound"`
	Team            Team      `json:"team"`
	EncoderNickname string    `json:"encoderNickname"`
	Clues           []string  `json:"clues"`
	Code            Code      `json:"code,omitempty"`
	InterceptGuess  Code      `json:"interceptGuess,omitempty"`
	Intercepted     bool      `json:"intercepted"`
	InterceptedBy   Team      `json:"interceptedBy,omitempty"`
	Mistake         bool      `json:"mistake"`
	OwnTeamGuessed  bool      `json:"ownTeamGuessed"`
	Completed       bool      `json:"completed"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
}

// ViewFor returns a copy of the record as seen by a member of viewer.
// The code is only kept for the team that encoded it. The interception
// guess, which equals the code when it hit, is only kept for the two
// playing teams.
func (rr *RoundRecord) ViewFor(viewer Team) RoundRecord {
	view := *rr
	view.Clues = append([]string(nil), rr.Clues...)
	view.Code = nil
	view.InterceptGuess = nil

	if viewer == rr.Team {
		view.Code = append(Code(nil), rr.Code...)
	}
	if viewer.IsPlaying() && (viewer == rr.Team || viewer == rr.Team.Opponent()) {
		view.InterceptGuess = append(Code(nil), rr.InterceptGuess...)
	}

	return view
}
