package domain

import (
	"math/rand"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNicknameLength bounds a nickname in runes
const MaxNicknameLength = 24

// GameSettings holds configurable game parameters
type GameSettings struct {
	MaxPlayers           int  `json:"maxPlayers"` // 0 means unlimited
	MinTeamSize          int  `json:"minTeamSize"`
	WordsPerTeam         int  `json:"wordsPerTeam"`
	CodeLength           int  `json:"codeLength"`
	InterceptLimit       int  `json:"interceptLimit"`
	MistakeLimit         int  `json:"mistakeLimit"`
	FirstRoundIntercepts bool `json:"firstRoundIntercepts"`
	LogSize              int  `json:"-"`
}

// DefaultGameSettings returns the default game settings
func DefaultGameSettings() GameSettings {
	return GameSettings{
		MaxPlayers:           16,
		MinTeamSize:          2,
		WordsPerTeam:         4,
		CodeLength:           3,
		InterceptLimit:       2,
		MistakeLimit:         2,
		FirstRoundIntercepts: false,
		LogSize:              50,
	}
}

// Normalize clamps settings to values the engine can play with
func (s GameSettings) Normalize() GameSettings {
	if s.MaxPlayers < 0 {
		s.MaxPlayers = 0
	}
	if s.MinTeamSize < 1 {
		s.MinTeamSize = 1
	}
	if s.WordsPerTeam < 2 {
		s.WordsPerTeam = 2
	}
	if s.CodeLength < 1 {
		s.CodeLength = 1
	}
	if s.CodeLength > s.WordsPerTeam {
		s.CodeLength = s.WordsPerTeam
	}
	if s.InterceptLimit < 1 {
		s.InterceptLimit = 1
	}
	if s.MistakeLimit < 1 {
		s.MistakeLimit = 1
	}
	if s.LogSize < 1 {
		s.LogSize = 1
	}
	return s
}

// Game is one room: the roster, both teams and the round state machine.
// Game is not safe for concurrent use; callers serialize access.
type Game struct {
	ID           string              `json:"id"`
	Players      map[string]*Player  `json:"players"`
	Teams        map[Team]*TeamState `json:"-"`
	Phase        Phase               `json:"phase"`
	Settings     GameSettings        `json:"settings"`
	RoundNumber  int                 `json:"roundNumber"`
	CurrentRound *Round              `json:"-"`
	LastRound    *RoundRecord        `json:"-"`
	RoundHistory []*RoundRecord      `json:"-"`
	Winner       Team                `json:"winner,omitempty"`
	Log          *EventLog           `json:"-"`
	CreatedAt    time.Time           `json:"createdAt"`

	rng *rand.Rand
}

// NewGame creates a new room with the given code. A nil rng uses a time seed.
func NewGame(id string, settings GameSettings, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	settings = settings.Normalize()

	return &Game{
		ID:      id,
		Players: make(map[string]*Player),
		Teams: map[Team]*TeamState{
			TeamRed:  newTeamState(),
			TeamBlue: newTeamState(),
		},
		Phase:        PhaseWaiting,
		Settings:     settings,
		RoundHistory: make([]*RoundRecord, 0),
		Log:          NewEventLog(settings.LogSize),
		CreatedAt:    time.Now(),
		rng:          rng,
	}
}

// AddPlayer adds a player with no team
func (g *Game) AddPlayer(playerID, nickname string) (*Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, ErrEmptyNickname
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return nil, ErrNicknameTooLong
	}

	if g.Settings.MaxPlayers > 0 && len(g.Players) >= g.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}

	player := NewPlayer(playerID, nickname)
	g.Players[playerID] = player
	g.logEvent(EventPlayerJoined, "%s joined the room", nickname)
	g.refreshLobbyPhase()

	return player, nil
}

// RemovePlayer removes a player from the room. An in-progress game is not
// forfeited; it continues with the remaining roster.
func (g *Game) RemovePlayer(playerID string) error {
	player, ok := g.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	for _, ts := range g.Teams {
		ts.removeMember(playerID)
	}
	delete(g.Players, playerID)

	g.logEvent(EventPlayerLeft, "%s left the room", player.Nickname)
	g.refreshLobbyPhase()

	return nil
}

// GetPlayer returns a player by ID
func (g *Game) GetPlayer(playerID string) (*Player, error) {
	player, ok := g.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// GetPlayerIDs returns all player IDs in join order
func (g *Game) GetPlayerIDs() []string {
	players := g.sortedPlayers()
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// GetConnectedPlayerCount returns the number of connected players
func (g *Game) GetConnectedPlayerCount() int {
	count := 0
	for _, p := range g.Players {
		if p.IsConnected() {
			count++
		}
	}
	return count
}

// JoinTeam moves a player to a team. Only allowed before the game starts or
// after it is over.
func (g *Game) JoinTeam(playerID string, team Team) error {
	if team != TeamNone && !team.IsPlaying() {
		return ErrInvalidTeam
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if !g.Phase.IsPregame() {
		return ErrGameInProgress
	}

	if player.Team == team {
		return nil
	}

	// Secrets of a finished game stay private once teams reshuffle
	if g.Phase == PhaseGameOver {
		for _, ts := range g.Teams {
			ts.Words = nil
		}
		g.RoundHistory = make([]*RoundRecord, 0)
		g.LastRound = nil
	}

	if ts, ok := g.Teams[player.Team]; ok {
		ts.removeMember(playerID)
	}
	if ts, ok := g.Teams[team]; ok {
		ts.addMember(playerID)
	}
	player.Team = team

	g.logEvent(EventTeamChanged, "%s moved to %s", player.Nickname, team)
	g.refreshLobbyPhase()

	return nil
}

// CanStart checks if the game can be started. Only connected members count
// toward the minimum team size.
func (g *Game) CanStart() bool {
	if !g.Phase.IsPregame() {
		return false
	}
	return g.connectedMembers(TeamRed) >= g.Settings.MinTeamSize &&
		g.connectedMembers(TeamBlue) >= g.Settings.MinTeamSize
}

// connectedMembers counts the connected players on team
func (g *Game) connectedMembers(team Team) int {
	count := 0
	for _, id := range g.Teams[team].Members {
		if p, ok := g.Players[id]; ok && p.IsConnected() {
			count++
		}
	}
	return count
}

// StartGame deals words to both teams and starts red's first round. words
// must hold at least 2*WordsPerTeam distinct entries; red takes the first
// half, blue the second.
func (g *Game) StartGame(words []string) error {
	if !g.Phase.IsPregame() {
		return ErrGameInProgress
	}

	if !g.CanStart() {
		return ErrTeamsTooSmall
	}

	n := g.Settings.WordsPerTeam
	if len(words) < 2*n {
		return ErrWordPoolTooSmall
	}

	g.Teams[TeamRed].resetForGame(append([]string(nil), words[:n]...))
	g.Teams[TeamBlue].resetForGame(append([]string(nil), words[n:2*n]...))
	g.RoundNumber = 0
	g.RoundHistory = make([]*RoundRecord, 0)
	g.LastRound = nil
	g.CurrentRound = nil
	g.Winner = ""

	g.logEvent(EventGameStarted, "Game started, words dealt")

	return g.startRound(TeamRed)
}

// startRound rotates in the next encoder of team and generates a fresh code
func (g *Game) startRound(team Team) error {
	if err := g.advance(PhaseEncoding); err != nil {
		return err
	}

	ts := g.Teams[team]
	teamRound := ts.Rounds + 1
	g.RoundNumber++

	encoderID := ts.nextEncoder(func(id string) bool {
		p, ok := g.Players[id]
		return ok && p.IsConnected()
	})
	nickname := ""
	if p, ok := g.Players[encoderID]; ok {
		nickname = p.Nickname
	}

	code := GenerateCode(g.rng, g.Settings.CodeLength, g.Settings.WordsPerTeam, ts.lastCode)
	ts.lastCode = code

	g.CurrentRound = NewRound(g.RoundNumber, teamRound, team, encoderID, nickname, code)

	g.logEvent(EventRoundStarted, "Round %d (%s), %s is encoding", teamRound, team, nickname)
	return nil
}

// SubmitClue stores the current encoder's clues and opens guessing
func (g *Game) SubmitClue(playerID string, words []string) error {
	if g.Phase != PhaseEncoding || g.CurrentRound == nil {
		return ErrInvalidPhase
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if !g.CurrentRound.IsEncoder(playerID) {
		return ErrNotEncoder
	}

	clue, err := NewClue(playerID, player.Nickname, words, g.Settings.CodeLength)
	if err != nil {
		return err
	}

	if err := g.advance(PhaseGuessing); err != nil {
		return err
	}
	g.CurrentRound.Clue = clue

	g.logEvent(EventClueSubmitted, "%s gave clues: %s", player.Nickname, strings.Join(clue.Words, ", "))

	return nil
}

// SubmitGuess records the opposing team's interception attempt. Correctness
// is only applied to the score when the round resolves.
func (g *Game) SubmitGuess(playerID string, guess Code) error {
	if g.Phase != PhaseGuessing || g.CurrentRound == nil {
		return ErrInvalidPhase
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if !player.Team.IsPlaying() {
		return ErrNotOnTeam
	}
	if player.Team != g.CurrentRound.Team.Opponent() {
		return ErrNotOpponent
	}

	if !g.interceptAllowed() {
		return ErrFirstRoundIntercept
	}

	if err := guess.Validate(g.Settings.CodeLength, g.Settings.WordsPerTeam); err != nil {
		return err
	}

	if err := g.CurrentRound.AddInterceptGuess(playerID, guess); err != nil {
		return err
	}

	g.logEvent(EventInterceptGuess, "%s tried to intercept with %s", player.Team, guess)

	return nil
}

// PassIntercept lets the opposing team decline this round's interception
func (g *Game) PassIntercept(playerID string) error {
	if g.Phase != PhaseGuessing || g.CurrentRound == nil {
		return ErrInvalidPhase
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if !player.Team.IsPlaying() {
		return ErrNotOnTeam
	}
	if player.Team != g.CurrentRound.Team.Opponent() {
		return ErrNotOpponent
	}

	if !g.interceptAllowed() {
		return ErrFirstRoundIntercept
	}

	if err := g.CurrentRound.PassIntercept(playerID); err != nil {
		return err
	}

	g.logEvent(EventInterceptGuess, "%s passed on intercepting", player.Team)

	return nil
}

// interceptAllowed reports whether the current round can be intercepted
func (g *Game) interceptAllowed() bool {
	return g.Settings.FirstRoundIntercepts || g.CurrentRound.TeamRound > 1
}

// interceptPending is true while the opposing team still owes a guess or a
// pass. A team with nobody connected cannot hold up the round.
func (g *Game) interceptPending() bool {
	return g.interceptAllowed() &&
		!g.CurrentRound.InterceptSettled() &&
		g.connectedMembers(g.CurrentRound.Team.Opponent()) > 0
}

// ReportOwnResult is sent by the encoder to say whether their own team
// decoded the clues. It resolves the round: an interception scores for the
// opponent, a failed decode is a mistake for the acting team, both can
// happen in the same round. When the round can be intercepted, the opposing
// team must guess or pass first.
func (g *Game) ReportOwnResult(playerID string, guessed bool) (*RoundRecord, error) {
	if g.Phase != PhaseGuessing || g.CurrentRound == nil {
		return nil, ErrInvalidPhase
	}

	if _, err := g.GetPlayer(playerID); err != nil {
		return nil, err
	}

	if !g.CurrentRound.IsEncoder(playerID) {
		return nil, ErrNotEncoder
	}

	if g.interceptPending() {
		return nil, ErrInterceptPending
	}

	record, err := g.CurrentRound.Resolve(guessed)
	if err != nil {
		return nil, err
	}

	acting := g.Teams[record.Team]
	acting.Rounds++
	if record.Intercepted {
		g.Teams[record.InterceptedBy].Intercepts++
	}
	if record.Mistake {
		acting.Mistakes++
	}

	g.RoundHistory = append(g.RoundHistory, record)
	g.LastRound = record

	switch {
	case record.Intercepted && record.Mistake:
		g.logEvent(EventRoundResolved, "%s intercepted %s, and %s missed their own code", record.InterceptedBy, record.Team, record.Team)
	case record.Intercepted:
		g.logEvent(EventRoundResolved, "%s intercepted %s", record.InterceptedBy, record.Team)
	case record.Mistake:
		g.logEvent(EventRoundResolved, "%s missed their own code", record.Team)
	default:
		g.logEvent(EventRoundResolved, "%s decoded their own code", record.Team)
	}

	if winner := g.checkWinner(); winner != TeamNone {
		g.Winner = winner
		g.Phase = PhaseGameOver
		g.CurrentRound = nil
		g.logEvent(EventGameEnded, "%s won the game", winner)
	} else {
		g.Phase = PhaseReveal
	}

	return record, nil
}

// NextRound hands the turn to the other team
func (g *Game) NextRound(playerID string) error {
	if g.Phase != PhaseReveal || g.CurrentRound == nil {
		return ErrInvalidPhase
	}

	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if !player.Team.IsPlaying() {
		return ErrNotOnTeam
	}

	return g.startRound(g.CurrentRound.Team.Opponent())
}

// checkWinner returns the winning team, or TeamNone while the game goes on
func (g *Game) checkWinner() Team {
	for _, team := range []Team{TeamRed, TeamBlue} {
		ts := g.Teams[team]
		if ts.Intercepts >= g.Settings.InterceptLimit {
			return team
		}
		if ts.Mistakes >= g.Settings.MistakeLimit {
			return team.Opponent()
		}
	}
	return TeamNone
}

// IsEncoder checks if the given player holds the encoder role right now
func (g *Game) IsEncoder(playerID string) bool {
	if g.CurrentRound == nil || playerID == "" {
		return false
	}
	switch g.Phase {
	case PhaseEncoding, PhaseGuessing, PhaseReveal:
		return g.CurrentRound.IsEncoder(playerID)
	default:
		return false
	}
}

// CurrentEncoderID returns the current encoder, or "" outside a round
func (g *Game) CurrentEncoderID() string {
	if g.CurrentRound == nil {
		return ""
	}
	return g.CurrentRound.EncoderID
}

// refreshLobbyPhase moves between waiting and setup as the roster changes
func (g *Game) refreshLobbyPhase() {
	if g.Phase != PhaseWaiting && g.Phase != PhaseSetup {
		return
	}
	target := PhaseWaiting
	if len(g.Players) >= 2*g.Settings.MinTeamSize {
		target = PhaseSetup
	}
	if target != g.Phase && g.Phase.CanTransitionTo(target) {
		g.Phase = target
	}
}

// advance moves to target if the phase graph allows it
func (g *Game) advance(target Phase) error {
	if !g.Phase.CanTransitionTo(target) {
		return ErrInvalidPhase
	}
	g.Phase = target
	return nil
}

func (g *Game) sortedPlayers() []*Player {
	players := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})
	return players
}

func (g *Game) logEvent(eventType EventType, format string, args ...interface{}) {
	g.Log.Append(NewEvent(eventType, format, args...))
}
