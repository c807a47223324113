package domain

// TeamView is the public part of a team's state
type TeamView struct {
	Members    []string `json:"members"`
	Rounds     int      `json:"rounds"`
	Intercepts int      `json:"intercepts"`
	Mistakes   int      `json:"mistakes"`
}

// View is the room state as seen by one player. Secret fields are only
// populated for players entitled to them:
//   - MyWords: the viewer's own team words, once dealt
//   - CurrentCode: the current encoder only, during encoding and guessing
//   - History/LastRound codes: members of the team that encoded the round
//   - History/LastRound interception guesses: members of either team
//
// Optional fields are nil outside the phases they belong to.
type View struct {
	RoomCode           string        `json:"roomCode"`
	Phase              Phase         `json:"phase"`
	Round              int           `json:"round"`
	Players            []PlayerInfo  `json:"players"`
	Red                TeamView      `json:"red"`
	Blue               TeamView      `json:"blue"`
	Settings           GameSettings  `json:"settings"`
	CanStart           bool          `json:"canStart"`
	MyTeam             Team          `json:"myTeam"`
	MyNickname         string        `json:"myNickname"`
	IsEncoder          bool          `json:"isEncoder"`
	MyWords            []string      `json:"myWords,omitempty"`
	CurrentEncoderTeam *Team         `json:"currentEncoderTeam,omitempty"`
	CurrentEncoderID   *string       `json:"currentEncoderId,omitempty"`
	TeamRound          *int          `json:"teamRound,omitempty"`
	CurrentCode        Code          `json:"currentCode,omitempty"`
	CurrentClue        *Clue         `json:"currentClue,omitempty"`
	InterceptAttempted *bool         `json:"interceptAttempted,omitempty"`
	LastRound          *RoundRecord  `json:"lastRound,omitempty"`
	History            []RoundRecord `json:"history"`
	Winner             *Team         `json:"winner,omitempty"`
	Log                []GameEvent   `json:"log"`
}

// ViewFor projects the room state for one player. An unknown player gets
// the spectator view.
func (g *Game) ViewFor(playerID string) *View {
	viewer := TeamNone
	view := &View{
		RoomCode: g.ID,
		Phase:    g.Phase,
		Round:    g.RoundNumber,
		Players:  make([]PlayerInfo, 0, len(g.Players)),
		Red:      g.teamView(TeamRed),
		Blue:     g.teamView(TeamBlue),
		Settings: g.Settings,
		CanStart: g.CanStart(),
		MyTeam:   TeamNone,
		History:  make([]RoundRecord, 0, len(g.RoundHistory)),
		Log:      g.Log.Entries(),
	}

	for _, p := range g.sortedPlayers() {
		view.Players = append(view.Players, p.ToInfo(g.IsEncoder(p.ID)))
	}

	if player, ok := g.Players[playerID]; ok {
		viewer = player.Team
		view.MyTeam = player.Team
		view.MyNickname = player.Nickname
		view.IsEncoder = g.IsEncoder(playerID)
	}

	if ts, ok := g.Teams[viewer]; ok && len(ts.Words) > 0 {
		view.MyWords = append([]string(nil), ts.Words...)
	}

	if r := g.CurrentRound; r != nil && g.isRoundPhase() {
		team := r.Team
		encoderID := r.EncoderID
		teamRound := r.TeamRound
		view.CurrentEncoderTeam = &team
		view.CurrentEncoderID = &encoderID
		view.TeamRound = &teamRound

		if view.IsEncoder && (g.Phase == PhaseEncoding || g.Phase == PhaseGuessing) {
			view.CurrentCode = append(Code(nil), r.Code...)
		}

		if r.Clue != nil && (g.Phase == PhaseGuessing || g.Phase == PhaseReveal) {
			clue := *r.Clue
			clue.Words = append([]string(nil), r.Clue.Words...)
			view.CurrentClue = &clue
		}

		if g.Phase == PhaseGuessing {
			attempted := r.InterceptSettled()
			view.InterceptAttempted = &attempted
		}
	}

	if g.LastRound != nil && (g.Phase == PhaseReveal || g.Phase == PhaseGameOver) {
		last := g.LastRound.ViewFor(viewer)
		view.LastRound = &last
	}

	for _, record := range g.RoundHistory {
		view.History = append(view.History, record.ViewFor(viewer))
	}

	if g.Phase == PhaseGameOver && g.Winner.IsPlaying() {
		winner := g.Winner
		view.Winner = &winner
	}

	return view
}

func (g *Game) teamView(team Team) TeamView {
	ts := g.Teams[team]
	return TeamView{
		Members:    append([]string{}, ts.Members...),
		Rounds:     ts.Rounds,
		Intercepts: ts.Intercepts,
		Mistakes:   ts.Mistakes,
	}
}

// isRoundPhase is true while a round is being played or shown
func (g *Game) isRoundPhase() bool {
	return g.Phase == PhaseEncoding || g.Phase == PhaseGuessing || g.Phase == PhaseReveal
}
