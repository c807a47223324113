package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWords = []string{"pirate", "space", "museum", "rabbit", "computer", "sea", "fire", "book"}

// setupGame builds a room with A, B on red and C, D on blue
func setupGame(t *testing.T, settings GameSettings) *Game {
	t.Helper()

	g := NewGame("R1", settings, rand.New(rand.NewSource(42)))
	for _, p := range []struct {
		id   string
		team Team
	}{
		{"A", TeamRed}, {"B", TeamRed}, {"C", TeamBlue}, {"D", TeamBlue},
	} {
		_, err := g.AddPlayer(p.id, "player-"+p.id)
		require.NoError(t, err)
		require.NoError(t, g.JoinTeam(p.id, p.team))
	}
	return g
}

func startedGame(t *testing.T, settings GameSettings) *Game {
	t.Helper()
	g := setupGame(t, settings)
	require.NoError(t, g.StartGame(testWords))
	return g
}

// playRound submits clues, an interception or a pass when the round allows
// one, and the encoder's report
func playRound(t *testing.T, g *Game, intercept bool, ownGuessed bool) *RoundRecord {
	t.Helper()

	round := g.CurrentRound
	require.NotNil(t, round)
	require.NoError(t, g.SubmitClue(round.EncoderID, []string{"one", "two", "three"}))

	opponent := g.Teams[round.Team.Opponent()].Members[0]
	if intercept {
		require.NoError(t, g.SubmitGuess(opponent, round.Code))
	} else if g.interceptAllowed() {
		require.NoError(t, g.PassIntercept(opponent))
	}

	record, err := g.ReportOwnResult(round.EncoderID, ownGuessed)
	require.NoError(t, err)
	return record
}

func TestGame_LobbyPhases(t *testing.T) {
	g := NewGame("R1", DefaultGameSettings(), nil)
	assert.Equal(t, PhaseWaiting, g.Phase)

	for _, id := range []string{"A", "B", "C"} {
		_, err := g.AddPlayer(id, id)
		require.NoError(t, err)
	}
	assert.Equal(t, PhaseWaiting, g.Phase)

	_, err := g.AddPlayer("D", "D")
	require.NoError(t, err)
	assert.Equal(t, PhaseSetup, g.Phase)

	require.NoError(t, g.RemovePlayer("D"))
	assert.Equal(t, PhaseWaiting, g.Phase)
}

func TestGame_AddPlayerValidation(t *testing.T) {
	settings := DefaultGameSettings()
	settings.MaxPlayers = 1
	g := NewGame("R1", settings, nil)

	_, err := g.AddPlayer("A", "   ")
	assert.ErrorIs(t, err, ErrEmptyNickname)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = g.AddPlayer("A", "abcdefghijklmnopqrstuvwxyz")
	assert.ErrorIs(t, err, ErrNicknameTooLong)

	p, err := g.AddPlayer("A", "  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Nickname)
	assert.Equal(t, TeamNone, p.Team)

	_, err = g.AddPlayer("B", "bob")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestGame_JoinTeam(t *testing.T) {
	g := setupGame(t, DefaultGameSettings())

	assert.Equal(t, []string{"A", "B"}, g.Teams[TeamRed].Members)
	assert.Equal(t, []string{"C", "D"}, g.Teams[TeamBlue].Members)

	// Switching teams repeatedly before the game is fine
	require.NoError(t, g.JoinTeam("A", TeamBlue))
	require.NoError(t, g.JoinTeam("A", TeamRed))
	require.NoError(t, g.JoinTeam("A", TeamRed))
	assert.Equal(t, []string{"B", "A"}, g.Teams[TeamRed].Members)
	assert.Equal(t, []string{"C", "D"}, g.Teams[TeamBlue].Members)

	assert.ErrorIs(t, g.JoinTeam("A", Team("green")), ErrInvalidTeam)
	assert.ErrorIs(t, g.JoinTeam("Z", TeamRed), ErrPlayerNotFound)

	require.NoError(t, g.StartGame(testWords))
	err := g.JoinTeam("A", TeamBlue)
	assert.ErrorIs(t, err, ErrGameInProgress)
	assert.Equal(t, KindInvalidAction, KindOf(err))
	assert.Equal(t, TeamRed, g.Players["A"].Team)
}

func TestGame_StartGame(t *testing.T) {
	t.Run("requires two players per team", func(t *testing.T) {
		g := setupGame(t, DefaultGameSettings())
		require.NoError(t, g.JoinTeam("D", TeamNone))
		assert.Equal(t, PhaseSetup, g.Phase)

		err := g.StartGame(testWords)
		assert.ErrorIs(t, err, ErrTeamsTooSmall)
		assert.Equal(t, KindInvalidAction, KindOf(err))
		assert.Equal(t, PhaseSetup, g.Phase)
		assert.Nil(t, g.CurrentRound)
	})

	t.Run("deals words and starts red", func(t *testing.T) {
		g := setupGame(t, DefaultGameSettings())
		require.True(t, g.CanStart())
		require.NoError(t, g.StartGame(testWords))

		assert.Equal(t, PhaseEncoding, g.Phase)
		assert.Equal(t, testWords[:4], g.Teams[TeamRed].Words)
		assert.Equal(t, testWords[4:8], g.Teams[TeamBlue].Words)
		assert.Equal(t, TeamRed, g.CurrentRound.Team)
		assert.Equal(t, "A", g.CurrentRound.EncoderID)
		assert.Equal(t, 1, g.RoundNumber)
		assert.Equal(t, 1, g.CurrentRound.TeamRound)
		assert.NoError(t, g.CurrentRound.Code.Validate(3, 4))
	})

	t.Run("cannot start twice", func(t *testing.T) {
		g := startedGame(t, DefaultGameSettings())
		assert.ErrorIs(t, g.StartGame(testWords), ErrGameInProgress)
	})

	t.Run("word pool too small", func(t *testing.T) {
		g := setupGame(t, DefaultGameSettings())
		err := g.StartGame(testWords[:5])
		assert.ErrorIs(t, err, ErrWordPoolTooSmall)
		assert.Equal(t, KindInternal, KindOf(err))
		assert.Equal(t, PhaseSetup, g.Phase)
	})
}

func TestGame_SubmitClue(t *testing.T) {
	g := startedGame(t, DefaultGameSettings())
	encoder := g.CurrentEncoderID()
	require.Contains(t, []string{"A", "B"}, encoder)

	nonEncoder := "B"
	if encoder == "B" {
		nonEncoder = "A"
	}

	err := g.SubmitClue(nonEncoder, []string{"sun", "dog", "river"})
	assert.ErrorIs(t, err, ErrNotEncoder)
	assert.Equal(t, KindInvalidAction, KindOf(err))
	assert.Equal(t, PhaseEncoding, g.Phase)

	assert.ErrorIs(t, g.SubmitClue("C", []string{"sun", "dog", "river"}), ErrNotEncoder)
	assert.ErrorIs(t, g.SubmitClue(encoder, []string{"sun", "dog"}), ErrClueCount)
	assert.ErrorIs(t, g.SubmitClue(encoder, []string{"sun", " ", "river"}), ErrEmptyClue)
	assert.Equal(t, PhaseEncoding, g.Phase)
	assert.Nil(t, g.CurrentRound.Clue)

	require.NoError(t, g.SubmitClue(encoder, []string{"sun", "dog", "river"}))
	assert.Equal(t, PhaseGuessing, g.Phase)
	assert.Equal(t, []string{"sun", "dog", "river"}, g.CurrentRound.Clue.Words)

	// Replaying the same message is rejected and changes nothing
	err = g.SubmitClue(encoder, []string{"moon", "cat", "lake"})
	assert.ErrorIs(t, err, ErrInvalidPhase)
	assert.Equal(t, []string{"sun", "dog", "river"}, g.CurrentRound.Clue.Words)
}

func TestGame_SubmitGuess(t *testing.T) {
	settings := DefaultGameSettings()
	g := startedGame(t, settings)

	// Red's first round cannot be intercepted
	require.NoError(t, g.SubmitClue(g.CurrentEncoderID(), []string{"a", "b", "c"}))
	assert.ErrorIs(t, g.SubmitGuess("C", Code{1, 2, 3}), ErrFirstRoundIntercept)

	settings.FirstRoundIntercepts = true
	g = startedGame(t, settings)
	require.NoError(t, g.SubmitClue(g.CurrentEncoderID(), []string{"a", "b", "c"}))

	assert.ErrorIs(t, g.SubmitGuess("B", Code{1, 2, 3}), ErrNotOpponent)
	assert.ErrorIs(t, g.SubmitGuess("C", Code{1, 1, 2}), ErrInvalidCode)
	assert.ErrorIs(t, g.SubmitGuess("C", Code{1, 2, 5}), ErrInvalidCode)
	assert.ErrorIs(t, g.SubmitGuess("C", Code{1, 2}), ErrInvalidCodeCount)
	assert.Equal(t, KindValidation, KindOf(g.SubmitGuess("C", Code{0, 2, 3})))

	require.NoError(t, g.SubmitGuess("C", Code{1, 2, 3}))
	assert.ErrorIs(t, g.SubmitGuess("D", Code{3, 2, 1}), ErrAlreadyGuessed)
	assert.Equal(t, Code{1, 2, 3}, g.CurrentRound.InterceptGuess)
}

func TestGame_SpectatorCannotIntercept(t *testing.T) {
	settings := DefaultGameSettings()
	settings.FirstRoundIntercepts = true
	g := setupGame(t, settings)
	_, err := g.AddPlayer("S", "spectator")
	require.NoError(t, err)
	require.NoError(t, g.StartGame(testWords))
	require.NoError(t, g.SubmitClue(g.CurrentEncoderID(), []string{"a", "b", "c"}))

	assert.ErrorIs(t, g.SubmitGuess("S", Code{1, 2, 3}), ErrNotOnTeam)
}

func TestGame_ReportOwnResult(t *testing.T) {
	t.Run("clean round", func(t *testing.T) {
		g := startedGame(t, DefaultGameSettings())
		record := playRound(t, g, false, true)

		assert.False(t, record.Intercepted)
		assert.False(t, record.Mistake)
		assert.True(t, record.Completed)
		assert.Equal(t, TeamRed, record.Team)
		assert.Equal(t, []string{"one", "two", "three"}, record.Clues)
		assert.Equal(t, PhaseReveal, g.Phase)
		assert.Len(t, g.RoundHistory, 1)
		assert.Equal(t, 0, g.Teams[TeamRed].Mistakes)
		assert.Equal(t, 0, g.Teams[TeamBlue].Intercepts)
	})

	t.Run("interception and mistake in the same round", func(t *testing.T) {
		g := startedGame(t, DefaultGameSettings())
		playRound(t, g, false, true) // red 1
		require.NoError(t, g.NextRound("A"))
		playRound(t, g, false, true) // blue 1
		require.NoError(t, g.NextRound("C"))

		record := playRound(t, g, true, false) // red 2

		assert.True(t, record.Intercepted)
		assert.Equal(t, TeamBlue, record.InterceptedBy)
		assert.True(t, record.Mistake)
		assert.Equal(t, 1, g.Teams[TeamRed].Mistakes)
		assert.Equal(t, 1, g.Teams[TeamBlue].Intercepts)
		assert.Equal(t, 0, g.Teams[TeamBlue].Mistakes)
		assert.Equal(t, 0, g.Teams[TeamRed].Intercepts)
		assert.Equal(t, PhaseReveal, g.Phase)
	})

	t.Run("wrong interception scores nothing", func(t *testing.T) {
		settings := DefaultGameSettings()
		settings.FirstRoundIntercepts = true
		g := startedGame(t, settings)

		round := g.CurrentRound
		require.NoError(t, g.SubmitClue(round.EncoderID, []string{"a", "b", "c"}))
		wrong := Code{round.Code[1], round.Code[0], round.Code[2]}
		require.NoError(t, g.SubmitGuess("C", wrong))

		record, err := g.ReportOwnResult(round.EncoderID, true)
		require.NoError(t, err)
		assert.False(t, record.Intercepted)
		assert.Equal(t, wrong, record.InterceptGuess)
		assert.Equal(t, 0, g.Teams[TeamBlue].Intercepts)
	})

	t.Run("only encoder reports and only once", func(t *testing.T) {
		g := startedGame(t, DefaultGameSettings())
		encoder := g.CurrentEncoderID()
		require.NoError(t, g.SubmitClue(encoder, []string{"a", "b", "c"}))

		_, err := g.ReportOwnResult("C", true)
		assert.ErrorIs(t, err, ErrNotEncoder)

		_, err = g.ReportOwnResult(encoder, false)
		require.NoError(t, err)

		_, err = g.ReportOwnResult(encoder, false)
		assert.ErrorIs(t, err, ErrInvalidPhase)
		assert.Equal(t, 1, g.Teams[TeamRed].Mistakes)
		assert.Len(t, g.RoundHistory, 1)
	})

	t.Run("not before clues", func(t *testing.T) {
		g := startedGame(t, DefaultGameSettings())
		_, err := g.ReportOwnResult(g.CurrentEncoderID(), true)
		assert.ErrorIs(t, err, ErrInvalidPhase)
	})
}

func TestGame_NextRound(t *testing.T) {
	g := startedGame(t, DefaultGameSettings())
	assert.ErrorIs(t, g.NextRound("A"), ErrInvalidPhase)

	playRound(t, g, false, true)
	require.NoError(t, g.NextRound("D"))

	assert.Equal(t, PhaseEncoding, g.Phase)
	assert.Equal(t, TeamBlue, g.CurrentRound.Team)
	assert.Equal(t, "C", g.CurrentRound.EncoderID)
	assert.Equal(t, 2, g.RoundNumber)
	assert.Equal(t, 1, g.CurrentRound.TeamRound)

	// Replayed next_round after the phase moved on is rejected
	assert.ErrorIs(t, g.NextRound("D"), ErrInvalidPhase)
	assert.Equal(t, 2, g.RoundNumber)
}

func TestGame_EncoderRotation(t *testing.T) {
	g := NewGame("R1", DefaultGameSettings(), rand.New(rand.NewSource(1)))
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		_, err := g.AddPlayer(id, id)
		require.NoError(t, err)
	}
	require.NoError(t, g.JoinTeam("A", TeamRed))
	require.NoError(t, g.JoinTeam("B", TeamRed))
	require.NoError(t, g.JoinTeam("C", TeamRed))
	require.NoError(t, g.JoinTeam("D", TeamBlue))
	require.NoError(t, g.JoinTeam("E", TeamBlue))

	settings := g.Settings
	settings.MistakeLimit = 100
	g.Settings = settings
	require.NoError(t, g.StartGame(testWords))

	var red, blue []string
	for i := 0; i < 12; i++ {
		round := g.CurrentRound
		if round.Team == TeamRed {
			red = append(red, round.EncoderID)
		} else {
			blue = append(blue, round.EncoderID)
		}
		playRound(t, g, false, true)
		require.NoError(t, g.NextRound("A"))
	}

	assert.Equal(t, []string{"A", "B", "C", "A", "B", "C"}, red)
	assert.Equal(t, []string{"D", "E", "D", "E", "D", "E"}, blue)
}

func TestGame_EncoderRotationSkipsDisconnected(t *testing.T) {
	g := startedGame(t, DefaultGameSettings())
	playRound(t, g, false, true) // A encodes red 1
	require.NoError(t, g.NextRound("A"))
	playRound(t, g, false, true) // C encodes blue 1

	g.Players["B"].Disconnect()
	require.NoError(t, g.NextRound("A"))
	assert.Equal(t, "A", g.CurrentEncoderID())
}

func TestGame_ConsecutiveCodesDiffer(t *testing.T) {
	settings := DefaultGameSettings()
	settings.MistakeLimit = 1000
	g := startedGame(t, settings)

	last := map[Team]Code{}
	for i := 0; i < 200; i++ {
		round := g.CurrentRound
		require.NoError(t, round.Code.Validate(3, 4))
		if prev, ok := last[round.Team]; ok {
			assert.False(t, prev.Equal(round.Code), "round %d repeated %s", i, round.Code)
		}
		last[round.Team] = round.Code

		playRound(t, g, false, true)
		require.NoError(t, g.NextRound("A"))
	}
}

func TestGame_Termination(t *testing.T) {
	t.Run("two mistakes lose", func(t *testing.T) {
		g := startedGame(t, DefaultGameSettings())

		playRound(t, g, false, false) // red mistake 1
		assert.Equal(t, PhaseReveal, g.Phase)
		require.NoError(t, g.NextRound("A"))
		playRound(t, g, false, true) // blue ok
		require.NoError(t, g.NextRound("A"))
		playRound(t, g, false, false) // red mistake 2

		assert.Equal(t, PhaseGameOver, g.Phase)
		assert.Equal(t, TeamBlue, g.Winner)
		assert.Nil(t, g.CurrentRound)
		assert.ErrorIs(t, g.NextRound("A"), ErrInvalidPhase)
		assert.ErrorIs(t, g.SubmitClue("A", []string{"a", "b", "c"}), ErrInvalidPhase)
	})

	t.Run("two interceptions win", func(t *testing.T) {
		settings := DefaultGameSettings()
		settings.FirstRoundIntercepts = true
		g := startedGame(t, settings)

		playRound(t, g, true, true) // blue intercepts red
		assert.Equal(t, PhaseReveal, g.Phase)
		require.NoError(t, g.NextRound("A"))
		playRound(t, g, false, true)
		require.NoError(t, g.NextRound("A"))
		playRound(t, g, true, true) // blue intercepts red again

		assert.Equal(t, PhaseGameOver, g.Phase)
		assert.Equal(t, TeamBlue, g.Winner)
		assert.Equal(t, 2, g.Teams[TeamBlue].Intercepts)
	})

	t.Run("rematch resets the game", func(t *testing.T) {
		settings := DefaultGameSettings()
		settings.MistakeLimit = 1
		g := startedGame(t, settings)
		playRound(t, g, false, false)
		require.Equal(t, PhaseGameOver, g.Phase)

		require.NoError(t, g.StartGame(testWords))
		assert.Equal(t, PhaseEncoding, g.Phase)
		assert.Empty(t, g.RoundHistory)
		assert.Equal(t, 0, g.Teams[TeamRed].Mistakes)
		assert.Equal(t, 0, g.Teams[TeamRed].Rounds)
		assert.Equal(t, 1, g.CurrentRound.TeamRound)
		assert.Equal(t, Team(""), g.Winner)
	})

	t.Run("rematch needs connected players", func(t *testing.T) {
		settings := DefaultGameSettings()
		settings.MistakeLimit = 1
		g := startedGame(t, settings)
		g.Players["D"].Disconnect()
		playRound(t, g, false, false)
		require.Equal(t, PhaseGameOver, g.Phase)

		assert.False(t, g.CanStart())
		assert.ErrorIs(t, g.StartGame(testWords), ErrTeamsTooSmall)
		assert.Equal(t, PhaseGameOver, g.Phase)

		g.Players["D"].Status = StatusConnected
		assert.True(t, g.CanStart())
	})
}

func TestGame_ReportOwnResultWaitsForInterception(t *testing.T) {
	settings := DefaultGameSettings()
	settings.FirstRoundIntercepts = true
	g := startedGame(t, settings)

	round := g.CurrentRound
	require.NoError(t, g.SubmitClue(round.EncoderID, []string{"a", "b", "c"}))

	_, err := g.ReportOwnResult(round.EncoderID, true)
	assert.ErrorIs(t, err, ErrInterceptPending)
	assert.Equal(t, KindInvalidAction, KindOf(err))
	assert.Equal(t, PhaseGuessing, g.Phase)

	require.NoError(t, g.SubmitGuess("C", round.Code))
	record, err := g.ReportOwnResult(round.EncoderID, true)
	require.NoError(t, err)
	assert.True(t, record.Intercepted)
	assert.Equal(t, 1, g.Teams[TeamBlue].Intercepts)
}

func TestGame_PassIntercept(t *testing.T) {
	t.Run("pass lets the round resolve", func(t *testing.T) {
		settings := DefaultGameSettings()
		settings.FirstRoundIntercepts = true
		g := startedGame(t, settings)
		round := g.CurrentRound

		assert.ErrorIs(t, g.PassIntercept("C"), ErrInvalidPhase)
		require.NoError(t, g.SubmitClue(round.EncoderID, []string{"a", "b", "c"}))

		assert.ErrorIs(t, g.PassIntercept("B"), ErrNotOpponent)
		require.NoError(t, g.PassIntercept("D"))
		assert.ErrorIs(t, g.PassIntercept("C"), ErrAlreadyGuessed)
		assert.ErrorIs(t, g.SubmitGuess("C", round.Code), ErrAlreadyGuessed)

		record, err := g.ReportOwnResult(round.EncoderID, true)
		require.NoError(t, err)
		assert.False(t, record.Intercepted)
		assert.Nil(t, record.InterceptGuess)
		assert.Equal(t, 0, g.Teams[TeamBlue].Intercepts)
	})

	t.Run("first round cannot be passed", func(t *testing.T) {
		g := startedGame(t, DefaultGameSettings())
		require.NoError(t, g.SubmitClue(g.CurrentEncoderID(), []string{"a", "b", "c"}))
		assert.ErrorIs(t, g.PassIntercept("C"), ErrFirstRoundIntercept)
	})

	t.Run("disconnected opponents do not hold up the round", func(t *testing.T) {
		settings := DefaultGameSettings()
		settings.FirstRoundIntercepts = true
		g := startedGame(t, settings)
		g.Players["C"].Disconnect()
		g.Players["D"].Disconnect()

		encoder := g.CurrentEncoderID()
		require.NoError(t, g.SubmitClue(encoder, []string{"a", "b", "c"}))
		_, err := g.ReportOwnResult(encoder, true)
		require.NoError(t, err)
	})
}

func TestGame_RoundsCountsResolvedRounds(t *testing.T) {
	g := startedGame(t, DefaultGameSettings())
	assert.Equal(t, 0, g.Teams[TeamRed].Rounds)
	assert.Equal(t, 1, g.CurrentRound.TeamRound)

	require.NoError(t, g.SubmitClue(g.CurrentEncoderID(), []string{"a", "b", "c"}))
	assert.Equal(t, 0, g.Teams[TeamRed].Rounds)

	_, err := g.ReportOwnResult(g.CurrentEncoderID(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Teams[TeamRed].Rounds)
	assert.Equal(t, 0, g.Teams[TeamBlue].Rounds)

	require.NoError(t, g.NextRound("A"))
	playRound(t, g, false, true)
	require.NoError(t, g.NextRound("A"))
	assert.Equal(t, 2, g.CurrentRound.TeamRound)
	assert.Equal(t, 1, g.Teams[TeamRed].Rounds)
	assert.Equal(t, 1, g.Teams[TeamBlue].Rounds)
}

func TestGame_RemovePlayerMidGame(t *testing.T) {
	g := startedGame(t, DefaultGameSettings())
	encoder := g.CurrentEncoderID()

	require.NoError(t, g.RemovePlayer("D"))
	assert.Equal(t, PhaseEncoding, g.Phase)
	assert.Equal(t, []string{"C"}, g.Teams[TeamBlue].Members)
	assert.ErrorIs(t, g.RemovePlayer("D"), ErrPlayerNotFound)

	require.NoError(t, g.SubmitClue(encoder, []string{"a", "b", "c"}))
	_, err := g.ReportOwnResult(encoder, true)
	require.NoError(t, err)
	require.NoError(t, g.NextRound("C"))
	assert.Equal(t, "C", g.CurrentEncoderID())
}

func TestGame_SingleEncoder(t *testing.T) {
	g := startedGame(t, DefaultGameSettings())

	encoders := 0
	for _, id := range g.GetPlayerIDs() {
		if g.IsEncoder(id) {
			encoders++
		}
	}
	assert.Equal(t, 1, encoders)
}

func TestRound_ResolveTwice(t *testing.T) {
	r := NewRound(1, 1, TeamRed, "A", "alice", Code{1, 2, 3})
	_, err := r.Resolve(true)
	require.NoError(t, err)

	_, err = r.Resolve(true)
	assert.ErrorIs(t, err, ErrRoundAlreadyResolved)
	assert.Equal(t, KindInternal, KindOf(err))
}
