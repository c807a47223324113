package domain

// Team represents a player's team
type Team string

const (
	TeamNone Team = "none"
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// String returns the string representation of the team
func (t Team) String() string {
	return string(t)
}

// IsPlaying returns true for red and blue
func (t Team) IsPlaying() bool {
	return t == TeamRed || t == TeamBlue
}

// Opponent returns the other playing team, or TeamNone
func (t Team) Opponent() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	default:
		return TeamNone
	}
}

// ParseTeam validates a team name
func ParseTeam(s string) (Team, error) {
	switch Team(s) {
	case TeamRed, TeamBlue, TeamNone:
		return Team(s), nil
	case "spectator":
		return TeamNone, nil
	default:
		return "", ErrInvalidTeam
	}
}

// TeamState holds everything a team owns during a game
type TeamState struct {
	Words      []string `json:"-"`
	Members    []string `json:"members"` // Player IDs in team-join order
	Rounds     int      `json:"rounds"` // Resolved rounds
	Intercepts int      `json:"intercepts"`
	Mistakes   int      `json:"mistakes"`

	lastCode Code
	served   map[string]bool
}

func newTeamState() *TeamState {
	return &TeamState{
		Members: make([]string, 0),
		served:  make(map[string]bool),
	}
}

// resetForGame clears per-game counters but keeps members
func (ts *TeamState) resetForGame(words []string) {
	ts.Words = words
	ts.Rounds = 0
	ts.Intercepts = 0
	ts.Mistakes = 0
	ts.lastCode = nil
	ts.served = make(map[string]bool)
}

func (ts *TeamState) addMember(playerID string) {
	ts.Members = append(ts.Members, playerID)
}

func (ts *TeamState) removeMember(playerID string) {
	for i, id := range ts.Members {
		if id == playerID {
			ts.Members = append(ts.Members[:i], ts.Members[i+1:]...)
			break
		}
	}
	delete(ts.served, playerID)
}

// nextEncoder picks the first eligible member who has not encoded since the
// last reset. Once every eligible member has served, the rotation starts over.
// If nobody is eligible, all members are considered.
func (ts *TeamState) nextEncoder(eligible func(playerID string) bool) string {
	candidates := make([]string, 0, len(ts.Members))
	for _, id := range ts.Members {
		if eligible == nil || eligible(id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		candidates = ts.Members
	}
	if len(candidates) == 0 {
		return ""
	}

	for _, id := range candidates {
		if !ts.served[id] {
			ts.served[id] = true
			return id
		}
	}

	ts.served = map[string]bool{candidates[0]: true}
	return candidates[0]
}
