package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseWaiting  Phase = "waiting"   // Not enough players for two teams
	PhaseSetup    Phase = "setup"     // Enough players, teams being picked
	PhaseEncoding Phase = "encoding"  // Encoder is writing clues
	PhaseGuessing Phase = "guessing"  // Opponents may intercept, encoder reports own result
	PhaseReveal   Phase = "reveal"    // Round resolved, waiting for next round
	PhaseGameOver Phase = "game_over" // A team reached a limit
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// IsPregame returns true while teams may still change
func (p Phase) IsPregame() bool {
	return p == PhaseWaiting || p == PhaseSetup || p == PhaseGameOver
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseWaiting:  {PhaseSetup, PhaseEncoding},
		PhaseSetup:    {PhaseWaiting, PhaseEncoding},
		PhaseEncoding: {PhaseGuessing},
		PhaseGuessing: {PhaseReveal, PhaseGameOver},
		PhaseReveal:   {PhaseEncoding},
		PhaseGameOver: {PhaseWaiting, PhaseSetup, PhaseEncoding}, // Rematch
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
