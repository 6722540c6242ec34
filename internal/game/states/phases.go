package states

import (
	"fmt"
	"slices"
)

// GamePhase is the lifecycle phase of a whole game
type GamePhase int

const (
	// PhaseInitializing - engine built, map not yet validated
	PhaseInitializing GamePhase = iota

	// PhaseLobby - players registered, rulebook adjustable
	PhaseLobby

	// PhaseStarting - towns checked, first player chosen
	PhaseStarting

	// PhaseRunning - turns are being played
	PhaseRunning

	// PhasePaused - actions refused until resumed
	PhasePaused

	// PhaseEnding - at most one player left, results being settled
	PhaseEnding

	// PhaseEnded - final state
	PhaseEnded

	// PhaseError - unrecoverable engine failure
	PhaseError

	// PhaseReset - back to a fresh engine without tearing it down
	PhaseReset
)

var phaseNames = [...]string{
	PhaseInitializing: "Initializing",
	PhaseLobby:        "Lobby",
	PhaseStarting:     "Starting",
	PhaseRunning:      "Running",
	PhasePaused:       "Paused",
	PhaseEnding:       "Ending",
	PhaseEnded:        "Ended",
	PhaseError:        "Error",
	PhaseReset:        "Reset",
}

var phaseTransitions = map[GamePhase][]GamePhase{
	PhaseInitializing: {PhaseLobby, PhaseError},
	PhaseLobby:        {PhaseStarting, PhaseError},
	PhaseStarting:     {PhaseRunning, PhaseError},
	PhaseRunning:      {PhasePaused, PhaseEnding, PhaseError},
	PhasePaused:       {PhaseRunning, PhaseEnding, PhaseError},
	PhaseEnding:       {PhaseEnded, PhaseError},
	PhaseEnded:        {PhaseReset},
	PhaseError:        {PhaseReset},
	PhaseReset:        {PhaseInitializing},
}

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
	return phaseNames[p]
}

// IsTerminal returns true if no more turns will be played
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveActions returns true if player actions are accepted in this phase
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseRunning
}

// CanAddPlayers returns true if players can join in this phase
func (p GamePhase) CanAddPlayers() bool {
	return p == PhaseLobby
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	return slices.Clone(phaseTransitions[p])
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	return slices.Contains(phaseTransitions[p], target)
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) (GamePhase, bool) {
	for i, name := range phaseNames {
		if name == s {
			return GamePhase(i), true
		}
	}
	return PhaseInitializing, false
}

// TurnPhase subdivides PhaseRunning. The engine walks the active player
// through start, action and end before handing over.
type TurnPhase int

const (
	TurnStart TurnPhase = iota
	TurnAction
	TurnEnd
	TurnGameEnd
)

func (t TurnPhase) String() string {
	switch t {
	case TurnStart:
		return "PlayerTurnStart"
	case TurnAction:
		return "PlayerTurnAction"
	case TurnEnd:
		return "PlayerTurnEnd"
	case TurnGameEnd:
		return "GameEnd"
	default:
		return fmt.Sprintf("TurnPhase(%d)", int(t))
	}
}

// Next returns the phase that follows t within one player's turn. After
// TurnEnd the next player starts; TurnGameEnd is absorbing.
func (t TurnPhase) Next() TurnPhase {
	switch t {
	case TurnStart:
		return TurnAction
	case TurnAction:
		return TurnEnd
	case TurnEnd:
		return TurnStart
	default:
		return TurnGameEnd
	}
}
