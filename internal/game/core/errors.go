package core

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrIllegalPlacement  = errors.New("illegal placement")
	ErrInvalidMove       = errors.New("invalid move")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNoOccupant        = errors.New("cell has no occupant")
	ErrGameOver          = errors.New("game is over")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidMap        = errors.New("invalid map")
	ErrUnknownElement    = errors.New("unknown element")
	ErrInvalidPlayer     = errors.New("invalid player ID")
	ErrNothingToUndo     = errors.New("nothing to undo")
)

// WrapActionError adds the player and the action's target to err
func WrapActionError(action Action, err error) error {
	if err == nil {
		return nil
	}
	if action == nil {
		return fmt.Errorf("player action: %w", err)
	}
	return fmt.Errorf("player %d: %s: %w", action.GetPlayerID(), action.Describe(), err)
}

// WrapGameStateError adds the turn and engine phase to err
func WrapGameStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("game turn %d [%s]: %w", turn, phase, err)
}

// WrapPlayerError adds the player and operation to err
func WrapPlayerError(playerID PlayerID, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d %s: %w", playerID, operation, err)
}

// GameError is a structured error carrying where in the game it happened
type GameError struct {
	Turn      int
	PlayerID  PlayerID
	Operation string
	Err       error
}

// NewGameError creates a GameError. Use NoPlayer when no player is involved.
func NewGameError(turn int, playerID PlayerID, operation string, err error) *GameError {
	return &GameError{Turn: turn, PlayerID: playerID, Operation: operation, Err: err}
}

func (e *GameError) Error() string {
	if e.PlayerID == NoPlayer {
		return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Operation, e.Err)
	}
	return fmt.Sprintf("turn %d: player %d %s: %v", e.Turn, e.PlayerID, e.Operation, e.Err)
}

func (e *GameError) Unwrap() error { return e.Err }
