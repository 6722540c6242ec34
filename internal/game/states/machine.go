package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
)

// State represents a game phase with lifecycle callbacks
type State interface {
	Phase() GamePhase

	// Enter is called after the machine has switched to this phase. An error
	// rolls the machine back to the previous phase.
	Enter(ctx *GameContext) error

	// Exit is called before leaving this phase. Errors are logged only.
	Exit(ctx *GameContext) error

	// Validate checks that the context allows entering this phase
	Validate(ctx *GameContext) error
}

// Transition is one entry of the machine's history
type Transition struct {
	From      GamePhase
	To        GamePhase
	Timestamp time.Time
	Reason    string
}

// StateMachine guards the lifecycle phase of one game
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   GamePhase
	states         map[GamePhase]State
	context        *GameContext
	history        []Transition
	maxHistorySize int
	eventBus       *events.EventBus
}

// NewStateMachine creates a machine in PhaseInitializing with the stock states registered
func NewStateMachine(ctx *GameContext, eventBus *events.EventBus) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseInitializing,
		states:         make(map[GamePhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 16),
		maxHistorySize: 256,
		eventBus:       eventBus,
	}

	for _, s := range []State{
		NewInitializingState(),
		NewLobbyState(),
		NewStartingState(),
		NewRunningState(),
		NewPausedState(),
		NewEndingState(),
		NewEndedState(),
		NewErrorState(),
		NewResetState(),
	} {
		sm.states[s.Phase()] = s
	}
	return sm
}

// RegisterState replaces the implementation for a phase
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current game phase
func (sm *StateMachine) CurrentPhase() GamePhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase GamePhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.transitionLocked(targetPhase, reason)
}

func (sm *StateMachine) transitionLocked(targetPhase GamePhase, reason string) error {
	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]
	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return fmt.Errorf("enter %s: %w", targetPhase, err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.history = append(sm.history, Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}

	if sm.eventBus != nil {
		sm.eventBus.Publish(events.NewStateTransitionEvent(
			sm.context.GameID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	sm.context.Logger.Info().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the game context
func (sm *StateMachine) GetContext() *GameContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase GamePhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}

// Reset walks a finished game through PhaseReset back to PhaseInitializing
// and clears the history.
func (sm *StateMachine) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := sm.transitionLocked(PhaseReset, "reset requested"); err != nil {
		return err
	}
	if err := sm.transitionLocked(PhaseInitializing, "reset complete"); err != nil {
		return err
	}
	sm.history = sm.history[:0]
	return nil
}
