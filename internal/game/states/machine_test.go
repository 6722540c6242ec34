package states

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
)

func TestGamePhase_String(t *testing.T) {
	tests := []struct {
		phase    GamePhase
		expected string
	}{
		{PhaseInitializing, "Initializing"},
		{PhaseLobby, "Lobby"},
		{PhaseRunning, "Running"},
		{PhaseEnded, "Ended"},
		{PhaseReset, "Reset"},
		{GamePhase(999), "Unknown(999)"},
		{GamePhase(-1), "Unknown(-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestParsePhase(t *testing.T) {
	for _, p := range []GamePhase{PhaseInitializing, PhaseRunning, PhasePaused, PhaseError} {
		got, ok := ParsePhase(p.String())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}

	_, ok := ParsePhase("Sleeping")
	assert.False(t, ok)
}

func TestGamePhase_Transitions(t *testing.T) {
	allPhases := []GamePhase{
		PhaseInitializing, PhaseLobby, PhaseStarting, PhaseRunning,
		PhasePaused, PhaseEnding, PhaseEnded, PhaseError, PhaseReset,
	}
	tests := []struct {
		from    GamePhase
		allowed []GamePhase
	}{
		{PhaseInitializing, []GamePhase{PhaseLobby, PhaseError}},
		{PhaseRunning, []GamePhase{PhasePaused, PhaseEnding, PhaseError}},
		{PhasePaused, []GamePhase{PhaseRunning, PhaseEnding, PhaseError}},
		{PhaseEnded, []GamePhase{PhaseReset}},
		{PhaseReset, []GamePhase{PhaseInitializing}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())
			for _, target := range allPhases {
				assert.Equal(t, containsPhase(tt.allowed, target), tt.from.CanTransitionTo(target),
					"%s -> %s", tt.from, target)
			}
		})
	}

	t.Run("AllowedTransitionsIsACopy", func(t *testing.T) {
		got := PhaseRunning.AllowedTransitions()
		got[0] = PhaseEnded
		assert.Equal(t, PhasePaused, PhaseRunning.AllowedTransitions()[0])
	})
}

func containsPhase(list []GamePhase, p GamePhase) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

func TestTurnPhase(t *testing.T) {
	assert.Equal(t, "PlayerTurnStart", TurnStart.String())
	assert.Equal(t, "GameEnd", TurnGameEnd.String())
	assert.Equal(t, TurnAction, TurnStart.Next())
	assert.Equal(t, TurnEnd, TurnAction.Next())
	assert.Equal(t, TurnStart, TurnEnd.Next())
	assert.Equal(t, TurnGameEnd, TurnGameEnd.Next())
}

func TestGameContext(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("NewGameContext", func(t *testing.T) {
		ctx := NewGameContext("test-game", 4, logger)
		assert.Equal(t, "test-game", ctx.GameID)
		assert.Equal(t, 2, ctx.MinPlayers)
		assert.Equal(t, 4, ctx.MaxPlayers)
		assert.Equal(t, -1, ctx.Winner)
		assert.False(t, ctx.HasResult())
	})

	t.Run("IsReady", func(t *testing.T) {
		ctx := NewGameContext("test-game", 4, logger)
		for count, ready := range map[int]bool{0: false, 1: false, 2: true, 4: true, 5: false} {
			ctx.PlayerCount = count
			assert.Equal(t, ready, ctx.IsReady(), "player count %d", count)
		}
	})

	t.Run("GetElapsedTime", func(t *testing.T) {
		ctx := NewGameContext("test-game", 4, logger)
		assert.Equal(t, time.Duration(0), ctx.GetElapsedTime())

		ctx.StartTime = time.Now().Add(-10 * time.Second)
		ctx.TotalPauseDuration = 5 * time.Second
		elapsed := ctx.GetElapsedTime()
		assert.Greater(t, elapsed, 4*time.Second)
		assert.Less(t, elapsed, 6*time.Second)
	})

	t.Run("Metadata", func(t *testing.T) {
		ctx := NewGameContext("test-game", 4, logger)
		ctx.SetMetadata("seed", 42)

		val, ok := ctx.GetMetadata("seed")
		assert.True(t, ok)
		assert.Equal(t, 42, val)

		_, ok = ctx.GetMetadata("nonexistent")
		assert.False(t, ok)
	})
}

func TestStateMachine(t *testing.T) {
	setup := func() (*StateMachine, *GameContext, *[]events.Event) {
		ctx := NewGameContext("test-game", 4, zerolog.Nop())
		bus := events.NewEventBus()
		var seen []events.Event
		bus.SubscribeFunc(events.TypeStateTransition, func(e events.Event) { seen = append(seen, e) })
		return NewStateMachine(ctx, bus), ctx, &seen
	}

	t.Run("NewStateMachine", func(t *testing.T) {
		sm, _, _ := setup()
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Len(t, sm.states, 9)
	})

	t.Run("FullLifecycle", func(t *testing.T) {
		sm, ctx, seen := setup()

		require.NoError(t, sm.TransitionTo(PhaseLobby, "engine built"))
		ctx.PlayerCount = 2
		require.NoError(t, sm.TransitionTo(PhaseStarting, "players ready"))
		require.NoError(t, sm.TransitionTo(PhaseRunning, "first turn"))
		started := ctx.StartTime
		assert.False(t, started.IsZero())

		require.NoError(t, sm.TransitionTo(PhasePaused, "user paused"))
		time.Sleep(5 * time.Millisecond)
		require.NoError(t, sm.TransitionTo(PhaseRunning, "user resumed"))
		assert.Equal(t, started, ctx.StartTime, "resuming keeps the original start time")
		assert.Greater(t, ctx.TotalPauseDuration, time.Duration(0))

		ctx.Winner = 1
		require.NoError(t, sm.TransitionTo(PhaseEnding, "player 1 won"))
		require.NoError(t, sm.TransitionTo(PhaseEnded, "game over"))
		assert.True(t, sm.CurrentPhase().IsTerminal())

		require.Len(t, *seen, 7)
		last := (*seen)[6].(*events.StateTransitionEvent)
		assert.Equal(t, "Ending", last.FromPhase)
		assert.Equal(t, "Ended", last.ToPhase)
		assert.Equal(t, "game over", last.Reason)
	})

	t.Run("InvalidTransitions", func(t *testing.T) {
		sm, _, seen := setup()

		err := sm.TransitionTo(PhaseRunning, "skip steps")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid transition")
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Empty(t, *seen)
	})

	t.Run("Validation", func(t *testing.T) {
		sm, ctx, _ := setup()
		require.NoError(t, sm.TransitionTo(PhaseLobby, "setup"))

		ctx.PlayerCount = 1
		err := sm.TransitionTo(PhaseStarting, "lonely")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "need 2 to 4 players")
		assert.Equal(t, PhaseLobby, sm.CurrentPhase())

		ctx.PlayerCount = 3
		require.NoError(t, sm.TransitionTo(PhaseStarting, "ready"))
		require.NoError(t, sm.TransitionTo(PhaseRunning, "go"))

		err = sm.TransitionTo(PhaseEnding, "no result yet")
		require.Error(t, err)

		err = sm.TransitionTo(PhaseError, "no error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires an error")

		ctx.Draw = true
		assert.NoError(t, sm.TransitionTo(PhaseEnding, "everybody lost"))
	})

	t.Run("HistoryTracking", func(t *testing.T) {
		sm, ctx, _ := setup()
		_ = sm.TransitionTo(PhaseLobby, "reason1")
		ctx.PlayerCount = 2
		_ = sm.TransitionTo(PhaseStarting, "reason2")

		history := sm.GetHistory()
		require.Len(t, history, 2)
		assert.Equal(t, PhaseInitializing, history[0].From)
		assert.Equal(t, PhaseLobby, history[0].To)
		assert.Equal(t, "reason2", history[1].Reason)
	})

	t.Run("ErrorRecovery", func(t *testing.T) {
		sm, ctx, _ := setup()
		_ = sm.TransitionTo(PhaseLobby, "setup")
		ctx.Error = errors.New("map rejected")
		require.NoError(t, sm.TransitionTo(PhaseError, "error occurred"))

		require.NoError(t, sm.TransitionTo(PhaseReset, "recover"))
		assert.Nil(t, ctx.Error)
		require.NoError(t, sm.TransitionTo(PhaseInitializing, "restart"))
	})

	t.Run("Reset", func(t *testing.T) {
		sm, ctx, _ := setup()
		assert.Error(t, sm.Reset(), "initializing cannot reset")

		_ = sm.TransitionTo(PhaseLobby, "setup")
		ctx.Error = errors.New("boom")
		_ = sm.TransitionTo(PhaseError, "failure")

		require.NoError(t, sm.Reset())
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Empty(t, sm.GetHistory())
	})

	t.Run("NilBus", func(t *testing.T) {
		sm := NewStateMachine(NewGameContext("g", 2, zerolog.Nop()), nil)
		assert.NoError(t, sm.TransitionTo(PhaseLobby, "no bus"))
	})
}

type MockState struct {
	phase       GamePhase
	enterCalled bool
	exitCalled  bool
	enterError  error
	exitError   error
}

func (m *MockState) Phase() GamePhase            { return m.phase }
func (m *MockState) Enter(*GameContext) error    { m.enterCalled = true; return m.enterError }
func (m *MockState) Exit(*GameContext) error     { m.exitCalled = true; return m.exitError }
func (m *MockState) Validate(*GameContext) error { return nil }

func TestStateMachine_CustomStates(t *testing.T) {
	t.Run("Callbacks", func(t *testing.T) {
		ctx := NewGameContext("test-game", 4, zerolog.Nop())
		sm := NewStateMachine(ctx, nil)
		lobbyMock := &MockState{phase: PhaseLobby, exitError: errors.New("ignored")}
		startingMock := &MockState{phase: PhaseStarting}
		sm.RegisterState(lobbyMock)
		sm.RegisterState(startingMock)

		require.NoError(t, sm.TransitionTo(PhaseLobby, "test"))
		assert.True(t, lobbyMock.enterCalled)
		assert.False(t, lobbyMock.exitCalled)

		require.NoError(t, sm.TransitionTo(PhaseStarting, "test"))
		assert.True(t, lobbyMock.exitCalled)
		assert.True(t, startingMock.enterCalled)
	})

	t.Run("EnterFailureRollsBack", func(t *testing.T) {
		ctx := NewGameContext("test-game", 4, zerolog.Nop())
		sm := NewStateMachine(ctx, nil)
		sm.RegisterState(&MockState{phase: PhaseLobby, enterError: errors.New("lobby closed")})

		err := sm.TransitionTo(PhaseLobby, "test")
		require.Error(t, err)
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Empty(t, sm.GetHistory())
	})
}
