package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapActionError(t *testing.T) {
	tests := []struct {
		name     string
		action   Action
		err      error
		expected string
		isNil    bool
	}{
		{
			name:   "nil error returns nil",
			action: &MoveAction{PlayerID: 1, From: Coordinate{0, 0}, To: Coordinate{1, 0}},
			err:    nil,
			isNil:  true,
		},
		{
			name:     "move action with coordinates",
			action:   &MoveAction{PlayerID: 1, From: Coordinate{5, 3}, To: Coordinate{5, 4}},
			err:      ErrOutOfBounds,
			expected: "player 1: move from (5,3) to (5,4): coordinate out of bounds",
		},
		{
			name:     "recruit action",
			action:   &RecruitAction{PlayerID: 2, Kind: Knight, At: Coordinate{3, 3}},
			err:      ErrInsufficientFunds,
			expected: "player 2: recruit knight at (3,3): insufficient funds",
		},
		{
			name:     "generic action fallback",
			action:   nil,
			err:      ErrGameOver,
			expected: "player action: game is over",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapActionError(tt.action, tt.err)
			if tt.isNil {
				assert.Nil(t, wrapped)
				return
			}
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expected, wrapped.Error())
			assert.True(t, errors.Is(wrapped, tt.err))
		})
	}
}

func TestWrapGameStateError(t *testing.T) {
	assert.Nil(t, WrapGameStateError(3, "action", nil))

	wrapped := WrapGameStateError(100, "turn_end", ErrGameOver)
	require.NotNil(t, wrapped)
	assert.Equal(t, "game turn 100 [turn_end]: game is over", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrGameOver)
}

func TestWrapPlayerError(t *testing.T) {
	tests := []struct {
		name      string
		playerID  PlayerID
		operation string
		err       error
		expected  string
	}{
		{
			name:      "turn check",
			playerID:  3,
			operation: "move validation",
			err:       ErrNotYourTurn,
			expected:  "player 3 move validation: not your turn",
		},
		{
			name:      "placement",
			playerID:  0,
			operation: "recruit",
			err:       ErrIllegalPlacement,
			expected:  "player 0 recruit: illegal placement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapPlayerError(tt.playerID, tt.operation, tt.err)
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expected, wrapped.Error())
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}
	assert.Nil(t, WrapPlayerError(1, "noop", nil))
}

func TestGameError(t *testing.T) {
	t.Run("with player ID", func(t *testing.T) {
		err := NewGameError(150, 2, "capture town", ErrInvalidMove)
		assert.Equal(t, "turn 150: player 2 capture town: invalid move", err.Error())
		assert.True(t, errors.Is(err, ErrInvalidMove))
	})

	t.Run("without player ID", func(t *testing.T) {
		err := NewGameError(200, NoPlayer, "win condition check", ErrGameOver)
		assert.Equal(t, "turn 200: win condition check: game is over", err.Error())
		assert.True(t, errors.Is(err, ErrGameOver))
	})

	t.Run("errors.As functionality", func(t *testing.T) {
		gameErr := NewGameError(50, 1, "bandit phase", fmt.Errorf("no free cell"))

		var extracted *GameError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", gameErr), &extracted))
		assert.Equal(t, 50, extracted.Turn)
		assert.Equal(t, PlayerID(1), extracted.PlayerID)
		assert.Equal(t, "bandit phase", extracted.Operation)
	})
}
