package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/testutil"
)

func TestLegalMoveCalculator_Destinations(t *testing.T) {
	m := testutil.MapFromText(t, testutil.DuelMap)
	villager, ok := m.Occupant(testutil.At(1, 1))
	require.True(t, ok)
	villager.ResetMoves(&m.Rules().Units)

	lmc := NewLegalMoveCalculator(newRule(t, m, ""))
	dest, err := lmc.Destinations(m, testutil.At(1, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, dest[testutil.At(2, 1)])
	assert.Equal(t, 1, dest[testutil.At(0, 1)])
	assert.Equal(t, 2, dest[testutil.At(3, 0)], "two steps away")
	assert.NotContains(t, dest, testutil.At(0, 0), "own town blocks")
	assert.NotContains(t, dest, testutil.At(3, 1), "forest cannot host")
	assert.NotContains(t, dest, testutil.At(1, 1))

	_, err = lmc.Destinations(m, testutil.At(3, 0))
	assert.ErrorIs(t, err, core.ErrNoOccupant)
}

func TestLegalMoveCalculator_DestinationsIncludeBanditOnOwnLand(t *testing.T) {
	m := testutil.MapFromText(t, "1T 1V 1B 1.")
	villager, ok := m.Occupant(testutil.At(1, 0))
	require.True(t, ok)
	villager.ResetMoves(&m.Rules().Units)

	dest, err := NewLegalMoveCalculator(newRule(t, m, "")).Destinations(m, testutil.At(1, 0))
	require.NoError(t, err)

	assert.Equal(t, 1, dest[testutil.At(2, 0)])
	assert.NotContains(t, dest, testutil.At(3, 0), "bandits block the way through")
}

func TestLegalMoveCalculator_Moves(t *testing.T) {
	m := testutil.MapFromText(t, testutil.DuelMap)
	lmc := NewLegalMoveCalculator(newRule(t, m, ""))

	// freshly loaded troops have no moves left
	assert.Empty(t, lmc.Moves(m, 0))

	for _, e := range m.ElementsOwnedBy(0) {
		e.ResetMoves(&m.Rules().Units)
	}
	moves := lmc.Moves(m, 0)
	require.NotEmpty(t, moves)
	for _, mv := range moves {
		assert.Equal(t, core.PlayerID(0), mv.PlayerID)
		assert.Equal(t, testutil.At(1, 1), mv.From)
		assert.NoError(t, mv.Validate(m))
	}
	for i := 1; i < len(moves); i++ {
		a, b := moves[i-1].To, moves[i].To
		assert.True(t, a.Y < b.Y || (a.Y == b.Y && a.X < b.X), "moves sorted row-major")
	}
}

func TestLegalMoveCalculator_RecruitSpots(t *testing.T) {
	m := testutil.MapFromText(t, testutil.DuelMap)
	lmc := NewLegalMoveCalculator(newRule(t, m, ""))

	spots := lmc.RecruitSpots(m, 0, core.Villager)
	// owned cells (1,0) (2,0) (0,1) are empty, (1,1) holds a villager to merge with
	assert.ElementsMatch(t, []core.Coordinate{
		testutil.At(1, 0), testutil.At(2, 0), testutil.At(0, 1), testutil.At(1, 1),
	}, spots)

	castles := lmc.RecruitSpots(m, 0, core.Castle)
	assert.ElementsMatch(t, []core.Coordinate{
		testutil.At(1, 0), testutil.At(2, 0), testutil.At(0, 1),
	}, castles)

	assert.Empty(t, lmc.RecruitSpots(m, 5, core.Villager))
}
