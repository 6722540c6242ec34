package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/mapfile"
)

// DuelMap is a small two player map: each player owns a town and a villager,
// with neutral land, a forest and water between them.
const DuelMap = `
1T 1. 1. 0. 0. 0. 0.
1. 1V 0. F. 0. 0. 0.
0. 0. 0. W. 0. 2V 2.
0. 0. 0. 0. 2. 2. 2T
`

// PlayableMap creates a map where every cell is playable ground
func PlayableMap(t testing.TB, width, height int) *core.Map {
	t.Helper()
	m, err := core.NewUniformMap(width, height, core.PlayableGround, nil)
	require.NoError(t, err)
	return m
}

// MapFromText parses a map in the mapfile format
func MapFromText(t testing.TB, text string) *core.Map {
	t.Helper()
	m, err := mapfile.ParseString(strings.TrimSpace(text), core.DefaultRulebook())
	require.NoError(t, err)
	return m
}

// Place puts a new element on m and returns it
func Place(t testing.TB, m *core.Map, kind core.ElementKind, owner core.PlayerID, at core.Coordinate) *core.Element {
	t.Helper()
	e := core.NewElement(kind, owner)
	require.NoError(t, m.PlaceElement(e, at))
	e.ResetMoves(&m.Rules().Units)
	return e
}

// Claim gives every listed cell to owner
func Claim(t testing.TB, m *core.Map, owner core.PlayerID, cells ...core.Coordinate) {
	t.Helper()
	for _, c := range cells {
		require.NoError(t, m.ClaimCell(c, owner))
	}
}

// At is shorthand for a coordinate literal
func At(x, y int) core.Coordinate {
	return core.Coordinate{X: x, Y: y}
}
