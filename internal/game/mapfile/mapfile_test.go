package mapfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/mapfile"
)

const twoPlayers = `
W. 1T 1V 0. 0.
1. 1. F. 2. 2c
G. 0B c. 2V W.
`

func TestParse(t *testing.T) {
	m, err := mapfile.ParseString(twoPlayers, nil)
	require.NoError(t, err)
	require.NoError(t, m.CheckConsistency())

	assert.Equal(t, 5, m.Width())
	assert.Equal(t, 3, m.Height())

	tests := []struct {
		at      core.Coordinate
		terrain core.TerrainKind
		owner   core.PlayerID
		kind    core.ElementKind
		coins   int
	}{
		{core.Coordinate{X: 0, Y: 0}, core.Water, core.NoPlayer, core.NoKind, 0},
		{core.Coordinate{X: 1, Y: 0}, core.PlayableGround, 0, core.Town, 0},
		{core.Coordinate{X: 2, Y: 0}, core.PlayableGround, 0, core.Villager, 0},
		{core.Coordinate{X: 3, Y: 0}, core.PlayableGround, core.NoPlayer, core.NoKind, 0},
		{core.Coordinate{X: 2, Y: 1}, core.Forest, core.NoPlayer, core.NoKind, 0},
		{core.Coordinate{X: 4, Y: 1}, core.PlayableGround, 1, core.Town, 3},
		{core.Coordinate{X: 0, Y: 2}, core.Ground, core.NoPlayer, core.NoKind, 0},
		{core.Coordinate{X: 1, Y: 2}, core.PlayableGround, core.NoPlayer, core.Bandit, 0},
		{core.Coordinate{X: 2, Y: 2}, core.PlayableGround, core.NoPlayer, core.Camp, 3},
		{core.Coordinate{X: 3, Y: 2}, core.PlayableGround, 1, core.Villager, 0},
	}
	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			cell, err := m.CellAt(tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.terrain, cell.Kind())
			assert.Equal(t, tt.owner, cell.Owner())

			occ, ok := m.Occupant(tt.at)
			if tt.kind == core.NoKind {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.kind, occ.Kind)
			assert.Equal(t, tt.coins, occ.Treasury)
		})
	}

	assert.Equal(t, 2, mapfile.CountPlayers(m))
}

func TestParseShortRowsPadWithWater(t *testing.T) {
	m, err := mapfile.ParseString("1T 1.\n1.\n", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Width())

	cell, err := m.CellAt(core.Coordinate{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, core.Water, cell.Kind())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"OnlyBlankLines", "\n   \n"},
		{"LongToken", "1T. 1."},
		{"UnknownTerrain", "X."},
		{"UnknownElement", "1Z"},
		{"CampWithElement", "cV"},
		{"TroopOnWater", "WV"},
		{"TownOnForest", "FT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapfile.ParseString(tt.input, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidMap)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	m, err := mapfile.ParseString(twoPlayers, nil)
	require.NoError(t, err)

	text := mapfile.Format(m)
	want := strings.TrimLeft(twoPlayers, "\n")
	assert.Equal(t, want, text)

	again, err := mapfile.ParseString(text, nil)
	require.NoError(t, err)
	assert.Equal(t, text, mapfile.Format(again))
}

func TestWriteClampsCoins(t *testing.T) {
	m, err := mapfile.ParseString("1T", nil)
	require.NoError(t, err)
	town, _ := m.Occupant(core.Coordinate{})
	town.Treasury = 40

	assert.Equal(t, "1z\n", mapfile.Format(m))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.map")
	require.NoError(t, os.WriteFile(path, []byte(twoPlayers), 0o644))

	m, err := mapfile.Load(path, core.DefaultRulebook())
	require.NoError(t, err)
	assert.Len(t, m.Elements(), 6)

	_, err = mapfile.Load(filepath.Join(t.TempDir(), "missing.map"), nil)
	assert.Error(t, err)
}
