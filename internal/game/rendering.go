package game

import (
	"strings"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// This file contains all board rendering functionality for the game engine.

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var playerColors = []string{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorCyan}

const (
	playerSymbols = "ABCDEFGHI"
	cellWidth     = 4
)

var elementSymbols = map[core.ElementKind]byte{
	core.Town:     'T',
	core.Castle:   'C',
	core.Camp:     'A',
	core.Villager: 'v',
	core.Pikeman:  'p',
	core.Knight:   'k',
	core.Hero:     'h',
	core.Bandit:   'b',
}

// Board returns the map as coloured text. Odd rows are indented half a cell so
// the columns line up like the hexes do.
func (e *Engine) Board() string {
	return RenderMap(e.m, true)
}

// RenderMap draws m as text, with ANSI colours when color is set
func RenderMap(m *core.Map, color bool) string {
	width, height := m.Width(), m.Height()

	var sb strings.Builder
	sb.Grow((width*(cellWidth+10) + 8) * (height + 4))

	sb.WriteString("   ")
	for x := 0; x < width; x++ {
		sb.WriteString(core.IntToStringFixedWidth(x, 2))
		sb.WriteString(strings.Repeat(" ", cellWidth-2))
	}
	sb.WriteString("\n")

	for y := 0; y < height; y++ {
		sb.WriteString(core.IntToStringFixedWidth(y, 2))
		sb.WriteString(" ")
		if y&1 == 1 {
			sb.WriteString(strings.Repeat(" ", cellWidth/2))
		}
		for x := 0; x < width; x++ {
			c := core.Coordinate{X: x, Y: y}
			cell, _ := m.CellAt(c)
			occ, _ := m.Occupant(c)
			writeCell(&sb, cell, occ, color)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n~~=water ^^=forest ,,=ground ..=land T=town C=castle A=camp v/p/k/h=troops b=bandit A-I=players\n")
	return sb.String()
}

// writeCell writes the two-character symbol of a cell followed by padding
func writeCell(sb *strings.Builder, cell *core.Cell, occ *core.Element, color bool) {
	var sym [2]byte
	tint := ColorGray

	switch {
	case cell.Kind() == core.Water:
		sym = [2]byte{'~', '~'}
		tint = ColorCyan
	case cell.Kind() == core.Forest:
		sym = [2]byte{'^', '^'}
		tint = ColorGreen
	case cell.Kind() == core.Ground:
		sym = [2]byte{',', ','}
	default:
		sym = [2]byte{'.', '.'}
		if !cell.IsNeutral() {
			sym[0] = ownerSymbol(cell.Owner())
			tint = getPlayerColor(cell.Owner())
		}
		if occ != nil {
			sym[1] = elementSymbols[occ.Kind]
			if occ.Owner == core.NoPlayer {
				tint = ColorWhite
			}
		}
	}

	if color {
		sb.WriteString(tint)
	}
	sb.Write(sym[:])
	if color {
		sb.WriteString(ColorReset)
	}
	sb.WriteString(strings.Repeat(" ", cellWidth-2))
}

func ownerSymbol(p core.PlayerID) byte {
	if p < 0 {
		return '-'
	}
	return playerSymbols[int(p)%len(playerSymbols)]
}

// getPlayerColor returns the color for the given player ID
func getPlayerColor(playerID core.PlayerID) string {
	if playerID < 0 || int(playerID) >= len(playerColors) {
		return ColorWhite
	}
	return playerColors[playerID]
}
