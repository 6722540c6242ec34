package common

import (
	"image/color"

	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// Palette holds the fill colours of the board
type Palette struct {
	Neutral color.RGBA
	Players []color.RGBA
	Water   color.RGBA
	Ground  color.RGBA
	Forest  color.RGBA

	Background color.RGBA
	GridLine   color.RGBA
	Highlight  color.RGBA
	Text       color.RGBA
}

// Element colors
var (
	SettlementColor = color.RGBA{240, 240, 240, 255}
	CampColor       = color.RGBA{90, 60, 40, 255}
	BanditColor     = color.RGBA{30, 30, 30, 255}
	TroopTextColor  = color.Black
)

// extraPlayerColors covers seats beyond the configured four
var extraPlayerColors = []color.RGBA{
	{170, 60, 200, 255},  // Purple
	{50, 190, 190, 255},  // Cyan
	{230, 130, 40, 255},  // Orange
	{230, 110, 170, 255}, // Pink
	{120, 120, 120, 255}, // Gray
}

// NewPalette builds the palette from the colour configuration
func NewPalette(c config.ColorsConfig) Palette {
	p := Palette{
		Neutral:    rgb(c.Players.Neutral),
		Water:      rgb(c.Terrain.Water),
		Ground:     rgb(c.Terrain.Ground),
		Forest:     rgb(c.Terrain.Forest),
		Background: rgb(c.UI.Background),
		GridLine:   rgb(c.UI.GridLines),
		Text:       rgb(c.UI.Text),
		Highlight: color.RGBA{
			R: uint8(c.UI.Highlight[0]),
			G: uint8(c.UI.Highlight[1]),
			B: uint8(c.UI.Highlight[2]),
			A: uint8(c.UI.Highlight[3]),
		},
	}
	p.Players = []color.RGBA{
		rgb(c.Players.Player0),
		rgb(c.Players.Player1),
		rgb(c.Players.Player2),
		rgb(c.Players.Player3),
	}
	p.Players = append(p.Players, extraPlayerColors...)
	return p
}

// DefaultPalette returns the palette of the loaded configuration
func DefaultPalette() Palette {
	return NewPalette(config.Get().Colors)
}

// Player returns the colour of a player's land. Unowned land is Neutral.
func (p Palette) Player(id core.PlayerID) color.RGBA {
	if id < 0 || int(id) >= len(p.Players) {
		return p.Neutral
	}
	return p.Players[id]
}

// Cell returns the fill colour of a cell
func (p Palette) Cell(cell *core.Cell) color.RGBA {
	switch cell.Kind() {
	case core.Water:
		return p.Water
	case core.Forest:
		return p.Forest
	case core.Ground:
		return p.Ground
	default:
		return p.Player(cell.Owner())
	}
}

// Shade returns c lightened (positive amount) or darkened (negative amount)
func Shade(c color.RGBA, amount int) color.RGBA {
	return color.RGBA{
		R: clamp8(int(c.R) + amount),
		G: clamp8(int(c.G) + amount),
		B: clamp8(int(c.B) + amount),
		A: c.A,
	}
}

func rgb(v [3]int) color.RGBA {
	return color.RGBA{R: clamp8(v[0]), G: clamp8(v[1]), B: clamp8(v[2]), A: 255}
}

func clamp8(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
