package renderer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/HexConquest/internal/common"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

var (
	SelectionColor   = color.RGBA{255, 255, 100, 255} // Yellow highlight
	ValidMoveColor   = color.RGBA{100, 255, 100, 96}  // Semi-transparent green
	RecruitSpotColor = color.RGBA{100, 180, 255, 96}  // Semi-transparent blue
)

// EnhancedBoardRenderer adds selection, hover and reachable-cell overlays
type EnhancedBoardRenderer struct {
	*BoardRenderer

	// Selection state
	selected     core.Coordinate
	hasSelection bool

	// Hover state
	hover core.Coordinate

	// Cells the selection can reach, and where the chosen recruit may go
	validMoves   map[core.Coordinate]int
	recruitSpots []core.Coordinate
}

func NewEnhancedBoardRenderer(hexSize int, f font.Face, palette common.Palette) *EnhancedBoardRenderer {
	return &EnhancedBoardRenderer{
		BoardRenderer: NewBoardRenderer(hexSize, f, palette),
		validMoves:    make(map[core.Coordinate]int),
	}
}

// SetSelection sets the selected cell and the cells its troop can reach
func (ebr *EnhancedBoardRenderer) SetSelection(c core.Coordinate, hasSelection bool, reach map[core.Coordinate]int) {
	ebr.selected = c
	ebr.hasSelection = hasSelection
	if !hasSelection || reach == nil {
		reach = make(map[core.Coordinate]int)
	}
	ebr.validMoves = reach
}

func (ebr *EnhancedBoardRenderer) SetHover(c core.Coordinate)              { ebr.hover = c }
func (ebr *EnhancedBoardRenderer) SetRecruitSpots(spots []core.Coordinate) { ebr.recruitSpots = spots }

func (ebr *EnhancedBoardRenderer) Draw(screen *ebiten.Image, m *core.Map) {
	// First draw the base board
	ebr.BoardRenderer.Draw(screen, m)

	// Then draw overlays
	ebr.drawOverlays(screen, m)
}

func (ebr *EnhancedBoardRenderer) drawOverlays(screen *ebiten.Image, m *core.Map) {
	inner := ebr.hexSize * 0.92

	for _, c := range ebr.recruitSpots {
		ebr.fillHex(screen, ebr.CellCenter(c), inner, RecruitSpotColor)
	}

	if ebr.hasSelection {
		for c := range ebr.validMoves {
			ebr.fillHex(screen, ebr.CellCenter(c), inner, ValidMoveColor)
		}
	}

	if m.InBounds(ebr.hover) {
		ebr.fillHex(screen, ebr.CellCenter(ebr.hover), ebr.hexSize, ebr.palette.Highlight)
	}

	if ebr.hasSelection {
		ebr.strokeHex(screen, ebr.CellCenter(ebr.selected), ebr.hexSize-1, 3, SelectionColor)
	}
}
