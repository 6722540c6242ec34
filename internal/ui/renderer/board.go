package renderer

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/HexConquest/internal/common"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// -----------------------------------------------------------------------------
// Shared drawing resources
// -----------------------------------------------------------------------------

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

var troopGlyphs = map[core.ElementKind]string{
	core.Villager: "v",
	core.Pikeman:  "p",
	core.Knight:   "k",
	core.Hero:     "h",
	core.Bandit:   "b",
}

// -----------------------------------------------------------------------------
// Renderer
// -----------------------------------------------------------------------------

// BoardRenderer draws a hex map with pointy-top cells. Cell (0,0) is centred
// on Origin.
type BoardRenderer struct {
	hexSize     float64
	origin      core.Pixel
	defaultFont font.Face
	palette     common.Palette
}

// NewBoardRenderer returns a renderer ready to use. hexSize is the corner radius of a cell.
func NewBoardRenderer(hexSize int, f font.Face, palette common.Palette) *BoardRenderer {
	size := float64(hexSize)
	return &BoardRenderer{
		hexSize:     size,
		origin:      core.Pixel{X: core.RadiusToInner(size) + 2, Y: size + 2},
		defaultFont: f,
		palette:     palette,
	}
}

func (br *BoardRenderer) HexSize() float64       { return br.hexSize }
func (br *BoardRenderer) Origin() core.Pixel     { return br.origin }
func (br *BoardRenderer) SetOrigin(p core.Pixel) { br.origin = p }

// CellCenter returns the screen position of the centre of c
func (br *BoardRenderer) CellCenter(c core.Coordinate) core.Pixel {
	p := core.OffsetToPixel(c, br.hexSize)
	return core.Pixel{X: p.X + br.origin.X, Y: p.Y + br.origin.Y}
}

// BoardSize returns the pixel extent of a map of the given size
func (br *BoardRenderer) BoardSize(width, height int) (int, int) {
	inner := core.RadiusToInner(br.hexSize)
	w := br.origin.X + inner*2*float64(width) + inner
	h := br.origin.Y + br.hexSize*1.5*float64(height-1) + br.hexSize
	return int(math.Ceil(w)), int(math.Ceil(h))
}

// Draw renders the board on the supplied Ebiten screen.
func (br *BoardRenderer) Draw(screen *ebiten.Image, m *core.Map) {
	if m == nil {
		return
	}

	for c, cell := range m.All() {
		center := br.CellCenter(c)
		fill := br.palette.Cell(cell)
		br.fillHex(screen, center, br.hexSize, fill)
		br.strokeHex(screen, center, br.hexSize, 1, br.palette.GridLine)
	}

	for _, e := range m.Elements() {
		br.drawElement(screen, e, &m.Rules().Units)
	}
}

// drawElement draws a settlement as a square and a troop as a disc with its glyph
func (br *BoardRenderer) drawElement(screen *ebiten.Image, e *core.Element, units *core.UnitTable) {
	center := br.CellCenter(e.Position)
	inner := core.RadiusToInner(br.hexSize)
	owner := br.palette.Player(e.Owner)

	switch e.Kind {
	case core.Town, core.Castle, core.Camp:
		side := float32(inner)
		fill := common.SettlementColor
		switch e.Kind {
		case core.Castle:
			fill = common.Shade(owner, -60)
		case core.Camp:
			fill = common.CampColor
		}
		x, y := float32(center.X)-side/2, float32(center.Y)-side/2
		vector.DrawFilledRect(screen, x, y, side, side, fill, true)
		vector.StrokeRect(screen, x, y, side, side, 2, owner, true)
		if e.Treasury > 0 {
			br.drawLabel(screen, strconv.Itoa(e.Treasury), center, color.Black)
		}

	default:
		r := float32(inner * 0.6)
		fill := common.Shade(owner, 40)
		if e.Kind == core.Bandit {
			fill = common.BanditColor
		}
		vector.DrawFilledCircle(screen, float32(center.X), float32(center.Y), r, fill, true)
		if e.MovesLeft > 0 && e.MovesLeft == units.Profile(e.Kind).MoveRange {
			vector.StrokeCircle(screen, float32(center.X), float32(center.Y), r, 1.5, color.White, true)
		}
		textColor := common.TroopTextColor
		if e.Kind == core.Bandit {
			textColor = color.White
		}
		br.drawLabel(screen, troopGlyphs[e.Kind], center, textColor)
	}
}

// drawLabel centres s on p
func (br *BoardRenderer) drawLabel(screen *ebiten.Image, s string, p core.Pixel, c color.Color) {
	if br.defaultFont == nil || s == "" {
		return
	}
	b := text.BoundString(br.defaultFont, s)
	textW := b.Max.X - b.Min.X
	textH := b.Max.Y - b.Min.Y
	text.Draw(screen, s, br.defaultFont, int(p.X)-textW/2, int(p.Y)+textH/2, c)
}

// hexPath returns the outline of a pointy-top hex
func hexPath(center core.Pixel, radius float64) *vector.Path {
	var path vector.Path
	for i := 0; i < 6; i++ {
		angle := math.Pi / 180 * float64(60*i-30)
		x := float32(center.X + radius*math.Cos(angle))
		y := float32(center.Y + radius*math.Sin(angle))
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()
	return &path
}

func (br *BoardRenderer) fillHex(screen *ebiten.Image, center core.Pixel, radius float64, c color.Color) {
	vs, is := hexPath(center, radius).AppendVerticesAndIndicesForFilling(nil, nil)
	drawColored(screen, vs, is, c)
}

func (br *BoardRenderer) strokeHex(screen *ebiten.Image, center core.Pixel, radius float64, width float32, c color.Color) {
	vs, is := hexPath(center, radius).AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: width})
	drawColored(screen, vs, is, c)
}

func drawColored(screen *ebiten.Image, vs []ebiten.Vertex, is []uint16, c color.Color) {
	r, g, b, a := c.RGBA()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	screen.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
