package ui

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/HexConquest/internal/common"
	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game"
	"github.com/mitchelldurbincs/HexConquest/internal/ui/renderer"
)

// UI configuration functions
func ScreenWidth() int {
	return config.Get().UI.Window.Width
}

func ScreenHeight() int {
	return config.Get().UI.Window.Height
}

func HexSize() int {
	return config.Get().UI.Game.HexSize
}

func TurnInterval() int {
	return config.Get().UI.Game.TurnInterval
}

// maxRandomActions bounds how many actions a computer player tries per turn
const maxRandomActions = 12

// UIGame lets computer players fight it out while the window watches
type UIGame struct {
	engine        *game.Engine
	boardRenderer *renderer.BoardRenderer
	defaultFont   font.Face
	palette       common.Palette

	// For simulation
	rng       *rand.Rand
	turnTimer int
}

// NewUIGame creates a new Ebitengine game instance.
func NewUIGame(engine *game.Engine) (*UIGame, error) {
	g := &UIGame{
		engine:      engine,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		defaultFont: basicfont.Face7x13,
		palette:     common.DefaultPalette(),
	}
	g.boardRenderer = renderer.NewBoardRenderer(HexSize(), g.defaultFont, g.palette)
	g.boardRenderer.SetOrigin(boardOrigin(g.boardRenderer))
	return g, nil
}

// Update plays one computer turn every TurnInterval frames
func (g *UIGame) Update() error {
	g.turnTimer++
	if g.turnTimer < TurnInterval() || g.engine.IsGameOver() {
		return nil
	}
	g.turnTimer = 0

	if _, err := game.PlayRandomTurn(context.Background(), g.engine, g.rng, maxRandomActions); err != nil {
		log.Error().Err(err).Msg("Computer turn failed")
		return err
	}
	return nil
}

// Draw renders the game screen.
func (g *UIGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background)

	g.boardRenderer.Draw(screen, g.engine.Map())

	s := g.engine.Snapshot()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Turn: %d  Round: %d", s.Turn, s.Round), 5, 5)
	drawStandings(screen, g.defaultFont, g.palette, s, ScreenWidth()-sidebarWidth, 25)
}

// Layout defines the Ebitengine screen size.
func (g *UIGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth(), ScreenHeight()
}
