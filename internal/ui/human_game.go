package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/HexConquest/internal/common"
	"github.com/mitchelldurbincs/HexConquest/internal/game"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/ui/input"
	"github.com/mitchelldurbincs/HexConquest/internal/ui/renderer"
)

type PlayerType int

const (
	PlayerTypeHuman PlayerType = iota
	PlayerTypeAI
)

type PlayerConfig struct {
	Type PlayerType
	ID   core.PlayerID
}

type HumanGame struct {
	engine        *game.Engine
	boardRenderer *renderer.EnhancedBoardRenderer
	inputHandler  *input.Handler
	defaultFont   font.Face
	palette       common.Palette

	// Player configuration
	playerTypes map[core.PlayerID]PlayerType

	// Turn management
	rng             *rand.Rand
	turnTimer       int
	autoTurnDelay   int // Frames to wait between AI turns
	waitingForHuman bool

	// UI state
	statusMessage string
	messageTimer  int
}

func NewHumanGame(engine *game.Engine, playerConfigs []PlayerConfig) (*HumanGame, error) {
	types := make(map[core.PlayerID]PlayerType, len(playerConfigs))
	for _, pc := range playerConfigs {
		if _, err := engine.Player(pc.ID); err != nil {
			return nil, err
		}
		types[pc.ID] = pc.Type
	}

	g := &HumanGame{
		engine:        engine,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		autoTurnDelay: TurnInterval(),
		defaultFont:   basicfont.Face7x13,
		palette:       common.DefaultPalette(),
		playerTypes:   types,
	}

	g.boardRenderer = renderer.NewEnhancedBoardRenderer(HexSize(), g.defaultFont, g.palette)
	g.boardRenderer.SetOrigin(boardOrigin(g.boardRenderer.BoardRenderer))
	g.inputHandler = input.NewHandler(HexSize())
	g.inputHandler.SetBoardOrigin(g.boardRenderer.Origin())
	g.inputHandler.SetCellValidator(g.validateSelection)

	return g, nil
}

// validateSelection accepts cells holding a troop of the active player that can still move
func (g *HumanGame) validateSelection(c core.Coordinate) (bool, string) {
	p := g.engine.ActivePlayer()
	if p == nil {
		return false, "The game is over"
	}
	e, ok := g.engine.Map().Occupant(c)
	if !ok || e.Owner != p.ID || !e.IsMobile() {
		return false, "Select one of your troops"
	}
	if e.MovesLeft == 0 {
		return false, "That troop has no moves left"
	}
	return true, ""
}

func (g *HumanGame) Update() error {
	g.inputHandler.Update()

	if g.messageTimer > 0 {
		g.messageTimer--
	}
	if msg := g.inputHandler.GetLastValidationMessage(); msg != "" {
		g.showMessage(msg, 60)
	}

	g.boardRenderer.SetHover(g.inputHandler.GetHoveredCell())
	g.refreshOverlays()

	if g.engine.IsGameOver() {
		return nil
	}

	current := g.engine.ActivePlayer()
	if current == nil {
		return nil
	}

	if g.playerTypes[current.ID] == PlayerTypeHuman {
		g.handleHumanTurn(current)
		return nil
	}
	return g.handleAITurn()
}

// refreshOverlays shows where the selected troop can go, or where the chosen recruit fits
func (g *HumanGame) refreshOverlays() {
	m := g.engine.Map()
	moves := g.engine.LegalMoves()

	if sel, ok := g.inputHandler.GetSelectedCell(); ok {
		reach, err := moves.Destinations(m, sel)
		if err != nil {
			reach = nil
		}
		g.boardRenderer.SetSelection(sel, err == nil, reach)
	} else {
		g.boardRenderer.SetSelection(core.Coordinate{}, false, nil)
	}

	kind := g.inputHandler.GetRecruitKind()
	p := g.engine.ActivePlayer()
	if kind == core.NoKind || p == nil {
		g.boardRenderer.SetRecruitSpots(nil)
		return
	}
	g.boardRenderer.SetRecruitSpots(moves.RecruitSpots(m, p.ID, kind))
}

func (g *HumanGame) handleHumanTurn(player *game.Player) {
	g.inputHandler.SetPlayerTurn(true)
	g.waitingForHuman = true
	ctx := context.Background()

	for _, cmd := range g.inputHandler.GetPendingCommands() {
		var err error
		switch cmd.Kind {
		case input.CommandMove:
			err = g.engine.Move(ctx, player.ID, cmd.From, cmd.To)
		case input.CommandRecruit:
			err = g.engine.Recruit(ctx, player.ID, cmd.Recruit, cmd.To)
		case input.CommandUndo:
			err = g.engine.Undo(ctx, player.ID)
		case input.CommandEndTurn:
			err = g.engine.EndTurn(ctx, player.ID)
			g.waitingForHuman = false
			g.inputHandler.SetPlayerTurn(false)
		}
		if err != nil {
			g.showMessage(describeError(err), 90)
		}
		if !g.waitingForHuman || g.engine.IsGameOver() {
			break
		}
	}
	g.inputHandler.ClearPendingCommands()
}

func (g *HumanGame) handleAITurn() error {
	g.inputHandler.SetPlayerTurn(false)
	g.turnTimer++
	if g.turnTimer < g.autoTurnDelay {
		return nil
	}
	g.turnTimer = 0

	if _, err := game.PlayRandomTurn(context.Background(), g.engine, g.rng, maxRandomActions); err != nil {
		log.Error().Err(err).Msg("Computer turn failed")
		return err
	}
	return nil
}

// describeError turns an engine error into a short status line
func describeError(err error) string {
	switch {
	case errors.Is(err, core.ErrInsufficientFunds):
		return "Not enough gold"
	case errors.Is(err, core.ErrIllegalPlacement):
		return "Cannot place that there"
	case errors.Is(err, core.ErrInvalidMove):
		return "Invalid move"
	case errors.Is(err, core.ErrNothingToUndo):
		return "Nothing to undo"
	case errors.Is(err, core.ErrNotYourTurn):
		return "Not yours to command"
	default:
		return err.Error()
	}
}

func (g *HumanGame) showMessage(msg string, duration int) {
	g.statusMessage = msg
	g.messageTimer = duration
}

func (g *HumanGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background)

	g.boardRenderer.Draw(screen, g.engine.Map())

	g.drawUI(screen, g.engine.Snapshot())
}

func (g *HumanGame) drawUI(screen *ebiten.Image, s game.Snapshot) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Turn: %d  Round: %d", s.Turn, s.Round), 5, 5)

	if p := g.engine.ActivePlayer(); p != nil {
		currentStr := "Current Turn: " + p.Name
		if g.playerTypes[p.ID] == PlayerTypeHuman {
			currentStr += " (Human)"
		} else {
			currentStr += " (AI)"
		}
		text.Draw(screen, currentStr, g.defaultFont, 150, 17, g.palette.Player(p.ID))
	}

	sidebarX := ScreenWidth() - sidebarWidth
	drawStandings(screen, g.defaultFont, g.palette, s, sidebarX, 25)

	// Controls help
	if g.waitingForHuman {
		helpY := ScreenHeight() - 110
		gray := color.Gray{200}
		text.Draw(screen, "Controls:", g.defaultFont, sidebarX, helpY, g.palette.Text)
		text.Draw(screen, "Click: Select/Move", g.defaultFont, sidebarX, helpY+15, gray)
		text.Draw(screen, "1-4: Recruit troop", g.defaultFont, sidebarX, helpY+30, gray)
		text.Draw(screen, "C: Build castle", g.defaultFont, sidebarX, helpY+45, gray)
		text.Draw(screen, "Z: Undo", g.defaultFont, sidebarX, helpY+60, gray)
		text.Draw(screen, "Space: End turn", g.defaultFont, sidebarX, helpY+75, gray)
		text.Draw(screen, "ESC: Deselect", g.defaultFont, sidebarX, helpY+90, gray)

		if kind := g.inputHandler.GetRecruitKind(); kind != core.NoKind {
			cost := g.engine.Map().Rules().Units.Profile(kind).Cost
			text.Draw(screen, fmt.Sprintf("Placing: %s (%dg)", kind, cost), g.defaultFont, sidebarX, helpY-20, g.palette.Text)
		}
	}

	// Status message
	if g.messageTimer > 0 && g.statusMessage != "" {
		msgX := ScreenWidth()/2 - len(g.statusMessage)*3
		msgY := ScreenHeight() - 20
		text.Draw(screen, g.statusMessage, g.defaultFont, msgX, msgY, g.palette.Text)
	}
}

func (g *HumanGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth(), ScreenHeight()
}
