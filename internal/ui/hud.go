package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/HexConquest/internal/common"
	"github.com/mitchelldurbincs/HexConquest/internal/game"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/ui/renderer"
)

const (
	sidebarWidth = 220
	headerHeight = 24
)

// boardOrigin leaves room for the header above the board
func boardOrigin(br *renderer.BoardRenderer) core.Pixel {
	o := br.Origin()
	return core.Pixel{X: o.X + 4, Y: o.Y + headerHeight}
}

// drawStandings lists every player with their treasury and holdings
func drawStandings(screen *ebiten.Image, f font.Face, palette common.Palette, s game.Snapshot, x, y int) {
	for i, p := range s.Players {
		line := fmt.Sprintf("%s: %dg %dc %dt", p.Name, p.Treasury, p.Territory, p.Troops)
		switch {
		case !p.Alive:
			line += fmt.Sprintf(" (out, #%d)", p.Rank)
		case p.Active:
			line = "> " + line
		}
		text.Draw(screen, line, f, x, y+i*18, palette.Player(p.ID))
	}

	y += len(s.Players)*18 + 10
	if s.Bandits > 0 || s.Camps > 0 {
		text.Draw(screen, fmt.Sprintf("Bandits: %d  Camps: %d", s.Bandits, s.Camps), f, x, y, palette.Text)
		y += 18
	}
	if s.GameOver {
		msg := "Game over: draw"
		if s.Winner != core.NoPlayer {
			msg = fmt.Sprintf("Game over: %s wins", s.Players[s.Winner].Name)
		}
		text.Draw(screen, msg, f, x, y, palette.Text)
	}
}
