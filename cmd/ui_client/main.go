package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	aiOnly := flag.Bool("ai-only", false, "Watch computer players only")
	human := flag.Int("human", -1, "Seat of the human player (-1 to use config default)")
	players := flag.Int("players", 0, "Number of players (0 to use config default)")
	width := flag.Int("width", 0, "Map width (0 to use config default)")
	height := flag.Int("height", 0, "Map height (0 to use config default)")
	mapFile := flag.String("map", "", "Map file to play instead of a generated map")
	seed := flag.Int64("seed", 0, "Map and game seed (0 for random)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	defaults := cfg.UI.Defaults

	if *human == -1 {
		*human = defaults.HumanPlayer
	}
	if *players == 0 {
		*players = defaults.NumPlayers
	}
	if *width == 0 {
		*width = defaults.MapWidth
	}
	if *height == 0 {
		*height = defaults.MapHeight
	}
	if !*aiOnly {
		*aiOnly = defaults.AIOnly
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if !cfg.Development.VerboseLogging {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	engine, err := game.NewEngine(context.Background(), game.GameConfig{
		Width:   *width,
		Height:  *height,
		Players: *players,
		MapFile: *mapFile,
		Seed:    *seed,
		Rng:     rand.New(rand.NewSource(*seed)),
		Logger:  log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}
	if err := engine.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}
	log.Info().Str("game_id", engine.GameID()).Int64("seed", *seed).Bool("ai_only", *aiOnly).Msg("Game ready")

	var g ebiten.Game
	if *aiOnly {
		g, err = ui.NewUIGame(engine)
	} else {
		seats := make([]ui.PlayerConfig, 0, len(engine.Players()))
		for _, p := range engine.Players() {
			kind := ui.PlayerTypeAI
			if p.ID == core.PlayerID(*human) {
				kind = ui.PlayerTypeHuman
			}
			seats = append(seats, ui.PlayerConfig{Type: kind, ID: p.ID})
		}
		g, err = ui.NewHumanGame(engine, seats)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create UI")
	}

	ebiten.SetWindowSize(ui.ScreenWidth(), ui.ScreenHeight())
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("UI exited with error")
	}
}
