package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	width := flag.Int("width", 0, "Map width (0 to use config default)")
	height := flag.Int("height", 0, "Map height (0 to use config default)")
	players := flag.Int("players", 0, "Number of players (0 to use config default)")
	mapFile := flag.String("map", "", "Map file to load instead of generating one")
	seed := flag.Int64("seed", 0, "Generation seed (0 for random)")
	turns := flag.Int("turns", 0, "Random turns to play before printing the board")
	every := flag.Int("every", 0, "Also print the board every N turns")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	fmt.Printf("Game seed: %d\n", *seed)

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()
	g, err := game.NewEngine(ctx, game.GameConfig{
		Width:   *width,
		Height:  *height,
		Players: *players,
		MapFile: *mapFile,
		Seed:    *seed,
		Rng:     rng,
		Logger:  log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}
	if err := g.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}

	fmt.Printf("Initial board:\n%s\n", g.Board())

	for turn := 1; turn <= *turns && !g.IsGameOver(); turn++ {
		if _, err := game.PlayRandomTurn(ctx, g, rng, 12); err != nil {
			log.Fatal().Err(err).Int("turn", turn).Msg("Random turn failed")
		}
		if *every > 0 && turn%*every == 0 {
			fmt.Printf("After turn %d:\n%s\n", turn, g.Board())
		}
	}

	if *turns > 0 {
		fmt.Printf("Final board:\n%s\n", g.Board())
	}
	printStandings(g.Snapshot())
}

func printStandings(s game.Snapshot) {
	fmt.Printf("Turn %d, round %d, phase %s\n", s.Turn, s.Round, s.Phase)
	for _, p := range s.Players {
		status := "alive"
		if !p.Alive {
			status = fmt.Sprintf("out (rank %d)", p.Rank)
		}
		fmt.Printf("  %-10s %4dg  cells %3d  towns %d  castles %d  troops %d  upkeep %d  %s\n",
			p.Name, p.Treasury, p.Territory, p.Towns, p.Castles, p.Troops, p.Upkeep, status)
	}
	if s.Bandits > 0 || s.Camps > 0 {
		fmt.Printf("  bandits %d  camps %d\n", s.Bandits, s.Camps)
	}
	if s.GameOver {
		if s.Winner >= 0 {
			fmt.Printf("Winner: %s\n", s.Players[s.Winner].Name)
		} else {
			fmt.Println("Draw")
		}
	}
}
