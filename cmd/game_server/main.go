package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/HexConquest/internal/monitoring"
	"github.com/mitchelldurbincs/HexConquest/internal/store"
)

// maxRandomActions bounds how many actions a computer player tries per turn
const maxRandomActions = 12

type matchOptions struct {
	width, height, players int
	mapFile                string
	seed                   int64
	maxTurns               int
	turnDelay              time.Duration
	verbose                bool
}

// validateRun checks the resolved match count and parallelism
func validateRun(matches, parallel int) error {
	if matches < 1 {
		return fmt.Errorf("matches must be at least 1, got %d", matches)
	}
	if parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", parallel)
	}
	return nil
}

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	matches := flag.Int("matches", -1, "Number of matches to play (-1 to use config default)")
	parallel := flag.Int("parallel", -1, "Matches played at once (-1 to use config default)")
	maxTurns := flag.Int("max-turns", -1, "Turn limit per match (-1 to use config default)")
	seed := flag.Int64("seed", 0, "Seed for the first match, later matches add their index (0 for random)")
	players := flag.Int("players", 0, "Players per match (0 to use config default)")
	width := flag.Int("width", 0, "Map width (0 to use config default)")
	height := flag.Int("height", 0, "Map height (0 to use config default)")
	mapFile := flag.String("map", "", "Map file to play instead of a generated map")
	dbPath := flag.String("db", "", "Record matches in this sqlite database (empty to use config default)")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	cfg := config.Get()
	demo := cfg.Server.GameServer.Demo

	// Use config defaults if not overridden by flags
	if *logLevel == "" {
		*logLevel = cfg.Server.GameServer.LogLevel
	}
	if *matches == -1 {
		*matches = demo.Matches
	}
	if *parallel == -1 {
		*parallel = demo.Parallel
	}
	if *maxTurns == -1 {
		*maxTurns = demo.MaxTurns
	}
	if *dbPath == "" && cfg.Store.Enabled {
		*dbPath = cfg.Store.Path
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	setupLogging(*logLevel, cfg.Server.GameServer.LogFormat)

	if err := validateRun(*matches, *parallel); err != nil {
		log.Fatal().Err(err).Msg("Invalid run settings")
	}

	log.Info().
		Int("matches", *matches).
		Int("parallel", *parallel).
		Int("max_turns", *maxTurns).
		Int64("seed", *seed).
		Str("db", *dbPath).
		Msg("Starting headless game server")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var journal *store.Journal
	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *dbPath).Msg("Failed to open store")
		}
		defer db.Close()
		journal = store.NewJournal(db, log.Logger)
	}

	interval := time.Duration(demo.MonitorIntervalMs) * time.Millisecond
	monitor := monitoring.NewMatchMonitor(log.Logger, interval)
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	monitorDone := make(chan struct{})
	go func() {
		monitor.Run(monitorCtx)
		close(monitorDone)
	}()

	opts := matchOptions{
		width:     *width,
		height:    *height,
		players:   *players,
		mapFile:   *mapFile,
		maxTurns:  *maxTurns,
		turnDelay: time.Duration(demo.TurnDelayMs) * time.Millisecond,
		verbose:   cfg.Development.VerboseLogging,
	}

	sem := make(chan struct{}, *parallel)
	var wg sync.WaitGroup
	for i := 0; i < *matches; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			defer func() { <-sem }()

			o := opts
			o.seed = *seed + int64(index)
			if err := playMatch(ctx, o, monitor, journal, *matches == 1); err != nil {
				log.Error().Err(err).Int("match", index).Msg("Match failed")
			}
		}(i)
	}
	wg.Wait()

	stopMonitor()
	<-monitorDone

	if journal != nil {
		if err := journal.Flush(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to flush journal")
		}
		if err := journal.Err(); err != nil {
			log.Warn().Err(err).Msg("Journal recorded errors during play")
		}
	}

	m := monitor.Metrics()
	log.Info().
		Int("finished", m.Finished).
		Int("draws", m.Draws).
		Interface("wins", m.Wins).
		Msg("Server shutdown complete")
}

// playMatch runs one computer-only match to completion or the turn limit
func playMatch(ctx context.Context, o matchOptions, monitor *monitoring.MatchMonitor, journal *store.Journal, printBoard bool) error {
	rng := rand.New(rand.NewSource(o.seed))
	logger := log.Logger.With().Int64("seed", o.seed).Logger()

	engine, err := game.NewEngine(ctx, game.GameConfig{
		Width:   o.width,
		Height:  o.height,
		Players: o.players,
		MapFile: o.mapFile,
		Seed:    o.seed,
		Rng:     rng,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	bus := engine.EventBus()
	bus.Subscribe(monitor)
	if journal != nil {
		bus.Subscribe(journal)
	}
	if o.verbose {
		bus.Subscribe(subscribers.NewLoggerSubscriber("event-log", logger, zerolog.DebugLevel))
	}

	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	if printBoard {
		fmt.Printf("Initial board:\n%s\n", engine.Board())
	}

	for turn := 0; turn < o.maxTurns && !engine.IsGameOver(); turn++ {
		if _, err := game.PlayRandomTurn(ctx, engine, rng, maxRandomActions); err != nil {
			return fmt.Errorf("turn %d: %w", engine.Turn(), err)
		}
		if o.turnDelay > 0 {
			select {
			case <-time.After(o.turnDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	s := engine.Snapshot()
	if printBoard {
		fmt.Printf("Final board (turn %d, round %d):\n%s\n", s.Turn, s.Round, engine.Board())
	}

	ev := logger.Info().
		Str("game_id", s.GameID).
		Int("turns", s.Turn).
		Int("rounds", s.Round).
		Bool("finished", s.GameOver)
	if s.GameOver && s.Winner != core.NoPlayer {
		ev = ev.Str("winner", s.Players[s.Winner].Name)
	}
	ev.Msg("Match complete")
	return nil
}

func setupLogging(level, format string) {
	// Parse log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" || format == "json" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
