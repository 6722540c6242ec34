package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
	"github.com/mitchelldurbincs/HexConquest/internal/game/mapfile"
	"github.com/mitchelldurbincs/HexConquest/internal/game/mapgen"
	"github.com/mitchelldurbincs/HexConquest/internal/game/processor"
	"github.com/mitchelldurbincs/HexConquest/internal/game/rules"
	"github.com/mitchelldurbincs/HexConquest/internal/game/states"
)

// MaxPlayers is the largest roster the map format can describe
const MaxPlayers = 9

// EngineInitializer handles the complex initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	return &EngineInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "GameEngine").Logger(),
	}
}

// Initialize creates a new game engine waiting in the Lobby phase
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		ei.logger.Error().Err(err).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, err
	}

	ei.setupDefaults()

	m, err := ei.loadMap()
	if err != nil {
		return nil, fmt.Errorf("map setup failed: %w", err)
	}

	players, err := ei.initializePlayers(m)
	if err != nil {
		return nil, err
	}

	engine, err := ei.createEngine(m, players)
	if err != nil {
		return nil, err
	}

	if err := ei.initializeStateMachine(engine); err != nil {
		return nil, fmt.Errorf("state machine initialization failed: %w", err)
	}

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Int("width", m.Width()).
		Int("height", m.Height()).
		Int("players", len(players)).
		Str("combat_rule", engine.combat.Source()).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills unset fields from the loaded configuration
func (ei *EngineInitializer) setupDefaults() {
	cfg := config.Get().Game
	c := &ei.config

	if c.Rng == nil {
		seed := c.Seed
		if seed == 0 {
			seed = cfg.Map.Seed
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		ei.logger.Debug().Int64("seed", seed).Msg("No RNG provided, creating new seeded RNG")
		c.Rng = rand.New(rand.NewSource(seed))
	}
	if c.GameID == "" {
		c.GameID = uuid.NewString()
	}
	if c.Rules == nil {
		c.Rules = RulebookFromConfig(&cfg)
	}
	if c.CombatRule == "" {
		c.CombatRule = cfg.Rules.Combat
	}
	if c.Economy == nil {
		econ := EconomyFromConfig(&cfg)
		c.Economy = &econ
	}
	if c.UndoDepth == 0 {
		c.UndoDepth = cfg.UndoDepth
	}
	if !cfg.Rules.BanditsWander {
		c.NoWander = true
	}
	if c.MapFile == "" {
		c.MapFile = cfg.Map.File
	}
	if c.EventBus == nil {
		c.EventBus = events.NewEventBusWithLogger(ei.logger)
	}
}

// loadMap uses the supplied map, loads the map file, or generates a map
func (ei *EngineInitializer) loadMap() (*core.Map, error) {
	c := &ei.config
	switch {
	case c.Map != nil:
		return c.Map, nil
	case c.MapFile != "":
		ei.logger.Info().Str("path", c.MapFile).Msg("Loading map file")
		return mapfile.Load(c.MapFile, c.Rules)
	}

	mapCfg := mapgen.DefaultMapConfig(c.Width, c.Height, c.Players)
	if c.Seed != 0 {
		mapCfg.Seed = c.Seed
	}
	c.Players = mapCfg.PlayerCount
	return mapgen.NewGenerator(mapCfg, c.Rng, c.Rules).GenerateMap()
}

// initializePlayers seats one player per id found on the map
func (ei *EngineInitializer) initializePlayers(m *core.Map) ([]*Player, error) {
	n := ei.config.Players
	if n == 0 {
		n = mapfile.CountPlayers(m)
	}
	if n < 1 || n > MaxPlayers {
		return nil, fmt.Errorf("%d players: %w", n, core.ErrInvalidPlayer)
	}

	players := make([]*Player, n)
	for i := range players {
		name := ""
		if i < len(ei.config.Names) {
			name = ei.config.Names[i]
		}
		players[i] = NewPlayer(core.PlayerID(i), name, ei.config.Economy.StartingTreasury)
	}
	ei.creditStoredCoins(m, players)
	return players, nil
}

// creditStoredCoins moves coins stored on owned towns into their owner's
// treasury. Neutral towns keep theirs as loot.
func (ei *EngineInitializer) creditStoredCoins(m *core.Map, players []*Player) {
	for _, e := range m.Elements() {
		if e.Kind != core.Town || e.Treasury == 0 || e.Owner == core.NoPlayer || int(e.Owner) >= len(players) {
			continue
		}
		p := players[e.Owner]
		p.Treasury += e.Treasury
		ei.logger.Debug().
			Int("player_id", int(p.ID)).
			Int("coins", e.Treasury).
			Str("town", e.Position.String()).
			Msg("Credited stored town coins")
		e.Treasury = 0
	}
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine(m *core.Map, players []*Player) (*Engine, error) {
	c := &ei.config

	combat, err := rules.NewCombatRule(c.CombatRule, &m.Rules().Units, ei.logger)
	if err != nil {
		return nil, err
	}

	gameContext := states.NewGameContext(c.GameID, MaxPlayers, ei.logger)
	gameContext.PlayerCount = len(players)

	engine := &Engine{
		gameID:          c.GameID,
		m:               m,
		players:         players,
		turn:            1,
		round:           1,
		winner:          core.NoPlayer,
		undoDepth:       max(c.UndoDepth, 0),
		economy:         *c.Economy,
		rng:             c.Rng,
		logger:          ei.logger,
		eventBus:        c.EventBus,
		stateMachine:    states.NewStateMachine(gameContext, c.EventBus),
		actionProcessor: processor.NewActionProcessor(ei.logger, combat),
		combat:          combat,
		winCondition:    rules.NewWinConditionChecker(ei.logger, len(players)),
		legalMoves:      rules.NewLegalMoveCalculator(combat),
	}
	engine.production = NewProductionManager(c.EventBus, c.GameID, *c.Economy, ei.logger)
	engine.bandits = NewBanditManager(c.EventBus, c.GameID, c.Rng, c.Economy.CampTribute, !c.NoWander, ei.logger)
	engine.turnProcessor = NewTurnProcessor(engine)
	return engine, nil
}

// initializeStateMachine opens the lobby
func (ei *EngineInitializer) initializeStateMachine(engine *Engine) error {
	if err := engine.stateMachine.TransitionTo(states.PhaseLobby, "Engine initialized"); err != nil {
		ei.logger.Error().Err(err).Msg("Failed to transition to Lobby state")
		return err
	}
	return nil
}
