package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
)

// ProductionManager runs the economy hooks at the edges of a player's turn
type ProductionManager struct {
	eventBus *events.EventBus
	gameID   string
	economy  Economy
	logger   zerolog.Logger
}

// NewProductionManager creates a new production manager
func NewProductionManager(eventBus *events.EventBus, gameID string, economy Economy, logger zerolog.Logger) *ProductionManager {
	return &ProductionManager{
		eventBus: eventBus,
		gameID:   gameID,
		economy:  economy,
		logger:   logger.With().Str("component", "ProductionManager").Logger(),
	}
}

// StartTurn activates p and collects settlement production
func (pm *ProductionManager) StartTurn(m *core.Map, p *Player, turn int) int {
	income := p.OnTurnStart(m)
	pm.logger.Debug().
		Int("turn", turn).
		Int("player_id", int(p.ID)).
		Int("town_income", income).
		Int("treasury", p.Treasury).
		Msg("Turn production collected")
	return income
}

// EndTurn settles p's treasury and publishes the result
func (pm *ProductionManager) EndTurn(m *core.Map, p *Player, turn int) Settlement {
	s := p.OnTurnEnd(m, pm.economy)

	logEvent := pm.logger.Debug()
	if s.Deficit {
		logEvent = pm.logger.Info()
	}
	logEvent.
		Int("turn", turn).
		Int("player_id", int(p.ID)).
		Int("cell_income", s.CellIncome).
		Int("upkeep", s.Upkeep).
		Bool("deficit", s.Deficit).
		Int("disbanded", s.Disbanded).
		Int("treasury", p.Treasury).
		Msg("Turn settled")

	if pm.eventBus != nil {
		pm.eventBus.Publish(events.NewProductionAppliedEvent(
			pm.gameID,
			int(p.ID),
			s.TownIncome,
			s.CellIncome,
			s.Upkeep,
			s.Deficit,
			s.Disbanded,
			turn,
		))
	}
	return s
}
