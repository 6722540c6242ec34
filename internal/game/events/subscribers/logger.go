package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// levelFor returns the configured level, raised to warn for rejected actions
func (ls *LoggerSubscriber) levelFor(eventType string) zerolog.Level {
	if eventType == events.TypeActionRejected && ls.logLevel < zerolog.WarnLevel {
		return zerolog.WarnLevel
	}
	return ls.logLevel
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	meta := event.Meta()
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Int("turn", meta.Turn).
		Time("timestamp", event.Timestamp()).
		Logger()

	var logEvent *zerolog.Event
	switch ls.levelFor(event.Type()) {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Dur("duration", e.Duration).
			Int("final_turn", e.FinalTurn).
			Int("rounds", e.Rounds)

	case *events.TurnStartedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("round", e.Round).
			Int("treasury", e.Treasury)

	case *events.TurnEndedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("actions_count", e.ActionsCount).
			Int("treasury", e.Treasury).
			Dur("process_time", e.ProcessedTime)

	case *events.ActionProcessedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("action_type", core.GetActionType(e.Action)).
			Str("result", e.Result)

	case *events.ActionRejectedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Str("action_type", core.GetActionType(e.Action)).
			Str("reason", e.Reason)

	case *events.ElementPlacedEvent:
		logEvent.
			Int("element_id", e.ElementID).
			Str("kind", e.Kind).
			Int("owner", e.Owner).
			Stringer("at", e.At).
			Int("cost", e.Cost)

	case *events.ElementMovedEvent:
		logEvent.
			Int("element_id", e.ElementID).
			Str("kind", e.Kind).
			Stringer("from", e.From).
			Stringer("to", e.To).
			Int("cost", e.Cost)

	case *events.ElementRemovedEvent:
		logEvent.
			Int("element_id", e.ElementID).
			Str("kind", e.Kind).
			Int("owner", e.Owner).
			Stringer("at", e.At).
			Str("reason", e.Reason)

	case *events.TroopsMergedEvent:
		logEvent.
			Int("owner", e.Owner).
			Stringer("at", e.At).
			Str("from", e.From).
			Str("into", e.Into)

	case *events.CombatResolvedEvent:
		logEvent.
			Int("attacker_id", e.AttackerID).
			Int("defender_id", e.DefenderID).
			Stringer("location", e.Location).
			Str("attacker_kind", e.AttackerKind).
			Int("strength", e.AttackerStrength).
			Int("shield", e.Shield).
			Bool("captured", e.Captured).
			Str("destroyed", e.Destroyed)

	case *events.PlayerEliminatedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("eliminated_by", e.EliminatedBy).
			Int("final_rank", e.FinalRank)

	case *events.ProductionAppliedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("town_income", e.TownIncome).
			Int("cell_income", e.CellIncome).
			Int("upkeep", e.Upkeep).
			Bool("deficit", e.Deficit).
			Int("disbanded", e.Disbanded)

	case *events.BanditPhaseEvent:
		logEvent.
			Int("round", e.Round).
			Int("moved", e.Moved).
			Int("tribute", e.Tribute).
			Bool("camp_spawned", e.CampSpawned)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
