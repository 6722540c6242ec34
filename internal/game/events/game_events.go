package events

import (
	"time"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted       = "game.started"
	TypeGameEnded         = "game.ended"
	TypeTurnStarted       = "turn.started"
	TypeTurnEnded         = "turn.ended"
	TypeActionProcessed   = "action.processed"
	TypeActionRejected    = "action.rejected"
	TypeElementPlaced     = "element.placed"
	TypeElementMoved      = "element.moved"
	TypeElementRemoved    = "element.removed"
	TypeTroopsMerged      = "troops.merged"
	TypeCombatResolved    = "combat.resolved"
	TypePlayerEliminated  = "player.eliminated"
	TypeProductionApplied = "production.applied"
	TypeBanditPhase       = "bandits.moved"
	TypeStateTransition   = "state.transition"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	NumPlayers int
	MapWidth   int
	MapHeight  int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, numPlayers, width, height int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:  newBase(TypeGameStarted, gameID, 0, -1),
		NumPlayers: numPlayers,
		MapWidth:   width,
		MapHeight:  height,
	}
}

// GameEndedEvent is published when a game ends. Winner is -1 for a draw.
type GameEndedEvent struct {
	BaseEvent
	Winner    int
	Duration  time.Duration
	FinalTurn int
	Rounds    int
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner int, duration time.Duration, finalTurn, rounds int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID, finalTurn, winner),
		Winner:    winner,
		Duration:  duration,
		FinalTurn: finalTurn,
		Rounds:    rounds,
	}
}

// TurnStartedEvent is published when a player becomes active
type TurnStartedEvent struct {
	BaseEvent
	TurnNumber int
	Round      int
	PlayerID   int
	Treasury   int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, turn, round, playerID, treasury int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  newBase(TypeTurnStarted, gameID, turn, playerID),
		TurnNumber: turn,
		Round:      round,
		PlayerID:   playerID,
		Treasury:   treasury,
	}
}

// TurnEndedEvent is published after a player's turn-end accounting
type TurnEndedEvent struct {
	BaseEvent
	TurnNumber    int
	PlayerID      int
	ActionsCount  int
	Treasury      int
	ProcessedTime time.Duration
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(gameID string, turn, playerID, actionsCount, treasury int, processedTime time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:     newBase(TypeTurnEnded, gameID, turn, playerID),
		TurnNumber:    turn,
		PlayerID:      playerID,
		ActionsCount:  actionsCount,
		Treasury:      treasury,
		ProcessedTime: processedTime,
	}
}

// ActionProcessedEvent is published after an action is applied
type ActionProcessedEvent struct {
	BaseEvent
	PlayerID int
	Action   core.Action
	Result   string
}

// NewActionProcessedEvent creates a new ActionProcessedEvent
func NewActionProcessedEvent(gameID string, playerID int, action core.Action, result string, turn int) *ActionProcessedEvent {
	return &ActionProcessedEvent{
		BaseEvent: newBase(TypeActionProcessed, gameID, turn, playerID),
		PlayerID:  playerID,
		Action:    action,
		Result:    result,
	}
}

// ActionRejectedEvent is published when an action fails validation. The game state is unchanged.
type ActionRejectedEvent struct {
	BaseEvent
	PlayerID int
	Action   core.Action
	Reason   string
}

// NewActionRejectedEvent creates a new ActionRejectedEvent
func NewActionRejectedEvent(gameID string, playerID int, action core.Action, reason string, turn int) *ActionRejectedEvent {
	return &ActionRejectedEvent{
		BaseEvent: newBase(TypeActionRejected, gameID, turn, playerID),
		PlayerID:  playerID,
		Action:    action,
		Reason:    reason,
	}
}

// ElementPlacedEvent is published when a troop is recruited or a building is built
type ElementPlacedEvent struct {
	BaseEvent
	ElementID int
	Kind      string
	Owner     int
	At        core.Coordinate
	Cost      int
}

// NewElementPlacedEvent creates a new ElementPlacedEvent
func NewElementPlacedEvent(gameID string, e *core.Element, cost, turn int) *ElementPlacedEvent {
	return &ElementPlacedEvent{
		BaseEvent: newBase(TypeElementPlaced, gameID, turn, int(e.Owner)),
		ElementID: int(e.ID),
		Kind:      e.Kind.String(),
		Owner:     int(e.Owner),
		At:        e.Position,
		Cost:      cost,
	}
}

// ElementMovedEvent is published when a troop changes cell
type ElementMovedEvent struct {
	BaseEvent
	ElementID int
	Kind      string
	Owner     int
	From      core.Coordinate
	To        core.Coordinate
	Cost      int
}

// NewElementMovedEvent creates a new ElementMovedEvent
func NewElementMovedEvent(gameID string, e *core.Element, from core.Coordinate, cost, turn int) *ElementMovedEvent {
	return &ElementMovedEvent{
		BaseEvent: newBase(TypeElementMoved, gameID, turn, int(e.Owner)),
		ElementID: int(e.ID),
		Kind:      e.Kind.String(),
		Owner:     int(e.Owner),
		From:      from,
		To:        e.Position,
		Cost:      cost,
	}
}

// ElementRemovedEvent is published when an element leaves the map
type ElementRemovedEvent struct {
	BaseEvent
	ElementID int
	Kind      string
	Owner     int
	At        core.Coordinate
	Reason    string
}

// NewElementRemovedEvent creates a new ElementRemovedEvent
func NewElementRemovedEvent(gameID string, id core.ElementID, kind core.ElementKind, owner core.PlayerID, at core.Coordinate, reason string, turn int) *ElementRemovedEvent {
	return &ElementRemovedEvent{
		BaseEvent: newBase(TypeElementRemoved, gameID, turn, int(owner)),
		ElementID: int(id),
		Kind:      kind.String(),
		Owner:     int(owner),
		At:        at,
		Reason:    reason,
	}
}

// TroopsMergedEvent is published when two friendly troops combine
type TroopsMergedEvent struct {
	BaseEvent
	Owner int
	At    core.Coordinate
	From  string
	Into  string
}

// NewTroopsMergedEvent creates a new TroopsMergedEvent
func NewTroopsMergedEvent(gameID string, owner core.PlayerID, at core.Coordinate, from, into core.ElementKind, turn int) *TroopsMergedEvent {
	return &TroopsMergedEvent{
		BaseEvent: newBase(TypeTroopsMerged, gameID, turn, int(owner)),
		Owner:     int(owner),
		At:        at,
		From:      from.String(),
		Into:      into.String(),
	}
}

// CombatResolvedEvent is published when a troop enters a cell it does not own
type CombatResolvedEvent struct {
	BaseEvent
	AttackerID       int
	DefenderID       int
	Location         core.Coordinate
	AttackerKind     string
	AttackerStrength int
	Shield           int
	Captured         bool
	Destroyed        string
}

// NewCombatResolvedEvent creates a new CombatResolvedEvent
func NewCombatResolvedEvent(gameID string, attacker, defender int, location core.Coordinate,
	attackerKind core.ElementKind, strength, shield int, captured bool, destroyed string, turn int) *CombatResolvedEvent {
	return &CombatResolvedEvent{
		BaseEvent:        newBase(TypeCombatResolved, gameID, turn, attacker),
		AttackerID:       attacker,
		DefenderID:       defender,
		Location:         location,
		AttackerKind:     attackerKind.String(),
		AttackerStrength: strength,
		Shield:           shield,
		Captured:         captured,
		Destroyed:        destroyed,
	}
}

// PlayerEliminatedEvent is published when a player loses their last town
type PlayerEliminatedEvent struct {
	BaseEvent
	PlayerID     int
	EliminatedBy int
	FinalRank    int
}

// NewPlayerEliminatedEvent creates a new PlayerEliminatedEvent
func NewPlayerEliminatedEvent(gameID string, playerID, eliminatedBy, rank, turn int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent:    newBase(TypePlayerEliminated, gameID, turn, playerID),
		PlayerID:     playerID,
		EliminatedBy: eliminatedBy,
		FinalRank:    rank,
	}
}

// ProductionAppliedEvent is published when a player's treasury is settled
type ProductionAppliedEvent struct {
	BaseEvent
	PlayerID   int
	TownIncome int
	CellIncome int
	Upkeep     int
	Deficit    bool
	Disbanded  int
}

// NewProductionAppliedEvent creates a new ProductionAppliedEvent
func NewProductionAppliedEvent(gameID string, playerID, townIncome, cellIncome, upkeep int, deficit bool, disbanded, turn int) *ProductionAppliedEvent {
	return &ProductionAppliedEvent{
		BaseEvent:  newBase(TypeProductionApplied, gameID, turn, playerID),
		PlayerID:   playerID,
		TownIncome: townIncome,
		CellIncome: cellIncome,
		Upkeep:     upkeep,
		Deficit:    deficit,
		Disbanded:  disbanded,
	}
}

// BanditPhaseEvent is published after bandits act at the start of a round
type BanditPhaseEvent struct {
	BaseEvent
	Round       int
	Moved       int
	Tribute     int
	CampSpawned bool
}

// NewBanditPhaseEvent creates a new BanditPhaseEvent
func NewBanditPhaseEvent(gameID string, round, moved, tribute int, spawned bool, turn int) *BanditPhaseEvent {
	return &BanditPhaseEvent{
		BaseEvent:   newBase(TypeBanditPhase, gameID, turn, -1),
		Round:       round,
		Moved:       moved,
		Tribute:     tribute,
		CampSpawned: spawned,
	}
}

// StateTransitionEvent is published when the game state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID, 0, -1),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
