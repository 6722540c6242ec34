package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
	"github.com/mitchelldurbincs/HexConquest/internal/game/processor"
	"github.com/mitchelldurbincs/HexConquest/internal/game/states"
)

// TurnProcessor walks the active player through start, actions and end of a turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger.With().Str("component", "TurnProcessor").Logger(),
	}
}

// StartTurn runs the active player's turn-start hooks and opens the action phase
func (tp *TurnProcessor) StartTurn() {
	e := tp.engine
	p := e.players[e.active]

	e.turnPhase = states.TurnStart
	e.turnActions = 0
	e.turnStart = time.Now()
	e.production.StartTurn(e.m, p, e.turn)

	tp.logger.Debug().
		Int("turn", e.turn).
		Int("round", e.round).
		Int("player_id", int(p.ID)).
		Int("treasury", p.Treasury).
		Msg("Turn started")
	e.eventBus.Publish(events.NewTurnStartedEvent(e.gameID, e.turn, e.round, int(p.ID), p.Treasury))

	e.turnPhase = e.turnPhase.Next()
}

// checkCanAct verifies that player may act right now
func (tp *TurnProcessor) checkCanAct(ctx context.Context, player core.PlayerID) error {
	e := tp.engine
	if err := ctx.Err(); err != nil {
		tp.logger.Warn().Err(err).Int("turn", e.turn).Msg("Action cancelled or timed out")
		return err
	}
	if e.gameOver {
		return core.WrapGameStateError(e.turn, e.Phase().String(), core.ErrGameOver)
	}

	phase := e.stateMachine.CurrentPhase()
	if !phase.CanReceiveActions() {
		tp.logger.Warn().
			Str("current_phase", phase.String()).
			Int("turn", e.turn).
			Msg("Attempted to act in phase that cannot receive actions")
		return fmt.Errorf("game is in %s phase and cannot receive actions", phase)
	}

	if e.player(player) == nil {
		return core.WrapPlayerError(player, "act", core.ErrInvalidPlayer)
	}
	active := e.players[e.active]
	if e.turnPhase != states.TurnAction || active.ID != player || !active.IsActive() {
		return core.WrapPlayerError(player, "act", core.ErrNotYourTurn)
	}
	return nil
}

// ProcessAction applies a map action for the active player. A rejected action
// leaves the game untouched.
func (tp *TurnProcessor) ProcessAction(ctx context.Context, action core.Action) error {
	e := tp.engine
	if action == nil {
		return core.WrapActionError(nil, core.ErrInvalidMove)
	}
	if err := tp.checkCanAct(ctx, action.GetPlayerID()); err != nil {
		tp.reject(action, err)
		return core.WrapActionError(action, err)
	}

	p := e.players[e.active]
	snapshot := undoEntry{m: e.m.Clone(), treasury: p.Treasury, actions: e.turnActions}

	out, err := e.actionProcessor.Apply(ctx, e.m, action, p.Treasury)
	if err != nil {
		tp.reject(action, err)
		return core.WrapActionError(action, err)
	}

	p.Treasury -= out.Spent
	if out.Combat != nil {
		p.Treasury += out.Combat.Loot
	}
	e.pushUndo(snapshot)
	e.turnActions++

	result := tp.publishOutcome(out)
	e.eventBus.Publish(events.NewActionProcessedEvent(e.gameID, int(p.ID), action, result, e.turn))
	tp.logger.Debug().
		Int("turn", e.turn).
		Int("player_id", int(p.ID)).
		Str("action", action.Describe()).
		Str("result", result).
		Msg("Action applied")

	if out.Combat != nil && out.Combat.PreviousOwner != p.ID {
		e.releaseStranded(out.Combat.PreviousOwner)
	}
	tp.checkEliminations(p.ID)
	return nil
}

func (tp *TurnProcessor) reject(action core.Action, err error) {
	e := tp.engine
	tp.logger.Warn().
		Err(err).
		Int("turn", e.turn).
		Int("player_id", int(action.GetPlayerID())).
		Str("action", action.Describe()).
		Msg("Action rejected")
	e.eventBus.Publish(events.NewActionRejectedEvent(e.gameID, int(action.GetPlayerID()), action, err.Error(), e.turn))
}

// publishOutcome emits the element events of an applied action and names the result
func (tp *TurnProcessor) publishOutcome(out *processor.Outcome) string {
	e := tp.engine
	el := out.Element

	switch {
	case out.Merge != nil:
		e.eventBus.Publish(events.NewTroopsMergedEvent(e.gameID, el.Owner, el.Position, out.Merge.From, out.Merge.Into, e.turn))
		return "merged"

	case out.Combat != nil:
		c := out.Combat
		destroyed := ""
		defender := int(c.PreviousOwner)
		if c.Destroyed != nil {
			destroyed = c.Destroyed.Kind.String()
			defender = int(c.Destroyed.Owner)
		}
		e.eventBus.Publish(events.NewCombatResolvedEvent(e.gameID, int(el.Owner), defender, el.Position,
			el.Kind, c.Strength, c.Shield, true, destroyed, e.turn))
		e.eventBus.Publish(events.NewElementMovedEvent(e.gameID, el, out.From, out.PathCost, e.turn))
		if c.Destroyed != nil {
			d := c.Destroyed
			e.eventBus.Publish(events.NewElementRemovedEvent(e.gameID, d.ID, d.Kind, d.Owner, el.Position, "destroyed", e.turn))
		}
		return "captured"

	case out.Removed != nil:
		r := out.Removed
		e.eventBus.Publish(events.NewElementRemovedEvent(e.gameID, r.ID, r.Kind, r.Owner, out.From, "disbanded", e.turn))
		return "removed"

	case out.Placed:
		e.eventBus.Publish(events.NewElementPlacedEvent(e.gameID, el, out.Spent, e.turn))
		return "placed"

	default:
		e.eventBus.Publish(events.NewElementMovedEvent(e.gameID, el, out.From, out.PathCost, e.turn))
		return "moved"
	}
}

// checkEliminations removes every player who lost their last town, then
// checks whether the game is over
func (tp *TurnProcessor) checkEliminations(by core.PlayerID) bool {
	e := tp.engine
	for _, id := range e.winCondition.Eliminated(e.m, e.rulesPlayers()) {
		e.eliminate(id, by)
	}
	return e.checkGameOver()
}

// EndTurn settles the active player and starts the next live player's turn.
// The settlement completes before anyone else's turn begins.
func (tp *TurnProcessor) EndTurn(ctx context.Context, player core.PlayerID) error {
	e := tp.engine
	if err := tp.checkCanAct(ctx, player); err != nil {
		return err
	}

	p := e.players[e.active]
	e.turnPhase = states.TurnEnd
	e.production.EndTurn(e.m, p, e.turn)
	e.undo = e.undo[:0]

	e.eventBus.Publish(events.NewTurnEndedEvent(e.gameID, e.turn, int(p.ID), e.turnActions, p.Treasury, time.Since(e.turnStart)))
	tp.logger.Debug().
		Int("turn", e.turn).
		Int("player_id", int(p.ID)).
		Int("actions", e.turnActions).
		Msg("Turn ended")

	if tp.checkEliminations(core.NoPlayer) {
		return nil
	}
	if !tp.advance() {
		return nil
	}
	e.turn++
	tp.StartTurn()
	return nil
}

// advance seats the next live player who still holds a town. Passing the end
// of the seating order starts a new round with the bandit phase. It reports
// false when the game ended while looking.
func (tp *TurnProcessor) advance() bool {
	e := tp.engine
	n := len(e.players)
	idx := e.active
	for range 2 * n {
		idx = (idx + 1) % n
		if idx == 0 {
			e.round++
			e.stateMachine.GetContext().Rounds = e.round
			e.bandits.RunPhase(e.m, e.round, e.turn)
		}
		next := e.players[idx]
		if !next.Alive {
			continue
		}
		if !e.winCondition.HasTown(e.m, next.ID) {
			e.eliminate(next.ID, core.NoPlayer)
			if e.checkGameOver() {
				return false
			}
			continue
		}
		e.active = idx
		return true
	}
	tp.logger.Error().Int("turn", e.turn).Msg("No live player found to take the next turn")
	return false
}
