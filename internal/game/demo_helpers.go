package game

import (
	"context"
	"errors"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// recruitable lists the kinds a random player may buy, cheapest first
var recruitable = []core.ElementKind{core.Villager, core.Castle, core.Pikeman}

// GenerateRandomAction picks a random legal action for the active player:
// mostly moves, sometimes a purchase, and an end of turn when nothing is left.
// This is a helper function intended for demos, testing, or simple baseline agents.
func GenerateRandomAction(g *Engine, rng *rand.Rand) core.Action {
	p := g.ActivePlayer()
	if p == nil {
		return nil
	}
	m := g.Map()
	units := &m.Rules().Units

	if rng.Float32() < 0.25 {
		kind := recruitable[rng.Intn(len(recruitable))]
		// keep enough in the treasury to pay next turn's upkeep
		if p.Treasury-units.Profile(kind).Cost >= units.Profile(kind).Upkeep*2 {
			spots := g.legalMoves.RecruitSpots(m, p.ID, kind)
			if len(spots) > 0 {
				return &core.RecruitAction{PlayerID: p.ID, Kind: kind, At: spots[rng.Intn(len(spots))]}
			}
		}
	}

	moves := g.legalMoves.Moves(m, p.ID)
	if len(moves) == 0 {
		return &core.EndTurnAction{PlayerID: p.ID}
	}
	chosen := moves[rng.Intn(len(moves))]
	log.Debug().
		Int("player_id", int(p.ID)).
		Stringer("from", chosen.From).
		Stringer("to", chosen.To).
		Msg("Generated random action")
	return chosen
}

// PlayRandomTurn applies random actions for the active player until the turn
// is over or maxActions were tried, then ends the turn. Rejected actions are
// skipped. It returns the number of actions applied.
func PlayRandomTurn(ctx context.Context, g *Engine, rng *rand.Rand, maxActions int) (int, error) {
	p := g.ActivePlayer()
	if p == nil {
		return 0, core.ErrGameOver
	}
	applied := 0
	for range maxActions {
		action := GenerateRandomAction(g, rng)
		if _, done := action.(*core.EndTurnAction); done || action == nil {
			break
		}
		if err := g.Process(ctx, action); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return applied, err
			}
			continue
		}
		applied++
		if g.IsGameOver() {
			return applied, nil
		}
	}
	return applied, g.EndTurn(ctx, p.ID)
}
