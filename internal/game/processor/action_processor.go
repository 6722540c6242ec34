package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/rules"
)

// Merge records two troops becoming one stronger troop
type Merge struct {
	From core.ElementKind
	Into core.ElementKind
}

// Combat records a troop taking a cell it did not own
type Combat struct {
	PreviousOwner core.PlayerID
	Strength      int
	Shield        int
	// Destroyed is the element that stood on the cell. It is off the map but
	// keeps the id it had there.
	Destroyed *core.Element
	Loot      int
}

// Outcome describes what an applied action changed
type Outcome struct {
	Action   core.Action
	Element  *core.Element
	From     core.Coordinate
	PathCost int
	Spent    int
	Placed   bool
	Merge    *Merge
	Combat   *Combat
	Removed  *core.Element
}

// ActionProcessor applies a single player action to the map
type ActionProcessor struct {
	logger zerolog.Logger
	combat *rules.CombatRule
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger, combat *rules.CombatRule) *ActionProcessor {
	return &ActionProcessor{
		logger: logger.With().Str("component", "ActionProcessor").Logger(),
		combat: combat,
	}
}

// Apply validates action and performs it. funds is what the acting player can
// spend. When an error is returned the map is unchanged.
func (ap *ActionProcessor) Apply(ctx context.Context, m *core.Map, action core.Action, funds int) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		ap.logger.Warn().Err(err).Msg("Action processing interrupted by context cancellation")
		return nil, err
	}

	ap.logger.Debug().
		Int("player_id", int(action.GetPlayerID())).
		Str("action", action.Describe()).
		Msg("Applying action")

	switch act := action.(type) {
	case *core.MoveAction:
		return ap.applyMove(m, act)
	case *core.RecruitAction:
		return ap.applyRecruit(m, act, funds)
	case *core.RemoveAction:
		return ap.applyRemove(m, act)
	default:
		ap.logger.Warn().Str("action_type", core.GetActionType(action)).Msg("Unhandled action type")
		return nil, fmt.Errorf("%s is not a map action: %w", core.GetActionType(action), core.ErrInvalidMove)
	}
}

func (ap *ActionProcessor) applyMove(m *core.Map, a *core.MoveAction) (*Outcome, error) {
	if err := a.Validate(m); err != nil {
		return nil, err
	}
	units := &m.Rules().Units
	mover, _ := m.Occupant(a.From)
	if mover.MovesLeft == 0 {
		return nil, fmt.Errorf("%s has no moves left: %w", mover, core.ErrInvalidMove)
	}

	steps, err := core.Steps(m, a.From, mover.MovesLeft, nil)
	if err != nil {
		return nil, err
	}
	step, ok := steps[a.To]
	if !ok {
		return nil, fmt.Errorf("%s is out of reach of %s: %w", a.To, mover, core.ErrInvalidMove)
	}
	if !m.CanMoveTo(step.Via, a.To, mover, ap.combat.Displace(m)) {
		return nil, ap.refusal(m, mover, a.To)
	}

	out := &Outcome{Action: a, Element: mover, From: a.From, PathCost: step.Cost}
	cell, _ := m.CellAt(a.To)
	occ, taken := m.Occupant(a.To)

	switch {
	case taken && occ.Owner == mover.Owner:
		left := min(mover.MovesLeft-step.Cost, occ.MovesLeft)
		from := occ.Kind
		if _, err := m.RemoveElement(a.From); err != nil {
			return nil, err
		}
		merged, err := m.Transform(a.To, units.Profile(from).MergesInto, occ.Owner)
		if err != nil {
			return nil, err
		}
		merged.MovesLeft = min(left, units.Profile(merged.Kind).MoveRange)
		out.Element = merged
		out.Merge = &Merge{From: from, Into: merged.Kind}

	case !taken && cell.OwnedBy(mover.Owner):
		if err := m.Relocate(a.From, a.To); err != nil {
			return nil, err
		}
		mover.MovesLeft -= step.Cost

	default:
		env := ap.combat.Env(m, mover, a.To)
		if !taken {
			// an occupant was already weighed by CanMoveTo, empty land was not
			won, err := ap.combat.Evaluate(env)
			if err != nil {
				return nil, err
			}
			if !won {
				return nil, ap.refusal(m, mover, a.To)
			}
		}

		combat := &Combat{PreviousOwner: cell.Owner(), Strength: env.Attacker.Strength, Shield: env.Shield}
		if taken {
			id := occ.ID
			destroyed, err := m.RemoveElement(a.To)
			if err != nil {
				return nil, err
			}
			destroyed.ID = id
			combat.Destroyed = destroyed
			if destroyed.Kind == core.Town || destroyed.Kind == core.Camp {
				combat.Loot = destroyed.Treasury
			}
		}
		if err := m.Relocate(a.From, a.To); err != nil {
			return nil, err
		}
		if err := m.ClaimCell(a.To, mover.Owner); err != nil {
			return nil, err
		}
		// taking a cell ends the troop's move
		mover.MovesLeft = 0
		out.Combat = combat
	}
	return out, nil
}

// refusal explains why mover may not enter to
func (ap *ActionProcessor) refusal(m *core.Map, mover *core.Element, to core.Coordinate) error {
	if occ, taken := m.Occupant(to); taken && occ.Owner == mover.Owner {
		return fmt.Errorf("%s cannot join %s: %w", mover.Kind, occ.Kind, core.ErrInvalidMove)
	}
	env := ap.combat.Env(m, mover, to)
	return fmt.Errorf("%s strength %d cannot take %s with shield %d: %w",
		mover.Kind, env.Attacker.Strength, to, env.Shield, core.ErrInvalidMove)
}

func (ap *ActionProcessor) applyRecruit(m *core.Map, a *core.RecruitAction, funds int) (*Outcome, error) {
	if err := a.Validate(m); err != nil {
		return nil, err
	}
	units := &m.Rules().Units
	cost := units.Profile(a.Kind).Cost
	if funds < cost {
		return nil, fmt.Errorf("%s costs %d, treasury holds %d: %w", a.Kind, cost, funds, core.ErrInsufficientFunds)
	}
	cell, _ := m.CellAt(a.At)
	if !cell.OwnedBy(a.PlayerID) {
		return nil, fmt.Errorf("%s is outside the territory of player %d: %w", a.At, a.PlayerID, core.ErrIllegalPlacement)
	}

	out := &Outcome{Action: a, From: a.At, Spent: cost}
	if occ, taken := m.Occupant(a.At); taken {
		candidate := core.NewElement(a.Kind, a.PlayerID)
		if !rules.CanMerge(units, candidate, occ) {
			return nil, fmt.Errorf("%s at %s is occupied: %w", a.Kind, a.At, core.ErrIllegalPlacement)
		}
		from := occ.Kind
		merged, err := m.Transform(a.At, units.Profile(from).MergesInto, a.PlayerID)
		if err != nil {
			return nil, err
		}
		out.Element = merged
		out.Merge = &Merge{From: from, Into: merged.Kind}
		return out, nil
	}

	e := core.NewElement(a.Kind, a.PlayerID)
	if err := m.PlaceElement(e, a.At); err != nil {
		return nil, err
	}
	e.ResetMoves(units)
	out.Element = e
	out.Placed = true
	return out, nil
}

func (ap *ActionProcessor) applyRemove(m *core.Map, a *core.RemoveAction) (*Outcome, error) {
	if err := a.Validate(m); err != nil {
		return nil, err
	}
	occ, _ := m.Occupant(a.At)
	id := occ.ID
	removed, err := m.RemoveElement(a.At)
	if err != nil {
		return nil, err
	}
	removed.ID = id
	return &Outcome{Action: a, Element: removed, From: a.At, Removed: removed}, nil
}
