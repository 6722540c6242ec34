package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// DefaultCombatRule lets a troop take a cell when it is stronger than the cell's defence
const DefaultCombatRule = "Attacker.Strength > Shield"

// Combatant is one side of an engagement as seen by a combat expression
type Combatant struct {
	Kind     string
	Strength int
	Owner    int
}

// CombatEnv is the environment combat expressions are compiled against.
// Defender is the zero value when the target cell is empty.
type CombatEnv struct {
	Attacker Combatant
	Defender Combatant
	Shield   int
	Occupied bool
	Neutral  bool
}

// CombatRule decides whether a troop may enter a cell it does not own
type CombatRule struct {
	src     string
	program *vm.Program
	units   *core.UnitTable
	logger  zerolog.Logger
}

// NewCombatRule compiles src into a boolean combat rule. An empty source
// selects DefaultCombatRule.
func NewCombatRule(src string, units *core.UnitTable, logger zerolog.Logger) (*CombatRule, error) {
	if src == "" {
		src = DefaultCombatRule
	}
	prog, err := expr.Compile(src, expr.Env(CombatEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile combat rule %q: %w", src, err)
	}
	return &CombatRule{
		src:     src,
		program: prog,
		units:   units,
		logger:  logger.With().Str("component", "CombatRule").Logger(),
	}, nil
}

// Source returns the expression the rule was compiled from
func (cr *CombatRule) Source() string { return cr.src }

// Env builds the environment for attacker moving onto target
func (cr *CombatRule) Env(m *core.Map, attacker *core.Element, target core.Coordinate) CombatEnv {
	env := CombatEnv{
		Attacker: cr.combatant(attacker),
		Shield:   m.Shield(target, attacker.Owner),
	}
	if cell, err := m.CellAt(target); err == nil {
		env.Neutral = cell.IsNeutral()
	}
	if occ, ok := m.Occupant(target); ok {
		env.Occupied = true
		env.Defender = cr.combatant(occ)
		// a stranded element defends itself even on land it does not own
		env.Shield = max(env.Shield, env.Defender.Strength)
	}
	return env
}

func (cr *CombatRule) combatant(e *core.Element) Combatant {
	return Combatant{
		Kind:     e.Kind.String(),
		Strength: cr.units.Profile(e.Kind).Strength,
		Owner:    int(e.Owner),
	}
}

// Evaluate runs the compiled expression against env
func (cr *CombatRule) Evaluate(env CombatEnv) (bool, error) {
	out, err := vm.Run(cr.program, env)
	if err != nil {
		return false, fmt.Errorf("combat rule %q: %w", cr.src, err)
	}
	won, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("combat rule %q returned %T", cr.src, out)
	}
	return won, nil
}

// Permits reports whether attacker may take target. Evaluation errors count as a refusal.
func (cr *CombatRule) Permits(m *core.Map, attacker *core.Element, target core.Coordinate) bool {
	env := cr.Env(m, attacker, target)
	won, err := cr.Evaluate(env)
	if err != nil {
		cr.logger.Error().Err(err).Stringer("target", target).Msg("Combat rule failed")
		return false
	}
	return won
}

// Displace adapts the rule to the map's occupancy check. Friendly troops of the
// same mergeable kind may be entered; hostile elements need the rule's consent.
func (cr *CombatRule) Displace(m *core.Map) core.DisplaceFunc {
	return func(mover, occupant *core.Element, target core.Coordinate) bool {
		if mover.Owner == occupant.Owner {
			return CanMerge(cr.units, mover, occupant)
		}
		return cr.Permits(m, mover, target)
	}
}

// CanMerge reports whether mover may join occupant
func CanMerge(units *core.UnitTable, mover, occupant *core.Element) bool {
	if mover.Owner != occupant.Owner || mover.Kind != occupant.Kind || !mover.IsMobile() {
		return false
	}
	return units.Profile(mover.Kind).MergesInto != core.NoKind
}
