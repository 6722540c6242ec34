package rules

import (
	"slices"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// LegalMoveCalculator lists the moves and placements open to a player
type LegalMoveCalculator struct {
	combat *CombatRule
}

// NewLegalMoveCalculator creates a calculator that judges occupied targets with combat
func NewLegalMoveCalculator(combat *CombatRule) *LegalMoveCalculator {
	return &LegalMoveCalculator{combat: combat}
}

// Destinations returns the cells the troop on from can move to this turn with
// their path cost. Occupied cells are kept only when the troop can merge with
// or defeat the occupant; cells it does not own need the combat rule's consent.
func (lmc *LegalMoveCalculator) Destinations(m *core.Map, from core.Coordinate) (map[core.Coordinate]int, error) {
	mover, ok := m.Occupant(from)
	if !ok {
		return nil, core.ErrNoOccupant
	}
	steps, err := core.Steps(m, from, mover.MovesLeft, nil)
	if err != nil {
		return nil, err
	}
	displace := lmc.combat.Displace(m)
	reach := make(map[core.Coordinate]int, len(steps))
	for at, step := range steps {
		if !m.CanMoveTo(step.Via, at, mover, displace) {
			continue
		}
		cell, _ := m.CellAt(at)
		if !cell.IsOccupied() && !cell.OwnedBy(mover.Owner) && !lmc.combat.Permits(m, mover, at) {
			continue
		}
		reach[at] = step.Cost
	}
	return reach, nil
}

// Moves returns every legal move of player p, ordered by source element id
func (lmc *LegalMoveCalculator) Moves(m *core.Map, p core.PlayerID) []*core.MoveAction {
	var out []*core.MoveAction
	for _, e := range m.ElementsOwnedBy(p) {
		if !e.IsMobile() || e.MovesLeft == 0 {
			continue
		}
		reach, err := lmc.Destinations(m, e.Position)
		if err != nil {
			continue
		}
		for _, to := range sortedCoords(reach) {
			out = append(out, &core.MoveAction{PlayerID: p, From: e.Position, To: to})
		}
	}
	return out
}

// RecruitSpots returns the cells where p could put a new element of kind,
// ignoring cost: owned empty cells, plus owned cells holding a mergeable troop of the same kind.
func (lmc *LegalMoveCalculator) RecruitSpots(m *core.Map, p core.PlayerID, kind core.ElementKind) []core.Coordinate {
	var out []core.Coordinate
	units := &m.Rules().Units
	candidate := &core.Element{Kind: kind, Owner: p}
	for _, at := range m.Territory(p) {
		cell, _ := m.CellAt(at)
		occ, taken := m.Occupant(at)
		switch {
		case !taken && (kind.IsMobile() || cell.IsBuildable()):
			out = append(out, at)
		case taken && kind.IsMobile() && CanMerge(units, candidate, occ):
			out = append(out, at)
		}
	}
	return out
}

func sortedCoords(set map[core.Coordinate]int) []core.Coordinate {
	out := make([]core.Coordinate, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b core.Coordinate) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}
