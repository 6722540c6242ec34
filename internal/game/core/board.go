package core

import (
	"fmt"
	"iter"
)

// Rulebook is the configurable data the map consults: terrain behaviour and unit stats
type Rulebook struct {
	Terrain TerrainTable
	Units   UnitTable
}

// DefaultRulebook returns the stock terrain and unit tables
func DefaultRulebook() *Rulebook {
	return &Rulebook{Terrain: DefaultTerrain(), Units: DefaultUnits()}
}

// Validate checks both tables
func (r *Rulebook) Validate() error {
	if err := r.Terrain.Validate(); err != nil {
		return err
	}
	return r.Units.Validate()
}

// DisplaceFunc decides whether mover may push out the occupant standing on target
type DisplaceFunc func(mover, occupant *Element, target Coordinate) bool

// Map is the game board: a grid of cells plus the table of elements standing on them.
// Dimensions are fixed once built. All occupancy changes go through Map so the
// cell occupant and element position never disagree.
type Map struct {
	grid     *Grid[Cell]
	elements *ElementTable
	rules    *Rulebook
}

// NewMap builds a map whose terrain is given by terrainAt
func NewMap(width, height int, rules *Rulebook, terrainAt func(Coordinate) TerrainKind) (*Map, error) {
	if rules == nil {
		rules = DefaultRulebook()
	}
	var bad error
	grid, err := NewGrid(width, height, func(c Coordinate) Cell {
		kind := terrainAt(c)
		if !kind.Valid() && bad == nil {
			bad = fmt.Errorf("cell %s has %s: %w", c, kind, ErrInvalidMap)
		}
		return NewCell(kind, &rules.Terrain)
	})
	if err != nil {
		return nil, err
	}
	if bad != nil {
		return nil, bad
	}
	return &Map{grid: grid, elements: NewElementTable(), rules: rules}, nil
}

// NewUniformMap builds a map where every cell has the same terrain
func NewUniformMap(width, height int, kind TerrainKind, rules *Rulebook) (*Map, error) {
	return NewMap(width, height, rules, func(Coordinate) TerrainKind { return kind })
}

func (m *Map) Width() int  { return m.grid.Width() }
func (m *Map) Height() int { return m.grid.Height() }

// Rules returns the rulebook the map was built with
func (m *Map) Rules() *Rulebook { return m.rules }

// InBounds reports whether c is a cell of the map
func (m *Map) InBounds(c Coordinate) bool { return m.grid.InBounds(c) }

// CellAt returns the cell at c for reading
func (m *Map) CellAt(c Coordinate) (*Cell, error) {
	return m.grid.Ptr(c)
}

// Neighbors returns the in-bounds neighbors of c
func (m *Map) Neighbors(c Coordinate) []Coordinate {
	return m.grid.Neighbors(c)
}

// All yields every (coordinate, cell) pair in row-major order
func (m *Map) All() iter.Seq2[Coordinate, *Cell] {
	return func(yield func(Coordinate, *Cell) bool) {
		for c := range m.grid.All() {
			p, _ := m.grid.Ptr(c)
			if !yield(c, p) {
				return
			}
		}
	}
}

// ForEach visits every cell in row-major order until fn returns false
func (m *Map) ForEach(fn func(Coordinate, *Cell) bool) {
	for c, cell := range m.All() {
		if !fn(c, cell) {
			return
		}
	}
}

// Refresh is kept for renderers that poll the map. The map has no cached state.
func (m *Map) Refresh() {}

// Element returns the element with the given id
func (m *Map) Element(id ElementID) (*Element, bool) {
	return m.elements.Get(id)
}

// Elements returns every element on the map ordered by id
func (m *Map) Elements() []*Element { return m.elements.All() }

// ElementsOwnedBy returns the elements of one player ordered by id
func (m *Map) ElementsOwnedBy(p PlayerID) []*Element { return m.elements.OwnedBy(p) }

// Occupant returns the element standing on c, if any
func (m *Map) Occupant(c Coordinate) (*Element, bool) {
	cell, err := m.CellAt(c)
	if err != nil {
		return nil, false
	}
	id, ok := cell.Occupant()
	if !ok {
		return nil, false
	}
	return m.elements.Get(id)
}

// PlaceElement puts a new element on c. The cell must be playable ground, empty,
// and buildable when the element is stationary. On success both the cell and the
// element reflect the placement.
func (m *Map) PlaceElement(e *Element, c Coordinate) error {
	if e == nil || !e.Kind.Valid() {
		return fmt.Errorf("place at %s: %w", c, ErrUnknownElement)
	}
	cell, err := m.CellAt(c)
	if err != nil {
		return err
	}
	if e.ID != NoElement {
		return fmt.Errorf("place %s at %s: already on the map: %w", e, c, ErrIllegalPlacement)
	}
	if !cell.CanHost() {
		return fmt.Errorf("place %s at %s: %s cannot host elements: %w", e.Kind, c, cell.Kind(), ErrIllegalPlacement)
	}
	if e.IsStationary() && !cell.IsBuildable() {
		return fmt.Errorf("place %s at %s: not buildable: %w", e.Kind, c, ErrIllegalPlacement)
	}
	if cell.IsOccupied() {
		return fmt.Errorf("place %s at %s: occupied: %w", e.Kind, c, ErrIllegalPlacement)
	}

	id := m.elements.add(e)
	e.Position = c
	cell.setOccupant(id)
	return nil
}

// RemoveElement takes the occupant off c and drops it from the element table
func (m *Map) RemoveElement(c Coordinate) (*Element, error) {
	cell, err := m.CellAt(c)
	if err != nil {
		return nil, err
	}
	id, ok := cell.Occupant()
	if !ok {
		return nil, fmt.Errorf("remove at %s: %w", c, ErrNoOccupant)
	}
	e, _ := m.elements.Get(id)
	cell.clearOccupant()
	m.elements.delete(id)
	if e != nil {
		e.ID = NoElement
	}
	return e, nil
}

// Relocate moves the occupant of from onto the empty playable cell to
func (m *Map) Relocate(from, to Coordinate) error {
	src, err := m.CellAt(from)
	if err != nil {
		return err
	}
	dst, err := m.CellAt(to)
	if err != nil {
		return err
	}
	id, ok := src.Occupant()
	if !ok {
		return fmt.Errorf("relocate from %s: %w", from, ErrNoOccupant)
	}
	if !dst.CanHost() || dst.IsOccupied() {
		return fmt.Errorf("relocate to %s: %w", to, ErrIllegalPlacement)
	}
	e, _ := m.elements.Get(id)
	src.clearOccupant()
	dst.setOccupant(id)
	e.Position = to
	return nil
}

// Transform replaces the kind of the element on c, keeping id and position
func (m *Map) Transform(c Coordinate, kind ElementKind, owner PlayerID) (*Element, error) {
	e, ok := m.Occupant(c)
	if !ok {
		return nil, fmt.Errorf("transform at %s: %w", c, ErrNoOccupant)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("transform at %s: %w", c, ErrUnknownElement)
	}
	e.Kind = kind
	e.Owner = owner
	if e.MovesLeft > m.rules.Units.Profile(kind).MoveRange {
		e.MovesLeft = m.rules.Units.Profile(kind).MoveRange
	}
	return e, nil
}

// ClaimCell sets the territory owner of a playable cell
func (m *Map) ClaimCell(c Coordinate, owner PlayerID) error {
	cell, err := m.CellAt(c)
	if err != nil {
		return err
	}
	if !cell.CanHost() {
		return fmt.Errorf("claim %s: %s: %w", c, cell.Kind(), ErrIllegalPlacement)
	}
	cell.setOwner(owner)
	return nil
}

// Territory returns the cells owned by p in row-major order
func (m *Map) Territory(p PlayerID) []Coordinate {
	var out []Coordinate
	for c, cell := range m.All() {
		if cell.CanHost() && cell.Owner() == p {
			out = append(out, c)
		}
	}
	return out
}

// Linked returns the cells of p connected to one of p's towns through land p owns
func (m *Map) Linked(p PlayerID) map[Coordinate]bool {
	linked := make(map[Coordinate]bool)
	if p == NoPlayer {
		return linked
	}
	var queue []Coordinate
	for _, e := range m.ElementsOwnedBy(p) {
		if e.Kind == Town && !linked[e.Position] {
			linked[e.Position] = true
			queue = append(queue, e.Position)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range m.Neighbors(c) {
			if linked[n] {
				continue
			}
			if cell, err := m.CellAt(n); err == nil && cell.CanHost() && cell.Owner() == p {
				linked[n] = true
				queue = append(queue, n)
			}
		}
	}
	return linked
}

// CanMoveTo reports whether mover may step from one cell onto the adjacent cell to.
// An occupied target is only allowed when displace permits it.
func (m *Map) CanMoveTo(from, to Coordinate, mover *Element, displace DisplaceFunc) bool {
	if !m.InBounds(from) || !m.InBounds(to) || !from.IsAdjacentTo(to) {
		return false
	}
	dst, _ := m.CellAt(to)
	if !dst.IsPassable() {
		return false
	}
	if mover != nil && mover.IsMobile() && !dst.CanHost() {
		return false
	}
	occupant, ok := m.Occupant(to)
	if !ok {
		return true
	}
	if displace == nil || mover == nil {
		return false
	}
	return displace(mover, occupant, to)
}

// Shield is the defence of c against attacker: the strongest element of the
// defending side standing on c or next to it. The defending side is the cell's
// owner, or the occupant's owner when attacker already holds the land. The
// attacker's own elements never count.
func (m *Map) Shield(c Coordinate, attacker PlayerID) int {
	cell, err := m.CellAt(c)
	if err != nil || !cell.CanHost() {
		return 0
	}
	defender := cell.Owner()
	if defender == attacker {
		occ, ok := m.Occupant(c)
		if !ok || occ.Owner == attacker {
			return 0
		}
		defender = occ.Owner
	}
	best := 0
	for _, at := range append([]Coordinate{c}, m.Neighbors(c)...) {
		e, ok := m.Occupant(at)
		if !ok || e.Owner != defender {
			continue
		}
		if defender != NoPlayer && at != c {
			if n, _ := m.CellAt(at); n.Owner() != defender {
				continue
			}
		}
		best = max(best, m.rules.Units.Profile(e.Kind).Strength)
	}
	return best
}

// CheckConsistency verifies that every occupied cell points at an element
// positioned on it and every element sits on a cell that points back at it.
func (m *Map) CheckConsistency() error {
	seen := 0
	for c, cell := range m.All() {
		id, ok := cell.Occupant()
		if !ok {
			continue
		}
		if !cell.CanHost() {
			return fmt.Errorf("cell %s (%s) has occupant %d", c, cell.Kind(), id)
		}
		e, found := m.elements.Get(id)
		if !found {
			return fmt.Errorf("cell %s points at missing element %d", c, id)
		}
		if e.Position != c {
			return fmt.Errorf("cell %s holds %s", c, e)
		}
		seen++
	}
	if seen != m.elements.Len() {
		return fmt.Errorf("%d elements on cells, %d in table", seen, m.elements.Len())
	}
	return nil
}

// Clone returns an independent copy of the map for snapshots
func (m *Map) Clone() *Map {
	return &Map{grid: m.grid.Clone(), elements: m.elements.Clone(), rules: m.rules}
}
