package core

import (
	"fmt"
	"slices"
	"strings"
)

// PlayerID identifies a player. NoPlayer marks neutral land and bandit elements.
type PlayerID int

const NoPlayer PlayerID = -1

// ElementID identifies a game element inside an ElementTable. Zero is never assigned.
type ElementID int

const NoElement ElementID = 0

// ElementKind is the tag of a game element variant
type ElementKind int

const (
	Town ElementKind = iota
	Castle
	Camp
	Villager
	Pikeman
	Knight
	Hero
	Bandit
	elementKindCount
)

// NoKind is used where a kind is optional, e.g. a troop that cannot merge further
const NoKind ElementKind = -1

var elementKindNames = [...]string{
	Town:     "town",
	Castle:   "castle",
	Camp:     "camp",
	Villager: "villager",
	Pikeman:  "pikeman",
	Knight:   "knight",
	Hero:     "hero",
	Bandit:   "bandit",
}

func (k ElementKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("element(%d)", int(k))
	}
	return elementKindNames[k]
}

// Valid reports whether k is a known element kind
func (k ElementKind) Valid() bool { return k >= Town && k < elementKindCount }

// IsMobile reports whether elements of this kind are troops
func (k ElementKind) IsMobile() bool { return k >= Villager && k < elementKindCount }

// ElementKinds returns every element kind in declaration order
func ElementKinds() []ElementKind {
	out := make([]ElementKind, 0, elementKindCount)
	for k := Town; k < elementKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseElementKind resolves a kind from its lowercase name
func ParseElementKind(s string) (ElementKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range elementKindNames {
		if n == name {
			return ElementKind(k), nil
		}
	}
	return NoKind, fmt.Errorf("%q: %w", s, ErrUnknownElement)
}

// UnitProfile holds the per-kind numbers. Kinds differ only in data.
type UnitProfile struct {
	Strength   int
	Cost       int
	Upkeep     int
	MoveRange  int
	Income     int
	MergesInto ElementKind
}

// UnitTable maps every element kind to its profile
type UnitTable [elementKindCount]UnitProfile

// DefaultUnits returns the stock unit roster
func DefaultUnits() UnitTable {
	return UnitTable{
		Town:     {Strength: 1, Income: 2, MergesInto: NoKind},
		Castle:   {Strength: 2, Cost: 15, MergesInto: NoKind},
		Camp:     {Strength: 1, Upkeep: 1, MergesInto: NoKind},
		Villager: {Strength: 1, Cost: 10, Upkeep: 2, MoveRange: 2, MergesInto: Pikeman},
		Pikeman:  {Strength: 2, Cost: 20, Upkeep: 6, MoveRange: 2, MergesInto: Knight},
		Knight:   {Strength: 3, Cost: 40, Upkeep: 18, MoveRange: 3, MergesInto: Hero},
		Hero:     {Strength: 4, Cost: 80, Upkeep: 54, MoveRange: 3, MergesInto: NoKind},
		Bandit:   {Strength: 0, Upkeep: 1, MoveRange: 1, MergesInto: NoKind},
	}
}

// Profile returns the profile for kind, or the zero profile for unknown kinds
func (t *UnitTable) Profile(kind ElementKind) UnitProfile {
	if !kind.Valid() {
		return UnitProfile{MergesInto: NoKind}
	}
	return t[kind]
}

// Validate checks the table for values the engine cannot work with
func (t *UnitTable) Validate() error {
	for _, k := range ElementKinds() {
		p := t[k]
		if p.Strength < 0 || p.Cost < 0 || p.Upkeep < 0 || p.MoveRange < 0 || p.Income < 0 {
			return fmt.Errorf("unit %s: negative stat in %+v", k, p)
		}
		if k.IsMobile() && k != Bandit && p.MoveRange == 0 {
			return fmt.Errorf("unit %s: troops need a move range", k)
		}
		if p.MergesInto != NoKind && (!p.MergesInto.IsMobile() || p.MergesInto == k) {
			return fmt.Errorf("unit %s: cannot merge into %s", k, p.MergesInto)
		}
	}
	return nil
}

// Element is a settlement or troop standing on exactly one playable cell.
// The owning cell stores ID; the element stores Position.
type Element struct {
	ID        ElementID
	Kind      ElementKind
	Owner     PlayerID
	Position  Coordinate
	MovesLeft int
	// Treasury holds coins stored on a camp by bandit tribute, or on a town
	// until the engine credits them to its owner
	Treasury int
}

// NewElement creates an unplaced element. It receives an ID when placed on a Map.
func NewElement(kind ElementKind, owner PlayerID) *Element {
	return &Element{Kind: kind, Owner: owner}
}

func (e *Element) IsMobile() bool     { return e.Kind.IsMobile() }
func (e *Element) IsStationary() bool { return !e.Kind.IsMobile() }

// ResetMoves restores the full movement allowance for the element's kind
func (e *Element) ResetMoves(units *UnitTable) {
	if !e.IsMobile() {
		e.MovesLeft = 0
		return
	}
	e.MovesLeft = units.Profile(e.Kind).MoveRange
}

// Produce is the per-turn production hook of stationary elements. It returns
// the coins the element yields for its owner this turn.
func (e *Element) Produce(units *UnitTable) int {
	if e.IsMobile() || e.Owner == NoPlayer {
		return 0
	}
	return units.Profile(e.Kind).Income
}

func (e *Element) String() string {
	return fmt.Sprintf("%s#%d(p%d@%s)", e.Kind, e.ID, e.Owner, e.Position)
}

// ElementTable is the sole owner of game elements. Cells refer to elements by id.
type ElementTable struct {
	items  map[ElementID]*Element
	nextID ElementID
}

// NewElementTable creates an empty table
func NewElementTable() *ElementTable {
	return &ElementTable{items: make(map[ElementID]*Element), nextID: 1}
}

func (t *ElementTable) add(e *Element) ElementID {
	e.ID = t.nextID
	t.nextID++
	t.items[e.ID] = e
	return e.ID
}

func (t *ElementTable) delete(id ElementID) {
	delete(t.items, id)
}

// Get returns the element with the given id
func (t *ElementTable) Get(id ElementID) (*Element, bool) {
	e, ok := t.items[id]
	return e, ok
}

// Len returns the number of live elements
func (t *ElementTable) Len() int { return len(t.items) }

// All returns every element ordered by id
func (t *ElementTable) All() []*Element {
	out := make([]*Element, 0, len(t.items))
	for _, e := range t.items {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *Element) int { return int(a.ID - b.ID) })
	return out
}

// OwnedBy returns the elements owned by p ordered by id
func (t *ElementTable) OwnedBy(p PlayerID) []*Element {
	var out []*Element
	for _, e := range t.All() {
		if e.Owner == p {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of the table
func (t *ElementTable) Clone() *ElementTable {
	cp := &ElementTable{items: make(map[ElementID]*Element, len(t.items)), nextID: t.nextID}
	for id, e := range t.items {
		dup := *e
		cp.items[id] = &dup
	}
	return cp
}
