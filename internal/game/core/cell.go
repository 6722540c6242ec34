package core

import "fmt"

// TerrainKind identifies the terrain of a cell. Terrain never changes after load.
type TerrainKind int

const (
	Water TerrainKind = iota
	Ground
	Forest
	PlayableGround
	terrainKindCount
)

func (k TerrainKind) String() string {
	switch k {
	case Water:
		return "water"
	case Ground:
		return "ground"
	case Forest:
		return "forest"
	case PlayableGround:
		return "playable"
	default:
		return fmt.Sprintf("terrain(%d)", int(k))
	}
}

// Valid reports whether k is a known terrain kind
func (k TerrainKind) Valid() bool { return k >= Water && k < terrainKindCount }

// TerrainProfile is the behaviour of one terrain kind
type TerrainProfile struct {
	Passable  bool
	Buildable bool
	CanHost   bool
	MoveCost  int
	Glyph     byte
}

// TerrainTable maps every terrain kind to its profile
type TerrainTable [terrainKindCount]TerrainProfile

// DefaultTerrain returns the stock terrain rules: forest costs two movement
// points and only playable ground can host or be built on.
func DefaultTerrain() TerrainTable {
	return TerrainTable{
		Water:          {Passable: false, Buildable: false, CanHost: false, MoveCost: 0, Glyph: 'W'},
		Ground:         {Passable: true, Buildable: false, CanHost: false, MoveCost: 1, Glyph: 'G'},
		Forest:         {Passable: true, Buildable: false, CanHost: false, MoveCost: 2, Glyph: 'F'},
		PlayableGround: {Passable: true, Buildable: true, CanHost: true, MoveCost: 1, Glyph: 'P'},
	}
}

// Profile returns the profile for kind
func (t *TerrainTable) Profile(kind TerrainKind) TerrainProfile {
	if !kind.Valid() {
		return TerrainProfile{}
	}
	return t[kind]
}

// Validate checks that the table keeps the terrain invariants intact
func (t *TerrainTable) Validate() error {
	for k := Water; k < terrainKindCount; k++ {
		p := t[k]
		if p.Passable && p.MoveCost < 1 {
			return fmt.Errorf("terrain %s: move cost must be >= 1, got %d", k, p.MoveCost)
		}
		if p.CanHost && k != PlayableGround {
			return fmt.Errorf("terrain %s: only playable ground may host elements", k)
		}
		if k == Forest && p.Buildable {
			return fmt.Errorf("terrain %s: forest is never buildable", k)
		}
	}
	if t[Water].Passable {
		return fmt.Errorf("terrain %s: water must be impassable", Water)
	}
	return nil
}

// Cell is one terrain unit of the map. Playable ground additionally records a
// territory owner and the id of the element standing on it.
type Cell struct {
	kind     TerrainKind
	profile  TerrainProfile
	owner    PlayerID
	occupant ElementID
}

// NewCell builds a cell of the given kind using the rules in table
func NewCell(kind TerrainKind, table *TerrainTable) Cell {
	return Cell{kind: kind, profile: table.Profile(kind), owner: NoPlayer, occupant: NoElement}
}

func (c *Cell) Kind() TerrainKind { return c.kind }
func (c *Cell) IsPassable() bool  { return c.profile.Passable }
func (c *Cell) IsBuildable() bool { return c.profile.Buildable }
func (c *Cell) CanHost() bool     { return c.profile.CanHost }
func (c *Cell) MoveCost() int     { return c.profile.MoveCost }
func (c *Cell) Glyph() byte       { return c.profile.Glyph }
func (c *Cell) Owner() PlayerID   { return c.owner }
func (c *Cell) IsNeutral() bool   { return c.owner == NoPlayer }
func (c *Cell) IsOccupied() bool  { return c.occupant != NoElement }
func (c *Cell) OwnedBy(p PlayerID) bool {
	return c.CanHost() && c.owner == p
}

// Occupant returns the id of the element on the cell
func (c *Cell) Occupant() (ElementID, bool) {
	return c.occupant, c.occupant != NoElement
}

func (c *Cell) setOccupant(id ElementID) { c.occupant = id }
func (c *Cell) clearOccupant()           { c.occupant = NoElement }
func (c *Cell) setOwner(p PlayerID)      { c.owner = p }
