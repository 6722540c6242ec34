package core

import "fmt"

// Coordinate is an offset position on the hex map: X is the column, Y the row.
// Rows use the odd-r layout, so odd rows are shifted half a cell to the right.
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given column and row
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a grid array index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a grid array index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// Axial returns the axial form of the coordinate
func (c Coordinate) Axial() Axial {
	return OffsetToAxial(c)
}

// DistanceTo returns the hex distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	return Distance(c, other)
}

// IsAdjacentTo checks if the two coordinates share a hex edge
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return Distance(c, other) == 1
}

// Neighbors returns the six adjacent coordinates, without bounds clipping.
// The order follows Directions.
func (c Coordinate) Neighbors() []Coordinate {
	out := make([]Coordinate, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, c.Move(d))
	}
	return out
}

// ValidNeighbors returns only the neighbors that are within the given bounds.
// Edge and corner cells get fewer than six; nothing wraps around.
func (c Coordinate) ValidNeighbors(width, height int) []Coordinate {
	valid := make([]Coordinate, 0, len(Directions))
	for _, n := range c.Neighbors() {
		if n.IsValid(width, height) {
			valid = append(valid, n)
		}
	}
	return valid
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the six hex edge directions of a pointy-top hex
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

// Directions lists every direction in counter-clockwise order starting East
var Directions = [...]Direction{East, NorthEast, NorthWest, West, SouthWest, SouthEast}

// DirectionVectors provides axial offsets for each direction
var DirectionVectors = map[Direction]Axial{
	East:      {Q: 1, R: 0},
	NorthEast: {Q: 1, R: -1},
	NorthWest: {Q: 0, R: -1},
	West:      {Q: -1, R: 0},
	SouthWest: {Q: -1, R: 1},
	SouthEast: {Q: 0, R: 1},
}

func (d Direction) String() string {
	switch d {
	case East:
		return "E"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case West:
		return "W"
	case SouthWest:
		return "SW"
	case SouthEast:
		return "SE"
	default:
		return "?"
	}
}

// Move returns a new coordinate moved one step in the given direction
func (c Coordinate) Move(direction Direction) Coordinate {
	if offset, ok := DirectionVectors[direction]; ok {
		return AxialToOffset(c.Axial().Add(offset))
	}
	return c
}

// DirectionTo returns the direction from this coordinate to an adjacent coordinate.
// Returns -1 if the coordinates are not adjacent.
func (c Coordinate) DirectionTo(other Coordinate) Direction {
	delta := other.Axial().Sub(c.Axial())
	for _, d := range Directions {
		if DirectionVectors[d] == delta {
			return d
		}
	}
	return -1
}
