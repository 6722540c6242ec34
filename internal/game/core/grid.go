package core

import (
	"fmt"
	"iter"
)

// Grid is a fixed-size hex arrangement of values of type T, stored row-major.
type Grid[T any] struct {
	w, h  int
	cells []T
}

// NewGrid creates a width x height grid, filling each cell with fill(c) when fill is non-nil
func NewGrid[T any](width, height int, fill func(Coordinate) T) (*Grid[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, ErrInvalidMap)
	}
	g := &Grid[T]{w: width, h: height, cells: make([]T, width*height)}
	if fill != nil {
		for i := range g.cells {
			g.cells[i] = fill(FromIndex(i, width))
		}
	}
	return g, nil
}

func (g *Grid[T]) Width() int  { return g.w }
func (g *Grid[T]) Height() int { return g.h }
func (g *Grid[T]) Len() int    { return len(g.cells) }

// InBounds reports whether c lies in [0,width) x [0,height)
func (g *Grid[T]) InBounds(c Coordinate) bool {
	return c.IsValid(g.w, g.h)
}

// At returns the value stored at c
func (g *Grid[T]) At(c Coordinate) (T, error) {
	if !g.InBounds(c) {
		var zero T
		return zero, fmt.Errorf("at %s: %w", c, ErrOutOfBounds)
	}
	return g.cells[c.ToIndex(g.w)], nil
}

// Ptr returns a pointer to the value stored at c for in-place updates
func (g *Grid[T]) Ptr(c Coordinate) (*T, error) {
	if !g.InBounds(c) {
		return nil, fmt.Errorf("at %s: %w", c, ErrOutOfBounds)
	}
	return &g.cells[c.ToIndex(g.w)], nil
}

// Set stores v at c
func (g *Grid[T]) Set(c Coordinate, v T) error {
	p, err := g.Ptr(c)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// All yields every (coordinate, value) pair in row-major order.
// The sequence can be ranged over any number of times.
func (g *Grid[T]) All() iter.Seq2[Coordinate, T] {
	return func(yield func(Coordinate, T) bool) {
		for i, v := range g.cells {
			if !yield(FromIndex(i, g.w), v) {
				return
			}
		}
	}
}

// ForEach calls fn for each cell in row-major order until fn returns false
func (g *Grid[T]) ForEach(fn func(Coordinate, T) bool) {
	for c, v := range g.All() {
		if !fn(c, v) {
			return
		}
	}
}

// Neighbors returns the in-bounds neighbors of c. Values are not looked up.
func (g *Grid[T]) Neighbors(c Coordinate) []Coordinate {
	return c.ValidNeighbors(g.w, g.h)
}

// Clone returns a shallow copy of the grid; values are copied with assignment
func (g *Grid[T]) Clone() *Grid[T] {
	cp := &Grid[T]{w: g.w, h: g.h, cells: make([]T, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}
