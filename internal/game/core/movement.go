package core

import (
	"container/heap"
	"fmt"
)

// PassFunc decides whether mover may walk through an occupied cell on its way
// somewhere else. Nil means only friendly elements can be walked through.
type PassFunc func(mover, occupant *Element) bool

// Step is one destination of a movement search: the cost of the cheapest path
// and the cell the troop enters the destination from.
type Step struct {
	Cost int
	Via  Coordinate
}

// Steps returns every cell the troop on from can end its move on. Each step
// costs the entered cell's move cost. Paths only cross passable cells and
// never cross a cell held by another owner's element. Occupied destinations
// are included; the caller decides what happens when the troop lands on them.
func Steps(m *Map, from Coordinate, budget int, pass PassFunc) (map[Coordinate]Step, error) {
	mover, ok := m.Occupant(from)
	if !ok {
		return nil, fmt.Errorf("reachable from %s: %w", from, ErrNoOccupant)
	}
	if pass == nil {
		pass = func(a, b *Element) bool { return a.Owner == b.Owner }
	}

	best := map[Coordinate]Step{from: {Cost: 0, Via: from}}
	pq := &costQueue{{at: from, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(costItem)
		if cur.cost > best[cur.at].Cost {
			continue
		}
		if cur.at != from {
			if occ, taken := m.Occupant(cur.at); taken && !pass(mover, occ) {
				// can land here but not pass through
				continue
			}
		}
		for _, n := range m.Neighbors(cur.at) {
			cell, _ := m.CellAt(n)
			if !cell.IsPassable() {
				continue
			}
			next := cur.cost + cell.MoveCost()
			if next > budget {
				continue
			}
			if old, seen := best[n]; seen && old.Cost <= next {
				continue
			}
			best[n] = Step{Cost: next, Via: cur.at}
			heap.Push(pq, costItem{at: n, cost: next})
		}
	}

	delete(best, from)
	for c := range best {
		if cell, _ := m.CellAt(c); !cell.CanHost() {
			delete(best, c)
		}
	}
	return best, nil
}

// Reachable is Steps reduced to the cost of each destination
func Reachable(m *Map, from Coordinate, budget int, pass PassFunc) (map[Coordinate]int, error) {
	steps, err := Steps(m, from, budget, pass)
	if err != nil {
		return nil, err
	}
	out := make(map[Coordinate]int, len(steps))
	for c, s := range steps {
		out[c] = s.Cost
	}
	return out, nil
}

type costItem struct {
	at   Coordinate
	cost int
}

type costQueue []costItem

func (q costQueue) Len() int { return len(q) }
func (q costQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].at.ToIndex(1<<16) < q[j].at.ToIndex(1<<16)
}
func (q costQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *costQueue) Push(x any)   { *q = append(*q, x.(costItem)) }
func (q *costQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
