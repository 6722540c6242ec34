package game

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
)

// BanditReport summarises one bandit phase
type BanditReport struct {
	Bandits int
	Moved   int
	Tribute int
	Spawned bool
}

// BanditManager moves the neutral bandits once per round and collects their
// tribute into camps
type BanditManager struct {
	eventBus *events.EventBus
	gameID   string
	rng      *rand.Rand
	tribute  int
	wander   bool
	logger   zerolog.Logger
}

// NewBanditManager creates a bandit manager. tribute is what each bandit pays
// its nearest camp per round.
func NewBanditManager(eventBus *events.EventBus, gameID string, rng *rand.Rand, tribute int, wander bool, logger zerolog.Logger) *BanditManager {
	return &BanditManager{
		eventBus: eventBus,
		gameID:   gameID,
		rng:      rng,
		tribute:  tribute,
		wander:   wander,
		logger:   logger.With().Str("component", "BanditManager").Logger(),
	}
}

// RunPhase lets every bandit wander to a random free neighbour, spawns a camp
// when bandits roam without one, then pays tribute.
func (bm *BanditManager) RunPhase(m *core.Map, round, turn int) BanditReport {
	bandits := elementsOfKind(m, core.Bandit)
	report := BanditReport{Bandits: len(bandits)}
	if len(bandits) == 0 {
		return report
	}

	if bm.wander {
		for _, b := range bandits {
			free := freeNeighbors(m, b.Position, false)
			if len(free) == 0 {
				continue
			}
			to := free[bm.rng.Intn(len(free))]
			if err := m.Relocate(b.Position, to); err != nil {
				bm.logger.Error().Err(err).Stringer("bandit", b).Msg("Bandit move failed")
				continue
			}
			report.Moved++
		}
	}

	camps := elementsOfKind(m, core.Camp)
	if len(camps) == 0 {
		if camp := bm.spawnCamp(m, bandits); camp != nil {
			camps = append(camps, camp)
			report.Spawned = true
		}
	}

	if len(camps) > 0 {
		for _, b := range bandits {
			nearestCamp(camps, b.Position).Treasury += bm.tribute
			report.Tribute += bm.tribute
		}
	}

	bm.logger.Debug().
		Int("round", round).
		Int("bandits", report.Bandits).
		Int("moved", report.Moved).
		Int("tribute", report.Tribute).
		Bool("camp_spawned", report.Spawned).
		Msg("Bandit phase complete")

	if bm.eventBus != nil {
		bm.eventBus.Publish(events.NewBanditPhaseEvent(bm.gameID, round, report.Moved, report.Tribute, report.Spawned, turn))
	}
	return report
}

// spawnCamp builds a neutral camp next to the first bandit with room for one
func (bm *BanditManager) spawnCamp(m *core.Map, bandits []*core.Element) *core.Element {
	for _, b := range bandits {
		free := freeNeighbors(m, b.Position, true)
		if len(free) == 0 {
			continue
		}
		camp := core.NewElement(core.Camp, core.NoPlayer)
		if err := m.PlaceElement(camp, free[0]); err != nil {
			bm.logger.Error().Err(err).Stringer("at", free[0]).Msg("Camp placement failed")
			continue
		}
		bm.logger.Info().Stringer("at", camp.Position).Msg("Bandits founded a camp")
		return camp
	}
	return nil
}

func elementsOfKind(m *core.Map, kind core.ElementKind) []*core.Element {
	var out []*core.Element
	for _, e := range m.Elements() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// freeNeighbors returns the empty hostable neighbours of c in direction order
func freeNeighbors(m *core.Map, c core.Coordinate, buildable bool) []core.Coordinate {
	var out []core.Coordinate
	for _, n := range m.Neighbors(c) {
		cell, err := m.CellAt(n)
		if err != nil || !cell.CanHost() || cell.IsOccupied() {
			continue
		}
		if buildable && !cell.IsBuildable() {
			continue
		}
		out = append(out, n)
	}
	return out
}

// nearestCamp picks the closest camp to c; ties go to the lower id
func nearestCamp(camps []*core.Element, c core.Coordinate) *core.Element {
	best := camps[0]
	for _, camp := range camps[1:] {
		if core.Distance(c, camp.Position) < core.Distance(c, best.Position) {
			best = camp
		}
	}
	return best
}
