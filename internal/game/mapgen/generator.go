package mapgen

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width          int
	Height         int
	PlayerCount    int
	Seed           int64
	MinTownSpacing int

	// Noise sampling: Scale is the base frequency, each octave doubles it
	Scale   float64
	Octaves int

	// Noise below WaterLevel is water, above ForestLevel is forest. GroundRatio
	// of the remaining land is plain ground that cannot be settled.
	WaterLevel  float64
	ForestLevel float64
	GroundRatio float64
}

// DefaultMapConfig returns the configured generation settings. Zero
// arguments keep the configured size and player count.
func DefaultMapConfig(w, h, players int) MapConfig {
	cfg := config.Get().Game
	mc := MapConfig{
		Width:          cfg.Map.Width,
		Height:         cfg.Map.Height,
		PlayerCount:    cfg.Map.Players,
		Seed:           cfg.Map.Seed,
		MinTownSpacing: cfg.Map.MinTownSpacing,
		Scale:          cfg.Map.Noise.Scale,
		Octaves:        cfg.Map.Noise.Octaves,
		WaterLevel:     cfg.Terrain.WaterLevel,
		ForestLevel:    cfg.Terrain.ForestLevel,
		GroundRatio:    cfg.Terrain.GroundRatio,
	}
	if w > 0 {
		mc.Width = w
	}
	if h > 0 {
		mc.Height = h
	}
	if players > 0 {
		mc.PlayerCount = players
	}
	return mc
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
	rules  *core.Rulebook
}

// NewGenerator creates a new map generator. A nil rulebook selects the stock rules.
func NewGenerator(config MapConfig, rng *rand.Rand, rules *core.Rulebook) *Generator {
	if rules == nil {
		rules = core.DefaultRulebook()
	}
	return &Generator{
		config: config,
		rng:    rng,
		rules:  rules,
	}
}

// TownPlacement tracks where a player's starting town was placed
type TownPlacement struct {
	PlayerID core.PlayerID
	At       core.Coordinate
}

// GenerateMap creates a map with noise terrain and one starting town, its
// surrounding land and a villager per player
func (g *Generator) GenerateMap() (*core.Map, error) {
	m, _, err := g.Generate()
	return m, err
}

// Generate is GenerateMap that also reports the town placements
func (g *Generator) Generate() (*core.Map, []TownPlacement, error) {
	c := g.config
	if c.Width <= 0 || c.Height <= 0 {
		return nil, nil, fmt.Errorf("map size %dx%d: %w", c.Width, c.Height, core.ErrInvalidMap)
	}
	if c.PlayerCount < 1 || c.PlayerCount > c.Width*c.Height {
		return nil, nil, fmt.Errorf("%d players on %dx%d: %w", c.PlayerCount, c.Width, c.Height, core.ErrInvalidMap)
	}

	terrain, err := g.placeTerrain()
	if err != nil {
		return nil, nil, err
	}
	placements := g.placeTowns(terrain)

	m, err := core.NewMap(c.Width, c.Height, g.rules, func(at core.Coordinate) core.TerrainKind {
		kind, _ := terrain.At(at)
		return kind
	})
	if err != nil {
		return nil, nil, err
	}
	for _, p := range placements {
		if err := g.settle(m, p, without(placements, p)); err != nil {
			return nil, nil, err
		}
	}
	return m, placements, nil
}

// placeTerrain samples layered simplex noise at each hex centre
func (g *Generator) placeTerrain() (*core.Grid[core.TerrainKind], error) {
	c := g.config
	seed := c.Seed
	if seed == 0 {
		seed = g.rng.Int63()
	}
	noise := opensimplex.NewNormalized(seed)

	return core.NewGrid(c.Width, c.Height, func(at core.Coordinate) core.TerrainKind {
		p := core.OffsetToPixel(at, 1)
		v := octaveNoise(noise, p.X, p.Y, max(c.Octaves, 1), c.Scale, 0.5)
		switch {
		case v < c.WaterLevel:
			return core.Water
		case v > c.ForestLevel:
			return core.Forest
		case g.rng.Float64() < c.GroundRatio:
			return core.Ground
		default:
			return core.PlayableGround
		}
	})
}

// placeTowns picks one site per player. Sites are at least MinTownSpacing
// apart when the map allows it; the spacing shrinks until every player fits.
// Each site and its neighbours are turned into playable ground so every town
// has room to grow.
func (g *Generator) placeTowns(terrain *core.Grid[core.TerrainKind]) []TownPlacement {
	candidates := g.rankSites(terrain)
	placements := make([]TownPlacement, 0, g.config.PlayerCount)

	for spacing := max(g.config.MinTownSpacing, 1); len(placements) < g.config.PlayerCount; spacing-- {
		for _, at := range candidates {
			if len(placements) == g.config.PlayerCount {
				break
			}
			if !farFromAll(at, placements, max(spacing, 1)) {
				continue
			}
			placements = append(placements, TownPlacement{PlayerID: core.PlayerID(len(placements)), At: at})
		}
		if spacing <= 1 {
			break
		}
	}

	for _, p := range placements {
		_ = terrain.Set(p.At, core.PlayableGround)
		for _, n := range terrain.Neighbors(p.At) {
			if !farFromAll(n, without(placements, p), 1) {
				continue
			}
			_ = terrain.Set(n, core.PlayableGround)
		}
	}
	return placements
}

// rankSites shuffles every cell and puts good town sites first: playable
// cells with at least two playable neighbours
func (g *Generator) rankSites(terrain *core.Grid[core.TerrainKind]) []core.Coordinate {
	var good, rest []core.Coordinate
	for at, kind := range terrain.All() {
		open := 0
		for _, n := range terrain.Neighbors(at) {
			if k, _ := terrain.At(n); k == core.PlayableGround {
				open++
			}
		}
		if kind == core.PlayableGround && open >= 2 {
			good = append(good, at)
		} else {
			rest = append(rest, at)
		}
	}
	g.rng.Shuffle(len(good), func(i, j int) { good[i], good[j] = good[j], good[i] })
	g.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	return append(good, rest...)
}

// settle builds the town, claims the free land around it and stations a
// villager. Sites reserved for other towns are left alone.
func (g *Generator) settle(m *core.Map, p TownPlacement, others []TownPlacement) error {
	town := core.NewElement(core.Town, p.PlayerID)
	if err := m.PlaceElement(town, p.At); err != nil {
		return fmt.Errorf("town for player %d: %w", p.PlayerID, err)
	}
	if err := m.ClaimCell(p.At, p.PlayerID); err != nil {
		return err
	}

	var villagerAt *core.Coordinate
	for _, n := range m.Neighbors(p.At) {
		cell, _ := m.CellAt(n)
		if !cell.CanHost() || !cell.IsNeutral() || !farFromAll(n, others, 1) {
			continue
		}
		if err := m.ClaimCell(n, p.PlayerID); err != nil {
			return err
		}
		if villagerAt == nil && !cell.IsOccupied() {
			at := n
			villagerAt = &at
		}
	}
	if villagerAt == nil {
		return nil
	}

	villager := core.NewElement(core.Villager, p.PlayerID)
	if err := m.PlaceElement(villager, *villagerAt); err != nil {
		return fmt.Errorf("villager for player %d: %w", p.PlayerID, err)
	}
	villager.ResetMoves(&m.Rules().Units)
	return nil
}

func farFromAll(at core.Coordinate, placed []TownPlacement, spacing int) bool {
	for _, p := range placed {
		if core.Distance(at, p.At) < spacing {
			return false
		}
	}
	return true
}

func without(placed []TownPlacement, skip TownPlacement) []TownPlacement {
	out := make([]TownPlacement, 0, len(placed))
	for _, p := range placed {
		if p != skip {
			out = append(out, p)
		}
	}
	return out
}

// octaveNoise generates fractal noise by layering multiple frequencies.
// The result stays in [0, 1] like the normalized source.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
