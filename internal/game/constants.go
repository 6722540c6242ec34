package game

import (
	"github.com/mitchelldurbincs/HexConquest/internal/config"
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// Economy holds the treasury rules applied by the production and bandit phases
type Economy struct {
	StartingTreasury int
	CellIncome       int
	CampTribute      int
}

// DefaultEconomy returns the economy from the loaded configuration
func DefaultEconomy() Economy {
	return EconomyFromConfig(&config.Get().Game)
}

// DefaultRules returns a rulebook built from the loaded configuration
func DefaultRules() *core.Rulebook {
	return RulebookFromConfig(&config.Get().Game)
}

// DefaultCombatRule returns the configured combat expression
func DefaultCombatRule() string {
	return config.Get().Game.Rules.Combat
}

// UndoDepth returns how many actions a player may take back within a turn
func UndoDepth() int {
	return config.Get().Game.UndoDepth
}

// EconomyFromConfig converts the economy section of a game config
func EconomyFromConfig(c *config.GameConfig) Economy {
	return Economy{
		StartingTreasury: c.Economy.StartingTreasury,
		CellIncome:       c.Economy.CellIncome,
		CampTribute:      c.Economy.CampTribute,
	}
}

// RulebookFromConfig applies the terrain and unit sections of a game config
// on top of the stock rulebook. Merge chains are not configurable.
func RulebookFromConfig(c *config.GameConfig) *core.Rulebook {
	rb := core.DefaultRulebook()

	forest := rb.Terrain[core.Forest]
	forest.MoveCost = c.Terrain.ForestCost
	rb.Terrain[core.Forest] = forest

	ground := rb.Terrain[core.Ground]
	ground.Buildable = c.Terrain.GroundBuildable
	rb.Terrain[core.Ground] = ground

	units := map[core.ElementKind]config.UnitConfig{
		core.Town:     c.Units.Town,
		core.Castle:   c.Units.Castle,
		core.Camp:     c.Units.Camp,
		core.Villager: c.Units.Villager,
		core.Pikeman:  c.Units.Pikeman,
		core.Knight:   c.Units.Knight,
		core.Hero:     c.Units.Hero,
		core.Bandit:   c.Units.Bandit,
	}
	for kind, u := range units {
		p := rb.Units[kind]
		p.Strength = u.Strength
		p.Cost = u.Cost
		p.Upkeep = u.Upkeep
		p.MoveRange = u.Range
		p.Income = u.Income
		rb.Units[kind] = p
	}
	return rb
}
