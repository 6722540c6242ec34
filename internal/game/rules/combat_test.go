package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/testutil"
)

func newRule(t *testing.T, m *core.Map, src string) *CombatRule {
	t.Helper()
	rule, err := NewCombatRule(src, &m.Rules().Units, testutil.NopLogger())
	require.NoError(t, err)
	return rule
}

func TestNewCombatRule(t *testing.T) {
	units := core.DefaultUnits()

	rule, err := NewCombatRule("", &units, testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultCombatRule, rule.Source())

	tests := []struct {
		name string
		src  string
	}{
		{"Syntax", "Attacker.Strength >"},
		{"NotBool", "Shield + 1"},
		{"UnknownField", "Attacker.Speed > 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCombatRule(tt.src, &units, testutil.NopLogger())
			assert.Error(t, err)
		})
	}
}

func TestCombatRule_Permits(t *testing.T) {
	m := testutil.PlayableMap(t, 6, 4)
	testutil.Claim(t, m, 1, testutil.At(3, 1), testutil.At(4, 1), testutil.At(3, 2))
	testutil.Place(t, m, core.Town, 1, testutil.At(4, 1))
	villager := testutil.Place(t, m, core.Villager, 0, testutil.At(1, 1))
	pikeman := testutil.Place(t, m, core.Pikeman, 0, testutil.At(1, 2))

	rule := newRule(t, m, "")

	// neutral empty land has no defence
	assert.True(t, rule.Permits(m, villager, testutil.At(2, 1)))
	// (3,1) is guarded by the town next to it
	assert.False(t, rule.Permits(m, villager, testutil.At(3, 1)))
	assert.True(t, rule.Permits(m, pikeman, testutil.At(3, 1)))

	env := rule.Env(m, pikeman, testutil.At(4, 1))
	assert.True(t, env.Occupied)
	assert.False(t, env.Neutral)
	assert.Equal(t, "town", env.Defender.Kind)
	assert.Equal(t, 1, env.Defender.Owner)
	assert.Equal(t, 1, env.Shield)
	assert.Equal(t, 2, env.Attacker.Strength)

	lenient := newRule(t, m, "Attacker.Strength >= Shield")
	assert.True(t, lenient.Permits(m, villager, testutil.At(3, 1)))
}

func TestCombatRule_StrandedDefender(t *testing.T) {
	m := testutil.PlayableMap(t, 4, 4)
	testutil.Claim(t, m, 0, testutil.At(1, 1), testutil.At(2, 1))
	// a knight left on land it does not own still defends itself
	testutil.Place(t, m, core.Knight, 1, testutil.At(2, 1))
	attacker := testutil.Place(t, m, core.Pikeman, 0, testutil.At(1, 1))

	rule := newRule(t, m, "")
	env := rule.Env(m, attacker, testutil.At(2, 1))
	assert.Equal(t, 3, env.Shield)
	assert.False(t, rule.Permits(m, attacker, testutil.At(2, 1)))
}

func TestCombatRule_Displace(t *testing.T) {
	m := testutil.PlayableMap(t, 5, 3)
	testutil.Claim(t, m, 0, testutil.At(0, 1), testutil.At(1, 1), testutil.At(2, 1))
	mover := testutil.Place(t, m, core.Villager, 0, testutil.At(1, 1))
	twin := testutil.Place(t, m, core.Villager, 0, testutil.At(0, 1))
	knight := testutil.Place(t, m, core.Knight, 0, testutil.At(2, 1))
	enemy := testutil.Place(t, m, core.Bandit, core.NoPlayer, testutil.At(2, 0))

	displace := newRule(t, m, "").Displace(m)
	assert.True(t, displace(mover, twin, twin.Position))
	assert.False(t, displace(mover, knight, knight.Position))
	// bandits have no strength
	assert.True(t, displace(mover, enemy, enemy.Position))
}

func TestCanMerge(t *testing.T) {
	units := core.DefaultUnits()
	tests := []struct {
		name     string
		mover    core.Element
		occupant core.Element
		want     bool
	}{
		{"SameKind", core.Element{Kind: core.Villager, Owner: 0}, core.Element{Kind: core.Villager, Owner: 0}, true},
		{"KnightsMakeHero", core.Element{Kind: core.Knight, Owner: 1}, core.Element{Kind: core.Knight, Owner: 1}, true},
		{"HeroesDoNotMerge", core.Element{Kind: core.Hero, Owner: 0}, core.Element{Kind: core.Hero, Owner: 0}, false},
		{"DifferentKinds", core.Element{Kind: core.Villager, Owner: 0}, core.Element{Kind: core.Pikeman, Owner: 0}, false},
		{"DifferentOwners", core.Element{Kind: core.Villager, Owner: 0}, core.Element{Kind: core.Villager, Owner: 1}, false},
		{"Buildings", core.Element{Kind: core.Castle, Owner: 0}, core.Element{Kind: core.Castle, Owner: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMerge(&units, &tt.mover, &tt.occupant))
		})
	}
}
