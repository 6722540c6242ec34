package game

import (
	"fmt"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// Player is one side of the game. The treasury is the player's spendable pool;
// towns and camps keep their own stored coins on the map.
type Player struct {
	ID       core.PlayerID
	Name     string
	Treasury int
	Alive    bool
	// Rank is the finishing place, 0 while the player is still in the game
	Rank int

	active     bool
	turnIncome int
}

// NewPlayer creates a live, inactive player
func NewPlayer(id core.PlayerID, name string, treasury int) *Player {
	if name == "" {
		name = fmt.Sprintf("Player %d", int(id)+1)
	}
	return &Player{ID: id, Name: name, Treasury: treasury, Alive: true}
}

func (p *Player) GetID() core.PlayerID { return p.ID }
func (p *Player) IsAlive() bool        { return p.Alive }
func (p *Player) IsActive() bool       { return p.active }

// Settlement is the end-of-turn accounting of one player
type Settlement struct {
	TownIncome int
	CellIncome int
	Upkeep     int
	Deficit    bool
	Disbanded  int
}

// OnTurnStart makes the player active, restores the full move allowance of
// every owned troop and collects the production of owned settlements into the
// treasury. It returns the coins collected.
func (p *Player) OnTurnStart(m *core.Map) int {
	units := &m.Rules().Units
	income := 0
	for _, e := range m.ElementsOwnedBy(p.ID) {
		if e.IsMobile() {
			e.ResetMoves(units)
			continue
		}
		income += e.Produce(units)
	}
	p.Treasury += income
	p.turnIncome = income
	p.active = true
	return income
}

// OnTurnEnd makes the player inactive and settles the turn: territory income
// minus troop upkeep. When the treasury cannot cover the upkeep it is emptied
// and every troop of the player deserts as a neutral bandit.
func (p *Player) OnTurnEnd(m *core.Map, econ Economy) Settlement {
	p.active = false
	units := &m.Rules().Units

	s := Settlement{
		TownIncome: p.turnIncome,
		CellIncome: len(m.Territory(p.ID)) * econ.CellIncome,
	}
	var troops []*core.Element
	for _, e := range m.ElementsOwnedBy(p.ID) {
		s.Upkeep += units.Profile(e.Kind).Upkeep
		if e.IsMobile() {
			troops = append(troops, e)
		}
	}
	p.turnIncome = 0

	balance := p.Treasury + s.CellIncome - s.Upkeep
	if balance >= 0 {
		p.Treasury = balance
		return s
	}

	s.Deficit = true
	p.Treasury = 0
	for _, e := range troops {
		if _, err := m.Transform(e.Position, core.Bandit, core.NoPlayer); err == nil {
			s.Disbanded++
		}
	}
	return s
}
