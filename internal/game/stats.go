package game

import (
	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// PlayerStats is a point-in-time summary of one player's holdings
type PlayerStats struct {
	ID        core.PlayerID
	Name      string
	Alive     bool
	Active    bool
	Rank      int
	Treasury  int
	Territory int
	Towns     int
	Castles   int
	Troops    int
	Strength  int
	Upkeep    int
}

// Snapshot is a read-only summary of the game for displays and logs
type Snapshot struct {
	GameID    string
	Turn      int
	Round     int
	Phase     string
	TurnPhase string
	Active    core.PlayerID
	GameOver  bool
	Winner    core.PlayerID
	Players   []PlayerStats
	Bandits   int
	Camps     int
}

// Snapshot recalculates the player statistics from the map
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		GameID:    e.gameID,
		Turn:      e.turn,
		Round:     e.round,
		Phase:     e.Phase().String(),
		TurnPhase: e.turnPhase.String(),
		Active:    core.NoPlayer,
		GameOver:  e.gameOver,
		Winner:    e.Winner(),
		Players:   make([]PlayerStats, len(e.players)),
	}
	if p := e.ActivePlayer(); p != nil && p.IsActive() {
		s.Active = p.ID
	}

	index := make(map[core.PlayerID]int, len(e.players))
	for i, p := range e.players {
		index[p.ID] = i
		s.Players[i] = PlayerStats{
			ID:        p.ID,
			Name:      p.Name,
			Alive:     p.Alive,
			Active:    p.IsActive(),
			Rank:      p.Rank,
			Treasury:  p.Treasury,
			Territory: len(e.m.Territory(p.ID)),
		}
	}

	units := &e.m.Rules().Units
	for _, el := range e.m.Elements() {
		if el.Owner == core.NoPlayer {
			switch el.Kind {
			case core.Bandit:
				s.Bandits++
			case core.Camp:
				s.Camps++
			}
			continue
		}
		i, ok := index[el.Owner]
		if !ok {
			continue
		}
		ps := &s.Players[i]
		profile := units.Profile(el.Kind)
		ps.Upkeep += profile.Upkeep
		switch {
		case el.Kind == core.Town:
			ps.Towns++
		case el.Kind == core.Castle:
			ps.Castles++
		case el.IsMobile():
			ps.Troops++
			ps.Strength += profile.Strength
		}
	}

	e.logger.Debug().
		Int("turn", s.Turn).
		Int("bandits", s.Bandits).
		Int("camps", s.Camps).
		Msg("Player stats updated")
	return s
}
