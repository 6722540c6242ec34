package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

// WinConditionChecker handles elimination and winner detection
type WinConditionChecker struct {
	logger          zerolog.Logger
	originalPlayers int
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, originalPlayers int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		originalPlayers: originalPlayers,
	}
}

// HasTown reports whether p still owns a Town. A player without one is eliminated.
func (wc *WinConditionChecker) HasTown(m *core.Map, p core.PlayerID) bool {
	for _, e := range m.ElementsOwnedBy(p) {
		if e.Kind == core.Town {
			return true
		}
	}
	return false
}

// Eliminated returns the alive players that no longer own a Town, in id order
func (wc *WinConditionChecker) Eliminated(m *core.Map, players []Player) []core.PlayerID {
	var out []core.PlayerID
	for _, p := range players {
		if p.IsAlive() && !wc.HasTown(m, p.GetID()) {
			out = append(out, p.GetID())
		}
	}
	return out
}

// CheckGameOver determines if the game is over based on the number of alive players.
// Returns (isGameOver, winnerID); winnerID is NoPlayer for a draw.
func (wc *WinConditionChecker) CheckGameOver(players []Player) (bool, core.PlayerID) {
	aliveCount := 0
	lastAlive := core.NoPlayer
	for _, p := range players {
		if p.IsAlive() {
			aliveCount++
			lastAlive = p.GetID()
		}
	}

	var gameOver bool
	if wc.originalPlayers > 1 {
		gameOver = aliveCount <= 1
	} else {
		gameOver = aliveCount == 0
	}

	winner := core.NoPlayer
	if gameOver && aliveCount == 1 {
		winner = lastAlive
		wc.logger.Info().Int("winner_player_id", int(winner)).Msg("Winner determined")
	} else if gameOver {
		wc.logger.Info().Msg("No player left standing")
	}

	wc.logger.Debug().Bool("is_game_over", gameOver).Int("alive_player_count", aliveCount).Msg("Game over check complete")
	return gameOver, winner
}

// Player interface to avoid circular imports
type Player interface {
	GetID() core.PlayerID
	IsAlive() bool
}
