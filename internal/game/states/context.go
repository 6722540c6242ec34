package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext carries the game facts states consult when entering or validating
type GameContext struct {
	GameID string
	Logger zerolog.Logger

	PlayerCount int
	MinPlayers  int
	MaxPlayers  int

	// StartTime is when PhaseRunning was first entered
	StartTime          time.Time
	PauseTime          time.Time
	TotalPauseDuration time.Duration

	// Winner is -1 until a single player remains
	Winner int
	// Draw is set when the game ends with no player left standing
	Draw   bool
	Rounds int

	// Error holds the failure that caused transition to PhaseError
	Error error

	Metadata map[string]interface{}
}

// NewGameContext creates a context for a game of two up to maxPlayers players
func NewGameContext(gameID string, maxPlayers int, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID:     gameID,
		MinPlayers: 2,
		MaxPlayers: maxPlayers,
		Logger:     logger.With().Str("game_id", gameID).Logger(),
		Metadata:   make(map[string]interface{}),
		Winner:     -1,
	}
}

// IsReady returns true if the player count is within the allowed range
func (gc *GameContext) IsReady() bool {
	return gc.PlayerCount >= gc.MinPlayers && gc.PlayerCount <= gc.MaxPlayers
}

// HasResult reports whether the game can be wound down
func (gc *GameContext) HasResult() bool {
	return gc.Winner >= 0 || gc.Draw || gc.Error != nil
}

// GetElapsedTime returns the time elapsed since game start, excluding pauses
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	return time.Since(gc.StartTime) - gc.TotalPauseDuration
}

func (gc *GameContext) SetMetadata(key string, value interface{}) {
	gc.Metadata[key] = value
}

func (gc *GameContext) GetMetadata(key string) (interface{}, bool) {
	val, exists := gc.Metadata[key]
	return val, exists
}
