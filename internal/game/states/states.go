package states

import (
	"errors"
	"fmt"
	"time"
)

// InitializingState is entered when an engine is built or reset
type InitializingState struct{}

func NewInitializingState() State { return &InitializingState{} }

func (s *InitializingState) Phase() GamePhase { return PhaseInitializing }

func (s *InitializingState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(*GameContext) error     { return nil }
func (s *InitializingState) Validate(*GameContext) error { return nil }

// LobbyState holds registered players before the first turn
type LobbyState struct{}

func NewLobbyState() State { return &LobbyState{} }

func (s *LobbyState) Phase() GamePhase { return PhaseLobby }

func (s *LobbyState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().Int("max_players", ctx.MaxPlayers).Msg("Game lobby opened")
	return nil
}

func (s *LobbyState) Exit(ctx *GameContext) error {
	ctx.Logger.Info().
		Int("player_count", ctx.PlayerCount).
		Msg("Closing lobby, game starting")
	return nil
}

func (s *LobbyState) Validate(ctx *GameContext) error {
	if ctx.MaxPlayers < ctx.MinPlayers {
		return fmt.Errorf("max players %d below minimum %d", ctx.MaxPlayers, ctx.MinPlayers)
	}
	return nil
}

// StartingState checks the roster before the first turn begins
type StartingState struct{}

func NewStartingState() State { return &StartingState{} }

func (s *StartingState) Phase() GamePhase { return PhaseStarting }

func (s *StartingState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().Int("player_count", ctx.PlayerCount).Msg("Starting game")
	return nil
}

func (s *StartingState) Exit(*GameContext) error { return nil }

func (s *StartingState) Validate(ctx *GameContext) error {
	if !ctx.IsReady() {
		return fmt.Errorf("need %d to %d players, have %d", ctx.MinPlayers, ctx.MaxPlayers, ctx.PlayerCount)
	}
	return nil
}

// RunningState is active play
type RunningState struct{}

func NewRunningState() State { return &RunningState{} }

func (s *RunningState) Phase() GamePhase { return PhaseRunning }

func (s *RunningState) Enter(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		ctx.StartTime = time.Now()
		ctx.Logger.Info().Time("start_time", ctx.StartTime).Msg("Game started")
	}
	return nil
}

func (s *RunningState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().
		Dur("elapsed", ctx.GetElapsedTime()).
		Int("rounds", ctx.Rounds).
		Msg("Leaving running state")
	return nil
}

func (s *RunningState) Validate(ctx *GameContext) error {
	if ctx.PlayerCount < 1 {
		return errors.New("cannot run game with no players")
	}
	return nil
}

// PausedState refuses actions until the game resumes
type PausedState struct{}

func NewPausedState() State { return &PausedState{} }

func (s *PausedState) Phase() GamePhase { return PhasePaused }

func (s *PausedState) Enter(ctx *GameContext) error {
	ctx.PauseTime = time.Now()
	ctx.Logger.Info().Msg("Game paused")
	return nil
}

func (s *PausedState) Exit(ctx *GameContext) error {
	if !ctx.PauseTime.IsZero() {
		pauseDuration := time.Since(ctx.PauseTime)
		ctx.TotalPauseDuration += pauseDuration
		ctx.PauseTime = time.Time{}
		ctx.Logger.Info().
			Dur("pause_duration", pauseDuration).
			Dur("total_pause_duration", ctx.TotalPauseDuration).
			Msg("Game resumed")
	}
	return nil
}

func (s *PausedState) Validate(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		return errors.New("cannot pause a game that hasn't started")
	}
	return nil
}

// EndingState settles the result once at most one player remains
type EndingState struct{}

func NewEndingState() State { return &EndingState{} }

func (s *EndingState) Phase() GamePhase { return PhaseEnding }

func (s *EndingState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().
		Int("winner", ctx.Winner).
		Bool("draw", ctx.Draw).
		Msg("Game ending")
	return nil
}

func (s *EndingState) Exit(*GameContext) error { return nil }

func (s *EndingState) Validate(ctx *GameContext) error {
	if !ctx.HasResult() {
		return errors.New("ending requires a winner, a draw or an error")
	}
	return nil
}

// EndedState is a finished game
type EndedState struct{}

func NewEndedState() State { return &EndedState{} }

func (s *EndedState) Phase() GamePhase { return PhaseEnded }

func (s *EndedState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().
		Int("winner", ctx.Winner).
		Int("rounds", ctx.Rounds).
		Dur("game_duration", ctx.GetElapsedTime()).
		Msg("Game ended")
	return nil
}

func (s *EndedState) Exit(*GameContext) error     { return nil }
func (s *EndedState) Validate(*GameContext) error { return nil }

// ErrorState records an engine failure
type ErrorState struct{}

func NewErrorState() State { return &ErrorState{} }

func (s *ErrorState) Phase() GamePhase { return PhaseError }

func (s *ErrorState) Enter(ctx *GameContext) error {
	ctx.Logger.Error().Err(ctx.Error).Msg("Game entered error state")
	return nil
}

func (s *ErrorState) Exit(ctx *GameContext) error {
	ctx.Logger.Info().Msg("Recovering from error state")
	ctx.Error = nil
	return nil
}

func (s *ErrorState) Validate(ctx *GameContext) error {
	if ctx.Error == nil {
		return errors.New("error state requires an error in context")
	}
	return nil
}

// ResetState clears per-game data from the context
type ResetState struct{}

func NewResetState() State { return &ResetState{} }

func (s *ResetState) Phase() GamePhase { return PhaseReset }

func (s *ResetState) Enter(ctx *GameContext) error {
	ctx.Logger.Info().Msg("Resetting game")

	ctx.StartTime = time.Time{}
	ctx.PauseTime = time.Time{}
	ctx.TotalPauseDuration = 0
	ctx.Winner = -1
	ctx.Draw = false
	ctx.Rounds = 0
	ctx.Error = nil
	ctx.PlayerCount = 0
	clear(ctx.Metadata)
	return nil
}

func (s *ResetState) Exit(*GameContext) error     { return nil }
func (s *ResetState) Validate(*GameContext) error { return nil }
