package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
	"github.com/mitchelldurbincs/HexConquest/internal/game/processor"
	"github.com/mitchelldurbincs/HexConquest/internal/game/rules"
	"github.com/mitchelldurbincs/HexConquest/internal/game/states"
)

// GameConfig holds the parameters for a new engine. Zero values select the
// configured defaults.
type GameConfig struct {
	Width   int
	Height  int
	Players int
	Names   []string
	Seed    int64
	Rng     *rand.Rand
	GameID  string
	Logger  zerolog.Logger

	Rules      *core.Rulebook
	CombatRule string
	Economy    *Economy
	UndoDepth  int
	// NoWander keeps bandits in place during the bandit phase
	NoWander bool

	// Map is used as-is when set; otherwise MapFile is loaded, and failing
	// that a map is generated.
	Map     *core.Map
	MapFile string

	EventBus *events.EventBus
}

type undoEntry struct {
	m        *core.Map
	treasury int
	actions  int
}

// Engine runs one game: the map, the players and whose turn it is
type Engine struct {
	gameID  string
	m       *core.Map
	players []*Player
	active  int
	turn    int
	round   int

	turnPhase   states.TurnPhase
	turnActions int
	turnStart   time.Time
	gameOver    bool
	winner      core.PlayerID

	undo      []undoEntry
	undoDepth int
	economy   Economy

	rng             *rand.Rand
	logger          zerolog.Logger
	eventBus        *events.EventBus
	stateMachine    *states.StateMachine
	actionProcessor *processor.ActionProcessor
	combat          *rules.CombatRule
	winCondition    *rules.WinConditionChecker
	legalMoves      *rules.LegalMoveCalculator
	production      *ProductionManager
	bandits         *BanditManager
	turnProcessor   *TurnProcessor
}

// NewEngine builds a game in the Lobby phase. Call Start to play.
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Start moves the game to Running and begins the first player's turn
func (e *Engine) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.stateMachine.TransitionTo(states.PhaseStarting, "players seated"); err != nil {
		return core.WrapGameStateError(e.turn, e.Phase().String(), err)
	}
	if err := e.stateMachine.TransitionTo(states.PhaseRunning, "first turn"); err != nil {
		return core.WrapGameStateError(e.turn, e.Phase().String(), err)
	}

	e.eventBus.Publish(events.NewGameStartedEvent(e.gameID, len(e.players), e.m.Width(), e.m.Height()))
	e.logger.Info().
		Int("players", len(e.players)).
		Int("width", e.m.Width()).
		Int("height", e.m.Height()).
		Msg("Game started")

	// players seated without a town never get a turn
	e.turnProcessor.checkEliminations(core.NoPlayer)
	if e.gameOver {
		return nil
	}
	for !e.players[e.active].Alive {
		e.active = (e.active + 1) % len(e.players)
	}
	e.turnProcessor.StartTurn()
	return nil
}

// Process applies any player action
func (e *Engine) Process(ctx context.Context, action core.Action) error {
	switch act := action.(type) {
	case *core.EndTurnAction:
		return e.EndTurn(ctx, act.PlayerID)
	case *core.UndoAction:
		return e.Undo(ctx, act.PlayerID)
	default:
		return e.turnProcessor.ProcessAction(ctx, action)
	}
}

// Move sends the troop on from to to, merging or fighting as needed
func (e *Engine) Move(ctx context.Context, player core.PlayerID, from, to core.Coordinate) error {
	return e.turnProcessor.ProcessAction(ctx, &core.MoveAction{PlayerID: player, From: from, To: to})
}

// Recruit buys a troop of kind onto an owned cell
func (e *Engine) Recruit(ctx context.Context, player core.PlayerID, kind core.ElementKind, at core.Coordinate) error {
	return e.turnProcessor.ProcessAction(ctx, &core.RecruitAction{PlayerID: player, Kind: kind, At: at})
}

// Build buys a castle on an owned cell
func (e *Engine) Build(ctx context.Context, player core.PlayerID, at core.Coordinate) error {
	return e.Recruit(ctx, player, core.Castle, at)
}

// Remove disbands the player's element at at
func (e *Engine) Remove(ctx context.Context, player core.PlayerID, at core.Coordinate) error {
	return e.turnProcessor.ProcessAction(ctx, &core.RemoveAction{PlayerID: player, At: at})
}

// EndTurn settles the active player's turn and hands over to the next live player
func (e *Engine) EndTurn(ctx context.Context, player core.PlayerID) error {
	return e.turnProcessor.EndTurn(ctx, player)
}

// Undo reverts the active player's last action of this turn
func (e *Engine) Undo(ctx context.Context, player core.PlayerID) error {
	if err := e.turnProcessor.checkCanAct(ctx, player); err != nil {
		return err
	}
	if len(e.undo) == 0 {
		return core.WrapPlayerError(player, "undo", core.ErrNothingToUndo)
	}
	last := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.m = last.m
	e.players[e.active].Treasury = last.treasury
	e.turnActions = last.actions

	e.eventBus.Publish(events.NewActionProcessedEvent(e.gameID, int(player), &core.UndoAction{PlayerID: player}, "undone", e.turn))
	e.logger.Debug().Int("player_id", int(player)).Int("remaining", len(e.undo)).Msg("Action undone")
	return nil
}

func (e *Engine) pushUndo(entry undoEntry) {
	if e.undoDepth <= 0 {
		return
	}
	if len(e.undo) == e.undoDepth {
		e.undo = append(e.undo[:0], e.undo[1:]...)
	}
	e.undo = append(e.undo, entry)
}

// Pause stops the game from accepting actions
func (e *Engine) Pause(reason string) error {
	return e.stateMachine.TransitionTo(states.PhasePaused, reason)
}

// Resume returns a paused game to play
func (e *Engine) Resume(reason string) error {
	return e.stateMachine.TransitionTo(states.PhaseRunning, reason)
}

// eliminate takes p out of the game. Its troops desert as bandits, its castles
// fall to camps and its land turns neutral.
func (e *Engine) eliminate(id core.PlayerID, by core.PlayerID) {
	p := e.player(id)
	if p == nil || !p.Alive {
		return
	}
	p.Alive = false
	p.active = false
	p.Rank = e.aliveCount() + 1

	for _, el := range e.m.ElementsOwnedBy(id) {
		var err error
		switch {
		case el.IsMobile():
			_, err = e.m.Transform(el.Position, core.Bandit, core.NoPlayer)
		case el.Kind == core.Castle:
			_, err = e.m.Transform(el.Position, core.Camp, core.NoPlayer)
		default:
			el.Owner = core.NoPlayer
		}
		if err != nil {
			e.logger.Error().Err(err).Stringer("element", el).Msg("Failed to release element")
		}
	}
	for _, c := range e.m.Territory(id) {
		_ = e.m.ClaimCell(c, core.NoPlayer)
	}
	// snapshots taken before the elimination would revive the player
	e.undo = e.undo[:0]

	e.logger.Info().
		Int("player_id", int(id)).
		Int("eliminated_by", int(by)).
		Int("rank", p.Rank).
		Msg("Player eliminated")
	e.eventBus.Publish(events.NewPlayerEliminatedEvent(e.gameID, int(id), int(by), p.Rank, e.turn))
}

// releaseStranded turns id's troops and castles cut off from every town of id
// into bandits and camps. The land keeps its owner.
func (e *Engine) releaseStranded(id core.PlayerID) int {
	if id == core.NoPlayer {
		return 0
	}
	linked := e.m.Linked(id)
	released := 0
	for _, el := range e.m.ElementsOwnedBy(id) {
		if linked[el.Position] {
			continue
		}
		kind := core.Bandit
		switch {
		case el.IsMobile():
		case el.Kind == core.Castle:
			kind = core.Camp
		default:
			continue
		}
		prev, at := el.Kind, el.Position
		if _, err := e.m.Transform(at, kind, core.NoPlayer); err != nil {
			e.logger.Error().Err(err).Stringer("element", el).Msg("Failed to release stranded element")
			continue
		}
		released++
		e.eventBus.Publish(events.NewElementRemovedEvent(e.gameID, el.ID, prev, id, at, "stranded", e.turn))
	}
	if released > 0 {
		e.logger.Info().
			Int("player_id", int(id)).
			Int("released", released).
			Int("turn", e.turn).
			Msg("Stranded elements released")
	}
	return released
}

// checkGameOver ends the game once at most one player is left
func (e *Engine) checkGameOver() bool {
	if e.gameOver {
		return true
	}
	over, winner := e.winCondition.CheckGameOver(e.rulesPlayers())
	if !over {
		return false
	}
	e.gameOver = true
	e.winner = winner
	e.turnPhase = states.TurnGameEnd
	for _, p := range e.players {
		p.active = false
		if p.ID == winner {
			p.Rank = 1
		}
	}

	gc := e.stateMachine.GetContext()
	gc.Winner = int(winner)
	gc.Draw = winner == core.NoPlayer
	gc.Rounds = e.round
	if err := e.stateMachine.TransitionTo(states.PhaseEnding, "one player left"); err != nil {
		e.logger.Error().Err(err).Msg("Failed to transition to Ending state")
	} else if err := e.stateMachine.TransitionTo(states.PhaseEnded, "results settled"); err != nil {
		e.logger.Error().Err(err).Msg("Failed to transition to Ended state")
	}

	e.eventBus.Publish(events.NewGameEndedEvent(e.gameID, int(winner), gc.GetElapsedTime(), e.turn, e.round))
	return true
}

func (e *Engine) rulesPlayers() []rules.Player {
	out := make([]rules.Player, len(e.players))
	for i, p := range e.players {
		out[i] = p
	}
	return out
}

func (e *Engine) aliveCount() int {
	n := 0
	for _, p := range e.players {
		if p.Alive {
			n++
		}
	}
	return n
}

func (e *Engine) player(id core.PlayerID) *Player {
	for _, p := range e.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Public accessors
func (e *Engine) GameID() string                         { return e.gameID }
func (e *Engine) Map() *core.Map                         { return e.m }
func (e *Engine) Turn() int                              { return e.turn }
func (e *Engine) Round() int                             { return e.round }
func (e *Engine) IsGameOver() bool                       { return e.gameOver }
func (e *Engine) Phase() states.GamePhase                { return e.stateMachine.CurrentPhase() }
func (e *Engine) TurnPhase() states.TurnPhase            { return e.turnPhase }
func (e *Engine) EventBus() *events.EventBus             { return e.eventBus }
func (e *Engine) LegalMoves() *rules.LegalMoveCalculator { return e.legalMoves }
func (e *Engine) UndoAvailable() int                     { return len(e.undo) }

// Players returns the roster in seating order
func (e *Engine) Players() []*Player {
	out := make([]*Player, len(e.players))
	copy(out, e.players)
	return out
}

// Player returns the player with the given id
func (e *Engine) Player(id core.PlayerID) (*Player, error) {
	if p := e.player(id); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("player %d: %w", id, core.ErrInvalidPlayer)
}

// ActivePlayer returns the player whose turn it is, or nil once the game is over
func (e *Engine) ActivePlayer() *Player {
	if e.gameOver || len(e.players) == 0 {
		return nil
	}
	return e.players[e.active]
}

// Winner returns the winning player, or NoPlayer while playing and on a draw
func (e *Engine) Winner() core.PlayerID {
	if !e.gameOver {
		return core.NoPlayer
	}
	return e.winner
}
