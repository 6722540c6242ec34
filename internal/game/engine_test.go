package game

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
	"github.com/mitchelldurbincs/HexConquest/internal/game/events"
	"github.com/mitchelldurbincs/HexConquest/internal/game/mapfile"
	"github.com/mitchelldurbincs/HexConquest/internal/game/states"
	"github.com/mitchelldurbincs/HexConquest/internal/testutil"
)

// recorder keeps every event published on the bus
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) ID() string                 { return "recorder" }
func (r *recorder) InterestedIn(string) bool   { return true }
func (r *recorder) HandleEvent(e events.Event) { r.mu.Lock(); r.events = append(r.events, e); r.mu.Unlock() }

func (r *recorder) ofType(eventType string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

var testEconomy = Economy{StartingTreasury: 10, CellIncome: 1, CampTribute: 1}

// newTestEngine builds a started engine on the given map text
func newTestEngine(t *testing.T, text string) (*Engine, *recorder) {
	t.Helper()
	bus := events.NewEventBus()
	rec := &recorder{}
	bus.Subscribe(rec)

	econ := testEconomy
	e, err := NewEngine(context.Background(), GameConfig{
		Map:        testutil.MapFromText(t, text),
		Rng:        testutil.NewTestRNG(12345),
		GameID:     "test-game",
		Logger:     testutil.TestLogger(t),
		Economy:    &econ,
		CombatRule: "Attacker.Strength > Shield",
		UndoDepth:  4,
		EventBus:   bus,
	})
	require.NoError(t, err)
	require.NoError(t, e.Start(context.Background()))
	return e, rec
}

func TestNewEngine(t *testing.T) {
	econ := testEconomy
	e, err := NewEngine(context.Background(), GameConfig{
		Map:     testutil.MapFromText(t, testutil.DuelMap),
		Rng:     testutil.NewTestRNG(1),
		Logger:  testutil.NopLogger(),
		Economy: &econ,
	})
	require.NoError(t, err)

	assert.Equal(t, states.PhaseLobby, e.Phase(), "engine waits in the lobby until started")
	assert.NotEmpty(t, e.GameID(), "a game id is generated when none is given")
	assert.Equal(t, 1, e.Turn())
	assert.Equal(t, 1, e.Round())
	require.Len(t, e.Players(), 2)
	for i, p := range e.Players() {
		assert.Equal(t, core.PlayerID(i), p.ID)
		assert.True(t, p.Alive)
		assert.False(t, p.IsActive())
		assert.Equal(t, 10, p.Treasury)
	}
	assert.False(t, e.IsGameOver())
	assert.Equal(t, core.NoPlayer, e.Winner())
}

func TestNewEngine_Errors(t *testing.T) {
	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewEngine(ctx, GameConfig{Map: testutil.MapFromText(t, testutil.DuelMap), Logger: testutil.NopLogger()})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bad combat rule", func(t *testing.T) {
		_, err := NewEngine(context.Background(), GameConfig{
			Map:        testutil.MapFromText(t, testutil.DuelMap),
			Logger:     testutil.NopLogger(),
			CombatRule: "Attacker.Strength +",
		})
		assert.Error(t, err)
	})

	t.Run("missing map file", func(t *testing.T) {
		_, err := NewEngine(context.Background(), GameConfig{
			MapFile: filepath.Join(t.TempDir(), "missing.map"),
			Logger:  testutil.NopLogger(),
		})
		assert.Error(t, err)
	})

	t.Run("too many players", func(t *testing.T) {
		_, err := NewEngine(context.Background(), GameConfig{
			Map:     testutil.MapFromText(t, testutil.DuelMap),
			Players: MaxPlayers + 1,
			Logger:  testutil.NopLogger(),
		})
		assert.ErrorIs(t, err, core.ErrInvalidPlayer)
	})
}

func TestNewEngine_MapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duel.map")
	require.NoError(t, os.WriteFile(path, []byte(testutil.DuelMap), 0o644))

	e, err := NewEngine(context.Background(), GameConfig{MapFile: path, Logger: testutil.NopLogger()})
	require.NoError(t, err)
	assert.Equal(t, 7, e.Map().Width())
	assert.Equal(t, 4, e.Map().Height())
	assert.Len(t, e.Players(), 2)
}

func TestNewEngine_GeneratedMap(t *testing.T) {
	e, err := NewEngine(context.Background(), GameConfig{
		Width:   16,
		Height:  12,
		Players: 3,
		Seed:    99,
		Logger:  testutil.NopLogger(),
	})
	require.NoError(t, err)
	require.NoError(t, e.Map().CheckConsistency())
	assert.Equal(t, 16, e.Map().Width())
	assert.Len(t, e.Players(), 3)
	for _, p := range e.Players() {
		assert.True(t, e.winCondition.HasTown(e.Map(), p.ID), "player %d starts with a town", p.ID)
	}
}

func TestEngine_Start(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)

	assert.Equal(t, states.PhaseRunning, e.Phase())
	assert.Equal(t, states.TurnAction, e.TurnPhase())
	active := e.ActivePlayer()
	require.NotNil(t, active)
	assert.Equal(t, core.PlayerID(0), active.ID)
	assert.True(t, active.IsActive())
	assert.Equal(t, 12, active.Treasury, "town income is collected at turn start")

	p1, err := e.Player(1)
	require.NoError(t, err)
	assert.False(t, p1.IsActive())
	assert.Equal(t, 10, p1.Treasury)

	assert.Len(t, rec.ofType(events.TypeGameStarted), 1)
	require.Len(t, rec.ofType(events.TypeTurnStarted), 1)

	assert.Error(t, e.Start(context.Background()), "a running game cannot be started again")
}

func TestEngine_NotYourTurn(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)
	before := mapfile.Format(e.Map())
	p1, _ := e.Player(1)
	treasury := p1.Treasury

	tests := []struct {
		name string
		act  func() error
	}{
		{"move own troop while inactive", func() error {
			return e.Move(context.Background(), 1, testutil.At(5, 2), testutil.At(4, 2))
		}},
		{"recruit while inactive", func() error {
			return e.Recruit(context.Background(), 1, core.Villager, testutil.At(6, 2))
		}},
		{"remove while inactive", func() error {
			return e.Remove(context.Background(), 1, testutil.At(5, 2))
		}},
		{"end another player's turn", func() error {
			return e.EndTurn(context.Background(), 1)
		}},
		{"active player moves a foreign troop", func() error {
			return e.Move(context.Background(), 0, testutil.At(5, 2), testutil.At(4, 2))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.act(), core.ErrNotYourTurn)
			assert.Equal(t, before, mapfile.Format(e.Map()), "a rejected action must not change the map")
			assert.Equal(t, treasury, p1.Treasury)
			assert.Equal(t, core.PlayerID(0), e.ActivePlayer().ID)
		})
	}
	assert.NotEmpty(t, rec.ofType(events.TypeActionRejected))
}

func TestEngine_InvalidPlayer(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)
	err := e.Move(context.Background(), 7, testutil.At(1, 1), testutil.At(1, 0))
	assert.ErrorIs(t, err, core.ErrInvalidPlayer)
}

func TestEngine_MoveWithinTerritory(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)

	require.NoError(t, e.Move(context.Background(), 0, testutil.At(1, 1), testutil.At(1, 0)))

	v, ok := e.Map().Occupant(testutil.At(1, 0))
	require.True(t, ok)
	assert.Equal(t, core.Villager, v.Kind)
	assert.Equal(t, 1, v.MovesLeft, "one step on playable ground costs one move")
	_, stillThere := e.Map().Occupant(testutil.At(1, 1))
	assert.False(t, stillThere)
	require.NoError(t, e.Map().CheckConsistency())

	moved := rec.ofType(events.TypeElementMoved)
	require.Len(t, moved, 1)
	assert.Equal(t, testutil.At(1, 1), moved[0].(*events.ElementMovedEvent).From)
	assert.Len(t, rec.ofType(events.TypeActionProcessed), 1)
}

func TestEngine_CaptureNeutralCell(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)

	require.NoError(t, e.Move(context.Background(), 0, testutil.At(1, 1), testutil.At(2, 1)))

	cell, _ := e.Map().CellAt(testutil.At(2, 1))
	assert.True(t, cell.OwnedBy(0), "an entered neutral cell is claimed")
	v, _ := e.Map().Occupant(testutil.At(2, 1))
	assert.Zero(t, v.MovesLeft, "taking a cell ends the troop's move")

	combat := rec.ofType(events.TypeCombatResolved)
	require.Len(t, combat, 1)
	assert.True(t, combat[0].(*events.CombatResolvedEvent).Captured)

	err := e.Move(context.Background(), 0, testutil.At(2, 1), testutil.At(2, 0))
	assert.ErrorIs(t, err, core.ErrInvalidMove, "a troop without moves cannot move again")
}

func TestEngine_AttackRejected(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)
	testutil.Place(t, e.Map(), core.Villager, 0, testutil.At(4, 2))
	before := mapfile.Format(e.Map())

	// equal strength never beats the shield
	err := e.Move(context.Background(), 0, testutil.At(4, 2), testutil.At(5, 2))
	assert.ErrorIs(t, err, core.ErrInvalidMove)
	assert.Equal(t, before, mapfile.Format(e.Map()))
	assert.Len(t, rec.ofType(events.TypeActionRejected), 1)
}

func TestEngine_RecruitAndBuild(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)
	ctx := context.Background()
	p0 := e.ActivePlayer()

	require.NoError(t, e.Recruit(ctx, 0, core.Villager, testutil.At(2, 0)))
	assert.Equal(t, 2, p0.Treasury)
	v, ok := e.Map().Occupant(testutil.At(2, 0))
	require.True(t, ok)
	assert.Equal(t, core.PlayerID(0), v.Owner)
	assert.Equal(t, 2, v.MovesLeft, "a recruit can move on the turn it is bought")
	assert.Len(t, rec.ofType(events.TypeElementPlaced), 1)

	err := e.Recruit(ctx, 0, core.Villager, testutil.At(0, 1))
	assert.ErrorIs(t, err, core.ErrInsufficientFunds)

	err = e.Recruit(ctx, 0, core.Villager, testutil.At(3, 0))
	assert.Error(t, err, "recruiting outside the territory is refused")

	p0.Treasury = 20
	require.NoError(t, e.Build(ctx, 0, testutil.At(0, 1)))
	c, ok := e.Map().Occupant(testutil.At(0, 1))
	require.True(t, ok)
	assert.Equal(t, core.Castle, c.Kind)
	assert.Equal(t, 5, p0.Treasury)
}

func TestEngine_StoredTownCoinsCredited(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		credit  int
		canHire bool
	}{
		{"NoCoins", "1T 1. 1. 0. 2T", 0, false},
		{"FullTown", "1z 1. 1. 0. 2T", 26, true},
	}

	base, _ := newTestEngine(t, tests[0].text)
	baseline := base.ActivePlayer().Treasury

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, tt.text)
			p0 := e.ActivePlayer()
			assert.Equal(t, baseline+tt.credit, p0.Treasury)

			town, ok := e.Map().Occupant(testutil.At(0, 0))
			require.True(t, ok)
			assert.Zero(t, town.Treasury, "credited coins leave the town")

			err := e.Recruit(context.Background(), 0, core.Pikeman, testutil.At(1, 0))
			if tt.canHire {
				require.NoError(t, err)
				assert.Equal(t, baseline+tt.credit-20, p0.Treasury)
			} else {
				assert.ErrorIs(t, err, core.ErrInsufficientFunds)
			}
		})
	}
}

func TestEngine_NeutralTownKeepsCoins(t *testing.T) {
	e, _ := newTestEngine(t, "1T 1. 0e 0. 2T")
	town, ok := e.Map().Occupant(testutil.At(2, 0))
	require.True(t, ok)
	assert.Equal(t, 5, town.Treasury, "unowned coins stay as loot")
}

func TestEngine_RecruitMerge(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)
	p0 := e.ActivePlayer()

	require.NoError(t, e.Recruit(context.Background(), 0, core.Villager, testutil.At(1, 1)))
	merged, ok := e.Map().Occupant(testutil.At(1, 1))
	require.True(t, ok)
	assert.Equal(t, core.Pikeman, merged.Kind)
	assert.Equal(t, 2, p0.Treasury)
	assert.Len(t, rec.ofType(events.TypeTroopsMerged), 1)
}

func TestEngine_Remove(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)

	require.NoError(t, e.Remove(context.Background(), 0, testutil.At(1, 1)))
	_, ok := e.Map().Occupant(testutil.At(1, 1))
	assert.False(t, ok)
	removed := rec.ofType(events.TypeElementRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, "disbanded", removed[0].(*events.ElementRemovedEvent).Reason)

	err := e.Remove(context.Background(), 0, testutil.At(0, 0))
	assert.ErrorIs(t, err, core.ErrIllegalPlacement, "towns cannot be disbanded")
}

func TestEngine_Undo(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)
	ctx := context.Background()
	p0 := e.ActivePlayer()
	start := mapfile.Format(e.Map())

	require.NoError(t, e.Recruit(ctx, 0, core.Villager, testutil.At(2, 0)))
	require.NoError(t, e.Move(ctx, 0, testutil.At(1, 1), testutil.At(1, 0)))
	assert.Equal(t, 2, e.UndoAvailable())

	require.NoError(t, e.Undo(ctx, 0))
	_, ok := e.Map().Occupant(testutil.At(1, 1))
	assert.True(t, ok, "the move is taken back")
	require.NoError(t, e.Process(ctx, &core.UndoAction{PlayerID: 0}))
	assert.Equal(t, start, mapfile.Format(e.Map()))
	assert.Equal(t, 12, p0.Treasury, "the recruit is refunded")
	require.NoError(t, e.Map().CheckConsistency())

	assert.ErrorIs(t, e.Undo(ctx, 0), core.ErrNothingToUndo)
	assert.ErrorIs(t, e.Undo(ctx, 1), core.ErrNotYourTurn)

	require.NoError(t, e.Move(ctx, 0, testutil.At(1, 1), testutil.At(1, 0)))
	require.NoError(t, e.EndTurn(ctx, 0))
	assert.Zero(t, e.UndoAvailable(), "history is cleared at turn end")
}

func TestEngine_UndoDepth(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)
	ctx := context.Background()
	e.ActivePlayer().Treasury = 100

	for _, at := range []core.Coordinate{testutil.At(1, 0), testutil.At(2, 0), testutil.At(0, 1)} {
		require.NoError(t, e.Recruit(ctx, 0, core.Villager, at))
	}
	require.NoError(t, e.Move(ctx, 0, testutil.At(1, 1), testutil.At(2, 1)))
	require.NoError(t, e.Remove(ctx, 0, testutil.At(0, 1)))
	assert.Equal(t, 4, e.UndoAvailable(), "history is bounded by the configured depth")
}

func TestEngine_EndTurn(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)
	ctx := context.Background()
	p0, _ := e.Player(0)
	p1, _ := e.Player(1)

	require.NoError(t, e.EndTurn(ctx, 0))

	// 12 + 5 cells - 2 villager upkeep
	assert.Equal(t, 15, p0.Treasury)
	assert.False(t, p0.IsActive())
	assert.True(t, p1.IsActive())
	assert.Equal(t, 12, p1.Treasury)
	assert.Equal(t, 2, e.Turn())
	assert.Equal(t, 1, e.Round())
	assert.Equal(t, states.TurnAction, e.TurnPhase())

	production := rec.ofType(events.TypeProductionApplied)
	require.Len(t, production, 1)
	pe := production[0].(*events.ProductionAppliedEvent)
	assert.Equal(t, 5, pe.CellIncome)
	assert.Equal(t, 2, pe.Upkeep)
	assert.False(t, pe.Deficit)

	// the settlement is published before the next turn starts
	var order []string
	for _, ev := range rec.events {
		switch ev.Type() {
		case events.TypeProductionApplied, events.TypeTurnEnded, events.TypeTurnStarted:
			order = append(order, ev.Type())
		}
	}
	assert.Equal(t, []string{
		events.TypeTurnStarted,
		events.TypeProductionApplied,
		events.TypeTurnEnded,
		events.TypeTurnStarted,
	}, order)

	require.NoError(t, e.Process(ctx, &core.EndTurnAction{PlayerID: 1}))
	assert.Equal(t, 3, e.Turn())
	assert.Equal(t, 2, e.Round(), "wrapping to the first player starts a new round")
	assert.Equal(t, core.PlayerID(0), e.ActivePlayer().ID)
}

func TestEngine_TurnStartResetsMoves(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)
	ctx := context.Background()

	p0 := e.ActivePlayer()
	p0.Treasury = 100
	require.NoError(t, e.Recruit(ctx, 0, core.Villager, testutil.At(2, 0)))
	require.NoError(t, e.Move(ctx, 0, testutil.At(1, 1), testutil.At(2, 1)))
	require.NoError(t, e.Move(ctx, 0, testutil.At(2, 0), testutil.At(1, 0)))
	require.NoError(t, e.EndTurn(ctx, 0))
	require.NoError(t, e.EndTurn(ctx, 1))

	units := &e.Map().Rules().Units
	for _, el := range e.Map().ElementsOwnedBy(0) {
		if el.IsMobile() {
			assert.Equal(t, units.Profile(el.Kind).MoveRange, el.MovesLeft, "%s should have full moves", el)
		}
	}
}

func TestEngine_Deficit(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)
	m := e.Map()
	for _, at := range []core.Coordinate{testutil.At(1, 0), testutil.At(2, 0), testutil.At(0, 1)} {
		testutil.Place(t, m, core.Villager, 0, at)
	}
	e.ActivePlayer().Treasury = 0

	require.NoError(t, e.EndTurn(context.Background(), 0))

	p0, _ := e.Player(0)
	assert.Zero(t, p0.Treasury)
	for _, el := range m.ElementsOwnedBy(0) {
		assert.False(t, el.IsMobile(), "no troop stays loyal after a deficit")
	}
	assert.Equal(t, 4, e.Snapshot().Bandits)

	pe := rec.ofType(events.TypeProductionApplied)[0].(*events.ProductionAppliedEvent)
	assert.True(t, pe.Deficit)
	assert.Equal(t, 4, pe.Disbanded)
	assert.True(t, p0.Alive, "a deficit does not eliminate")
}

func TestEngine_CaptureTownEndsGame(t *testing.T) {
	e, rec := newTestEngine(t, testutil.DuelMap)
	ctx := context.Background()
	m := e.Map()

	knight := testutil.Place(t, m, core.Knight, 0, testutil.At(5, 3))
	town, ok := m.Occupant(testutil.At(6, 3))
	require.True(t, ok)
	town.Treasury = 7
	p0 := e.ActivePlayer()
	before := p0.Treasury

	require.NoError(t, e.Move(ctx, 0, knight.Position, testutil.At(6, 3)))

	assert.Equal(t, before+7, p0.Treasury, "the town's coins are looted")
	assert.True(t, e.IsGameOver())
	assert.Equal(t, core.PlayerID(0), e.Winner())
	assert.Equal(t, states.PhaseEnded, e.Phase())
	assert.Equal(t, states.TurnGameEnd, e.TurnPhase())
	assert.Nil(t, e.ActivePlayer())

	p1, _ := e.Player(1)
	assert.False(t, p1.Alive)
	assert.Equal(t, 2, p1.Rank)
	assert.Equal(t, 1, p0.Rank)
	assert.Empty(t, m.Territory(1), "an eliminated player's land turns neutral")
	bandit, ok := m.Occupant(testutil.At(5, 2))
	require.True(t, ok)
	assert.Equal(t, core.Bandit, bandit.Kind)
	assert.Equal(t, core.NoPlayer, bandit.Owner)

	elim := rec.ofType(events.TypePlayerEliminated)
	require.Len(t, elim, 1)
	assert.Equal(t, 0, elim[0].(*events.PlayerEliminatedEvent).EliminatedBy)
	ended := rec.ofType(events.TypeGameEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, 0, ended[0].(*events.GameEndedEvent).Winner)

	err := e.Move(ctx, 0, testutil.At(1, 1), testutil.At(1, 0))
	assert.ErrorIs(t, err, core.ErrGameOver)
	assert.ErrorIs(t, e.EndTurn(ctx, 0), core.ErrGameOver)
}

func TestEngine_CaptureStrandsCutOffRegion(t *testing.T) {
	text := `
2V 2C 2. 2T
W. W. 1. 1T
`
	e, rec := newTestEngine(t, text)
	m := e.Map()
	knight := testutil.Place(t, m, core.Knight, 0, testutil.At(2, 1))
	villager, _ := m.Occupant(testutil.At(0, 0))
	castle, _ := m.Occupant(testutil.At(1, 0))

	require.NoError(t, e.Move(context.Background(), 0, knight.Position, testutil.At(2, 0)))

	tests := []struct {
		name string
		at   core.Coordinate
		id   core.ElementID
		kind core.ElementKind
	}{
		{"TroopTurnsBandit", testutil.At(0, 0), villager.ID, core.Bandit},
		{"CastleTurnsCamp", testutil.At(1, 0), castle.ID, core.Camp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, ok := m.Occupant(tt.at)
			require.True(t, ok)
			assert.Equal(t, tt.id, el.ID)
			assert.Equal(t, tt.kind, el.Kind)
			assert.Equal(t, core.NoPlayer, el.Owner)
			cell, _ := m.CellAt(tt.at)
			assert.True(t, cell.OwnedBy(1), "cut-off land keeps its owner")
		})
	}

	town, ok := m.Occupant(testutil.At(3, 0))
	require.True(t, ok)
	assert.Equal(t, core.PlayerID(1), town.Owner)
	p1, _ := e.Player(1)
	assert.True(t, p1.Alive)
	assert.False(t, e.IsGameOver())

	var stranded int
	for _, ev := range rec.ofType(events.TypeElementRemoved) {
		if ev.(*events.ElementRemovedEvent).Reason == "stranded" {
			stranded++
		}
	}
	assert.Equal(t, 2, stranded)
	require.NoError(t, m.CheckConsistency())
}

func TestEngine_CaptureKeepsLinkedTroops(t *testing.T) {
	text := `
2T 2V 2. 2C
W. W. 1. 1T
`
	e, rec := newTestEngine(t, text)
	m := e.Map()
	knight := testutil.Place(t, m, core.Knight, 0, testutil.At(2, 1))

	require.NoError(t, e.Move(context.Background(), 0, knight.Position, testutil.At(2, 0)))

	v, ok := m.Occupant(testutil.At(1, 0))
	require.True(t, ok)
	assert.Equal(t, core.Villager, v.Kind, "a troop still linked to its town stays loyal")
	assert.Equal(t, core.PlayerID(1), v.Owner)

	c, ok := m.Occupant(testutil.At(3, 0))
	require.True(t, ok)
	assert.Equal(t, core.Camp, c.Kind)
	assert.Equal(t, core.NoPlayer, c.Owner)
	assert.Len(t, rec.ofType(events.TypeElementRemoved), 1)
}

func TestEngine_SkipsPlayerWithoutTown(t *testing.T) {
	text := `
1T 1. 0. 0. 0. 0.
0. 0. 0. 0. 2. 2T
0. 0. 0. 0. 3. 3T
`
	e, _ := newTestEngine(t, text)
	require.Len(t, e.Players(), 3)

	_, err := e.Map().RemoveElement(testutil.At(5, 1))
	require.NoError(t, err)
	require.NoError(t, e.EndTurn(context.Background(), 0))

	p1, _ := e.Player(1)
	assert.False(t, p1.Alive)
	assert.Equal(t, 3, p1.Rank)
	assert.False(t, e.IsGameOver())
	assert.Equal(t, core.PlayerID(2), e.ActivePlayer().ID)
	assert.Equal(t, 2, e.Turn())
}

func TestEngine_BanditPhase(t *testing.T) {
	text := `
1T 1. 0. 0. 0. 0.
0. 0. 0B 0. 0. 0.
0. 0. 0. 0. 2. 2T
`
	e, rec := newTestEngine(t, text)
	ctx := context.Background()

	require.NoError(t, e.EndTurn(ctx, 0))
	assert.Empty(t, rec.ofType(events.TypeBanditPhase), "bandits act between rounds")
	require.NoError(t, e.EndTurn(ctx, 1))

	phases := rec.ofType(events.TypeBanditPhase)
	require.Len(t, phases, 1)
	bp := phases[0].(*events.BanditPhaseEvent)
	assert.Equal(t, 2, bp.Round)
	assert.True(t, bp.CampSpawned)
	assert.Equal(t, 1, bp.Tribute)

	snap := e.Snapshot()
	assert.Equal(t, 1, snap.Bandits)
	assert.Equal(t, 1, snap.Camps)
	for _, el := range e.Map().Elements() {
		if el.Kind == core.Camp {
			assert.Equal(t, 1, el.Treasury)
			assert.Equal(t, core.NoPlayer, el.Owner)
		}
	}
	require.NoError(t, e.Map().CheckConsistency())
}

func TestEngine_PauseResume(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)
	ctx := context.Background()

	require.NoError(t, e.Pause("test"))
	assert.Equal(t, states.PhasePaused, e.Phase())
	err := e.Move(ctx, 0, testutil.At(1, 1), testutil.At(1, 0))
	assert.Error(t, err)

	require.NoError(t, e.Resume("test"))
	require.NoError(t, e.Move(ctx, 0, testutil.At(1, 1), testutil.At(1, 0)))
}

func TestEngine_CancelledContext(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Move(ctx, 0, testutil.At(1, 1), testutil.At(1, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Snapshot(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)
	s := e.Snapshot()

	assert.Equal(t, "test-game", s.GameID)
	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, "Running", s.Phase)
	assert.Equal(t, "PlayerTurnAction", s.TurnPhase)
	assert.Equal(t, core.PlayerID(0), s.Active)
	require.Len(t, s.Players, 2)

	p0 := s.Players[0]
	assert.True(t, p0.Active)
	assert.Equal(t, 1, p0.Towns)
	assert.Equal(t, 1, p0.Troops)
	assert.Equal(t, 5, p0.Territory)
	assert.Equal(t, 1, p0.Strength)
	assert.Equal(t, 2, p0.Upkeep)
	assert.False(t, s.Players[1].Active)
}

func TestEngine_Board(t *testing.T) {
	e, _ := newTestEngine(t, testutil.DuelMap)

	board := e.Board()
	assert.Contains(t, board, ColorReset)

	plain := RenderMap(e.Map(), false)
	assert.NotContains(t, plain, "\033[")
	assert.Contains(t, plain, "AT", "player A's town")
	assert.Contains(t, plain, "Av", "player A's villager")
	assert.Contains(t, plain, "BT", "player B's town")
	assert.Contains(t, plain, "^^")
	assert.Contains(t, plain, "~~")
}

func TestPlayRandomTurn(t *testing.T) {
	e, err := NewEngine(context.Background(), GameConfig{
		Width:   12,
		Height:  10,
		Players: 2,
		Seed:    7,
		Rng:     testutil.NewTestRNG(7),
		Logger:  testutil.NopLogger(),
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, e.Start(ctx))

	rng := testutil.NewTestRNG(99)
	for turn := 0; turn < 40 && !e.IsGameOver(); turn++ {
		_, err := PlayRandomTurn(ctx, e, rng, 10)
		require.NoError(t, err)
		require.NoError(t, e.Map().CheckConsistency(), "turn %d", turn)

		active := 0
		for _, p := range e.Players() {
			if p.IsActive() {
				active++
			}
		}
		assert.LessOrEqual(t, active, 1, "turn %d has more than one player acting", turn)
		if !e.IsGameOver() {
			assert.Equal(t, 1, active, "turn %d", turn)
		}
	}
	assert.Greater(t, e.Turn(), 1)
}
