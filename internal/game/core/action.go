package core

import "fmt"

// ActionType represents the type of action
type ActionType int

const (
	ActionMove ActionType = iota
	ActionRecruit
	ActionRemove
	ActionEndTurn
	ActionUndo
)

func (t ActionType) String() string {
	switch t {
	case ActionMove:
		return "move"
	case ActionRecruit:
		return "recruit"
	case ActionRemove:
		return "remove"
	case ActionEndTurn:
		return "end_turn"
	case ActionUndo:
		return "undo"
	default:
		return fmt.Sprintf("action(%d)", int(t))
	}
}

// Action represents a player action. Validate only checks what can be known
// from the map; turn order and funds are checked by the engine.
type Action interface {
	GetPlayerID() PlayerID
	GetType() ActionType
	Describe() string
	Validate(m *Map) error
}

// MoveAction moves the troop on From to To
type MoveAction struct {
	PlayerID PlayerID
	From     Coordinate
	To       Coordinate
}

func (a *MoveAction) GetPlayerID() PlayerID { return a.PlayerID }
func (a *MoveAction) GetType() ActionType   { return ActionMove }
func (a *MoveAction) Describe() string {
	return fmt.Sprintf("move from %s to %s", a.From, a.To)
}

func (a *MoveAction) Validate(m *Map) error {
	if !m.InBounds(a.From) {
		return fmt.Errorf("from %s: %w", a.From, ErrOutOfBounds)
	}
	if !m.InBounds(a.To) {
		return fmt.Errorf("to %s: %w", a.To, ErrOutOfBounds)
	}
	if a.From == a.To {
		return fmt.Errorf("move to self: %w", ErrInvalidMove)
	}
	e, ok := m.Occupant(a.From)
	if !ok {
		return fmt.Errorf("from %s: %w", a.From, ErrNoOccupant)
	}
	if e.Owner != a.PlayerID {
		return fmt.Errorf("%s belongs to player %d: %w", e, e.Owner, ErrNotYourTurn)
	}
	if !e.IsMobile() {
		return fmt.Errorf("%s cannot move: %w", e.Kind, ErrInvalidMove)
	}
	return nil
}

// RecruitAction buys a troop or builds a castle at At
type RecruitAction struct {
	PlayerID PlayerID
	Kind     ElementKind
	At       Coordinate
}

func (a *RecruitAction) GetPlayerID() PlayerID { return a.PlayerID }
func (a *RecruitAction) GetType() ActionType   { return ActionRecruit }
func (a *RecruitAction) Describe() string {
	return fmt.Sprintf("recruit %s at %s", a.Kind, a.At)
}

func (a *RecruitAction) Validate(m *Map) error {
	if !m.InBounds(a.At) {
		return fmt.Errorf("at %s: %w", a.At, ErrOutOfBounds)
	}
	switch a.Kind {
	case Villager, Pikeman, Knight, Hero, Castle:
	default:
		return fmt.Errorf("%s cannot be recruited: %w", a.Kind, ErrIllegalPlacement)
	}
	return nil
}

// RemoveAction disbands the player's own element at At
type RemoveAction struct {
	PlayerID PlayerID
	At       Coordinate
}

func (a *RemoveAction) GetPlayerID() PlayerID { return a.PlayerID }
func (a *RemoveAction) GetType() ActionType   { return ActionRemove }
func (a *RemoveAction) Describe() string      { return fmt.Sprintf("remove at %s", a.At) }

func (a *RemoveAction) Validate(m *Map) error {
	if !m.InBounds(a.At) {
		return fmt.Errorf("at %s: %w", a.At, ErrOutOfBounds)
	}
	e, ok := m.Occupant(a.At)
	if !ok {
		return fmt.Errorf("at %s: %w", a.At, ErrNoOccupant)
	}
	if e.Owner != a.PlayerID {
		return fmt.Errorf("%s belongs to player %d: %w", e, e.Owner, ErrNotYourTurn)
	}
	if e.Kind == Town {
		return fmt.Errorf("towns cannot be disbanded: %w", ErrIllegalPlacement)
	}
	return nil
}

// EndTurnAction hands the turn to the next player
type EndTurnAction struct {
	PlayerID PlayerID
}

func (a *EndTurnAction) GetPlayerID() PlayerID { return a.PlayerID }
func (a *EndTurnAction) GetType() ActionType   { return ActionEndTurn }
func (a *EndTurnAction) Describe() string      { return "end turn" }
func (a *EndTurnAction) Validate(*Map) error   { return nil }

// UndoAction reverts the player's last action of the current turn
type UndoAction struct {
	PlayerID PlayerID
}

func (a *UndoAction) GetPlayerID() PlayerID { return a.PlayerID }
func (a *UndoAction) GetType() ActionType   { return ActionUndo }
func (a *UndoAction) Describe() string      { return "undo" }
func (a *UndoAction) Validate(*Map) error   { return nil }
