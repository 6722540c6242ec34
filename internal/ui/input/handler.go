package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

type SelectionState int

const (
	SelectionNone SelectionState = iota
	SelectionCellSelected
	SelectionRecruit
)

type CommandKind int

const (
	CommandMove CommandKind = iota
	CommandRecruit
	CommandEndTurn
	CommandUndo
)

// Command is a player intent collected from the mouse and keyboard
type Command struct {
	Kind CommandKind
	From core.Coordinate
	To   core.Coordinate
	// Recruit is the kind bought by a CommandRecruit, placed at To
	Recruit core.ElementKind
}

var recruitKeys = map[ebiten.Key]core.ElementKind{
	ebiten.Key1: core.Villager,
	ebiten.Key2: core.Pikeman,
	ebiten.Key3: core.Knight,
	ebiten.Key4: core.Hero,
	ebiten.KeyC: core.Castle,
}

type Handler struct {
	// Mouse state
	mouse core.Pixel

	// Selection state
	selectionState SelectionState
	selected       core.Coordinate
	recruitKind    core.ElementKind

	// Collected commands
	pending []Command

	// Board geometry
	hexSize float64
	origin  core.Pixel

	// Turn state
	isPlayerTurn bool

	// Validation callback
	cellValidator         func(c core.Coordinate) (bool, string)
	lastValidationMessage string
}

func NewHandler(hexSize int) *Handler {
	return &Handler{
		hexSize:        float64(hexSize),
		selectionState: SelectionNone,
		recruitKind:    core.NoKind,
		pending:        make([]Command, 0),
	}
}

func (h *Handler) Update() {
	h.mouse = CursorPixel()

	if IsLeftClickJustPressed() {
		h.handleLeftClick()
	}
	if IsRightClickJustPressed() {
		h.clearSelection()
	}

	h.handleKeyboard()
}

func (h *Handler) handleLeftClick() {
	if !h.isPlayerTurn {
		return
	}
	c := h.ScreenToCell(h.mouse)

	switch h.selectionState {
	case SelectionNone:
		// Select a cell if it holds one of the player's troops
		if h.cellValidator != nil {
			if valid, msg := h.cellValidator(c); !valid {
				h.lastValidationMessage = msg
				return
			}
		}
		h.selected = c
		h.selectionState = SelectionCellSelected
		h.lastValidationMessage = ""

	case SelectionCellSelected:
		// Clicking the same cell deselects, anything else is a move
		if c != h.selected {
			h.pending = append(h.pending, Command{Kind: CommandMove, From: h.selected, To: c})
		}
		h.selectionState = SelectionNone

	case SelectionRecruit:
		h.pending = append(h.pending, Command{Kind: CommandRecruit, To: c, Recruit: h.recruitKind})
	}
}

func (h *Handler) handleKeyboard() {
	for key, kind := range recruitKeys {
		if inpututil.IsKeyJustPressed(key) {
			h.recruitKind = kind
			h.selectionState = SelectionRecruit
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.clearSelection()
	}

	if !h.isPlayerTurn {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		h.pending = append(h.pending, Command{Kind: CommandEndTurn})
		h.clearSelection()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		h.pending = append(h.pending, Command{Kind: CommandUndo})
	}
}

func (h *Handler) clearSelection() {
	h.selectionState = SelectionNone
	h.recruitKind = core.NoKind
}

// ScreenToCell returns the cell under a screen position
func (h *Handler) ScreenToCell(p core.Pixel) core.Coordinate {
	return core.PixelToOffset(core.Pixel{X: p.X - h.origin.X, Y: p.Y - h.origin.Y}, h.hexSize)
}

func (h *Handler) SetBoardOrigin(p core.Pixel) {
	h.origin = p
}

func (h *Handler) SetPlayerTurn(isTurn bool) {
	if isTurn && !h.isPlayerTurn {
		h.pending = h.pending[:0]
	}
	if !isTurn {
		h.selectionState = SelectionNone
	}
	h.isPlayerTurn = isTurn
}

func (h *Handler) GetSelectedCell() (core.Coordinate, bool) {
	return h.selected, h.selectionState == SelectionCellSelected
}

// GetRecruitKind returns the kind being placed, or NoKind
func (h *Handler) GetRecruitKind() core.ElementKind {
	if h.selectionState != SelectionRecruit {
		return core.NoKind
	}
	return h.recruitKind
}

func (h *Handler) GetHoveredCell() core.Coordinate {
	return h.ScreenToCell(h.mouse)
}

func (h *Handler) GetPendingCommands() []Command {
	return h.pending
}

func (h *Handler) ClearPendingCommands() {
	h.pending = h.pending[:0]
}

func (h *Handler) SetCellValidator(validator func(c core.Coordinate) (bool, string)) {
	h.cellValidator = validator
}

func (h *Handler) GetLastValidationMessage() string {
	msg := h.lastValidationMessage
	h.lastValidationMessage = "" // Clear after reading
	return msg
}
