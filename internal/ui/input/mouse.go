package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/HexConquest/internal/game/core"
)

func IsLeftClickJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func IsRightClickJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
}

// CursorPixel returns the cursor position in screen space
func CursorPixel() core.Pixel {
	x, y := ebiten.CursorPosition()
	return core.Pixel{X: float64(x), Y: float64(y)}
}
