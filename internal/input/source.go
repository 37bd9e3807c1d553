package input

import "github.com/hajimehoshi/ebiten/v2"

// Source is the device state polled once per frame.
type Source interface {
	IsKeyPressed(key ebiten.Key) bool
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	CursorPosition() (x, y int)
}

// EbitenSource reads the live ebiten input state. It is only valid inside the
// game loop.
type EbitenSource struct{}

func (EbitenSource) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

func (EbitenSource) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(button)
}

func (EbitenSource) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}
