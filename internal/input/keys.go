package input

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

var keyNames = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"0": ebiten.Key0, "1": ebiten.Key1, "2": ebiten.Key2, "3": ebiten.Key3,
	"4": ebiten.Key4, "5": ebiten.Key5, "6": ebiten.Key6, "7": ebiten.Key7,
	"8": ebiten.Key8, "9": ebiten.Key9,

	"arrow_up":      ebiten.KeyArrowUp,
	"arrow_down":    ebiten.KeyArrowDown,
	"arrow_left":    ebiten.KeyArrowLeft,
	"arrow_right":   ebiten.KeyArrowRight,
	"space":         ebiten.KeySpace,
	"enter":         ebiten.KeyEnter,
	"escape":        ebiten.KeyEscape,
	"tab":           ebiten.KeyTab,
	"backspace":     ebiten.KeyBackspace,
	"shift_left":    ebiten.KeyShiftLeft,
	"shift_right":   ebiten.KeyShiftRight,
	"control_left":  ebiten.KeyControlLeft,
	"control_right": ebiten.KeyControlRight,
	"alt_left":      ebiten.KeyAltLeft,
	"alt_right":     ebiten.KeyAltRight,
}

var buttonNames = map[string]ebiten.MouseButton{
	"mouse_left":   ebiten.MouseButtonLeft,
	"mouse_right":  ebiten.MouseButtonRight,
	"mouse_middle": ebiten.MouseButtonMiddle,
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}

func ParseKey(name string) (ebiten.Key, bool) {
	key, ok := keyNames[normalizeName(name)]
	return key, ok
}

func ParseMouseButton(name string) (ebiten.MouseButton, bool) {
	button, ok := buttonNames[normalizeName(name)]
	return button, ok
}
