package input

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Versifine/fpcontroller/internal/controller"
)

// Control names. The four directions compose the move axis; the rest map
// onto discrete controller actions, except ControlReleaseCursor which belongs
// to the front end.
const (
	ControlForward       = "forward"
	ControlBack          = "back"
	ControlLeft          = "left"
	ControlRight         = "right"
	ControlJump          = "jump"
	ControlCrouch        = "crouch"
	ControlShoot         = "shoot"
	ControlPickUp        = "pickup"
	ControlThrow         = "throw"
	ControlReleaseCursor = "release_cursor"
)

var buttonActions = map[string]controller.Action{
	ControlJump:   controller.ActionJump,
	ControlCrouch: controller.ActionCrouch,
	ControlShoot:  controller.ActionShoot,
	ControlPickUp: controller.ActionPickUp,
	ControlThrow:  controller.ActionThrow,
}

type Binding struct {
	Keys    []ebiten.Key
	Buttons []ebiten.MouseButton
}

func (b Binding) pressed(src Source) bool {
	for _, k := range b.Keys {
		if src.IsKeyPressed(k) {
			return true
		}
	}
	for _, btn := range b.Buttons {
		if src.IsMouseButtonPressed(btn) {
			return true
		}
	}
	return false
}

// ActionMap resolves control names to physical inputs.
type ActionMap struct {
	bindings map[string]Binding
}

func NewActionMap(bindings map[string][]string) (*ActionMap, error) {
	m := &ActionMap{bindings: make(map[string]Binding, len(bindings))}
	for control, names := range bindings {
		if !knownControl(control) {
			return nil, fmt.Errorf("unknown control %q", control)
		}
		var b Binding
		for _, name := range names {
			if key, ok := ParseKey(name); ok {
				b.Keys = append(b.Keys, key)
				continue
			}
			if btn, ok := ParseMouseButton(name); ok {
				b.Buttons = append(b.Buttons, btn)
				continue
			}
			return nil, fmt.Errorf("control %q: unknown key %q", control, name)
		}
		m.bindings[control] = b
	}
	return m, nil
}

func (m *ActionMap) Binding(control string) (Binding, bool) {
	b, ok := m.bindings[control]
	return b, ok
}

func (m *ActionMap) Pressed(control string, src Source) bool {
	b, ok := m.bindings[control]
	return ok && b.pressed(src)
}

// Controls lists the bound control names in a stable order.
func (m *ActionMap) Controls() []string {
	out := make([]string, 0, len(m.bindings))
	for c := range m.bindings {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func knownControl(name string) bool {
	switch name {
	case ControlForward, ControlBack, ControlLeft, ControlRight, ControlReleaseCursor:
		return true
	}
	_, ok := buttonActions[name]
	return ok
}
