package input

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Versifine/fpcontroller/internal/controller"
)

type fakeSource struct {
	keys    map[ebiten.Key]bool
	buttons map[ebiten.MouseButton]bool
	x, y    int
}

func newFakeSource() *fakeSource {
	return &fakeSource{keys: map[ebiten.Key]bool{}, buttons: map[ebiten.MouseButton]bool{}}
}

func (f *fakeSource) IsKeyPressed(key ebiten.Key) bool { return f.keys[key] }
func (f *fakeSource) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return f.buttons[button]
}
func (f *fakeSource) CursorPosition() (int, int) { return f.x, f.y }

var testBindings = map[string][]string{
	ControlForward:       {"w"},
	ControlBack:          {"s"},
	ControlLeft:          {"a"},
	ControlRight:         {"d"},
	ControlJump:          {"space"},
	ControlCrouch:        {"c", "control_left"},
	ControlShoot:         {"mouse_left"},
	ControlPickUp:        {"e"},
	ControlThrow:         {"q"},
	ControlReleaseCursor: {"escape"},
}

func newTestSampler(t *testing.T, src *fakeSource) *Sampler {
	t.Helper()
	m, err := NewActionMap(testBindings)
	if err != nil {
		t.Fatalf("NewActionMap failed: %v", err)
	}
	return NewSampler(m, src, 0.5)
}

func TestParseKeyAndButton(t *testing.T) {
	if k, ok := ParseKey(" Arrow-Up "); !ok || k != ebiten.KeyArrowUp {
		t.Fatalf("ParseKey(Arrow-Up) = %v, %v", k, ok)
	}
	if k, ok := ParseKey("W"); !ok || k != ebiten.KeyW {
		t.Fatalf("ParseKey(W) = %v, %v", k, ok)
	}
	if _, ok := ParseKey("mouse_left"); ok {
		t.Fatalf("mouse_left should not parse as a key")
	}
	if b, ok := ParseMouseButton("mouse right"); !ok || b != ebiten.MouseButtonRight {
		t.Fatalf("ParseMouseButton(mouse right) = %v, %v", b, ok)
	}
}

func TestNewActionMapErrors(t *testing.T) {
	tests := []struct {
		name     string
		bindings map[string][]string
	}{
		{"unknown control", map[string][]string{"dance": {"x"}}},
		{"unknown key", map[string][]string{ControlJump: {"hyperspace"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewActionMap(tt.bindings); err == nil {
				t.Fatalf("expected error for %v", tt.bindings)
			}
		})
	}
}

func TestActionMapBinding(t *testing.T) {
	m, err := NewActionMap(testBindings)
	if err != nil {
		t.Fatalf("NewActionMap failed: %v", err)
	}
	b, ok := m.Binding(ControlCrouch)
	if !ok || len(b.Keys) != 2 || len(b.Buttons) != 0 {
		t.Fatalf("crouch binding = %+v, %v", b, ok)
	}
	b, _ = m.Binding(ControlShoot)
	if len(b.Buttons) != 1 || b.Buttons[0] != ebiten.MouseButtonLeft {
		t.Fatalf("shoot binding = %+v", b)
	}
	if got := len(m.Controls()); got != len(testBindings) {
		t.Fatalf("Controls() has %d entries, want %d", got, len(testBindings))
	}
}

func TestSamplerMoveAxis(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)

	src.keys[ebiten.KeyW] = true
	src.keys[ebiten.KeyD] = true
	frame := s.Sample()
	if len(frame.Commands) != 1 || frame.Commands[0].Action != controller.ActionMove {
		t.Fatalf("commands = %+v, want one move", frame.Commands)
	}
	v := frame.Commands[0].Value
	if math.Abs(v.Len()-1) > 1e-9 || math.Abs(v.X()-v.Y()) > 1e-9 {
		t.Fatalf("diagonal move = %v, want normalized (0.707, 0.707)", v)
	}

	// unchanged axis is not reported again
	if frame := s.Sample(); len(frame.Commands) != 0 {
		t.Fatalf("commands = %+v, want none", frame.Commands)
	}

	src.keys[ebiten.KeyW] = false
	src.keys[ebiten.KeyD] = false
	frame = s.Sample()
	if len(frame.Commands) != 1 || frame.Commands[0].Value != (mgl64.Vec2{}) {
		t.Fatalf("commands = %+v, want zero move", frame.Commands)
	}
}

func TestSamplerOpposingKeysCancel(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)
	src.keys[ebiten.KeyA] = true
	src.keys[ebiten.KeyD] = true

	if frame := s.Sample(); len(frame.Commands) != 0 {
		t.Fatalf("commands = %+v, want none", frame.Commands)
	}
}

func TestSamplerButtonEdges(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)

	src.keys[ebiten.KeyC] = true
	frame := s.Sample()
	want := []controller.Command{
		{Action: controller.ActionCrouch, Edge: controller.EdgeStarted},
		{Action: controller.ActionCrouch, Edge: controller.EdgePerformed},
	}
	assertCommands(t, frame.Commands, want)

	// holding a second key bound to the same control is not a new press
	src.keys[ebiten.KeyControlLeft] = true
	assertCommands(t, s.Sample().Commands, nil)

	src.keys[ebiten.KeyC] = false
	assertCommands(t, s.Sample().Commands, nil)

	src.keys[ebiten.KeyControlLeft] = false
	assertCommands(t, s.Sample().Commands, []controller.Command{
		{Action: controller.ActionCrouch, Edge: controller.EdgeCanceled},
	})
}

func TestSamplerMouseButton(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)

	src.buttons[ebiten.MouseButtonLeft] = true
	assertCommands(t, s.Sample().Commands, []controller.Command{
		{Action: controller.ActionShoot, Edge: controller.EdgeStarted},
		{Action: controller.ActionShoot, Edge: controller.EdgePerformed},
	})
}

func TestSamplerLookDelta(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)
	src.x, src.y = 100, 100

	// first reading only anchors the cursor
	assertCommands(t, s.Sample().Commands, nil)

	src.x, src.y = 110, 96
	assertCommands(t, s.Sample().Commands, []controller.Command{
		{Action: controller.ActionLook, Edge: controller.EdgePerformed, Value: mgl64.Vec2{5, 2}},
	})

	// cursor stopped: one zero sample, then silence
	assertCommands(t, s.Sample().Commands, []controller.Command{
		{Action: controller.ActionLook, Edge: controller.EdgePerformed},
	})
	assertCommands(t, s.Sample().Commands, nil)
}

func TestSamplerLookInactive(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)
	s.Sample()

	s.SetLookActive(false)
	src.x = 50
	assertCommands(t, s.Sample().Commands, nil)

	s.SetLookActive(true)
	src.x = 80
	// re-anchored: the jump while released is not replayed
	assertCommands(t, s.Sample().Commands, nil)
	src.x = 82
	assertCommands(t, s.Sample().Commands, []controller.Command{
		{Action: controller.ActionLook, Edge: controller.EdgePerformed, Value: mgl64.Vec2{1, 0}},
	})
}

func TestSamplerReleaseCursor(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)

	src.keys[ebiten.KeyEscape] = true
	frame := s.Sample()
	if !frame.ReleaseCursor || len(frame.Commands) != 0 {
		t.Fatalf("frame = %+v, want release only", frame)
	}
	if s.Sample().ReleaseCursor {
		t.Fatalf("holding escape should not release again")
	}
}

func TestSamplerPushQueuesCommands(t *testing.T) {
	src := newFakeSource()
	s := newTestSampler(t, src)
	q := controller.NewQueue()

	src.keys[ebiten.KeySpace] = true
	src.keys[ebiten.KeyW] = true
	s.Push(q)

	cmds := q.Drain()
	if len(cmds) != 3 {
		t.Fatalf("queued %d commands, want 3 (move, jump started, jump performed)", len(cmds))
	}
	if cmds[0].Action != controller.ActionMove || cmds[2].Action != controller.ActionJump || cmds[2].Edge != controller.EdgePerformed {
		t.Fatalf("queued = %+v", cmds)
	}
}

func assertCommands(t *testing.T, got, want []controller.Command) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("commands = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Action != want[i].Action || got[i].Edge != want[i].Edge || !got[i].Value.ApproxEqual(want[i].Value) {
			t.Fatalf("command[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
