package input

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/fpcontroller/internal/controller"
)

// Frame is what one Sample call produced.
type Frame struct {
	Commands []controller.Command
	// ReleaseCursor is true on the frame the release control went down.
	ReleaseCursor bool
}

// Sampler turns polled device state into controller commands. Discrete
// controls report started and performed on the press frame and canceled on
// release; the move axis is reported when it changes, the look axis while the
// cursor moves and once more with zero when it stops.
type Sampler struct {
	actions    *ActionMap
	source     Source
	mouseScale float64
	lookActive bool

	prevPressed map[string]bool
	lastMove    mgl64.Vec2
	lastLook    mgl64.Vec2
	cursor      [2]int
	haveCursor  bool
}

func NewSampler(actions *ActionMap, source Source, mouseScale float64) *Sampler {
	return &Sampler{
		actions:     actions,
		source:      source,
		mouseScale:  mouseScale,
		lookActive:  true,
		prevPressed: make(map[string]bool),
	}
}

// SetLookActive stops look output while the cursor is not captured. The next
// cursor reading after reactivation only re-anchors the delta.
func (s *Sampler) SetLookActive(active bool) {
	if active && !s.lookActive {
		s.haveCursor = false
	}
	s.lookActive = active
}

func (s *Sampler) Sample() Frame {
	var frame Frame

	move := s.moveAxis()
	if move != s.lastMove {
		frame.Commands = append(frame.Commands, controller.Command{Action: controller.ActionMove, Edge: controller.EdgePerformed, Value: move})
		s.lastMove = move
	}

	look := s.lookDelta()
	if look != (mgl64.Vec2{}) || s.lastLook != (mgl64.Vec2{}) {
		frame.Commands = append(frame.Commands, controller.Command{Action: controller.ActionLook, Edge: controller.EdgePerformed, Value: look})
	}
	s.lastLook = look

	for _, control := range s.actions.Controls() {
		pressed := s.actions.Pressed(control, s.source)
		was := s.prevPressed[control]
		s.prevPressed[control] = pressed
		if pressed == was {
			continue
		}

		if control == ControlReleaseCursor {
			frame.ReleaseCursor = pressed
			continue
		}
		action, ok := buttonActions[control]
		if !ok {
			continue
		}
		if pressed {
			frame.Commands = append(frame.Commands,
				controller.Command{Action: action, Edge: controller.EdgeStarted},
				controller.Command{Action: action, Edge: controller.EdgePerformed},
			)
		} else {
			frame.Commands = append(frame.Commands, controller.Command{Action: action, Edge: controller.EdgeCanceled})
		}
	}
	return frame
}

// Push samples and queues the commands on q.
func (s *Sampler) Push(q *controller.Queue) Frame {
	frame := s.Sample()
	for _, cmd := range frame.Commands {
		q.Push(cmd)
	}
	return frame
}

func (s *Sampler) moveAxis() mgl64.Vec2 {
	var v mgl64.Vec2
	if s.actions.Pressed(ControlRight, s.source) {
		v[0]++
	}
	if s.actions.Pressed(ControlLeft, s.source) {
		v[0]--
	}
	if s.actions.Pressed(ControlForward, s.source) {
		v[1]++
	}
	if s.actions.Pressed(ControlBack, s.source) {
		v[1]--
	}
	if v.Len() > 1 {
		v = v.Normalize()
	}
	return v
}

// lookDelta converts cursor movement to look input. Screen Y grows downward,
// look Y grows upward.
func (s *Sampler) lookDelta() mgl64.Vec2 {
	x, y := s.source.CursorPosition()
	prev, had := s.cursor, s.haveCursor
	s.cursor, s.haveCursor = [2]int{x, y}, true
	if !had || !s.lookActive {
		return mgl64.Vec2{}
	}
	dx := float64(x - prev[0])
	dy := float64(y - prev[1])
	return mgl64.Vec2{dx * s.mouseScale, -dy * s.mouseScale}
}
