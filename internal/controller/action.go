package controller

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type Action int

const (
	ActionMove Action = iota
	ActionLook
	ActionJump
	ActionShoot
	ActionCrouch
	ActionPickUp
	ActionThrow
)

var actionNames = map[Action]string{
	ActionMove:   "move",
	ActionLook:   "look",
	ActionJump:   "jump",
	ActionShoot:  "shoot",
	ActionCrouch: "crouch",
	ActionPickUp: "pickup",
	ActionThrow:  "throw",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for action, actionName := range actionNames {
		if actionName == name {
			return action, true
		}
	}
	return 0, false
}

// Edge marks the phase of a discrete input: started when the control is first
// actuated, performed when the action fires, canceled when it is released.
type Edge int

const (
	EdgeStarted Edge = iota
	EdgePerformed
	EdgeCanceled
)

func (e Edge) String() string {
	switch e {
	case EdgeStarted:
		return "started"
	case EdgePerformed:
		return "performed"
	case EdgeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func ParseEdge(name string) (Edge, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "started":
		return EdgeStarted, true
	case "performed", "pressed", "":
		return EdgePerformed, true
	case "canceled", "cancelled", "released":
		return EdgeCanceled, true
	default:
		return 0, false
	}
}

// Command is one input event queued for the controller.
type Command struct {
	Action Action
	Edge   Edge
	Value  mgl64.Vec2
}

// Handle dispatches a command to its On* handler.
func (c *Controller) Handle(cmd Command) {
	switch cmd.Action {
	case ActionMove:
		c.OnMove(cmd.Value)
	case ActionLook:
		c.OnLook(cmd.Value)
	case ActionJump:
		c.OnJump(cmd.Edge)
	case ActionShoot:
		c.OnShoot(cmd.Edge)
	case ActionCrouch:
		c.OnCrouch(cmd.Edge)
	case ActionPickUp:
		c.OnPickUp(cmd.Edge)
	case ActionThrow:
		c.OnThrow(cmd.Edge)
	}
}

// OnMove stores the move axis used by later ticks.
func (c *Controller) OnMove(value mgl64.Vec2) {
	c.moveInput = value
}

// OnLook stores the look axis applied on every tick until it changes.
func (c *Controller) OnLook(value mgl64.Vec2) {
	c.lookInput = value
}

// OnJump jumps on the performed edge while grounded.
func (c *Controller) OnJump(edge Edge) {
	if edge == EdgePerformed {
		c.jump()
	}
}

// OnShoot fires a projectile on the performed edge.
func (c *Controller) OnShoot(edge Edge) {
	if edge == EdgePerformed {
		c.shoot()
	}
}

// OnCrouch crouches on the performed edge and stands on the canceled edge.
func (c *Controller) OnCrouch(edge Edge) {
	switch edge {
	case EdgePerformed:
		c.crouch()
	case EdgeCanceled:
		c.stand()
	}
}

// OnPickUp picks up the carryable in range, or drops the held one.
func (c *Controller) OnPickUp(edge Edge) {
	if edge == EdgePerformed {
		c.togglePickUp()
	}
}

// OnThrow throws the held object along the camera forward.
func (c *Controller) OnThrow(edge Edge) {
	if edge == EdgePerformed {
		c.throwHeld()
	}
}
