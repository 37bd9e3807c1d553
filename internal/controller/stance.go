package controller

import (
	"log/slog"

	"github.com/Versifine/fpcontroller/internal/event"
)

// Stance is the standing or crouching state driven by the crouch control.
type Stance int

const (
	StanceStanding Stance = iota
	StanceCrouching
)

func (s Stance) String() string {
	switch s {
	case StanceStanding:
		return "standing"
	case StanceCrouching:
		return "crouching"
	default:
		return "unknown"
	}
}

func (c *Controller) crouch() {
	c.stance = StanceCrouching
	c.moveSpeed = c.settings.CrouchSpeed
	c.changeHeight(c.settings.CrouchHeight)
}

func (c *Controller) stand() {
	c.stance = StanceStanding
	c.moveSpeed = c.originalMoveSpeed
	c.changeHeight(c.settings.StandHeight)
}

func (c *Controller) changeHeight(height float64) {
	resized := c.mover != nil && c.mover.SetHeight(height)
	if resized {
		c.height = height
	} else {
		slog.Debug("Height change rejected", "requested", height, "current", c.height)
	}
	c.publish(event.EventStanceChanged, event.StanceEvent{
		Stance:    c.stance.String(),
		Height:    c.height,
		MoveSpeed: c.moveSpeed,
		Resized:   resized,
	})
}

// syncHeight picks up a resize the collider completed on its own, such as a
// refused stand that succeeds once the agent leaves the ceiling.
func (c *Controller) syncHeight() {
	r, ok := c.mover.(HeightReporter)
	if !ok {
		return
	}
	height := r.Height()
	if height == c.height {
		return
	}
	c.height = height
	slog.Debug("Collider height caught up", "height", height)
	c.publish(event.EventStanceChanged, event.StanceEvent{
		Stance:    c.stance.String(),
		Height:    c.height,
		MoveSpeed: c.moveSpeed,
		Resized:   true,
	})
}
