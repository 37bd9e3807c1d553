package controller

import (
	"log/slog"

	"github.com/Versifine/fpcontroller/internal/event"
)

// togglePickUp picks up the carryable under the crosshair, or drops the held
// one. Both share a single trigger.
// A press that finds the held object already gone only releases it.
func (c *Controller) togglePickUp() {
	if c.releaseIfGone() {
		return
	}

	if c.held != nil {
		c.dropHeld()
		return
	}

	if c.raycaster == nil {
		return
	}
	hit, ok := c.raycaster.Raycast(c.CameraPosition(), c.CameraForward(), c.settings.PickupRange)
	if !ok || hit.Distance > c.settings.PickupRange {
		return
	}
	carry, ok := hit.Target.(Carryable)
	if !ok || !alive(carry) {
		return
	}

	carry.PickUp(c.hold)
	c.held = carry
	slog.Debug("Picked up object", "distance", hit.Distance)
	c.publish(event.EventPickedUp, event.CarryEvent{Target: carry})
}

func (c *Controller) dropHeld() {
	held := c.held
	held.Drop()
	c.held = nil
	slog.Debug("Dropped object")
	c.publish(event.EventDropped, event.CarryEvent{Target: held})
}

func (c *Controller) throwHeld() {
	c.releaseIfGone()
	if c.held == nil {
		return
	}

	impulse := c.CameraForward().Mul(c.settings.ThrowForce).Add(worldUp.Mul(c.settings.ThrowUpwardBoost))
	held := c.held
	held.Throw(impulse)
	c.held = nil
	slog.Debug("Threw object", "impulse", impulse)
	c.publish(event.EventThrown, event.CarryEvent{Target: held, Impulse: impulse})
}

func (c *Controller) followHoldPoint() {
	c.releaseIfGone()
	if c.held == nil {
		return
	}
	c.held.MoveToHoldPoint(c.HoldPoint())
}

// releaseIfGone clears a held object that was destroyed behind our back and
// reports whether it did.
func (c *Controller) releaseIfGone() bool {
	if c.held == nil || alive(c.held) {
		return false
	}
	lost := c.held
	c.held = nil
	slog.Debug("Held object no longer alive, releasing")
	c.publish(event.EventHeldLost, event.CarryEvent{Target: lost})
	return true
}

func alive(carry Carryable) bool {
	if carry == nil {
		return false
	}
	if l, ok := carry.(Liveness); ok {
		return l.Alive()
	}
	return true
}
