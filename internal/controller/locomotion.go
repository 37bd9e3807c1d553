package controller

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/fpcontroller/internal/event"
)

func (c *Controller) integrateMovement(dt float64) {
	if c.mover == nil {
		return
	}

	move := c.Right().Mul(c.moveInput.X()).Add(c.Forward().Mul(c.moveInput.Y()))
	c.move(move.Mul(c.moveSpeed * dt))

	if c.mover.IsGrounded() && c.velocity.Y() < 0 {
		c.velocity[1] = c.settings.StickVelocity
	}
	c.velocity[1] += c.settings.Gravity * dt
	c.move(c.velocity.Mul(dt))
}

func (c *Controller) move(displacement mgl64.Vec3) {
	applied := c.mover.Move(displacement)
	c.position = c.position.Add(applied)
}

// JumpVelocity is the launch speed that peaks at exactly height under gravity.
func JumpVelocity(height, gravity float64) float64 {
	return math.Sqrt(height * -2 * gravity)
}

func (c *Controller) jump() {
	if c.mover == nil || !c.mover.IsGrounded() {
		return
	}
	c.velocity[1] = JumpVelocity(c.settings.JumpHeight, c.settings.Gravity)
	slog.Debug("Jumped", "velocity", c.velocity[1])
	c.publish(event.EventJumped, event.JumpEvent{Position: c.position, Velocity: c.velocity[1]})
}
