package controller

import (
	"log/slog"

	"github.com/Versifine/fpcontroller/internal/event"
)

func (c *Controller) shoot() {
	pose, ok := c.MuzzlePose()
	if !ok || c.settings.ProjectileTemplate == "" || c.spawner == nil {
		return
	}

	handle, err := c.spawner.Instantiate(c.settings.ProjectileTemplate, pose)
	if err != nil {
		slog.Debug("Projectile spawn failed", "template", c.settings.ProjectileTemplate, "error", err)
		return
	}

	forward := pose.Forward()
	if body, ok := handle.(RigidBody); ok {
		body.AddForce(forward.Mul(c.settings.MuzzleForce))
	}
	if c.settings.ProjectileLifetime > 0 {
		c.spawner.DestroyAfter(handle, c.settings.ProjectileLifetime)
	}

	c.publish(event.EventProjectileFired, event.FireEvent{
		Template: c.settings.ProjectileTemplate,
		Position: pose.Position,
		Forward:  forward,
		Handle:   handle,
	})
}
