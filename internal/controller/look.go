package controller

import "github.com/go-gl/mathgl/mgl64"

func (c *Controller) applyLook() {
	sensitivity := c.settings.LookSensitivity
	limit := c.settings.VerticalLookLimit

	c.pitch = mgl64.Clamp(c.pitch-c.lookInput.Y()*sensitivity, -limit, limit)
	c.yaw = normalizeAngle(c.yaw + c.lookInput.X()*sensitivity)
}

// Face sets the orientation directly, e.g. on spawn. Pitch is clamped to the
// vertical look limit.
func (c *Controller) Face(yaw, pitch float64) {
	limit := c.settings.VerticalLookLimit
	c.yaw = normalizeAngle(yaw)
	c.pitch = mgl64.Clamp(pitch, -limit, limit)
}
