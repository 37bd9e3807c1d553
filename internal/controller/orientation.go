package controller

import "github.com/go-gl/mathgl/mgl64"

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	localRight   = mgl64.Vec3{1, 0, 0}
	localForward = mgl64.Vec3{0, 0, 1}
)

// BodyRotation is the yaw-only rotation of the agent body.
func (c *Controller) BodyRotation() mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(c.yaw), worldUp)
}

// CameraRotation composes body yaw with camera pitch. Positive pitch looks down.
func (c *Controller) CameraRotation() mgl64.Quat {
	return c.BodyRotation().Mul(mgl64.QuatRotate(mgl64.DegToRad(c.pitch), localRight))
}

func (c *Controller) Right() mgl64.Vec3 {
	return c.BodyRotation().Rotate(localRight)
}

func (c *Controller) Forward() mgl64.Vec3 {
	return c.BodyRotation().Rotate(localForward)
}

func (c *Controller) CameraForward() mgl64.Vec3 {
	return c.CameraRotation().Rotate(localForward)
}

func (c *Controller) EyeHeight() float64 {
	return c.height - c.settings.EyeClearance
}

func (c *Controller) CameraPosition() mgl64.Vec3 {
	return c.position.Add(mgl64.Vec3{0, c.EyeHeight(), 0})
}

func (c *Controller) HoldPoint() mgl64.Vec3 {
	return c.CameraPosition().Add(c.CameraRotation().Rotate(c.settings.HoldOffset))
}

// MuzzlePose reports false when no muzzle is configured.
func (c *Controller) MuzzlePose() (Pose, bool) {
	if c.settings.MuzzleOffset == nil {
		return Pose{}, false
	}
	rot := c.CameraRotation()
	return Pose{
		Position: c.CameraPosition().Add(rot.Rotate(*c.settings.MuzzleOffset)),
		Rotation: rot,
	}, true
}

type holdAnchor struct {
	c *Controller
}

func (a holdAnchor) Position() mgl64.Vec3 {
	return a.c.HoldPoint()
}

func normalizeAngle(v float64) float64 {
	for v <= -180 {
		v += 360
	}
	for v > 180 {
		v -= 360
	}
	return v
}
