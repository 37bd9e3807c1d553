package controller

import "github.com/go-gl/mathgl/mgl64"

// Mover is the collision service that owns the character collider.
type Mover interface {
	// Move sweeps the collider and returns the displacement actually applied.
	Move(displacement mgl64.Vec3) mgl64.Vec3
	IsGrounded() bool
	// SetHeight may refuse the new height, e.g. when standing up under a ceiling.
	SetHeight(height float64) bool
}

// HeightReporter is an optional Mover capability. A collider that finishes a
// refused resize later reports its current height here.
type HeightReporter interface {
	Height() float64
}

type Hit struct {
	Distance float64
	Point    mgl64.Vec3
	Target   any
}

type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool)
}

type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func (p Pose) Forward() mgl64.Vec3 {
	return p.Rotation.Rotate(localForward)
}

// Spawner instantiates templates into the world. Handles are opaque and stay
// owned by the spawner.
type Spawner interface {
	Instantiate(template string, pose Pose) (any, error)
	DestroyAfter(handle any, seconds float64)
}

// RigidBody is the capability a spawned handle exposes to receive a force.
type RigidBody interface {
	AddForce(force mgl64.Vec3)
}

type Anchor interface {
	Position() mgl64.Vec3
}

type Carryable interface {
	MoveToHoldPoint(target mgl64.Vec3)
	PickUp(anchor Anchor)
	Drop()
	Throw(impulse mgl64.Vec3)
}

// Liveness is an optional Carryable capability. An object reporting false is
// released without further calls.
type Liveness interface {
	Alive() bool
}

type Publisher interface {
	Publish(eventName string, evt any)
}
