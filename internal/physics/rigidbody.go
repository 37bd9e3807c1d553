package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type ForceMode int

const (
	// ForceModeForce accumulates and is applied over the next step as F/m*dt.
	ForceModeForce ForceMode = iota
	// ForceModeImpulse changes velocity immediately by J/m.
	ForceModeImpulse
)

// RigidBody is a minimal box body: gravity, accumulated forces, impulses and
// block collision. Rotation is not simulated.
type RigidBody struct {
	Shape      Shape
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Mass       float64
	Kinematic  bool
	UseGravity bool
	Grounded   bool

	accumulated mgl64.Vec3
}

func NewRigidBody(shape Shape, position mgl64.Vec3, mass float64) *RigidBody {
	return &RigidBody{
		Shape:      shape,
		Position:   position,
		Mass:       mass,
		UseGravity: true,
	}
}

func (b *RigidBody) AddForce(force mgl64.Vec3, mode ForceMode) {
	if b == nil {
		return
	}
	switch mode {
	case ForceModeImpulse:
		b.Velocity = b.Velocity.Add(force.Mul(1 / b.mass()))
	default:
		b.accumulated = b.accumulated.Add(force)
	}
}

func (b *RigidBody) Bounds() AABB {
	return b.Shape.At(b.Position)
}

func (b *RigidBody) Step(dt, gravity float64, blockStore BlockStore) {
	if b == nil || dt <= 0 {
		return
	}

	accel := b.accumulated.Mul(1 / b.mass())
	b.accumulated = mgl64.Vec3{}
	b.Velocity = b.Velocity.Add(accel.Mul(dt))
	if b.UseGravity && !b.Kinematic {
		b.Velocity[1] += gravity * dt
	}

	requested := b.Velocity.Mul(dt)
	newPos, applied := ResolveMovement(b.Position, requested, b.Shape, blockStore)
	b.Position = newPos
	for axis := 0; axis < 3; axis++ {
		if !nearlyEqual(applied[axis], requested[axis]) {
			b.Velocity[axis] = 0
		}
	}

	b.Grounded = standingOnSolid(b.Shape, b.Position, blockStore)
	if b.Grounded && !b.Kinematic {
		damping := math.Max(0, 1-GroundFriction*dt)
		b.Velocity[0] *= damping
		b.Velocity[2] *= damping
	}
	zeroResidualVelocity(&b.Velocity)
}

func (b *RigidBody) mass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return b.Mass
}

func zeroResidualVelocity(v *mgl64.Vec3) {
	if v == nil {
		return
	}
	for i := 0; i < 3; i++ {
		if math.Abs(v[i]) < MinimumResidualSpeed {
			v[i] = 0
		}
	}
}
