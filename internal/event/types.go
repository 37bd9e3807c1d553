package event

import "github.com/go-gl/mathgl/mgl64"

const (
	EventJumped          = "controller.jumped"
	EventStanceChanged   = "controller.stance"
	EventPickedUp        = "interaction.picked_up"
	EventDropped         = "interaction.dropped"
	EventThrown          = "interaction.thrown"
	EventHeldLost        = "interaction.held_lost"
	EventProjectileFired = "launcher.fired"
)

type JumpEvent struct {
	Position mgl64.Vec3
	Velocity float64
}

type StanceEvent struct {
	Stance    string
	Height    float64
	MoveSpeed float64
	// Resized is false when the collider refused the new height.
	Resized bool
}

type CarryEvent struct {
	Target  any
	Impulse mgl64.Vec3
}

type FireEvent struct {
	Template string
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Handle   any
}
