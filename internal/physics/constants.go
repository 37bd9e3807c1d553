package physics

const (
	DefaultGravity = -9.81

	GroundProbeDistance    = 0.001
	CollisionAxisTolerance = 1e-9
	SkinWidth              = 1e-4

	CharacterWidth     = 0.6
	CharacterHalfWidth = CharacterWidth / 2.0
	CharacterHeight    = 2.0

	// Per-second velocity damping applied to a resting rigid body.
	GroundFriction = 6.0
	// Residual speeds below this are snapped to zero after a step.
	MinimumResidualSpeed = 1e-3
)
