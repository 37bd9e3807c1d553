package controller

import "github.com/go-gl/mathgl/mgl64"

// Settings are the tunables of one controller. Angles are in degrees, lengths
// in world units, times in seconds.
type Settings struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	Gravity       float64 `yaml:"gravity"`
	JumpHeight    float64 `yaml:"jump_height"`
	StickVelocity float64 `yaml:"stick_velocity"`

	LookSensitivity   float64 `yaml:"look_sensitivity"`
	VerticalLookLimit float64 `yaml:"vertical_look_limit"`

	StandHeight  float64 `yaml:"stand_height"`
	CrouchHeight float64 `yaml:"crouch_height"`
	CrouchSpeed  float64 `yaml:"crouch_speed"`
	// EyeClearance is the distance from the top of the collider down to the camera.
	EyeClearance float64 `yaml:"eye_clearance"`

	PickupRange      float64 `yaml:"pickup_range"`
	ThrowForce       float64 `yaml:"throw_force"`
	ThrowUpwardBoost float64 `yaml:"throw_upward_boost"`
	// HoldOffset places the hold point in camera space.
	HoldOffset mgl64.Vec3 `yaml:"hold_offset"`

	// MuzzleOffset places the muzzle in camera space; nil disables shooting.
	MuzzleOffset       *mgl64.Vec3 `yaml:"muzzle_offset"`
	ProjectileTemplate string      `yaml:"projectile_template"`
	MuzzleForce        float64     `yaml:"muzzle_force"`
	ProjectileLifetime float64     `yaml:"projectile_lifetime"`
}

func DefaultSettings() Settings {
	muzzle := mgl64.Vec3{0.3, -0.2, 0.6}
	return Settings{
		MoveSpeed:          5,
		Gravity:            -9.81,
		JumpHeight:         1.5,
		StickVelocity:      -2,
		LookSensitivity:    2,
		VerticalLookLimit:  90,
		StandHeight:        2,
		CrouchHeight:       1,
		CrouchSpeed:        2.5,
		EyeClearance:       0.4,
		PickupRange:        3,
		ThrowForce:         10,
		ThrowUpwardBoost:   1,
		HoldOffset:         mgl64.Vec3{0, 0, 1.5},
		MuzzleOffset:       &muzzle,
		ProjectileTemplate: "bullet",
		MuzzleForce:        1000,
		ProjectileLifetime: 3,
	}
}
