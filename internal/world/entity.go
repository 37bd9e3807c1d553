package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/fpcontroller/internal/physics"
)

type EntityID int32

// Entity is one spawned template instance. Its methods lock the owning world.
type Entity struct {
	id       EntityID
	template Template
	rotation mgl64.Quat
	body     *physics.RigidBody
	world    *World

	expiresAt float64
	expiring  bool
	removed   bool
}

func (e *Entity) ID() EntityID {
	return e.id
}

func (e *Entity) Template() Template {
	return e.template
}

func (e *Entity) Position() mgl64.Vec3 {
	e.world.mu.RLock()
	defer e.world.mu.RUnlock()
	return e.body.Position
}

func (e *Entity) Velocity() mgl64.Vec3 {
	e.world.mu.RLock()
	defer e.world.mu.RUnlock()
	return e.body.Velocity
}

func (e *Entity) Bounds() physics.AABB {
	e.world.mu.RLock()
	defer e.world.mu.RUnlock()
	return e.body.Bounds()
}

// AddForce accumulates a force applied over the next world step. Static
// entities ignore it.
func (e *Entity) AddForce(force mgl64.Vec3) {
	e.world.mu.Lock()
	defer e.world.mu.Unlock()
	if e.removed || !e.template.RigidBody {
		return
	}
	e.body.AddForce(force, physics.ForceModeForce)
}

// AddImpulse changes velocity immediately by impulse/mass.
func (e *Entity) AddImpulse(impulse mgl64.Vec3) {
	e.world.mu.Lock()
	defer e.world.mu.Unlock()
	if e.removed || !e.template.RigidBody {
		return
	}
	e.body.AddForce(impulse, physics.ForceModeImpulse)
}

func (e *Entity) Alive() bool {
	e.world.mu.RLock()
	defer e.world.mu.RUnlock()
	return !e.removed
}
