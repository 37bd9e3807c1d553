package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/physics"
)

// DefaultFollowGain converts the offset to the hold point into a velocity.
const DefaultFollowGain = 10.0

// Prop is a carryable entity. While held it is kinematic and chases the hold
// point; released, it falls under gravity again.
type Prop struct {
	*Entity
	anchor controller.Anchor
}

var (
	_ controller.Carryable = (*Prop)(nil)
	_ controller.Liveness  = (*Prop)(nil)
	_ controller.RigidBody = (*Entity)(nil)
)

func (p *Prop) PickUp(anchor controller.Anchor) {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	if p.removed {
		return
	}
	p.anchor = anchor
	p.body.Kinematic = true
	p.body.Velocity = mgl64.Vec3{}
}

// MoveToHoldPoint sets the velocity that closes the gap to target within
// 1/gain seconds; the world step applies it with collision.
func (p *Prop) MoveToHoldPoint(target mgl64.Vec3) {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	if p.removed || p.anchor == nil {
		return
	}
	center := p.body.Bounds().Center()
	p.body.Velocity = target.Sub(center).Mul(p.world.followGain)
}

func (p *Prop) Drop() {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	p.release()
}

func (p *Prop) Throw(impulse mgl64.Vec3) {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	if p.removed {
		return
	}
	p.release()
	p.body.AddForce(impulse, physics.ForceModeImpulse)
}

func (p *Prop) Held() bool {
	p.world.mu.RLock()
	defer p.world.mu.RUnlock()
	return p.anchor != nil
}

func (p *Prop) release() {
	p.anchor = nil
	p.body.Kinematic = false
	p.body.Velocity = mgl64.Vec3{}
}
