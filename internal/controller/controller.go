package controller

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/fpcontroller/internal/event"
)

// Controller is the state of one first-person agent. It is not safe for
// concurrent use: Advance and the On* handlers must run on one goroutine.
// Other goroutines submit input through Queue.
type Controller struct {
	settings  Settings
	mover     Mover
	raycaster Raycaster
	spawner   Spawner
	publisher Publisher
	queue     *Queue

	position  mgl64.Vec3
	moveInput mgl64.Vec2
	lookInput mgl64.Vec2
	velocity  mgl64.Vec3
	yaw       float64
	pitch     float64

	moveSpeed         float64
	originalMoveSpeed float64
	stance            Stance
	height            float64

	held Carryable
	hold holdAnchor
}

// State is a copy of the agent state for callers outside the tick.
type State struct {
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Yaw       float64
	Pitch     float64
	MoveSpeed float64
	Stance    Stance
	Height    float64
	Grounded  bool
	Holding   bool
}

// New builds a standing controller whose collider feet start at initial.
// raycaster and spawner may be nil, which disables pickup and shooting.
func New(initial mgl64.Vec3, settings Settings, mover Mover, raycaster Raycaster, spawner Spawner) *Controller {
	c := &Controller{
		settings:          settings,
		mover:             mover,
		raycaster:         raycaster,
		spawner:           spawner,
		queue:             NewQueue(),
		position:          initial,
		moveSpeed:         settings.MoveSpeed,
		originalMoveSpeed: settings.MoveSpeed,
		stance:            StanceStanding,
		height:            settings.StandHeight,
	}
	c.hold = holdAnchor{c: c}
	return c
}

func (c *Controller) SetPublisher(publisher Publisher) {
	c.publisher = publisher
}

func (c *Controller) Queue() *Queue {
	return c.queue
}

// Advance runs one tick: queued commands first, then look, locomotion and
// held-object follow, in that order.
func (c *Controller) Advance(dt float64) {
	for _, cmd := range c.queue.Drain() {
		c.Handle(cmd)
	}
	if dt <= 0 {
		return
	}

	c.applyLook()
	c.integrateMovement(dt)
	c.syncHeight()
	c.followHoldPoint()
}

// State copies the current agent state.
func (c *Controller) State() State {
	grounded := false
	if c.mover != nil {
		grounded = c.mover.IsGrounded()
	}
	return State{
		Position:  c.position,
		Velocity:  c.velocity,
		Yaw:       c.yaw,
		Pitch:     c.pitch,
		MoveSpeed: c.moveSpeed,
		Stance:    c.stance,
		Height:    c.height,
		Grounded:  grounded,
		Holding:   c.held != nil,
	}
}

func (c *Controller) Position() mgl64.Vec3 { return c.position }
func (c *Controller) Velocity() mgl64.Vec3 { return c.velocity }
func (c *Controller) Yaw() float64         { return c.yaw }
func (c *Controller) Pitch() float64       { return c.pitch }
func (c *Controller) MoveSpeed() float64   { return c.moveSpeed }
func (c *Controller) Stance() Stance       { return c.stance }
func (c *Controller) Held() Carryable      { return c.held }
func (c *Controller) Settings() Settings   { return c.settings }

// SetMoveSpeed changes the current speed only; the speed restored after a
// crouch stays the configured one.
func (c *Controller) SetMoveSpeed(speed float64) {
	c.moveSpeed = speed
}

// Reset drops the held object and stands up, e.g. on respawn. A stand the
// collider refuses completes later through the collider.
func (c *Controller) Reset() {
	c.releaseIfGone()
	if c.held != nil {
		c.dropHeld()
	}
	if c.stance == StanceCrouching {
		c.stand()
	}
}

// Teleport moves the agent without collision, e.g. on respawn.
func (c *Controller) Teleport(position mgl64.Vec3) {
	c.position = position
	c.velocity = mgl64.Vec3{}
}

func (c *Controller) publish(eventName string, evt any) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(eventName, evt)
}

var _ Publisher = (*event.Bus)(nil)
