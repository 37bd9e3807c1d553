package physics

import "github.com/go-gl/mathgl/mgl64"

// Capsule is the character collider driven by the controller. It is swept as
// an axis-aligned box against the block grid; the name matches the role, not
// the geometry.
type Capsule struct {
	shape      Shape
	position   mgl64.Vec3
	blockStore BlockStore
	grounded   bool

	// targetHeight is the last requested height; a refused growth is retried
	// after every move until the space above clears.
	targetHeight float64
}

func NewCapsule(position mgl64.Vec3, height float64, blockStore BlockStore) *Capsule {
	if height <= 0 {
		height = CharacterHeight
	}
	c := &Capsule{
		shape:        Shape{HalfWidth: CharacterHalfWidth, Height: height},
		position:     position,
		blockStore:   blockStore,
		targetHeight: height,
	}
	c.grounded = standingOnSolid(c.shape, c.position, blockStore)
	return c
}

// Move sweeps the collider by displacement and returns what was applied.
func (c *Capsule) Move(displacement mgl64.Vec3) mgl64.Vec3 {
	newPos, applied := ResolveMovement(c.position, displacement, c.shape, c.blockStore)
	c.position = newPos
	c.grounded = standingOnSolid(c.shape, c.position, c.blockStore)
	c.growToTarget()
	return applied
}

func (c *Capsule) IsGrounded() bool {
	return c.grounded
}

// SetHeight resizes the collider in place. Growing into solid blocks is
// refused and reported as false; the capsule keeps the request and grows on a
// later Move or SetPosition once there is room.
func (c *Capsule) SetHeight(height float64) bool {
	if height <= 0 {
		return false
	}
	c.targetHeight = height
	if height > c.shape.Height && !c.fits(height) {
		return false
	}
	c.shape.Height = height
	return true
}

// PendingHeight is the requested height the collider has not reached yet, or
// zero when there is none.
func (c *Capsule) PendingHeight() float64 {
	if c.targetHeight > c.shape.Height {
		return c.targetHeight
	}
	return 0
}

func (c *Capsule) growToTarget() {
	if c.targetHeight > c.shape.Height && c.fits(c.targetHeight) {
		c.shape.Height = c.targetHeight
	}
}

func (c *Capsule) fits(height float64) bool {
	grown := Shape{HalfWidth: c.shape.HalfWidth, Height: height}
	return !CollidesWithBlock(grown.At(c.position), c.blockStore)
}

func (c *Capsule) Height() float64 {
	return c.shape.Height
}

func (c *Capsule) Shape() Shape {
	return c.shape
}

func (c *Capsule) Position() mgl64.Vec3 {
	return c.position
}

func (c *Capsule) SetPosition(position mgl64.Vec3) {
	c.position = position
	c.grounded = standingOnSolid(c.shape, c.position, c.blockStore)
	c.growToTarget()
}
