package controller

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeMover struct {
	grounded     bool
	refuseHeight bool
	moves        []mgl64.Vec3
	heights      []float64
}

func (m *fakeMover) Move(displacement mgl64.Vec3) mgl64.Vec3 {
	m.moves = append(m.moves, displacement)
	return displacement
}

func (m *fakeMover) IsGrounded() bool {
	return m.grounded
}

func (m *fakeMover) SetHeight(height float64) bool {
	m.heights = append(m.heights, height)
	return !m.refuseHeight
}

type fakeRaycaster struct {
	hit     Hit
	ok      bool
	calls   int
	origin  mgl64.Vec3
	dir     mgl64.Vec3
	maxDist float64
}

func (r *fakeRaycaster) Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool) {
	r.calls++
	r.origin, r.dir, r.maxDist = origin, dir, maxDist
	return r.hit, r.ok
}

type fakeCarryable struct {
	dead     bool
	pickedUp int
	dropped  int
	thrown   []mgl64.Vec3
	follows  []mgl64.Vec3
	anchor   Anchor
}

func (f *fakeCarryable) MoveToHoldPoint(target mgl64.Vec3) { f.follows = append(f.follows, target) }
func (f *fakeCarryable) PickUp(anchor Anchor)              { f.pickedUp++; f.anchor = anchor }
func (f *fakeCarryable) Drop()                             { f.dropped++ }
func (f *fakeCarryable) Throw(impulse mgl64.Vec3)          { f.thrown = append(f.thrown, impulse) }
func (f *fakeCarryable) Alive() bool                       { return !f.dead }

type fakeProjectile struct {
	forces []mgl64.Vec3
}

func (p *fakeProjectile) AddForce(force mgl64.Vec3) {
	p.forces = append(p.forces, force)
}

type fakeSpawner struct {
	handle    any
	err       error
	templates []string
	poses     []Pose
	destroyed map[any]float64
}

var errNoTemplate = errors.New("no such template")

func newFakeSpawner(handle any) *fakeSpawner {
	return &fakeSpawner{handle: handle, destroyed: make(map[any]float64)}
}

func (s *fakeSpawner) Instantiate(template string, pose Pose) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.templates = append(s.templates, template)
	s.poses = append(s.poses, pose)
	return s.handle, nil
}

func (s *fakeSpawner) DestroyAfter(handle any, seconds float64) {
	s.destroyed[handle] = seconds
}

type recordingPublisher struct {
	mu     sync.Mutex
	names  []string
	events []any
}

func (p *recordingPublisher) Publish(eventName string, evt any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, eventName)
	p.events = append(p.events, evt)
}

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func vecApprox(t *testing.T, got, want mgl64.Vec3, tol float64, field string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("%s = %v, want %v (tol=%g)", field, got, want, tol)
		}
	}
}

func newTestController(mover Mover, raycaster Raycaster, spawner Spawner) *Controller {
	return New(mgl64.Vec3{}, DefaultSettings(), mover, raycaster, spawner)
}
