package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sasha-s/go-deadlock"

	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/physics"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrUnknownHandle   = errors.New("unknown entity handle")
)

type Options struct {
	Gravity    float64
	FollowGain float64
	Templates  []Template
}

// World owns the block grid and every spawned entity. It is the spawn service,
// raycaster and rigid-body stepper behind a controller.
type World struct {
	mu         deadlock.RWMutex
	blocks     *BlockStore
	gravity    float64
	followGain float64
	templates  map[string]Template
	entities   map[EntityID]*Entity
	handles    map[EntityID]any
	nextID     EntityID
	clock      float64
}

// BlockTarget is the Hit.Target reported for a block hit.
type BlockTarget struct {
	Cell [3]int
	Kind BlockKind
}

var (
	_ controller.Spawner   = (*World)(nil)
	_ controller.Raycaster = (*World)(nil)
)

func New(blocks *BlockStore, opts Options) (*World, error) {
	if blocks == nil {
		blocks = NewBlockStore()
	}
	if opts.Gravity == 0 {
		opts.Gravity = physics.DefaultGravity
	}
	if opts.FollowGain <= 0 {
		opts.FollowGain = DefaultFollowGain
	}
	if opts.Templates == nil {
		opts.Templates = DefaultTemplates()
	}

	w := &World{
		blocks:     blocks,
		gravity:    opts.Gravity,
		followGain: opts.FollowGain,
		templates:  make(map[string]Template, len(opts.Templates)),
		entities:   make(map[EntityID]*Entity),
		handles:    make(map[EntityID]any),
	}
	for _, t := range opts.Templates {
		if err := w.RegisterTemplate(t); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) Blocks() *BlockStore {
	return w.blocks
}

func (w *World) Gravity() float64 {
	return w.gravity
}

// Clock is the simulated time in seconds.
func (w *World) Clock() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clock
}

func (w *World) RegisterTemplate(t Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.templates[t.Name] = t
	return nil
}

func (w *World) Template(name string) (Template, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.templates[name]
	return t, ok
}

// Instantiate spawns template centred on pose.Position. Carryable templates
// yield a *Prop, everything else a *Entity.
func (w *World) Instantiate(template string, pose controller.Pose) (any, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.templates[template]
	if !ok {
		return nil, fmt.Errorf("instantiate %q: %w", template, ErrUnknownTemplate)
	}

	w.nextID++
	feet := pose.Position.Sub(mgl64.Vec3{0, t.Height / 2, 0})
	body := physics.NewRigidBody(t.shape(), feet, t.Mass)
	body.UseGravity = t.UseGravity
	body.Kinematic = !t.RigidBody

	e := &Entity{
		id:       w.nextID,
		template: t,
		rotation: pose.Rotation,
		body:     body,
		world:    w,
	}
	w.entities[e.id] = e

	var handle any = e
	if t.Carryable {
		handle = &Prop{Entity: e}
	}
	w.handles[e.id] = handle
	slog.Debug("Spawned entity", "template", template, "id", e.id, "position", pose.Position)
	return handle, nil
}

// DestroyAfter schedules removal once the world clock has advanced by seconds.
// A non-positive delay removes the entity on the next step.
func (w *World) DestroyAfter(handle any, seconds float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.resolve(handle)
	if !ok || e.removed {
		slog.Debug("DestroyAfter ignored", "handle", handle)
		return
	}
	e.expiring = true
	e.expiresAt = w.clock + math.Max(seconds, 0)
}

// Destroy removes an entity immediately.
func (w *World) Destroy(handle any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.resolve(handle)
	if !ok || e.removed {
		return ErrUnknownHandle
	}
	w.remove(e)
	return nil
}

// Step advances the clock, expires scheduled entities and integrates rigid
// bodies against the block grid.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.clock += dt
	for _, id := range w.sortedIDs() {
		e := w.entities[id]
		if e.expiring && w.clock >= e.expiresAt {
			w.remove(e)
			continue
		}
		if !e.template.RigidBody {
			continue
		}
		e.body.Step(dt, w.gravity, w.blocks)
		if e.body.Position.Y() < ChunkMinY {
			slog.Debug("Entity fell out of the world", "id", id)
			w.remove(e)
		}
	}
}

// Raycast reports the nearest block or entity along dir within maxDist.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64) (controller.Hit, bool) {
	if maxDist <= 0 || dir.Len() == 0 {
		return controller.Hit{}, false
	}
	dir = dir.Normalize()

	var (
		best  controller.Hit
		found bool
	)
	if bh, ok := physics.RaycastBlocks(origin, dir, maxDist, w.blocks); ok {
		kind, _ := w.blocks.GetBlock(bh.Cell[0], bh.Cell[1], bh.Cell[2])
		best = controller.Hit{
			Distance: bh.Distance,
			Point:    bh.Point,
			Target:   BlockTarget{Cell: bh.Cell, Kind: kind},
		}
		found = true
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, id := range w.sortedIDs() {
		e := w.entities[id]
		dist, ok := e.body.Bounds().RayIntersect(origin, dir)
		if !ok || dist > maxDist {
			continue
		}
		if found && dist >= best.Distance {
			continue
		}
		best = controller.Hit{
			Distance: dist,
			Point:    origin.Add(dir.Mul(dist)),
			Target:   w.handles[id],
		}
		found = true
	}
	return best, found
}

func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

func (w *World) resolve(handle any) (*Entity, bool) {
	var id EntityID
	switch h := handle.(type) {
	case *Entity:
		if h == nil {
			return nil, false
		}
		id = h.id
	case *Prop:
		if h == nil || h.Entity == nil {
			return nil, false
		}
		id = h.id
	case EntityID:
		id = h
	default:
		return nil, false
	}
	e, ok := w.entities[id]
	return e, ok
}

func (w *World) remove(e *Entity) {
	e.removed = true
	delete(w.entities, e.id)
	delete(w.handles, e.id)
	slog.Debug("Removed entity", "template", e.template.Name, "id", e.id)
}

func (w *World) sortedIDs() []EntityID {
	ids := make([]EntityID, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
