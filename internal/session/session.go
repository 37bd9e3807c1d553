package session

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sasha-s/go-deadlock"

	"github.com/Versifine/fpcontroller/internal/config"
	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/event"
	"github.com/Versifine/fpcontroller/internal/logger"
	"github.com/Versifine/fpcontroller/internal/physics"
	"github.com/Versifine/fpcontroller/internal/world"
)

// Stats counts controller notifications. Counters are updated from event bus
// goroutines and may trail the tick that caused them.
type Stats struct {
	Jumps   atomic.Int64
	Shots   atomic.Int64
	Pickups atomic.Int64
	Throws  atomic.Int64
}

// Session wires one controller to a world and steps both on a fixed tick.
// All methods are safe for concurrent use.
type Session struct {
	mu deadlock.Mutex

	cfg     *config.Config
	level   world.Level
	world   *world.World
	capsule *physics.Capsule
	ctrl    *controller.Controller
	bus     *event.Bus
	stats   *Stats
	log     *slog.Logger

	dt    float64
	ticks uint64
}

func New(cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	level, err := cfg.ResolveLevel()
	if err != nil {
		return nil, fmt.Errorf("resolve level: %w", err)
	}

	blocks, err := world.NewBlockStoreWithPalette(cfg.World.Palette)
	if err != nil {
		return nil, err
	}
	w, err := world.New(blocks, world.Options{
		Gravity:    cfg.WorldGravity(),
		FollowGain: cfg.World.FollowGain,
		Templates:  cfg.World.Templates,
	})
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}
	if err := w.Build(level); err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}

	settings := cfg.Controller
	capsule := physics.NewCapsule(level.Spawn, settings.StandHeight, blocks)
	ctrl := controller.New(level.Spawn, settings, capsule, w, w)
	ctrl.Face(level.SpawnYaw, 0)

	s := &Session{
		cfg:     cfg,
		level:   level,
		world:   w,
		capsule: capsule,
		ctrl:    ctrl,
		bus:     event.NewBus(),
		stats:   &Stats{},
		log:     logger.Component("session"),
		dt:      cfg.TickInterval(),
	}
	ctrl.SetPublisher(s.bus)
	s.subscribe()

	s.log.Info("Session created", "level", level.Name, "spawn", level.Spawn, "tick_rate", cfg.Simulation.TickRate, "entities", w.EntityCount())
	return s, nil
}

func (s *Session) subscribe() {
	count := func(counter *atomic.Int64) event.HandlerFunc {
		return func(raw any) { counter.Add(1) }
	}
	s.bus.Subscribe(event.EventJumped, count(&s.stats.Jumps))
	s.bus.Subscribe(event.EventProjectileFired, count(&s.stats.Shots))
	s.bus.Subscribe(event.EventPickedUp, count(&s.stats.Pickups))
	s.bus.Subscribe(event.EventThrown, count(&s.stats.Throws))

	s.bus.Subscribe(event.EventStanceChanged, func(raw any) {
		evt, ok := raw.(event.StanceEvent)
		if !ok {
			return
		}
		s.log.Debug("Stance changed", "stance", evt.Stance, "height", evt.Height, "resized", evt.Resized)
	})
	s.bus.Subscribe(event.EventHeldLost, func(raw any) {
		s.log.Debug("Held object lost")
	})
}

// Submit queues a command for the next tick. It may be called from any
// goroutine.
func (s *Session) Submit(cmd controller.Command) {
	s.ctrl.Queue().Push(cmd)
}

// Queue is the controller's command queue.
func (s *Session) Queue() *controller.Queue {
	return s.ctrl.Queue()
}

// Step runs one fixed tick: the controller first, then the world.
func (s *Session) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.Advance(s.dt)
	s.world.Step(s.dt)
	s.ticks++

	if s.ctrl.Position().Y() < world.ChunkMinY {
		s.log.Info("Fell out of the world, respawning", "position", s.ctrl.Position())
		s.respawnLocked()
	}
}

func (s *Session) Respawn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respawnLocked()
}

// respawnLocked puts the agent back at the spawn point standing and empty
// handed.
func (s *Session) respawnLocked() {
	s.teleportLocked(s.level.Spawn)
	s.ctrl.Reset()
	s.ctrl.Face(s.level.SpawnYaw, 0)
}

// Teleport moves the agent and its collider without collision.
func (s *Session) Teleport(position mgl64.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teleportLocked(position)
}

func (s *Session) teleportLocked(position mgl64.Vec3) {
	s.capsule.SetPosition(position)
	s.ctrl.Teleport(position)
}

func (s *Session) Face(yaw, pitch float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Face(yaw, pitch)
}

func (s *Session) State() controller.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State()
}

// Snapshot copies the player and world state.
func (s *Session) Snapshot() world.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() world.Snapshot {
	st := s.ctrl.State()
	return s.world.Snapshot(world.PlayerView{
		Position: st.Position,
		Velocity: st.Velocity,
		Yaw:      st.Yaw,
		Pitch:    st.Pitch,
		Stance:   st.Stance.String(),
		Grounded: st.Grounded,
		Holding:  st.Holding,
	})
}

// View is what a front end needs to draw one frame.
type View struct {
	Snapshot  world.Snapshot
	Eye       mgl64.Vec3
	Forward   mgl64.Vec3
	HoldPoint mgl64.Vec3
	Height    float64
	HalfWidth float64
	MoveSpeed float64
	Ticks     uint64
	Jumps     int64
	Shots     int64
	Pickups   int64
	Throws    int64
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Snapshot:  s.snapshotLocked(),
		Eye:       s.ctrl.CameraPosition(),
		Forward:   s.ctrl.CameraForward(),
		HoldPoint: s.ctrl.HoldPoint(),
		Height:    s.capsule.Height(),
		HalfWidth: s.capsule.Shape().HalfWidth,
		MoveSpeed: s.ctrl.MoveSpeed(),
		Ticks:     s.ticks,
		Jumps:     s.stats.Jumps.Load(),
		Shots:     s.stats.Shots.Load(),
		Pickups:   s.stats.Pickups.Load(),
		Throws:    s.stats.Throws.Load(),
	}
}

// BlockAt reports the block kind and palette name at a cell.
func (s *Session) BlockAt(x, y, z int) (world.BlockKind, string, bool) {
	kind, ok := s.world.Blocks().GetBlock(x, y, z)
	if !ok {
		return world.BlockAir, "", false
	}
	name, _ := s.world.Blocks().BlockName(kind)
	return kind, name, true
}

func (s *Session) World() *world.World {
	return s.world
}

func (s *Session) Bus() *event.Bus {
	return s.bus
}

func (s *Session) Stats() *Stats {
	return s.stats
}

func (s *Session) Config() *config.Config {
	return s.cfg
}

func (s *Session) Level() world.Level {
	return s.level
}

// TickInterval is the fixed step in seconds.
func (s *Session) TickInterval() float64 {
	return s.dt
}

func (s *Session) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
