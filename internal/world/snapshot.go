package world

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type PlayerView struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Stance   string
	Grounded bool
	Holding  bool
}

type EntityView struct {
	ID        EntityID
	Template  string
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	HalfWidth float64
	Height    float64
	Held      bool
	// ExpiresIn is negative when no removal is scheduled.
	ExpiresIn float64
}

type Snapshot struct {
	Time     float64
	Player   PlayerView
	Entities []EntityView
}

func (s Snapshot) String() string {
	var entityInfos []string
	for _, e := range s.Entities {
		dist := e.Position.Sub(s.Player.Position).Len()
		info := fmt.Sprintf("%s ID:%d (%.2f, %.2f, %.2f) dist:%.1f", e.Template, e.ID, e.Position.X(), e.Position.Y(), e.Position.Z(), dist)
		if e.Held {
			info += " held"
		}
		if e.ExpiresIn >= 0 {
			info += fmt.Sprintf(" ttl:%.1f", e.ExpiresIn)
		}
		entityInfos = append(entityInfos, info)
	}
	entitiesStr := fmt.Sprintf("[%s]", strings.Join(entityInfos, ", "))

	p := s.Player
	return fmt.Sprintf(
		"Snapshot [Time: %.2fs] | [Position: (X: %.2f, Y: %.2f, Z: %.2f, Yaw: %.2f, Pitch: %.2f)] | [Velocity: (%.2f, %.2f, %.2f)] | [Stance: %s grounded=%v holding=%v] | [Entities(%d): %s]",
		s.Time,
		p.Position.X(), p.Position.Y(), p.Position.Z(), p.Yaw, p.Pitch,
		p.Velocity.X(), p.Velocity.Y(), p.Velocity.Z(),
		p.Stance, p.Grounded, p.Holding,
		len(s.Entities),
		entitiesStr,
	)
}

// Snapshot copies the world state together with the supplied player view.
func (w *World) Snapshot(player PlayerView) Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entities := make([]EntityView, 0, len(w.entities))
	for _, id := range w.sortedIDs() {
		e := w.entities[id]
		view := EntityView{
			ID:        e.id,
			Template:  e.template.Name,
			Position:  e.body.Position,
			Velocity:  e.body.Velocity,
			HalfWidth: e.template.HalfWidth,
			Height:    e.template.Height,
			ExpiresIn: -1,
		}
		if prop, ok := w.handles[id].(*Prop); ok {
			view.Held = prop.anchor != nil
		}
		if e.expiring {
			view.ExpiresIn = e.expiresAt - w.clock
		}
		entities = append(entities, view)
	}
	return Snapshot{
		Time:     w.clock,
		Player:   player,
		Entities: entities,
	}
}
