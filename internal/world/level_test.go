package world

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/physics"
)

func TestBuildDefaultLevel(t *testing.T) {
	w := newTestWorld(t)
	if err := w.Build(DefaultLevel()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !w.Blocks().IsSolid(0, -1, 0) || !w.Blocks().IsSolid(-16, -1, 16) {
		t.Fatalf("floor should be solid")
	}
	if w.Blocks().IsSolid(0, 0, 0) {
		t.Fatalf("spawn cell should be empty")
	}
	if kind, _ := w.Blocks().GetBlock(0, 1, 16); kind != BlockWall {
		t.Fatalf("wall kind = %d, want %d", kind, BlockWall)
	}
	if w.EntityCount() != 2 {
		t.Fatalf("EntityCount = %d, want 2", w.EntityCount())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		wantErr error
	}{
		{
			name:  "unknown floor block",
			level: Level{Floor: FloorSpec{Radius: 1, Block: "lava"}},
		},
		{
			name:  "unknown box block",
			level: Level{Boxes: []BoxSpec{{Block: "lava"}}},
		},
		{
			name:    "unknown prop template",
			level:   Level{Props: []PropSpec{{Template: "piano"}}},
			wantErr: ErrUnknownTemplate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestWorld(t).Build(tt.level)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	content := `name: corridor
spawn: [1, 0, 2]
spawn_yaw: 90
floor:
  y: -1
  radius: 3
  block: stone
boxes:
  - min: [-3, 0, 3]
    max: [3, 2, 3]
    block: wall
props:
  - template: crate
    position: [0, 0.25, 1]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write level failed: %v", err)
	}

	level, err := LoadLevel(path)
	if err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	if level.Name != "corridor" || level.SpawnYaw != 90 {
		t.Fatalf("level = %+v", level)
	}
	if level.Spawn != (mgl64.Vec3{1, 0, 2}) {
		t.Fatalf("spawn = %v, want [1 0 2]", level.Spawn)
	}
	if len(level.Boxes) != 1 || level.Boxes[0].Max != [3]int{3, 2, 3} {
		t.Fatalf("boxes = %+v", level.Boxes)
	}
	if len(level.Props) != 1 || level.Props[0].Position != (mgl64.Vec3{0, 0.25, 1}) {
		t.Fatalf("props = %+v", level.Props)
	}

	if _, err := LoadLevel(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultLevelCrouchTunnel(t *testing.T) {
	w := newTestWorld(t)
	if err := w.Build(DefaultLevel()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// The glass bar at y=1, z=6 leaves a one-block gap above the floor.
	settings := controller.DefaultSettings()
	capsule := physics.NewCapsule(mgl64.Vec3{-4.5, 0, 5.5}, settings.StandHeight, w.Blocks())
	c := controller.New(capsule.Position(), settings, capsule, w, w)

	c.OnMove(mgl64.Vec2{0, 1})
	c.Advance(0.1)
	if z := c.Position().Z(); z > 5.7+1e-6 {
		t.Fatalf("standing agent passed under the bar: z=%.4f", z)
	}

	c.OnCrouch(controller.EdgePerformed)
	for i := 0; i < 4; i++ {
		c.Advance(0.1)
	}
	if z := c.Position().Z(); z < 6.5 {
		t.Fatalf("crouched agent should pass under the bar: z=%.4f", z)
	}

	c.OnCrouch(controller.EdgeCanceled)
	if h := c.State().Height; h != settings.CrouchHeight {
		t.Fatalf("height under the bar = %.2f, want %.2f", h, settings.CrouchHeight)
	}
	if capsule.Height() != settings.CrouchHeight {
		t.Fatalf("collider grew under the bar: %.2f", capsule.Height())
	}

	// walking on clears the bar and the refused stand completes by itself
	for i := 0; i < 4; i++ {
		c.Advance(0.1)
	}
	if capsule.Height() != settings.StandHeight {
		t.Fatalf("collider height in the open = %.2f, want %.2f", capsule.Height(), settings.StandHeight)
	}
	st := c.State()
	if st.Height != settings.StandHeight || st.Stance != controller.StanceStanding || st.MoveSpeed != settings.MoveSpeed {
		t.Fatalf("state in the open = %+v, want standing at %.2f", st, settings.StandHeight)
	}
	if eye := c.EyeHeight(); math.Abs(eye-(settings.StandHeight-settings.EyeClearance)) > 1e-9 {
		t.Fatalf("eye height in the open = %.4f", eye)
	}
	vecApprox(t, c.Position(), capsule.Position(), 1e-9, "controller and collider position")
}
