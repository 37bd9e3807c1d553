package world

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSnapshotString_IncludesHeldAndTTL(t *testing.T) {
	w := newTestWorld(t)
	prop := spawnCrate(t, w, 0, 0.25, 2)
	prop.PickUp(fixedAnchor{})
	marker, _ := w.Instantiate("marker", poseAt(3, 0.1, 0))
	w.DestroyAfter(marker, 2)
	w.Step(0.5)

	snapshot := w.Snapshot(PlayerView{Stance: "standing", Grounded: true})
	got := snapshot.String()

	for _, want := range []string{
		"Time: 0.50s",
		"crate ID:1",
		"held",
		"marker ID:2",
		"ttl:1.5",
		"Entities(2)",
		"Stance: standing grounded=true holding=false",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Snapshot.String() = %q, want contains %q", got, want)
		}
	}
}

func TestSnapshotDistanceFromPlayer(t *testing.T) {
	w := newTestWorld(t)
	w.Instantiate("marker", poseAt(3, 4.1, 0))

	snapshot := w.Snapshot(PlayerView{Position: mgl64.Vec3{0, 0, 0}})
	if len(snapshot.Entities) != 1 {
		t.Fatalf("len(snapshot.Entities) = %d, want 1", len(snapshot.Entities))
	}
	if snapshot.Entities[0].ExpiresIn != -1 {
		t.Fatalf("ExpiresIn = %.2f, want -1 when not scheduled", snapshot.Entities[0].ExpiresIn)
	}
	// marker feet sit at (3,4,0)
	if got := snapshot.String(); !strings.Contains(got, "dist:5.0") {
		t.Fatalf("Snapshot.String() = %q, want contains dist:5.0", got)
	}
}
