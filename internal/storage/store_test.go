package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/cosmiclab/internal/physics"
	"github.com/san-kum/cosmiclab/internal/sim"
)

func TestSnapshotRoundTrip(t *testing.T) {
	e := physics.NewEngine(2.5)
	e.SetCollisionThreshold(0.6)
	e.SetStrategy(physics.StrategyPairwise)

	sun, err := physics.NewBody("Sol", 5000, physics.Vec2{}, physics.Vec2{}, 40, physics.Color{R: 255, G: 255, B: 100})
	if err != nil {
		t.Fatal(err)
	}
	sun.Anchor = true
	planet, err := physics.NewBody("Terra", 15, physics.Vec2{X: 180}, physics.Vec2{Y: 5.27}, 10, physics.Color{R: 100, G: 149, B: 237})
	if err != nil {
		t.Fatal(err)
	}
	e.AddBody(sun)
	e.AddBody(planet)
	e.Step(0.1)
	e.Pause()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := SaveSnapshot(path, Capture(e)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	restored, err := snap.Restore()
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if restored.G() != 2.5 || restored.CollisionThreshold() != 0.6 {
		t.Errorf("engine config lost: G=%v threshold=%v", restored.G(), restored.CollisionThreshold())
	}
	if restored.Strategy() != physics.StrategyPairwise {
		t.Errorf("strategy lost: %v", restored.Strategy())
	}
	if restored.TimeElapsed() != e.TimeElapsed() {
		t.Errorf("elapsed time lost: %v != %v", restored.TimeElapsed(), e.TimeElapsed())
	}
	if !restored.Paused() {
		t.Error("paused state lost")
	}

	got, err := restored.BodyByID(planet.ID)
	if err != nil {
		t.Fatalf("planet missing after restore: %v", err)
	}
	if got.Name != "Terra" || got.Mass != 15 || got.Radius != 10 {
		t.Errorf("planet fields lost: %+v", got)
	}
	if got.Position != planet.Position || got.Velocity != planet.Velocity {
		t.Errorf("planet state lost: pos %v vel %v", got.Position, got.Velocity)
	}
	if got.Color != planet.Color {
		t.Errorf("color lost: %+v", got.Color)
	}

	anchor, err := restored.BodyByID(sun.ID)
	if err != nil {
		t.Fatalf("sun missing after restore: %v", err)
	}
	if !anchor.Anchor {
		t.Error("anchor flag lost")
	}
}

func TestRestoreRejectsCorruptBody(t *testing.T) {
	snap := &Snapshot{
		Gravity:            1.0,
		CollisionThreshold: 0.8,
		Bodies: []BodySnapshot{
			{ID: "x", Name: "bad", Mass: -5, Radius: 3},
		},
	}
	if _, err := snap.Restore(); err == nil {
		t.Error("expected error for non-positive mass")
	}
}

func TestExportStatsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")

	samples := []sim.Sample{
		{Time: 0, Energy: -10, Momentum: 0, Speed: 1, Bodies: 3},
		{Time: 0.1, Energy: -10.1, Momentum: 0.01, Speed: 1.1, Bodies: 3},
	}
	if err := ExportStatsCSV(path, samples); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "time" || records[0][4] != "bodies" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[2][4] != "3" {
		t.Errorf("unexpected body count cell: %v", records[2])
	}
}
