// Package storage persists simulation state: JSON snapshots of the
// engine and its bodies, and CSV export of recorded stats history.
// Trail contents are display-only and are deliberately not persisted.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/san-kum/cosmiclab/internal/physics"
	"github.com/san-kum/cosmiclab/internal/sim"
)

// BodySnapshot is the persisted form of a body.
type BodySnapshot struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Mass     float64       `json:"mass"`
	Position physics.Vec2  `json:"position"`
	Velocity physics.Vec2  `json:"velocity"`
	Radius   float64       `json:"radius"`
	Color    physics.Color `json:"color"`
	Anchor   bool          `json:"anchor,omitempty"`
	Merged   bool          `json:"merged"`
}

// Snapshot is the persisted form of an engine.
type Snapshot struct {
	SavedAt            time.Time      `json:"saved_at"`
	Gravity            float64        `json:"gravity"`
	CollisionThreshold float64        `json:"collision_threshold"`
	Strategy           string         `json:"strategy"`
	TimeElapsed        float64        `json:"time_elapsed"`
	CollisionCount     int            `json:"collision_count"`
	Paused             bool           `json:"paused"`
	Bodies             []BodySnapshot `json:"bodies"`
}

// Capture freezes the engine's restorable state.
func Capture(e *physics.Engine) *Snapshot {
	bodies := e.Bodies()
	snap := &Snapshot{
		SavedAt:            time.Now(),
		Gravity:            e.G(),
		CollisionThreshold: e.CollisionThreshold(),
		Strategy:           e.Strategy().String(),
		TimeElapsed:        e.TimeElapsed(),
		CollisionCount:     e.CollisionCount(),
		Paused:             e.Paused(),
		Bodies:             make([]BodySnapshot, 0, len(bodies)),
	}
	for _, b := range bodies {
		snap.Bodies = append(snap.Bodies, BodySnapshot{
			ID:       b.ID,
			Name:     b.Name,
			Mass:     b.Mass,
			Position: b.Position,
			Velocity: b.Velocity,
			Radius:   b.Radius,
			Color:    b.Color,
			Anchor:   b.Anchor,
			Merged:   b.Merged,
		})
	}
	return snap
}

// Restore rebuilds an engine from the snapshot. Body parameters go
// through the usual construction validation.
func (s *Snapshot) Restore() (*physics.Engine, error) {
	strategy, err := physics.ParseStrategy(s.Strategy)
	if err != nil {
		return nil, err
	}

	e := physics.NewEngine(s.Gravity)
	e.SetCollisionThreshold(s.CollisionThreshold)
	e.SetStrategy(strategy)
	e.RestoreCounters(s.TimeElapsed, s.CollisionCount)
	if s.Paused {
		e.Pause()
	}

	for _, bs := range s.Bodies {
		if bs.Merged {
			continue
		}
		b, err := physics.NewBodyWithID(bs.ID, bs.Name, bs.Mass, bs.Position, bs.Velocity, bs.Radius, bs.Color)
		if err != nil {
			return nil, fmt.Errorf("restore body %s: %w", bs.ID, err)
		}
		b.Anchor = bs.Anchor
		e.AddBody(b)
	}
	return e, nil
}

func SaveSnapshot(path string, snap *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ExportStatsCSV writes recorded samples as time/energy/momentum/
// speed/bodies rows.
func ExportStatsCSV(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "total_energy", "momentum", "average_speed", "bodies"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Energy, 'f', 6, 64),
			strconv.FormatFloat(s.Momentum, 'f', 6, 64),
			strconv.FormatFloat(s.Speed, 'f', 6, 64),
			strconv.Itoa(s.Bodies),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
