package sim

import (
	"math"

	"github.com/san-kum/cosmiclab/internal/physics"
)

// Sample is one recorded observation of the aggregate stats.
type Sample struct {
	Time     float64
	Energy   float64
	Momentum float64
	Speed    float64
	Bodies   int
}

// Recorder keeps a bounded history of stats samples for terminal plots
// and conserved-quantity drift reporting.
type Recorder struct {
	capacity int
	samples  []Sample
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 600
	}
	return &Recorder{capacity: capacity}
}

func (rec *Recorder) Observe(s physics.Stats) {
	rec.samples = append(rec.samples, Sample{
		Time:     s.TimeElapsed,
		Energy:   s.TotalEnergy,
		Momentum: s.TotalMomentum.Norm(),
		Speed:    s.AverageSpeed,
		Bodies:   s.BodyCount,
	})
	if len(rec.samples) > rec.capacity {
		rec.samples = rec.samples[1:]
	}
}

func (rec *Recorder) Samples() []Sample {
	out := make([]Sample, len(rec.samples))
	copy(out, rec.samples)
	return out
}

func (rec *Recorder) Len() int { return len(rec.samples) }

// EnergySeries returns the recorded total energy values in order, for
// plotting.
func (rec *Recorder) EnergySeries() []float64 {
	out := make([]float64, len(rec.samples))
	for i, s := range rec.samples {
		out[i] = s.Energy
	}
	return out
}

// EnergyDrift is the relative change in total energy between the first
// and last sample, zero when the history is too short or the initial
// energy is zero. Merges change the energy budget on purpose, so drift
// is only meaningful for collision-free spans.
func (rec *Recorder) EnergyDrift() float64 {
	if len(rec.samples) < 2 {
		return 0
	}
	first := rec.samples[0].Energy
	last := rec.samples[len(rec.samples)-1].Energy
	if first == 0 {
		return 0
	}
	return math.Abs(last-first) / math.Abs(first)
}

// MomentumDrift is the absolute change in |total momentum| between the
// first and last sample.
func (rec *Recorder) MomentumDrift() float64 {
	if len(rec.samples) < 2 {
		return 0
	}
	return math.Abs(rec.samples[len(rec.samples)-1].Momentum - rec.samples[0].Momentum)
}

func (rec *Recorder) Reset() { rec.samples = rec.samples[:0] }
