// Package sim drives a physics engine: a headless fixed-step loop for
// batch runs, a wall-clock loop for live and served simulations, and a
// stats recorder for plots and drift diagnostics.
//
// The engine itself is single-threaded; Runner holds the one coarse
// lock that serializes the step loop against external mutation (API
// handlers, UI commands). Force, collision and integration phases
// touch the whole collection every step, so finer locking buys
// nothing.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/cosmiclab/internal/physics"
)

type Runner struct {
	mu     sync.Mutex
	engine *physics.Engine
	dt     float64
}

func NewRunner(engine *physics.Engine, dt float64) *Runner {
	return &Runner{engine: engine, dt: dt}
}

func (r *Runner) Dt() float64 { return r.dt }

// Do runs fn with exclusive access to the engine. All external reads
// and mutations go through here; a step never interleaves with them.
func (r *Runner) Do(fn func(*physics.Engine)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.engine)
}

// Step advances the simulation by one dt under the lock.
func (r *Runner) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.Step(r.dt)
}

// Stats reads the aggregate diagnostics under the lock.
func (r *Runner) Stats() physics.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Stats()
}

// RunFor advances simulated time by duration in fixed steps, as fast
// as possible. callback, when non-nil, sees the stats after every step
// and can stop the run by returning false.
func (r *Runner) RunFor(ctx context.Context, duration float64, callback func(physics.Stats) bool) error {
	steps := int(duration / r.dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.Step()

		if callback != nil && !callback(r.Stats()) {
			return nil
		}
	}
	return nil
}

// Run steps the simulation at rate steps per wall-clock second until
// the context is canceled. Used by serve and live modes.
func (r *Runner) Run(ctx context.Context, rate int) error {
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
}
