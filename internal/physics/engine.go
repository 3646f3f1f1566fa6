package physics

// Default tuning, matching the reference configuration.
const (
	DefaultGravity = 1.0

	// DefaultCollisionThreshold scales the sum of radii: bodies must
	// overlap meaningfully, not just touch, before they merge.
	DefaultCollisionThreshold = 0.8

	// DefaultEventMaxAge is how long collision events stay visible to
	// effect consumers, in simulation time units.
	DefaultEventMaxAge = 2.0
)

// CollisionEvent records a merge for external visual-effect consumers.
type CollisionEvent struct {
	Position  Vec2    `json:"position"`
	Time      float64 `json:"time"`
	Intensity float64 `json:"intensity"`
}

// Stats is the read-only diagnostic bundle exposed to UIs and the API.
type Stats struct {
	TimeElapsed    float64 `json:"time_elapsed"`
	BodyCount      int     `json:"body_count"`
	TotalEnergy    float64 `json:"total_energy"`
	AverageSpeed   float64 `json:"average_speed"`
	CenterOfMass   Vec2    `json:"center_of_mass"`
	TotalMomentum  Vec2    `json:"total_momentum"`
	CollisionCount int     `json:"collision_count"`
	Paused         bool    `json:"paused"`
}

// Engine owns the body collection and advances the simulation in
// discrete steps. It is single-threaded: callers that share an engine
// across goroutines must serialize access (see sim.Runner).
type Engine struct {
	g                  float64
	collisionThreshold float64
	strategy           Strategy

	bodies           []*Body
	timeElapsed      float64
	paused           bool
	collisionCount   int
	recentCollisions []CollisionEvent
}

// NewEngine returns an engine with the given gravitational constant,
// the default collision threshold, and automatic strategy selection.
func NewEngine(g float64) *Engine {
	return &Engine{
		g:                  g,
		collisionThreshold: DefaultCollisionThreshold,
		strategy:           StrategyAuto,
	}
}

func (e *Engine) G() float64                  { return e.g }
func (e *Engine) Strategy() Strategy          { return e.strategy }
func (e *Engine) SetStrategy(s Strategy)      { e.strategy = s }
func (e *Engine) CollisionThreshold() float64 { return e.collisionThreshold }

func (e *Engine) SetCollisionThreshold(t float64) {
	if t > 0 {
		e.collisionThreshold = t
	}
}

// AddBody appends to the active collection. Insertion order is
// preserved for deterministic iteration.
func (e *Engine) AddBody(b *Body) {
	e.bodies = append(e.bodies, b)
}

// RemoveBody removes the body with the given id. Absent ids are not an
// error.
func (e *Engine) RemoveBody(id string) {
	for i, b := range e.bodies {
		if b.ID == id {
			e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
			return
		}
	}
}

// ClearBodies empties the collection and resets elapsed time and the
// collision counter. Configuration (G, threshold, paused) is kept.
func (e *Engine) ClearBodies() {
	e.bodies = nil
	e.timeElapsed = 0
	e.collisionCount = 0
	e.recentCollisions = nil
}

// Bodies returns the active (non-merged) bodies in insertion order.
func (e *Engine) Bodies() []*Body {
	active := make([]*Body, 0, len(e.bodies))
	for _, b := range e.bodies {
		if !b.Merged {
			active = append(active, b)
		}
	}
	return active
}

// BodyByID finds an active body by id, or ErrBodyNotFound.
func (e *Engine) BodyByID(id string) (*Body, error) {
	for _, b := range e.bodies {
		if b.ID == id && !b.Merged {
			return b, nil
		}
	}
	return nil, ErrBodyNotFound
}

// FindBodyAt returns the first active body within radius+tolerance of
// pos, in insertion order, or nil.
func (e *Engine) FindBodyAt(pos Vec2, tolerance float64) *Body {
	for _, b := range e.bodies {
		if b.Merged {
			continue
		}
		if b.Position.Sub(pos).Norm() <= b.Radius+tolerance {
			return b
		}
	}
	return nil
}

func (e *Engine) Pause()       { e.paused = true }
func (e *Engine) Resume()      { e.paused = false }
func (e *Engine) Paused() bool { return e.paused }

func (e *Engine) TimeElapsed() float64 { return e.timeElapsed }
func (e *Engine) CollisionCount() int  { return e.collisionCount }

// RestoreCounters reinstates persisted elapsed time and collision
// count when rebuilding an engine from a snapshot.
func (e *Engine) RestoreCounters(timeElapsed float64, collisionCount int) {
	e.timeElapsed = timeElapsed
	e.collisionCount = collisionCount
}

// Step advances the simulation by dt: force accumulation, collision
// detection and merging, integration, eviction of merged bodies, then
// the time advance. No-op while paused.
func (e *Engine) Step(dt float64) {
	if e.paused {
		return
	}

	e.applyForces()
	e.handleCollisions()

	for _, b := range e.bodies {
		if !b.Merged {
			b.Integrate(dt)
		}
	}

	// Filter-and-collect rather than removal mid-iteration.
	active := make([]*Body, 0, len(e.bodies))
	for _, b := range e.bodies {
		if !b.Merged {
			active = append(active, b)
		}
	}
	e.bodies = active

	e.timeElapsed += dt
}

// handleCollisions scans all unordered pairs once, against pre-merge
// positions, and merges every colliding pair whose members are still
// unmerged. Each body merges at most once per step.
func (e *Engine) handleCollisions() {
	type pair struct{ a, b *Body }
	var colliding []pair

	for i, a := range e.bodies {
		if a.Merged {
			continue
		}
		for _, b := range e.bodies[i+1:] {
			if b.Merged {
				continue
			}
			if a.DistanceTo(b) < (a.Radius+b.Radius)*e.collisionThreshold {
				colliding = append(colliding, pair{a, b})
			}
		}
	}

	for _, p := range colliding {
		if p.a.Merged || p.b.Merged {
			continue
		}

		intensity := (p.a.Mass + p.b.Mass) / 1000.0
		if intensity > 1 {
			intensity = 1
		}
		e.recentCollisions = append(e.recentCollisions, CollisionEvent{
			Position:  p.a.Position.Add(p.b.Position).Scale(0.5),
			Time:      e.timeElapsed,
			Intensity: intensity,
		})

		merged := p.a.MergeWith(p.b)
		e.collisionCount++
		e.bodies = append(e.bodies, merged)
	}
}

// TotalEnergy is kinetic plus gravitational potential over the active
// bodies. The potential is always the true O(n²) pairwise sum, no
// matter which force strategy drove the last step.
func (e *Engine) TotalEnergy() float64 {
	kinetic := 0.0
	for _, b := range e.bodies {
		if !b.Merged {
			kinetic += b.KineticEnergy()
		}
	}
	return kinetic + e.potentialEnergy()
}

func (e *Engine) potentialEnergy() float64 {
	potential := 0.0
	for i, a := range e.bodies {
		if a.Merged {
			continue
		}
		for _, b := range e.bodies[i+1:] {
			if b.Merged {
				continue
			}
			if dist := a.DistanceTo(b); dist > 0 {
				potential -= e.g * a.Mass * b.Mass / dist
			}
		}
	}
	return potential
}

// CenterOfMass is the mass-weighted mean position of active bodies,
// zero when there are none or total mass is zero.
func (e *Engine) CenterOfMass() Vec2 {
	totalMass := 0.0
	weighted := Vec2{}
	for _, b := range e.bodies {
		if b.Merged {
			continue
		}
		totalMass += b.Mass
		weighted = weighted.Add(b.Position.Scale(b.Mass))
	}
	if totalMass == 0 {
		return Vec2{}
	}
	return weighted.Scale(1.0 / totalMass)
}

// TotalMomentum is the vector sum of momentum over active bodies.
func (e *Engine) TotalMomentum() Vec2 {
	total := Vec2{}
	for _, b := range e.bodies {
		if !b.Merged {
			total = total.Add(b.Momentum())
		}
	}
	return total
}

// AverageSpeed is the mean |velocity| over active bodies, zero when
// there are none.
func (e *Engine) AverageSpeed() float64 {
	total := 0.0
	count := 0
	for _, b := range e.bodies {
		if !b.Merged {
			total += b.Velocity.Norm()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Stats bundles the aggregate diagnostics in one read.
func (e *Engine) Stats() Stats {
	return Stats{
		TimeElapsed:    e.timeElapsed,
		BodyCount:      len(e.Bodies()),
		TotalEnergy:    e.TotalEnergy(),
		AverageSpeed:   e.AverageSpeed(),
		CenterOfMass:   e.CenterOfMass(),
		TotalMomentum:  e.TotalMomentum(),
		CollisionCount: e.collisionCount,
		Paused:         e.paused,
	}
}

// RecentCollisions purges events older than maxAge and returns the
// survivors.
func (e *Engine) RecentCollisions(maxAge float64) []CollisionEvent {
	recent := e.recentCollisions[:0]
	for _, c := range e.recentCollisions {
		if e.timeElapsed-c.Time <= maxAge {
			recent = append(recent, c)
		}
	}
	e.recentCollisions = recent
	out := make([]CollisionEvent, len(recent))
	copy(out, recent)
	return out
}
