package physics

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

const (
	// DefaultTrailLength bounds the per-body position history kept for
	// external renderers.
	DefaultTrailLength = 100

	// maxSpeed and maxDisplacement are engineering guards against
	// numerical blow-up from close encounters, not physical limits.
	maxSpeed        = 1e6
	maxDisplacement = 1e6

	// maxForce bounds the worst-case single-step gravitational pull.
	maxForce = 1e20

	// maxMergedRadius caps the display radius of merge products.
	maxMergedRadius = 100
)

// Color is an opaque display attribute. The engine passes it through
// unchanged; only merges consult it (heavier parent wins).
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Body is a point mass in 2D space. A Body is exclusively owned by the
// engine's collection while active; once Merged is set it is inert and
// is evicted at the end of the step.
type Body struct {
	ID       string
	Name     string
	Mass     float64
	Position Vec2
	Velocity Vec2
	Radius   float64
	Color    Color

	// Anchor designates this body as the pinned center for the
	// anchor-centric force strategy.
	Anchor bool

	// Acceleration from the previous integration step, needed by the
	// velocity-Verlet update.
	Acceleration Vec2

	// Trail is a bounded FIFO of past positions, renderer-only.
	Trail        []Vec2
	TrailEnabled bool

	Merged bool

	forces Vec2
}

// NewBody validates the parameters and returns a body with a fresh
// unique id. Trail recording starts enabled.
func NewBody(name string, mass float64, pos, vel Vec2, radius float64, color Color) (*Body, error) {
	return NewBodyWithID(uuid.NewString(), name, mass, pos, vel, radius, color)
}

// NewBodyWithID is NewBody with a caller-chosen id, used by snapshot
// restore and merge products.
func NewBodyWithID(id, name string, mass float64, pos, vel Vec2, radius float64, color Color) (*Body, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("%w: mass %v", ErrInvalidBody, mass)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidBody, radius)
	}
	if !pos.IsFinite() || !vel.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite position or velocity", ErrInvalidBody)
	}
	return &Body{
		ID:           id,
		Name:         name,
		Mass:         mass,
		Position:     pos,
		Velocity:     vel,
		Radius:       radius,
		Color:        color,
		TrailEnabled: true,
	}, nil
}

// AddForce accumulates a force contribution for the current step.
func (b *Body) AddForce(f Vec2) {
	b.forces = b.forces.Add(f)
}

// Integrate advances the body by dt using velocity-Verlet:
//
//	v(t+dt/2) = v(t) + a(t)·dt/2
//	x(t+dt)   = x(t) + v(t+dt/2)·dt
//	v(t+dt)   = v(t+dt/2) + a(t+dt)·dt/2
//
// The force accumulator is consumed and reset. No-op for merged bodies.
func (b *Body) Integrate(dt float64) {
	if b.Merged {
		return
	}

	newAccel := b.forces.Scale(1.0 / b.Mass)
	if !newAccel.IsFinite() {
		newAccel = Vec2{}
	}

	b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt * 0.5))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Velocity = b.Velocity.Add(newAccel.Scale(dt * 0.5))
	b.Acceleration = newAccel

	b.Velocity = b.Velocity.ClampNorm(maxSpeed)
	b.Position = b.Position.ClampNorm(maxDisplacement)

	// Last-resort safety net: the simulation must keep running even
	// after a degenerate configuration.
	if !b.Velocity.IsFinite() {
		b.Velocity = Vec2{}
	}
	if !b.Position.IsFinite() {
		b.Position = Vec2{}
	}

	if b.TrailEnabled {
		b.Trail = append(b.Trail, b.Position)
		if len(b.Trail) > DefaultTrailLength {
			b.Trail = b.Trail[1:]
		}
	}

	b.forces = Vec2{}
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.NormSq()
}

func (b *Body) Momentum() Vec2 {
	return b.Velocity.Scale(b.Mass)
}

func (b *Body) DistanceTo(other *Body) float64 {
	return b.Position.Sub(other.Position).Norm()
}

// Overlaps reports whether the two bodies are closer than the sum of
// their radii. The engine applies an additional threshold factor
// before treating an overlap as a merge.
func (b *Body) Overlaps(other *Body) bool {
	return b.DistanceTo(other) < b.Radius+other.Radius
}

// ApplyGravity accumulates onto b the gravitational pull of other.
// Bodies in contact or closer exert no pull through this path; the
// collision phase takes over there. Keeping a minimum separation and a
// force cap prevents the singularity at zero distance from
// destabilizing the integrator.
func (b *Body) ApplyGravity(other *Body, g float64) {
	if b.Merged || other.Merged || b == other {
		return
	}

	r := other.Position.Sub(b.Position)
	dist := r.Norm()

	minDist := math.Max(b.Radius+other.Radius, 1.0)
	if dist < minDist {
		return
	}

	mag := g * b.Mass * other.Mass / (dist * dist)
	if mag > maxForce {
		mag = maxForce
	}

	force := r.Unit().Scale(mag)
	if force.IsFinite() {
		b.AddForce(force)
	}
}

// MergeWith performs an inelastic merge of b and other: mass and
// momentum are conserved, volume combines as for spheres, position is
// the mass-weighted average. Both parents are flagged merged; the
// returned product is not inserted anywhere.
func (b *Body) MergeWith(other *Body) *Body {
	totalMass := b.Mass + other.Mass
	velocity := b.Momentum().Add(other.Momentum()).Scale(1.0 / totalMass)
	position := b.Position.Scale(b.Mass).Add(other.Position.Scale(other.Mass)).Scale(1.0 / totalMass)

	radius := math.Cbrt(b.Radius*b.Radius*b.Radius + other.Radius*other.Radius*other.Radius)
	if radius > maxMergedRadius {
		radius = maxMergedRadius
	}

	// Heavier parent keeps its color; b wins ties.
	color := b.Color
	if other.Mass > b.Mass {
		color = other.Color
	}

	merged := &Body{
		ID:           fmt.Sprintf("merged_%s_%s", b.ID, other.ID),
		Name:         b.Name + "+" + other.Name,
		Mass:         totalMass,
		Position:     position,
		Velocity:     velocity,
		Radius:       radius,
		Color:        color,
		Anchor:       b.Anchor || other.Anchor,
		TrailEnabled: true,
	}

	b.Merged = true
	other.Merged = true

	return merged
}
