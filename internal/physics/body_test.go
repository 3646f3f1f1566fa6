package physics

import (
	"math"
	"testing"
)

func mustBody(t *testing.T, name string, mass float64, pos, vel Vec2, radius float64) *Body {
	t.Helper()
	b, err := NewBody(name, mass, pos, vel, radius, Color{R: 100, G: 150, B: 255})
	if err != nil {
		t.Fatalf("NewBody(%s): %v", name, err)
	}
	return b
}

func TestNewBodyValidation(t *testing.T) {
	tests := []struct {
		name   string
		mass   float64
		pos    Vec2
		vel    Vec2
		radius float64
	}{
		{"zero mass", 0, Vec2{}, Vec2{}, 5},
		{"negative mass", -10, Vec2{}, Vec2{}, 5},
		{"zero radius", 10, Vec2{}, Vec2{}, 0},
		{"negative radius", 10, Vec2{}, Vec2{}, -1},
		{"nan position", 10, Vec2{X: math.NaN()}, Vec2{}, 5},
		{"inf velocity", 10, Vec2{}, Vec2{Y: math.Inf(1)}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBody("bad", tt.mass, tt.pos, tt.vel, tt.radius, Color{})
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestIntegrateConstantForce(t *testing.T) {
	b := mustBody(t, "b", 2.0, Vec2{}, Vec2{}, 1.0)

	// a = F/m = 5, starting from rest with zero prior acceleration:
	// one step moves only by the trailing half-kick.
	b.AddForce(Vec2{X: 10})
	b.Integrate(0.1)

	if math.Abs(b.Velocity.X-0.25) > 1e-12 {
		t.Errorf("expected vx 0.25, got %v", b.Velocity.X)
	}
	if b.Position.X != 0 {
		t.Errorf("expected x 0 after first step, got %v", b.Position.X)
	}
	if math.Abs(b.Acceleration.X-5.0) > 1e-12 {
		t.Errorf("expected stored acceleration 5, got %v", b.Acceleration.X)
	}

	// Second step with no force: leading half-kick uses the stored
	// acceleration, then position drifts at the updated velocity.
	b.Integrate(0.1)
	if math.Abs(b.Velocity.X-0.5) > 1e-12 {
		t.Errorf("expected vx 0.5, got %v", b.Velocity.X)
	}
	if math.Abs(b.Position.X-0.05) > 1e-12 {
		t.Errorf("expected x 0.05, got %v", b.Position.X)
	}
}

func TestIntegrateMergedNoOp(t *testing.T) {
	b := mustBody(t, "b", 1.0, Vec2{X: 3}, Vec2{X: 1}, 1.0)
	b.Merged = true
	b.AddForce(Vec2{X: 100})
	b.Integrate(0.1)

	if b.Position.X != 3 || b.Velocity.X != 1 {
		t.Errorf("merged body mutated: pos %v vel %v", b.Position, b.Velocity)
	}
}

func TestIntegrateClampsRunaway(t *testing.T) {
	b := mustBody(t, "b", 1.0, Vec2{}, Vec2{X: 2e6}, 1.0)
	b.Integrate(0.01)

	if b.Velocity.Norm() > maxSpeed+1e-6 {
		t.Errorf("velocity not clamped: %v", b.Velocity.Norm())
	}
	if b.Position.Norm() > maxDisplacement+1e-6 {
		t.Errorf("position not clamped: %v", b.Position.Norm())
	}
}

func TestIntegrateNonFiniteForceSubstitutesZero(t *testing.T) {
	b := mustBody(t, "b", 1.0, Vec2{X: 1}, Vec2{X: 1}, 1.0)
	b.AddForce(Vec2{X: math.NaN()})
	b.Integrate(0.1)

	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		t.Fatalf("non-finite state leaked: pos %v vel %v", b.Position, b.Velocity)
	}
	if b.Acceleration != (Vec2{}) {
		t.Errorf("expected zero acceleration substitute, got %v", b.Acceleration)
	}
}

func TestTrailBounded(t *testing.T) {
	b := mustBody(t, "b", 1.0, Vec2{}, Vec2{X: 1}, 1.0)

	for i := 0; i < DefaultTrailLength+50; i++ {
		b.Integrate(0.1)
	}

	if len(b.Trail) != DefaultTrailLength {
		t.Fatalf("expected trail length %d, got %d", DefaultTrailLength, len(b.Trail))
	}
	// Oldest entries evicted first: the head must be newer than the
	// very first recorded position (0.1, 0).
	if math.Abs(b.Trail[0].X-0.1) < 1e-9 {
		t.Error("oldest trail entry was not evicted")
	}
}

func TestGravityNoSelfInteraction(t *testing.T) {
	b := mustBody(t, "b", 10, Vec2{}, Vec2{}, 1.0)
	b.ApplyGravity(b, 1e10)
	b.Integrate(0.1)

	if b.Velocity != (Vec2{}) {
		t.Errorf("self-interaction produced velocity %v", b.Velocity)
	}
}

func TestGravitySingularityGuard(t *testing.T) {
	// Combined radius 2.0 at distance 0.5: below the minimum
	// separation, so no pull and no division blow-up.
	a := mustBody(t, "a", 10, Vec2{}, Vec2{}, 1.0)
	b := mustBody(t, "b", 10, Vec2{X: 0.5}, Vec2{}, 1.0)

	a.ApplyGravity(b, 1.0)
	a.Integrate(0.1)

	if a.Velocity != (Vec2{}) {
		t.Errorf("expected zero force below min distance, got velocity %v", a.Velocity)
	}
}

func TestGravityMergedGate(t *testing.T) {
	a := mustBody(t, "a", 10, Vec2{}, Vec2{}, 1.0)
	b := mustBody(t, "b", 10, Vec2{X: 50}, Vec2{}, 1.0)
	b.Merged = true

	a.ApplyGravity(b, 1.0)
	a.Integrate(0.1)
	if a.Velocity != (Vec2{}) {
		t.Errorf("merged body exerted force: velocity %v", a.Velocity)
	}

	b.ApplyGravity(a, 1.0)
	b.Integrate(0.1)
	if b.Position.X != 50 {
		t.Errorf("merged body moved: %v", b.Position)
	}
}

func TestGravityAttracts(t *testing.T) {
	a := mustBody(t, "a", 10, Vec2{}, Vec2{}, 1.0)
	b := mustBody(t, "b", 20, Vec2{X: 10}, Vec2{}, 1.0)

	a.ApplyGravity(b, 1.0)
	a.Integrate(1.0)

	// F = 10*20/100 = 2, a = 0.2, trailing half-kick only.
	if math.Abs(a.Velocity.X-0.1) > 1e-12 {
		t.Errorf("expected vx 0.1, got %v", a.Velocity.X)
	}
	if a.Velocity.Y != 0 {
		t.Errorf("expected no lateral force, got vy %v", a.Velocity.Y)
	}
}

func TestMergeConservation(t *testing.T) {
	a := mustBody(t, "A", 10, Vec2{X: 0}, Vec2{X: 3, Y: 1}, 4)
	b := mustBody(t, "B", 20, Vec2{X: 6}, Vec2{X: -1, Y: 2}, 5)

	m := a.MergeWith(b)

	if m.Mass != 30 {
		t.Errorf("expected mass 30, got %v", m.Mass)
	}

	wantV := Vec2{X: (10*3 + 20*-1) / 30.0, Y: (10*1 + 20*2) / 30.0}
	if math.Abs(m.Velocity.X-wantV.X) > 1e-12 || math.Abs(m.Velocity.Y-wantV.Y) > 1e-12 {
		t.Errorf("expected velocity %v, got %v", wantV, m.Velocity)
	}

	wantX := (10*0 + 20*6) / 30.0
	if math.Abs(m.Position.X-wantX) > 1e-12 {
		t.Errorf("expected x %v, got %v", wantX, m.Position.X)
	}

	wantR := math.Cbrt(4*4*4 + 5*5*5)
	if math.Abs(m.Radius-wantR) > 1e-12 {
		t.Errorf("expected radius %v, got %v", wantR, m.Radius)
	}

	if !a.Merged || !b.Merged {
		t.Error("parents not flagged merged")
	}
	if m.ID != "merged_"+a.ID+"_"+b.ID {
		t.Errorf("unexpected merge id %q", m.ID)
	}
	if m.Name != "A+B" {
		t.Errorf("unexpected merge name %q", m.Name)
	}
}

func TestMergeColorAndRadiusCap(t *testing.T) {
	heavy := mustBody(t, "heavy", 50, Vec2{}, Vec2{}, 90)
	heavy.Color = Color{R: 1}
	light := mustBody(t, "light", 10, Vec2{X: 1}, Vec2{}, 90)
	light.Color = Color{R: 2}

	m := light.MergeWith(heavy)
	if m.Color != (Color{R: 1}) {
		t.Errorf("expected heavier parent's color, got %+v", m.Color)
	}
	if m.Radius != maxMergedRadius {
		t.Errorf("expected radius capped at %v, got %v", float64(maxMergedRadius), m.Radius)
	}

	// Equal masses: the receiver wins the tie, deterministically.
	a := mustBody(t, "a", 10, Vec2{}, Vec2{}, 5)
	a.Color = Color{B: 7}
	b := mustBody(t, "b", 10, Vec2{X: 1}, Vec2{}, 5)
	b.Color = Color{B: 9}
	if got := a.MergeWith(b).Color; got != (Color{B: 7}) {
		t.Errorf("tie-break should keep receiver color, got %+v", got)
	}
}

func TestKineticEnergyAndMomentum(t *testing.T) {
	b := mustBody(t, "b", 4, Vec2{}, Vec2{X: 3, Y: 4}, 1)

	if ke := b.KineticEnergy(); math.Abs(ke-50) > 1e-12 {
		t.Errorf("expected KE 50, got %v", ke)
	}
	if p := b.Momentum(); p != (Vec2{X: 12, Y: 16}) {
		t.Errorf("expected momentum {12 16}, got %v", p)
	}
}
