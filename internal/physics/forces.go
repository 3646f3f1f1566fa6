package physics

import "fmt"

// Strategy selects how the force phase evaluates gravity.
//
// The anchor-centric variant is a stability shortcut for solar-system
// style scenes, not a general physical model: the anchor is pinned at
// the origin, everything else feels full-strength pull toward it, and
// small bodies perturb each other at reduced strength.
type Strategy int

const (
	// StrategyAuto uses anchor-centric evaluation when an anchor body
	// is present and falls back to full pairwise otherwise.
	StrategyAuto Strategy = iota

	// StrategyPairwise always evaluates every unordered pair with
	// symmetric equal-and-opposite forces.
	StrategyPairwise

	// StrategyAnchorCentric requires an anchor; without one it behaves
	// like StrategyPairwise.
	StrategyAnchorCentric
)

func (s Strategy) String() string {
	switch s {
	case StrategyPairwise:
		return "pairwise"
	case StrategyAnchorCentric:
		return "anchor"
	default:
		return "auto"
	}
}

// ParseStrategy maps the configuration spelling to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "auto":
		return StrategyAuto, nil
	case "pairwise":
		return StrategyPairwise, nil
	case "anchor":
		return StrategyAnchorCentric, nil
	default:
		return StrategyAuto, fmt.Errorf("unknown force strategy: %q", s)
	}
}

const (
	// anchorMassThreshold triggers heuristic anchor detection for
	// bodies without the explicit flag.
	anchorMassThreshold = 2000.0

	// anchorName is the legacy name-tag form of anchor designation.
	anchorName = "Sun"

	// smallBodyMass bounds which non-anchor pairs perturb each other
	// under the anchor-centric strategy.
	smallBodyMass = 100.0

	// planetaryForceScale reduces non-anchor mutual attraction under
	// the anchor-centric strategy.
	planetaryForceScale = 0.1
)

// findAnchor returns the first active body explicitly flagged as
// anchor, or failing that the first matching the legacy heuristic
// (named "Sun" or heavier than the anchor mass threshold).
func (e *Engine) findAnchor() *Body {
	for _, b := range e.bodies {
		if !b.Merged && b.Anchor {
			return b
		}
	}
	for _, b := range e.bodies {
		if !b.Merged && (b.Name == anchorName || b.Mass > anchorMassThreshold) {
			return b
		}
	}
	return nil
}

func (e *Engine) applyForces() {
	var anchor *Body
	switch e.strategy {
	case StrategyPairwise:
		anchor = nil
	default:
		anchor = e.findAnchor()
	}

	if anchor == nil {
		e.applyPairwiseForces()
		return
	}
	e.applyAnchorForces(anchor)
}

// applyPairwiseForces evaluates every unordered pair once, applying
// symmetric equal-and-opposite contributions.
func (e *Engine) applyPairwiseForces() {
	for i, a := range e.bodies {
		if a.Merged {
			continue
		}
		for _, b := range e.bodies[i+1:] {
			if b.Merged {
				continue
			}
			a.ApplyGravity(b, e.g)
			b.ApplyGravity(a, e.g)
		}
	}
}

// applyAnchorForces pins the anchor at the origin with zero velocity,
// pulls every other body toward it at full strength, and lets pairs of
// small bodies perturb each other at reduced strength.
func (e *Engine) applyAnchorForces(anchor *Body) {
	anchor.Position = Vec2{}
	anchor.Velocity = Vec2{}
	anchor.Acceleration = Vec2{}
	anchor.forces = Vec2{}

	for _, a := range e.bodies {
		if a.Merged || a == anchor {
			continue
		}

		a.ApplyGravity(anchor, e.g)

		for _, b := range e.bodies {
			if b.Merged || b == anchor || b == a {
				continue
			}
			if a.Mass < smallBodyMass && b.Mass < smallBodyMass {
				a.ApplyGravity(b, e.g*planetaryForceScale)
			}
		}
	}
}
