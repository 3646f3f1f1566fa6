package api

import (
	"errors"
	"math"

	"github.com/san-kum/cosmiclab/internal/physics"
)

// bodyJSON is the wire form of a body. Trails are display state and
// stay out of the API.
type bodyJSON struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Mass     float64       `json:"mass"`
	Position physics.Vec2  `json:"position"`
	Velocity physics.Vec2  `json:"velocity"`
	Radius   float64       `json:"radius"`
	Color    physics.Color `json:"color"`
	Anchor   bool          `json:"anchor,omitempty"`
}

func toBodyJSON(b *physics.Body) bodyJSON {
	return bodyJSON{
		ID:       b.ID,
		Name:     b.Name,
		Mass:     b.Mass,
		Position: b.Position,
		Velocity: b.Velocity,
		Radius:   b.Radius,
		Color:    b.Color,
		Anchor:   b.Anchor,
	}
}

type createBodyRequest struct {
	Name     string         `json:"name"`
	Mass     float64        `json:"mass"`
	Position physics.Vec2   `json:"position"`
	Velocity physics.Vec2   `json:"velocity"`
	Radius   float64        `json:"radius"`
	Color    *physics.Color `json:"color,omitempty"`
	Anchor   bool           `json:"anchor,omitempty"`
}

// updateBodyRequest carries a partial update; absent fields keep their
// current values. The whole request is validated before any field is
// applied, so a rejected update changes nothing.
type updateBodyRequest struct {
	Name     *string        `json:"name,omitempty"`
	Mass     *float64       `json:"mass,omitempty"`
	Position *physics.Vec2  `json:"position,omitempty"`
	Velocity *physics.Vec2  `json:"velocity,omitempty"`
	Radius   *float64       `json:"radius,omitempty"`
	Color    *physics.Color `json:"color,omitempty"`
	Anchor   *bool          `json:"anchor,omitempty"`
}

func (r *updateBodyRequest) validate() error {
	if r.Mass != nil && (*r.Mass <= 0 || !isFinite(*r.Mass)) {
		return errors.New("mass must be positive and finite")
	}
	if r.Radius != nil && (*r.Radius <= 0 || !isFinite(*r.Radius)) {
		return errors.New("radius must be positive and finite")
	}
	if r.Position != nil && !r.Position.IsFinite() {
		return errors.New("position must be finite")
	}
	if r.Velocity != nil && !r.Velocity.IsFinite() {
		return errors.New("velocity must be finite")
	}
	return nil
}

func (r *updateBodyRequest) apply(b *physics.Body) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Mass != nil {
		b.Mass = *r.Mass
	}
	if r.Position != nil {
		b.Position = *r.Position
	}
	if r.Velocity != nil {
		b.Velocity = *r.Velocity
	}
	if r.Radius != nil {
		b.Radius = *r.Radius
	}
	if r.Color != nil {
		b.Color = *r.Color
	}
	if r.Anchor != nil {
		b.Anchor = *r.Anchor
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
