package physics

import "math"

// Vec2 is a 2D double-precision vector. Values, not references: every
// method returns a new vector.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) NormSq() float64 { return v.X*v.X + v.Y*v.Y }

// Unit returns the unit vector in the direction of v, or the zero
// vector when v has zero length.
func (v Vec2) Unit() Vec2 {
	n := v.Norm()
	if n == 0 {
		return Vec2{}
	}
	return Vec2{v.X / n, v.Y / n}
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// ClampNorm rescales v to length max when it is longer than max.
func (v Vec2) ClampNorm(max float64) Vec2 {
	n := v.Norm()
	if n > max {
		return v.Unit().Scale(max)
	}
	return v
}
