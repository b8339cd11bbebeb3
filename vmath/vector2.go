package vmath

import "math"

// Vector2 is an immutable 2D value; every operation returns a new vector.
type Vector2 struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

func Vec2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalized returns the unit vector, the zero vector for a zero input.
func (v Vector2) Normalized() Vector2 {
	m := v.Magnitude()
	if m == 0 || math.IsNaN(m) {
		return Vector2{}
	}
	if math.IsInf(m, 0) {
		return Vector2{X: infSign(v.X), Y: infSign(v.Y)}.Normalized()
	}
	return Vector2{X: v.X / m, Y: v.Y / m}
}

func infSign(f float64) float64 {
	switch {
	case math.IsInf(f, 1):
		return 1
	case math.IsInf(f, -1):
		return -1
	default:
		return 0
	}
}

func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector2) Neg() Vector2 {
	return Vector2{X: -v.X, Y: -v.Y}
}

func Distance(a, b Vector2) float64 {
	return Sub(a, b).Magnitude()
}

func Sum(vectors ...Vector2) Vector2 {
	var r Vector2
	for _, v := range vectors {
		r.X += v.X
		r.Y += v.Y
	}
	return r
}

func Sub(a, b Vector2) Vector2 {
	return Vector2{X: a.X - b.X, Y: a.Y - b.Y}
}

func Multiply(v Vector2, f float64) Vector2 {
	return Vector2{X: v.X * f, Y: v.Y * f}
}

func Dot(a, b Vector2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Rotate turns v counter-clockwise by radian.
func Rotate(v Vector2, radian float64) Vector2 {
	s, c := math.Sincos(radian)
	return Vector2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}

func Lerp(a, b Vector2, t float64) Vector2 {
	return Vector2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// ClampMagnitude rescales v uniformly so its length does not exceed max.
func ClampMagnitude(v Vector2, max float64) Vector2 {
	m := v.Magnitude()
	if m <= max || m == 0 {
		return v
	}
	return Multiply(v, max/m)
}

func Vec2Equal(a, b Vector2) bool {
	return Equal(a.X, b.X) && Equal(a.Y, b.Y)
}
