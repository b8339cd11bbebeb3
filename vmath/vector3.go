package vmath

import "math"

type Vector3 struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vector3) Normalized() Vector3 {
	m := v.Magnitude()
	if m == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return Vector3{}
	}
	return Vector3{X: v.X / m, Y: v.Y / m, Z: v.Z / m}
}

func Distance3(a, b Vector3) float64 {
	return Vector3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}.Magnitude()
}

func Sum3(vectors ...Vector3) Vector3 {
	var r Vector3
	for _, v := range vectors {
		r.X += v.X
		r.Y += v.Y
		r.Z += v.Z
	}
	return r
}

func Multiply3(v Vector3, f float64) Vector3 {
	return Vector3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}
