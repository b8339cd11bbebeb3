package vmath

import "math"

const (
	Rad2Deg = 180 / math.Pi
	Deg2Rad = math.Pi / 180
	TwoPi   = 2 * math.Pi
	Eps     = 1e-9
)

func Abs(v float64) float64 {
	return math.Abs(v)
}

func Clamp(v, min, max float64) float64 {
	if v <= min {
		return min
	}
	if v >= max {
		return max
	}
	return v
}

func Equal(a, b float64) bool {
	return math.Abs(a-b) <= Eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func RadianToDegree(radian float64) float64 {
	return radian * Rad2Deg
}

func DegreeToRadian(degree float64) float64 {
	return degree * Deg2Rad
}

// AngleToVector2 returns the unit vector pointing at angle.
func AngleToVector2(angle float64) Vector2 {
	s, c := math.Sincos(angle)
	return Vector2{X: c, Y: s}
}

// Vector2ToAngle returns the angle of v in [0, 2π).
func Vector2ToAngle(v Vector2) float64 {
	n := v.Normalized()
	a := math.Atan2(n.Y, n.X)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// IsOverflowingX reports whether a body of the given width centered at x
// crosses the left or right edge of a canvas centered on the origin.
func IsOverflowingX(canvasWidth, x, width float64) bool {
	return x+width/2 > canvasWidth/2 || x-width/2 < -canvasWidth/2
}

func IsOverflowingY(canvasHeight, y, height float64) bool {
	return y+height/2 > canvasHeight/2 || y-height/2 < -canvasHeight/2
}
