package vmath

// Rect holds the width and height of an entity.
type Rect struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

func NewRect(width, height float64) Rect {
	return Rect{Width: width, Height: height}
}

func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// MaxHalf is half of the larger side.
func (r Rect) MaxHalf() float64 {
	if r.Height > r.Width {
		return r.Height / 2
	}
	return r.Width / 2
}
