package components

import (
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/vmath"
)

// CircleCollider2 is a circle of diameter max(width, height) centered at
// Offset from its transform, turning with it.
type CircleCollider2 struct {
	ecs.Component
	Offset     vmath.Vector2
	Dimensions vmath.Rect
	transform  *Transform
}

func (c *CircleCollider2) OnAwake() {
	c.transform, _ = ecs.SiblingOf[*Transform](c)
	if c.transform != nil && c.Dimensions.Area() == 0 {
		c.Dimensions = c.transform.Dimensions
	}
}

func (c *CircleCollider2) Radius() float64 {
	return c.Dimensions.MaxHalf()
}

func (c *CircleCollider2) Center() vmath.Vector2 {
	if c.transform == nil {
		return c.Offset
	}
	return vmath.Sum(c.transform.Position(), vmath.Rotate(c.Offset, -c.transform.Rotation()))
}

func (c *CircleCollider2) Overlaps(other *CircleCollider2) bool {
	return vmath.Distance(c.Center(), other.Center()) < c.Radius()+other.Radius()
}
