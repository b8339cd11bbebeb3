package ecs

import (
	"time"
)

type Component struct {
	object
	typ       TComponent
	entity    IEntity
	lastTime  time.Time
	deltaTime float64
}

func (c *Component) component() *Component {
	return c
}

func (c *Component) Type() TComponent {
	return c.typ
}

func (c *Component) Entity() IEntity {
	return c.entity
}

func (c *Component) Scene() IScene {
	return c.entity.Scene()
}

// GetComponent looks up a sibling component on the owning entity.
func (c *Component) GetComponent(t TComponent) (IComponent, bool) {
	return c.entity.GetComponent(t)
}

func (c *Component) GetService(t TService) (IService, bool) {
	return findService(c.entity.Services(), t)
}

// Canvas is the first canvas of the owner's scene, nil when it has none.
func (c *Component) Canvas() ICanvas {
	scene := c.entity.Scene()
	if scene == nil {
		return nil
	}
	return firstCanvas(scene)
}

// DeltaTime is the scaled time in seconds measured by the last RefreshDeltaTime.
func (c *Component) DeltaTime() float64 {
	return c.deltaTime
}

func (c *Component) RefreshDeltaTime() float64 {
	now := c.app.Now()
	c.deltaTime = now.Sub(c.lastTime).Seconds() * c.app.TimeScale()
	c.lastTime = now
	return c.deltaTime
}
