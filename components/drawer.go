package components

import (
	"slices"

	"github.com/lgasteroids/asteroids/ecs"
)

// Drawer paints its entity, the entities of its child transforms and their
// components onto the scene's first canvas, lowest order first.
type Drawer struct {
	ecs.Component
	transform *Transform
}

func (d *Drawer) OnAwake() {
	d.transform, _ = ecs.SiblingOf[*Transform](d)
}

func (d *Drawer) Draw() {
	canvas := d.Canvas()
	if canvas == nil {
		return
	}
	for _, o := range d.drawables() {
		if o.Enabled() {
			o.(ecs.IDraw).Draw(canvas)
		}
	}
}

func (d *Drawer) drawables() []ecs.IObject {
	entities := []ecs.IEntity{d.Entity()}
	if d.transform != nil {
		for _, child := range d.transform.Children() {
			entities = append(entities, child.Entity())
		}
	}
	var items []ecs.IObject
	for _, e := range entities {
		if e.Caps().Has(ecs.CapDraw) {
			items = append(items, e)
		}
		for _, c := range e.Components() {
			if _, ok := c.(*Drawer); ok || !c.Caps().Has(ecs.CapDraw) {
				continue
			}
			items = append(items, c)
		}
	}
	slices.SortStableFunc(items, func(a, b ecs.IObject) int {
		return a.Order() - b.Order()
	})
	return items
}

// Render hands the render pass to the Drawer of its entity.
type Render struct {
	ecs.Component
	drawer *Drawer
}

func (r *Render) OnStart() {
	r.drawer, _ = ecs.SiblingOf[*Drawer](r)
}

func (r *Render) OnRender() {
	if r.drawer == nil || !r.drawer.Enabled() {
		return
	}
	r.drawer.Draw()
}
