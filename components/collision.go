package components

import (
	"github.com/lgasteroids/asteroids/ecs"
)

type pairKey struct {
	a, b string
}

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

func NewCollision() *Collision {
	return &Collision{
		overlapping: make(map[pairKey]struct{}),
	}
}

// Collision checks every pair of collider-carrying entities once per update
// frame and reports pairs that started to overlap.
type Collision struct {
	ecs.Service
	intent      ecs.IntentId
	overlapping map[pairKey]struct{}
}

func (c *Collision) OnAwake() {
	c.intent = c.App().AddIntent(c.Detect)
}

// Overlapping reports whether the two entities overlapped at the last detection.
func (c *Collision) Overlapping(e1, e2 ecs.IEntity) bool {
	_, ok := c.overlapping[newPairKey(e1.Id(), e2.Id())]
	return ok
}

type body struct {
	entity    ecs.IEntity
	colliders []*CircleCollider2
}

func (b *body) overlaps(o *body) bool {
	for _, c1 := range b.colliders {
		for _, c2 := range o.colliders {
			if c1.Overlaps(c2) {
				return true
			}
		}
	}
	return false
}

func (c *Collision) Detect() {
	app := c.App()
	var bodies []*body
	idx := make(map[string]int)
	for _, collider := range ecs.FindOf[*CircleCollider2](app) {
		entity := collider.Entity()
		if !collider.Enabled() || !entity.Enabled() {
			continue
		}
		i, ok := idx[entity.Id()]
		if !ok {
			i = len(bodies)
			idx[entity.Id()] = i
			bodies = append(bodies, &body{entity: entity})
		}
		bodies[i].colliders = append(bodies[i].colliders, collider)
	}

	current := make(map[pairKey]struct{}, len(c.overlapping))
	var entered [][2]ecs.IEntity
	for i, b1 := range bodies {
		for _, b2 := range bodies[i+1:] {
			if !b1.overlaps(b2) {
				continue
			}
			key := newPairKey(b1.entity.Id(), b2.entity.Id())
			current[key] = struct{}{}
			if _, ok := c.overlapping[key]; !ok {
				entered = append(entered, [2]ecs.IEntity{b1.entity, b2.entity})
			}
		}
	}
	c.overlapping = current

	for _, pair := range entered {
		app.TriggerEnter(ecs.Collision2{Entity1: pair[0], Entity2: pair[1]})
		app.TriggerEnter(ecs.Collision2{Entity1: pair[1], Entity2: pair[0]})
	}
}
