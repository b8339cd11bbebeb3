package ecs

import (
	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/util"
)

// Entity is embedded by every entity type. The zero value is the marker
// entity used for TDefaultEntity.
type Entity struct {
	object
	typ      TEntity
	tag      string
	scene    IScene
	comps    *ds.KSet[string, IComponent]
	services []IService
}

func (e *Entity) entity() *Entity {
	return e
}

func (e *Entity) Type() TEntity {
	return e.typ
}

func (e *Entity) Tag() string {
	return e.tag
}

func (e *Entity) SetTag(tag string) {
	e.tag = tag
}

func (e *Entity) Scene() IScene {
	return e.scene
}

func (e *Entity) Components() []IComponent {
	if e.comps == nil {
		return nil
	}
	return e.comps.Values()
}

// GetComponent returns the first attached component of type t.
func (e *Entity) GetComponent(t TComponent) (IComponent, bool) {
	if e.comps == nil {
		return nil, false
	}
	return e.comps.Find(func(c IComponent) bool {
		return c.Type() == t
	})
}

func (e *Entity) GetComponentById(id string) (IComponent, bool) {
	if e.comps == nil {
		return nil, false
	}
	return e.comps.Get(id)
}

func (e *Entity) Services() []IService {
	return e.services
}

func (e *Entity) GetService(t TService) (IService, bool) {
	return findService(e.services, t)
}

// Instantiate creates an entity in this entity's scene unless EntityScene says otherwise.
func (e *Entity) Instantiate(opts ...EntityOption) (IEntity, *util.Err) {
	return e.app.Instantiate(append([]EntityOption{EntityScene(e.scene)}, opts...)...)
}

func (e *Entity) AddComponent(decl Decl[TComponent]) (IComponent, *util.Err) {
	return e.app.AddComponent(e.self.(IEntity), decl)
}

func (e *Entity) AddService(t TService) (IService, *util.Err) {
	return e.app.AddService(e.self.(IEntity), t)
}

func (e *Entity) addComponent(c IComponent) {
	if e.comps == nil {
		e.comps = ds.NewKSet[string, IComponent](4, IComponent.Id)
	}
	_ = e.comps.Add(c)
}

func (e *Entity) addService(s IService) {
	for _, svc := range e.services {
		if svc == s {
			return
		}
	}
	e.services = append(e.services, s)
}

func findService(services []IService, t TService) (IService, bool) {
	for _, s := range services {
		if s.Type() == t {
			return s, true
		}
	}
	return nil, false
}
