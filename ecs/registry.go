package ecs

import (
	"sync"

	"github.com/lgasteroids/asteroids/util"
)

type (
	EntityMeta struct {
		Type       TEntity
		New        func() IEntity
		Components []Decl[TComponent]
		Services   []Decl[TService]
		Order      int
		caps       TCap
	}
	ComponentMeta struct {
		Type TComponent
		New  func() IComponent
		// Required component types must be declared on the same entity.
		Required []TComponent
		Services []Decl[TService]
		Order    int
		caps     TCap
	}
	ServiceMeta struct {
		Type     TService
		New      func() IService
		Services []TService
		caps     TCap
	}
	SceneMeta struct {
		Type TScene
		New  func() IScene
		caps TCap
	}
)

func (m *EntityMeta) Caps() TCap {
	return m.caps
}

func (m *ComponentMeta) Caps() TCap {
	return m.caps
}

func (m *ServiceMeta) Caps() TCap {
	return m.caps
}

func (m *SceneMeta) Caps() TCap {
	return m.caps
}

// Registry maps type identifiers to constructors and declared dependencies.
// Registration happens at startup, lookups are read-only afterwards.
type Registry struct {
	mtx        sync.RWMutex
	entities   map[TEntity]*EntityMeta
	components map[TComponent]*ComponentMeta
	services   map[TService]*ServiceMeta
	scenes     map[TScene]*SceneMeta
}

func NewRegistry() *Registry {
	r := &Registry{
		entities:   make(map[TEntity]*EntityMeta),
		components: make(map[TComponent]*ComponentMeta),
		services:   make(map[TService]*ServiceMeta),
		scenes:     make(map[TScene]*SceneMeta),
	}
	_ = r.RegisterEntity(EntityMeta{
		Type: TDefaultEntity,
		New: func() IEntity {
			return &Entity{}
		},
	})
	return r
}

var (
	_DefaultRegistry = NewRegistry()
)

func DefaultRegistry() *Registry {
	return _DefaultRegistry
}

func (r *Registry) RegisterEntity(meta EntityMeta) *util.Err {
	if meta.Type == "" || meta.New == nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"entity": meta.Type,
		})
	}
	meta.caps = capsOf(meta.New())
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.entities[meta.Type]; ok {
		return util.NewErr(util.EcExist, util.M{
			"entity": meta.Type,
		})
	}
	r.entities[meta.Type] = &meta
	return nil
}

func (r *Registry) RegisterComponent(meta ComponentMeta) *util.Err {
	if meta.Type == "" || meta.New == nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"component": meta.Type,
		})
	}
	meta.caps = capsOf(meta.New())
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.components[meta.Type]; ok {
		return util.NewErr(util.EcExist, util.M{
			"component": meta.Type,
		})
	}
	r.components[meta.Type] = &meta
	return nil
}

func (r *Registry) RegisterService(meta ServiceMeta) *util.Err {
	if meta.Type == "" || meta.New == nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"service": meta.Type,
		})
	}
	meta.caps = capsOf(meta.New())
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.services[meta.Type]; ok {
		return util.NewErr(util.EcExist, util.M{
			"service": meta.Type,
		})
	}
	r.services[meta.Type] = &meta
	return nil
}

func (r *Registry) RegisterScene(meta SceneMeta) *util.Err {
	if meta.Type == "" || meta.New == nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"scene": meta.Type,
		})
	}
	meta.caps = capsOf(meta.New())
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.scenes[meta.Type]; ok {
		return util.NewErr(util.EcExist, util.M{
			"scene": meta.Type,
		})
	}
	r.scenes[meta.Type] = &meta
	return nil
}

func (r *Registry) Entity(t TEntity) (*EntityMeta, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	m, ok := r.entities[t]
	return m, ok
}

func (r *Registry) Component(t TComponent) (*ComponentMeta, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	m, ok := r.components[t]
	return m, ok
}

func (r *Registry) Service(t TService) (*ServiceMeta, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	m, ok := r.services[t]
	return m, ok
}

func (r *Registry) Scene(t TScene) (*SceneMeta, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	m, ok := r.scenes[t]
	return m, ok
}

func notRegistered(kind string, t any) *util.Err {
	return util.NewErr(util.EcNotRegistered, util.M{
		kind: t,
	})
}

// RegisterEntity and the other package-level helpers write to the default registry.
func RegisterEntity(meta EntityMeta) *util.Err {
	return _DefaultRegistry.RegisterEntity(meta)
}

func RegisterComponent(meta ComponentMeta) *util.Err {
	return _DefaultRegistry.RegisterComponent(meta)
}

func RegisterService(meta ServiceMeta) *util.Err {
	return _DefaultRegistry.RegisterService(meta)
}

func RegisterScene(meta SceneMeta) *util.Err {
	return _DefaultRegistry.RegisterScene(meta)
}
