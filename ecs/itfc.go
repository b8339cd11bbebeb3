package ecs

import (
	"github.com/lgasteroids/asteroids/util"
)

// IObject is implemented by embedding Entity, Component, Service or Scene.
type IObject interface {
	Id() string
	Enabled() bool
	SetEnabled(enabled bool)
	Order() int
	Caps() TCap
	App() *Application
	base() *object
}

type IEntity interface {
	IObject
	Type() TEntity
	Tag() string
	Scene() IScene
	Components() []IComponent
	GetComponent(t TComponent) (IComponent, bool)
	Services() []IService
	entity() *Entity
}

type IComponent interface {
	IObject
	Type() TComponent
	Entity() IEntity
	component() *Component
}

type IService interface {
	IObject
	Type() TService
	Services() []IService
	service() *Service
}

type IScene interface {
	IObject
	Type() TScene
	Entities() []IEntity
	Canvases() []ICanvas
	scene() *Scene
}

type IOnAwake interface {
	OnAwake()
}

type IOnStart interface {
	OnStart()
}

type IOnDestroy interface {
	OnDestroy()
}

type IOnLoop interface {
	OnLoop()
}

type IOnFixedLoop interface {
	OnFixedLoop()
}

type IOnLateLoop interface {
	OnLateLoop()
}

type IOnRender interface {
	OnRender()
}

type IOnTriggerEnter interface {
	OnTriggerEnter(collision Collision2)
}

// IDraw is painted by a Drawer onto the scene's first canvas.
type IDraw interface {
	Draw(canvas ICanvas)
}

// IUse lets a type apply its own overrides instead of field decoding.
type IUse interface {
	Use(m util.M) *util.Err
}

// Collision2 is passed to both entities of an overlapping pair, each as Entity1.
type Collision2 struct {
	Entity1 IEntity
	Entity2 IEntity
}
