package ecs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/sid"
	"github.com/lgasteroids/asteroids/util"
)

type (
	appOption struct {
		registry      *Registry
		renderDur     time.Duration
		updateDur     time.Duration
		clock         func() time.Time
		canvasFactory CanvasFactory
		timeScale     float64
	}
	AppOption func(o *appOption)
)

func AppRegistry(registry *Registry) AppOption {
	return func(o *appOption) {
		o.registry = registry
	}
}

func AppRenderDur(dur time.Duration) AppOption {
	return func(o *appOption) {
		o.renderDur = dur
	}
}

func AppUpdateDur(dur time.Duration) AppOption {
	return func(o *appOption) {
		o.updateDur = dur
	}
}

// AppClock replaces time.Now, delta times are measured with it.
func AppClock(clock func() time.Time) AppOption {
	return func(o *appOption) {
		o.clock = clock
	}
}

func AppCanvasFactory(factory CanvasFactory) AppOption {
	return func(o *appOption) {
		o.canvasFactory = factory
	}
}

func AppTimeScale(scale float64) AppOption {
	return func(o *appOption) {
		o.timeScale = scale
	}
}

// Application owns every live scene, entity, component and service and drives
// their hooks. It is not safe for concurrent use: once Start is called, touch
// it only from hooks, intents or functions passed to Post.
type Application struct {
	option     *appOption
	registry   *Registry
	scenes     *ds.KSet[string, IScene]
	entities   *ds.KSet[string, IEntity]
	components *ds.KSet[IComponent, IComponent]
	services   *ds.KSet[TService, IService]
	intents    *ds.FnLink0
	hookErr    *ds.FnLink1[*util.Err]
	timeScale  float64
	startTime  time.Time
	frameNum   int64
	renderNum  int64
	maxUpdate  time.Duration
	sumUpdate  time.Duration
	ctx        context.Context
	ccl        context.CancelFunc
	done       chan struct{}
	jobMtx     sync.Mutex
	jobs       []util.Fn
	swap       []util.Fn
	sign       chan struct{}
}

func NewApplication(opts ...AppOption) *Application {
	o := &appOption{
		registry:      _DefaultRegistry,
		renderDur:     time.Second / 60,
		updateDur:     time.Second / 60,
		clock:         time.Now,
		canvasFactory: NewSurface,
		timeScale:     1,
	}
	for _, opt := range opts {
		opt(o)
	}
	a := &Application{
		option:   o,
		registry: o.registry,
		scenes:   ds.NewKSet[string, IScene](4, IScene.Id),
		entities: ds.NewKSet[string, IEntity](256, IEntity.Id),
		components: ds.NewKSet[IComponent, IComponent](1024, func(c IComponent) IComponent {
			return c
		}),
		services: ds.NewKSet[TService, IService](8, IService.Type),
		intents:  ds.NewFnLink0(),
		hookErr:  ds.NewFnLink1[*util.Err](),
		sign:     make(chan struct{}, 1),
	}
	a.SetTimeScale(o.timeScale)
	a.startTime = a.Now()
	return a
}

func (a *Application) Registry() *Registry {
	return a.registry
}

func (a *Application) Now() time.Time {
	return a.option.clock()
}

func (a *Application) StartTime() time.Time {
	return a.startTime
}

func (a *Application) FrameNum() int64 {
	return a.frameNum
}

func (a *Application) TimeScale() float64 {
	return a.timeScale
}

// SetTimeScale clamps scale into [0, 1].
func (a *Application) SetTimeScale(scale float64) {
	switch {
	case scale < 0 || scale != scale:
		a.timeScale = 0
	case scale > 1:
		a.timeScale = 1
	default:
		a.timeScale = scale
	}
}

func (a *Application) Scenes() []IScene {
	return a.scenes.Values()
}

func (a *Application) Entities() []IEntity {
	return a.entities.Values()
}

func (a *Application) Components() []IComponent {
	return a.components.Values()
}

func (a *Application) Services() []IService {
	return a.services.Values()
}

func (a *Application) Entity(id string) (IEntity, bool) {
	return a.entities.Get(id)
}

func (a *Application) Service(t TService) (IService, bool) {
	return a.services.Get(t)
}

func (a *Application) GetScene(t TScene) (IScene, bool) {
	return a.scenes.Find(func(s IScene) bool {
		return s.Type() == t
	})
}

// Find returns every registered component of type t in update order.
func (a *Application) Find(t TComponent) []IComponent {
	var found []IComponent
	a.components.Iter(func(c IComponent) {
		if c.Type() == t {
			found = append(found, c)
		}
	})
	return found
}

// BindHookErr observes hooks that panicked.
func (a *Application) BindHookErr(fn FnHookErr) ds.FnId {
	return a.hookErr.Push(fn)
}

func (a *Application) UnbindHookErr(id ds.FnId) {
	a.hookErr.Del(id)
}

// AddIntent runs fn at the end of every update frame until removed.
func (a *Application) AddIntent(fn func()) IntentId {
	return a.intents.Push(fn)
}

func (a *Application) RemoveIntent(id IntentId) {
	a.intents.Del(id)
}

// Load builds a scene, runs its OnAwake and OnStart then registers it.
func (a *Application) Load(t TScene) (IScene, *util.Err) {
	meta, ok := a.registry.Scene(t)
	if !ok {
		return nil, notRegistered("scene", t)
	}
	scene := meta.New()
	sb := scene.scene()
	a.bind(&sb.object, scene, sid.GetStrId(), 0, meta.caps)
	sb.typ = t
	sb.entities = ds.NewKSet[string, IEntity](64, IEntity.Id)
	a.awake(scene)
	a.start(scene)
	if sb.destroyed {
		return scene, nil
	}
	_ = a.scenes.Add(scene)
	asteroids.Info("load scene", util.M{
		"scene": t,
		"id":    sb.id,
	})
	return scene, nil
}

// Unload destroys a scene given its id, its type or the scene itself.
func (a *Application) Unload(ref any) {
	var (
		scene IScene
		ok    bool
	)
	switch r := ref.(type) {
	case string:
		scene, ok = a.scenes.Get(r)
	case TScene:
		scene, ok = a.GetScene(r)
	case IScene:
		scene, ok = r, r != nil
	}
	if !ok {
		asteroids.Warn2(util.EcNotExist, util.M{
			"scene": fmt.Sprintf("%v", ref),
		})
		return
	}
	a.Destroy(scene)
}

// Destroy disables target, runs its OnDestroy and removes it, cascading from
// scenes to entities to components. Unknown or destroyed targets are ignored.
func (a *Application) Destroy(target IObject) {
	if target == nil {
		asteroids.Warn2(util.EcNil, util.M{
			"destroy": nil,
		})
		return
	}
	if _, ok := target.(IService); ok {
		asteroids.Warn2(util.EcIllegalOp, util.M{
			"destroy": fmt.Sprintf("%T", target),
			"id":      target.Id(),
		})
		return
	}
	o := target.base()
	if !o.live(a) {
		asteroids.Warn2(util.EcNotExist, util.M{
			"destroy": fmt.Sprintf("%T", target),
			"id":      target.Id(),
		})
		return
	}
	o.enabled = false
	o.destroyed = true
	if o.caps.Has(CapDestroy) {
		a.invoke(target, "OnDestroy", target.(IOnDestroy).OnDestroy)
	}
	switch t := target.(type) {
	case IScene:
		sb := t.scene()
		a.scenes.Del(sb.id)
		for _, e := range sb.entities.Values() {
			a.Destroy(e)
		}
		sb.disposeCanvases()
		asteroids.Info("unload scene", util.M{
			"scene": sb.typ,
			"id":    sb.id,
		})
	case IEntity:
		eb := t.entity()
		if eb.scene != nil {
			eb.scene.scene().entities.Del(eb.id)
		}
		a.entities.Del(eb.id)
		for _, c := range eb.Components() {
			a.Destroy(c)
		}
	case IComponent:
		cb := t.component()
		if e := cb.entity.entity(); e.comps != nil {
			e.comps.Del(cb.id)
		}
		a.components.Del(t)
	}
}

// TriggerEnter delivers a collision to its first entity and that entity's
// enabled components.
func (a *Application) TriggerEnter(collision Collision2) {
	entity := collision.Entity1
	if entity == nil || !entity.Enabled() {
		return
	}
	if entity.base().caps.Has(CapTriggerEnter) {
		a.invoke(entity, "OnTriggerEnter", func() {
			entity.(IOnTriggerEnter).OnTriggerEnter(collision)
		})
	}
	for _, c := range entity.Components() {
		if !c.Enabled() || !c.base().caps.Has(CapTriggerEnter) {
			continue
		}
		a.invoke(c, "OnTriggerEnter", func() {
			c.(IOnTriggerEnter).OnTriggerEnter(collision)
		})
	}
}

func (a *Application) bind(o *object, self IObject, id string, order int, caps TCap) {
	o.self = self
	o.app = a
	o.id = id
	o.order = order
	o.caps = caps
	o.enabled = true
}

// invoke isolates a panicking hook so the remaining sweep still runs.
func (a *Application) invoke(o IObject, hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := util.NewErr(util.EcRecover, util.M{
				"hook":    hook,
				"type":    fmt.Sprintf("%T", o),
				"id":      o.Id(),
				"recover": fmt.Sprintf("%v", r),
			})
			asteroids.Error(err)
			a.hookErr.Invoke(err)
		}
	}()
	fn()
}

func (a *Application) awake(o IObject) {
	b := o.base()
	if b.destroyed || !b.caps.Has(CapAwake) {
		return
	}
	a.invoke(o, "OnAwake", o.(IOnAwake).OnAwake)
}

func (a *Application) start(o IObject) {
	b := o.base()
	if b.destroyed || !b.caps.Has(CapStart) {
		return
	}
	a.invoke(o, "OnStart", o.(IOnStart).OnStart)
}
