package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgasteroids/asteroids/util"
)

const (
	tTestEntity TEntity    = "test"
	tA          TComponent = "a"
	tB          TComponent = "b"
	tKiller     TComponent = "killer"
	tPanic      TComponent = "panic"
	tUnloader   TComponent = "unloader"
	tX          TService   = "x"
	tY          TService   = "y"
	tCyc1       TService   = "cyc1"
	tCyc2       TService   = "cyc2"
	tTestScene  TScene     = "main"
)

type journal struct {
	events []string
}

func (j *journal) add(event string) {
	j.events = append(j.events, event)
}

func (j *journal) reset() {
	j.events = nil
}

type testEntity struct {
	Entity
	j     *journal
	Speed float64
}

func (e *testEntity) OnAwake()   { e.j.add("entity:awake") }
func (e *testEntity) OnStart()   { e.j.add("entity:start") }
func (e *testEntity) OnLoop()    { e.j.add("entity:loop") }
func (e *testEntity) OnDestroy() { e.j.add("entity:destroy") }

func (e *testEntity) OnTriggerEnter(c Collision2) {
	e.j.add("entity:trigger:" + c.Entity2.Tag())
}

type compA struct {
	Component
	j     *journal
	Value int
}

func (c *compA) OnAwake()     { c.j.add("a:awake") }
func (c *compA) OnStart()     { c.j.add("a:start") }
func (c *compA) OnFixedLoop() { c.j.add("a:fixed") }
func (c *compA) OnLoop()      { c.j.add("a:loop") }
func (c *compA) OnLateLoop()  { c.j.add("a:late") }
func (c *compA) OnRender()    { c.j.add("a:render") }
func (c *compA) OnDestroy()   { c.j.add("a:destroy") }

type compB struct {
	Component
	j    *journal
	sawA bool
}

func (c *compB) OnAwake() { c.j.add("b:awake") }

func (c *compB) OnStart() {
	_, c.sawA = c.GetComponent(tA)
	c.j.add("b:start")
}

type compKiller struct {
	Component
	target IObject
}

func (c *compKiller) OnFixedLoop() {
	if c.target != nil {
		c.App().Destroy(c.target)
		c.target = nil
	}
}

type compPanic struct {
	Component
}

func (c *compPanic) OnLoop() {
	panic("boom")
}

type compUnloader struct {
	Component
}

func (c *compUnloader) OnStart() {
	c.App().Unload(c.Scene())
}

type svcX struct {
	Service
	j    *journal
	Name string
}

func (s *svcX) OnAwake() { s.j.add("x:awake") }
func (s *svcX) OnStart() { s.j.add("x:start") }

type svcY struct {
	Service
	j *journal
}

func (s *svcY) OnAwake() { s.j.add("y:awake") }

type testScene struct {
	Scene
	j *journal
}

func (s *testScene) OnStart() {
	s.j.add("scene:start")
	s.CreateCanvas(CanvasName("main"), CanvasSize(800, 600))
}

func (s *testScene) OnDestroy() { s.j.add("scene:destroy") }

type fixture struct {
	app   *Application
	j     *journal
	scene IScene
	now   time.Time
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T, opts ...AppOption) *fixture {
	j := &journal{}
	reg := NewRegistry()
	require.Nil(t, reg.RegisterEntity(EntityMeta{
		Type: tTestEntity,
		New: func() IEntity {
			return &testEntity{j: j}
		},
		Components: []Decl[TComponent]{tA},
		Services:   []Decl[TService]{tX},
	}))
	require.Nil(t, reg.RegisterComponent(ComponentMeta{
		Type: tA,
		New: func() IComponent {
			return &compA{j: j}
		},
	}))
	require.Nil(t, reg.RegisterComponent(ComponentMeta{
		Type: tB,
		New: func() IComponent {
			return &compB{j: j}
		},
		Required: []TComponent{tA},
	}))
	require.Nil(t, reg.RegisterComponent(ComponentMeta{
		Type: tKiller,
		New: func() IComponent {
			return &compKiller{}
		},
		Order: -1,
	}))
	require.Nil(t, reg.RegisterComponent(ComponentMeta{
		Type: tPanic,
		New: func() IComponent {
			return &compPanic{}
		},
		Order: -1,
	}))
	require.Nil(t, reg.RegisterComponent(ComponentMeta{
		Type: tUnloader,
		New: func() IComponent {
			return &compUnloader{}
		},
	}))
	require.Nil(t, reg.RegisterService(ServiceMeta{
		Type: tX,
		New: func() IService {
			return &svcX{j: j}
		},
	}))
	require.Nil(t, reg.RegisterService(ServiceMeta{
		Type: tY,
		New: func() IService {
			return &svcY{j: j}
		},
		Services: []TService{tX},
	}))
	require.Nil(t, reg.RegisterService(ServiceMeta{
		Type: tCyc1,
		New: func() IService {
			return &Service{}
		},
		Services: []TService{tCyc2},
	}))
	require.Nil(t, reg.RegisterService(ServiceMeta{
		Type: tCyc2,
		New: func() IService {
			return &Service{}
		},
		Services: []TService{tCyc1},
	}))
	require.Nil(t, reg.RegisterScene(SceneMeta{
		Type: tTestScene,
		New: func() IScene {
			return &testScene{j: j}
		},
	}))

	f := &fixture{
		j:   j,
		now: time.Unix(1000, 0),
	}
	opts = append([]AppOption{
		AppRegistry(reg),
		AppClock(func() time.Time {
			return f.now
		}),
	}, opts...)
	f.app = NewApplication(opts...)
	scene, err := f.app.Load(tTestScene)
	require.Nil(t, err)
	f.scene = scene
	j.reset()
	return f
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Entity(TDefaultEntity)
	assert.True(t, ok)

	err := reg.RegisterComponent(ComponentMeta{
		Type: tA,
		New: func() IComponent {
			return &compA{}
		},
	})
	assert.Nil(t, err)
	meta, ok := reg.Component(tA)
	require.True(t, ok)
	assert.True(t, meta.Caps().Has(CapLoop))
	assert.True(t, meta.Caps().Has(CapRender))
	assert.False(t, meta.Caps().Has(CapTriggerEnter))

	err = reg.RegisterComponent(ComponentMeta{
		Type: tA,
		New: func() IComponent {
			return &compA{}
		},
	})
	require.NotNil(t, err)
	assert.Equal(t, util.EcExist, err.Code())

	err = reg.RegisterService(ServiceMeta{Type: tX})
	require.NotNil(t, err)
	assert.Equal(t, util.EcParamsErr, err.Code())
}

func TestToProviders(t *testing.T) {
	providers := ToProviders([]Decl[TComponent]{
		tA,
		Provider[TComponent]{Id: "b", Class: tB},
		nil,
	})
	require.Len(t, providers, 2)
	assert.Equal(t, tA, providers[0].Class)
	assert.NotEmpty(t, providers[0].Id)
	assert.NotNil(t, providers[0].Use)
	assert.Equal(t, "b", providers[1].Id)
	assert.NotNil(t, providers[1].Use)

	again := ToProviders([]Decl[TComponent]{tA})
	assert.NotEqual(t, providers[0].Id, again[0].Id)
}

func TestMergeProviders(t *testing.T) {
	merged := mergeProviders(ToProviders([]Decl[TComponent]{
		Provider[TComponent]{Id: "a", Class: tA, Use: util.M{"value": 1, "keep": true}},
		Use[TComponent]("a", util.M{"value": 2}),
		Use[TComponent]("ghost", util.M{"value": 3}),
		Use[TComponent]("a", util.M{"value": 4}),
	}))
	require.Len(t, merged, 1)
	assert.Equal(t, util.M{"value": 4, "keep": true}, merged[0].Use)

	dups := mergeProviders(ToProviders([]Decl[TComponent]{
		Provider[TComponent]{Id: "d", Class: tA},
		Provider[TComponent]{Id: "d", Class: tB},
		Use[TComponent]("d", util.M{"value": 5}),
	}))
	require.Len(t, dups, 2)
	assert.Equal(t, tA, dups[0].Class)
	assert.Equal(t, util.M{"value": 5}, dups[0].Use)
	assert.Equal(t, tB, dups[1].Class)
	assert.Empty(t, dups[1].Use)
}

func TestInstantiateHookOrder(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	assert.Equal(t, []string{
		"entity:awake", "a:awake", "x:awake",
		"entity:start", "a:start", "x:start",
	}, f.j.events)

	assert.Equal(t, tTestEntity, e.Type())
	assert.Equal(t, f.scene, e.Scene())
	assert.Len(t, f.app.Entities(), 1)
	assert.Len(t, f.app.Find(tA), 1)
	assert.Equal(t, []IEntity{e}, f.scene.Entities())
	a, ok := ComponentOf[*compA](e)
	require.True(t, ok)
	assert.Equal(t, e, a.Entity())
	x, ok := ServiceOf[*svcX](e)
	require.True(t, ok)
	assert.Equal(t, tX, x.Type())
}

func TestInstantiateMissingRequired(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Instantiate(EntityScene(f.scene), EntityComponents(tB))
	require.NotNil(t, err)
	assert.Equal(t, util.EcMissingComponent, err.Code())
	required, _ := err.GetParam("required")
	assert.Equal(t, tA, required)
	component, _ := err.GetParam("component")
	assert.Equal(t, tB, component)

	assert.Empty(t, f.app.Entities())
	assert.Empty(t, f.app.Components())
	assert.Empty(t, f.app.Services())
	assert.Empty(t, f.scene.Entities())
	assert.Empty(t, f.j.events)
}

func TestRequiredReachableBeforeStart(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(EntityScene(f.scene), EntityComponents(tA, tB))
	require.Nil(t, err)
	b, ok := ComponentOf[*compB](e)
	require.True(t, ok)
	assert.True(t, b.sawA)
	assert.Equal(t, []string{"a:awake", "b:awake", "a:start", "b:start"}, f.j.events)
}

func TestInstantiateErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Instantiate(EntityType("nope"), EntityScene(f.scene))
	require.NotNil(t, err)
	assert.Equal(t, util.EcNotRegistered, err.Code())

	_, err = f.app.Instantiate(EntityComponents(tA))
	require.NotNil(t, err)
	assert.Equal(t, util.EcNotExist, err.Code())

	_, err = f.app.Instantiate(EntityScene(f.scene), EntityComponents(
		Provider[TComponent]{Class: tA, Use: util.M{"missing": 1}},
	))
	require.NotNil(t, err)
	assert.Equal(t, util.EcParamsErr, err.Code())

	_, err = f.app.Instantiate(EntityScene(f.scene), EntityComponents(
		Provider[TComponent]{Id: "dup", Class: tA},
		Provider[TComponent]{Id: "dup", Class: tB},
	))
	require.NotNil(t, err)
	assert.Equal(t, util.EcExist, err.Code())

	assert.Empty(t, f.app.Entities())
	assert.Empty(t, f.app.Components())
	assert.Empty(t, f.j.events)
}

func TestInstantiateUse(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(
		EntityType(tTestEntity),
		EntityScene(f.scene),
		EntityUse(util.M{"speed": "2.5"}),
		EntityComponents(
			Provider[TComponent]{Id: "main", Class: tA, Use: util.M{"value": 1}},
			Use[TComponent]("main", util.M{"value": 7}),
		),
		EntityTag("ship"),
	)
	require.Nil(t, err)
	assert.Equal(t, 2.5, e.(*testEntity).Speed)
	assert.Equal(t, "ship", e.Tag())
	c, ok := e.entity().GetComponentById("main")
	require.True(t, ok)
	assert.Equal(t, 7, c.(*compA).Value)
	assert.Len(t, e.Components(), 2)
}

func TestServiceSingleton(t *testing.T) {
	f := newFixture(t)
	e1, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	e2, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	assert.Same(t, e1.Services()[0], e2.Services()[0])

	s, err := f.app.AddService(e2, tX)
	require.Nil(t, err)
	assert.Same(t, e1.Services()[0], s)
	assert.Len(t, e2.Services(), 1)

	awakes := 0
	for _, ev := range f.j.events {
		if ev == "x:awake" {
			awakes++
		}
	}
	assert.Equal(t, 1, awakes)
}

func TestServiceDependencies(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(EntityScene(f.scene), EntityServices(tY))
	require.Nil(t, err)
	assert.Equal(t, []string{"x:awake", "y:awake", "x:start"}, f.j.events)
	require.Len(t, e.Services(), 1)
	y := e.Services()[0]
	assert.Equal(t, tY, y.Type())
	require.Len(t, y.Services(), 1)
	x, ok := f.app.Service(tX)
	require.True(t, ok)
	assert.Same(t, x, y.Services()[0])
}

func TestServiceUse(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Instantiate(EntityScene(f.scene), EntityServices(
		Provider[TService]{Class: tX, Use: util.M{"name": "socket"}},
	))
	require.Nil(t, err)
	x, ok := f.app.Service(tX)
	require.True(t, ok)
	assert.Equal(t, "socket", x.(*svcX).Name)
}

func TestCircularService(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Instantiate(EntityScene(f.scene), EntityServices(tCyc1))
	require.NotNil(t, err)
	assert.Equal(t, util.EcCircularService, err.Code())
	cycle, _ := err.GetParam("cycle")
	assert.Equal(t, "cyc1 -> cyc2 -> cyc1", cycle)
	assert.Empty(t, f.app.Services())
	assert.Empty(t, f.app.Entities())
}

func TestAddComponent(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(EntityScene(f.scene))
	require.Nil(t, err)

	_, err = f.app.AddComponent(e, tB)
	require.NotNil(t, err)
	assert.Equal(t, util.EcMissingComponent, err.Code())

	_, err = f.app.AddComponent(e, tA)
	require.Nil(t, err)
	b, err := f.app.AddComponent(e, tB)
	require.Nil(t, err)
	assert.True(t, b.(*compB).sawA)
	assert.Len(t, f.app.Components(), 2)

	_, err = f.app.AddComponent(e, Provider[TComponent]{Id: b.Id(), Class: tA})
	require.NotNil(t, err)
	assert.Equal(t, util.EcExist, err.Code())
}

func TestUpdateFrameOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	f.j.reset()
	id := f.app.AddIntent(func() {
		f.j.add("intent")
	})

	f.app.UpdateFrame()
	assert.Equal(t, []string{"a:fixed", "entity:loop", "a:loop", "a:late", "intent"}, f.j.events)
	assert.EqualValues(t, 1, f.app.FrameNum())

	f.app.RemoveIntent(id)
	f.j.reset()
	f.app.UpdateFrame()
	assert.NotContains(t, f.j.events, "intent")
}

func TestDisabledSkipped(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	a, _ := ComponentOf[*compA](e)
	a.SetEnabled(false)
	f.j.reset()
	f.app.UpdateFrame()
	assert.Equal(t, []string{"entity:loop"}, f.j.events)
}

func TestDestroyMidSweep(t *testing.T) {
	f := newFixture(t)
	victim, err := f.app.Instantiate(EntityScene(f.scene), EntityComponents(tA))
	require.Nil(t, err)
	killerEntity, err := f.app.Instantiate(EntityScene(f.scene), EntityComponents(tKiller))
	require.Nil(t, err)
	killer, _ := ComponentOf[*compKiller](killerEntity)
	killer.target = victim
	f.j.reset()

	f.app.UpdateFrame()
	assert.Equal(t, []string{"a:destroy"}, f.j.events)
	assert.Len(t, f.app.Entities(), 1)
	assert.Empty(t, f.app.Find(tA))
}

func TestDestroy(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	a, _ := ComponentOf[*compA](e)
	f.j.reset()

	f.app.Destroy(a)
	assert.Equal(t, []string{"a:destroy"}, f.j.events)
	assert.False(t, a.Enabled())
	assert.Empty(t, e.Components())
	assert.Empty(t, f.app.Components())

	a.SetEnabled(true)
	assert.False(t, a.Enabled())

	f.j.reset()
	f.app.Destroy(a)
	assert.Empty(t, f.j.events)

	x, _ := f.app.Service(tX)
	f.app.Destroy(x)
	_, ok := f.app.Service(tX)
	assert.True(t, ok)
}

func TestUnloadScene(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	_, err = f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	canvas := f.scene.Canvases()[0].(*Surface)
	f.j.reset()

	f.app.Unload(tTestScene)
	assert.Equal(t, []string{
		"scene:destroy",
		"entity:destroy", "a:destroy",
		"entity:destroy", "a:destroy",
	}, f.j.events)
	assert.Empty(t, f.app.Scenes())
	assert.Empty(t, f.app.Entities())
	assert.Empty(t, f.app.Components())
	assert.True(t, canvas.Disposed())
	_, ok := f.app.GetScene(tTestScene)
	assert.False(t, ok)

	_, err = f.app.Instantiate(EntityScene(f.scene))
	require.NotNil(t, err)

	f.j.reset()
	f.app.Unload(f.scene.Id())
	assert.Empty(t, f.j.events)
}

func TestUnloadSceneWhileInstantiating(t *testing.T) {
	f := newFixture(t)
	e, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene), EntityComponents(tUnloader))
	require.Nil(t, err)
	require.NotNil(t, e)
	assert.True(t, f.scene.base().destroyed)
	assert.True(t, e.base().destroyed)
	assert.Empty(t, e.Components())
	assert.Empty(t, f.app.Scenes())
	assert.Empty(t, f.app.Entities())
	assert.Empty(t, f.app.Components())
	assert.Contains(t, f.j.events, "entity:destroy")
	assert.Contains(t, f.j.events, "a:destroy")

	f.j.reset()
	f.app.UpdateFrame()
	assert.Empty(t, f.j.events)
}

func TestHookPanicIsolated(t *testing.T) {
	f := newFixture(t)
	var errs []*util.Err
	f.app.BindHookErr(func(err *util.Err) {
		errs = append(errs, err)
	})
	_, err := f.app.Instantiate(EntityScene(f.scene), EntityComponents(tPanic, tA))
	require.Nil(t, err)
	f.j.reset()

	f.app.UpdateFrame()
	assert.Contains(t, f.j.events, "a:loop")
	require.Len(t, errs, 1)
	assert.Equal(t, util.EcRecover, errs[0].Code())
	hook, _ := errs[0].GetParam("hook")
	assert.Equal(t, "OnLoop", hook)
}

func TestEntityOrder(t *testing.T) {
	f := newFixture(t)
	var ids []string
	for _, order := range []int{1, 0, 1, -1} {
		e, err := f.app.Instantiate(EntityScene(f.scene), EntityOrder(order))
		require.Nil(t, err)
		ids = append(ids, e.Id())
	}
	var got []string
	for _, e := range f.app.Entities() {
		got = append(got, e.Id())
	}
	assert.Equal(t, []string{ids[3], ids[1], ids[0], ids[2]}, got)
}

func TestTimeScale(t *testing.T) {
	f := newFixture(t, AppTimeScale(3))
	assert.Equal(t, 1.0, f.app.TimeScale())
	f.app.SetTimeScale(-1)
	assert.Equal(t, 0.0, f.app.TimeScale())
	f.app.SetTimeScale(0.5)

	e, err := f.app.Instantiate(EntityScene(f.scene), EntityComponents(tA))
	require.Nil(t, err)
	a, _ := ComponentOf[*compA](e)
	f.advance(500 * time.Millisecond)
	assert.InDelta(t, 0.25, a.RefreshDeltaTime(), 1e-9)
	assert.InDelta(t, 0.25, a.DeltaTime(), 1e-9)
	assert.InDelta(t, 0, a.RefreshDeltaTime(), 1e-9)
}

func TestRenderFrame(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Instantiate(EntityScene(f.scene), EntityComponents(tA))
	require.Nil(t, err)
	keep := f.scene.scene().CreateCanvas(CanvasModeOf(ModeKeep)).(*Surface)
	f.j.reset()

	f.app.RenderFrame()
	main := f.scene.Canvases()[0].(*Surface)
	assert.Equal(t, []string{"a:render"}, f.j.events)
	assert.Equal(t, 1, main.Clears())
	assert.Equal(t, 1, main.Presents())
	assert.Equal(t, 0, keep.Clears())
	assert.Equal(t, 1, keep.Presents())
	assert.Equal(t, 800.0, main.Width())
}

func TestTriggerEnter(t *testing.T) {
	f := newFixture(t)
	e1, err := f.app.Instantiate(EntityType(tTestEntity), EntityScene(f.scene))
	require.Nil(t, err)
	e2, err := f.app.Instantiate(EntityScene(f.scene), EntityTag("rock"))
	require.Nil(t, err)
	f.j.reset()

	f.app.TriggerEnter(Collision2{Entity1: e1, Entity2: e2})
	assert.Equal(t, []string{"entity:trigger:rock"}, f.j.events)

	e1.SetEnabled(false)
	f.j.reset()
	f.app.TriggerEnter(Collision2{Entity1: e1, Entity2: e2})
	assert.Empty(t, f.j.events)
}

func TestStartPost(t *testing.T) {
	j := &journal{}
	reg := NewRegistry()
	require.Nil(t, reg.RegisterScene(SceneMeta{
		Type: tTestScene,
		New: func() IScene {
			return &testScene{j: j}
		},
	}))
	app := NewApplication(AppRegistry(reg), AppUpdateDur(time.Millisecond), AppRenderDur(time.Millisecond))
	require.Nil(t, app.Start(tTestScene))
	err := app.Start()
	require.NotNil(t, err)
	assert.Equal(t, util.EcOpened, err.Code())

	done := make(chan int, 1)
	app.Post(func() {
		done <- len(app.Scenes())
	})
	select {
	case n := <-done:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("posted job not run")
	}
	assert.Eventually(t, func() bool {
		ch := make(chan int64, 1)
		app.Post(func() {
			ch <- app.FrameNum()
		})
		return <-ch > 0
	}, time.Second, 5*time.Millisecond)

	app.Stop()
	assert.Empty(t, app.Scenes())
	assert.Contains(t, j.events, "scene:destroy")
}
