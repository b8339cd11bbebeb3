package components

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/util"
	"github.com/lgasteroids/asteroids/vmath"
)

const (
	tProbe  ecs.TEntity    = "probe"
	tSprite ecs.TComponent = "sprite"
	tShadow ecs.TComponent = "shadow"
	tWorld  ecs.TScene     = "world"
)

type probe struct {
	ecs.Entity
	hits []string
}

func (p *probe) OnTriggerEnter(c ecs.Collision2) {
	p.hits = append(p.hits, c.Entity2.Tag())
}

type sprite struct {
	ecs.Component
	log *[]string
}

func (s *sprite) Draw(canvas ecs.ICanvas) {
	*s.log = append(*s.log, s.Entity().Tag()+":"+string(s.Type())+"@"+canvas.Name())
}

type world struct {
	app   *ecs.Application
	scene ecs.IScene
	now   time.Time
	draws []string
}

func (w *world) step(d time.Duration) {
	w.now = w.now.Add(d)
	w.app.UpdateFrame()
}

func (w *world) spawn(t *testing.T, opts ...ecs.EntityOption) ecs.IEntity {
	e, err := w.scene.(*ecs.Scene).Instantiate(opts...)
	require.Nil(t, err)
	return e
}

func newWorld(t *testing.T) *world {
	w := &world{
		now: time.Unix(100, 0),
	}
	reg := ecs.NewRegistry()
	require.Nil(t, Register(reg))
	require.Nil(t, reg.RegisterEntity(ecs.EntityMeta{
		Type: tProbe,
		New: func() ecs.IEntity {
			return &probe{}
		},
		Components: []ecs.Decl[ecs.TComponent]{TTransform, TCircleCollider2},
	}))
	require.Nil(t, reg.RegisterComponent(ecs.ComponentMeta{
		Type: tSprite,
		New: func() ecs.IComponent {
			return &sprite{log: &w.draws}
		},
		Order: 1,
	}))
	require.Nil(t, reg.RegisterComponent(ecs.ComponentMeta{
		Type: tShadow,
		New: func() ecs.IComponent {
			return &sprite{log: &w.draws}
		},
		Order: -1,
	}))
	require.Nil(t, reg.RegisterScene(ecs.SceneMeta{
		Type: tWorld,
		New: func() ecs.IScene {
			return &ecs.Scene{}
		},
	}))
	w.app = ecs.NewApplication(ecs.AppRegistry(reg), ecs.AppClock(func() time.Time {
		return w.now
	}))
	scene, err := w.app.Load(tWorld)
	require.Nil(t, err)
	scene.(*ecs.Scene).CreateCanvas(ecs.CanvasName("main"), ecs.CanvasSize(800, 600))
	w.scene = scene
	return w
}

func transformOf(t *testing.T, e ecs.IEntity) *Transform {
	tr, ok := ecs.ComponentOf[*Transform](e)
	require.True(t, ok)
	return tr
}

func rigidbodyOf(t *testing.T, e ecs.IEntity) *Rigidbody {
	rb, ok := ecs.ComponentOf[*Rigidbody](e)
	require.True(t, ok)
	return rb
}

func assertVec(t *testing.T, expected, actual vmath.Vector2) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, 1e-9, "x")
	assert.InDelta(t, expected.Y, actual.Y, 1e-9, "y")
}

func TestTransformHierarchy(t *testing.T) {
	w := newWorld(t)
	parent := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))
	child := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))

	parent.SetPosition(vmath.Vec2(10, 0))
	parent.SetRotation(math.Pi / 2)
	child.LocalPosition = vmath.Vec2(1, 0)
	child.SetParent(parent)
	assert.Equal(t, []*Transform{child}, parent.Children())
	assertVec(t, vmath.Vec2(10, -1), child.Position())

	parent.SetPosition(vmath.Vec2(20, 5))
	assertVec(t, vmath.Vec2(20, 4), child.Position())

	child.SetPosition(vmath.Vec2(0, 0))
	assertVec(t, vmath.Vec2(0, 0), child.Position())

	child.SetRotation(1)
	assert.InDelta(t, 1, child.Rotation(), 1e-9)
	assert.InDelta(t, 1-math.Pi/2, child.LocalRotation(), 1e-9)

	t.Run("reparent", func(t *testing.T) {
		other := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))
		child.SetParent(other)
		assert.Empty(t, parent.Children())
		assert.Equal(t, other, child.Parent())

		other.SetParent(child)
		assert.Nil(t, other.Parent())
	})
}

func TestTransformUse(t *testing.T) {
	w := newWorld(t)
	tr := transformOf(t, w.spawn(t, ecs.EntityComponents(ecs.Provider[ecs.TComponent]{
		Class: TTransform,
		Use: util.M{
			"position":   util.M{"x": 3, "y": -2},
			"rotation":   0.5,
			"dimensions": util.M{"width": 40, "height": 20},
		},
	})))
	assertVec(t, vmath.Vec2(3, -2), tr.Position())
	assert.Equal(t, 0.5, tr.Rotation())
	assert.Equal(t, vmath.NewRect(40, 20), tr.Dimensions)
}

func TestTotalDimensions(t *testing.T) {
	w := newWorld(t)
	parent := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))
	assert.Equal(t, vmath.NewRect(100, 100), parent.TotalDimensions())

	near := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))
	near.LocalPosition = vmath.Vec2(1, 0)
	near.SetParent(parent)
	far := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))
	far.LocalPosition = vmath.Vec2(3, 4)
	far.Dimensions = vmath.NewRect(10, 20)
	far.SetParent(parent)

	assert.Equal(t, vmath.NewRect(30, 30), parent.TotalDimensions())
}

func TestCanvasPosition(t *testing.T) {
	w := newWorld(t)
	tr := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))
	tr.SetPosition(vmath.Vec2(10, 20))
	assertVec(t, vmath.Vec2(410, 280), tr.CanvasPosition())
}

func TestTransformDestroyOrphansChildren(t *testing.T) {
	w := newWorld(t)
	parentEntity := w.spawn(t, ecs.EntityComponents(TTransform))
	parent := transformOf(t, parentEntity)
	parent.SetPosition(vmath.Vec2(5, 5))
	child := transformOf(t, w.spawn(t, ecs.EntityComponents(TTransform)))
	child.LocalPosition = vmath.Vec2(1, 1)
	child.SetParent(parent)

	w.app.Destroy(parentEntity)
	assert.Nil(t, child.Parent())
	assertVec(t, vmath.Vec2(6, 6), child.Position())
}

func TestRigidbodyRequiresTransform(t *testing.T) {
	w := newWorld(t)
	_, err := w.app.Instantiate(ecs.EntityScene(w.scene), ecs.EntityComponents(TRigidbody))
	require.NotNil(t, err)
	assert.Equal(t, util.EcMissingComponent, err.Code())
	assert.Empty(t, w.app.Components())
}

func TestRigidbodySymplectic(t *testing.T) {
	w := newWorld(t)
	e := w.spawn(t, ecs.EntityComponents(TTransform, TRigidbody))
	rb := rigidbodyOf(t, e)
	tr := transformOf(t, e)
	rb.SetResultant(vmath.Vec2(1, 0))

	w.step(time.Second)
	assert.InDelta(t, 1, rb.DeltaTime(), 1e-9)
	assertVec(t, vmath.Vec2(1, 0), rb.Velocity())
	assertVec(t, vmath.Vec2(0, 0), tr.Position())
	assert.True(t, rb.Resultant().IsZero())

	w.step(time.Second)
	assertVec(t, vmath.Vec2(1, 0), rb.Velocity())
	assertVec(t, vmath.Vec2(1, 0), tr.Position())
}

func TestRigidbodyFriction(t *testing.T) {
	w := newWorld(t)
	e := w.spawn(t, ecs.EntityComponents(TTransform, ecs.Provider[ecs.TComponent]{
		Class: TRigidbody,
		Use:   util.M{"friction": 0.5, "velocity": util.M{"x": 2, "y": 0}},
	}))
	rb := rigidbodyOf(t, e)

	w.step(time.Second)
	assertVec(t, vmath.Vec2(2, 0), transformOf(t, e).Position())
	assertVec(t, vmath.Vec2(-0.5, 0), rb.Resultant())

	w.step(time.Second)
	assertVec(t, vmath.Vec2(1.5, 0), rb.Velocity())
}

func TestRigidbodyRotation(t *testing.T) {
	w := newWorld(t)
	e := w.spawn(t, ecs.EntityComponents(TTransform, TRigidbody))
	rb := rigidbodyOf(t, e)
	rb.AngularResultant = 0.5
	rb.Mass = 2

	w.step(time.Second)
	assert.InDelta(t, 1, rb.AngularVelocity(), 1e-9)
	assert.InDelta(t, 1, transformOf(t, e).Rotation(), 1e-9)
}

func TestRigidbodySetters(t *testing.T) {
	rb := NewRigidbody()
	rb.MaxVelocity = 5
	rb.SetVelocity(vmath.Vec2(30, 40))
	assertVec(t, vmath.Vec2(3, 4), rb.Velocity())
	assert.InDelta(t, 5, rb.Velocity().Magnitude(), 1e-9)

	rb.SetVelocity(vmath.Vec2(0.0005, 0))
	assert.Equal(t, vmath.Vector2{}, rb.Velocity())

	rb.SetResultant(vmath.Vec2(0, 0.0009))
	assert.Equal(t, vmath.Vector2{}, rb.Resultant())

	rb.MaxAngularVelocity = 2
	rb.SetAngularVelocity(-5)
	assert.Equal(t, -2.0, rb.AngularVelocity())
	rb.SetAngularVelocity(1.5)
	assert.Equal(t, 1.5, rb.AngularVelocity())
}

func TestRigidbodyUse(t *testing.T) {
	w := newWorld(t)
	e := w.spawn(t, ecs.EntityComponents(TTransform, ecs.Provider[ecs.TComponent]{
		Class: TRigidbody,
		Use:   util.M{"mass": 2, "maxVelocity": 1, "velocity": util.M{"x": 3, "y": 4}},
	}))
	rb := rigidbodyOf(t, e)
	assert.Equal(t, 2.0, rb.Mass)
	assertVec(t, vmath.Vec2(0.6, 0.8), rb.Velocity())

	_, err := w.app.Instantiate(ecs.EntityScene(w.scene), ecs.EntityComponents(TTransform, ecs.Provider[ecs.TComponent]{
		Class: TRigidbody,
		Use:   util.M{"mass": 0},
	}))
	require.NotNil(t, err)
	assert.Equal(t, util.EcParamsErr, err.Code())
}

func TestCollisionEnterOnce(t *testing.T) {
	w := newWorld(t)
	still := w.spawn(t, ecs.EntityType(tProbe), ecs.EntityTag("still"))
	mover := w.spawn(t, ecs.EntityType(tProbe), ecs.EntityTag("mover"))
	for _, e := range []ecs.IEntity{still, mover} {
		c, _ := ecs.ComponentOf[*CircleCollider2](e)
		c.Dimensions = vmath.NewRect(10, 10)
	}
	mt := transformOf(t, mover)

	for _, x := range []float64{30, 20, 9, 5, 0} {
		mt.SetPosition(vmath.Vec2(x, 0))
		w.step(time.Millisecond)
	}
	assert.Equal(t, []string{"mover"}, still.(*probe).hits)
	assert.Equal(t, []string{"still"}, mover.(*probe).hits)

	mt.SetPosition(vmath.Vec2(30, 0))
	w.step(time.Millisecond)
	mt.SetPosition(vmath.Vec2(1, 0))
	w.step(time.Millisecond)
	assert.Equal(t, []string{"mover", "mover"}, still.(*probe).hits)

	collision, ok := w.app.Service(TCollision)
	require.True(t, ok)
	assert.True(t, collision.(*Collision).Overlapping(still, mover))
}

func TestColliderCenter(t *testing.T) {
	w := newWorld(t)
	e := w.spawn(t, ecs.EntityComponents(TTransform, ecs.Provider[ecs.TComponent]{
		Class: TCircleCollider2,
		Use:   util.M{"offset": util.M{"x": 2, "y": 0}},
	}))
	tr := transformOf(t, e)
	tr.SetPosition(vmath.Vec2(1, 1))
	tr.SetRotation(math.Pi / 2)
	c, _ := ecs.ComponentOf[*CircleCollider2](e)
	assertVec(t, vmath.Vec2(1, -1), c.Center())
	assert.Equal(t, 50.0, c.Radius())
}

func TestDrawerOrder(t *testing.T) {
	w := newWorld(t)
	root := w.spawn(t, ecs.EntityTag("root"), ecs.EntityComponents(TTransform, tSprite, TDrawer, TRender))
	child := w.spawn(t, ecs.EntityTag("child"), ecs.EntityComponents(TTransform, tShadow))
	transformOf(t, child).SetParent(transformOf(t, root))

	w.app.RenderFrame()
	assert.Equal(t, []string{"child:shadow@main", "root:sprite@main"}, w.draws)

	drawer, _ := ecs.ComponentOf[*Drawer](root)
	drawer.SetEnabled(false)
	w.draws = nil
	w.app.RenderFrame()
	assert.Empty(t, w.draws)
}
