package main

import (
	"math"
	"math/rand"
	"strconv"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/components"
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/render/term"
	"github.com/lgasteroids/asteroids/util"
	"github.com/lgasteroids/asteroids/vmath"
)

const (
	TField    ecs.TScene     = "field"
	TAsteroid ecs.TEntity    = "asteroid"
	TSprite   ecs.TComponent = "sprite"
	TWrap     ecs.TComponent = "wrap"
	TBounce   ecs.TComponent = "bounce"
)

// canvas units per terminal cell
const (
	cellWidth  = 10
	cellHeight = 20
)

func register(reg *ecs.Registry, screen tcell.Screen, count int) *util.Err {
	if err := components.Register(reg); err != nil {
		return err
	}
	for _, meta := range []ecs.ComponentMeta{
		{
			Type:     TSprite,
			New:      func() ecs.IComponent { return &Sprite{Glyph: "o"} },
			Required: []ecs.TComponent{components.TTransform},
			Order:    1,
		},
		{
			Type:     TWrap,
			New:      func() ecs.IComponent { return &Wrap{} },
			Required: []ecs.TComponent{components.TTransform},
		},
		{
			Type:     TBounce,
			New:      func() ecs.IComponent { return &Bounce{} },
			Required: []ecs.TComponent{components.TRigidbody},
		},
	} {
		if err := reg.RegisterComponent(meta); err != nil {
			return err
		}
	}
	err := reg.RegisterEntity(ecs.EntityMeta{
		Type: TAsteroid,
		New: func() ecs.IEntity {
			return &ecs.Entity{}
		},
		Components: []ecs.Decl[ecs.TComponent]{
			ecs.Provider[ecs.TComponent]{Id: "transform", Class: components.TTransform},
			ecs.Provider[ecs.TComponent]{Id: "body", Class: components.TRigidbody},
			components.TCircleCollider2,
			components.TDrawer,
			components.TRender,
			ecs.Provider[ecs.TComponent]{Id: "sprite", Class: TSprite},
			TWrap,
			TBounce,
		},
	})
	if err != nil {
		return err
	}
	return reg.RegisterScene(ecs.SceneMeta{
		Type: TField,
		New: func() ecs.IScene {
			return &Field{screen: screen, count: count}
		},
	})
}

// Field fills the terminal with drifting asteroids.
type Field struct {
	ecs.Scene
	screen tcell.Screen
	count  int
}

func (f *Field) OnStart() {
	cols, rows := f.screen.Size()
	canvas := f.CreateCanvas(ecs.CanvasSize(float64(cols*cellWidth), float64(rows*cellHeight)))
	for i := 0; i < f.count; i++ {
		if err := f.spawn(canvas); err != nil {
			asteroids.Error(err)
			return
		}
	}
}

// Resize follows the terminal size, called on the loop goroutine.
func (f *Field) Resize() {
	f.screen.Sync()
	cols, rows := f.screen.Size()
	if canvas := f.Canvas(); canvas != nil {
		canvas.Resize(float64(cols*cellWidth), float64(rows*cellHeight))
	}
}

func (f *Field) spawn(canvas ecs.ICanvas) *util.Err {
	size := 40 + rand.Float64()*80
	angle := rand.Float64() * 2 * math.Pi
	speed := 40 + rand.Float64()*120
	glyphs := []string{"o", "*", "@", "#"}
	_, err := f.Instantiate(
		ecs.EntityType(TAsteroid),
		ecs.EntityComponents(
			ecs.Use[ecs.TComponent]("transform", util.M{
				"dimensions": util.M{"width": size, "height": size},
				"position": util.M{
					"x": (rand.Float64() - 0.5) * canvas.Width(),
					"y": (rand.Float64() - 0.5) * canvas.Height(),
				},
			}),
			ecs.Use[ecs.TComponent]("body", util.M{
				"maxVelocity": 200,
				"velocity":    util.M{"x": speed * math.Cos(angle), "y": speed * math.Sin(angle)},
			}),
			ecs.Use[ecs.TComponent]("sprite", util.M{
				"glyph": glyphs[rand.Intn(len(glyphs))],
			}),
		),
	)
	return err
}

// Sprite outlines the collider circle of its entity.
type Sprite struct {
	ecs.Component
	Glyph     string `use:"glyph"`
	Label     string `use:"label"`
	transform *components.Transform
}

func (s *Sprite) OnAwake() {
	s.transform, _ = ecs.SiblingOf[*components.Transform](s)
}

func (s *Sprite) Draw(canvas ecs.ICanvas) {
	c, ok := canvas.(*term.Canvas)
	if !ok || s.transform == nil {
		return
	}
	r, _ := utf8.DecodeRuneInString(s.Glyph)
	p := s.transform.CanvasPosition()
	c.Circle(p, s.transform.Dimensions.MaxHalf(), r)
	if s.Label != "" {
		c.Text(p, s.Label)
	}
}

// Wrap moves a body leaving one edge of the canvas to the opposite edge.
type Wrap struct {
	ecs.Component
	transform *components.Transform
}

func (w *Wrap) OnAwake() {
	w.transform, _ = ecs.SiblingOf[*components.Transform](w)
}

func (w *Wrap) OnLateLoop() {
	canvas := w.Canvas()
	if canvas == nil || w.transform == nil {
		return
	}
	p := w.transform.Position()
	moved := false
	if vmath.IsOverflowingX(canvas.Width(), p.X, 0) {
		p.X = wrapAxis(p.X, canvas.Width())
		moved = true
	}
	if vmath.IsOverflowingY(canvas.Height(), p.Y, 0) {
		p.Y = wrapAxis(p.Y, canvas.Height())
		moved = true
	}
	if moved {
		w.transform.SetPosition(p)
	}
}

func wrapAxis(v, size float64) float64 {
	half := size / 2
	switch {
	case v > half:
		return v - size
	case v < -half:
		return v + size
	}
	return v
}

// Bounce reverses the body on contact and counts the hits on the sprite.
type Bounce struct {
	ecs.Component
	Hits int
}

func (b *Bounce) OnTriggerEnter(collision ecs.Collision2) {
	b.Hits++
	if body, ok := ecs.SiblingOf[*components.Rigidbody](b); ok {
		body.SetVelocity(body.Velocity().Neg())
	}
	if sprite, ok := ecs.SiblingOf[*Sprite](b); ok {
		sprite.Label = strconv.Itoa(b.Hits)
	}
	asteroids.Debug("hit", util.M{
		"entity": collision.Entity1.Id(),
		"other":  collision.Entity2.Id(),
		"hits":   b.Hits,
	})
}
