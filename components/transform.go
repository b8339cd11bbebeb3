package components

import (
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/util"
	"github.com/lgasteroids/asteroids/vmath"
)

func NewTransform() *Transform {
	return &Transform{
		Dimensions: vmath.NewRect(100, 100),
	}
}

// Transform places an entity in the world. With a parent, position and
// rotation are stored relative to it and resolved on every read.
type Transform struct {
	ecs.Component
	Dimensions    vmath.Rect
	LocalPosition vmath.Vector2
	position      vmath.Vector2
	rotation      float64
	parent        *Transform
	children      []*Transform
}

func (t *Transform) Parent() *Transform {
	return t.parent
}

func (t *Transform) Children() []*Transform {
	return t.children
}

// SetParent moves t under parent, nil makes it a root. The local position
// is kept, so the world position follows the new parent.
func (t *Transform) SetParent(parent *Transform) {
	if parent == t.parent {
		return
	}
	for p := parent; p != nil; p = p.parent {
		if p == t {
			asteroids.Warn2(util.EcIllegalOp, util.M{
				"transform": t.Id(),
				"parent":    parent.Id(),
				"error":     "parent cycle",
			})
			return
		}
	}
	t.detach()
	t.parent = parent
	if parent != nil {
		parent.children = append(parent.children, t)
	}
}

func (t *Transform) detach() {
	if t.parent == nil {
		return
	}
	t.parent.children = slices.DeleteFunc(t.parent.children, func(c *Transform) bool {
		return c == t
	})
	t.parent = nil
}

func (t *Transform) Position() vmath.Vector2 {
	if t.parent == nil {
		return t.position
	}
	return vmath.Sum(t.parent.Position(), vmath.Rotate(t.LocalPosition, -t.parent.Rotation()))
}

func (t *Transform) SetPosition(position vmath.Vector2) {
	if t.parent == nil {
		t.position = position
		return
	}
	t.LocalPosition = vmath.Rotate(vmath.Sub(position, t.parent.Position()), t.parent.Rotation())
}

func (t *Transform) Translate(delta vmath.Vector2) {
	t.SetPosition(vmath.Sum(t.Position(), delta))
}

// Rotation is in radians.
func (t *Transform) Rotation() float64 {
	if t.parent == nil {
		return t.rotation
	}
	return t.parent.Rotation() + t.rotation
}

func (t *Transform) SetRotation(rotation float64) {
	if t.parent == nil {
		t.rotation = rotation
		return
	}
	t.rotation = rotation - t.parent.Rotation()
}

func (t *Transform) LocalRotation() float64 {
	return t.rotation
}

// CanvasPosition maps the world position, origin at the canvas center and
// y up, to canvas coordinates with the origin top left and y down.
func (t *Transform) CanvasPosition() vmath.Vector2 {
	var w, h float64
	if canvas := t.Canvas(); canvas != nil {
		w, h = canvas.Width(), canvas.Height()
	}
	p := t.Position()
	return vmath.Vec2(w/2+p.X, h/2-p.Y)
}

// TotalDimensions is a square enclosing the child furthest from t, or the
// own dimensions when t has no children.
func (t *Transform) TotalDimensions() vmath.Rect {
	if len(t.children) == 0 {
		return t.Dimensions
	}
	furthest := t.children[0]
	for _, c := range t.children[1:] {
		if c.LocalPosition.Magnitude() > furthest.LocalPosition.Magnitude() {
			furthest = c
		}
	}
	side := 2 * (furthest.LocalPosition.Magnitude() + furthest.Dimensions.MaxHalf())
	return vmath.NewRect(side, side)
}

// OnDestroy leaves the children as roots where they are in the world.
func (t *Transform) OnDestroy() {
	for _, c := range slices.Clone(t.children) {
		position, rotation := c.Position(), c.Rotation()
		c.parent = nil
		c.position = position
		c.rotation = rotation
	}
	t.children = nil
	t.detach()
}

type transformUse struct {
	Position      *vmath.Vector2 `mapstructure:"position"`
	LocalPosition *vmath.Vector2 `mapstructure:"localPosition"`
	Rotation      *float64       `mapstructure:"rotation"`
	Dimensions    *vmath.Rect    `mapstructure:"dimensions"`
}

func (t *Transform) Use(m util.M) *util.Err {
	var u transformUse
	if err := decodeUse(m, &u); err != nil {
		return err
	}
	if u.Dimensions != nil {
		t.Dimensions = *u.Dimensions
	}
	if u.LocalPosition != nil {
		t.LocalPosition = *u.LocalPosition
	}
	if u.Position != nil {
		t.SetPosition(*u.Position)
	}
	if u.Rotation != nil {
		t.SetRotation(*u.Rotation)
	}
	return nil
}

func decodeUse(m util.M, target any) *util.Err {
	dec, e := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           target,
	})
	if e != nil {
		return util.WrapErr(util.EcParamsErr, e)
	}
	if e = dec.Decode(map[string]any(m)); e != nil {
		return util.WrapErr(util.EcParamsErr, e)
	}
	return nil
}
