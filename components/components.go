package components

import (
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/util"
)

const (
	TTransform       ecs.TComponent = "transform"
	TRigidbody       ecs.TComponent = "rigidbody"
	TCircleCollider2 ecs.TComponent = "circle_collider2"
	TDrawer          ecs.TComponent = "drawer"
	TRender          ecs.TComponent = "render"

	TCollision ecs.TService = "collision"
)

func init() {
	if err := Register(ecs.DefaultRegistry()); err != nil {
		panic(err)
	}
}

// Register adds the built-in components and the collision service to reg.
func Register(reg *ecs.Registry) *util.Err {
	for _, meta := range []ecs.ComponentMeta{
		{
			Type: TTransform,
			New: func() ecs.IComponent {
				return NewTransform()
			},
		},
		{
			Type: TRigidbody,
			New: func() ecs.IComponent {
				return NewRigidbody()
			},
			Required: []ecs.TComponent{TTransform},
		},
		{
			Type: TCircleCollider2,
			New: func() ecs.IComponent {
				return &CircleCollider2{}
			},
			Required: []ecs.TComponent{TTransform},
			Services: []ecs.Decl[ecs.TService]{TCollision},
		},
		{
			Type: TDrawer,
			New: func() ecs.IComponent {
				return &Drawer{}
			},
			Required: []ecs.TComponent{TTransform},
		},
		{
			Type: TRender,
			New: func() ecs.IComponent {
				return &Render{}
			},
			Required: []ecs.TComponent{TDrawer},
		},
	} {
		if err := reg.RegisterComponent(meta); err != nil {
			return err
		}
	}
	return reg.RegisterService(ecs.ServiceMeta{
		Type: TCollision,
		New: func() ecs.IService {
			return NewCollision()
		},
	})
}
