package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgasteroids/asteroids/components"
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/render/term"
	"github.com/lgasteroids/asteroids/vmath"
)

func TestWrapAxis(t *testing.T) {
	assert.Equal(t, -40.0, wrapAxis(60, 100))
	assert.Equal(t, 40.0, wrapAxis(-60, 100))
	assert.Equal(t, 10.0, wrapAxis(10, 100))
}

func TestField(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 20)
	defer screen.Fini()

	reg := ecs.NewRegistry()
	require.Nil(t, register(reg, screen, 3))
	app := ecs.NewApplication(ecs.AppRegistry(reg), ecs.AppCanvasFactory(term.Factory(screen)))
	scene, err := app.Load(TField)
	require.Nil(t, err)

	canvas := scene.(*Field).Canvas()
	require.NotNil(t, canvas)
	assert.Equal(t, 400.0, canvas.Width())
	assert.Equal(t, 400.0, canvas.Height())
	assert.Len(t, scene.Entities(), 3)
	assert.Len(t, ecs.FindOf[*Sprite](app), 3)

	transform, ok := ecs.ComponentOf[*components.Transform](scene.Entities()[0])
	require.True(t, ok)
	transform.SetPosition(vmath.Vec2(250, 0))
	app.UpdateFrame()
	assert.Less(t, transform.Position().X, 0.0)

	app.RenderFrame()
}

func TestBounce(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 20)
	defer screen.Fini()

	reg := ecs.NewRegistry()
	require.Nil(t, register(reg, screen, 0))
	app := ecs.NewApplication(ecs.AppRegistry(reg), ecs.AppCanvasFactory(term.Factory(screen)))
	scene, err := app.Load(TField)
	require.Nil(t, err)

	spawn := func(x, vx float64) ecs.IEntity {
		e, err := scene.(*Field).Instantiate(
			ecs.EntityType(TAsteroid),
			ecs.EntityComponents(
				ecs.Use[ecs.TComponent]("transform", map[string]any{
					"position": map[string]any{"x": x, "y": 0},
				}),
				ecs.Use[ecs.TComponent]("body", map[string]any{
					"velocity": map[string]any{"x": vx, "y": 0},
				}),
			),
		)
		require.Nil(t, err)
		return e
	}
	a := spawn(-10, 5)
	spawn(10, -5)
	app.UpdateFrame()

	bounce, ok := ecs.ComponentOf[*Bounce](a)
	require.True(t, ok)
	assert.Equal(t, 1, bounce.Hits)
	body, ok := ecs.ComponentOf[*components.Rigidbody](a)
	require.True(t, ok)
	assert.Less(t, body.Velocity().X, 0.0)
	sprite, ok := ecs.ComponentOf[*Sprite](a)
	require.True(t, ok)
	assert.Equal(t, "1", sprite.Label)
}
