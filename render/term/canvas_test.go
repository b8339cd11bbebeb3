package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/vmath"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestCell(t *testing.T) {
	screen := newScreen(t)
	c := NewCanvas(screen, ecs.CanvasOpt{Width: 800, Height: 240})

	x, y, ok := c.Cell(vmath.Vec2(15, 25))
	assert.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)

	_, _, ok = c.Cell(vmath.Vec2(-1, 0))
	assert.False(t, ok)
	_, _, ok = c.Cell(vmath.Vec2(800, 0))
	assert.False(t, ok)
}

func TestDraw(t *testing.T) {
	screen := newScreen(t)
	c := NewCanvas(screen, ecs.CanvasOpt{Width: 80, Height: 24})

	c.Point(vmath.Vec2(3, 4), '*')
	c.Text(vmath.Vec2(78, 0), "abc")
	c.Line(vmath.Vec2(0, 10), vmath.Vec2(5, 10), '-')
	c.Point(vmath.Vec2(100, 100), '!')

	assert.Equal(t, '*', runeAt(screen, 3, 4))
	assert.Equal(t, 'a', runeAt(screen, 78, 0))
	assert.Equal(t, 'b', runeAt(screen, 79, 0))
	for x := 0; x <= 5; x++ {
		assert.Equal(t, '-', runeAt(screen, x, 10))
	}

	c.Circle(vmath.Vec2(40, 12), 4, 'o')
	assert.Equal(t, 'o', runeAt(screen, 44, 12))

	c.Clear()
	assert.Equal(t, ' ', runeAt(screen, 3, 4))
}

func TestFactory(t *testing.T) {
	screen := newScreen(t)
	reg := ecs.NewRegistry()
	require.Nil(t, reg.RegisterScene(ecs.SceneMeta{
		Type: "term",
		New: func() ecs.IScene {
			return &ecs.Scene{}
		},
	}))
	app := ecs.NewApplication(ecs.AppRegistry(reg), ecs.AppCanvasFactory(Factory(screen)))
	scene, err := app.Load("term")
	require.Nil(t, err)
	canvas := scene.(*ecs.Scene).CreateCanvas(ecs.CanvasSize(160, 48))
	c, ok := canvas.(*Canvas)
	require.True(t, ok)
	assert.Equal(t, "term", c.Name())
	assert.Equal(t, ecs.ModeClear, c.Mode())
	assert.Equal(t, 160.0, c.Width())

	app.Destroy(scene)
	assert.Nil(t, c.Screen())
	c.Point(vmath.Vec2(1, 1), 'x')
	c.Present()
}
