package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/vmath"
)

// Canvas draws canvas coordinates onto a terminal screen, scaled so the
// whole canvas fits the screen's cells. Canvases built by one Factory share
// the screen, its lifecycle belongs to the caller.
type Canvas struct {
	screen tcell.Screen
	opt    ecs.CanvasOpt
	style  tcell.Style
}

func NewCanvas(screen tcell.Screen, opt ecs.CanvasOpt) *Canvas {
	return &Canvas{
		screen: screen,
		opt:    opt,
		style:  tcell.StyleDefault,
	}
}

func Factory(screen tcell.Screen) ecs.CanvasFactory {
	return func(opt ecs.CanvasOpt) ecs.ICanvas {
		return NewCanvas(screen, opt)
	}
}

func (c *Canvas) Name() string {
	return c.opt.Name
}

func (c *Canvas) Width() float64 {
	return c.opt.Width
}

func (c *Canvas) Height() float64 {
	return c.opt.Height
}

func (c *Canvas) Mode() ecs.CanvasMode {
	return c.opt.Mode
}

func (c *Canvas) Layer() int {
	return c.opt.Layer
}

func (c *Canvas) Resize(width, height float64) {
	c.opt.Width = width
	c.opt.Height = height
}

func (c *Canvas) Clear() {
	if c.screen == nil {
		return
	}
	c.screen.Clear()
}

func (c *Canvas) Present() {
	if c.screen == nil {
		return
	}
	c.screen.Show()
}

func (c *Canvas) Dispose() {
	c.screen = nil
}

func (c *Canvas) Screen() tcell.Screen {
	return c.screen
}

func (c *Canvas) SetStyle(style tcell.Style) {
	c.style = style
}

// Cell maps a canvas point to a terminal cell, ok is false outside the screen.
func (c *Canvas) Cell(p vmath.Vector2) (x, y int, ok bool) {
	if c.screen == nil || c.opt.Width <= 0 || c.opt.Height <= 0 {
		return 0, 0, false
	}
	cols, rows := c.screen.Size()
	x = int(math.Floor(p.X * float64(cols) / c.opt.Width))
	y = int(math.Floor(p.Y * float64(rows) / c.opt.Height))
	return x, y, x >= 0 && y >= 0 && x < cols && y < rows
}

func (c *Canvas) Point(p vmath.Vector2, r rune) {
	x, y, ok := c.Cell(p)
	if !ok {
		return
	}
	c.screen.SetContent(x, y, r, nil, c.style)
}

// Text writes s starting at p, clipped at the right edge.
func (c *Canvas) Text(p vmath.Vector2, s string) {
	x, y, ok := c.Cell(p)
	if !ok {
		return
	}
	cols, _ := c.screen.Size()
	for _, r := range s {
		if x >= cols {
			return
		}
		c.screen.SetContent(x, y, r, nil, c.style)
		x++
	}
}

// Circle plots the outline of a circle centred on p.
func (c *Canvas) Circle(p vmath.Vector2, radius float64, r rune) {
	if radius <= 0 {
		c.Point(p, r)
		return
	}
	steps := int(math.Max(8, math.Ceil(2*math.Pi*radius/c.cellSize())))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Point(vmath.Vec2(p.X+radius*math.Cos(a), p.Y+radius*math.Sin(a)), r)
	}
}

// Line plots the segment from a to b.
func (c *Canvas) Line(a, b vmath.Vector2, r rune) {
	steps := int(math.Ceil(vmath.Distance(a, b) / c.cellSize()))
	if steps < 1 {
		c.Point(a, r)
		return
	}
	for i := 0; i <= steps; i++ {
		c.Point(vmath.Lerp(a, b, float64(i)/float64(steps)), r)
	}
}

func (c *Canvas) cellSize() float64 {
	if c.screen == nil {
		return 1
	}
	cols, rows := c.screen.Size()
	if cols <= 0 || rows <= 0 {
		return 1
	}
	return math.Max(1, math.Min(c.opt.Width/float64(cols), c.opt.Height/float64(rows)))
}
