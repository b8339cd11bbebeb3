package ecs

type CanvasMode uint8

const (
	// ModeKeep canvases keep their content between render frames.
	ModeKeep CanvasMode = iota
	// ModeClear canvases are cleared before every render sweep.
	ModeClear
)

const (
	DefCanvasWidth  = 1280
	DefCanvasHeight = 720
)

type ICanvas interface {
	Name() string
	Width() float64
	Height() float64
	Mode() CanvasMode
	Layer() int
	Resize(width, height float64)
	Clear()
	// Present flushes what was drawn during the render sweep.
	Present()
	Dispose()
}

type (
	CanvasOpt struct {
		Name   string
		Mode   CanvasMode
		Width  float64
		Height float64
		Layer  int
	}
	CanvasOption  func(o *CanvasOpt)
	CanvasFactory func(opt CanvasOpt) ICanvas
)

func CanvasName(name string) CanvasOption {
	return func(o *CanvasOpt) {
		o.Name = name
	}
}

func CanvasModeOf(mode CanvasMode) CanvasOption {
	return func(o *CanvasOpt) {
		o.Mode = mode
	}
}

func CanvasSize(width, height float64) CanvasOption {
	return func(o *CanvasOpt) {
		o.Width = width
		o.Height = height
	}
}

func CanvasLayer(layer int) CanvasOption {
	return func(o *CanvasOpt) {
		o.Layer = layer
	}
}

// Surface is the headless canvas, it only counts what happens to it.
type Surface struct {
	opt      CanvasOpt
	clears   int
	presents int
	disposed bool
}

func NewSurface(opt CanvasOpt) ICanvas {
	return &Surface{opt: opt}
}

func (s *Surface) Name() string {
	return s.opt.Name
}

func (s *Surface) Width() float64 {
	return s.opt.Width
}

func (s *Surface) Height() float64 {
	return s.opt.Height
}

func (s *Surface) Mode() CanvasMode {
	return s.opt.Mode
}

func (s *Surface) Layer() int {
	return s.opt.Layer
}

func (s *Surface) Resize(width, height float64) {
	s.opt.Width = width
	s.opt.Height = height
}

func (s *Surface) Clear() {
	s.clears++
}

func (s *Surface) Present() {
	s.presents++
}

func (s *Surface) Dispose() {
	s.disposed = true
}

func (s *Surface) Clears() int {
	return s.clears
}

func (s *Surface) Presents() int {
	return s.presents
}

func (s *Surface) Disposed() bool {
	return s.disposed
}
