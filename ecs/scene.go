package ecs

import (
	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/util"
)

type Scene struct {
	object
	typ      TScene
	entities *ds.KSet[string, IEntity]
	canvases []ICanvas
}

func (s *Scene) scene() *Scene {
	return s
}

func (s *Scene) Type() TScene {
	return s.typ
}

func (s *Scene) Entities() []IEntity {
	return s.entities.Values()
}

func (s *Scene) Canvases() []ICanvas {
	return s.canvases
}

func (s *Scene) Canvas() ICanvas {
	if len(s.canvases) == 0 {
		return nil
	}
	return s.canvases[0]
}

// CreateCanvas adds a canvas to the scene, it is disposed with the scene.
func (s *Scene) CreateCanvas(opts ...CanvasOption) ICanvas {
	o := CanvasOpt{
		Name:   s.typ.String(),
		Mode:   ModeClear,
		Width:  DefCanvasWidth,
		Height: DefCanvasHeight,
	}
	for _, opt := range opts {
		opt(&o)
	}
	canvas := s.app.option.canvasFactory(o)
	s.canvases = append(s.canvases, canvas)
	return canvas
}

// Instantiate creates an entity in this scene unless EntityScene says otherwise.
func (s *Scene) Instantiate(opts ...EntityOption) (IEntity, *util.Err) {
	return s.app.Instantiate(append([]EntityOption{EntityScene(s.self.(IScene))}, opts...)...)
}

func (s *Scene) Load(t TScene) (IScene, *util.Err) {
	return s.app.Load(t)
}

func (s *Scene) Unload(ref any) {
	s.app.Unload(ref)
}

func (s *Scene) AddIntent(fn func()) IntentId {
	return s.app.AddIntent(fn)
}

func (s *Scene) RemoveIntent(id IntentId) {
	s.app.RemoveIntent(id)
}

func (s *Scene) TimeScale() float64 {
	return s.app.TimeScale()
}

func (s *Scene) SetTimeScale(scale float64) {
	s.app.SetTimeScale(scale)
}

func (s *Scene) disposeCanvases() {
	for _, c := range s.canvases {
		c.Dispose()
	}
	s.canvases = nil
}

func (t TScene) String() string {
	return string(t)
}

func firstCanvas(scene IScene) ICanvas {
	canvases := scene.Canvases()
	if len(canvases) == 0 {
		return nil
	}
	return canvases[0]
}
