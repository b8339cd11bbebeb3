package ecs

import (
	"time"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

// Start loads the bootstrap scenes then runs the render and update loops on
// one goroutine until Stop or process exit.
func (a *Application) Start(bootstrap ...TScene) *util.Err {
	if a.ctx != nil {
		return util.NewErr(util.EcOpened, util.M{
			"application": "started",
		})
	}
	for _, t := range bootstrap {
		if _, err := a.Load(t); err != nil {
			return err
		}
	}
	a.ctx, a.ccl = util.SubCtx(util.Ctx())
	a.done = make(chan struct{})
	completeCh := asteroids.BeforeExitCh("stop application")
	go func() {
		defer func() {
			for _, scene := range a.scenes.Values() {
				a.Destroy(scene)
			}
			if a.frameNum > 0 {
				asteroids.Info("frames", util.M{
					"updates": a.frameNum,
					"renders": a.renderNum,
					"average": (a.sumUpdate / time.Duration(a.frameNum)).String(),
					"max":     a.maxUpdate.String(),
				})
			}
			close(a.done)
			close(completeCh)
		}()

		renderTicker := time.NewTicker(a.option.renderDur)
		updateTicker := time.NewTicker(a.option.updateDur)
		defer renderTicker.Stop()
		defer updateTicker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				asteroids.Debug("ctx done", nil)
				return
			case <-updateTicker.C:
				a.UpdateFrame()
			case <-renderTicker.C:
				a.RenderFrame()
			case <-a.sign:
				a.runJobs()
			}
		}
	}()
	return nil
}

// Stop ends the loops and waits for every scene to be destroyed.
func (a *Application) Stop() {
	if a.ccl == nil {
		return
	}
	a.ccl()
	<-a.done
}

// Post queues fn to run on the loop goroutine, it is safe from any goroutine.
func (a *Application) Post(fn util.Fn) {
	a.jobMtx.Lock()
	a.jobs = append(a.jobs, fn)
	a.jobMtx.Unlock()
	select {
	case a.sign <- struct{}{}:
	default:
	}
}

func (a *Application) runJobs() {
	for {
		a.jobMtx.Lock()
		if len(a.jobs) == 0 {
			a.jobMtx.Unlock()
			return
		}
		a.swap, a.jobs = a.jobs, a.swap[:0]
		a.jobMtx.Unlock()

		for i, fn := range a.swap {
			a.runJob("post", fn)
			a.swap[i] = nil
		}
	}
}

func (a *Application) runJob(kind string, fn util.Fn) {
	defer func() {
		if r := recover(); r != nil {
			asteroids.Error2(util.EcRecover, util.M{
				"job":     kind,
				"recover": r,
			})
		}
	}()
	fn.Invoke()
}

// UpdateFrame runs posted jobs, then the fixed, update and late sweeps, then
// the intents. Each sweep walks a snapshot taken when it begins and skips
// instances disabled by earlier hooks.
func (a *Application) UpdateFrame() {
	begin := time.Now()
	a.runJobs()
	a.sweep(CapFixedLoop, "OnFixedLoop", func(o IObject) {
		o.(IOnFixedLoop).OnFixedLoop()
	})
	a.sweep(CapLoop, "OnLoop", func(o IObject) {
		o.(IOnLoop).OnLoop()
	})
	a.sweep(CapLateLoop, "OnLateLoop", func(o IObject) {
		o.(IOnLateLoop).OnLateLoop()
	})
	for _, fn := range a.intents.Values() {
		a.runJob("intent", fn)
	}
	a.frameNum++
	dur := time.Since(begin)
	a.sumUpdate += dur
	if dur > a.maxUpdate {
		a.maxUpdate = dur
	}
}

// RenderFrame clears the ModeClear canvases, runs the render sweep and
// presents every canvas.
func (a *Application) RenderFrame() {
	scenes := a.scenes.Values()
	for _, scene := range scenes {
		for _, c := range scene.Canvases() {
			if c.Mode() == ModeClear {
				c.Clear()
			}
		}
	}
	a.sweep(CapRender, "OnRender", func(o IObject) {
		o.(IOnRender).OnRender()
	})
	for _, scene := range scenes {
		if scene.base().destroyed {
			continue
		}
		for _, c := range scene.Canvases() {
			c.Present()
		}
	}
	a.renderNum++
}

func (a *Application) sweep(cap TCap, hook string, call func(IObject)) {
	for _, e := range a.entities.Values() {
		if !e.Enabled() || !e.base().caps.Has(cap) {
			continue
		}
		a.invoke(e, hook, func() {
			call(e)
		})
	}
	for _, c := range a.components.Values() {
		if !c.Enabled() || !c.base().caps.Has(cap) {
			continue
		}
		a.invoke(c, hook, func() {
			call(c)
		})
	}
}
