// Command demo runs the runtime in a terminal: asteroids drift, wrap around
// the edges and bounce off each other. Esc or q quits.
package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/components"
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/log"
	"github.com/lgasteroids/asteroids/render/term"
	"github.com/lgasteroids/asteroids/util"
)

func init() {
	asteroids.AddVar("count", 12, "asteroids to spawn")
	asteroids.AddVar("profile", "", "cpu or mem, written to the working directory")
	asteroids.AddVar("log-file", "demo.log", "rotating log file")
	asteroids.AddVar("log-lvl", asteroids.SInfo, "lowest level logged")
}

func main() {
	asteroids.ParseVar()
	logFile, _ := asteroids.GetVar[string]("log-file")
	logLvl, _ := asteroids.GetVar[string]("log-lvl")
	asteroids.ClearLoggers()
	asteroids.SetLogDefParams(util.M{"role": "demo"})
	asteroids.AddLogger(log.NewStd(log.StdFile(logFile), log.StdLogStrLvl(logLvl)))

	switch mode, _ := asteroids.GetVar[string]("profile"); mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	screen, e := tcell.NewScreen()
	if e != nil {
		asteroids.Fatal3(util.EcServiceErr, e)
	}
	if e = screen.Init(); e != nil {
		asteroids.Fatal3(util.EcServiceErr, e)
	}
	defer screen.Fini()

	count, _ := asteroids.GetVar[int]("count")
	reg := ecs.NewRegistry()
	if err := register(reg, screen, count); err != nil {
		screen.Fini()
		asteroids.Fatal(err)
	}
	app := ecs.NewApplication(
		ecs.AppRegistry(reg),
		ecs.AppCanvasFactory(term.Factory(screen)),
	)
	app.BindHookErr(func(err *util.Err) {
		asteroids.Error(err)
	})
	if err := app.Start(TField); err != nil {
		screen.Fini()
		asteroids.Fatal(err)
	}
	app.Post(func() {
		asteroids.Info("demo started", util.M{
			"asteroids":  count,
			"colliders":  len(ecs.FindOf[*components.CircleCollider2](app)),
			"components": len(app.Components()),
		})
	})

	go pollInput(app, screen)
	asteroids.WaitExit()
}

func pollInput(app *ecs.Application, screen tcell.Screen) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				util.Cancel()
				return
			}
		case *tcell.EventResize:
			app.Post(func() {
				if scene, ok := app.GetScene(TField); ok {
					scene.(*Field).Resize()
				}
			})
		}
	}
}
