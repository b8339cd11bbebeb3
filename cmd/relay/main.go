// Command relay serves the game to every Liquid Galaxy screen and relays
// their events between the master and the slaves.
package main

import (
	"time"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/loader"
	"github.com/lgasteroids/asteroids/log"
	"github.com/lgasteroids/asteroids/relay"
	"github.com/lgasteroids/asteroids/util"
)

type conf struct {
	Port         int    `mapstructure:"port"`
	Path         string `mapstructure:"path"`
	Static       string `mapstructure:"static"`
	ScreenAmount int    `mapstructure:"screen_amount"`
	ProfileSecs  int    `mapstructure:"profile_secs"`
	PoolSize     int    `mapstructure:"pool_size"`
	DeadlineSecs int    `mapstructure:"deadline_secs"`
	LogLvl       string `mapstructure:"log_lvl"`
	LogFile      string `mapstructure:"log_file"`
}

func init() {
	asteroids.AddEnvVar("nscreens", "SCREEN_AMOUNT", 5, "number of screens in the rig")
	asteroids.AddVar("port", 8080, "listen port")
	asteroids.AddVar("static", "", "directory with the game files")
	asteroids.AddVar("conf", "", "yaml config, overrides the flags")
	asteroids.AddVar("log-lvl", asteroids.SInfo, "lowest level logged")
	asteroids.AddVar("log-file", "", "rotating log file, stdout when empty")
}

func main() {
	asteroids.ParseVar()
	c := loadConf()

	asteroids.ClearLoggers()
	asteroids.SetLogDefParams(util.M{"role": "relay"})
	opts := []log.StdOption{log.StdLogStrLvl(c.LogLvl)}
	if c.LogFile != "" {
		opts = append(opts, log.StdFile(c.LogFile))
	}
	asteroids.AddLogger(log.NewStd(opts...))

	srv := relay.NewServer(
		relay.ServerAddr(util.PortToAddr(c.Port)),
		relay.ServerPath(c.Path),
		relay.ServerStatic(c.Static),
		relay.ServerScreenAmount(c.ScreenAmount),
		relay.ServerProfileDur(time.Duration(c.ProfileSecs)*time.Second),
		relay.ServerPoolSize(c.PoolSize),
		relay.ServerDeadline(c.DeadlineSecs),
	)
	if err := srv.Start(); err != nil {
		asteroids.Fatal(err)
	}
	asteroids.BeforeExitFn("relay", srv.Close)
	asteroids.WaitExit()
}

func loadConf() *conf {
	c := &conf{
		Path:     "/ws",
		PoolSize: 64,
	}
	c.ScreenAmount, _ = asteroids.GetVar[int]("nscreens")
	c.Port, _ = asteroids.GetVar[int]("port")
	c.Static, _ = asteroids.GetVar[string]("static")
	c.LogLvl, _ = asteroids.GetVar[string]("log-lvl")
	c.LogFile, _ = asteroids.GetVar[string]("log-file")
	if path, _ := asteroids.GetVar[string]("conf"); path != "" {
		err := loader.LoadConf(c, loader.ConvertConfLocalPath(path)...)
		if err != nil {
			asteroids.Warn(err)
		}
	}
	return c
}
