package asteroids

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lgasteroids/asteroids/util"
)

type waitInfo struct {
	name string
	fn   util.Fn
}

var (
	_WaitExitInfos   = make([]*waitInfo, 0, 2)
	_WaitExitTimeout = 30 * time.Second
)

// BeforeExitFn runs fn once the process starts exiting; WaitExit waits for it.
func BeforeExitFn(name string, fn util.Fn) {
	_WaitExitInfos = append(_WaitExitInfos, &waitInfo{
		name: name,
		fn:   fn,
	})
}

// BeforeExitCh returns a channel the owner closes when it has finished shutting down.
func BeforeExitCh(name string) chan<- struct{} {
	ch := make(chan struct{})
	BeforeExitFn(name, func() {
		<-ch
	})
	return ch
}

func SetWaitExitTimeout(dur time.Duration) {
	_WaitExitTimeout = dur
}

// WaitExit blocks until a termination signal or the process context ends,
// then cancels the process context and waits for the registered exit hooks.
func WaitExit() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(signalCh)
	select {
	case <-util.Ctx().Done():
		Info("context done", nil)
	case s := <-signalCh:
		Info("signal notify", util.M{
			"signal": s.String(),
		})
		util.Cancel()
	}

	waitCh := make(chan struct{})
	go func() {
		defer close(waitCh)
		count := len(_WaitExitInfos)
		if count == 0 {
			return
		}
		nameCh := make(chan string, count)
		status := make(util.M, count)
		for _, info := range _WaitExitInfos {
			status[info.name] = false
			go func(info *waitInfo) {
				Info("wait exit", util.M{
					"name": info.name,
				})
				info.fn()
				nameCh <- info.name
			}(info)
		}
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for count > 0 {
			select {
			case <-ticker.C:
				Info("exit status", util.M{
					"status": status,
				})
			case name := <-nameCh:
				Info("exit", util.M{
					"name": name,
				})
				status[name] = true
				count--
			}
		}
	}()

	timeout := time.NewTimer(_WaitExitTimeout)
	defer timeout.Stop()
	select {
	case <-timeout.C:
		Info("exit timeout", nil)
	case <-waitCh:
		Info("exit complete", nil)
	}
}
