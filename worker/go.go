package worker

import (
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

// Go runs fn on the shared ants pool, or on a plain goroutine when the pool
// refuses it. A panic in fn is logged.
func Go(fn util.Fn) {
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				asteroids.Error2(util.EcRecover, util.M{
					"recover": fmt.Sprintf("%v", r),
				})
			}
		}()
		fn.Invoke()
	}
	if e := ants.Submit(task); e != nil {
		asteroids.Warn3(util.EcServiceErr, e)
		go task()
	}
}
