package util

import "os"

var _Pid = os.Getpid()

func PID() int {
	return _Pid
}
