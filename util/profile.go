package util

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	Cpu       = "cpu"
	Memory    = "mem"
	Rss       = "rss"
	Goroutine = "goroutine"
)

func GetCpuPercent() (float64, *Err) {
	percent, e := cpu.Percent(0, false)
	if e != nil {
		return 0, WrapErr(EcServiceErr, e)
	}
	if len(percent) == 0 {
		return 0, NewErr(EcEmpty, nil)
	}
	return percent[0], nil
}

func GetMemPercent() (float64, *Err) {
	memInfo, e := mem.VirtualMemory()
	if e != nil {
		return 0, WrapErr(EcServiceErr, e)
	}
	return memInfo.UsedPercent, nil
}

func GetRss() (uint64, *Err) {
	p, e := process.NewProcess(int32(PID()))
	if e != nil {
		return 0, WrapErr(EcServiceErr, e)
	}
	info, e := p.MemoryInfo()
	if e != nil {
		return 0, WrapErr(EcServiceErr, e)
	}
	return info.RSS, nil
}

// StartProfile samples process status every dur until ctx is done.
func StartProfile(ctx context.Context, dur time.Duration, receiver func(M)) {
	go func() {
		receiver(Sampling())
		ticker := time.NewTicker(dur)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				receiver(Sampling())
			}
		}
	}()
}

func Sampling() M {
	status := M{
		Goroutine: runtime.NumGoroutine(),
	}
	if p, err := GetMemPercent(); err == nil {
		status[Memory] = float32(p)
	}
	if rss, err := GetRss(); err == nil {
		status[Rss] = rss
	}
	if runtime.GOOS != "darwin" {
		if p, err := GetCpuPercent(); err == nil {
			status[Cpu] = float32(p)
		}
	}
	return status
}
