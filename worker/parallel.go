package worker

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

const (
	_JobUnit = 64
)

var (
	_ParallelNum = max(runtime.NumCPU(), 4)
)

// Pool splits slices of work across an ants pool and waits for every chunk.
type Pool struct {
	pool *ants.Pool
	unit int
}

// NewPool creates a pool of size goroutines; chunks smaller than unit run inline.
func NewPool(size, unit int) (*Pool, *util.Err) {
	if size <= 0 {
		size = _ParallelNum
	}
	if unit <= 0 {
		unit = _JobUnit
	}
	p, e := ants.NewPool(size)
	if e != nil {
		return nil, util.WrapErr(util.EcServiceErr, e)
	}
	return &Pool{pool: p, unit: unit}, nil
}

func (p *Pool) Release() {
	p.pool.Release()
}

func (p *Pool) Running() int {
	return p.pool.Running()
}

// P calls fn for every item and returns once all calls are done.
func P[T any](p *Pool, items []T, fn func(T)) {
	l := len(items)
	if l <= p.unit {
		for _, item := range items {
			fn(item)
		}
		return
	}
	count := l / _ParallelNum
	if l%_ParallelNum != 0 {
		count++
	}
	count = max(count, p.unit)
	var wg sync.WaitGroup
	for start := 0; start < l; start += count {
		chunk := items[start:min(start+count, l)]
		wg.Add(1)
		e := p.pool.Submit(func() {
			defer wg.Done()
			for _, item := range chunk {
				fn(item)
			}
		})
		if e != nil {
			asteroids.Warn3(util.EcServiceErr, e)
			for _, item := range chunk {
				fn(item)
			}
			wg.Done()
		}
	}
	wg.Wait()
}
