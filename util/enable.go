package util

import (
	"sync"
)

// Enable guards a resource that starts off, is switched on once and off
// once. Actions run under its lock and only while it is on.
type Enable struct {
	Mtx      sync.RWMutex
	disabled bool
}

func NewEnable() *Enable {
	return &Enable{
		disabled: true,
	}
}

func (e *Enable) Disabled() bool {
	e.Mtx.RLock()
	defer e.Mtx.RUnlock()
	return e.disabled
}

// RAction runs fn under the read lock, EcClosed when off.
func (e *Enable) RAction(fn Fn) *Err {
	e.Mtx.RLock()
	defer e.Mtx.RUnlock()
	if e.disabled {
		return NewErr(EcClosed, nil)
	}
	fn.Invoke()
	return nil
}

// WAction runs fn under the write lock, EcClosed when off.
func (e *Enable) WAction(fn Fn) *Err {
	e.Mtx.Lock()
	defer e.Mtx.Unlock()
	if e.disabled {
		return NewErr(EcClosed, nil)
	}
	fn.Invoke()
	return nil
}

// Enable switches on and runs fn, false when it already was on.
func (e *Enable) Enable(fn Fn) bool {
	return e.swap(false, fn)
}

// Disable switches off and runs fn, false when it already was off.
func (e *Enable) Disable(fn Fn) bool {
	return e.swap(true, fn)
}

func (e *Enable) swap(disabled bool, fn Fn) bool {
	e.Mtx.Lock()
	defer e.Mtx.Unlock()
	if e.disabled == disabled {
		return false
	}
	e.disabled = disabled
	fn.Invoke()
	return true
}
