package ecs

// TCap records which optional hooks a registered type implements.
type TCap uint32

const (
	CapAwake TCap = 1 << iota
	CapStart
	CapDestroy
	CapLoop
	CapFixedLoop
	CapLateLoop
	CapRender
	CapTriggerEnter
	CapDraw
	CapUse
)

func (c TCap) Has(cap TCap) bool {
	return c&cap != 0
}

func capsOf(v any) TCap {
	var c TCap
	if _, ok := v.(IOnAwake); ok {
		c |= CapAwake
	}
	if _, ok := v.(IOnStart); ok {
		c |= CapStart
	}
	if _, ok := v.(IOnDestroy); ok {
		c |= CapDestroy
	}
	if _, ok := v.(IOnLoop); ok {
		c |= CapLoop
	}
	if _, ok := v.(IOnFixedLoop); ok {
		c |= CapFixedLoop
	}
	if _, ok := v.(IOnLateLoop); ok {
		c |= CapLateLoop
	}
	if _, ok := v.(IOnRender); ok {
		c |= CapRender
	}
	if _, ok := v.(IOnTriggerEnter); ok {
		c |= CapTriggerEnter
	}
	if _, ok := v.(IDraw); ok {
		c |= CapDraw
	}
	if _, ok := v.(IUse); ok {
		c |= CapUse
	}
	return c
}
