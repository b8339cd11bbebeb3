package ecs

type object struct {
	self      IObject
	app       *Application
	id        string
	order     int
	caps      TCap
	enabled   bool
	destroyed bool
}

func (o *object) base() *object {
	return o
}

func (o *object) Id() string {
	return o.id
}

func (o *object) Enabled() bool {
	return o.enabled
}

// SetEnabled has no effect once the instance is destroyed.
func (o *object) SetEnabled(enabled bool) {
	if o.destroyed {
		return
	}
	o.enabled = enabled
}

func (o *object) Order() int {
	return o.order
}

func (o *object) Caps() TCap {
	return o.caps
}

func (o *object) App() *Application {
	return o.app
}

func (o *object) Destroyed() bool {
	return o.destroyed
}

// Destroy destroys the instance itself, cascading like Application.Destroy.
func (o *object) Destroy() {
	if o.app == nil {
		return
	}
	o.app.Destroy(o.self)
}

func (o *object) live(app *Application) bool {
	return o.app == app && !o.destroyed
}

func byOrder[T IObject](a, b T) bool {
	return a.Order() < b.Order()
}
