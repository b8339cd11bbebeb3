package util

import "context"

var (
	_Ctx, _Cancel = context.WithCancel(context.Background())
)

// Ctx is the process context, cancelled on exit.
func Ctx() context.Context {
	return _Ctx
}

func Cancel() {
	_Cancel()
}

// SubCtx derives a cancellable context from parent, falling back to the process context.
func SubCtx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = _Ctx
	}
	return context.WithCancel(parent)
}
