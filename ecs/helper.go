package ecs

// ComponentOf returns the first component of e that is a T.
func ComponentOf[T any](e IEntity) (T, bool) {
	for _, c := range e.Components() {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// ServiceOf returns the first service linked to owner that is a T.
func ServiceOf[T any](owner interface{ Services() []IService }) (T, bool) {
	for _, s := range owner.Services() {
		if t, ok := s.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindOf returns every registered component of the application that is a T.
func FindOf[T any](a *Application) []T {
	var found []T
	a.components.Iter(func(c IComponent) {
		if t, ok := c.(T); ok {
			found = append(found, t)
		}
	})
	return found
}

// SiblingOf returns the first component that is a T on the entity owning c.
func SiblingOf[T any](c IComponent) (T, bool) {
	return ComponentOf[T](c.Entity())
}
