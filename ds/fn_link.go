package ds

// FnId identifies a callback bound to a FnLink, used to unbind it.
type FnId = uint64

type fnItem[T any] struct {
	id FnId
	fn T
}

// FnLink keeps callbacks in bind order. Funcs are not comparable, so
// unbinding goes through the id returned by Push.
type FnLink[T any] struct {
	link   Link[fnItem[T]]
	nextId FnId
}

func NewFnLink[T any]() *FnLink[T] {
	return &FnLink[T]{}
}

func (l *FnLink[T]) Push(fn T) FnId {
	l.nextId++
	l.link.Push(fnItem[T]{id: l.nextId, fn: fn})
	return l.nextId
}

func (l *FnLink[T]) Del(id FnId) bool {
	return l.link.Del(func(item fnItem[T]) bool {
		return item.id == id
	})
}

func (l *FnLink[T]) Count() uint32 {
	return l.link.Count()
}

// Values snapshots the callbacks, so invoking them may bind or unbind others.
func (l *FnLink[T]) Values() []T {
	fns := make([]T, 0, l.link.Count())
	l.link.Iter(func(item fnItem[T]) {
		fns = append(fns, item.fn)
	})
	return fns
}

func (l *FnLink[T]) Reset() {
	l.link.PopAll()
}

func NewFnLink1[T any]() *FnLink1[T] {
	return &FnLink1[T]{}
}

type FnLink1[T any] struct {
	FnLink[func(T)]
}

func (l *FnLink1[T]) Invoke(obj T) {
	for _, fn := range l.Values() {
		fn(obj)
	}
}

func NewFnLink2[T0, T1 any]() *FnLink2[T0, T1] {
	return &FnLink2[T0, T1]{}
}

type FnLink2[T0, T1 any] struct {
	FnLink[func(T0, T1)]
}

func (l *FnLink2[T0, T1]) Invoke(v0 T0, v1 T1) {
	for _, fn := range l.Values() {
		fn(v0, v1)
	}
}

func NewFnLink0() *FnLink0 {
	return &FnLink0{}
}

type FnLink0 struct {
	FnLink[func()]
}

func (l *FnLink0) Invoke() {
	for _, fn := range l.Values() {
		fn()
	}
}
