package ds

import (
	"github.com/lgasteroids/asteroids/util"
)

func NewLink[T any]() *Link[T] {
	return &Link[T]{}
}

// Link is a singly linked FIFO queue.
type Link[T any] struct {
	head  *LinkElem[T]
	tail  *LinkElem[T]
	count uint32
}

func (l *Link[T]) Count() uint32 {
	return l.count
}

func (l *Link[T]) Push(a T) {
	e := &LinkElem[T]{
		Value: a,
	}
	if l.count == 0 {
		l.head = e
	} else {
		l.tail.Next = e
	}
	l.tail = e
	l.count++
}

func (l *Link[T]) Pop() (T, bool) {
	if l.count == 0 {
		return util.Default[T](), false
	}
	e := l.head.Value
	l.head = l.head.Next
	l.count--
	if l.count == 0 {
		l.tail = nil
	}
	return e, true
}

func (l *Link[T]) Iter(fn func(T)) {
	for e := l.head; e != nil; e = e.Next {
		fn(e.Value)
	}
}

// Del removes the first element matching fn.
func (l *Link[T]) Del(fn func(T) bool) bool {
	var prev *LinkElem[T]
	for e := l.head; e != nil; e = e.Next {
		if !fn(e.Value) {
			prev = e
			continue
		}
		if prev == nil {
			l.head = e.Next
		} else {
			prev.Next = e.Next
		}
		if l.tail == e {
			l.tail = prev
		}
		l.count--
		return true
	}
	return false
}

func (l *Link[T]) Values() []T {
	values := make([]T, 0, l.count)
	l.Iter(func(v T) {
		values = append(values, v)
	})
	return values
}

// PopAll detaches the whole chain and returns its head.
func (l *Link[T]) PopAll() *LinkElem[T] {
	head := l.head
	l.head = nil
	l.tail = nil
	l.count = 0
	return head
}

type LinkElem[T any] struct {
	Next  *LinkElem[T]
	Value T
}
