package ds

import (
	"github.com/lgasteroids/asteroids/util"
)

// NewKSet creates a keyed set that keeps insertion order, also across deletes.
func NewKSet[KT comparable, VT any](defCap int, getKey func(VT) KT) *KSet[KT, VT] {
	if defCap == 0 {
		defCap = 1
	}
	return &KSet[KT, VT]{
		items:    make([]VT, 0, defCap),
		keyToIdx: make(map[KT]int, defCap),
		getKey:   getKey,
	}
}

type KSet[KT comparable, VT any] struct {
	items    []VT
	keyToIdx map[KT]int
	getKey   func(VT) KT
}

func (s *KSet[KT, VT]) Count() int {
	return len(s.items)
}

func (s *KSet[KT, VT]) Add(item VT) *util.Err {
	key := s.getKey(item)
	if _, ok := s.keyToIdx[key]; ok {
		return util.NewErr(util.EcExist, util.M{
			"key": key,
		})
	}
	s.keyToIdx[key] = len(s.items)
	s.items = append(s.items, item)
	return nil
}

// AddSorted places item after every element that before does not rank after it,
// so equal items keep their insertion order.
func (s *KSet[KT, VT]) AddSorted(item VT, before func(a, b VT) bool) *util.Err {
	key := s.getKey(item)
	if _, ok := s.keyToIdx[key]; ok {
		return util.NewErr(util.EcExist, util.M{
			"key": key,
		})
	}
	idx := len(s.items)
	for i, v := range s.items {
		if before(item, v) {
			idx = i
			break
		}
	}
	var zero VT
	s.items = append(s.items, zero)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = item
	s.reindex(idx)
	return nil
}

func (s *KSet[KT, VT]) Get(key KT) (VT, bool) {
	idx, ok := s.keyToIdx[key]
	if !ok {
		return util.Default[VT](), false
	}
	return s.items[idx], true
}

func (s *KSet[KT, VT]) Has(key KT) bool {
	_, ok := s.keyToIdx[key]
	return ok
}

func (s *KSet[KT, VT]) Del(key KT) (VT, bool) {
	idx, ok := s.keyToIdx[key]
	if !ok {
		return util.Default[VT](), false
	}
	item := s.items[idx]
	delete(s.keyToIdx, key)
	copy(s.items[idx:], s.items[idx+1:])
	var zero VT
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	s.reindex(idx)
	return item, true
}

func (s *KSet[KT, VT]) reindex(from int) {
	for i := from; i < len(s.items); i++ {
		s.keyToIdx[s.getKey(s.items[i])] = i
	}
}

// Values returns a copy, safe to range over while the set changes.
func (s *KSet[KT, VT]) Values() []VT {
	values := make([]VT, len(s.items))
	copy(values, s.items)
	return values
}

func (s *KSet[KT, VT]) Iter(fn func(VT)) {
	for _, item := range s.items {
		fn(item)
	}
}

func (s *KSet[KT, VT]) Find(fn func(VT) bool) (VT, bool) {
	for _, item := range s.items {
		if fn(item) {
			return item, true
		}
	}
	return util.Default[VT](), false
}
