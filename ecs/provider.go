package ecs

import (
	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/sid"
	"github.com/lgasteroids/asteroids/util"
)

// Provider describes one instance to build: its id, its registered class and
// the field overrides applied after construction.
type Provider[T ~string] struct {
	Id    string
	Class T
	Use   util.M
}

func (p Provider[T]) provider() Provider[T] {
	return p
}

// Decl is either a bare type or a Provider.
type Decl[T ~string] interface {
	provider() Provider[T]
}

func (t TComponent) provider() Provider[TComponent] {
	return Provider[TComponent]{Class: t}
}

func (t TService) provider() Provider[TService] {
	return Provider[TService]{Class: t}
}

// Use builds a class-less provider that only overrides the instance with id.
func Use[T ~string](id string, use util.M) Provider[T] {
	return Provider[T]{Id: id, Use: use}
}

// ToProviders normalizes declarations: bare types become providers with a
// fresh id, providers without an id get one, the use map is never nil.
func ToProviders[T ~string](decls []Decl[T]) []Provider[T] {
	providers := make([]Provider[T], 0, len(decls))
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		p := decl.provider()
		if p.Id == "" {
			p.Id = sid.GetStrId()
		}
		if p.Use == nil {
			p.Use = util.M{}
		}
		providers = append(providers, p)
	}
	return providers
}

// mergeProviders folds class-less providers into the classed provider with
// the same id, later overrides winning. Unmatched ones are ignored.
// Classed providers sharing an id are all kept so instantiation rejects them.
func mergeProviders[T ~string](providers []Provider[T]) []Provider[T] {
	classed := make([]Provider[T], 0, len(providers))
	idx := make(map[string]int, len(providers))
	for _, p := range providers {
		if p.Class == "" {
			continue
		}
		if _, ok := idx[p.Id]; !ok {
			idx[p.Id] = len(classed)
		}
		classed = append(classed, p)
	}
	for _, p := range providers {
		if p.Class != "" {
			continue
		}
		i, ok := idx[p.Id]
		if !ok {
			asteroids.Warn2(util.EcNotExist, util.M{
				"provider": p.Id,
				"use":      p.Use,
			})
			continue
		}
		classed[i].Use = classed[i].Use.Merge(p.Use)
	}
	return classed
}
