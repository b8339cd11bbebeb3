package ecs

import (
	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/util"
)

type (
	TEntity    string
	TComponent string
	TService   string
	TScene     string
	IntentId   = ds.FnId
	FnHookErr  func(*util.Err)
)

const (
	// TDefaultEntity is the empty marker entity, registered in every registry.
	TDefaultEntity TEntity = "default"
)
