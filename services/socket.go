package services

import (
	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/util"
)

const (
	TSocket ecs.TService = "socket"
	TLG     ecs.TService = "lg"
)

// Transport is the relay connection, relay.Client in production.
type Transport interface {
	Emit(event string, data any, ack func(util.JsonRaw)) *util.Err
	On(event string, fn func(util.JsonRaw)) ds.FnId
	Off(event string, id ds.FnId)
}

// Register adds the socket and Liquid Galaxy services to reg, both bound
// to transport.
func Register(reg *ecs.Registry, transport Transport) *util.Err {
	err := reg.RegisterService(ecs.ServiceMeta{
		Type: TSocket,
		New: func() ecs.IService {
			return &SocketService{transport: transport}
		},
	})
	if err != nil {
		return err
	}
	return reg.RegisterService(ecs.ServiceMeta{
		Type: TLG,
		New: func() ecs.IService {
			return NewLG()
		},
		Services: []ecs.TService{TSocket},
	})
}

// SocketService forwards relay events into the application loop, callbacks
// run there like any hook.
type SocketService struct {
	ecs.Service
	transport Transport
}

func (s *SocketService) Emit(event string, data any) *util.Err {
	return s.transport.Emit(event, data, nil)
}

func (s *SocketService) EmitAck(event string, data any, ack func(util.JsonRaw)) *util.Err {
	app := s.App()
	return s.transport.Emit(event, data, func(raw util.JsonRaw) {
		app.Post(func() {
			ack(raw)
		})
	})
}

func (s *SocketService) On(event string, fn func(util.JsonRaw)) ds.FnId {
	app := s.App()
	return s.transport.On(event, func(raw util.JsonRaw) {
		app.Post(func() {
			fn(raw)
		})
	})
}

func (s *SocketService) Off(event string, id ds.FnId) {
	s.transport.Off(event, id)
}

// OnData decodes the payload of event into T before calling fn.
func OnData[T any](s *SocketService, event string, fn func(T)) ds.FnId {
	return s.On(event, func(raw util.JsonRaw) {
		var data T
		if err := util.JsonUnmarshal(raw, &data); err != nil {
			err.AddParam("event", event)
			asteroids.Warn(err)
			return
		}
		fn(data)
	})
}

// EmitData is EmitAck with the answer decoded into T.
func EmitData[T any](s *SocketService, event string, data any, fn func(T)) *util.Err {
	return s.EmitAck(event, data, func(raw util.JsonRaw) {
		var res T
		if err := util.JsonUnmarshal(raw, &res); err != nil {
			err.AddParam("event", event)
			asteroids.Warn(err)
			return
		}
		fn(res)
	})
}
