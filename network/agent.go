package network

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/util"
	"github.com/lgasteroids/asteroids/worker"
)

// agent holds what every transport shares: the outbox drained by one writer
// goroutine, the cache and the connection hooks. The embedding type sets
// self and closer before start.
type agent struct {
	opt      *asteroids.AgentOpt
	self     asteroids.IAgent
	closer   func() error
	addr     string
	receiver asteroids.FnAgentBytes

	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}

	// outbox and queued are guarded by enable.Mtx
	enable *util.Enable
	outbox *ds.Link[[]byte]
	queued int

	connected    *ds.FnLink1[asteroids.IAgent]
	disconnected *ds.FnLink2[asteroids.IAgent, *util.Err]

	mtx   sync.RWMutex
	id    string
	cache util.M

	sent, sentBytes, received, receivedBytes atomic.Uint64
}

func newAgent(addr string, receiver asteroids.FnAgentBytes, opts ...asteroids.AgentOption) agent {
	opt := &asteroids.AgentOpt{
		PacketMaxCap: asteroids.DefPacketMaxCap,
		QueueCap:     asteroids.DefQueueCap,
	}
	for _, o := range opts {
		o(opt)
	}
	return agent{
		opt:          opt,
		addr:         addr,
		id:           addr,
		receiver:     receiver,
		enable:       util.NewEnable(),
		outbox:       ds.NewLink[[]byte](),
		connected:    ds.NewFnLink1[asteroids.IAgent](),
		disconnected: ds.NewFnLink2[asteroids.IAgent, *util.Err](),
		cache:        util.M{},
	}
}

func (a *agent) start(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.enable.Enable(func() {
		a.wake = make(chan struct{}, 1)
	})
	worker.Go(func() {
		a.connected.Invoke(a.self)
	})
}

func (a *agent) Id() string {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	return a.id
}

func (a *agent) SetId(id string) {
	a.mtx.Lock()
	a.id = id
	a.mtx.Unlock()
}

func (a *agent) Addr() string {
	return a.addr
}

func (a *agent) Host() string {
	host, _, e := net.SplitHostPort(a.addr)
	if e != nil {
		return a.addr
	}
	return host
}

func (a *agent) SetCache(key string, val any) {
	a.mtx.Lock()
	a.cache[key] = val
	a.mtx.Unlock()
}

func (a *agent) GetCache(key string) (any, bool) {
	a.mtx.RLock()
	defer a.mtx.RUnlock()
	val, ok := a.cache[key]
	return val, ok
}

func (a *agent) DelCache(keys ...string) {
	a.mtx.Lock()
	for _, key := range keys {
		delete(a.cache, key)
	}
	a.mtx.Unlock()
}

func (a *agent) Send(bytes []byte) *util.Err {
	switch l := len(bytes); {
	case l == 0:
		return util.NewErr(util.EcEmpty, nil)
	case l > a.opt.PacketMaxCap:
		return util.NewErr(util.EcTooLong, util.M{
			"length": l,
			"max":    a.opt.PacketMaxCap,
		})
	}
	var full bool
	err := a.enable.WAction(func() {
		if a.opt.QueueCap > 0 && a.queued >= a.opt.QueueCap {
			full = true
			return
		}
		a.outbox.Push(bytes)
		a.queued++
		select {
		case a.wake <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	if full {
		return util.NewErr(util.EcOutOfRange, util.M{
			"queued": a.opt.QueueCap,
		})
	}
	return nil
}

// drain takes every queued frame at once.
func (a *agent) drain() *ds.LinkElem[[]byte] {
	a.enable.Mtx.Lock()
	defer a.enable.Mtx.Unlock()
	a.queued = 0
	return a.outbox.PopAll()
}

func (a *agent) onSent(n int) {
	a.sent.Add(1)
	a.sentBytes.Add(uint64(n))
}

func (a *agent) onReceived(bytes []byte) {
	a.received.Add(1)
	a.receivedBytes.Add(uint64(len(bytes)))
	if a.receiver != nil {
		a.receiver(a.self, bytes)
	}
}

func (a *agent) Stats() asteroids.AgentStats {
	a.enable.Mtx.RLock()
	queued := a.queued
	a.enable.Mtx.RUnlock()
	return asteroids.AgentStats{
		Sent:          a.sent.Load(),
		SentBytes:     a.sentBytes.Load(),
		Received:      a.received.Load(),
		ReceivedBytes: a.receivedBytes.Load(),
		Queued:        queued,
	}
}

func (a *agent) BindConnected(fn asteroids.FnAgent) {
	a.connected.Push(fn)
}

func (a *agent) BindDisconnected(fn asteroids.FnAgentErr) {
	a.disconnected.Push(fn)
}

// Dispose closes the connection, disconnected hooks still run.
func (a *agent) Dispose() {
	a.close(nil)
}

// close runs once, whichever of reader, writer or Dispose gets here first.
func (a *agent) close(err *util.Err) {
	a.enable.Disable(func() {
		a.cancel()
		close(a.wake)
		if a.closer != nil {
			_ = a.closer()
		}
		worker.Go(func() {
			a.disconnected.Invoke(a.self, err)
			a.connected.Reset()
			a.disconnected.Reset()
		})
	})
}
