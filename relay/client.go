package relay

import (
	"context"
	"net/http"
	"sync"

	"github.com/fasthttp/websocket"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/network"
	"github.com/lgasteroids/asteroids/util"
)

// Client is a screen's connection to the relay. Handlers and acks run on
// the connection's reader goroutine.
type Client struct {
	dialer   *network.WebDialer
	mtx      sync.Mutex
	handlers map[string]*ds.FnLink1[util.JsonRaw]
	acks     map[uint64]func(util.JsonRaw)
	nextAck  uint64
}

// Dial connects to url, e.g. ws://localhost:8080/ws.
func Dial(ctx context.Context, url string, header http.Header, opts ...asteroids.AgentOption) (*Client, *util.Err) {
	c := &Client{
		handlers: make(map[string]*ds.FnLink1[util.JsonRaw]),
		acks:     make(map[uint64]func(util.JsonRaw)),
	}
	c.dialer = network.NewWebDialer("relay", url, header, websocket.TextMessage, c.receive, opts...)
	if err := c.dialer.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Agent() asteroids.IAgent {
	return c.dialer.Agent()
}

// Emit sends event with data; when ack is not nil it receives the relay's answer.
func (c *Client) Emit(event string, data any, ack func(util.JsonRaw)) *util.Err {
	var id uint64
	if ack != nil {
		c.mtx.Lock()
		c.nextAck++
		id = c.nextAck
		c.acks[id] = ack
		c.mtx.Unlock()
	}
	bytes, err := Encode(event, data, id)
	if err == nil {
		err = c.dialer.Agent().Send(bytes)
	}
	if err != nil && id != 0 {
		c.mtx.Lock()
		delete(c.acks, id)
		c.mtx.Unlock()
	}
	return err
}

func (c *Client) On(event string, fn func(util.JsonRaw)) ds.FnId {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	link, ok := c.handlers[event]
	if !ok {
		link = ds.NewFnLink1[util.JsonRaw]()
		c.handlers[event] = link
	}
	return link.Push(fn)
}

func (c *Client) Off(event string, id ds.FnId) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if link, ok := c.handlers[event]; ok {
		link.Del(id)
	}
}

func (c *Client) BindDisconnected(fn asteroids.FnAgentErr) {
	c.dialer.Agent().BindDisconnected(fn)
}

func (c *Client) Close() {
	c.dialer.Agent().Dispose()
}

func (c *Client) receive(_ asteroids.IAgent, bytes []byte) {
	pkt, err := Decode(bytes)
	if err != nil {
		asteroids.Warn(err)
		return
	}
	if pkt.Event == EvtAck {
		c.mtx.Lock()
		fn, ok := c.acks[pkt.Ack]
		delete(c.acks, pkt.Ack)
		c.mtx.Unlock()
		if ok {
			fn(pkt.Data)
		}
		return
	}
	c.mtx.Lock()
	var fns []func(util.JsonRaw)
	if link, ok := c.handlers[pkt.Event]; ok {
		fns = link.Values()
	}
	c.mtx.Unlock()
	for _, fn := range fns {
		fn(pkt.Data)
	}
}
