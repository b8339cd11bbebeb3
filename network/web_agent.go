package network

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthttp/websocket"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

func NewWebAgent(addr string, msgType int, receiver asteroids.FnAgentBytes, options ...asteroids.AgentOption) *WebAgent {
	a := &WebAgent{
		agent:   newAgent(addr, receiver, options...),
		msgType: msgType,
	}
	a.self = a
	return a
}

// WebAgent is a websocket connection accepting a single message type.
type WebAgent struct {
	agent
	msgType int
	conn    *websocket.Conn
}

func (a *WebAgent) Start(ctx context.Context, conn *websocket.Conn) {
	a.conn = conn
	a.closer = conn.Close
	a.start(ctx)
	go a.read()
	go a.write()
}

func (a *WebAgent) read() {
	var err *util.Err
	defer func() {
		if r := recover(); r != nil {
			asteroids.Error2(util.EcRecover, util.M{
				"addr":    a.addr,
				"recover": fmt.Sprintf("%v", r),
			})
			err = util.NewErr(util.EcRecover, nil)
		}
		a.close(err)
	}()

	deadline := time.Duration(a.opt.DeadlineSecs) * time.Second
	a.conn.SetReadLimit(int64(a.opt.PacketMaxCap))
	for a.ctx.Err() == nil {
		if deadline > 0 {
			_ = a.conn.SetReadDeadline(time.Now().Add(deadline))
		}
		mt, bytes, e := a.conn.ReadMessage()
		if e != nil {
			err = util.WrapErr(util.EcIo, e)
			return
		}
		if mt != a.msgType {
			err = util.NewErr(util.EcWrongType, util.M{
				"message type": mt,
				"expected":     a.msgType,
			})
			return
		}
		if len(bytes) > 0 {
			a.onReceived(bytes)
		}
	}
}

func (a *WebAgent) write() {
	var err *util.Err
	defer func() {
		a.close(err)
	}()

	for {
		select {
		case <-a.ctx.Done():
			return
		case _, ok := <-a.wake:
			if !ok {
				return
			}
			for elem := a.drain(); elem != nil; elem = elem.Next {
				if e := a.conn.WriteMessage(a.msgType, elem.Value); e != nil {
					err = util.WrapErr(util.EcIo, e)
					return
				}
				a.onSent(len(elem.Value))
			}
		}
	}
}
