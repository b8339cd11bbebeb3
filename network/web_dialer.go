package network

import (
	"context"
	"net/http"

	"github.com/fasthttp/websocket"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

type WebDialer struct {
	name   string
	url    string
	header http.Header
	agent  *WebAgent
}

func NewWebDialer(name, url string, header http.Header, msgType int, receiver asteroids.FnAgentBytes, options ...asteroids.AgentOption) *WebDialer {
	return &WebDialer{
		name:   name,
		url:    url,
		header: header,
		agent:  NewWebAgent(url, msgType, receiver, options...),
	}
}

func (d *WebDialer) Name() string {
	return d.name
}

func (d *WebDialer) Connect(ctx context.Context) *util.Err {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, d.url, d.header)
	if err != nil {
		return util.NewErr(util.EcConnectErr, util.M{
			"url":   d.url,
			"error": err.Error(),
		})
	}
	d.agent.Start(ctx, conn)
	return nil
}

func (d *WebDialer) Agent() asteroids.IAgent {
	return d.agent
}
