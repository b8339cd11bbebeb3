package asteroids

import (
	"context"

	"github.com/lgasteroids/asteroids/util"
)

type (
	FnAgent      func(IAgent)
	FnAgentErr   func(IAgent, *util.Err)
	FnAgentBytes func(IAgent, []byte)
)

// IAgent is one live connection, a screen for the relay.
type IAgent interface {
	Id() string
	SetId(id string)
	Addr() string
	Host() string
	SetCache(key string, val any)
	GetCache(key string) (any, bool)
	DelCache(keys ...string)
	// Send queues one frame, the writer goroutine flushes it.
	Send(bytes []byte) *util.Err
	Stats() AgentStats
	Dispose()
	BindConnected(fn FnAgent)
	BindDisconnected(fn FnAgentErr)
}

// AgentStats counts frames and bytes since the agent started.
type AgentStats struct {
	Sent          uint64
	SentBytes     uint64
	Received      uint64
	ReceivedBytes uint64
	Queued        int
}

func (s AgentStats) Add(o AgentStats) AgentStats {
	return AgentStats{
		Sent:          s.Sent + o.Sent,
		SentBytes:     s.SentBytes + o.SentBytes,
		Received:      s.Received + o.Received,
		ReceivedBytes: s.ReceivedBytes + o.ReceivedBytes,
		Queued:        s.Queued + o.Queued,
	}
}

func (s AgentStats) ToM() util.M {
	return util.M{
		"sent":           s.Sent,
		"sent bytes":     s.SentBytes,
		"received":       s.Received,
		"received bytes": s.ReceivedBytes,
		"queued":         s.Queued,
	}
}

type IListener interface {
	Addr() string
	Port() int
	Start() *util.Err
	Close()
}

type IDialer interface {
	Name() string
	Connect(ctx context.Context) *util.Err
	Agent() IAgent
}

const (
	DefPacketMaxCap = 1 << 20
	DefQueueCap     = 1024
)

type (
	AgentOpt struct {
		PacketMaxCap int
		QueueCap     int
		DeadlineSecs int
	}
	AgentOption func(o *AgentOpt)
)

// AgentPacketMaxCap limits the size of a single frame, in bytes.
func AgentPacketMaxCap(packetMaxCap int) AgentOption {
	return func(o *AgentOpt) {
		o.PacketMaxCap = packetMaxCap
	}
}

// AgentQueueCap limits the frames waiting for the writer, Send fails past it.
func AgentQueueCap(queueCap int) AgentOption {
	return func(o *AgentOpt) {
		o.QueueCap = queueCap
	}
}

// AgentDeadline closes the connection when nothing is read for secs seconds.
func AgentDeadline(secs int) AgentOption {
	return func(o *AgentOpt) {
		o.DeadlineSecs = secs
	}
}
