package relay

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/network"
	"github.com/lgasteroids/asteroids/sid"
	"github.com/lgasteroids/asteroids/util"
	"github.com/lgasteroids/asteroids/worker"
)

const (
	_CacheRoom   = "room"
	_CacheScreen = "screen"
)

type (
	serverOption struct {
		addr         string
		path         string
		static       string
		screenAmount int
		profileDur   time.Duration
		poolSize     int
		deadlineSecs int
	}
	ServerOption func(o *serverOption)
)

func ServerAddr(addr string) ServerOption {
	return func(o *serverOption) {
		o.addr = addr
	}
}

// ServerPath is where screens open their websocket, "/ws" by default.
func ServerPath(path string) ServerOption {
	return func(o *serverOption) {
		o.path = path
	}
}

// ServerStatic serves the game files of dir at "/" and at "/<screen number>/".
func ServerStatic(dir string) ServerOption {
	return func(o *serverOption) {
		o.static = dir
	}
}

func ServerScreenAmount(amount int) ServerOption {
	return func(o *serverOption) {
		o.screenAmount = amount
	}
}

// ServerProfileDur logs process status every dur, 0 disables it.
func ServerProfileDur(dur time.Duration) ServerOption {
	return func(o *serverOption) {
		o.profileDur = dur
	}
}

func ServerPoolSize(size int) ServerOption {
	return func(o *serverOption) {
		o.poolSize = size
	}
}

func ServerDeadline(secs int) ServerOption {
	return func(o *serverOption) {
		o.deadlineSecs = secs
	}
}

type fnHandler func(a asteroids.IAgent, pkt *Packet)

// Server groups screens into the master and slave rooms and fans events out
// to them.
type Server struct {
	option   *serverOption
	listener *network.WebListener
	agents   cmap.ConcurrentMap[string, asteroids.IAgent]
	screens  cmap.ConcurrentMap[string, Screen]
	handlers map[string]fnHandler
	pool     *worker.Pool
	ctx      context.Context
	ccl      context.CancelFunc
}

func NewServer(opts ...ServerOption) *Server {
	o := &serverOption{
		addr:         ":8080",
		path:         "/ws",
		screenAmount: 5,
	}
	for _, opt := range opts {
		opt(o)
	}
	s := &Server{
		option:  o,
		agents:  cmap.New[asteroids.IAgent](),
		screens: cmap.New[Screen](),
	}
	s.handlers = map[string]fnHandler{
		EvtScreenAmount:  s.onScreenAmount,
		EvtConnectScreen: s.onConnectScreen,
		EvtUpdateSlaves:  s.toRoom(RoomSlave, EvtUpdateScreen),
		EvtInstantiate:   s.toRoom(RoomSlave, EvtInstantiate),
		EvtDestroy:       s.toRoom(RoomSlave, EvtDestroy),
		EvtGameOver:      s.toRoom("", EvtGameOver),
		EvtChangeScene:   s.toRoom("", EvtChangeScene),
		EvtChangeHealth:  s.toRoom("", EvtChangeHealth),
		EvtPlayerKilled:  s.toRoom("", EvtPlayerKilled),
		EvtUpdatePlayer:  s.toRoom("", EvtUpdatePlayer),
		EvtUpdateActions: s.toRoom("", EvtUpdateActions),
	}
	return s
}

func (s *Server) Start() *util.Err {
	pool, err := worker.NewPool(s.option.poolSize, 0)
	if err != nil {
		return err
	}
	s.pool = pool
	s.ctx, s.ccl = util.SubCtx(util.Ctx())

	opts := []network.WebOption{
		network.WebAddr(s.option.addr),
		network.WebPath(s.option.path),
	}
	if s.option.static != "" {
		opts = append(opts, network.WebHandle("/", staticHandler(s.option.static)))
	}
	s.listener = network.NewWebListener(s.onConn, opts...)
	if err = s.listener.Start(); err != nil {
		s.ccl()
		s.pool.Release()
		return err
	}
	if s.option.profileDur > 0 {
		util.StartProfile(s.ctx, s.option.profileDur, func(m util.M) {
			m["screens"] = s.screens.Count()
			m["agents"] = s.agents.Count()
			s.Stats().ToM().CopyTo(m)
			asteroids.Info("relay status", m)
		})
	}
	asteroids.Info("relay started", util.M{
		"addr":          s.listener.Addr(),
		"screen amount": s.option.screenAmount,
	})
	return nil
}

func (s *Server) Close() {
	if s.ccl == nil {
		return
	}
	s.ccl()
	s.listener.Close()
	for _, a := range s.agents.Items() {
		a.Dispose()
	}
	s.pool.Release()
}

func (s *Server) Addr() string {
	return s.listener.Addr()
}

// Stats sums the traffic of every connected agent.
func (s *Server) Stats() asteroids.AgentStats {
	var stats asteroids.AgentStats
	for _, a := range s.agents.Items() {
		stats = stats.Add(a.Stats())
	}
	return stats
}

func (s *Server) ScreenAmount() int {
	return s.option.screenAmount
}

func (s *Server) Screen(number int) (Screen, bool) {
	return s.screens.Get(strconv.Itoa(number))
}

func (s *Server) Screens() []Screen {
	screens := make([]Screen, 0, s.screens.Count())
	for _, screen := range s.screens.Items() {
		screens = append(screens, screen)
	}
	return screens
}

func (s *Server) onConn(conn *websocket.Conn) {
	agent := network.NewWebAgent(conn.RemoteAddr().String(), websocket.TextMessage, s.receive,
		asteroids.AgentDeadline(s.option.deadlineSecs))
	id := sid.GetStrId()
	agent.SetId(id)
	s.agents.Set(id, agent)
	agent.BindDisconnected(s.onDisconnect)
	agent.Start(s.ctx, conn)
	asteroids.Info("connected", util.M{
		"id":   id,
		"addr": agent.Addr(),
	})
}

func (s *Server) onDisconnect(a asteroids.IAgent, err *util.Err) {
	id := a.Id()
	s.agents.Remove(id)
	if number, ok := a.GetCache(_CacheScreen); ok {
		key := strconv.Itoa(number.(int))
		s.screens.RemoveCb(key, func(_ string, screen Screen, exists bool) bool {
			return exists && screen.Id == id
		})
	}
	m := util.M{
		"id": id,
	}
	if err != nil {
		m["reason"] = err.Error()
	}
	asteroids.Info("disconnected", m)
}

func (s *Server) receive(a asteroids.IAgent, bytes []byte) {
	pkt, err := Decode(bytes)
	if err != nil {
		err.AddParam("agent", a.Id())
		asteroids.Warn(err)
		return
	}
	handler, ok := s.handlers[pkt.Event]
	if !ok {
		asteroids.Warn2(util.EcNotExist, util.M{
			"event": pkt.Event,
			"agent": a.Id(),
		})
		return
	}
	handler(a, pkt)
}

func (s *Server) ack(a asteroids.IAgent, pkt *Packet, data any) {
	if pkt.Ack == 0 {
		return
	}
	if data == nil {
		data = util.JsonRaw("null")
	}
	bytes, err := Encode(EvtAck, data, pkt.Ack)
	if err != nil {
		asteroids.Error(err)
		return
	}
	if err = a.Send(bytes); err != nil {
		asteroids.Warn(err)
	}
}

func (s *Server) onScreenAmount(a asteroids.IAgent, pkt *Packet) {
	s.ack(a, pkt, s.option.screenAmount)
}

func (s *Server) onConnectScreen(a asteroids.IAgent, pkt *Packet) {
	var number int
	if err := util.JsonUnmarshal(pkt.Data, &number); err != nil || number < 1 || number > s.option.screenAmount {
		asteroids.Warn2(util.EcOutOfRange, util.M{
			"agent":  a.Id(),
			"screen": string(pkt.Data),
		})
		s.ack(a, pkt, nil)
		return
	}
	screen := Screen{
		Id:     a.Id(),
		Number: number,
	}
	s.screens.Set(strconv.Itoa(number), screen)
	room := RoomSlave
	if number == 1 {
		room = RoomMaster
	}
	a.SetCache(_CacheRoom, room)
	a.SetCache(_CacheScreen, number)
	asteroids.Info("screen connected", util.M{
		"agent":  a.Id(),
		"screen": number,
		"room":   room,
	})
	s.ack(a, pkt, screen)
}

func (s *Server) toRoom(room, event string) fnHandler {
	return func(_ asteroids.IAgent, pkt *Packet) {
		s.Broadcast(room, event, pkt.Data)
	}
}

// Broadcast sends event to every agent in room, an empty room meaning all.
// It returns once every send is queued, so events from one sender keep their order.
func (s *Server) Broadcast(room, event string, data any) {
	bytes, err := Encode(event, data, 0)
	if err != nil {
		asteroids.Error(err)
		return
	}
	var targets []asteroids.IAgent
	for _, a := range s.agents.Items() {
		if room != "" {
			if r, ok := a.GetCache(_CacheRoom); !ok || r != room {
				continue
			}
		}
		targets = append(targets, a)
	}
	worker.P(s.pool, targets, func(a asteroids.IAgent) {
		if err := a.Send(bytes); err != nil {
			asteroids.Debug("broadcast", util.M{
				"agent": a.Id(),
				"event": event,
				"error": err.Error(),
			})
		}
	})
}

// staticHandler serves dir, also under a leading screen number segment.
func staticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		first, rest, _ := strings.Cut(path, "/")
		if _, e := strconv.Atoi(first); e == nil {
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/" + rest
			files.ServeHTTP(w, r2)
			return
		}
		files.ServeHTTP(w, r)
	})
}
