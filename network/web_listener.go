package network

import (
	"errors"
	"net"
	"net/http"

	"github.com/fasthttp/websocket"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

type webOption struct {
	addr      string
	path      string
	upgrader  *websocket.Upgrader
	resHeader http.Header
	handlers  map[string]http.Handler
}

type WebOption func(option *webOption)

func WebAddr(addr string) WebOption {
	return func(option *webOption) {
		option.addr = addr
	}
}

// WebPath is where connections are upgraded, "/" by default.
func WebPath(path string) WebOption {
	return func(option *webOption) {
		option.path = path
	}
}

func WebUpgrader(fn func(*websocket.Upgrader)) WebOption {
	return func(option *webOption) {
		fn(option.upgrader)
	}
}

func WebResHeader(header http.Header) WebOption {
	return func(option *webOption) {
		option.resHeader = header
	}
}

// WebHandle serves plain http next to the websocket endpoint.
func WebHandle(pattern string, handler http.Handler) WebOption {
	return func(option *webOption) {
		option.handlers[pattern] = handler
	}
}

func NewWebListener(onConn func(conn *websocket.Conn), opts ...WebOption) *WebListener {
	o := &webOption{
		addr: ":3000",
		path: "/",
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]http.Handler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &WebListener{
		option: o,
		onConn: onConn,
	}
}

type WebListener struct {
	option   *webOption
	onConn   func(conn *websocket.Conn)
	listener net.Listener
	server   *http.Server
}

// Addr is the bound address once started, the configured one before.
func (l *WebListener) Addr() string {
	if l.listener != nil {
		return l.listener.Addr().String()
	}
	return l.option.addr
}

func (l *WebListener) Port() int {
	port, _ := util.ParseAddrPort(l.Addr())
	return port
}

func (l *WebListener) handler(writer http.ResponseWriter, request *http.Request) {
	conn, e := l.option.upgrader.Upgrade(writer, request, l.option.resHeader)
	if e != nil {
		asteroids.Error3(util.EcServiceErr, e)
		return
	}
	l.onConn(conn)
}

// Handler exposes the routes, used to mount the listener on another server.
func (l *WebListener) Handler() http.Handler {
	mux := http.NewServeMux()
	for pattern, h := range l.option.handlers {
		mux.Handle(pattern, h)
	}
	mux.HandleFunc(l.option.path, l.handler)
	return mux
}

func (l *WebListener) Start() *util.Err {
	listener, e := net.Listen("tcp", l.option.addr)
	if e != nil {
		return util.NewErr(util.EcListenErr, util.M{
			"addr":  l.option.addr,
			"error": e.Error(),
		})
	}
	l.listener = listener
	l.server = &http.Server{
		Handler: l.Handler(),
	}
	asteroids.Info("start websocket listener", util.M{
		"addr": l.Addr(),
	})
	go func() {
		e := l.server.Serve(listener)
		if e != nil && !errors.Is(e, http.ErrServerClosed) {
			asteroids.Error3(util.EcListenErr, e)
		}
	}()
	return nil
}

func (l *WebListener) Close() {
	if l.server == nil {
		return
	}
	_ = l.server.Close()
}
