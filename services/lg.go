package services

import (
	"slices"
	"strconv"
	"strings"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/relay"
	"github.com/lgasteroids/asteroids/util"
)

func NewLG() *LGService {
	return &LGService{
		ScreenAmount:  5,
		ScreensBySide: 2,
	}
}

// LGService places this screen in the Liquid Galaxy rig. The game canvas is
// as wide as every screen together, each screen showing its own slice.
type LGService struct {
	ecs.Service
	ScreenAmount  int
	ScreensBySide int
	Screens       []relay.Screen
	Displacement  float64
	CanvasWidth   float64
	CanvasHeight  float64
	screen        *relay.Screen
	socket        *SocketService
}

func (s *LGService) OnAwake() {
	s.socket, _ = ecs.ServiceOf[*SocketService](s)
}

func (s *LGService) Screen() *relay.Screen {
	return s.screen
}

// Master is true for screen number 1, which runs the simulation.
func (s *LGService) Master() bool {
	return s.screen != nil && s.screen.Number == 1
}

func (s *LGService) SetScreenAmount(amount int) {
	s.ScreenAmount = amount
	s.ScreensBySide = amount / 2
}

func (s *LGService) ScreenByNumber(number int) (relay.Screen, bool) {
	for _, screen := range s.Screens {
		if screen.Number == number {
			return screen, true
		}
	}
	return relay.Screen{}, false
}

// ScreenLayout orders screen numbers left to right with screen 1 in the
// middle, 5 gives [4 5 1 2 3].
func ScreenLayout(amount int) []int {
	if amount <= 0 {
		return nil
	}
	layout := make([]int, amount)
	for i := range layout {
		layout[i] = i + 1
	}
	side := amount / 2
	return append(slices.Clone(layout[side+1:]), layout[:side+1]...)
}

// SetCanvasSize sizes the shared canvas from one screen's width and height.
func (s *LGService) SetCanvasSize(width, height float64) {
	if s.screen == nil {
		return
	}
	s.screen.Position = slices.Index(ScreenLayout(s.ScreenAmount), s.screen.Number)
	s.CanvasWidth = float64(s.ScreenAmount) * width
	s.CanvasHeight = height
	s.Displacement = float64(s.screen.Position) * width
}

func (s *LGService) ChangeScene(scene string) *util.Err {
	return s.socket.Emit(relay.EvtChangeScene, scene)
}

// ConnectScreen registers this connection as screen number; fn runs once the
// relay accepted it. Numbers below 1 are ignored.
func (s *LGService) ConnectScreen(number int, fn func(relay.Screen)) *util.Err {
	if number < 1 {
		return nil
	}
	return EmitData(s.socket, relay.EvtConnectScreen, number, func(screen *relay.Screen) {
		if screen == nil {
			asteroids.Warn2(util.EcOutOfRange, util.M{
				"screen": number,
			})
			return
		}
		s.screen = screen
		if _, ok := s.ScreenByNumber(screen.Number); !ok {
			s.Screens = append(s.Screens, *screen)
		}
		if fn != nil {
			fn(*screen)
		}
	})
}

// FetchScreenAmount asks the relay for the number of screens in the rig.
func (s *LGService) FetchScreenAmount(fn func(int)) *util.Err {
	return EmitData(s.socket, relay.EvtScreenAmount, nil, func(amount int) {
		s.SetScreenAmount(amount)
		if fn != nil {
			fn(amount)
		}
	})
}

// ParseScreenNumber reads the screen number from the first segment of a
// url path such as "/3/".
func ParseScreenNumber(path string) (int, bool) {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if first == "" {
		return 0, false
	}
	n, e := strconv.Atoi(first)
	if e != nil {
		return 0, false
	}
	return n, true
}
