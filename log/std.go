package log

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

const (
	_SDebug = "[D]"
	_SInfo  = "[I]"
	_SWarn  = "[W]"
	_SError = "[E]"
	_SFatal = "[F]"
)

const (
	ColorRed      = "\033[31m"
	ColorGreen    = "\033[32m"
	ColorYellow   = "\033[33m"
	ColorCyan     = "\033[36m"
	ColorHiRed    = "\033[91m"
	ColorHiGreen  = "\033[92m"
	ColorHiYellow = "\033[93m"
	ColorHiPurple = "\033[95m"
	ColorHiWhite  = "\033[97m"
	ColorReset    = "\033[0m"
)

func LogLvlToStr(l asteroids.TLevel) string {
	switch l {
	case asteroids.TDebug:
		return _SDebug
	case asteroids.TInfo:
		return _SInfo
	case asteroids.TWarn:
		return _SWarn
	case asteroids.TError:
		return _SError
	case asteroids.TFatal:
		return _SFatal
	default:
		return ""
	}
}

type (
	stdOption struct {
		logLvl     asteroids.TLevel
		timeLayout string
		color      bool
		stack      bool
		writer     io.Writer
	}
	StdOption func(opt *stdOption)
)

func StdLogLvl(levels ...asteroids.TLevel) StdOption {
	return func(opt *stdOption) {
		opt.logLvl = asteroids.LvlToMask(levels...)
	}
}

// StdLogStrLvl enables the named level and everything above it.
func StdLogStrLvl(level string) StdOption {
	return func(opt *stdOption) {
		opt.logLvl = asteroids.LvlToMask(asteroids.LvlFrom(asteroids.StrToLevel(level))...)
	}
}

func StdTimeLayout(layout string) StdOption {
	return func(opt *stdOption) {
		opt.timeLayout = layout
	}
}

func StdWriter(writer io.Writer) StdOption {
	return func(opt *stdOption) {
		opt.writer = writer
	}
}

func StdColor(color bool) StdOption {
	return func(opt *stdOption) {
		opt.color = color
	}
}

// StdStack toggles printing the captured stack of warnings and errors.
func StdStack(stack bool) StdOption {
	return func(opt *stdOption) {
		opt.stack = stack
	}
}

// StdFile writes to a rotating file, colour off.
func StdFile(file string) StdOption {
	return func(opt *stdOption) {
		opt.color = false
		opt.writer = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    64,
			MaxBackups: 8,
			MaxAge:     30,
			Compress:   true,
		}
	}
}

func NewStd(opts ...StdOption) *StdLogger {
	opt := &stdOption{
		logLvl:     asteroids.LvlToMask(asteroids.AllLevels...),
		timeLayout: asteroids.DefTimeFormatter,
		color:      true,
		stack:      true,
		writer:     os.Stdout,
	}
	for _, o := range opts {
		o(opt)
	}
	l := &StdLogger{
		option: opt,
		heads: map[asteroids.TLevel]string{
			asteroids.TDebug: _SDebug,
			asteroids.TInfo:  _SInfo,
			asteroids.TWarn:  _SWarn,
			asteroids.TError: _SError,
			asteroids.TFatal: _SFatal,
		},
		tail: "\n",
	}
	if opt.color {
		colors := map[asteroids.TLevel]string{
			asteroids.TDebug: ColorHiWhite,
			asteroids.TInfo:  ColorHiGreen,
			asteroids.TWarn:  ColorHiYellow,
			asteroids.TError: ColorHiRed,
			asteroids.TFatal: ColorHiPurple,
		}
		for lvl, c := range colors {
			l.heads[lvl] = c + l.heads[lvl]
		}
		l.tail = ColorReset + l.tail
	}
	return l
}

// StdLogger writes one record per block: head line, params as json, caller and stack.
type StdLogger struct {
	option *stdOption
	heads  map[asteroids.TLevel]string
	tail   string
	mtx    sync.Mutex
}

func (l *StdLogger) Log(level asteroids.TLevel, msg, caller string, stack []byte, params util.M) {
	if !util.TestMask(level, l.option.logLvl) {
		return
	}
	var buffer bytes.Buffer
	buffer.Grow(256 + len(stack))
	buffer.WriteString(l.heads[level])
	buffer.WriteString(time.Now().Format(l.option.timeLayout))
	if msg != "" {
		buffer.WriteByte(' ')
		buffer.WriteString(msg)
	}
	buffer.WriteString(l.tail)
	if len(params) > 0 {
		ps, _ := util.JsonMarshal(params)
		buffer.Write(ps)
		buffer.WriteByte('\n')
	}
	buffer.WriteString(caller)
	if stack != nil && l.option.stack {
		buffer.Write(stack)
	}
	buffer.WriteByte('\n')
	l.mtx.Lock()
	_, _ = l.option.writer.Write(buffer.Bytes())
	l.mtx.Unlock()
}
