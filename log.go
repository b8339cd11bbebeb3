package asteroids

import (
	"os"
	"runtime"
	"strconv"

	"github.com/lgasteroids/asteroids/util"
)

// ILogger receives every record emitted through the package log functions.
type ILogger interface {
	Log(level TLevel, msg, caller string, stack []byte, params util.M)
}

type TLevel = int64

const (
	TDebug TLevel = 1 << iota
	TInfo
	TWarn
	TError
	TFatal
)

const (
	SDebug = "debug"
	SInfo  = "info"
	SWarn  = "warn"
	SError = "error"
	SFatal = "fatal"
)

const DefTimeFormatter = "2006-01-02 15:04:05.999"

// AllLevels is ordered from the least to the most severe.
var AllLevels = []TLevel{TDebug, TInfo, TWarn, TError, TFatal}

var _LevelNames = map[TLevel]string{
	TDebug: SDebug,
	TInfo:  SInfo,
	TWarn:  SWarn,
	TError: SError,
	TFatal: SFatal,
}

// StrToLevel falls back to info for unknown names.
func StrToLevel(name string) TLevel {
	for l, n := range _LevelNames {
		if n == name {
			return l
		}
	}
	return TInfo
}

func LevelToStr(l TLevel) string {
	if n, ok := _LevelNames[l]; ok {
		return n
	}
	return SInfo
}

func StrLvlToMask(names ...string) TLevel {
	levels := make([]TLevel, len(names))
	for i, n := range names {
		levels[i] = StrToLevel(n)
	}
	return util.GenMask(levels...)
}

func LvlToMask(levels ...TLevel) TLevel {
	return util.GenMask(levels...)
}

// LvlFrom returns every level at or above min.
func LvlFrom(min TLevel) []TLevel {
	for i, l := range AllLevels {
		if l >= min {
			return AllLevels[i:]
		}
	}
	return nil
}

var (
	_LogDefParams = util.M{}
	_Loggers      []ILogger
)

// SetLogDefParams adds params attached to every record, such as the process role.
func SetLogDefParams(params util.M) {
	params.CopyTo(_LogDefParams)
}

func AddLogger(logger ILogger) {
	_Loggers = append(_Loggers, logger)
}

func ClearLoggers() {
	_Loggers = nil
}

// emit reports the caller depth frames above itself.
func emit(depth int, level TLevel, msg string, stack []byte, params util.M) {
	if len(_Loggers) == 0 {
		return
	}
	if len(_LogDefParams) > 0 {
		if params == nil {
			params = make(util.M, len(_LogDefParams))
		}
		_LogDefParams.CopyTo(params)
	}
	caller := ""
	if _, file, line, ok := runtime.Caller(depth); ok {
		caller = util.TrimPath(file) + ":" + strconv.Itoa(line)
	}
	for _, l := range _Loggers {
		l.Log(level, msg, caller, stack, params)
	}
}

func emitErr(level TLevel, err *util.Err) {
	emit(3, level, err.String(), err.Stack(), err.Params())
}

func Debug(msg string, params util.M) {
	emit(2, TDebug, msg, nil, params)
}

func Info(msg string, params util.M) {
	emit(2, TInfo, msg, nil, params)
}

func Warn(err *util.Err) {
	if err != nil {
		emitErr(TWarn, err)
	}
}

func Warn2(code util.TErrCode, m util.M) {
	emitErr(TWarn, util.NewErr(code, m))
}

func Warn3(code util.TErrCode, e error) {
	emitErr(TWarn, util.WrapErr(code, e))
}

func Error(err *util.Err) {
	if err != nil {
		emitErr(TError, err)
	}
}

func Error2(code util.TErrCode, m util.M) {
	emitErr(TError, util.NewErr(code, m))
}

func Error3(code util.TErrCode, e error) {
	emitErr(TError, util.WrapErr(code, e))
}

// Fatal logs err and exits the process, nil is ignored.
func Fatal(err *util.Err) {
	if err == nil {
		return
	}
	emitErr(TFatal, err)
	os.Exit(1)
}

func Fatal3(code util.TErrCode, e error) {
	emitErr(TFatal, util.WrapErr(code, e))
	os.Exit(1)
}
