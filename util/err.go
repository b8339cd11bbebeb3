package util

import (
	"runtime"
	"strconv"
	"strings"
)

// core codes
const (
	EcNil TErrCode = iota + 60001
	EcRecover
	EcWrongType
	EcClosed
	EcOpened
	EcEmpty
	EcExist
	EcNotExist
	EcMarshallErr
	EcUnmarshallErr
	EcIllegalOp
	EcParamsErr
	EcParseErr
	EcIo
	EcOutOfRange
	EcTooLong
	EcServiceErr
)

// transport codes
const (
	EcConnectErr TErrCode = iota + 61001
	EcListenErr
)

// entity system codes
const (
	EcNotRegistered TErrCode = iota + 62001
	EcMissingComponent
	EcCircularService
)

var _ErrCodeNames = map[TErrCode]string{
	EcNil:              "object_nil",
	EcRecover:          "recover",
	EcWrongType:        "wrong_type",
	EcClosed:           "closed",
	EcOpened:           "opened",
	EcEmpty:            "empty",
	EcExist:            "exist",
	EcNotExist:         "not_exist",
	EcMarshallErr:      "marshall_error",
	EcUnmarshallErr:    "unmarshall_error",
	EcIllegalOp:        "illegal_operation",
	EcParamsErr:        "args_error",
	EcParseErr:         "parse_error",
	EcIo:               "io_error",
	EcOutOfRange:       "out_of_range",
	EcTooLong:          "too_long",
	EcServiceErr:       "service_error",
	EcConnectErr:       "connect_error",
	EcListenErr:        "listen_error",
	EcNotRegistered:    "not_registered",
	EcMissingComponent: "missing_component",
	EcCircularService:  "circular_service",
}

func WrapErr(code TErrCode, e error) *Err {
	err := &Err{code: code, stack: GetStack(3)}
	if e != nil {
		err.params = M{"error": e.Error()}
	}
	return err
}

func NewErr(code TErrCode, params M) *Err {
	return &Err{code: code, stack: GetStack(3), params: params}
}

// NewNoStackErr is for hot paths where the caller site is already known.
func NewNoStackErr(code TErrCode, params M) *Err {
	return &Err{code: code, params: params}
}

// Err carries a code, its params and the stack where it was raised.
type Err struct {
	code   TErrCode
	stack  []byte
	params M
}

func (e *Err) Code() TErrCode {
	return e.code
}

func (e *Err) String() string {
	if name, ok := _ErrCodeNames[e.code]; ok {
		return name
	}
	return strconv.Itoa(int(e.code))
}

// Error renders "code: cause" for wrapped errors and "code {params}" otherwise.
func (e *Err) Error() string {
	if s, ok := e.params["error"].(string); ok {
		return e.String() + ": " + s
	}
	if len(e.params) == 0 {
		return e.String()
	}
	bytes, _ := e.params.ToJson()
	return e.String() + " " + string(bytes)
}

func (e *Err) Params() M {
	return e.params
}

func (e *Err) Stack() []byte {
	return e.stack
}

func (e *Err) AddParam(k string, v any) {
	if e.params == nil {
		e.params = M{}
	}
	e.params[k] = v
}

func (e *Err) AddParams(params M) {
	if e.params == nil {
		e.params = make(M, len(params))
	}
	params.CopyTo(e.params)
}

func (e *Err) GetParam(k string) (any, bool) {
	v, ok := e.params[k]
	return v, ok
}

const _StackDepth = 8

// GetStack lists up to eight frames above skip as "\n\tpkg/file.go:line".
func GetStack(skip int) []byte {
	var pcs [_StackDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString("\n\t")
		sb.WriteString(TrimPath(frame.File))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(frame.Line))
		if !more {
			break
		}
	}
	return []byte(sb.String())
}

// TrimPath keeps the last two path elements of a source file.
func TrimPath(file string) string {
	i := strings.LastIndexByte(file, '/')
	if i <= 0 {
		return file
	}
	if j := strings.LastIndexByte(file[:i], '/'); j >= 0 {
		return file[j+1:]
	}
	return file
}
