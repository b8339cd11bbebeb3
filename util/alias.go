package util

type (
	TErrCode = uint16
)

type (
	Fn           func()
	StrToStr2Err func(string) (string, string, *Err)
)

func Default[T any]() (v T) {
	return
}

func (f Fn) Invoke() {
	if f == nil {
		return
	}
	f()
}
