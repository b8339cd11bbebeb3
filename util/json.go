package util

import jsoniter "github.com/json-iterator/go"

// relay packets and logged params share one frozen config, map keys sorted
// so encoded frames are stable.
var _Json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

func JsonMarshal(o any) ([]byte, *Err) {
	bytes, err := _Json.Marshal(o)
	if err != nil {
		return nil, WrapErr(EcMarshallErr, err)
	}
	return bytes, nil
}

func JsonUnmarshal(bytes []byte, o any) *Err {
	if len(bytes) == 0 {
		return NewErr(EcUnmarshallErr, M{
			"error": "empty payload",
		})
	}
	err := _Json.Unmarshal(bytes, o)
	if err != nil {
		return WrapErr(EcUnmarshallErr, err)
	}
	return nil
}

// JsonRaw keeps a payload undecoded until its consumer knows the target type.
type JsonRaw = jsoniter.RawMessage
