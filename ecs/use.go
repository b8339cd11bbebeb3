package ecs

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/lgasteroids/asteroids/util"
)

// applyUse writes overrides onto a freshly built instance. Types implementing
// IUse handle the map themselves, others get their exported fields decoded
// by name or by the `use` tag.
func applyUse(target any, use util.M) *util.Err {
	if len(use) == 0 {
		return nil
	}
	if u, ok := target.(IUse); ok {
		return u.Use(use)
	}
	dec, e := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "use",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           target,
	})
	if e != nil {
		return util.WrapErr(util.EcParamsErr, e)
	}
	if e = dec.Decode(map[string]any(use)); e != nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"error": e.Error(),
			"type":  fmt.Sprintf("%T", target),
		})
	}
	return nil
}
