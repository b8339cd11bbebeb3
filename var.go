package asteroids

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/lgasteroids/asteroids/ds"
	"github.com/lgasteroids/asteroids/util"
)

type varItem struct {
	name  string
	env   string
	usage string
	val   any
}

type Var interface {
	int | int64 | float64 | bool | string
}

var (
	_VarMap = ds.NewKSet[string, *varItem](4, func(item *varItem) string {
		return item.name
	})
	_FlagSet = flag.CommandLine
	_Args    []string
)

// AddVar declares a flag, also readable from the upper-cased environment variable.
func AddVar[T Var](name string, def T, usage string) {
	AddEnvVar(name, strings.ToUpper(strings.ReplaceAll(name, "-", "_")), def, usage)
}

// AddEnvVar declares a flag bound to an explicitly named environment variable.
func AddEnvVar[T Var](name, env string, def T, usage string) {
	_VarMap.Del(name)
	_ = _VarMap.Add(&varItem{
		name:  name,
		env:   env,
		val:   def,
		usage: usage,
	})
}

// SetVarSource replaces the flag set and arguments, used by tests.
func SetVarSource(fs *flag.FlagSet, args []string) {
	_FlagSet = fs
	_Args = args
}

// ParseVar resolves every declared var: command line first, then environment, then default.
func ParseVar() {
	set := parseFlag()
	parseEnv(set)
	m := make(util.M, _VarMap.Count())
	_VarMap.Iter(func(item *varItem) {
		m[item.name] = item.val
	})
	Debug("vars", m)
}

func parseFlag() map[string]struct{} {
	m := make(map[string]any, _VarMap.Count())
	_VarMap.Iter(func(item *varItem) {
		if _FlagSet.Lookup(item.name) != nil {
			return
		}
		switch d := item.val.(type) {
		case int:
			m[item.name] = _FlagSet.Int(item.name, d, item.usage)
		case int64:
			m[item.name] = _FlagSet.Int64(item.name, d, item.usage)
		case float64:
			m[item.name] = _FlagSet.Float64(item.name, d, item.usage)
		case bool:
			m[item.name] = _FlagSet.Bool(item.name, d, item.usage)
		case string:
			m[item.name] = _FlagSet.String(item.name, d, item.usage)
		}
	})
	args := _Args
	if args == nil {
		args = os.Args[1:]
	}
	_ = _FlagSet.Parse(args)
	set := make(map[string]struct{})
	_FlagSet.Visit(func(f *flag.Flag) {
		set[f.Name] = struct{}{}
	})
	_VarMap.Iter(func(item *varItem) {
		if _, ok := set[item.name]; !ok {
			return
		}
		switch d := m[item.name].(type) {
		case *int:
			item.val = *d
		case *int64:
			item.val = *d
		case *float64:
			item.val = *d
		case *bool:
			item.val = *d
		case *string:
			item.val = *d
		}
	})
	return set
}

func parseEnv(set map[string]struct{}) {
	_VarMap.Iter(func(item *varItem) {
		if _, ok := set[item.name]; ok {
			return
		}
		v, ok := os.LookupEnv(item.env)
		if !ok {
			return
		}
		var e error
		switch item.val.(type) {
		case int:
			var i int
			i, e = strconv.Atoi(v)
			if e == nil {
				item.val = i
			}
		case int64:
			var i int64
			i, e = strconv.ParseInt(v, 10, 64)
			if e == nil {
				item.val = i
			}
		case float64:
			var f float64
			f, e = strconv.ParseFloat(v, 64)
			if e == nil {
				item.val = f
			}
		case bool:
			item.val = strings.ToLower(v) == "true"
		case string:
			item.val = v
		}
		if e != nil {
			Warn2(util.EcParseErr, util.M{
				"env":   item.env,
				"value": v,
				"error": e.Error(),
			})
		}
	})
}

func GetVar[T Var](name string) (T, bool) {
	o, ok := _VarMap.Get(name)
	if !ok {
		return util.Default[T](), false
	}
	v, ok := o.val.(T)
	return v, ok
}
