package loader

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lgasteroids/asteroids"
	"github.com/lgasteroids/asteroids/util"
)

const (
	ConfLocalLoader = "local"
	ConfPathSep     = "|"
)

// ConfLoader reads the source at path into v.
type ConfLoader func(path string, v *viper.Viper) *util.Err

var (
	_TypeToLoader   = make(map[string]ConfLoader)
	_ConfPathParser = func(path string) (string, string, *util.Err) {
		ss := strings.Split(path, ConfPathSep)
		if len(ss) != 2 {
			return "", "", util.NewErr(util.EcParamsErr, util.M{
				"path": path,
			})
		}
		return ss[0], ss[1], nil
	}
	_ConfRoot = util.WorkDir()
)

func init() {
	SetConfLoader(ConfLocalLoader, confLocalLoader)
}

func SetConfRoot(p string) {
	_ConfRoot = p
}

func SetConfPathParser(parser util.StrToStr2Err) {
	_ConfPathParser = parser
}

// LoadConf merges every "loader|path" source in order, later ones overriding
// earlier keys, and decodes the result into conf. A source that fails to load
// is logged and skipped.
func LoadConf(conf any, paths ...string) *util.Err {
	if len(paths) == 0 {
		return util.NewErr(util.EcParamsErr, util.M{
			"error": "no config path",
		})
	}
	vpr := viper.New()
	for _, p := range paths {
		loaderType, filePath, err := _ConfPathParser(p)
		if err != nil {
			asteroids.Warn(err)
			continue
		}
		loader, ok := _TypeToLoader[loaderType]
		if !ok {
			asteroids.Warn2(util.EcNotExist, util.M{
				"loader type": loaderType,
			})
			continue
		}
		sub := viper.New()
		err = loader(filePath, sub)
		if err != nil {
			asteroids.Warn(err)
			continue
		}
		e := vpr.MergeConfigMap(sub.AllSettings())
		if e != nil {
			asteroids.Warn3(util.EcParseErr, e)
		}
	}
	e := vpr.Unmarshal(conf)
	if e != nil {
		return util.WrapErr(util.EcUnmarshallErr, e)
	}
	return nil
}

func SetConfLoader(typ string, loader ConfLoader) {
	_TypeToLoader[typ] = loader
}

func GetConfLoader(typ string) ConfLoader {
	return _TypeToLoader[typ]
}

func confLocalLoader(p string, v *viper.Viper) *util.Err {
	if !filepath.IsAbs(p) {
		p = filepath.Join(_ConfRoot, p)
	}
	ext := strings.TrimPrefix(filepath.Ext(p), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	v.SetConfigFile(p)
	v.SetConfigType(ext)
	err := v.ReadInConfig()
	if err != nil {
		return util.NewErr(util.EcIo, util.M{
			"error": err.Error(),
			"path":  p,
		})
	}
	return nil
}

func ConvertConfLocalPath(paths ...string) []string {
	converted := make([]string, len(paths))
	for i, p := range paths {
		converted[i] = ConfLocalLoader + ConfPathSep + p
	}
	return converted
}
