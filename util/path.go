package util

import (
	"os"
	"path/filepath"
	"sync"
)

// WorkDir is the directory of the running executable, "." when unknown.
// Relative config paths resolve against it.
var WorkDir = sync.OnceValue(func() string {
	p, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.ToSlash(filepath.Dir(p))
})
