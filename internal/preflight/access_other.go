//go:build !unix

package preflight

import (
	"os"
	"path/filepath"
)

func access(path string) error {
	f, err := os.CreateTemp(path, ".tidy-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}

func deviceOf(string) (uint64, bool) {
	return 0, false
}
