//go:build !unix

package scanner

import (
	"errors"
	"io/fs"
	"os"
)

// ProbeLock reports whether path cannot be opened for writing because of a
// permission or sharing violation.
func ProbeLock(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return errors.Is(err, fs.ErrPermission)
	}
	_ = f.Close()
	return false
}
