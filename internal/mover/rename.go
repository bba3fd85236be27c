package mover

import (
	"errors"
	"os"
	"syscall"
)

// linkRename moves oldPath to newPath by hard-linking then unlinking the
// source. link(2) fails with EEXIST instead of replacing newPath. Filesystems
// without hard links fall back to a plain rename.
func linkRename(oldPath, newPath string) error {
	err := os.Link(oldPath, newPath)
	switch {
	case err == nil:
		if rmErr := os.Remove(oldPath); rmErr != nil {
			_ = os.Remove(newPath)
			return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: rmErr}
		}
		return nil
	case errors.Is(err, syscall.EPERM), errors.Is(err, syscall.ENOTSUP), errors.Is(err, syscall.EOPNOTSUPP), errors.Is(err, syscall.EMLINK):
		return os.Rename(oldPath, newPath)
	default:
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) {
			linkErr.Op = "rename"
		}
		return err
	}
}
