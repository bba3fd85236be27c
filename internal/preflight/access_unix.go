//go:build unix

package preflight

import (
	"golang.org/x/sys/unix"
)

func access(path string) error {
	return unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK)
}

// deviceOf returns the filesystem device id of path.
func deviceOf(path string) (uint64, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, false
	}
	return uint64(st.Dev), true
}
