//go:build unix

package scanner

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ProbeLock reports whether path is in use by another process. The file is
// opened read/write without creating it; permission or busy errors count as
// locked. A held flock(2) also counts as locked.
func ProbeLock(path string) bool {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return errors.Is(err, unix.EACCES) ||
			errors.Is(err, unix.EPERM) ||
			errors.Is(err, unix.EBUSY) ||
			errors.Is(err, unix.ETXTBSY)
	}
	defer unix.Close(fd)

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return errors.Is(err, unix.EWOULDBLOCK)
	}
	_ = unix.Flock(fd, unix.LOCK_UN)
	return false
}
