//go:build windows

package fs

import (
	"errors"
	"os"
	"syscall"
)

// ERROR_NOT_SAME_DEVICE
const errNotSameDevice syscall.Errno = 17

func isCrossDeviceError(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return errors.Is(linkErr.Err, errNotSameDevice) || errors.Is(linkErr.Err, syscall.EXDEV)
}
