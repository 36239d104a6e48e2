//go:build !darwin && !linux

package fs

import (
	"os"
	"time"
)

// getAtime is not supported here; callers fall back to the mtime.
func getAtime(os.FileInfo) (time.Time, bool) { return time.Time{}, false }
