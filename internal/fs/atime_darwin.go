//go:build darwin

package fs

import (
	"os"
	"syscall"
	"time"
)

func getAtime(fi os.FileInfo) (time.Time, bool) {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok && st != nil {
		return time.Unix(st.Atimespec.Unix()), true
	}
	return time.Time{}, false
}
