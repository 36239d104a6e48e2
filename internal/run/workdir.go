package run

import "os"

const workdirPrefix = "descriptor-tools-"

// NewWorkdir creates a unique per-run working directory.
//
// With an empty baseDir the directory is created under the system temp dir and
// cleanup removes it. Otherwise baseDir is created if needed, the run directory
// is created inside it and cleanup is a no-op, so results can be inspected.
func NewWorkdir(baseDir, prefix string) (runDir string, cleanup func(), err error) {
	pattern := workdirPrefix + prefix + "-"
	if baseDir == "" {
		d, err := os.MkdirTemp("", pattern)
		if err != nil {
			return "", nil, err
		}
		return d, func() { _ = os.RemoveAll(d) }, nil
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", nil, err
	}
	d, err := os.MkdirTemp(baseDir, pattern)
	if err != nil {
		return "", nil, err
	}
	return d, func() {}, nil
}
