package run

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const defaultTempExt = ".tmp"

// TempNamer names intermediate files inside a per-run working directory as
// <base>.<utc timestamp>.<step><ext>, derived from the final output path.
type TempNamer struct {
	workDir string
	base    string
	ext     string
}

// NewTempNamer creates a TempNamer rooted at workDir. outputPath only provides
// the base name and extension.
func NewTempNamer(workDir, outputPath string) TempNamer {
	name := filepath.Base(outputPath)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = defaultTempExt
	}
	return TempNamer{workDir: workDir, base: base, ext: ext}
}

// Step returns a path inside the working directory for the given step.
func (n TempNamer) Step(step string) string {
	now := time.Now().UTC()
	ts := now.Format("20060102150405") + fmt.Sprintf("%09d", now.Nanosecond())
	return filepath.Join(n.workDir, fmt.Sprintf("%s.%s.%s%s", n.base, ts, step, n.ext))
}
