package fs

import (
	"os"
	"path/filepath"
)

// ResolveAbsPath returns a cleaned absolute path with symlinks resolved.
//
// When p doesn't exist yet (an output file, typically), only its parent is
// resolved, so /var -> /private/var style links still compare equal.
func ResolveAbsPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	if resolvedParent, err := filepath.EvalSymlinks(parent); err == nil {
		return filepath.Join(resolvedParent, filepath.Base(abs)), nil
	}
	return abs, nil
}

// SameFilePath reports whether a and b name the same file. It uses
// os.SameFile when both exist and compares cleaned paths otherwise.
func SameFilePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ai, bi)
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
