package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// CloseOrLog closes c and logs (instead of returning) any error. what names the
// resource in the log record.
func CloseOrLog(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		slog.Error("failed to close: "+what, "err", err)
	}
}

// FilesEqual reports whether both paths hold the same bytes. A missing path
// yields an error satisfying errors.Is(err, os.ErrNotExist).
func FilesEqual(pathA, pathB string) (bool, error) {
	if SameFilePath(pathA, pathB) {
		return true, nil
	}
	stA, err := os.Stat(pathA)
	if err != nil {
		return false, err
	}
	stB, err := os.Stat(pathB)
	if err != nil {
		return false, err
	}
	if stA.Size() != stB.Size() {
		return false, nil
	}

	fa, err := os.Open(pathA)
	if err != nil {
		return false, err
	}
	defer CloseOrLog(fa, pathA)

	fb, err := os.Open(pathB)
	if err != nil {
		return false, err
	}
	defer CloseOrLog(fb, pathB)

	const chunk = 32 * 1024
	bufA := make([]byte, chunk)
	bufB := make([]byte, chunk)

	for {
		nA, errA := io.ReadFull(fa, bufA)
		nB, errB := io.ReadFull(fb, bufB)
		if nA != nB || !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		endA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		endB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if errA != nil && !endA {
			return false, errA
		}
		if errB != nil && !endB {
			return false, errB
		}
		if endA || endB {
			return endA == endB, nil
		}
	}
}

// ValidatePathWritable checks that a file can be written at path without
// touching path itself.
//
//   - The parent directory must exist and be a directory.
//   - An existing file must be a regular file opened for append.
//   - For a new file, a temp file is created in the parent directory and removed.
func ValidatePathWritable(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}

	dir := filepath.Dir(path)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
		return fmt.Errorf("stat directory %s: %w", dir, err)
	}
	if !dirInfo.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	if fi, err := os.Stat(path); err == nil {
		if fi.IsDir() {
			return fmt.Errorf("path is a directory: %s", path)
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return fmt.Errorf("file exists but is not writable: %s: %w", path, err)
		}
		CloseOrLog(f, path)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat path %s: %w", path, err)
	}

	f, err := os.CreateTemp(dir, ".descriptor-tools-*.tmp")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("created temp file but failed to remove it (%s): %w", name, err)
	}
	return nil
}

// ReplaceFile moves src over dst. An existing dst keeps its permission bits,
// and a symlink at dst is followed so its target is replaced, not the link.
func ReplaceFile(src, dst string) error {
	if target, err := filepath.EvalSymlinks(dst); err == nil {
		dst = target
	}
	if st, err := os.Stat(dst); err == nil {
		if err := os.Chmod(src, st.Mode().Perm()); err != nil {
			return err
		}
	}
	return RenameOrMove(src, dst)
}

// RenameOrMove renames src to dst, falling back to copy+sync+remove when both
// live on different devices (tmpfs work directory, network mounts).
func RenameOrMove(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !isCrossDeviceError(err) {
		return err
	}
	if err := copyFileContentsSync(src, dst); err != nil {
		return fmt.Errorf("cross-device move: copy %s -> %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("cross-device move: remove %s: %w", src, err)
	}
	return nil
}

func copyFileContentsSync(src, dst string) error {
	st, err := os.Stat(src)
	if err != nil {
		return err
	}

	mode := st.Mode() & os.ModePerm
	mtime := st.ModTime()
	atime := mtime
	if t, ok := getAtime(st); ok {
		atime = t
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer CloseOrLog(in, src)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	syncErr := out.Sync()
	closeErr := out.Close()
	if err := errors.Join(copyErr, syncErr, closeErr); err != nil {
		_ = os.Remove(dst)
		return err
	}

	// Chmod after create to avoid umask differences.
	if err := os.Chmod(dst, mode); err != nil {
		_ = os.Remove(dst)
		return err
	}

	// Some mounts don't support setting times; the data is already in place.
	_ = os.Chtimes(dst, atime, mtime)
	return nil
}
