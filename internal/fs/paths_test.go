package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveAbsPath_Empty(t *testing.T) {
	got, err := ResolveAbsPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestResolveAbsPath_MissingFileKeepsBaseName(t *testing.T) {
	d := t.TempDir()
	got, err := ResolveAbsPath(filepath.Join(d, "descriptors.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
	if filepath.Base(got) != "descriptors.csv" {
		t.Fatalf("unexpected base in %q", got)
	}
	wantDir, err := filepath.EvalSymlinks(d)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	if filepath.Dir(got) != wantDir {
		t.Fatalf("dir mismatch: want %q, got %q", wantDir, filepath.Dir(got))
	}
}

func TestResolveAbsPath_RelativeBecomesAbsolute(t *testing.T) {
	d := t.TempDir()
	t.Chdir(d)

	got, err := ResolveAbsPath("fields/widget.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantSuffix := string(filepath.Separator) + filepath.Join("fields", "widget.csv")
	if !strings.HasSuffix(got, wantSuffix) {
		t.Fatalf("expected %q to end with %q", got, wantSuffix)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
}

func TestSameFilePath(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "widget.csv")
	if err := os.WriteFile(p, []byte("1,a,b\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	abs, err := ResolveAbsPath(p)
	if err != nil {
		t.Fatalf("ResolveAbsPath: %v", err)
	}
	if !SameFilePath(p, abs) {
		t.Fatalf("expected SameFilePath to be true")
	}
	if SameFilePath(p, filepath.Join(d, "other.csv")) {
		t.Fatalf("expected different files")
	}
	if SameFilePath("", p) {
		t.Fatalf("empty path never matches")
	}
}
