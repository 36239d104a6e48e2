package run

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTempNamer_DefaultExtension(t *testing.T) {
	n := NewTempNamer(t.TempDir(), "descriptors")
	p := n.Step("compile")
	if filepath.Dir(p) != n.workDir {
		t.Fatalf("expected path inside workdir %q, got %q", n.workDir, p)
	}
	base := filepath.Base(p)
	if !strings.HasPrefix(base, "descriptors.") {
		t.Fatalf("unexpected name %q", base)
	}
	if !strings.HasSuffix(base, ".compile.tmp") {
		t.Fatalf("expected .tmp suffix, got %q", base)
	}
}

func TestTempNamer_PreservesExtension(t *testing.T) {
	n := NewTempNamer(t.TempDir(), "/out/descriptors.v2.csv")
	base := filepath.Base(n.Step("compile"))
	if !strings.HasPrefix(base, "descriptors.v2.") {
		t.Fatalf("unexpected name %q", base)
	}
	if !strings.HasSuffix(base, ".compile.csv") {
		t.Fatalf("expected .csv suffix, got %q", base)
	}
}
