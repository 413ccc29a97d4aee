//go:build !windows

package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureStateDirsLayout(t *testing.T) {
	base := filepath.Join(t.TempDir(), "db")

	if err := EnsureStateDirs(base); err != nil {
		t.Fatalf("EnsureStateDirs: %v", err)
	}

	for _, p := range []string{PathsVar.Store, PathsVar.Audit, PathsVar.Snapshots, PathsVar.Tmp} {
		fi, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if !fi.IsDir() {
			t.Fatalf("%s is not a directory", p)
		}
	}
	if PathsVar.State != filepath.Join(base, "state") {
		t.Fatalf("state path = %s", PathsVar.State)
	}

	// a second call on the same layout succeeds
	if err := EnsureStateDirs(base); err != nil {
		t.Fatalf("EnsureStateDirs again: %v", err)
	}
}

func TestEnsureStateDirsRejectsSymlink(t *testing.T) {
	base := filepath.Join(t.TempDir(), "db")
	real := filepath.Join(t.TempDir(), "elsewhere")
	if err := os.MkdirAll(real, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		t.Fatalf("mkdir base: %v", err)
	}
	if err := os.Symlink(real, filepath.Join(base, "store")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if err := EnsureStateDirs(base); err == nil {
		t.Fatalf("expected symlink rejection")
	}
}

func TestEnsureStateDirsRejectsPermissiveMode(t *testing.T) {
	base := filepath.Join(t.TempDir(), "db")
	store := filepath.Join(base, "store")
	if err := os.MkdirAll(store, 0o777); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Chmod(store, 0o777); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if err := EnsureStateDirs(base); err == nil {
		t.Fatalf("expected permissive mode rejection")
	}
}
