package mural

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlaced(t *testing.T) {
	e := Entity{}
	if e.Placed() {
		t.Error("zero position reported as placed")
	}
	e.X = 120
	if !e.Placed() {
		t.Error("positioned entity reported as unplaced")
	}
}

func TestLoadOrCreateTokenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "viewer-token")

	token, err := LoadOrCreateToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	again, err := LoadOrCreateToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if again != token {
		t.Errorf("token changed across loads: %q vs %q", token, again)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestLoadOrCreateTokenIgnoresBlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer-token")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	token, err := LoadOrCreateToken(path)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Error("blank file produced an empty token")
	}
}
