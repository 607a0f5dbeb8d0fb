package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := NewFileWatcher(time.Hour)
	w.Watch(path)
	if _, changed := w.checkForUpdate(); changed {
		t.Fatal("unchanged file reported")
	}

	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if p, changed := w.checkForUpdate(); !changed || p != path {
		t.Errorf("checkForUpdate = %q, %v", p, changed)
	}
	if _, changed := w.checkForUpdate(); changed {
		t.Error("same change reported twice")
	}

	later := future.Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	w.ResetBaseline()
	if _, changed := w.checkForUpdate(); changed {
		t.Error("change reported after ResetBaseline")
	}
}
