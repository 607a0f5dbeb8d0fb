package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)
	p := LoadFrom(path)
	p.SetString(KeyLastDir, "/data/images")
	p.SetFloat(KeyWindowWidth, 1280)
	p.PushString(KeyLabels, "cat")
	p.PushString(KeyLabels, "dog")
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	q := LoadFrom(path)
	if got := q.String(KeyLastDir); got != "/data/images" {
		t.Errorf("lastDir = %q", got)
	}
	if got := q.FloatWithFallback(KeyWindowWidth, 0); got != 1280 {
		t.Errorf("width = %v", got)
	}
	if got := q.FloatWithFallback(KeyWindowHeight, 720); got != 720 {
		t.Errorf("height fallback = %v", got)
	}
	got := q.Strings(KeyLabels)
	if len(got) != 2 || got[0] != "dog" || got[1] != "cat" {
		t.Errorf("labels = %v", got)
	}
}

func TestPushStringHistory(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), prefsFile))
	for i := 0; i < HistoryLimit+5; i++ {
		p.PushString(KeyLabels, fmt.Sprintf("l%d", i))
	}
	p.PushString(KeyLabels, "l10")
	p.PushString(KeyLabels, "")

	got := p.Strings(KeyLabels)
	if len(got) != HistoryLimit {
		t.Fatalf("len = %d, want %d", len(got), HistoryLimit)
	}
	if got[0] != "l10" {
		t.Errorf("front = %q, want l10", got[0])
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Errorf("duplicate %q", s)
		}
		seen[s] = true
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := LoadFrom(path)
	if p.String(KeyLastDir) != "" {
		t.Error("corrupt file produced values")
	}
	p.SetString(KeyLastDir, "x")
	if err := p.Save(); err != nil {
		t.Fatalf("Save over corrupt file: %v", err)
	}
}
