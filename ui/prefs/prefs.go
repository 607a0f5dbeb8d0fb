// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const prefsFile = "preferences.json"

// Keys used by the main window.
const (
	KeyLastDir      = "lastDir"
	KeyWindowWidth  = "windowWidth"
	KeyWindowHeight = "windowHeight"
	KeyLabels       = "labelHistory"
	KeyGroups       = "groupHistory"
)

// HistoryLimit caps string lists such as the label history.
const HistoryLimit = 30

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/labelall/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "labelall", prefsFile))
}

// LoadFrom reads preferences from path. A missing or unreadable file
// yields empty preferences that still save to path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.values[key].(string); ok {
		return s
	}
	return ""
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Strings returns a string list preference. Decoded JSON arrays arrive as
// []interface{}; non-string entries are skipped.
func (p *Prefs) Strings(key string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch l := p.values[key].(type) {
	case []string:
		return slices.Clone(l)
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, v := range l {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// PushString moves val to the front of the list under key, dropping
// duplicates and anything past HistoryLimit. Empty values are ignored.
func (p *Prefs) PushString(key, val string) {
	if val == "" {
		return
	}
	list := p.Strings(key)
	list = slices.DeleteFunc(list, func(s string) bool { return s == val })
	list = append([]string{val}, list...)
	if len(list) > HistoryLimit {
		list = list[:HistoryLimit]
	}
	p.mu.Lock()
	p.values[key] = list
	p.mu.Unlock()
}
