// Package theme holds the dark/light display preference.
package theme

import (
	"strings"
	"sync"
)

// Mode is a display theme.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// Default is used when nothing has been stored.
const Default = Dark

// Parse maps a stored value to a Mode, falling back to Default.
func Parse(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light
	case Dark:
		return Dark
	default:
		return Default
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Store persists the preference.
type Store interface {
	Load() (string, bool)
	Save(value string)
}

// Preference reads the stored mode once and writes it back on each toggle.
type Preference struct {
	store Store

	once sync.Once
	mu   sync.Mutex
	mode Mode
}

// NewPreference wraps store.
func NewPreference(store Store) *Preference {
	return &Preference{store: store}
}

// Mode returns the current mode.
func (p *Preference) Mode() Mode {
	p.load()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Toggle flips the mode, persists it and returns the new value.
func (p *Preference) Toggle() Mode {
	p.load()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = p.mode.Opposite()
	p.store.Save(string(p.mode))
	return p.mode
}

func (p *Preference) load() {
	p.once.Do(func() {
		mode := Default
		if v, ok := p.store.Load(); ok {
			mode = Parse(v)
		}
		p.mu.Lock()
		p.mode = mode
		p.mu.Unlock()
	})
}

// MemoryStore keeps the value in memory.
type MemoryStore struct {
	mu    sync.Mutex
	value string
	set   bool
}

func (s *MemoryStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

func (s *MemoryStore) Save(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.set = value, true
}
