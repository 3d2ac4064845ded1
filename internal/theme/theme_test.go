package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingStore struct {
	MemoryStore
	loads int
}

func (s *countingStore) Load() (string, bool) {
	s.loads++
	return s.MemoryStore.Load()
}

func TestDefaultsToDark(t *testing.T) {
	p := NewPreference(&MemoryStore{})
	assert.Equal(t, Dark, p.Mode())
}

func TestReadsStoredValueOnce(t *testing.T) {
	s := &countingStore{}
	s.Save("light")
	p := NewPreference(s)
	assert.Equal(t, Light, p.Mode())
	assert.Equal(t, Light, p.Mode())
	assert.Equal(t, 1, s.loads)
}

func TestToggleRoundTrip(t *testing.T) {
	s := &MemoryStore{}
	p := NewPreference(s)

	assert.Equal(t, Light, p.Toggle())
	v, ok := s.Load()
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	assert.Equal(t, Dark, p.Toggle())
	v, _ = s.Load()
	assert.Equal(t, "dark", v)
}

func TestParse(t *testing.T) {
	tests := map[string]Mode{
		"dark":   Dark,
		"light":  Light,
		" LIGHT": Light,
		"":       Dark,
		"purple": Dark,
	}
	for in, want := range tests {
		assert.Equal(t, want, Parse(in), "input %q", in)
	}
}
