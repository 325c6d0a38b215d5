// Package display holds panel state and renders it for terminals, HTML and Markdown.
package display

import (
	"maps"
	"sync"

	"github.com/codeGROOVE-dev/geotz/pkg/tzlookup"
)

// Snapshot is a point-in-time copy of a Memory target.
type Snapshot struct {
	Text    map[string]string `json:"text"`
	Visible map[string]bool   `json:"visible"`
}

// Get returns the text of slot, or the placeholder when it was never set.
func (s Snapshot) Get(slot string) string {
	if v, ok := s.Text[slot]; ok {
		return v
	}
	return tzlookup.Placeholder
}

// Shown reports whether block is visible. Blocks start hidden.
func (s Snapshot) Shown(block string) bool {
	return s.Visible[block]
}

// Memory is a tzlookup.Target that keeps slot values in memory.
type Memory struct {
	text    map[string]string
	visible map[string]bool
	mu      sync.RWMutex
}

// NewMemory returns an empty target.
func NewMemory() *Memory {
	return &Memory{
		text:    make(map[string]string),
		visible: make(map[string]bool),
	}
}

// SetText implements tzlookup.Target.
func (m *Memory) SetText(slot, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text[slot] = value
}

// SetVisible implements tzlookup.Target.
func (m *Memory) SetVisible(block string, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible[block] = visible
}

// Snapshot copies the current state.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Text:    maps.Clone(m.text),
		Visible: maps.Clone(m.visible),
	}
}
