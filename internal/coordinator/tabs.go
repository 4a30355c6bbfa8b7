package coordinator

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownTab is returned when activating a tab that does not exist.
var ErrUnknownTab = errors.New("unknown tab")

// Tabs is an ordered set of tab names with exactly one active tab.
type Tabs struct {
	mu     sync.RWMutex
	names  []string
	active int
}

// NewTabs creates Tabs with the first name active.
func NewTabs(names ...string) *Tabs {
	return &Tabs{names: slices.Clone(names)}
}

// Activate makes name the only active tab.
func (t *Tabs) Activate(name string) error {
	i := slices.Index(t.names, name)
	if i < 0 {
		return fmt.Errorf("%s: %w", name, ErrUnknownTab)
	}
	t.mu.Lock()
	t.active = i
	t.mu.Unlock()
	return nil
}

// Active returns the active tab name, or "" when there are no tabs.
func (t *Tabs) Active() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.names) == 0 {
		return ""
	}
	return t.names[t.active]
}

// Next activates the tab after the active one, wrapping around.
func (t *Tabs) Next() string {
	return t.step(1)
}

// Prev activates the tab before the active one, wrapping around.
func (t *Tabs) Prev() string {
	return t.step(-1)
}

func (t *Tabs) step(delta int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.names)
	if n == 0 {
		return ""
	}
	t.active = ((t.active+delta)%n + n) % n
	return t.names[t.active]
}
