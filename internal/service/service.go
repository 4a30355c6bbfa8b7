package service

import (
	"context"

	"bizdesk/internal/entity"
	"bizdesk/internal/view"
)

// Service exposes the entity sections and the shared viewport.
type Service interface {
	// Sections returns the sections in tab order.
	Sections() []entity.Section

	// Section looks up a section by name, plural name, or title.
	Section(name string) (entity.Section, bool)

	// Activate makes the named section the single active tab.
	Activate(name string) error

	// Active returns the active section.
	Active() entity.Section

	// NextTab and PrevTab move the active tab by one, wrapping around, and
	// return the newly active section.
	NextTab() entity.Section
	PrevTab() entity.Section

	// Width returns the last observed viewport width in logical pixels.
	Width() int

	// SetWidth records the viewport width without reloading.
	SetWidth(width int)

	// Class is the presentation class for the current width.
	Class() view.Class

	// Resize records width and reloads every section.
	Resize(ctx context.Context, width int) error

	// LoadAll loads every section's unfiltered list.
	LoadAll(ctx context.Context) error
}
