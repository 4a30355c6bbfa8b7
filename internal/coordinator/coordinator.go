// Package coordinator ties the entity sections to the tab bar and the
// viewport: it owns the width, and reloads every section when it changes.
package coordinator

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bizdesk/internal/entity"
	"bizdesk/internal/service"
	"bizdesk/internal/view"
)

// DefaultWidth is assumed until the first viewport measurement.
const DefaultWidth = 1024

// Coordinator implements service.Service over a fixed list of sections.
type Coordinator struct {
	log      *zap.Logger
	sections []entity.Section
	tabs     *Tabs

	mu    sync.RWMutex
	width int
}

var _ service.Service = (*Coordinator)(nil)

// New creates a Coordinator. Section order is tab order; the first is active.
func New(log *zap.Logger, sections ...entity.Section) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name()
	}
	return &Coordinator{
		log:      log.Named("coordinator"),
		sections: sections,
		tabs:     NewTabs(names...),
		width:    DefaultWidth,
	}
}

func (c *Coordinator) Sections() []entity.Section {
	return append([]entity.Section(nil), c.sections...)
}

// Section matches the name ("client"), its plural ("clients") or the title
// ("Salariés"), case-insensitively.
func (c *Coordinator) Section(name string) (entity.Section, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range c.sections {
		if name == s.Name() || name == s.Name()+"s" || name == strings.ToLower(s.Title()) {
			return s, true
		}
	}
	return nil, false
}

func (c *Coordinator) Activate(name string) error {
	if s, ok := c.Section(name); ok {
		name = s.Name()
	}
	return c.tabs.Activate(name)
}

func (c *Coordinator) Active() entity.Section {
	s, _ := c.Section(c.tabs.Active())
	return s
}

// NextTab activates the section after the active one, wrapping around.
func (c *Coordinator) NextTab() entity.Section {
	s, _ := c.Section(c.tabs.Next())
	return s
}

// PrevTab activates the section before the active one, wrapping around.
func (c *Coordinator) PrevTab() entity.Section {
	s, _ := c.Section(c.tabs.Prev())
	return s
}

func (c *Coordinator) Width() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width
}

func (c *Coordinator) SetWidth(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
}

func (c *Coordinator) Class() view.Class {
	return view.Classify(c.Width())
}

// Resize records the new width and reloads every section, whether or not
// the presentation class changed.
func (c *Coordinator) Resize(ctx context.Context, width int) error {
	before := c.Class()
	c.SetWidth(width)
	c.log.Debug("viewport resized",
		zap.Int("width", width),
		zap.Stringer("from", before),
		zap.Stringer("to", c.Class()),
	)
	return c.LoadAll(ctx)
}

// LoadAll loads every section concurrently and returns the first error.
// Sections that fail keep their previous list.
func (c *Coordinator) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	for _, s := range c.sections {
		g.Go(func() error {
			return s.Load(ctx, "")
		})
	}
	return g.Wait()
}
