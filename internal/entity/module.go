// Package entity implements the per-entity list module: a state cell holding
// the last successfully loaded list, a create/update form, and the
// load/submit/delete operations that keep both consistent with the backend.
//
// Every error a Module returns has already been reported on its notifier,
// so callers only decide how to continue.
package entity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"bizdesk/internal/notify"
	"bizdesk/internal/transport"
	"bizdesk/internal/view"
)

// State is the module lifecycle state.
type State int

const (
	// Empty means no list has been loaded yet.
	Empty State = iota
	// Loaded means the list mirrors the last successful fetch.
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "empty"
}

// Confirmer asks the user a yes/no question.
type Confirmer func(prompt string) bool

// Form is the create/update form. An empty ID means create mode.
type Form struct {
	ID     string
	Values map[string]string
	Title  string
}

// Editing reports whether the form is bound to an existing record.
func (f Form) Editing() bool {
	return f.ID != ""
}

func (f Form) clone() Form {
	values := make(map[string]string, len(f.Values))
	for k, v := range f.Values {
		values[k] = v
	}
	f.Values = values
	return f
}

// Section is the type-erased view of a Module used by the coordinator,
// commands and the interactive UI.
type Section interface {
	Name() string
	Title() string
	Fields() []Field
	Columns() []view.Column
	Searchable() bool
	State() State
	Len() int

	Load(ctx context.Context, filter string) error
	Render(class view.Class) view.State

	Form() Form
	Edit(id int) (Form, error)
	Fill(values map[string]string) error
	CancelEdit() Form
	Submit(ctx context.Context) error
	Create(ctx context.Context, values map[string]string) error
	Update(ctx context.Context, id int, values map[string]string) error
	Delete(ctx context.Context, id int, confirm Confirmer) (bool, error)
	DeletePrompt() string

	Export() (header []string, rows [][]string)
}

// Module owns the list and form of one entity type.
type Module[T any] struct {
	schema   Schema[T]
	doer     transport.Doer
	notifier notify.Notifier
	log      *zap.Logger

	mu     sync.Mutex
	items  []T
	loaded bool
	gen    uint64
	form   Form
}

var _ Section = (*Module[struct{}])(nil)

// NewModule creates a Module in the Empty state with its form in create mode.
func NewModule[T any](schema Schema[T], doer transport.Doer, notifier notify.Notifier, log *zap.Logger) *Module[T] {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	m := &Module[T]{
		schema:   schema,
		doer:     doer,
		notifier: notifier,
		log:      log.With(zap.String("entity", schema.Name)),
		items:    []T{},
	}
	m.form = m.blankForm()
	return m
}

func (m *Module[T]) Name() string           { return m.schema.Name }
func (m *Module[T]) Title() string          { return m.schema.Title }
func (m *Module[T]) Fields() []Field        { return append([]Field(nil), m.schema.Fields...) }
func (m *Module[T]) Columns() []view.Column { return m.schema.Columns() }
func (m *Module[T]) Searchable() bool       { return m.schema.Search != nil }

// State returns the lifecycle state.
func (m *Module[T]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return Loaded
	}
	return Empty
}

// Len returns the number of records in the list.
func (m *Module[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Items returns a copy of the list.
func (m *Module[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...)
}

// Load fetches the list, or the search result when filter is non-blank, and
// replaces the local list wholesale. A failed fetch leaves the list as it was.
// A payload of unexpected shape is logged and yields an empty list.
// If another Load started after this one, this one's result is discarded.
func (m *Module[T]) Load(ctx context.Context, filter string) error {
	filter = strings.TrimSpace(filter)

	ep := m.schema.List
	if filter != "" {
		if m.schema.Search == nil {
			m.notifier.Notify(notify.Error, fmt.Sprintf("Recherche indisponible pour %s", m.schema.Title))
			return fmt.Errorf("%s: %w", m.schema.Name, ErrNoSearch)
		}
		ep = m.schema.Search(filter)
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	raw, err := m.doer.Do(ctx, ep.Request)
	if err != nil {
		return fmt.Errorf("load %s: %w", m.schema.Name, err)
	}

	items, err := transport.DecodeList[T](raw, ep.Shape)
	if err != nil {
		m.log.Warn("unexpected payload shape, showing empty list",
			zap.String("path", ep.Request.Path),
			zap.Error(err),
		)
		items = []T{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		m.log.Debug("discarding stale load", zap.Uint64("generation", gen), zap.Uint64("latest", m.gen))
		return nil
	}
	m.items = items
	m.loaded = true
	m.log.Debug("list loaded", zap.Int("count", len(items)), zap.String("filter", filter))
	return nil
}

// Render builds the presentation target for class from the current list.
func (m *Module[T]) Render(class view.Class) view.State {
	m.mu.Lock()
	records := make([]view.Record, len(m.items))
	for i, item := range m.items {
		records[i] = m.schema.record(item)
	}
	m.mu.Unlock()

	return view.Render(m.schema.Columns(), records, class)
}

// Form returns a copy of the current form.
func (m *Module[T]) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.clone()
}

// Edit binds the form to record id from the current list.
func (m *Module[T]) Edit(id int) (Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.items {
		if m.schema.ID(item) != id {
			continue
		}
		values := m.schema.Values(item)
		form := Form{
			ID:     strconv.Itoa(id),
			Values: make(map[string]string, len(m.schema.Fields)),
			Title:  fmt.Sprintf(m.schema.Captions.Edit, id),
		}
		for _, f := range m.schema.Fields {
			form.Values[f.Key] = values[f.Key]
		}
		m.form = form
		return form.clone(), nil
	}

	m.notifier.Notify(notify.Error, fmt.Sprintf(m.schema.Captions.NotFound, id))
	return Form{}, fmt.Errorf("%s #%d: %w", m.schema.Name, id, ErrUnknownRecord)
}

// Fill overwrites form values, keeping the form's mode.
func (m *Module[T]) Fill(values map[string]string) error {
	for key := range values {
		if _, ok := m.schema.field(key); !ok {
			m.notifier.Notify(notify.Error, fmt.Sprintf("Champ inconnu : %s", key))
			return fmt.Errorf("%s.%s: %w", m.schema.Name, key, ErrUnknownField)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.form.Values[k] = v
	}
	return nil
}

// CancelEdit resets the form to create mode.
func (m *Module[T]) CancelEdit() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = m.blankForm()
	return m.form.clone()
}

// Submit validates the form and sends a create or update depending on its
// mode. On success the form is reset and the list reloaded; on failure the
// form keeps what the user entered.
func (m *Module[T]) Submit(ctx context.Context) error {
	form := m.Form()

	body, err := m.schema.Body(form.Values)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			m.notifier.Notify(notify.Error, verr.Message)
		}
		return fmt.Errorf("%s: %w", m.schema.Name, err)
	}

	var req transport.Request
	var done string
	if form.Editing() {
		id, err := strconv.Atoi(form.ID)
		if err != nil {
			m.notifier.Notify(notify.Error, fmt.Sprintf("Identifiant invalide : %s", form.ID))
			return fmt.Errorf("%s: invalid id %q: %w", m.schema.Name, form.ID, ErrUnknownRecord)
		}
		req = m.schema.Update(id, body)
		done = m.schema.Captions.Updated
	} else {
		req = m.schema.Create(body)
		done = m.schema.Captions.Created
	}

	if _, err := m.doer.Do(ctx, req); err != nil {
		return fmt.Errorf("submit %s: %w", m.schema.Name, err)
	}

	m.notifier.Notify(notify.Success, done)
	m.CancelEdit()
	return m.Load(ctx, "")
}

// Create puts the form in create mode with values and submits it.
func (m *Module[T]) Create(ctx context.Context, values map[string]string) error {
	m.CancelEdit()
	if err := m.Fill(values); err != nil {
		return err
	}
	return m.Submit(ctx)
}

// Update binds the form to record id, applies values on top of the record's
// current values, and submits it.
func (m *Module[T]) Update(ctx context.Context, id int, values map[string]string) error {
	if _, err := m.Edit(id); err != nil {
		return err
	}
	if err := m.Fill(values); err != nil {
		return err
	}
	return m.Submit(ctx)
}

// Delete asks confirm, then deletes record id and reloads. It reports false
// without any network call when the user declines.
func (m *Module[T]) Delete(ctx context.Context, id int, confirm Confirmer) (bool, error) {
	if confirm != nil && !confirm(m.schema.Captions.ConfirmDelete) {
		return false, nil
	}

	if _, err := m.doer.Do(ctx, m.schema.Delete(id)); err != nil {
		return false, fmt.Errorf("delete %s #%d: %w", m.schema.Name, id, err)
	}

	m.notifier.Notify(notify.Success, m.schema.Captions.Deleted)
	return true, m.Load(ctx, "")
}

// DeletePrompt is the question asked before a delete.
func (m *Module[T]) DeletePrompt() string {
	return m.schema.Captions.ConfirmDelete
}

// Export returns the column labels and the current list as display strings.
func (m *Module[T]) Export() ([]string, [][]string) {
	cols := m.schema.Columns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([][]string, len(m.items))
	for i, item := range m.items {
		rows[i] = m.schema.record(item).Values
	}
	return header, rows
}

func (m *Module[T]) blankForm() Form {
	values := make(map[string]string, len(m.schema.Fields))
	for _, f := range m.schema.Fields {
		values[f.Key] = ""
	}
	return Form{Values: values, Title: m.schema.Captions.Create}
}
