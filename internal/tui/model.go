// Package tui is the interactive tabbed front end. Terminal resizes are
// converted to logical pixels and reload every section.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bizdesk/internal/config"
	"bizdesk/internal/entity"
	"bizdesk/internal/notify"
	"bizdesk/internal/service"
	"bizdesk/internal/view"
)

// pruneInterval is how often expired notices are swept.
const pruneInterval = 500 * time.Millisecond

type mode int

const (
	browsing mode = iota
	searching
	editing
	confirming
)

// Messages produced by background commands.
type (
	loadedMsg  struct{ err error }
	resizedMsg struct {
		width int
		err   error
	}
	submittedMsg struct{ err error }
	deletedMsg   struct {
		deleted bool
		err     error
	}
	tickMsg time.Time
)

// Model is the bubbletea model.
type Model struct {
	ctx       context.Context
	svc       service.Service
	surface   *notify.Surface
	cellWidth int
	styles    Styles
	list      view.Styles

	width  int
	height int
	mode   mode
	cursor int
	busy   bool

	search  textinput.Model
	inputs  []textinput.Model
	fields  []entity.Field
	focus   int
	caption string
	pending int
}

// New creates a Model. cellWidth converts terminal columns to logical pixels.
func New(ctx context.Context, svc service.Service, surface *notify.Surface, cellWidth int) Model {
	if cellWidth <= 0 {
		cellWidth = config.DefaultCellWidth
	}
	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "nom..."
	si.CharLimit = 80

	return Model{
		ctx:       ctx,
		svc:       svc,
		surface:   surface,
		cellWidth: cellWidth,
		styles:    DefaultStyles(),
		list:      view.DefaultStyles(),
		search:    si,
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, svc service.Service, surface *notify.Surface, cellWidth int) error {
	p := tea.NewProgram(New(ctx, svc, surface, cellWidth), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads every section and starts the notice sweep.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadAll(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(pruneInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadAll() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: svc.LoadAll(ctx)}
	}
}

func (m Model) resize(px int) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return resizedMsg{width: px, err: svc.Resize(ctx, px)}
	}
}

func (m Model) reload(s entity.Section, filter string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return loadedMsg{err: s.Load(ctx, filter)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.busy = true
		return m, m.resize(msg.Width * m.cellWidth)

	case resizedMsg, loadedMsg:
		m.busy = false
		m.clampCursor()
		return m, nil

	case submittedMsg:
		m.busy = false
		if msg.err == nil {
			m.closeForm()
		}
		m.clampCursor()
		return m, nil

	case deletedMsg:
		m.busy = false
		m.clampCursor()
		return m, nil

	case tickMsg:
		m.surface.Prune()
		return m, tick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case searching:
			return m.updateSearch(msg)
		case editing:
			return m.updateForm(msg)
		case confirming:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.svc.Active()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.step(1)
	case "shift+tab", "left", "h":
		m.step(-1)
	case "down", "j":
		if m.cursor < active.Len()-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.busy = true
		return m, m.reload(active, "")
	case "/":
		if !active.Searchable() {
			m.surface.Notify(notify.Error, fmt.Sprintf("Recherche indisponible pour %s", active.Title()))
			return m, nil
		}
		m.mode = searching
		m.search.SetValue("")
		cmd := m.search.Focus()
		return m, cmd
	case "n":
		return m.openForm(active.CancelEdit(), active.Fields())
	case "e", "enter":
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		form, err := active.Edit(id)
		if err != nil {
			return m, nil
		}
		return m.openForm(form, active.Fields())
	case "d", "delete":
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		m.pending = id
		m.mode = confirming
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browsing
		m.search.Blur()
		return m, nil
	case "enter":
		m.mode = browsing
		m.search.Blur()
		m.cursor = 0
		m.busy = true
		return m, m.reload(m.svc.Active(), m.search.Value())
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.svc.Active().CancelEdit()
		m.closeForm()
		return m, nil
	case "tab", "down":
		cmd := m.focusInput(m.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusInput(m.focus - 1)
		return m, cmd
	case "enter", "ctrl+s":
		active := m.svc.Active()
		values := make(map[string]string, len(m.fields))
		for i, f := range m.fields {
			values[f.Key] = m.inputs[i].Value()
		}
		if err := active.Fill(values); err != nil {
			return m, nil
		}
		m.busy = true
		ctx := m.ctx
		return m, func() tea.Msg {
			return submittedMsg{err: active.Submit(ctx)}
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	answer := false
	switch msg.String() {
	case "y", "o":
		answer = true
	case "n", "esc":
	default:
		return m, nil
	}

	m.mode = browsing
	active, id, ctx := m.svc.Active(), m.pending, m.ctx
	if !answer {
		return m, nil
	}
	m.busy = true
	return m, func() tea.Msg {
		deleted, err := active.Delete(ctx, id, func(string) bool { return true })
		return deletedMsg{deleted: deleted, err: err}
	}
}

func (m *Model) step(delta int) {
	if delta < 0 {
		m.svc.PrevTab()
	} else {
		m.svc.NextTab()
	}
	m.cursor = 0
}

func (m Model) openForm(form entity.Form, fields []entity.Field) (tea.Model, tea.Cmd) {
	m.mode = editing
	m.fields = fields
	m.caption = form.Title
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Label
		ti.CharLimit = 120
		ti.SetValue(form.Values[f.Key])
		m.inputs[i] = ti
	}
	m.focus = 0
	cmd := m.focusInput(0)
	return m, cmd
}

func (m *Model) closeForm() {
	m.mode = browsing
	m.inputs = nil
	m.fields = nil
	m.caption = ""
}

func (m *Model) focusInput(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	i = (i%len(m.inputs) + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) selectedID() (int, bool) {
	ids := m.svc.Active().Render(m.svc.Class()).IDs()
	if m.cursor < 0 || m.cursor >= len(ids) {
		return 0, false
	}
	return ids[m.cursor], true
}

func (m *Model) clampCursor() {
	n := m.svc.Active().Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the tab bar, the active section, and the notices.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.tabBar())
	b.WriteString("\n")
	class := m.svc.Class()
	status := fmt.Sprintf("%s · %dpx", class, m.svc.Width())
	if m.busy {
		status += " · chargement…"
	}
	b.WriteString(m.styles.Status.Render(status))
	b.WriteString("\n\n")

	active := m.svc.Active()
	switch m.mode {
	case editing:
		b.WriteString(m.formView())
	default:
		state := active.Render(class)
		if state.Len() == 0 {
			b.WriteString(m.styles.Status.Render("Aucun enregistrement"))
			b.WriteString("\n")
		} else {
			b.WriteString(view.Text(state, m.list, m.cursor))
		}
	}

	switch m.mode {
	case searching:
		b.WriteString("\n")
		b.WriteString(m.search.View())
		b.WriteString("\n")
	case confirming:
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(confirmPrompt(active, m.pending)))
		b.WriteString("\n")
	}

	if notices := m.surface.Active(); len(notices) > 0 {
		b.WriteString("\n")
		for _, n := range notices {
			style := m.styles.Success
			if n.Kind == notify.Error {
				style = m.styles.Error
			}
			b.WriteString(style.Render(n.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) tabBar() string {
	active := m.svc.Active().Name()
	tabs := make([]string, 0, len(m.svc.Sections()))
	for _, s := range m.svc.Sections() {
		if s.Name() == active {
			tabs = append(tabs, m.styles.ActiveTab.Render(s.Title()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(s.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) formView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.caption))
	b.WriteString("\n")
	for i, f := range m.fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		if i == m.focus {
			label = m.styles.Focused.Render(label)
		}
		fmt.Fprintf(&b, "%s\n  %s\n", label, m.inputs[i].View())
	}
	return b.String()
}

func (m Model) helpLine() string {
	switch m.mode {
	case searching:
		return "entrée rechercher · échap annuler"
	case editing:
		return "tab champ suivant · entrée enregistrer · échap annuler"
	case confirming:
		return "o confirmer · n annuler"
	default:
		return "tab onglet · ↑/↓ sélection · n nouveau · e modifier · d supprimer · / rechercher · r recharger · q quitter"
	}
}

func confirmPrompt(s entity.Section, id int) string {
	return fmt.Sprintf("%s (#%d) [o/n]", s.DeletePrompt(), id)
}
