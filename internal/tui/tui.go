// Package tui is the interactive Bubble Tea front end.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/idilsaglam/tada/internal/app"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/ui"
)

// listItem adapts a todo to bubbles/list.Item
type listItem struct {
	ID   string
	Text string
	Done bool
}

func (i listItem) FilterValue() string { return i.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	text := it.Text
	if it.Done {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// viewState receives the app's refresh requests. It lives behind a pointer
// so every copy of Model sees the same state.
type viewState struct {
	app.ToggleQueue
	listDirty bool
	controls  app.Controls
}

func (v *viewState) RefreshControls(c app.Controls) { v.controls = c }

func (v *viewState) RefreshList(*model.Collection, model.Filter) { v.listDirty = true }

type keyMap struct {
	add, edit, toggle, remove, clear, toggleAll key.Binding
	all, active, completed                      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		toggleAll: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		all:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		active:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.add, k.edit, k.toggle, k.remove, k.toggleAll}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{k.add, k.edit, k.toggle, k.remove, k.clear, k.toggleAll, k.all, k.active, k.completed}
}

// Model is the Bubble Tea model.
type Model struct {
	ctx    context.Context
	app    *app.App
	loc    *router.MemoryLocation
	router *router.Router
	view   *viewState
	keys   keyMap

	list list.Model

	// Inline add / edit share one text input
	ti       textinput.Model
	adding   bool
	editing  bool
	editID   string
	inputErr string

	status string // last error, shown in the footer
	width  int
	height int
}

// NewModel builds the app around a TUI view and starts routing from loc.
func NewModel(ctx context.Context, repo app.Repository, loc *router.MemoryLocation, opts ...app.Option) *Model {
	m := &Model{
		ctx:  ctx,
		loc:  loc,
		view: &viewState{},
		keys: newKeyMap(),
	}
	m.app = app.New(ctx, repo, m.view, opts...)

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	// The routes are the filter; a second fuzzy filter over them would hide rows the app shows.
	l.SetFilteringEnabled(false)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = m.keys.short
	l.AdditionalFullHelpKeys = m.keys.full
	m.list = l

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200

	m.width, m.height = termSize()
	m.list.SetSize(m.width-4, m.listHeight())

	// The router drives the filter, exactly like a hashchange would.
	m.router = router.New(loc, func(f model.Filter) {
		m.report(m.app.Dispatch(m.ctx, app.EventFilterChange, f))
	})
	m.router.Start()
	m.view.listDirty = true
	_ = m.sync("")
	return m
}

// App exposes the orchestrator (used by tests and callers that want the final state).
func (m *Model) App() *app.App { return m.app }

// Run starts the interactive list. Every change is saved as it happens.
func Run(ctx context.Context, repo app.Repository, loc *router.MemoryLocation, opts ...app.Option) error {
	m := NewModel(ctx, repo, loc, opts...)
	defer m.router.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// Init, Update and View implement tea.Model. The pointer receiver keeps
// the router callback and the program looking at the same model.
func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.list.SetSize(m.width-4, m.listHeight())
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case k.String() == "q" || k.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(k, m.keys.toggle):
			if it, ok := m.selected(); ok {
				m.dispatch(app.EventItemToggle, it.ID)
				return m, m.sync(it.ID)
			}
			return m, nil
		case key.Matches(k, m.keys.remove):
			if it, ok := m.selected(); ok {
				m.dispatch(app.EventItemDestroy, it.ID)
				return m, m.sync("")
			}
			return m, nil
		case key.Matches(k, m.keys.clear):
			m.dispatch(app.EventClearCompleted, nil)
			return m, m.sync("")
		case key.Matches(k, m.keys.toggleAll):
			ev := app.EventToggleAllCheck
			if m.app.Controls().ToggleAllChecked {
				ev = app.EventToggleAllOff
			}
			m.dispatch(ev, nil)
			return m, m.sync("")
		case key.Matches(k, m.keys.all):
			return m, m.navigate(model.All)
		case key.Matches(k, m.keys.active):
			return m, m.navigate(model.Active)
		case key.Matches(k, m.keys.completed):
			return m, m.navigate(model.Completed)
		case key.Matches(k, m.keys.add):
			m.adding = true
			m.inputErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "What needs to be done?"
			m.ti.Focus()
			return m, nil
		case key.Matches(k, m.keys.edit):
			if it, ok := m.selected(); ok {
				m.editing = true
				m.editID = it.ID
				m.inputErr = ""
				m.ti.SetValue(it.Text)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Empty title deletes the item"
				m.ti.Focus()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			if m.adding {
				err := m.app.Dispatch(m.ctx, app.EventNewItem, m.ti.Value())
				if errors.Is(err, app.ErrEmptyTitle) {
					m.inputErr = "Title cannot be empty"
					return m, nil
				}
				m.report(err)
			} else {
				m.dispatch(app.EventItemEdited, app.Edit{ID: m.editID, Title: m.ti.Value()})
				// Title edits do not ask for a list refresh; the edited row redraws itself.
				m.view.listDirty = true
			}
			m.closeInput()
			return m, m.sync("")
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.editing = false
	m.editID = ""
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// dispatch sends ev to the app and replays any bulk toggle it queued.
func (m *Model) dispatch(ev app.Event, payload any) {
	err := m.app.Dispatch(m.ctx, ev, payload)
	if err == nil && m.view.Pending() > 0 {
		err = m.view.Replay(m.ctx, m.app)
		m.view.listDirty = true
	}
	m.report(err)
}

func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *Model) navigate(f model.Filter) tea.Cmd {
	m.loc.Navigate(f.Fragment())
	return m.sync("")
}

// sync applies pending refresh requests to the list widget. When only the
// controls changed, the row for changedID is redrawn in place.
func (m *Model) sync(changedID string) tea.Cmd {
	m.list.Title = header(m.app.Controls())

	if m.view.listDirty {
		todos := m.app.Display().ToArray()
		items := make([]list.Item, 0, len(todos))
		for _, t := range todos {
			items = append(items, listItem{ID: t.ID, Text: t.Title, Done: t.Completed})
		}
		m.view.listDirty = false
		return m.list.SetItems(items)
	}
	if changedID == "" {
		return nil
	}
	todo, ok := m.app.Todos().GetByID(changedID)
	if !ok {
		return nil
	}
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.ID == changedID {
			return m.list.SetItem(i, listItem{ID: todo.ID, Text: todo.Title, Done: todo.Completed})
		}
	}
	return nil
}

func (m *Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

// items returns what the list currently shows.
func (m *Model) items() []listItem {
	out := make([]listItem, 0, len(m.list.VisibleItems()))
	for _, it := range m.list.VisibleItems() {
		if li, ok := it.(listItem); ok {
			out = append(out, li)
		}
	}
	return out
}

func (m *Model) listHeight() int {
	h := m.height - 6
	if m.adding || m.editing {
		h -= 2
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) View() string {
	t := ui.Current()
	c := m.app.Controls()

	content := m.list.View()
	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " - " + t.Error.Render(m.inputErr)
		}
		content += "\n" + ui.Panel(title+"\n"+m.ti.View())
	}
	content += "\n" + footer(c)
	if m.status != "" {
		content += "\n" + t.Error.Render(m.status)
	}
	return ui.Panel(content)
}

// header renders the counts and the filter tabs.
func header(c app.Controls) string {
	t := ui.Current()
	tabs := make([]string, 0, 3)
	for i, f := range model.Filters() {
		label := fmt.Sprintf("%d:%s", i+1, f)
		if f == c.Filter {
			label = t.Accent.Render("[" + label + "]")
		} else {
			label = t.Muted.Render(label)
		}
		tabs = append(tabs, label)
	}
	return fmt.Sprintf("%s   %s %d  %s %d   %s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), c.Completed,
		t.Pending.Render(t.SymPending), c.Remaining,
		strings.Join(tabs, " "),
	)
}

func footer(c app.Controls) string {
	t := ui.Current()
	if !c.Visible {
		return t.Muted.Render("Nothing to do. Press a to add an item.")
	}
	parts := []string{ui.ItemsLeft(c.Remaining), ui.ProgressBar(c.Completed, c.Total, 20)}
	if c.ShowClearCompleted {
		parts = append(parts, t.Muted.Render("c: clear completed"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "   "))
}

// termSize asks the terminal for its size, defaulting to 80x24.
func termSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}
