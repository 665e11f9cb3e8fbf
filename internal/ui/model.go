// Package ui provides the terminal interface to the task store.
package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/store"
	"todo/internal/validation"
)

type screen int

const (
	screenList screen = iota
	screenCreate
	screenEdit
)

// StoreChangedMsg tells the model the store's cache or loading flag changed.
type StoreChangedMsg struct{}

type fetchedMsg struct{}

// savedMsg reports the outcome of a create, update or delete.
type savedMsg struct {
	err error
}

// Model is the bubbletea model for the list, create and edit screens.
// All reads of task state go through the store; the model only keeps
// screen state.
type Model struct {
	ctx       context.Context
	store     *store.Store
	validator *validation.TaskValidator
	styles    styles

	screen    screen
	cursor    int
	query     string
	searching bool

	form      taskForm
	editing   domain.Task
	alert     string
	submitted bool
}

// NewModel creates a model on the list screen.
func NewModel(ctx context.Context, st *store.Store) *Model {
	return &Model{
		ctx:       ctx,
		store:     st,
		validator: validation.NewTaskValidator(),
		styles:    defaultStyles(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

func (m *Model) fetch() tea.Cmd {
	ctx, st, query := m.ctx, m.store, m.query
	return func() tea.Msg {
		st.FetchTasks(ctx, query)
		return fetchedMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg, fetchedMsg:
		m.clampCursor()
		return m, nil
	case savedMsg:
		m.submitted = false
		if msg.err != nil {
			m.alert = errors.GetUserMessage(msg.err)
			return m, nil
		}
		return m, m.showList()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.alert = ""
		switch m.screen {
		case screenCreate:
			return m, m.updateCreate(msg)
		case screenEdit:
			return m, m.updateEdit(msg)
		default:
			return m, m.updateList(msg)
		}
	}
	return m, nil
}

// showList returns to the list screen and re-fetches with the current query.
func (m *Model) showList() tea.Cmd {
	m.screen = screenList
	m.form = taskForm{}
	m.editing = domain.Task{}
	return m.fetch()
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter:
			m.searching = false
			m.cursor = 0
			return m.fetch()
		case tea.KeyEsc:
			m.searching = false
			return nil
		}
		field := textField{value: []rune(m.query)}
		if field.handleKey(msg) {
			m.query = field.String()
		}
		return nil
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		m.searching = true
	case "n":
		m.screen = screenCreate
		m.form = newCreateForm()
	case "enter":
		tasks := m.store.Tasks()
		if m.cursor < len(tasks) {
			m.editing = tasks[m.cursor]
			m.form = newEditForm(m.editing.Title, m.editing.Description, m.editing.IsCompleted)
			m.screen = screenEdit
		}
	case "r":
		return m.fetch()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.store.Tasks())-1 {
			m.cursor++
		}
	}
	return nil
}

func (m *Model) updateCreate(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return m.showList()
	case tea.KeyEnter:
		if m.submitted {
			return nil
		}
		task := domain.NewTask{
			Title:       strings.TrimSpace(m.form.title.String()),
			Description: m.form.description.String(),
			IsImportant: m.form.toggle,
		}
		if !m.checkTitle(task.Title) {
			return nil
		}
		m.submitted = true
		ctx, st := m.ctx, m.store
		return func() tea.Msg {
			return savedMsg{err: st.AddTask(ctx, task)}
		}
	}
	m.form.handleKey(msg)
	return nil
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.showList()
	case "ctrl+s":
		if m.submitted {
			return nil
		}
		patch, ok := m.editPatch()
		if !ok {
			return nil
		}
		if patch.IsEmpty() {
			return m.showList()
		}
		m.submitted = true
		ctx, st, id := m.ctx, m.store, m.editing.ID
		return func() tea.Msg {
			return savedMsg{err: st.UpdateTask(ctx, id, patch)}
		}
	case "ctrl+d":
		if m.submitted {
			return nil
		}
		m.submitted = true
		ctx, st, id := m.ctx, m.store, m.editing.ID
		return func() tea.Msg {
			return savedMsg{err: st.DeleteTask(ctx, id)}
		}
	case "enter":
		m.form.next()
		return nil
	}
	m.form.handleKey(msg)
	return nil
}

// editPatch builds a patch holding only the fields the user changed.
func (m *Model) editPatch() (domain.TaskPatch, bool) {
	var patch domain.TaskPatch
	title := strings.TrimSpace(m.form.title.String())
	if !m.checkTitle(title) {
		return patch, false
	}
	if title != m.editing.Title {
		patch.Title = &title
	}
	if d := m.form.description.String(); d != m.editing.Description {
		patch.Description = &d
	}
	if m.form.toggle != m.editing.IsCompleted {
		patch.IsCompleted = domain.BoolPtr(m.form.toggle)
	}
	return patch, true
}

// checkTitle raises an alert for a title the store would reject.
func (m *Model) checkTitle(title string) bool {
	if err := m.validator.ValidateTitle(title); err != nil {
		if ve, ok := err.(*validation.ValidationError); ok {
			m.alert = ve.GetUserFriendlyMessage()
		} else {
			m.alert = err.Error()
		}
		return false
	}
	return true
}

func (m *Model) clampCursor() {
	n := len(m.store.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) View() string {
	var b strings.Builder
	switch m.screen {
	case screenCreate:
		b.WriteString(m.styles.title.Render("New task"))
		b.WriteString("\n")
		b.WriteString(m.form.view(m.styles))
		m.writeAlert(&b)
		b.WriteString(m.styles.help.Render("tab next field • space toggle • enter create • esc cancel"))
	case screenEdit:
		b.WriteString(m.styles.title.Render("Edit task"))
		b.WriteString("\n")
		b.WriteString(m.form.view(m.styles))
		m.writeAlert(&b)
		b.WriteString(m.styles.help.Render("tab next field • space toggle • ctrl+s save • ctrl+d delete • esc back"))
	default:
		m.writeList(&b)
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeList(b *strings.Builder) {
	b.WriteString(m.styles.title.Render("Tasks"))
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(fmt.Sprintf("Search: %s_\n\n", m.query))
	case m.query != "":
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("Search: %s", m.query)))
		b.WriteString("\n\n")
	}

	if m.store.Loading() {
		b.WriteString("Loading…\n\n")
	} else {
		tasks := m.store.Tasks()
		if len(tasks) == 0 {
			b.WriteString(m.styles.muted.Render("No tasks found"))
			b.WriteString("\n")
		}
		for i, task := range tasks {
			b.WriteString(m.formatTask(task, i == m.cursor))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	m.writeAlert(b)
	b.WriteString(m.styles.help.Render("↑/↓ move • enter edit • n new • / search • r refresh • q quit"))
}

func (m *Model) formatTask(task domain.Task, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	if task.IsCompleted {
		check = "[x]"
	}
	mark := " "
	if task.IsImportant {
		mark = m.styles.important.Render("!")
	}

	title := task.Title
	switch {
	case task.IsCompleted:
		title = m.styles.completed.Render(title)
	case selected:
		title = m.styles.selected.Render(title)
	}
	return fmt.Sprintf("%s%s %s %s", cursor, check, mark, title)
}

func (m *Model) writeAlert(b *strings.Builder) {
	if m.alert == "" {
		return
	}
	b.WriteString(m.styles.alert.Render(m.alert))
	b.WriteString("\n\n")
}
