package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// textField is a single-line text input driven by key messages.
type textField struct {
	label string
	value []rune
}

func (f *textField) String() string { return string(f.value) }

func (f *textField) Set(s string) { f.value = []rune(s) }

// handleKey edits the field and reports whether the key was consumed.
func (f *textField) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		f.value = append(f.value, msg.Runes...)
	case tea.KeySpace:
		f.value = append(f.value, ' ')
	case tea.KeyBackspace:
		if len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
	case tea.KeyCtrlU:
		f.value = nil
	default:
		return false
	}
	return true
}

// taskForm backs both the create and the edit screen. The toggle is
// "important" when creating and "completed" when editing.
type taskForm struct {
	title       textField
	description textField
	toggleLabel string
	toggle      bool
	focus       int
}

const (
	focusTitle = iota
	focusDescription
	focusToggle
	focusCount
)

func newCreateForm() taskForm {
	return taskForm{
		title:       textField{label: "Title"},
		description: textField{label: "Description"},
		toggleLabel: "Important",
	}
}

func newEditForm(title, description string, completed bool) taskForm {
	f := taskForm{
		title:       textField{label: "Title"},
		description: textField{label: "Description"},
		toggleLabel: "Completed",
		toggle:      completed,
	}
	f.title.Set(title)
	f.description.Set(description)
	return f
}

func (f *taskForm) next() { f.focus = (f.focus + 1) % focusCount }

func (f *taskForm) prev() { f.focus = (f.focus + focusCount - 1) % focusCount }

// handleKey routes editing keys to the focused field.
func (f *taskForm) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		f.next()
		return true
	case tea.KeyShiftTab, tea.KeyUp:
		f.prev()
		return true
	}

	switch f.focus {
	case focusTitle:
		return f.title.handleKey(msg)
	case focusDescription:
		return f.description.handleKey(msg)
	default:
		if msg.Type == tea.KeySpace || msg.String() == "x" {
			f.toggle = !f.toggle
			return true
		}
	}
	return false
}

func (f *taskForm) view(st styles) string {
	var b strings.Builder
	for i, field := range []*textField{&f.title, &f.description} {
		b.WriteString(st.renderField(field.label, field.String(), f.focus == i))
		b.WriteString("\n")
	}
	box := "[ ]"
	if f.toggle {
		box = "[x]"
	}
	b.WriteString(st.renderField(f.toggleLabel, box, f.focus == focusToggle))
	b.WriteString("\n")
	return b.String()
}
