package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title     lipgloss.Style
	selected  lipgloss.Style
	completed lipgloss.Style
	important lipgloss.Style
	label     lipgloss.Style
	focused   lipgloss.Style
	alert     lipgloss.Style
	help      lipgloss.Style
	muted     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		completed: lipgloss.NewStyle().Faint(true).Strikethrough(true),
		important: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		label:     lipgloss.NewStyle().Width(13),
		focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Underline(true),
		alert:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		help:      lipgloss.NewStyle().Faint(true),
		muted:     lipgloss.NewStyle().Faint(true),
	}
}

func (s styles) renderField(label, value string, focused bool) string {
	cursor := "  "
	if focused {
		cursor = "> "
		value = s.focused.Render(value + "_")
	}
	return fmt.Sprintf("%s%s%s", cursor, s.label.Render(label+":"), value)
}
