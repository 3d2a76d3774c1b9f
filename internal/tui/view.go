package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cerridwen-io/babyrs/internal/event"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("babyrs"))
	b.WriteString("\n\n")

	switch m.mode {
	case modePicking:
		b.WriteString(m.viewPicking())
	case modeCreating, modeEditing:
		b.WriteString(m.viewForm())
	case modeDeleting:
		b.WriteString(m.viewDeleting())
	default:
		b.WriteString(m.viewListing())
	}

	if m.status != "" && m.mode == modeListing {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewListing() string {
	if len(m.events) == 0 {
		return dimStyle.Render("No events yet. Press n to log one.") + "\n"
	}

	var b strings.Builder
	for i, e := range m.events {
		line := fmt.Sprintf("%s  %s", e.OccurredAt.Local().Format("2006-01-02 15:04"), e.Summary())
		if e.Notes != "" {
			line += dimStyle.Render("  " + e.Notes)
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("» " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewPicking() string {
	var b strings.Builder
	b.WriteString("What happened?\n\n")
	for i, kind := range event.Kinds {
		if i == m.pick {
			b.WriteString(selectedStyle.Render("» " + kind.Label()))
		} else {
			b.WriteString("  " + kind.Label())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.mode == modeEditing {
		b.WriteString(fmt.Sprintf("Edit %s #%d\n\n", m.form.kind.Label(), m.editID))
	} else {
		b.WriteString(fmt.Sprintf("New %s\n\n", m.form.kind.Label()))
	}

	for i, field := range m.form.fields {
		label := field.label
		if i == m.form.focus {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}

	if m.form.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.form.errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDeleting() string {
	selected := m.events[m.cursor]
	var b strings.Builder
	b.WriteString(m.viewListing())
	b.WriteString("\n")
	b.WriteString(errorStyle.Render(fmt.Sprintf("Delete event #%d (%s)? y to confirm, any other key to cancel", selected.ID, selected.Summary())))
	b.WriteString("\n")
	return b.String()
}

func (m Model) helpLine() string {
	switch m.mode {
	case modePicking:
		return "↑/↓ choose · enter select · esc cancel"
	case modeCreating, modeEditing:
		return "tab next field · enter save · esc cancel"
	case modeDeleting:
		return "y confirm · any key cancel"
	default:
		return "↑/↓ move · n new · e edit · d delete · r reload · q quit"
	}
}
