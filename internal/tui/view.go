package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/client"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Strikethrough(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title()))
	b.WriteString("\n\n")
	b.WriteString(m.renderTasks())

	if msg := m.renderMessage(); msg != "" {
		b.WriteString("\n")
		b.WriteString(msg)
		b.WriteString("\n")
	}

	switch {
	case m.snap.Confirming():
		b.WriteString("\n")
		b.WriteString(m.renderConfirm())
		b.WriteString("\n")
	case m.mode == modeAdd:
		b.WriteString("\n")
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) title() string {
	done := len(client.CompletedIDs(m.snap.Tasks))
	return fmt.Sprintf("Your Tasks (%d, %d completed)", len(m.snap.Tasks), done)
}

func (m Model) renderTasks() string {
	if !m.snap.Loaded {
		if m.snap.Message.Kind == client.MessageError {
			return dimStyle.Render("Tasks could not be loaded. Press 'r' to retry.") + "\n"
		}
		return dimStyle.Render("Loading tasks...") + "\n"
	}
	if len(m.snap.Tasks) == 0 {
		return dimStyle.Render("No tasks yet. Press 'a' to add one.") + "\n"
	}

	var b strings.Builder
	for i, t := range m.snap.Tasks {
		cursor := "  "
		if i == m.cursor && m.mode == modeList {
			cursor = cursorStyle.Render("> ")
		}

		box, name := "[ ]", t.Name
		if t.Completed {
			box, name = "[x]", doneStyle.Render(t.Name)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, name)

		if t.Description != "" {
			fmt.Fprintf(&b, "      %s\n", dimStyle.Render(t.Description))
		}
	}
	return b.String()
}

func (m Model) renderMessage() string {
	msg := m.snap.Message
	switch msg.Kind {
	case client.MessageError:
		return errorStyle.Render(msg.Text)
	case client.MessageSuccess:
		return successStyle.Render(msg.Text)
	default:
		return ""
	}
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Name"))
	b.WriteString("\n")
	b.WriteString(m.name.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.desc.View())
	return formStyle.Render(b.String())
}

func (m Model) renderConfirm() string {
	body := fmt.Sprintf("Delete task %q?\nThis action cannot be undone.\n\n", m.snap.Pending.Name)
	if m.deleting {
		body += dimStyle.Render("Deleting...")
	} else {
		body += dimStyle.Render("y/enter delete • n/esc cancel")
	}
	return modalStyle.Render(body)
}

func (m Model) help() string {
	switch {
	case m.snap.Confirming():
		return "y confirm • n cancel"
	case m.mode == modeAdd:
		return "tab switch field • enter save • esc cancel"
	default:
		return "↑/↓ move • a add • space toggle • d delete • c clear completed • r refresh • q quit"
	}
}
