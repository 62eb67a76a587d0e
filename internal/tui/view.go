package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/todo/internal/domain"
)

// View renders the model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeInputTitle:
		content = m.viewMain() + "\n" + m.viewAddDialog()
	case ModeConfirm:
		content = m.viewMain() + "\n" + m.viewConfirmDialog()
	case ModeNormal:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the header, the task list and the footer.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch {
	case !m.loaded && m.err == nil:
		b.WriteString(m.styles.EmptyStateHint.Render("Loading tasks..."))
	case len(m.tasks) == 0:
		b.WriteString(m.viewEmptyState())
	default:
		b.WriteString(m.taskList.View())
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n")
	}

	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return b.String()
}

// viewHeader renders the title, the counts headline and the progress bar.
func (m *Model) viewHeader() string {
	title := m.styles.Header.Render("My Tasks")
	if m.summary.Total == 0 {
		return title
	}
	headline := m.styles.HeaderSummary.Render(m.summary.Headline())
	progress := m.styles.ProgressBar(m.summary.Progress()) + " " +
		m.styles.ProgressLabel.Render(fmt.Sprintf("%d%% complete", m.summary.Progress()))
	return lipgloss.JoinVertical(lipgloss.Left, title, headline, progress)
}

func (m *Model) viewEmptyState() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.EmptyState.Render("No tasks yet"),
		m.styles.EmptyStateHint.Render("Press a to add your first task."),
	)
}

// viewAddDialog renders the add-task dialog with a character counter.
func (m *Model) viewAddDialog() string {
	count := utf8.RuneCountInString(m.titleInput.Value())
	counterStyle := m.styles.Counter
	if count >= domain.MaxTitleLength {
		counterStyle = m.styles.CounterFull
	}

	lines := []string{
		m.styles.DialogTitle.Render("Add New Task"),
		"",
		m.titleInput.View(),
		counterStyle.Render(fmt.Sprintf("%d/%d", count, domain.MaxTitleLength)),
	}
	if m.inputErr != nil {
		lines = append(lines, m.styles.ErrorMsg.Render(m.inputErr.Error()))
	}
	lines = append(lines, "", m.styles.DialogHint.Render("enter save • esc cancel"))

	return m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// viewConfirmDialog renders the confirmation prompt for the pending action.
func (m *Model) viewConfirmDialog() string {
	var prompt string
	switch m.confirmAction {
	case ConfirmDelete:
		prompt = fmt.Sprintf("Delete %q?", m.confirmTask.Title)
	case ConfirmClear:
		prompt = fmt.Sprintf("Delete all %d tasks?", len(m.tasks))
	case ConfirmNone:
		return ""
	}

	return m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.DialogTitle.Render("Confirm "+m.confirmAction.String()),
		"",
		m.styles.DialogPrompt.Render(prompt),
		"",
		m.styles.DialogHint.Render("y confirm • any other key cancels"),
	))
}

// viewHelp renders the full key binding list.
func (m *Model) viewHelp() string {
	h := m.help
	h.ShowAll = true
	return m.styles.Help.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("Keys"),
		"",
		h.View(m.keys),
		"",
		m.styles.DialogHint.Render("press any key to close"),
	))
}
