package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/todo/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgTasksLoaded:
		m.tasks = msg.Tasks
		m.summary = msg.Summary
		m.loaded = true
		m.updateTaskList()
		return m, nil

	case MsgTaskAdded:
		m.mode = ModeNormal
		m.titleInput.Reset()
		m.titleInput.Blur()
		m.inputErr = nil
		m.pendingSelect = msg.Task.ID
		return m, m.loadTasks()

	case MsgTaskUpdated:
		m.pendingSelect = msg.Task.ID
		return m, m.loadTasks()

	case MsgTaskDeleted, MsgTasksCleared:
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		return m, m.loadTasks()

	case MsgError:
		m.err = msg.Err
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		m.titleInput.Blur()
		return m, nil

	case MsgClearError:
		m.err = nil
		return m, nil
	}

	return m, nil
}

// handleKeyMsg dispatches key presses by mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeInputTitle:
		return m.handleInputTitleMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	case ModeNormal:
		return m.handleNormalMode(msg)
	}
	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The error line stays until the next action.
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.taskList.CursorUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.taskList.CursorDown()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.mode = ModeInputTitle
		m.inputErr = nil
		m.titleInput.Reset()
		return m, m.titleInput.Focus()

	case key.Matches(msg, m.keys.Favorite):
		if task := m.SelectedTask(); task != nil {
			return m, m.toggleFavorite(task.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		if task := m.SelectedTask(); task != nil {
			return m, m.toggleComplete(task.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		if !m.confirmDelete {
			return m, m.deleteTask(task.ID)
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDelete
		m.confirmTask = *task
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmClear
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	return m, nil
}

func (m *Model) handleInputTitleMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.inputErr = nil
		m.titleInput.Reset()
		m.titleInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		title, err := domain.NormalizeTitle(m.titleInput.Value())
		if err != nil {
			m.inputErr = err
			return m, nil
		}
		return m, m.addTask(title)
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	m.inputErr = nil
	return m, cmd
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		action := m.confirmAction
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		switch action {
		case ConfirmDelete:
			return m, m.deleteTask(m.confirmTask.ID)
		case ConfirmClear:
			return m, m.clearTasks()
		case ConfirmNone:
		}
		return m, nil
	}

	// Any other key cancels.
	m.mode = ModeNormal
	m.confirmAction = ConfirmNone
	return m, nil
}
