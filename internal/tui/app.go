package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error // Last failed action, shown as a single line
	inputErr  error // Validation error inside the add dialog

	// State (slices - contain pointers)
	tasks []domain.Task

	// Components (structs with pointers)
	keys     KeyMap
	styles   Styles
	help     help.Model
	taskList list.Model

	// Input state (large structs)
	titleInput textinput.Model

	// Numeric state (smaller types last)
	summary       domain.TaskSummary
	mode          Mode
	confirmAction ConfirmAction
	confirmTask   domain.Task
	pendingSelect string // Task to select after the next reload
	width         int
	height        int
	confirmDelete bool
	loaded        bool
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = domain.MaxTitleLength

	styles := DefaultStyles()
	taskList := list.New([]list.Item{}, newTaskDelegate(styles), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	confirmDelete := true
	if c != nil && c.AppConfig != nil {
		confirmDelete = c.AppConfig.TUI.ConfirmDelete
	}

	return &Model{
		container:     c,
		mode:          ModeNormal,
		keys:          DefaultKeyMap(),
		styles:        styles,
		help:          help.New(),
		taskList:      taskList,
		titleInput:    ti,
		confirmDelete: confirmDelete,
	}
}

// Run starts the TUI program and blocks until it exits.
func Run(c *app.Container) error {
	p := tea.NewProgram(New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadTasks()
}

// loadTasks returns a command that loads the sorted task list.
func (m *Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ListTasksUseCase().Execute(context.Background(), usecase.ListTasksInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Tasks: out.Tasks, Summary: out.Summary}
	}
}

// addTask returns a command that stores a new task.
func (m *Model) addTask(title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.AddTaskUseCase().Execute(context.Background(), usecase.AddTaskInput{Title: title})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskAdded{Task: out.Task}
	}
}

// toggleFavorite returns a command that flips the favorite flag.
func (m *Model) toggleFavorite(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ToggleFavoriteUseCase().Execute(context.Background(), usecase.ToggleFavoriteInput{TaskRef: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskUpdated{Task: out.Task}
	}
}

// toggleComplete returns a command that flips the completion flag.
func (m *Model) toggleComplete(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ToggleCompleteUseCase().Execute(context.Background(), usecase.ToggleCompleteInput{TaskRef: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskUpdated{Task: out.Task}
	}
}

// deleteTask returns a command that removes a task.
func (m *Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.DeleteTaskUseCase().Execute(context.Background(), usecase.DeleteTaskInput{TaskRef: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskDeleted{Task: out.Task}
	}
}

// clearTasks returns a command that removes every task.
func (m *Model) clearTasks() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ClearTasksUseCase().Execute(context.Background(), usecase.ClearTasksInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksCleared{Removed: out.Removed}
	}
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	ti, ok := m.taskList.SelectedItem().(taskItem)
	if !ok {
		return nil
	}
	task := ti.task
	return &task
}

// updateTaskList replaces the list items, keeping the cursor on the same
// task when it is still present.
func (m *Model) updateTaskList() {
	selectedID := m.pendingSelect
	if task := m.SelectedTask(); selectedID == "" && task != nil {
		selectedID = task.ID
	}
	m.pendingSelect = ""

	items := make([]list.Item, 0, len(m.tasks))
	index := min(m.taskList.Index(), max(len(m.tasks)-1, 0))
	for i, task := range m.tasks {
		items = append(items, taskItem{task: task})
		if task.ID == selectedID {
			index = i
		}
	}
	m.taskList.SetItems(items)
	m.taskList.Select(index)
}

// updateLayoutSizes recalculates component sizes after a resize.
func (m *Model) updateLayoutSizes() {
	// Header, progress, error, footer and padding.
	const chrome = 9
	listHeight := max(m.height-chrome, 1)
	listWidth := max(m.width-4, 20)
	m.taskList.SetSize(listWidth, listHeight)
	m.titleInput.Width = max(min(listWidth-10, domain.MaxTitleLength), 10)
}
