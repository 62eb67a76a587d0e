package tui

import "github.com/runoshun/todo/internal/domain"

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when the sorted task list has been loaded.
type MsgTasksLoaded struct {
	Tasks   []domain.Task
	Summary domain.TaskSummary
}

func (MsgTasksLoaded) sealed() {}

// MsgTaskAdded is sent when a new task is created.
type MsgTaskAdded struct {
	Task domain.Task
}

func (MsgTaskAdded) sealed() {}

// MsgTaskUpdated is sent when a task flag has been toggled.
type MsgTaskUpdated struct {
	Task domain.Task
}

func (MsgTaskUpdated) sealed() {}

// MsgTaskDeleted is sent when a task is deleted.
type MsgTaskDeleted struct {
	Task domain.Task
}

func (MsgTaskDeleted) sealed() {}

// MsgTasksCleared is sent when every task has been deleted.
type MsgTasksCleared struct {
	Removed int
}

func (MsgTasksCleared) sealed() {}

// MsgError is sent when an action fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// MsgClearError is sent to clear the current error message.
type MsgClearError struct{}

func (MsgClearError) sealed() {}
