// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// AddTaskInput contains the parameters for adding a task.
type AddTaskInput struct {
	Title    string // Task title (required, trimmed, at most 100 characters)
	Favorite bool   // Mark as favorite on creation
}

// AddTaskOutput contains the result of adding a task.
type AddTaskOutput struct {
	Task domain.Task
}

// AddTask is the use case for adding a task.
type AddTask struct {
	tasks  domain.TaskStore
	logger domain.Logger
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(tasks domain.TaskStore, logger domain.Logger) *AddTask {
	return &AddTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute validates the title and stores a new task.
func (uc *AddTask) Execute(ctx context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	title, err := domain.NormalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	task, err := uc.tasks.Add(ctx, domain.TaskDraft{
		Title:      title,
		IsFavorite: in.Favorite,
	})
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}

	uc.logger.Info(task.ID, "task", fmt.Sprintf("added: %q", task.Title))
	return &AddTaskOutput{Task: task}, nil
}
