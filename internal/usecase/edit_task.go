package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
type EditTaskInput struct {
	Title    *string // New title (validated like AddTask)
	Favorite *bool   // New favorite flag
	TaskRef  string  // Task id or unique id prefix
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task domain.Task // Task after the change
}

// EditTask is the use case for editing a task.
type EditTask struct {
	tasks  domain.TaskStore
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskStore, logger domain.Logger) *EditTask {
	return &EditTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute applies the requested changes.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	var patch domain.TaskPatch
	if in.Title != nil {
		title, err := domain.NormalizeTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if in.Favorite != nil {
		fav := *in.Favorite
		patch.IsFavorite = &fav
	}
	if patch.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	task, err := shared.ResolveTask(ctx, uc.tasks, in.TaskRef)
	if err != nil {
		return nil, err
	}

	updated, err := uc.tasks.Update(ctx, task.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	uc.logger.Info(updated.ID, "task", fmt.Sprintf("edited: %q", updated.Title))
	return &EditTaskOutput{Task: updated}, nil
}
