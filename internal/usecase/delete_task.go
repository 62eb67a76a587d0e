package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskRef string // Task id or unique id prefix
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task domain.Task // The deleted task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks  domain.TaskStore
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskStore, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute deletes the task. A task that disappears between resolution and
// removal is reported as domain.ErrTaskNotFound.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.ResolveTask(ctx, uc.tasks, in.TaskRef)
	if err != nil {
		return nil, err
	}

	removed, err := uc.tasks.Remove(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("remove task: %w", err)
	}
	if !removed {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, task.ID)
	}

	uc.logger.Info(task.ID, "task", fmt.Sprintf("deleted: %q", task.Title))
	return &DeleteTaskOutput{Task: task}, nil
}
