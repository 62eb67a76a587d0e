package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase/shared"
)

// ToggleCompleteInput contains the parameters for toggling completion.
type ToggleCompleteInput struct {
	TaskRef string // Task id or unique id prefix
}

// ToggleCompleteOutput contains the result of toggling completion.
type ToggleCompleteOutput struct {
	Task domain.Task // Task after the change
}

// ToggleComplete is the use case for completing or reopening a task.
type ToggleComplete struct {
	tasks  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewToggleComplete creates a new ToggleComplete use case.
func NewToggleComplete(tasks domain.TaskStore, clock domain.Clock, logger domain.Logger) *ToggleComplete {
	return &ToggleComplete{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute flips the completion flag. Completing stamps completedAt with the
// current time; reopening clears it.
func (uc *ToggleComplete) Execute(ctx context.Context, in ToggleCompleteInput) (*ToggleCompleteOutput, error) {
	task, err := shared.ResolveTask(ctx, uc.tasks, in.TaskRef)
	if err != nil {
		return nil, err
	}

	updated, err := uc.tasks.Update(ctx, task.ID, domain.CompletionPatch(!task.Completed, uc.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	uc.logger.Info(updated.ID, "task", fmt.Sprintf("completed: %t", updated.Completed))
	return &ToggleCompleteOutput{Task: updated}, nil
}
