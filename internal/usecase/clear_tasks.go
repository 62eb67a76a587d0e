package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// ClearTasksInput contains the parameters for clearing tasks.
type ClearTasksInput struct{}

// ClearTasksOutput contains the result of clearing tasks.
type ClearTasksOutput struct {
	Removed int // Number of tasks that were stored before clearing
}

// ClearTasks is the use case for deleting every task.
type ClearTasks struct {
	tasks  domain.TaskStore
	logger domain.Logger
}

// NewClearTasks creates a new ClearTasks use case.
func NewClearTasks(tasks domain.TaskStore, logger domain.Logger) *ClearTasks {
	return &ClearTasks{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute removes the stored collection. The count is best effort: an
// unreadable collection is still cleared and reports zero.
func (uc *ClearTasks) Execute(ctx context.Context, _ ClearTasksInput) (*ClearTasksOutput, error) {
	count := 0
	if tasks, err := uc.tasks.LoadAll(ctx); err == nil {
		count = len(tasks)
	}

	if err := uc.tasks.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear tasks: %w", err)
	}

	uc.logger.Info("", "task", fmt.Sprintf("cleared %d tasks", count))
	return &ClearTasksOutput{Removed: count}, nil
}
