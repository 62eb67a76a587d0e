package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Filter domain.TaskFilter // Empty means all
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks   []domain.Task      // Matching tasks in display order
	Summary domain.TaskSummary // Counts over the whole collection
}

// ListTasks is the use case for listing tasks in display order.
type ListTasks struct {
	tasks domain.TaskStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskStore) *ListTasks {
	return &ListTasks{
		tasks: tasks,
	}
}

// Execute loads, filters and sorts the tasks.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	filter := in.Filter
	if filter == "" {
		filter = domain.FilterAll
	}
	if !filter.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFilter, filter)
	}

	all, err := uc.tasks.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	matched := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if filter.Match(t) {
			matched = append(matched, t)
		}
	}
	domain.SortTasks(matched)

	return &ListTasksOutput{
		Tasks:   matched,
		Summary: domain.NewTaskSummary(all),
	}, nil
}
