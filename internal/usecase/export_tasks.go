package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// ExportTasksInput contains the parameters for exporting tasks.
type ExportTasksInput struct {
	Format Format // Empty means YAML
}

// ExportTasksOutput contains the exported document.
type ExportTasksOutput struct {
	Data  []byte
	Count int
}

// ExportTasks is the use case for writing every task to a portable document.
type ExportTasks struct {
	tasks domain.TaskStore
}

// NewExportTasks creates a new ExportTasks use case.
func NewExportTasks(tasks domain.TaskStore) *ExportTasks {
	return &ExportTasks{
		tasks: tasks,
	}
}

// Execute exports the tasks in display order.
func (uc *ExportTasks) Execute(ctx context.Context, in ExportTasksInput) (*ExportTasksOutput, error) {
	format := in.Format
	if format == "" {
		format = FormatYAML
	}

	tasks, err := uc.tasks.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	domain.SortTasks(tasks)

	data, err := encodeTransfer(format, tasks)
	if err != nil {
		return nil, err
	}
	return &ExportTasksOutput{Data: data, Count: len(tasks)}, nil
}
