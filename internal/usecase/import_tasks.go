package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// ImportTasksInput contains the parameters for importing tasks.
type ImportTasksInput struct {
	Format Format // Empty means YAML
	Data   []byte // Document produced by ExportTasks (or written by hand)
	DryRun bool   // If true, validate without storing
}

// ImportTasksOutput contains the result of importing tasks.
type ImportTasksOutput struct {
	Tasks []domain.Task // Stored tasks (or tasks that would be stored in dry-run mode)
}

// ImportTasks is the use case for adding tasks from a document.
// Imported tasks get new ids and creation times; flags are preserved.
type ImportTasks struct {
	tasks  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(tasks domain.TaskStore, clock domain.Clock, logger domain.Logger) *ImportTasks {
	return &ImportTasks{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute validates every entry before storing any of them.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	format := in.Format
	if format == "" {
		format = FormatYAML
	}

	entries, err := decodeTransfer(format, in.Data)
	if err != nil {
		return nil, err
	}

	drafts := make([]domain.TaskDraft, 0, len(entries))
	for i, e := range entries {
		title, err := domain.NormalizeTitle(e.Title)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		drafts = append(drafts, uc.draft(title, e))
	}

	result := &ImportTasksOutput{Tasks: make([]domain.Task, 0, len(drafts))}
	if in.DryRun {
		for _, d := range drafts {
			result.Tasks = append(result.Tasks, domain.Task{
				Title:       d.Title,
				IsFavorite:  d.IsFavorite,
				Completed:   d.Completed,
				CompletedAt: d.CompletedAt,
			})
		}
		return result, nil
	}

	for i, d := range drafts {
		task, err := uc.tasks.Add(ctx, d)
		if err != nil {
			return result, fmt.Errorf("task %d: add task: %w", i+1, err)
		}
		result.Tasks = append(result.Tasks, task)
	}

	uc.logger.Info("", "task", fmt.Sprintf("imported %d tasks", len(result.Tasks)))
	return result, nil
}

// draft keeps completedAt present iff the entry is completed.
func (uc *ImportTasks) draft(title string, e transferTask) domain.TaskDraft {
	d := domain.TaskDraft{
		Title:      title,
		IsFavorite: e.IsFavorite,
		Completed:  e.Completed,
	}
	if e.Completed {
		if e.CompletedAt != nil {
			ts := *e.CompletedAt
			d.CompletedAt = &ts
		} else {
			ts := domain.NewTimestamp(uc.clock.Now())
			d.CompletedAt = &ts
		}
	}
	return d
}
