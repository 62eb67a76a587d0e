package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase/shared"
)

// ToggleFavoriteInput contains the parameters for toggling a favorite.
type ToggleFavoriteInput struct {
	TaskRef string // Task id or unique id prefix
}

// ToggleFavoriteOutput contains the result of toggling a favorite.
type ToggleFavoriteOutput struct {
	Task domain.Task // Task after the change
}

// ToggleFavorite is the use case for flipping a task's favorite flag.
type ToggleFavorite struct {
	tasks  domain.TaskStore
	logger domain.Logger
}

// NewToggleFavorite creates a new ToggleFavorite use case.
func NewToggleFavorite(tasks domain.TaskStore, logger domain.Logger) *ToggleFavorite {
	return &ToggleFavorite{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute flips the favorite flag.
func (uc *ToggleFavorite) Execute(ctx context.Context, in ToggleFavoriteInput) (*ToggleFavoriteOutput, error) {
	task, err := shared.ResolveTask(ctx, uc.tasks, in.TaskRef)
	if err != nil {
		return nil, err
	}

	updated, err := uc.tasks.Update(ctx, task.ID, domain.FavoritePatch(!task.IsFavorite))
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	uc.logger.Info(updated.ID, "task", fmt.Sprintf("favorite: %t", updated.IsFavorite))
	return &ToggleFavoriteOutput{Task: updated}, nil
}
