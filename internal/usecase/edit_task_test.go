package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
)

func TestEditTask_Execute(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	task := e.add(t, "Buy milk", false)
	uc := NewEditTask(e.store, e.logger)

	out, err := uc.Execute(ctx, EditTaskInput{TaskRef: task.ID, Title: ptr("  Buy oat milk ")})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", out.Task.Title)
	assert.False(t, out.Task.IsFavorite)

	out, err = uc.Execute(ctx, EditTaskInput{TaskRef: task.ID, Favorite: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", out.Task.Title)
	assert.True(t, out.Task.IsFavorite)
	assert.Equal(t, task.ID, out.Task.ID)
	assert.Equal(t, task.CreatedAt, out.Task.CreatedAt)
}

func TestEditTask_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   EditTaskInput
		wantErr error
	}{
		{"no fields", EditTaskInput{TaskRef: "id-1"}, domain.ErrNoFieldsToUpdate},
		{"empty title", EditTaskInput{TaskRef: "id-1", Title: ptr(" ")}, domain.ErrEmptyTitle},
		{"long title", EditTaskInput{TaskRef: "id-1", Title: ptr(strings.Repeat("x", 101))}, domain.ErrTitleTooLong},
		{"not found", EditTaskInput{TaskRef: "id-9", Title: ptr("x")}, domain.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			original := e.add(t, "Buy milk", false)

			_, err := NewEditTask(e.store, e.logger).Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []domain.Task{original}, e.load(t))
		})
	}
}
