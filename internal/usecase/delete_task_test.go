package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
)

func TestDeleteTask_Execute(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	milk := e.add(t, "Buy milk", false)
	mom := e.add(t, "Call Mom", false)
	uc := NewDeleteTask(e.store, e.logger)

	out, err := uc.Execute(ctx, DeleteTaskInput{TaskRef: milk.ID})
	require.NoError(t, err)
	assert.Equal(t, milk, out.Task)
	assert.Equal(t, []domain.Task{mom}, e.load(t))

	_, err = uc.Execute(ctx, DeleteTaskInput{TaskRef: milk.ID})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask_Execute_WriteError(t *testing.T) {
	e := newEnv(t)
	task := e.add(t, "Buy milk", false)
	e.kv.SetErr = errors.New("read-only")

	_, err := NewDeleteTask(e.store, e.logger).Execute(context.Background(), DeleteTaskInput{TaskRef: task.ID})
	assert.ErrorIs(t, err, domain.ErrStorageWrite)

	e.kv.SetErr = nil
	assert.Len(t, e.load(t), 1)
}

// vanishingStore reports that nothing was removed, as when another process
// deleted the task after it was resolved.
type vanishingStore struct {
	domain.TaskStore
}

func (vanishingStore) Remove(context.Context, string) (bool, error) { return false, nil }

func TestDeleteTask_Execute_RemovedConcurrently(t *testing.T) {
	e := newEnv(t)
	task := e.add(t, "Buy milk", false)

	_, err := NewDeleteTask(vanishingStore{e.store}, e.logger).Execute(context.Background(), DeleteTaskInput{TaskRef: task.ID})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
