package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/taskstore"
	"github.com/runoshun/todo/internal/testutil"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// env bundles a real task store over a mock substrate.
type env struct {
	store  *taskstore.Store
	kv     *testutil.MockKV
	clock  *testutil.MockClock
	logger *testutil.MockLogger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		kv:     testutil.NewMockKV(),
		clock:  &testutil.MockClock{NowTime: testNow, Step: time.Second},
		logger: &testutil.MockLogger{},
	}
	e.store = taskstore.New(e.kv, e.clock, &testutil.SequenceIDs{}, taskstore.WithLogger(e.logger))
	return e
}

func (e *env) add(t *testing.T, title string, favorite bool) domain.Task {
	t.Helper()
	task, err := e.store.Add(context.Background(), domain.TaskDraft{Title: title, IsFavorite: favorite})
	require.NoError(t, err)
	return task
}

func (e *env) load(t *testing.T) []domain.Task {
	t.Helper()
	tasks, err := e.store.LoadAll(context.Background())
	require.NoError(t, err)
	return tasks
}

func ptr[T any](v T) *T { return &v }
