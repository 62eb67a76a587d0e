package taskstore

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/testutil"
)

var baseTime = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store  *Store
	kv     *testutil.MockKV
	ids    *testutil.SequenceIDs
	logger *testutil.MockLogger
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		kv:     testutil.NewMockKV(),
		ids:    &testutil.SequenceIDs{},
		logger: &testutil.MockLogger{},
	}
	clock := &testutil.MockClock{NowTime: baseTime, Step: time.Minute}
	opts = append([]Option{WithLogger(f.logger)}, opts...)
	f.store = New(f.kv, clock, f.ids, opts...)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestStore_LoadAll_AbsentKey(t *testing.T) {
	f := newFixture(t)

	tasks, err := f.store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, err := f.store.Add(ctx, domain.TaskDraft{Title: "Buy milk", IsFavorite: true})
	require.NoError(t, err)

	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.True(t, task.IsFavorite)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, domain.NewTimestamp(baseTime), task.CreatedAt)

	assert.Equal(t,
		`[{"id":"id-1","title":"Buy milk","isFavorite":true,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`,
		f.kv.Data[domain.DefaultStorageKey])
}

func TestStore_Add_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		task, err := f.store.Add(ctx, domain.TaskDraft{Title: "task"})
		require.NoError(t, err)
		assert.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 20)
}

func TestStore_Add_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ids.Next = []string{"dup", "dup", "", "fresh"}

	first, err := f.store.Add(ctx, domain.TaskDraft{Title: "first"})
	require.NoError(t, err)
	second, err := f.store.Add(ctx, domain.TaskDraft{Title: "second"})
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestStore_Add_WriteFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.Add(ctx, domain.TaskDraft{Title: "kept"})
	require.NoError(t, err)

	f.kv.SetErr = errors.New("disk full")
	task, err := f.store.Add(ctx, domain.TaskDraft{Title: "lost"})

	assert.ErrorIs(t, err, domain.ErrStorageWrite)
	assert.Equal(t, domain.Task{}, task)
	assert.Equal(t, 1, f.logger.Count("ERROR"))

	f.kv.SetErr = nil
	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "kept", tasks[0].Title)
}

func TestStore_Update_PartialPreservesFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.store.Add(ctx, domain.TaskDraft{Title: "Buy milk", IsFavorite: true})
	require.NoError(t, err)

	updated, err := f.store.Update(ctx, created.ID, domain.TaskPatch{Title: ptr("Buy oat milk")})
	require.NoError(t, err)

	want := created
	want.Title = "Buy oat milk"
	assert.Equal(t, want, updated)

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{want}, tasks)
}

func TestStore_Update_Completion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.store.Add(ctx, domain.TaskDraft{Title: "Call Mom"})
	require.NoError(t, err)

	doneAt := baseTime.Add(time.Hour)
	done, err := f.store.Update(ctx, created.ID, domain.CompletionPatch(true, doneAt))
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, domain.NewTimestamp(doneAt), *done.CompletedAt)

	undone, err := f.store.Update(ctx, created.ID, domain.CompletionPatch(false, doneAt))
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.CompletedAt)
	assert.Equal(t, created.CreatedAt, undone.CreatedAt)
}

func TestStore_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.Add(ctx, domain.TaskDraft{Title: "only"})
	require.NoError(t, err)

	before := f.kv.Data[domain.DefaultStorageKey]
	setCalls := f.kv.SetCalls

	_, err = f.store.Update(ctx, "missing", domain.FavoritePatch(true))
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, setCalls, f.kv.SetCalls, "no write on not found")
	assert.Equal(t, before, f.kv.Data[domain.DefaultStorageKey])
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, err := f.store.Add(ctx, domain.TaskDraft{Title: "A"})
	require.NoError(t, err)
	b, err := f.store.Add(ctx, domain.TaskDraft{Title: "B"})
	require.NoError(t, err)

	setCalls := f.kv.SetCalls
	removed, err := f.store.Remove(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, setCalls, f.kv.SetCalls, "no write when nothing matched")

	removed, err = f.store.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{b}, tasks)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.Add(ctx, domain.TaskDraft{Title: "A"})
	require.NoError(t, err)

	require.NoError(t, f.store.Clear(ctx))
	_, found := f.kv.Data[domain.DefaultStorageKey]
	assert.False(t, found)

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	f.kv.RemoveErr = errors.New("read-only")
	assert.ErrorIs(t, f.store.Clear(ctx), domain.ErrStorageWrite)
}

func TestStore_SaveAll_ReplacesContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.Add(ctx, domain.TaskDraft{Title: "old"})
	require.NoError(t, err)

	replacement := []domain.Task{{ID: "x", Title: "new", CreatedAt: domain.NewTimestamp(baseTime)}}
	require.NoError(t, f.store.SaveAll(ctx, replacement))

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, replacement, tasks)

	require.NoError(t, f.store.SaveAll(ctx, nil))
	assert.Equal(t, "[]", f.kv.Data[domain.DefaultStorageKey])
}

func TestStore_RoundTripIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	blob := `[{"id":"b","title":"Call Mom & Dad <3","isFavorite":false,"completed":true,"createdAt":"2024-01-02T08:30:00.123Z","completedAt":"2024-01-03T09:00:00.000Z"},` +
		`{"id":"a","title":"Buy milk","isFavorite":true,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`

	f := newFixture(t)
	f.kv.Data[domain.DefaultStorageKey] = blob

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, f.store.SaveAll(ctx, tasks))

	assert.Equal(t, blob, f.kv.Data[domain.DefaultStorageKey])
}

func TestStore_CorruptStrict(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"invalid json", `[{"id":`},
		{"not an array", `{"id":"a"}`},
		{"null", `null`},
		{"empty value", ``},
		{"missing title", `[{"id":"a","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`},
		{"bad timestamp", `[{"id":"a","title":"t","isFavorite":false,"completed":false,"createdAt":"yesterday"}]`},
		{"duplicate ids", `[{"id":"a","title":"t","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"},` +
			`{"id":"a","title":"u","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.kv.Data[domain.DefaultStorageKey] = tt.blob

			_, err := f.store.LoadAll(ctx)
			assert.ErrorIs(t, err, domain.ErrStorageCorrupt)

			// Mutations must not overwrite the corrupt blob
			_, err = f.store.Add(ctx, domain.TaskDraft{Title: "new"})
			assert.ErrorIs(t, err, domain.ErrStorageCorrupt)
			assert.Equal(t, tt.blob, f.kv.Data[domain.DefaultStorageKey])
			assert.Zero(t, f.kv.SetCalls)
		})
	}
}

func TestStore_CorruptEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithCorruptPolicy(domain.CorruptEmpty))
	f.kv.Data[domain.DefaultStorageKey] = `not json`

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 1, f.logger.Count("WARN"))

	// The next write replaces the unreadable blob
	task, err := f.store.Add(ctx, domain.TaskDraft{Title: "fresh start"})
	require.NoError(t, err)

	tasks, err = f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{task}, tasks)
}

func TestStore_ReadFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("strict", func(t *testing.T) {
		f := newFixture(t)
		f.kv.GetErr = errors.New("io error")

		_, err := f.store.LoadAll(ctx)
		assert.ErrorIs(t, err, domain.ErrStorageRead)

		_, err = f.store.Remove(ctx, "a")
		assert.ErrorIs(t, err, domain.ErrStorageRead)
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t, WithCorruptPolicy(domain.CorruptEmpty))
		f.kv.GetErr = errors.New("io error")

		tasks, err := f.store.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Equal(t, 1, f.logger.Count("WARN"))
	})
}

func TestStore_WithKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithKey("custom"))

	_, err := f.store.Add(ctx, domain.TaskDraft{Title: "A"})
	require.NoError(t, err)

	assert.Equal(t, "custom", f.store.Key())
	assert.Contains(t, f.kv.Data, "custom")
	assert.NotContains(t, f.kv.Data, domain.DefaultStorageKey)
}

// Scenario from the product walkthrough: two tasks reordered by favorite and completion.
func TestStore_OrderingScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view := func() []string {
		tasks, err := f.store.LoadAll(ctx)
		require.NoError(t, err)
		var titles []string
		for _, task := range domain.SortedTasks(tasks) {
			titles = append(titles, task.Title)
		}
		return titles
	}

	a, err := f.store.Add(ctx, domain.TaskDraft{Title: "Buy milk"})
	require.NoError(t, err)
	b, err := f.store.Add(ctx, domain.TaskDraft{Title: "Call Mom"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Call Mom", "Buy milk"}, view())

	_, err = f.store.Update(ctx, a.ID, domain.FavoritePatch(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "Call Mom"}, view())

	_, err = f.store.Update(ctx, b.ID, domain.FavoritePatch(true))
	require.NoError(t, err)
	_, err = f.store.Update(ctx, b.ID, domain.CompletionPatch(true, baseTime.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "Call Mom"}, view())

	removed, err := f.store.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"Call Mom"}, view())

	removed, err = f.store.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

// Random operation sequences against a simple model of the collection.
func TestStore_NetEffectMatchesModel(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		f := newFixture(t)
		var model []domain.Task

		for step := 0; step < 40; step++ {
			switch op := rng.Intn(4); {
			case op == 0 || len(model) == 0:
				task, err := f.store.Add(ctx, domain.TaskDraft{Title: "t", IsFavorite: rng.Intn(2) == 0})
				require.NoError(t, err)
				model = append(model, task)
			case op == 1:
				i := rng.Intn(len(model))
				task, err := f.store.Update(ctx, model[i].ID, domain.FavoritePatch(!model[i].IsFavorite))
				require.NoError(t, err)
				model[i] = task
			case op == 2:
				i := rng.Intn(len(model))
				removed, err := f.store.Remove(ctx, model[i].ID)
				require.NoError(t, err)
				require.True(t, removed)
				model = append(model[:i], model[i+1:]...)
			default:
				removed, err := f.store.Remove(ctx, "never-issued")
				require.NoError(t, err)
				require.False(t, removed)
			}
		}

		tasks, err := f.store.LoadAll(ctx)
		require.NoError(t, err)
		if len(model) == 0 {
			assert.Empty(t, tasks)
			continue
		}
		assert.Equal(t, model, tasks)
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.store.Add(ctx, domain.TaskDraft{Title: "parallel"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)
}

type lockingKV struct {
	*testutil.MockKV
	locks   int
	unlocks int
	lockErr error
}

func (l *lockingKV) Lock(context.Context) (func(), error) {
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	l.locks++
	return func() { l.unlocks++ }, nil
}

func TestStore_UsesSubstrateLock(t *testing.T) {
	ctx := context.Background()
	kv := &lockingKV{MockKV: testutil.NewMockKV()}
	store := New(kv, &testutil.MockClock{NowTime: baseTime}, &testutil.SequenceIDs{})

	_, err := store.Add(ctx, domain.TaskDraft{Title: "A"})
	require.NoError(t, err)
	_, err = store.LoadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, kv.locks, "only mutations lock")
	assert.Equal(t, 1, kv.unlocks)

	kv.lockErr = errors.New("lock timeout")
	_, err = store.Add(ctx, domain.TaskDraft{Title: "B"})
	assert.ErrorIs(t, err, domain.ErrStorageWrite)
}

func TestStore_EmptyTitleRoundTrips(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.store.Add(ctx, domain.TaskDraft{Title: "Buy milk"})
	require.NoError(t, err)
	b, err := f.store.Add(ctx, domain.TaskDraft{Title: ""})
	require.NoError(t, err)

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{a, b}, tasks)

	_, err = f.store.Update(ctx, a.ID, domain.TitlePatch(""))
	require.NoError(t, err)

	removed, err := f.store.Remove(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	tasks, err = f.store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, a.ID, tasks[0].ID)
	assert.Empty(t, tasks[0].Title)
}

func TestStore_SaveAll_RejectsUnloadableCollections(t *testing.T) {
	ctx := context.Background()
	created := domain.NewTimestamp(baseTime)

	tests := []struct {
		name  string
		tasks []domain.Task
	}{
		{"duplicate ids", []domain.Task{
			{ID: "x", Title: "a", CreatedAt: created},
			{ID: "x", Title: "b", CreatedAt: created},
		}},
		{"empty id", []domain.Task{
			{ID: "", Title: "a", CreatedAt: created},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			existing, err := f.store.Add(ctx, domain.TaskDraft{Title: "keep me"})
			require.NoError(t, err)
			before := f.kv.Data[domain.DefaultStorageKey]
			setCalls := f.kv.SetCalls

			err = f.store.SaveAll(ctx, tt.tasks)
			assert.ErrorIs(t, err, domain.ErrStorageWrite)
			assert.Equal(t, setCalls, f.kv.SetCalls)
			assert.Equal(t, before, f.kv.Data[domain.DefaultStorageKey])

			tasks, err := f.store.LoadAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []domain.Task{existing}, tasks)
		})
	}
}

func TestStore_CorruptEmpty_ReadFailureDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithCorruptPolicy(domain.CorruptEmpty))
	for _, title := range []string{"a", "b", "c"} {
		_, err := f.store.Add(ctx, domain.TaskDraft{Title: title})
		require.NoError(t, err)
	}
	before := f.kv.Data[domain.DefaultStorageKey]

	f.kv.GetErr = errors.New("input/output error")
	_, err := f.store.Add(ctx, domain.TaskDraft{Title: "d"})
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	_, err = f.store.Update(ctx, "id-1", domain.FavoritePatch(true))
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	_, err = f.store.Remove(ctx, "id-1")
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	assert.Equal(t, before, f.kv.Data[domain.DefaultStorageKey])

	f.kv.GetErr = nil
	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestStore_InvalidUTF8TitleMatchesPersisted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	added, err := f.store.Add(ctx, domain.TaskDraft{Title: "Buy\xffmilk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy\uFFFDmilk", added.Title)

	updated, err := f.store.Update(ctx, added.ID, domain.TitlePatch("caf\xc3"))
	require.NoError(t, err)
	assert.Equal(t, "caf\uFFFD", updated.Title)

	tasks, err := f.store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Task{updated}, tasks)
}
