package taskstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/testutil"
)

func TestStore_Validate(t *testing.T) {
	tests := []struct {
		name      string
		blob      string
		wantPaths []string
	}{
		{
			name: "valid",
			blob: `[{"id":"a","title":"t","isFavorite":false,"completed":true,"createdAt":"2024-01-01T10:00:00.000Z","completedAt":"2024-01-02T10:00:00.000Z"}]`,
		},
		{
			name: "empty title",
			blob: `[{"id":"a","title":"","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`,
		},
		{
			name:      "empty id",
			blob:      `[{"id":"","title":"t","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`,
			wantPaths: []string{"[0].id"},
		},
		{
			name:      "wrong types",
			blob:      `[{"id":"a","title":"t","isFavorite":"yes","completed":0,"createdAt":"2024-01-01T10:00:00.000Z"}]`,
			wantPaths: []string{"[0].isFavorite", "[0].completed"},
		},
		{
			name:      "bad date",
			blob:      `[{"id":"a","title":"t","isFavorite":false,"completed":false,"createdAt":"soon"}]`,
			wantPaths: []string{"[0].createdAt"},
		},
		{
			name:      "missing fields",
			blob:      `[{"id":"a"}]`,
			wantPaths: []string{"[0]"},
		},
		{
			name: "duplicate id",
			blob: `[{"id":"a","title":"t","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"},` +
				`{"id":"a","title":"u","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`,
			wantPaths: []string{"[1].id"},
		},
		{
			name:      "invalid json",
			blob:      `[`,
			wantPaths: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.kv.Data[domain.DefaultStorageKey] = tt.blob

			problems, err := f.store.Validate(context.Background())
			require.NoError(t, err)

			var paths []string
			for _, p := range problems {
				paths = append(paths, p.Path)
				assert.NotEmpty(t, p.Message)
			}
			assert.ElementsMatch(t, tt.wantPaths, paths)
		})
	}
}

func TestStore_Validate_AbsentKey(t *testing.T) {
	f := newFixture(t)
	problems, err := f.store.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestStore_Validate_ReadError(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.GetErr = errors.New("boom")
	store := New(kv, &testutil.MockClock{}, &testutil.SequenceIDs{})

	_, err := store.Validate(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageRead)
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"/0", "[0]"},
		{"/0/title", "[0].title"},
		{"#/12/createdAt", "[12].createdAt"},
		{"/0/a~1b", "[0].a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, jsonPointerToPath(tt.ptr), tt.ptr)
	}
}

func TestEncodeTasks(t *testing.T) {
	got, err := encodeTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	got, err = encodeTasks([]domain.Task{{ID: "a", Title: "<b>&", CreatedAt: domain.NewTimestamp(baseTime)}})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a","title":"<b>&","isFavorite":false,"completed":false,"createdAt":"2024-01-01T10:00:00.000Z"}]`, got)
}
