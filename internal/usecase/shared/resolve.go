// Package shared contains helpers used by several use cases.
package shared

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/todo/internal/domain"
)

// ResolveTask finds the task referred to by ref, which is either a full id or
// a prefix matching exactly one id.
func ResolveTask(ctx context.Context, store domain.TaskStore, ref string) (domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Task{}, fmt.Errorf("%w: empty id", domain.ErrTaskNotFound)
	}

	tasks, err := store.LoadAll(ctx)
	if err != nil {
		return domain.Task{}, fmt.Errorf("load tasks: %w", err)
	}
	return MatchTask(tasks, ref)
}

// MatchTask applies the ResolveTask rules to an already loaded collection.
func MatchTask(tasks []domain.Task, ref string) (domain.Task, error) {
	var matches []domain.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Task{}, fmt.Errorf("%w: %q matches %d tasks", domain.ErrAmbiguousID, ref, len(matches))
	}
}
