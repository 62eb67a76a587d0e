package domain

import "slices"

// CompareTasks orders tasks for display:
// incomplete before completed, then favorites first, then newest first.
func CompareTasks(a, b Task) int {
	if a.Completed != b.Completed {
		if !a.Completed {
			return -1
		}
		return 1
	}
	if a.IsFavorite != b.IsFavorite {
		if a.IsFavorite {
			return -1
		}
		return 1
	}
	// createdAt descending
	return b.CreatedAt.Compare(a.CreatedAt.Time)
}

// SortTasks sorts tasks in place by CompareTasks. Equal tasks keep their order.
func SortTasks(tasks []Task) {
	slices.SortStableFunc(tasks, CompareTasks)
}

// SortedTasks returns a sorted copy, leaving the input untouched.
func SortedTasks(tasks []Task) []Task {
	out := slices.Clone(tasks)
	SortTasks(out)
	return out
}

// TaskFilter selects which tasks a listing shows.
type TaskFilter string

// Task filters.
const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
	FilterFavorites TaskFilter = "favorites"
)

// Match reports whether t passes the filter. Unknown filters match everything.
func (f TaskFilter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterFavorites:
		return t.IsFavorite
	default:
		return true
	}
}

// IsValid reports whether f is a known filter.
func (f TaskFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted, FilterFavorites:
		return true
	}
	return false
}
