package domain

import (
	"fmt"
	"math"
	"strings"
)

// TaskSummary holds task counts for the list header.
type TaskSummary struct {
	Total     int
	Active    int
	Completed int
	Favorites int
}

// NewTaskSummary counts the given tasks.
func NewTaskSummary(tasks []Task) TaskSummary {
	s := TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		if t.IsFavorite {
			s.Favorites++
		}
	}
	return s
}

// Progress returns the completed share as a rounded percentage (0 when empty).
func (s TaskSummary) Progress() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

// Headline renders the summary, e.g. "2 active, 1 completed • 3 favorites".
func (s TaskSummary) Headline() string {
	if s.Total == 0 {
		return "No tasks yet"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d active", s.Active)
	if s.Completed > 0 {
		fmt.Fprintf(&b, ", %d completed", s.Completed)
	}
	if s.Favorites > 0 {
		suffix := "s"
		if s.Favorites == 1 {
			suffix = ""
		}
		fmt.Fprintf(&b, " • %d favorite%s", s.Favorites, suffix)
	}
	return b.String()
}
