// Package domain contains core business entities and interfaces.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the persisted timestamp format: UTC, millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// shortIDLen is the number of id characters shown in listings.
const shortIDLen = 8

// Timestamp is an instant persisted as an ISO-8601 string.
// Values are normalized to UTC and truncated to milliseconds so that a
// decoded blob re-encodes to the same bytes.
type Timestamp struct {
	time.Time
}

// NewTimestamp normalizes t into a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// ParseTimestamp parses any RFC 3339 string into a Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

// String returns the persisted representation.
func (ts Timestamp) String() string {
	return ts.UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler (used by YAML export).
func (ts Timestamp) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ts *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := ParseTimestamp(string(text))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Task represents a single to-do item.
// Field order is the persisted JSON key order.
type Task struct {
	ID          string     `json:"id"`                    // Opaque unique identifier, immutable
	Title       string     `json:"title"`                 // Title (required)
	IsFavorite  bool       `json:"isFavorite"`            // Favorite flag
	Completed   bool       `json:"completed"`             // Completion flag
	CreatedAt   Timestamp  `json:"createdAt"`             // Creation time, immutable
	CompletedAt *Timestamp `json:"completedAt,omitempty"` // Set iff Completed
}

// ShortID returns the abbreviated id used in listings.
func (t Task) ShortID() string {
	if len(t.ID) <= shortIDLen {
		return t.ID
	}
	return t.ID[:shortIDLen]
}

// TaskDraft holds the caller-supplied fields of a task to be created.
// The store assigns ID and CreatedAt.
type TaskDraft struct {
	CompletedAt *Timestamp
	Title       string
	IsFavorite  bool
	Completed   bool
}

// TaskPatch is a partial update. Nil fields are preserved.
// ClearCompletedAt removes CompletedAt and wins over CompletedAt.
type TaskPatch struct {
	Title            *string
	IsFavorite       *bool
	Completed        *bool
	CompletedAt      *Timestamp
	ClearCompletedAt bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.IsFavorite == nil && p.Completed == nil &&
		p.CompletedAt == nil && !p.ClearCompletedAt
}

// Apply returns a copy of t with the patch merged in.
// ID and CreatedAt are never touched.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.IsFavorite != nil {
		t.IsFavorite = *p.IsFavorite
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.CompletedAt != nil {
		ts := *p.CompletedAt
		t.CompletedAt = &ts
	}
	if p.ClearCompletedAt {
		t.CompletedAt = nil
	}
	return t
}

// CompletionPatch builds the patch that moves a task to the given completion
// state, keeping CompletedAt present iff completed.
func CompletionPatch(completed bool, now time.Time) TaskPatch {
	p := TaskPatch{Completed: &completed}
	if completed {
		ts := NewTimestamp(now)
		p.CompletedAt = &ts
	} else {
		p.ClearCompletedAt = true
	}
	return p
}

// FavoritePatch builds the patch that sets the favorite flag.
func FavoritePatch(favorite bool) TaskPatch {
	return TaskPatch{IsFavorite: &favorite}
}

// TitlePatch builds the patch that replaces the title.
func TitlePatch(title string) TaskPatch {
	return TaskPatch{Title: &title}
}
