package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAmbiguousID      = errors.New("task id prefix is ambiguous")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title must be at most 100 characters")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrStorageRead      = errors.New("storage read failed")
	ErrStorageWrite     = errors.New("storage write failed")
	ErrStorageCorrupt   = errors.New("stored tasks are corrupt")
	ErrConfigExists     = errors.New("config file already exists")
	ErrUnknownBackend   = errors.New("unknown storage backend")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrInvalidFormat    = errors.New("invalid format")
)
