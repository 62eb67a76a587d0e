package domain

import (
	"context"
	"time"
)

// KVStore is the durable key-value substrate behind the task store.
type KVStore interface {
	// Get returns the value for key. found is false if the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// KVLocker is implemented by substrates shared between processes.
// Lock blocks until the caller holds an exclusive lock spanning several
// Get/Set calls, and returns the function that releases it.
type KVLocker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// TaskStore manages the persisted task collection.
type TaskStore interface {
	// LoadAll returns every stored task in persisted order.
	LoadAll(ctx context.Context) ([]Task, error)

	// SaveAll replaces the stored collection.
	SaveAll(ctx context.Context, tasks []Task) error

	// Add creates a task from draft, assigning ID and CreatedAt.
	Add(ctx context.Context, draft TaskDraft) (Task, error)

	// Update merges patch into the task with id. Returns ErrTaskNotFound if absent.
	Update(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// Remove deletes the task with id and reports whether it existed.
	Remove(ctx context.Context, id string) (bool, error)

	// Clear deletes the stored collection.
	Clear(ctx context.Context) error
}

// SchemaProblem is a single violation found while validating the stored blob.
type SchemaProblem struct {
	Path    string // JSON path of the offending value ("" for the root)
	Message string
}

// TaskValidator checks the stored blob without decoding it into tasks.
type TaskValidator interface {
	Validate(ctx context.Context) ([]SchemaProblem, error)
}

// IDGenerator produces task ids.
type IDGenerator interface {
	NewID() string
}

// Logger provides logging for operations.
type Logger interface {
	// Info logs an info message. taskID may be empty for global entries.
	Info(taskID, category, msg string)
	// Debug logs a debug message.
	Debug(taskID, category, msg string)
	// Warn logs a warning message.
	Warn(taskID, category, msg string)
	// Error logs an error message.
	Error(taskID, category, msg string)
}

// NopLogger discards every entry.
type NopLogger struct{}

// Info implements Logger.
func (NopLogger) Info(_, _, _ string) {}

// Debug implements Logger.
func (NopLogger) Debug(_, _, _ string) {}

// Warn implements Logger.
func (NopLogger) Warn(_, _, _ string) {}

// Error implements Logger.
func (NopLogger) Error(_, _, _ string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration.
	Load() (*Config, error)
	// LoadWithOptions returns the merged configuration ignoring selected sources.
	LoadWithOptions(opts LoadConfigOptions) (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo
	// GetProjectConfigInfo returns information about the project config file.
	GetProjectConfigInfo() ConfigInfo
	// InitGlobalConfig creates the global config file from cfg.
	InitGlobalConfig(cfg *Config) error
	// InitProjectConfig creates the project config file from cfg.
	InitProjectConfig(cfg *Config) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
