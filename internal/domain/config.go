package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config holds the application configuration.
type Config struct {
	Warnings []string      `toml:"-"`
	Storage  StorageConfig `toml:"storage"`
	Log      LogConfig     `toml:"log"`
	TUI      TUIConfig     `toml:"tui"`
}

// Backend names a key-value substrate for the task blob.
type Backend string

// Supported storage backends.
const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendGit      Backend = "git"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// IsValid reports whether b is a supported backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendMemory, BackendFile, BackendGit, BackendSQLite, BackendPostgres:
		return true
	}
	return false
}

// CorruptPolicy decides what loading does with an unreadable blob.
type CorruptPolicy string

// Corrupt policies.
const (
	// CorruptStrict fails the load with ErrStorageCorrupt.
	CorruptStrict CorruptPolicy = "strict"
	// CorruptEmpty logs a warning and treats the collection as empty.
	CorruptEmpty CorruptPolicy = "empty"
)

// IsValid reports whether p is a known policy.
func (p CorruptPolicy) IsValid() bool {
	return p == CorruptStrict || p == CorruptEmpty
}

// StorageConfig holds settings from the [storage] section.
type StorageConfig struct {
	Backend       Backend       `toml:"backend,omitempty"`        // memory, file, git, sqlite, postgres
	Path          string        `toml:"path,omitempty"`           // Directory, repository or database file
	Key           string        `toml:"key,omitempty"`            // Key holding the task blob
	OnCorrupt     CorruptPolicy `toml:"on_corrupt,omitempty"`     // strict or empty
	Namespace     string        `toml:"namespace,omitempty"`      // Ref namespace for the git backend
	DSN           string        `toml:"dsn,omitempty"`            // Connection string for postgres
	EncryptionKey string        `toml:"encryption_key,omitempty"` // 64 hex chars enables AES-256-GCM
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// TUIConfig holds settings from the [tui] section.
type TUIConfig struct {
	ConfirmDelete bool `toml:"confirm_delete"` // Ask before deleting a task
}

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultNamespace = "todo"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   BackendFile,
			Key:       DefaultStorageKey,
			OnCorrupt: CorruptStrict,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		TUI: TUIConfig{
			ConfirmDelete: true,
		},
	}
}

// ConfigInfo contains information about a config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// LoadConfigOptions selects which config sources are merged.
type LoadConfigOptions struct {
	IgnoreGlobal  bool
	IgnoreProject bool
}

// RenderConfigTemplate renders a commented config file from cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
