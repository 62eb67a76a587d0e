// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	projectDir    string // Directory holding .todo.toml (usually the working directory)
	globalConfDir string // Path to global config directory (e.g., ~/.config/todo)
}

// NewLoader creates a new Loader.
func NewLoader(projectDir string) *Loader {
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(projectDir, globalConfDir string) *Loader {
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir returns the default data directory ($XDG_DATA_HOME/todo).
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome)
}

// Load returns the merged configuration (defaults + global + project).
// Project config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	var global, project *layer
	var err error

	// Load global config unless ignored
	if !opts.IgnoreGlobal {
		global, err = l.loadGlobal()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Load project config unless ignored
	if !opts.IgnoreProject {
		project, err = l.loadFile(domain.ProjectConfigPath(l.projectDir))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Merge: default <- global <- project (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if project != nil {
		base = mergeConfigs(base, project)
	}
	return base, nil
}

// LoadGlobal returns the defaults merged with only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{IgnoreProject: true})
}

func (l *Loader) loadGlobal() (*layer, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// layer is one parsed config file. Booleans are pointers so that an
// explicit false can override a default of true.
type layer struct {
	confirmDelete *bool
	cfg           domain.Config
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToLayer(raw), nil
}

// convertRawToLayer converts the raw map to a config layer and collects warnings.
func convertRawToLayer(raw map[string]any) *layer {
	res := &layer{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		switch section {
		case "storage":
			for k, v := range m {
				s, isString := v.(string)
				if !isString {
					warnings = append(warnings, fmt.Sprintf("invalid value in [storage]: %s must be a string", k))
					continue
				}
				switch k {
				case "backend":
					if b := domain.Backend(s); b.IsValid() {
						res.cfg.Storage.Backend = b
					} else {
						warnings = append(warnings, fmt.Sprintf("invalid value in [storage]: backend = %q", s))
					}
				case "path":
					res.cfg.Storage.Path = s
				case "key":
					res.cfg.Storage.Key = s
				case "on_corrupt":
					if p := domain.CorruptPolicy(s); p.IsValid() {
						res.cfg.Storage.OnCorrupt = p
					} else {
						warnings = append(warnings, fmt.Sprintf("invalid value in [storage]: on_corrupt = %q", s))
					}
				case "namespace":
					res.cfg.Storage.Namespace = s
				case "dsn":
					res.cfg.Storage.DSN = s
				case "encryption_key":
					res.cfg.Storage.EncryptionKey = s
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [storage]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.cfg.Log.Level = s
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		case "tui":
			for k, v := range m {
				switch k {
				case "confirm_delete":
					if b, ok := v.(bool); ok {
						res.confirmDelete = &b
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [tui]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.cfg.Warnings = warnings
	return res
}

// mergeConfigs merges a layer into base, with the layer taking precedence.
func mergeConfigs(base *domain.Config, override *layer) *domain.Config {
	result := *base
	if len(override.cfg.Warnings) > 0 {
		result.Warnings = append(slices.Clone(base.Warnings), override.cfg.Warnings...)
	}

	o := override.cfg
	if o.Storage.Backend != "" {
		result.Storage.Backend = o.Storage.Backend
	}
	if o.Storage.Path != "" {
		result.Storage.Path = o.Storage.Path
	}
	if o.Storage.Key != "" {
		result.Storage.Key = o.Storage.Key
	}
	if o.Storage.OnCorrupt != "" {
		result.Storage.OnCorrupt = o.Storage.OnCorrupt
	}
	if o.Storage.Namespace != "" {
		result.Storage.Namespace = o.Storage.Namespace
	}
	if o.Storage.DSN != "" {
		result.Storage.DSN = o.Storage.DSN
	}
	if o.Storage.EncryptionKey != "" {
		result.Storage.EncryptionKey = o.Storage.EncryptionKey
	}
	if o.Log.Level != "" {
		result.Log.Level = o.Log.Level
	}
	if override.confirmDelete != nil {
		result.TUI.ConfirmDelete = *override.confirmDelete
	}

	return &result
}
