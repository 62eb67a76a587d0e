package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// errNoGlobalDir is returned when no home or XDG config directory is known.
var errNoGlobalDir = errors.New("global config directory not available")

// scope identifies one of the two config files todo reads.
type scope int

const (
	scopeGlobal  scope = iota // $XDG_CONFIG_HOME/todo/config.toml, private to the user
	scopeProject              // .todo.toml next to the project, may be shared
)

// Manager reads and creates the global and project config files.
type Manager struct {
	projectDir    string // Directory holding .todo.toml
	globalConfDir string // e.g. ~/.config/todo; "" when unknown
}

// NewManager creates a Manager for projectDir and the default global directory.
func NewManager(projectDir string) *Manager {
	return NewManagerWithGlobalDir(projectDir, defaultGlobalConfigDir())
}

// NewManagerWithGlobalDir creates a Manager with a custom global config directory.
func NewManagerWithGlobalDir(projectDir, globalConfDir string) *Manager {
	return &Manager{
		projectDir:    projectDir,
		globalConfDir: globalConfDir,
	}
}

// GetGlobalConfigInfo describes the global config file. Path is empty when
// no global directory is known.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.info(scopeGlobal)
}

// GetProjectConfigInfo describes the project .todo.toml.
func (m *Manager) GetProjectConfigInfo() domain.ConfigInfo {
	return m.info(scopeProject)
}

// InitGlobalConfig writes the template for cfg to the global config file,
// creating its directory.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	return m.create(scopeGlobal, cfg)
}

// InitProjectConfig writes the template for cfg to .todo.toml.
func (m *Manager) InitProjectConfig(cfg *domain.Config) error {
	return m.create(scopeProject, cfg)
}

func (m *Manager) path(s scope) (string, error) {
	if s == scopeProject {
		return domain.ProjectConfigPath(m.projectDir), nil
	}
	if m.globalConfDir == "" {
		return "", errNoGlobalDir
	}
	return filepath.Join(m.globalConfDir, domain.ConfigFileName), nil
}

func (m *Manager) info(s scope) domain.ConfigInfo {
	path, err := m.path(s)
	if err != nil {
		return domain.ConfigInfo{}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// create renders the template and writes it only if the file does not exist.
func (m *Manager) create(s scope, cfg *domain.Config) error {
	path, err := m.path(s)
	if err != nil {
		return err
	}

	content := domain.RenderConfigTemplate(cfg)
	var check domain.Config
	if err := toml.Unmarshal([]byte(content), &check); err != nil {
		return fmt.Errorf("rendered config is not valid TOML: %w", err)
	}

	perm := os.FileMode(0o644)
	if s == scopeGlobal {
		perm = 0o600
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", domain.ErrConfigExists, path)
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
