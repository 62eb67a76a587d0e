// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/infra/config"
	"github.com/runoshun/todo/internal/infra/crypto"
	"github.com/runoshun/todo/internal/infra/filekv"
	"github.com/runoshun/todo/internal/infra/gitkv"
	"github.com/runoshun/todo/internal/infra/ids"
	"github.com/runoshun/todo/internal/infra/logging"
	"github.com/runoshun/todo/internal/infra/memkv"
	"github.com/runoshun/todo/internal/infra/sqlkv"
	"github.com/runoshun/todo/internal/taskstore"
	"github.com/runoshun/todo/internal/usecase"
)

// Options selects where the container looks for configuration and data.
type Options struct {
	ProjectDir string         // Directory searched for .todo.toml
	DataDir    string         // Overrides the XDG data directory
	Backend    domain.Backend // Overrides [storage] backend when non-empty
	LogOutput  io.Writer      // Destination of process warnings (default: stderr)
}

// Paths holds the resolved application paths.
type Paths struct {
	ProjectDir string // Directory searched for .todo.toml
	DataDir    string // Data directory for logs and default stores
	StorePath  string // Location of the selected backend ("" for memory/postgres)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskStore
	Validator     domain.TaskValidator
	Clock         domain.Clock
	TaskLogger    domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config

	// StorageErr explains why Tasks is nil in a container built by NewConfigOnly.
	StorageErr error

	closers []io.Closer

	// Configuration
	Paths Paths
}

// New loads configuration and builds the configured storage backend.
func New(ctx context.Context, opts Options) (*Container, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		projectDir = wd
	}
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	configLoader := config.NewLoader(projectDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		appConfig.Storage.Backend = opts.Backend
	}

	logger := newProcessLogger(opts.LogOutput)
	taskLogger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))

	paths := Paths{
		ProjectDir: projectDir,
		DataDir:    dataDir,
		StorePath:  resolveStorePath(appConfig.Storage, projectDir, dataDir),
	}

	kv, closer, err := openKV(ctx, appConfig.Storage, paths.StorePath)
	if err != nil {
		_ = taskLogger.Close()
		return nil, err
	}

	closers := []io.Closer{taskLogger}
	if closer != nil {
		closers = append(closers, closer)
	}

	store := taskstore.New(kv, domain.RealClock{}, ids.Generator{},
		taskstore.WithKey(appConfig.Storage.Key),
		taskstore.WithCorruptPolicy(appConfig.Storage.OnCorrupt),
		taskstore.WithLogger(taskLogger),
	)

	if appConfig.Storage.OnCorrupt == domain.CorruptEmpty && appConfig.Storage.Backend != domain.BackendMemory {
		logger.Warn("unreadable task data will be treated as empty",
			"backend", appConfig.Storage.Backend,
			"path", paths.StorePath)
	}

	return &Container{
		Tasks:         store,
		Validator:     store,
		Clock:         domain.RealClock{},
		TaskLogger:    taskLogger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(projectDir),
		Logger:        logger,
		AppConfig:     appConfig,
		closers:       closers,
		Paths:         paths,
	}, nil
}

// NewConfigOnly creates a Container with configuration ports but no storage.
// It lets config commands run when the configured backend cannot be opened.
func NewConfigOnly(opts Options) (*Container, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		projectDir = wd
	}
	loader := config.NewLoader(projectDir)
	appConfig, err := loader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Clock:         domain.RealClock{},
		TaskLogger:    domain.NopLogger{},
		ConfigLoader:  loader,
		ConfigManager: config.NewManager(projectDir),
		Logger:        newProcessLogger(opts.LogOutput),
		AppConfig:     appConfig,
		Paths:         Paths{ProjectDir: projectDir, DataDir: opts.DataDir},
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// If store also implements domain.TaskValidator it is used as the validator.
func NewWithDeps(appConfig *domain.Config, store domain.TaskStore, clock domain.Clock, logger *slog.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	if logger == nil {
		logger = newProcessLogger(io.Discard)
	}
	validator, _ := store.(domain.TaskValidator)
	return &Container{
		Tasks:      store,
		Validator:  validator,
		Clock:      clock,
		TaskLogger: domain.NopLogger{},
		Logger:     logger,
		AppConfig:  appConfig,
	}
}

// RequireStorage returns an error if the task store is unavailable.
func (c *Container) RequireStorage() error {
	if c.Tasks != nil {
		return nil
	}
	if c.StorageErr != nil {
		return fmt.Errorf("storage unavailable: %w", c.StorageErr)
	}
	return errors.New("storage unavailable")
}

// Close releases the storage backend and the log file.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// newProcessLogger returns the warn-level logger for process diagnostics.
func newProcessLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// resolveStorePath returns the configured backend location.
// Relative paths are resolved against projectDir.
func resolveStorePath(cfg domain.StorageConfig, projectDir, dataDir string) string {
	if cfg.Backend == domain.BackendMemory || cfg.Backend == domain.BackendPostgres {
		return ""
	}
	if cfg.Path == "" {
		return domain.DefaultStorePath(dataDir, cfg.Backend)
	}
	if filepath.IsAbs(cfg.Path) {
		return cfg.Path
	}
	return filepath.Join(projectDir, cfg.Path)
}

// openKV builds the substrate for cfg. The returned closer may be nil.
func openKV(ctx context.Context, cfg domain.StorageConfig, path string) (domain.KVStore, io.Closer, error) {
	var kv domain.KVStore
	var closer io.Closer

	switch cfg.Backend {
	case domain.BackendMemory:
		kv = memkv.New()
	case domain.BackendFile:
		kv = filekv.New(path)
	case domain.BackendGit:
		store, err := gitkv.Open(path, cfg.Namespace)
		if err != nil {
			return nil, nil, err
		}
		kv = store
	case domain.BackendSQLite:
		store, err := sqlkv.OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		kv, closer = store, store
	case domain.BackendPostgres:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("%w: postgres requires [storage] dsn", domain.ErrUnknownBackend)
		}
		store, err := sqlkv.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		kv, closer = store, store
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Backend)
	}

	if cfg.EncryptionKey == "" {
		return kv, closer, nil
	}
	enc, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, nil, err
	}
	return crypto.NewKV(kv, enc), closer, nil
}

// UseCase factory methods

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Tasks, c.TaskLogger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ToggleFavoriteUseCase returns a new ToggleFavorite use case.
func (c *Container) ToggleFavoriteUseCase() *usecase.ToggleFavorite {
	return usecase.NewToggleFavorite(c.Tasks, c.TaskLogger)
}

// ToggleCompleteUseCase returns a new ToggleComplete use case.
func (c *Container) ToggleCompleteUseCase() *usecase.ToggleComplete {
	return usecase.NewToggleComplete(c.Tasks, c.Clock, c.TaskLogger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.TaskLogger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.TaskLogger)
}

// ClearTasksUseCase returns a new ClearTasks use case.
func (c *Container) ClearTasksUseCase() *usecase.ClearTasks {
	return usecase.NewClearTasks(c.Tasks, c.TaskLogger)
}

// ExportTasksUseCase returns a new ExportTasks use case.
func (c *Container) ExportTasksUseCase() *usecase.ExportTasks {
	return usecase.NewExportTasks(c.Tasks)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.Clock, c.TaskLogger)
}

// CheckStoreUseCase returns a new CheckStore use case.
func (c *Container) CheckStoreUseCase() *usecase.CheckStore {
	return usecase.NewCheckStore(c.Validator)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
