package domain

import "path/filepath"

// Directory, file and key names.
const (
	AppDirName            = "todo"           // Directory name under XDG config/data homes
	ConfigFileName        = "config.toml"    // Global config file name
	ProjectConfigFileName = ".todo.toml"     // Project config file in the working directory
	LogsDirName           = "logs"           // Log directory under the data dir
	LogFileName           = "todo.log"       // Log file name
	DefaultStorageKey     = "@TodoApp:tasks" // Key holding the task blob
	SQLiteFileName        = "todo.db"        // Database file for the sqlite backend
	FileStoreDirName      = "kv"             // Directory for the file backend
	GitStoreDirName       = "tasks.git"      // Bare repository for the git backend
)

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// ProjectConfigPath returns the project config path in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName)
}

// DataDir returns the data directory.
// dataHome is typically XDG_DATA_HOME or ~/.local/share (resolved by caller).
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// LogPath returns the path to the log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDirName, LogFileName)
}

// DefaultStorePath returns the default location for a backend under dataDir.
// Backends without a filesystem location return "".
func DefaultStorePath(dataDir string, backend Backend) string {
	switch backend {
	case BackendFile:
		return filepath.Join(dataDir, FileStoreDirName)
	case BackendSQLite:
		return filepath.Join(dataDir, SQLiteFileName)
	case BackendGit:
		return filepath.Join(dataDir, GitStoreDirName)
	default:
		return ""
	}
}
