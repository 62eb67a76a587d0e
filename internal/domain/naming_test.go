package domain

import "testing"

func TestPaths(t *testing.T) {
	t.Run("GlobalConfigPath", func(t *testing.T) {
		got := GlobalConfigPath("/home/user/.config")
		want := "/home/user/.config/todo/config.toml"
		if got != want {
			t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
		}
	})

	t.Run("ProjectConfigPath", func(t *testing.T) {
		got := ProjectConfigPath("/work")
		want := "/work/.todo.toml"
		if got != want {
			t.Errorf("ProjectConfigPath() = %q, want %q", got, want)
		}
	})

	t.Run("LogPath", func(t *testing.T) {
		got := LogPath(DataDir("/home/user/.local/share"))
		want := "/home/user/.local/share/todo/logs/todo.log"
		if got != want {
			t.Errorf("LogPath() = %q, want %q", got, want)
		}
	})
}

func TestDefaultStorePath(t *testing.T) {
	tests := []struct {
		backend Backend
		want    string
	}{
		{BackendFile, "/data/kv"},
		{BackendSQLite, "/data/todo.db"},
		{BackendGit, "/data/tasks.git"},
		{BackendMemory, ""},
		{BackendPostgres, ""},
	}
	for _, tt := range tests {
		if got := DefaultStorePath("/data", tt.backend); got != tt.want {
			t.Errorf("DefaultStorePath(%q) = %q, want %q", tt.backend, got, tt.want)
		}
	}
}
