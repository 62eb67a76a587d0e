package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func readLog(t *testing.T, dataDir string) string {
	t.Helper()
	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	return string(content)
}

func TestLogger_Info(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("1f0c2a9e-7a6b-4c1d-9e2f-0123456789ab", "store", "test message")

	content := readLog(t, dataDir)
	assert.Contains(t, content, "[INFO]")
	assert.Contains(t, content, "[task-1f0c2a9e]")
	assert.Contains(t, content, "[store]")
	assert.Contains(t, content, "test message")
}

func TestLogger_GlobalEntry(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("", "system", "global message")

	content := readLog(t, dataDir)
	assert.Contains(t, content, "[global]")
	assert.Contains(t, content, "global message")
}

func TestLogger_LevelFiltering(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelWarn) // Only warn and above
	defer func() { _ = logger.Close() }()

	logger.Debug("a", "store", "debug message")
	logger.Info("a", "store", "info message")
	logger.Warn("a", "store", "warn message")
	logger.Error("a", "store", "error message")

	content := readLog(t, dataDir)
	assert.NotContains(t, content, "debug message")
	assert.NotContains(t, content, "info message")
	assert.Contains(t, content, "warn message")
	assert.Contains(t, content, "error message")
}

func TestLogger_DisabledWhenEmptyDataDir(t *testing.T) {
	logger := New("", slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Should not panic or create anything
	logger.Info("a", "store", "test message")
	logger.Error("a", "store", "error message")
	assert.Empty(t, logger.Path())
}

func TestLogger_LogFormat(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("42", "usecase", `task added: "my task"`)

	lines := strings.Split(strings.TrimSpace(readLog(t, dataDir)), "\n")
	require.Len(t, lines, 1)

	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] \[task-42\] \[usecase\] task added: "my task"$`)
	assert.Regexp(t, pattern, lines[0])
}

func TestFormatLog(t *testing.T) {
	ts := time.Date(2025, 12, 30, 9, 32, 51, 0, time.UTC)
	got := formatLog(ts, slog.LevelError, "", "store", "write failed")
	assert.Equal(t, "[2025-12-30 09:32:51] [ERROR] [global] [store] write failed\n", got)
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("", "test", "line")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(readLog(t, dataDir)), "\n")
	assert.Len(t, lines, 20)
}

func TestLogger_CloseAndReopen(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)

	logger.Info("", "test", "first")
	require.NoError(t, logger.Close())
	assert.FileExists(t, logger.Path())

	// Writing after Close reopens the file
	logger.Info("", "test", "second")
	require.NoError(t, logger.Close())

	content := readLog(t, dataDir)
	assert.Contains(t, content, "first")
	assert.Contains(t, content, "second")
}

func TestLogger_CreateLogsDir(t *testing.T) {
	dataDir := t.TempDir()
	logsDir := filepath.Join(dataDir, domain.LogsDirName)

	_, err := os.Stat(logsDir)
	assert.True(t, os.IsNotExist(err))

	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()
	logger.Info("", "test", "test message")

	stat, err := os.Stat(logsDir)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}
