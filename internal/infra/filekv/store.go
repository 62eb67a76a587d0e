// Package filekv provides a file-based key-value substrate.
// Each key is stored in its own file, named by the hex encoding of the key.
package filekv

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Store implements domain.KVStore and domain.KVLocker.
var (
	_ domain.KVStore  = (*Store)(nil)
	_ domain.KVLocker = (*Store)(nil)
)

const (
	lockFileName = ".lock"     // Guards individual reads and writes
	txnFileName  = ".txn.lock" // Guards read-modify-write sequences
	valueExt     = ".json"
)

// Store implements domain.KVStore on a directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir.
// The directory does not need to exist; it will be created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file holding key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+valueExt)
}

// Get reads the file for key under a shared lock.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	lock, err := s.acquireLock(lockFileName, syscall.LOCK_SH)
	if err != nil {
		return "", false, err
	}
	defer releaseLock(lock)

	content, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(content), true, nil
}

// Set writes value for key under an exclusive lock.
func (s *Store) Set(_ context.Context, key, value string) error {
	lock, err := s.acquireLock(lockFileName, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	path := s.Path(key)

	// Write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Remove deletes the file for key.
func (s *Store) Remove(_ context.Context, key string) error {
	lock, err := s.acquireLock(lockFileName, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Lock takes the exclusive transaction lock shared by every process using dir.
func (s *Store) Lock(_ context.Context) (func(), error) {
	lock, err := s.acquireLock(txnFileName, syscall.LOCK_EX)
	if err != nil {
		return nil, err
	}
	return func() { releaseLock(lock) }, nil
}

func (s *Store) acquireLock(name string, lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	lock, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}
