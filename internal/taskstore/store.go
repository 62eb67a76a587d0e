// Package taskstore persists the task collection as a single JSON blob
// behind a key-value substrate.
package taskstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Store implements domain.TaskStore and domain.TaskValidator.
var (
	_ domain.TaskStore     = (*Store)(nil)
	_ domain.TaskValidator = (*Store)(nil)
)

// loadSchema compiles the blob schema once per process.
var loadSchema = sync.OnceValues(compileSchema)

// Option configures a Store.
type Option func(*Store)

// WithKey sets the key holding the blob.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithCorruptPolicy sets how loading treats an unreadable blob.
func WithCorruptPolicy(p domain.CorruptPolicy) Option {
	return func(s *Store) { s.onCorrupt = p }
}

// WithLogger sets the logger for degraded reads and failed writes.
func WithLogger(l domain.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store implements domain.TaskStore.
// Every mutation loads the whole collection, modifies it in memory and writes
// it back in one Set. Fields are ordered to minimize memory padding.
type Store struct {
	kv        domain.KVStore
	clock     domain.Clock
	ids       domain.IDGenerator
	logger    domain.Logger
	key       string
	onCorrupt domain.CorruptPolicy
	mu        sync.Mutex
}

// New creates a Store over kv.
func New(kv domain.KVStore, clock domain.Clock, ids domain.IDGenerator, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		clock:     clock,
		ids:       ids,
		logger:    domain.NopLogger{},
		key:       domain.DefaultStorageKey,
		onCorrupt: domain.CorruptStrict,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the key holding the blob.
func (s *Store) Key() string {
	return s.key
}

// LoadAll returns every task in persisted order.
// An absent key yields an empty slice.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return s.degrade(err)
	}
	return tasks, nil
}

// SaveAll replaces the stored collection with tasks.
func (s *Store) SaveAll(ctx context.Context, tasks []domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, tasks)
}

// Add creates a task from draft with a fresh id and creation time.
func (s *Store) Add(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	var created domain.Task
	err := s.mutate(ctx, func(tasks []domain.Task) ([]domain.Task, bool, error) {
		created = domain.Task{
			ID:          s.uniqueID(tasks),
			Title:       domain.ValidText(draft.Title),
			IsFavorite:  draft.IsFavorite,
			Completed:   draft.Completed,
			CreatedAt:   domain.NewTimestamp(s.clock.Now()),
			CompletedAt: draft.CompletedAt,
		}
		return append(tasks, created), true, nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.logger.Debug(created.ID, "store", "task added")
	return created, nil
}

// Update merges patch into the task with id.
// Returns domain.ErrTaskNotFound, without writing, if no task has id.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	var updated domain.Task
	err := s.mutate(ctx, func(tasks []domain.Task) ([]domain.Task, bool, error) {
		i := slices.IndexFunc(tasks, func(t domain.Task) bool { return t.ID == id })
		if i < 0 {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		updated = patch.Apply(tasks[i])
		updated.Title = domain.ValidText(updated.Title)
		tasks[i] = updated
		return tasks, true, nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.logger.Debug(id, "store", "task updated")
	return updated, nil
}

// Remove deletes the task with id. It reports false, without writing, if no
// task matched.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.mutate(ctx, func(tasks []domain.Task) ([]domain.Task, bool, error) {
		kept := slices.DeleteFunc(tasks, func(t domain.Task) bool { return t.ID == id })
		removed = len(kept) != len(tasks)
		return kept, removed, nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Debug(id, "store", "task removed")
	}
	return removed, nil
}

// Clear deletes the stored collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.logger.Error("", "store", fmt.Sprintf("clear failed: %v", err))
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	s.logger.Info("", "store", "all tasks cleared")
	return nil
}

// Validate checks the stored blob against the task schema without decoding it.
// An absent key has no problems.
func (s *Store) Validate(ctx context.Context) ([]domain.SchemaProblem, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	raw, found, err := s.kv.Get(ctx, s.key)
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageRead, err)
	}
	if !found {
		return nil, nil
	}
	return checkBlob(schema, raw), nil
}

// mutate runs a load-modify-save cycle. fn returns the new collection and
// whether it must be written.
func (s *Store) mutate(ctx context.Context, fn func([]domain.Task) ([]domain.Task, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if locker, ok := s.kv.(domain.KVLocker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
		}
		defer unlock()
	}

	// Only an unparseable blob is degraded here. Read failures always propagate.
	tasks, err := s.load(ctx)
	if errors.Is(err, domain.ErrStorageCorrupt) {
		tasks, err = s.degrade(err)
	} else if err != nil {
		s.logger.Error("", "store", err.Error())
	}
	if err != nil {
		return err
	}

	next, write, err := fn(tasks)
	if err != nil || !write {
		return err
	}
	return s.save(ctx, next)
}

// load reads and decodes the blob. Callers hold s.mu.
// Failures wrap ErrStorageRead or ErrStorageCorrupt.
func (s *Store) load(ctx context.Context) ([]domain.Task, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageRead, err)
	}
	if !found {
		return []domain.Task{}, nil
	}

	tasks, err := decodeTasks(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageCorrupt, err)
	}
	return tasks, nil
}

// degrade applies the corrupt policy to a failed load.
func (s *Store) degrade(err error) ([]domain.Task, error) {
	if s.onCorrupt == domain.CorruptEmpty {
		s.logger.Warn("", "store", fmt.Sprintf("treating stored tasks as empty: %v", err))
		return []domain.Task{}, nil
	}
	s.logger.Error("", "store", err.Error())
	return nil, err
}

// save encodes and writes tasks. Callers hold s.mu.
func (s *Store) save(ctx context.Context, tasks []domain.Task) error {
	raw, err := encodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	if err := verifyBlob(raw); err != nil {
		s.logger.Error("", "store", fmt.Sprintf("refusing to write: %v", err))
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.Error("", "store", fmt.Sprintf("write failed: %v", err))
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}
	return nil
}

// uniqueID draws ids until one is unused by tasks.
func (s *Store) uniqueID(tasks []domain.Task) string {
	for {
		id := s.ids.NewID()
		if id != "" && !slices.ContainsFunc(tasks, func(t domain.Task) bool { return t.ID == id }) {
			return id
		}
		s.logger.Warn(id, "store", "generated id already in use, regenerating")
	}
}

// decodeTasks parses and validates a stored blob.
func decodeTasks(raw string) ([]domain.Task, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}

	if problems := checkBlob(schema, raw); len(problems) > 0 {
		return nil, problemError(problems[0])
	}

	var tasks []domain.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

// verifyBlob rejects a blob that decodeTasks would refuse to load.
func verifyBlob(raw string) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	if problems := checkBlob(schema, raw); len(problems) > 0 {
		return problemError(problems[0])
	}
	return nil
}

func problemError(p domain.SchemaProblem) error {
	if p.Path == "" {
		return errors.New(p.Message)
	}
	return fmt.Errorf("%s: %s", p.Path, p.Message)
}
