// Package localstore implements the service.Service interface on top of a
// key/value store holding the whole task list as one JSON document.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"todo/internal/service"
)

// StorageKey is the key the task list is persisted under.
const StorageKey = "tasks"

// KV is the minimal persistence the store needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// record is the persisted shape; the local format calls the name "text".
type record struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// Store keeps the task list in memory and rewrites it to the KV on every change.
type Store struct {
	mu      sync.Mutex
	kv      KV
	records []record
	lastID  int64
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the id clock (for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Open loads the persisted list from kv.
func Open(ctx context.Context, kv KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:  kv,
		now: time.Now,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", StorageKey, err)
	}
	if ok && len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("failed to decode %q: %w", StorageKey, err)
		}
	}
	for _, r := range s.records {
		s.lastID = max(s.lastID, r.ID)
	}

	s.log.Debug("local store loaded", zap.Int("count", len(s.records)))
	return s, nil
}

// ListTasks implements service.Service.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]service.Task, len(s.records))
	for i, r := range s.records {
		tasks[i] = service.Task{
			ID:          r.ID,
			Name:        r.Text,
			Description: r.Description,
			Completed:   r.Completed,
		}
	}
	return tasks, nil
}

// AddTask implements service.Service. The id is the creation time in
// milliseconds, bumped when two tasks land in the same millisecond.
func (s *Store) AddTask(ctx context.Context, task service.NewTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}

	next := append(slices.Clone(s.records), record{
		ID:          id,
		Text:        task.Name,
		Description: task.Description,
	})
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.lastID = id
	return nil
}

// UpdateTask implements service.Service.
func (s *Store) UpdateTask(ctx context.Context, id int64, task service.NewTask) error {
	return s.mutate(ctx, id, func(r *record) {
		r.Text = task.Name
		r.Description = task.Description
	})
}

// ToggleTask implements service.Service.
func (s *Store) ToggleTask(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(r *record) {
		r.Completed = !r.Completed
	})
}

// DeleteTask implements service.Service.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	next := slices.Delete(slices.Clone(s.records), i, i+1)
	return s.commit(ctx, next)
}

// DeleteTasks implements service.Service. Unknown ids are ignored.
func (s *Store) DeleteTasks(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.records), func(r record) bool {
		return slices.Contains(ids, r.ID)
	})
	return s.commit(ctx, next)
}

// Close closes the underlying KV if it can be closed.
func (s *Store) Close() error {
	if c, ok := s.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) mutate(ctx context.Context, id int64, fn func(r *record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	next := slices.Clone(s.records)
	fn(&next[i])
	return s.commit(ctx, next)
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.records, func(r record) bool { return r.ID == id })
}

// commit persists next and, only once that succeeds, makes it current.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []record) error {
	if next == nil {
		next = []record{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	s.records = next
	s.log.Debug("local store persisted", zap.Int("count", len(next)))
	return nil
}
