// Package store holds the canonical task sequence and keeps it in sync with storage.
//
// A Store is constructed once per process and shared by every front end.
// Every mutation rewrites the whole "todos" value; there is no diffing.
// Two processes on the same backend are last-write-wins; Reload picks up the
// other side's writes on demand.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/model"
	"taskflow/internal/storage"
)

// SchemaVersion is written next to the task array on every save.
const SchemaVersion = 1

// ErrTaskNotFound is returned by mutations addressing an unknown id.
// The store is left unchanged and nothing is written.
var ErrTaskNotFound = errors.New("task not found")

// Filter restricts FilteredTasks by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts all, active or completed. Empty means all.
func ParseFilter(raw string) (Filter, error) {
	switch f := Filter(raw); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", raw)
	}
}

// State is a copy of everything the store holds.
type State struct {
	Tasks      []model.Task
	Filter     Filter
	SearchTerm string
	Loading    bool
}

// Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	state  State
	db     *storage.Adapter
	key    string
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKey stores tasks under key instead of "todos".
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New builds a store and loads the persisted tasks. Unreadable data yields an empty store.
func New(ctx context.Context, db *storage.Adapter, opts ...Option) *Store {
	s := &Store{
		state:  State{Filter: FilterAll},
		db:     db,
		key:    storage.KeyTodos,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Tasks = s.load(ctx)
	return s
}

// Reload replaces the in-memory tasks with what storage holds now.
func (s *Store) Reload(ctx context.Context) {
	tasks := s.load(ctx)
	s.mu.Lock()
	s.state.Tasks = tasks
	s.mu.Unlock()
}

func (s *Store) load(ctx context.Context) []model.Task {
	var version int
	if s.db.Load(ctx, storage.SchemaKey(s.key), &version) && version > SchemaVersion {
		s.logger.Warn("stored tasks use a newer schema", zap.Int("version", version))
	}

	var tasks []model.Task
	if !s.db.Load(ctx, s.key, &tasks) {
		return []model.Task{}
	}
	tasks = dedupe(tasks)
	s.logger.Debug("tasks loaded", zap.Int("count", len(tasks)))
	return tasks
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	if err := s.db.Save(ctx, s.key, s.state.Tasks); err != nil {
		s.logger.Error("persist tasks", zap.Error(err))
		return fmt.Errorf("persist tasks: %w", err)
	}
	if err := s.db.Save(ctx, storage.SchemaKey(s.key), SchemaVersion); err != nil {
		s.logger.Warn("persist schema version", zap.Error(err))
	}
	return nil
}

func (s *Store) timestamp() model.Timestamp {
	return model.NewTimestamp(s.now())
}

// AddTask appends a new task. A non-nil error only reports a failed write;
// the task is in the store either way.
func (s *Store) AddTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	task := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		Priority:    in.Priority,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     in.DueDate,
	}
	s.state.Tasks = append(s.state.Tasks, task)
	s.logger.Debug("task added", zap.String("id", task.ID))
	return task, s.persist(ctx)
}

// UpdateTask applies updates in place and bumps UpdatedAt.
func (s *Store) UpdateTask(ctx context.Context, id string, updates ...Update) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, updates)
}

func (s *Store) update(ctx context.Context, id string, updates []Update) (model.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("update %s: %w", id, ErrTaskNotFound)
	}
	task := s.state.Tasks[i]
	for _, u := range updates {
		if u.apply != nil {
			u.apply(&task)
		}
	}
	task.ID = id
	task.UpdatedAt = s.timestamp()
	if task.UpdatedAt.Before(task.CreatedAt.Time) {
		task.UpdatedAt = task.CreatedAt
	}
	s.state.Tasks[i] = task
	s.logger.Debug("task updated", zap.String("id", id))
	return task, s.persist(ctx)
}

// ToggleTask flips Completed.
func (s *Store) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("toggle %s: %w", id, ErrTaskNotFound)
	}
	return s.update(ctx, id, []Update{SetCompleted(!s.state.Tasks[i].Completed)})
}

// DeleteTask removes the task with id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrTaskNotFound)
	}
	tasks := make([]model.Task, 0, len(s.state.Tasks)-1)
	tasks = append(tasks, s.state.Tasks[:i]...)
	tasks = append(tasks, s.state.Tasks[i+1:]...)
	s.state.Tasks = tasks
	s.logger.Debug("task deleted", zap.String("id", id))
	return s.persist(ctx)
}

// ReplaceTasks swaps the whole sequence. Tasks without an id get a fresh one,
// an updatedAt earlier than createdAt is raised to createdAt, and repeated
// ids are dropped with the first occurrence kept.
func (s *Store) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Tasks = dedupe(s.repair(tasks))
	s.logger.Debug("tasks replaced", zap.Int("count", len(s.state.Tasks)))
	return s.persist(ctx)
}

func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	s.state.Filter = f
	s.mu.Unlock()
}

func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	s.state.SearchTerm = term
	s.mu.Unlock()
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	s.mu.Unlock()
}

func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Filter
}

func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SearchTerm
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// Tasks returns a copy of the sequence in insertion order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTasks(s.state.Tasks)
}

// Task looks up one task by id.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.state.Tasks[i], true
	}
	return model.Task{}, false
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Tasks = copyTasks(s.state.Tasks)
	return st
}

func (s *Store) indexOf(id string) int {
	for i := range s.state.Tasks {
		if s.state.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func copyTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}

func (s *Store) repair(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			t.ID = s.newID()
			s.logger.Debug("assigned id to imported task", zap.String("id", t.ID))
		}
		if t.UpdatedAt.Before(t.CreatedAt.Time) {
			t.UpdatedAt = t.CreatedAt
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		if t.Category == "" {
			t.Category = model.CategoryPersonal
		}
		out = append(out, t)
	}
	return out
}

func dedupe(tasks []model.Task) []model.Task {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
