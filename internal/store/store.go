// Package store holds the in-memory timeline forest.
//
// Every entity is reachable two ways: through its parent's ordered child
// slice (display order) and through a per-level id index. Back-references on
// the entities (TimelineID, SprintID, TaskID) resolve parents in O(1), so a
// lookup never walks the forest.
//
// All access goes through WithinTx (exclusive) or View (shared). Entities
// handed to the callback are live; callers must clone anything that leaves
// the callback.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ErrReadOnly is returned when a mutation is attempted inside View.
var ErrReadOnly = errors.New("store: mutation inside read-only transaction")

type Store struct {
	mu sync.RWMutex

	timelines []*domain.Timeline
	members   []*domain.Member

	timelineIdx map[string]*domain.Timeline
	sprintIdx   map[string]*domain.Sprint
	taskIdx     map[string]*domain.Task
	subtaskIdx  map[string]*domain.Subtask
	memberIdx   map[string]*domain.Member
}

func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.timelines = nil
	s.members = nil
	s.timelineIdx = make(map[string]*domain.Timeline)
	s.sprintIdx = make(map[string]*domain.Sprint)
	s.taskIdx = make(map[string]*domain.Task)
	s.subtaskIdx = make(map[string]*domain.Subtask)
	s.memberIdx = make(map[string]*domain.Member)
}

// WithinTx runs fn with exclusive access. Mutations from concurrent callers
// are serialized; each call is the unit of atomicity. There is no rollback:
// fn must validate before it mutates.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &Tx{s: s, writable: true})
}

// View runs fn with shared access. Concurrent Views proceed in parallel and
// never observe a half-applied mutation.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, &Tx{s: s})
}

// Counts reports the number of indexed entities per level.
type Counts struct {
	Timelines int
	Sprints   int
	Tasks     int
	Subtasks  int
	Members   int
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Timelines: len(s.timelineIdx),
		Sprints:   len(s.sprintIdx),
		Tasks:     len(s.taskIdx),
		Subtasks:  len(s.subtaskIdx),
		Members:   len(s.memberIdx),
	}
}
