package store

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ErrDuplicateID is returned when an insert would break per-level id uniqueness.
var ErrDuplicateID = errors.New("store: duplicate id")

func (tx *Tx) checkWritable() error {
	if !tx.writable {
		return ErrReadOnly
	}
	return nil
}

// InsertTimeline appends a new root.
func (tx *Tx) InsertTimeline(t *domain.Timeline) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	if _, exists := tx.s.timelineIdx[t.ID]; exists {
		return fmt.Errorf("timeline %q: %w", t.ID, ErrDuplicateID)
	}
	tx.s.timelines = append(tx.s.timelines, t)
	tx.s.timelineIdx[t.ID] = t
	return nil
}

// InsertSprint appends s to tl's sprints and sets the back-reference.
func (tx *Tx) InsertSprint(tl *domain.Timeline, s *domain.Sprint) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	if _, exists := tx.s.sprintIdx[s.ID]; exists {
		return fmt.Errorf("sprint %q: %w", s.ID, ErrDuplicateID)
	}
	s.TimelineID = tl.ID
	tl.Sprints = append(tl.Sprints, s)
	tx.s.sprintIdx[s.ID] = s
	return nil
}

func (tx *Tx) InsertTask(s *domain.Sprint, t *domain.Task) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	if _, exists := tx.s.taskIdx[t.ID]; exists {
		return fmt.Errorf("task %q: %w", t.ID, ErrDuplicateID)
	}
	t.SprintID = s.ID
	s.Tasks = append(s.Tasks, t)
	tx.s.taskIdx[t.ID] = t
	return nil
}

func (tx *Tx) InsertSubtask(t *domain.Task, st *domain.Subtask) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	if _, exists := tx.s.subtaskIdx[st.ID]; exists {
		return fmt.Errorf("subtask %q: %w", st.ID, ErrDuplicateID)
	}
	st.TaskID = t.ID
	t.Subtasks = append(t.Subtasks, st)
	tx.s.subtaskIdx[st.ID] = st
	return nil
}

// RemoveTimeline unlinks the timeline and unindexes its whole subtree.
func (tx *Tx) RemoveTimeline(tl *domain.Timeline) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	tx.s.timelines = slices.DeleteFunc(tx.s.timelines, func(x *domain.Timeline) bool { return x.ID == tl.ID })
	for _, s := range tl.Sprints {
		tx.unindexSprint(s)
	}
	delete(tx.s.timelineIdx, tl.ID)
	return nil
}

// RemoveSprint unlinks the sprint from its timeline, cascading to its tasks
// and their subtasks.
func (tx *Tx) RemoveSprint(ref SprintRef) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	ref.Timeline.Sprints = slices.DeleteFunc(ref.Timeline.Sprints, func(x *domain.Sprint) bool { return x.ID == ref.Sprint.ID })
	tx.unindexSprint(ref.Sprint)
	return nil
}

// RemoveTask unlinks the task from its sprint, cascading to its subtasks.
func (tx *Tx) RemoveTask(ref TaskRef) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	ref.Sprint.Tasks = slices.DeleteFunc(ref.Sprint.Tasks, func(x *domain.Task) bool { return x.ID == ref.Task.ID })
	tx.unindexTask(ref.Task)
	return nil
}

func (tx *Tx) RemoveSubtask(ref SubtaskRef) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	ref.Task.Subtasks = slices.DeleteFunc(ref.Task.Subtasks, func(x *domain.Subtask) bool { return x.ID == ref.Subtask.ID })
	delete(tx.s.subtaskIdx, ref.Subtask.ID)
	return nil
}

// MoveTask reassigns ownership of ref.Task to target: it is removed from the
// source sprint and appended to the target in one step. Subtasks travel with
// the task and need no reindexing.
func (tx *Tx) MoveTask(ref TaskRef, target *domain.Sprint) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	ref.Sprint.Tasks = slices.DeleteFunc(ref.Sprint.Tasks, func(x *domain.Task) bool { return x.ID == ref.Task.ID })
	ref.Task.SprintID = target.ID
	target.Tasks = append(target.Tasks, ref.Task)
	return nil
}

func (tx *Tx) AddMember(m *domain.Member) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	if _, exists := tx.s.memberIdx[m.ID]; exists {
		return fmt.Errorf("member %q: %w", m.ID, ErrDuplicateID)
	}
	tx.s.members = append(tx.s.members, m)
	tx.s.memberIdx[m.ID] = m
	return nil
}

func (tx *Tx) unindexSprint(s *domain.Sprint) {
	for _, t := range s.Tasks {
		tx.unindexTask(t)
	}
	delete(tx.s.sprintIdx, s.ID)
}

func (tx *Tx) unindexTask(t *domain.Task) {
	for _, st := range t.Subtasks {
		delete(tx.s.subtaskIdx, st.ID)
	}
	delete(tx.s.taskIdx, t.ID)
}
