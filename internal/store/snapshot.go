package store

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Snapshot is a detached deep copy of the whole store.
type Snapshot struct {
	Timelines []*domain.Timeline
	Members   []*domain.Member
}

// Snapshot copies the store under the read lock.
func (s *Store) Snapshot(ctx context.Context) *Snapshot {
	snap := &Snapshot{}
	_ = s.View(ctx, func(ctx context.Context, tx *Tx) error {
		snap.Timelines = make([]*domain.Timeline, len(tx.Timelines()))
		for i, tl := range tx.Timelines() {
			snap.Timelines[i] = tl.Clone()
		}
		snap.Members = make([]*domain.Member, len(tx.Members()))
		for i, m := range tx.Members() {
			c := *m
			snap.Members[i] = &c
		}
		return nil
	})
	return snap
}

// Replace swaps the store contents for a copy of snap. The snapshot is
// checked first: ids must be unique per level and every back-reference must
// name the containing parent. On error the store is unchanged.
func (s *Store) Replace(ctx context.Context, snap *Snapshot) error {
	next := New()
	tx := &Tx{s: next, writable: true}
	for _, src := range snap.Timelines {
		if err := loadTimeline(tx, src.Clone()); err != nil {
			return err
		}
	}
	for _, m := range snap.Members {
		c := *m
		if err := tx.AddMember(&c); err != nil {
			return err
		}
	}

	return s.WithinTx(ctx, func(ctx context.Context, _ *Tx) error {
		s.timelines = next.timelines
		s.members = next.members
		s.timelineIdx = next.timelineIdx
		s.sprintIdx = next.sprintIdx
		s.taskIdx = next.taskIdx
		s.subtaskIdx = next.subtaskIdx
		s.memberIdx = next.memberIdx
		return nil
	})
}

func loadTimeline(tx *Tx, tl *domain.Timeline) error {
	sprints := tl.Sprints
	tl.Sprints = nil
	if err := tx.InsertTimeline(tl); err != nil {
		return err
	}
	for _, sp := range sprints {
		if sp.TimelineID != tl.ID {
			return fmt.Errorf("sprint %q: back-reference %q does not match timeline %q", sp.ID, sp.TimelineID, tl.ID)
		}
		tasks := sp.Tasks
		sp.Tasks = nil
		if err := tx.InsertSprint(tl, sp); err != nil {
			return err
		}
		for _, t := range tasks {
			if t.SprintID != sp.ID {
				return fmt.Errorf("task %q: back-reference %q does not match sprint %q", t.ID, t.SprintID, sp.ID)
			}
			subtasks := t.Subtasks
			t.Subtasks = nil
			if err := tx.InsertTask(sp, t); err != nil {
				return err
			}
			for _, st := range subtasks {
				if st.TaskID != t.ID {
					return fmt.Errorf("subtask %q: back-reference %q does not match task %q", st.ID, st.TaskID, t.ID)
				}
				if err := tx.InsertSubtask(t, st); err != nil {
					return err
				}
			}
			if t.Subtasks == nil {
				t.Subtasks = []*domain.Subtask{}
			}
		}
		if sp.Tasks == nil {
			sp.Tasks = []*domain.Task{}
		}
	}
	if tl.Sprints == nil {
		tl.Sprints = []*domain.Sprint{}
	}
	return nil
}
