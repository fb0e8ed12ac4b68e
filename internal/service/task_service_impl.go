package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
)

type taskService struct {
	base
}

func NewTaskService(st *store.Store, opts ...Option) TaskService {
	return &taskService{base: newBase(st, opts)}
}

// Create appends a task to the sprint and reconciles the sprint and its
// timeline.
func (s *taskService) Create(ctx context.Context, sprintID string, in domain.TaskInput) (out *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"sprint_id": sprintID}
	defer func() { s.observe(ctx, "task.create", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindSprint(sprintID)
		if err != nil {
			return err
		}
		if err := in.Validate(); err != nil {
			return err
		}
		now := s.now()
		t := in.Build(s.newID(), ref.Sprint.ID, now)
		if err := tx.InsertTask(ref.Sprint, t); err != nil {
			return err
		}
		ancestors{sprint: ref.Sprint, timeline: ref.Timeline}.propagate(now)
		timelineID = ref.Timeline.ID
		out = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["task_id"] = out.ID
	s.publish(ChangeEvent{Type: ChangeCreated, Level: domain.LevelTask, EntityID: out.ID, TimelineID: timelineID, At: out.CreatedAt})
	return out, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (out *domain.Task, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindTask(id)
		if err != nil {
			return err
		}
		out = ref.Task.Clone()
		return nil
	})
	return out, err
}

// ListBySprint returns an empty slice for a sprint without tasks and a
// NotFoundError for an unknown sprint.
func (s *taskService) ListBySprint(ctx context.Context, sprintID string) (out []*domain.Task, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		tasks, err := tx.TasksBySprintID(sprintID)
		if err != nil {
			return err
		}
		out = cloneTasks(tasks)
		return nil
	})
	return out, err
}

func (s *taskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (out *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { s.observe(ctx, "task.update", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindTask(id)
		if err != nil {
			return err
		}
		datesChanged, err := patch.Apply(ref.Task)
		if err != nil {
			return err
		}
		now := s.now()
		ref.Task.UpdatedAt = now
		up := ancestors{sprint: ref.Sprint, timeline: ref.Timeline}
		if datesChanged {
			ref.Task.Reconcile()
			up.propagate(now)
		} else {
			up.touch(now)
		}
		fields["dates_changed"] = datesChanged
		timelineID = ref.Timeline.ID
		out = ref.Task.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ChangeEvent{Type: ChangeUpdated, Level: domain.LevelTask, EntityID: id, TimelineID: timelineID, At: out.UpdatedAt})
	return out, nil
}

// Move transfers the task, with its subtasks, to the end of the target
// sprint. Both sprints and both timelines are reconciled in the same
// transaction; an emptied source sprint keeps its last range. Moving a task
// to its own sprint re-appends it.
func (s *taskService) Move(ctx context.Context, taskID, targetSprintID string) (out *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID, "target_sprint_id": targetSprintID}
	defer func() { s.observe(ctx, "task.move", startedAt, fields, err) }()

	var events []ChangeEvent
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindTask(taskID)
		if err != nil {
			return err
		}
		target, err := tx.FindSprint(targetSprintID)
		if err != nil {
			return err
		}
		fields["source_sprint_id"] = ref.Sprint.ID
		if err := tx.MoveTask(ref, target.Sprint); err != nil {
			return err
		}

		now := s.now()
		ref.Task.UpdatedAt = now
		ancestors{sprint: ref.Sprint, timeline: ref.Timeline}.propagate(now)
		ancestors{sprint: target.Sprint, timeline: target.Timeline}.propagate(now)

		out = ref.Task.Clone()
		events = append(events, ChangeEvent{Type: ChangeMoved, Level: domain.LevelTask, EntityID: taskID, TimelineID: target.Timeline.ID, At: now})
		if ref.Timeline.ID != target.Timeline.ID {
			events = append(events, ChangeEvent{Type: ChangeUpdated, Level: domain.LevelTimeline, EntityID: ref.Timeline.ID, TimelineID: ref.Timeline.ID, At: now})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(events...)
	return out, nil
}

// Shift moves the task and its subtasks by days (negative moves earlier)
// and reconciles the sprint and timeline.
func (s *taskService) Shift(ctx context.Context, taskID string, days int) (out *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID, "days": days}
	defer func() { s.observe(ctx, "task.shift", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindTask(taskID)
		if err != nil {
			return err
		}
		if err := ref.Task.Shift(days); err != nil {
			return err
		}
		now := s.now()
		ref.Task.UpdatedAt = now
		for _, st := range ref.Task.Subtasks {
			st.UpdatedAt = now
		}
		ancestors{sprint: ref.Sprint, timeline: ref.Timeline}.propagate(now)
		timelineID = ref.Timeline.ID
		out = ref.Task.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ChangeEvent{Type: ChangeShifted, Level: domain.LevelTask, EntityID: taskID, TimelineID: timelineID, At: out.UpdatedAt})
	return out, nil
}

// Delete removes the task and its subtasks. Other tasks' dependency lists
// are not rewritten.
func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { s.observe(ctx, "task.delete", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindTask(id)
		if err != nil {
			return err
		}
		fields["sprint_id"] = ref.Sprint.ID
		if err := tx.RemoveTask(ref); err != nil {
			return err
		}
		ancestors{sprint: ref.Sprint, timeline: ref.Timeline}.propagate(s.now())
		timelineID = ref.Timeline.ID
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ChangeEvent{Type: ChangeDeleted, Level: domain.LevelTask, EntityID: id, TimelineID: timelineID, At: s.now()})
	return nil
}
