package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
)

type subtaskService struct {
	base
}

func NewSubtaskService(st *store.Store, opts ...Option) SubtaskService {
	return &subtaskService{base: newBase(st, opts)}
}

// Create appends a subtask and reconciles the whole chain above it.
func (s *subtaskService) Create(ctx context.Context, taskID string, in domain.SubtaskInput) (out *domain.Subtask, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID}
	defer func() { s.observe(ctx, "subtask.create", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindTask(taskID)
		if err != nil {
			return err
		}
		if err := in.Validate(); err != nil {
			return err
		}
		now := s.now()
		st := in.Build(s.newID(), ref.Task.ID, now)
		if err := tx.InsertSubtask(ref.Task, st); err != nil {
			return err
		}
		ancestors{task: ref.Task, sprint: ref.Sprint, timeline: ref.Timeline}.propagate(now)
		timelineID = ref.Timeline.ID
		out = st.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["subtask_id"] = out.ID
	s.publish(ChangeEvent{Type: ChangeCreated, Level: domain.LevelSubtask, EntityID: out.ID, TimelineID: timelineID, At: out.CreatedAt})
	return out, nil
}

func (s *subtaskService) GetByID(ctx context.Context, id string) (out *domain.Subtask, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindSubtask(id)
		if err != nil {
			return err
		}
		out = ref.Subtask.Clone()
		return nil
	})
	return out, err
}

func (s *subtaskService) ListByTask(ctx context.Context, taskID string) (out []*domain.Subtask, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindTask(taskID)
		if err != nil {
			return err
		}
		out = make([]*domain.Subtask, len(ref.Task.Subtasks))
		for i, st := range ref.Task.Subtasks {
			out[i] = st.Clone()
		}
		return nil
	})
	return out, err
}

func (s *subtaskService) Update(ctx context.Context, id string, patch domain.SubtaskPatch) (out *domain.Subtask, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subtask_id": id}
	defer func() { s.observe(ctx, "subtask.update", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindSubtask(id)
		if err != nil {
			return err
		}
		datesChanged, err := patch.Apply(ref.Subtask)
		if err != nil {
			return err
		}
		now := s.now()
		ref.Subtask.UpdatedAt = now
		up := ancestors{task: ref.Task, sprint: ref.Sprint, timeline: ref.Timeline}
		if datesChanged {
			up.propagate(now)
		} else {
			up.touch(now)
		}
		fields["dates_changed"] = datesChanged
		timelineID = ref.Timeline.ID
		out = ref.Subtask.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ChangeEvent{Type: ChangeUpdated, Level: domain.LevelSubtask, EntityID: id, TimelineID: timelineID, At: out.UpdatedAt})
	return out, nil
}

// Delete removes the subtask. A task left without subtasks keeps its range.
func (s *subtaskService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"subtask_id": id}
	defer func() { s.observe(ctx, "subtask.delete", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindSubtask(id)
		if err != nil {
			return err
		}
		if err := tx.RemoveSubtask(ref); err != nil {
			return err
		}
		ancestors{task: ref.Task, sprint: ref.Sprint, timeline: ref.Timeline}.propagate(s.now())
		timelineID = ref.Timeline.ID
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ChangeEvent{Type: ChangeDeleted, Level: domain.LevelSubtask, EntityID: id, TimelineID: timelineID, At: s.now()})
	return nil
}
