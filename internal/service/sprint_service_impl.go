package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
)

type sprintService struct {
	base
}

func NewSprintService(st *store.Store, opts ...Option) SprintService {
	return &sprintService{base: newBase(st, opts)}
}

// Create appends a sprint seeded with the caller's dates and re-derives the
// timeline's range from all of its sprints.
func (s *sprintService) Create(ctx context.Context, timelineID string, in domain.SprintInput) (out *domain.Sprint, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timeline_id": timelineID}
	defer func() { s.observe(ctx, "sprint.create", startedAt, fields, err) }()

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		tl, err := tx.FindTimeline(timelineID)
		if err != nil {
			return err
		}
		if err := in.Validate(); err != nil {
			return err
		}
		now := s.now()
		sp := in.Build(s.newID(), tl.ID, now)
		if err := tx.InsertSprint(tl, sp); err != nil {
			return err
		}
		ancestors{timeline: tl}.propagate(now)
		out = sp.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["sprint_id"] = out.ID
	s.publish(ChangeEvent{Type: ChangeCreated, Level: domain.LevelSprint, EntityID: out.ID, TimelineID: timelineID, At: out.CreatedAt})
	return out, nil
}

func (s *sprintService) GetByID(ctx context.Context, id string) (out *domain.Sprint, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindSprint(id)
		if err != nil {
			return err
		}
		out = ref.Sprint.Clone()
		return nil
	})
	return out, err
}

func (s *sprintService) ListByTimeline(ctx context.Context, timelineID string) (out []*domain.Sprint, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		tl, err := tx.FindTimeline(timelineID)
		if err != nil {
			return err
		}
		out = make([]*domain.Sprint, len(tl.Sprints))
		for i, sp := range tl.Sprints {
			out[i] = sp.Clone()
		}
		return nil
	})
	return out, err
}

// Update merges the patch. When dates change, a sprint with tasks re-derives
// its own range from them and the timeline is reconciled; otherwise the
// timeline is only touched. The re-derivation happens in this call, not on a
// later reconciliation pass, so a returned sprint always contains its tasks.
func (s *sprintService) Update(ctx context.Context, id string, patch domain.SprintPatch) (out *domain.Sprint, err error) {
	startedAt := time.Now()
	fields := map[string]any{"sprint_id": id}
	defer func() { s.observe(ctx, "sprint.update", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindSprint(id)
		if err != nil {
			return err
		}
		datesChanged, err := patch.Apply(ref.Sprint)
		if err != nil {
			return err
		}
		now := s.now()
		ref.Sprint.UpdatedAt = now
		up := ancestors{timeline: ref.Timeline}
		if datesChanged {
			ref.Sprint.Reconcile()
			up.propagate(now)
		} else {
			up.touch(now)
		}
		fields["dates_changed"] = datesChanged
		timelineID = ref.Timeline.ID
		out = ref.Sprint.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ChangeEvent{Type: ChangeUpdated, Level: domain.LevelSprint, EntityID: id, TimelineID: timelineID, At: out.UpdatedAt})
	return out, nil
}

// Delete removes the sprint with its tasks and subtasks. The timeline is
// re-derived from the remaining sprints; if none remain it keeps its range.
func (s *sprintService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"sprint_id": id}
	defer func() { s.observe(ctx, "sprint.delete", startedAt, fields, err) }()

	var timelineID string
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		ref, err := tx.FindSprint(id)
		if err != nil {
			return err
		}
		fields["task_count"] = len(ref.Sprint.Tasks)
		if err := tx.RemoveSprint(ref); err != nil {
			return err
		}
		ancestors{timeline: ref.Timeline}.propagate(s.now())
		timelineID = ref.Timeline.ID
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ChangeEvent{Type: ChangeDeleted, Level: domain.LevelSprint, EntityID: id, TimelineID: timelineID, At: s.now()})
	return nil
}
