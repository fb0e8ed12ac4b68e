package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
)

type timelineService struct {
	base
}

func NewTimelineService(st *store.Store, opts ...Option) TimelineService {
	return &timelineService{base: newBase(st, opts)}
}

func (s *timelineService) Create(ctx context.Context, in domain.TimelineInput) (out *domain.Timeline, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": in.ProjectID}
	defer func() { s.observe(ctx, "timeline.create", startedAt, fields, err) }()

	if err = in.Validate(); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		tl := in.Build(s.newID(), s.now())
		if err := tx.InsertTimeline(tl); err != nil {
			return err
		}
		out = tl.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["timeline_id"] = out.ID
	s.publish(ChangeEvent{Type: ChangeCreated, Level: domain.LevelTimeline, EntityID: out.ID, TimelineID: out.ID, At: out.CreatedAt})
	return out, nil
}

func (s *timelineService) GetByID(ctx context.Context, id string) (out *domain.Timeline, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		tl, err := tx.FindTimeline(id)
		if err != nil {
			return err
		}
		out = tl.Clone()
		return nil
	})
	return out, err
}

func (s *timelineService) List(ctx context.Context) (out []*domain.Timeline, err error) {
	err = s.store.View(ctx, func(ctx context.Context, tx *store.Tx) error {
		out = make([]*domain.Timeline, 0, len(tx.Timelines()))
		for _, tl := range tx.Timelines() {
			out = append(out, tl.Clone())
		}
		return nil
	})
	return out, err
}

// Update edits the timeline's own fields. Date edits on a timeline that has
// sprints are immediately re-derived from the sprints, in this call rather
// than on a later reconciliation pass, so the timeline always contains them.
func (s *timelineService) Update(ctx context.Context, id string, patch domain.TimelinePatch) (out *domain.Timeline, err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "timeline.update", startedAt, map[string]any{"timeline_id": id}, err) }()

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		tl, err := tx.FindTimeline(id)
		if err != nil {
			return err
		}
		datesChanged, err := patch.Apply(tl)
		if err != nil {
			return err
		}
		if datesChanged {
			tl.Reconcile()
		}
		tl.UpdatedAt = s.now()
		out = tl.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ChangeEvent{Type: ChangeUpdated, Level: domain.LevelTimeline, EntityID: id, TimelineID: id, At: out.UpdatedAt})
	return out, nil
}

// Delete removes the timeline and everything beneath it.
func (s *timelineService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"timeline_id": id}
	defer func() { s.observe(ctx, "timeline.delete", startedAt, fields, err) }()

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		tl, err := tx.FindTimeline(id)
		if err != nil {
			return err
		}
		fields["sprint_count"] = len(tl.Sprints)
		return tx.RemoveTimeline(tl)
	})
	if err != nil {
		return err
	}
	s.publish(ChangeEvent{Type: ChangeDeleted, Level: domain.LevelTimeline, EntityID: id, TimelineID: id, At: s.now()})
	return nil
}
