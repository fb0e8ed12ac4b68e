package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/store"
)

type snapshotService struct {
	base
	repo repository.SnapshotRepo
}

func NewSnapshotService(st *store.Store, repo repository.SnapshotRepo, opts ...Option) SnapshotService {
	return &snapshotService{base: newBase(st, opts), repo: repo}
}

// Save writes a consistent copy of the store. Mutations are not blocked
// while rows are written.
func (s *snapshotService) Save(ctx context.Context) (stats *SnapshotStats, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "snapshot.save", startedAt, fields, err) }()

	snap := s.store.Snapshot(ctx)
	if err = s.repo.Save(ctx, snap, s.now()); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	stats = countSnapshot(snap)
	stats.fill(fields)
	return stats, nil
}

// Load replaces the store with the last saved snapshot. On error the store
// is unchanged.
func (s *snapshotService) Load(ctx context.Context) (stats *SnapshotStats, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "snapshot.load", startedAt, fields, err) }()

	snap, savedAt, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if !savedAt.IsZero() {
		fields["saved_at"] = savedAt.Format(time.RFC3339)
	}
	if err = s.store.Replace(ctx, snap); err != nil {
		return nil, fmt.Errorf("restoring snapshot: %w", err)
	}
	stats = countSnapshot(snap)
	stats.fill(fields)
	return stats, nil
}

func countSnapshot(snap *store.Snapshot) *SnapshotStats {
	stats := &SnapshotStats{Timelines: len(snap.Timelines), Members: len(snap.Members)}
	for _, tl := range snap.Timelines {
		stats.Sprints += len(tl.Sprints)
		for _, sp := range tl.Sprints {
			stats.Tasks += len(sp.Tasks)
			for _, t := range sp.Tasks {
				stats.Subtasks += len(t.Subtasks)
			}
		}
	}
	return stats
}

func (st *SnapshotStats) fill(fields map[string]any) {
	fields["timelines"] = st.Timelines
	fields["sprints"] = st.Sprints
	fields["tasks"] = st.Tasks
	fields["subtasks"] = st.Subtasks
	fields["members"] = st.Members
}
