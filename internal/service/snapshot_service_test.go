package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/store"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	tl := f.timeline(t, "Roadmap")
	sp := f.sprint(t, tl.ID, "S1", "2025-01-01", "2025-01-14")
	a := f.task(t, sp.ID, "A", "2025-01-02", "2025-01-04")
	_, err := f.svc.Tasks.Create(ctx, sp.ID, testutil.NewTestTaskInputWithDeps("B", []string{a.ID},
		testutil.WithDates("2025-01-05", "2025-01-09"),
		testutil.WithResources("m-ada")))
	require.NoError(t, err)
	f.subtask(t, a.ID, "A.1", "2025-01-02", "2025-01-03")
	f.timeline(t, "Empty")
	_, err = f.svc.Search.AddMember(ctx, domain.Member{ID: "m-ada", Name: "Ada"})
	require.NoError(t, err)
}

func TestSnapshotService_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteSnapshotRepo(database, testutil.NewTestUoW(database))

	f := newFixture(t)
	populate(t, f)
	saver := NewSnapshotService(f.store, repo, WithClock(f.clock.Now))

	stats, err := saver.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SnapshotStats{Timelines: 2, Sprints: 1, Tasks: 2, Subtasks: 1, Members: 1}, *stats)

	fresh := store.New()
	loader := NewSnapshotService(fresh, repo)
	loaded, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *stats, *loaded)
	assert.Equal(t, f.store.Snapshot(context.Background()), fresh.Snapshot(context.Background()))
}

func TestSnapshotService_LoadEmptyDatabase(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteSnapshotRepo(database, testutil.NewTestUoW(database))

	f := newFixture(t)
	populate(t, f)

	stats, err := NewSnapshotService(f.store, repo).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SnapshotStats{}, *stats)
	assert.Equal(t, store.Counts{}, f.store.Counts())
}

func TestSnapshotService_FailedSaveKeepsPreviousSnapshot(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	repo := repository.NewSQLiteSnapshotRepo(database, uow)

	f := newFixture(t)
	populate(t, f)
	_, err := NewSnapshotService(f.store, repo).Save(context.Background())
	require.NoError(t, err)
	before := f.store.Snapshot(context.Background())

	// Add more work, then fail partway through the second save.
	sp, err := f.svc.Sprints.ListByTimeline(context.Background(), before.Timelines[0].ID)
	require.NoError(t, err)
	f.task(t, sp[0].ID, "C", "2025-01-10", "2025-01-12")

	boom := errors.New("disk full")
	failing := repository.NewSQLiteSnapshotRepo(database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 12, Err: boom})
	_, err = NewSnapshotService(f.store, failing).Save(context.Background())
	require.ErrorIs(t, err, boom)

	fresh := store.New()
	_, err = NewSnapshotService(fresh, repo).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, fresh.Snapshot(context.Background()))
}

func TestSnapshotService_RoundTripAfterShiftToLastSupportedDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteSnapshotRepo(database, testutil.NewTestUoW(database))
	ctx := context.Background()

	f := newFixture(t)
	tl := f.timeline(t, "Roadmap")
	sp := f.sprint(t, tl.ID, "S", "2025-01-01", "2025-01-10")
	task := f.task(t, sp.ID, "T", "2025-01-01", "2025-01-03")
	f.subtask(t, task.ID, "ST", "2025-01-02", "2025-01-03")

	days := domain.DaysBetween(testutil.Date("2025-01-03"), testutil.Date("9999-12-31"))
	_, err := f.svc.Tasks.Shift(ctx, task.ID, days)
	require.NoError(t, err)
	_, err = f.svc.Tasks.Shift(ctx, task.ID, 1)
	require.True(t, domain.IsValidation(err))

	_, err = NewSnapshotService(f.store, repo).Save(ctx)
	require.NoError(t, err)

	fresh := store.New()
	_, err = NewSnapshotService(fresh, repo).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.store.Snapshot(ctx), fresh.Snapshot(ctx))

	loaded, err := NewTaskService(fresh).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assertRange(t, "9999-12-30", "9999-12-31", loaded.Range())
}
