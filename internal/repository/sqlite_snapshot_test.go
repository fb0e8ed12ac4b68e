package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var savedAt = time.Date(2025, 6, 1, 12, 30, 0, 123000000, time.UTC)

func sampleSnapshot() *store.Snapshot {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	tl := testutil.NewTestTimelineInput("Roadmap").Build("tl-1", now)
	sp := testutil.NewTestSprintInput("S1", "2025-01-01", "2025-01-14",
		testutil.WithSprintResources("m-1", "m-2"),
		testutil.WithSprintDepartment("platform")).Build("sp-1", tl.ID, now)
	a := testutil.NewTestTaskInput("A",
		testutil.WithStatus(domain.StatusInProgress),
		testutil.WithPriority(domain.PriorityHigh),
		testutil.WithProgress(40)).Build("t-a", sp.ID, now)
	b := testutil.NewTestTaskInputWithDeps("B", []string{"t-a", "gone"},
		testutil.WithResources("m-2")).Build("t-b", sp.ID, now)
	st := testutil.NewTestSubtaskInput("A.1", testutil.WithResources("m-1")).Build("st-1", a.ID, now)

	a.Subtasks = append(a.Subtasks, st)
	sp.Tasks = append(sp.Tasks, a, b)
	tl.Sprints = append(tl.Sprints, sp)

	empty := testutil.NewTestTimelineInput("Empty").Build("tl-2", now)
	return &store.Snapshot{
		Timelines: []*domain.Timeline{tl, empty},
		Members:   []*domain.Member{{ID: "m-1", Name: "Ada", Email: "ada@example.com", Role: "engineer", Department: "platform"}},
	}
}

func TestSnapshotRepo_SaveAndLoad(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(db, testutil.NewTestUoW(db))
	ctx := context.Background()

	want := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, want, savedAt))

	got, at, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, savedAt.Equal(at))
	require.Len(t, got.Timelines, 2)
	assert.Equal(t, want.Timelines, got.Timelines)
	assert.Equal(t, want.Members, got.Members)

	// Dangling dependency ids survive the round trip.
	assert.Equal(t, []string{"t-a", "gone"}, got.Timelines[0].Sprints[0].Tasks[1].Dependencies)
}

func TestSnapshotRepo_SaveReplacesPrevious(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(db, testutil.NewTestUoW(db))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleSnapshot(), savedAt))

	smaller := sampleSnapshot()
	smaller.Timelines = smaller.Timelines[1:]
	smaller.Members = nil
	require.NoError(t, repo.Save(ctx, smaller, savedAt.Add(time.Hour)))

	got, at, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Timelines, 1)
	assert.Equal(t, "tl-2", got.Timelines[0].ID)
	assert.Empty(t, got.Members)
	assert.True(t, savedAt.Add(time.Hour).Equal(at))
}

func TestSnapshotRepo_LoadEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(db, testutil.NewTestUoW(db))

	got, at, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, at.IsZero())
	assert.Empty(t, got.Timelines)
	assert.Empty(t, got.Members)
}

func TestSnapshotRepo_FailedClearRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(db, testutil.NewTestUoW(db))
	require.NoError(t, repo.Save(ctx, sampleSnapshot(), savedAt))

	boom := errors.New("injected")
	// Exec 1 is the first clear; exec 9 is the meta row after the clears.
	for _, n := range []int32{1, 9} {
		failing := NewSQLiteSnapshotRepo(db, &testutil.FailOnNthExecUoW{DB: db, FailOn: n, Err: boom})
		require.ErrorIs(t, failing.Save(ctx, &store.Snapshot{}, savedAt.Add(time.Hour)), boom, "exec %d", n)
	}

	got, _, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Timelines, 2)
}

func TestSnapshotRepo_FailedSaveKeepsPriorRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(db, testutil.NewTestUoW(db))
	require.NoError(t, repo.Save(ctx, sampleSnapshot(), savedAt))

	boom := errors.New("injected")
	failing := NewSQLiteSnapshotRepo(db, &testutil.FailOnNthExecUoW{DB: db, FailOn: 10, Err: boom})
	require.ErrorIs(t, failing.Save(ctx, sampleSnapshot(), savedAt.Add(time.Hour)), boom)

	got, at, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, savedAt.Equal(at))
	assert.Equal(t, sampleSnapshot().Timelines, got.Timelines)
}
