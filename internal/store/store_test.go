package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// seed builds timeline tl1 -> sprint s1 -> task t1 -> subtask st1, plus an
// empty sprint s2.
func seed(t *testing.T) *Store {
	t.Helper()
	st := New()
	err := st.WithinTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		tl := domain.TimelineInput{ProjectID: "p1", Name: "Roadmap", StartDate: day("2025-01-01"), EndDate: day("2025-03-31")}.Build("tl1", testNow)
		require.NoError(t, tx.InsertTimeline(tl))

		s1 := domain.SprintInput{Name: "S1", StartDate: day("2025-01-01"), EndDate: day("2025-01-14")}.Build("s1", "", testNow)
		s2 := domain.SprintInput{Name: "S2", StartDate: day("2025-01-15"), EndDate: day("2025-01-28")}.Build("s2", "", testNow)
		require.NoError(t, tx.InsertSprint(tl, s1))
		require.NoError(t, tx.InsertSprint(tl, s2))

		tk := domain.TaskInput{WorkInput: domain.WorkInput{Name: "T1", StartDate: day("2025-01-02"), EndDate: day("2025-01-05")}}.Build("t1", "", testNow)
		require.NoError(t, tx.InsertTask(s1, tk))

		sub := domain.SubtaskInput{WorkInput: domain.WorkInput{Name: "ST1", StartDate: day("2025-01-02"), EndDate: day("2025-01-03")}}.Build("st1", "", testNow)
		return tx.InsertSubtask(tk, sub)
	})
	require.NoError(t, err)
	return st
}

func TestLookup_ResolvesAncestors(t *testing.T) {
	st := seed(t)
	err := st.View(context.Background(), func(ctx context.Context, tx *Tx) error {
		ref, err := tx.FindSubtask("st1")
		require.NoError(t, err)
		assert.Equal(t, "t1", ref.Task.ID)
		assert.Equal(t, "s1", ref.Sprint.ID)
		assert.Equal(t, "tl1", ref.Timeline.ID)

		tref, err := tx.FindTask("t1")
		require.NoError(t, err)
		assert.Equal(t, "s1", tref.Sprint.ID)
		assert.Equal(t, "s1", tref.Task.SprintID)

		sref, err := tx.FindSprint("s2")
		require.NoError(t, err)
		assert.Equal(t, "tl1", sref.Timeline.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestLookup_NotFound(t *testing.T) {
	st := seed(t)
	_ = st.View(context.Background(), func(ctx context.Context, tx *Tx) error {
		_, err := tx.FindSprint("nonexistent")
		assert.True(t, domain.IsNotFound(err))
		_, err = tx.FindTask("s1")
		assert.True(t, domain.IsNotFound(err), "ids resolve only at their own level")
		_, err = tx.FindTimeline("nope")
		assert.True(t, domain.IsNotFound(err))
		_, err = tx.FindSubtask("t1")
		assert.True(t, domain.IsNotFound(err))
		return nil
	})
}

func TestTasksBySprintID_EmptyVersusMissing(t *testing.T) {
	st := seed(t)
	_ = st.View(context.Background(), func(ctx context.Context, tx *Tx) error {
		tasks, err := tx.TasksBySprintID("s2")
		require.NoError(t, err)
		assert.Empty(t, tasks)

		_, err = tx.TasksBySprintID("missing")
		assert.True(t, domain.IsNotFound(err))
		return nil
	})
}

func TestRemoveSprint_CascadesIndex(t *testing.T) {
	st := seed(t)
	err := st.WithinTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		ref, err := tx.FindSprint("s1")
		require.NoError(t, err)
		return tx.RemoveSprint(ref)
	})
	require.NoError(t, err)

	c := st.Counts()
	assert.Equal(t, Counts{Timelines: 1, Sprints: 1, Tasks: 0, Subtasks: 0}, c)
	_ = st.View(context.Background(), func(ctx context.Context, tx *Tx) error {
		_, err := tx.FindSubtask("st1")
		assert.True(t, domain.IsNotFound(err))
		tl, _ := tx.FindTimeline("tl1")
		require.Len(t, tl.Sprints, 1)
		assert.Equal(t, "s2", tl.Sprints[0].ID)
		return nil
	})
}

func TestMoveTask_ReassignsOwnership(t *testing.T) {
	st := seed(t)
	err := st.WithinTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		ref, err := tx.FindTask("t1")
		require.NoError(t, err)
		target, err := tx.FindSprint("s2")
		require.NoError(t, err)
		return tx.MoveTask(ref, target.Sprint)
	})
	require.NoError(t, err)

	_ = st.View(context.Background(), func(ctx context.Context, tx *Tx) error {
		s1, _ := tx.TasksBySprintID("s1")
		s2, _ := tx.TasksBySprintID("s2")
		assert.Empty(t, s1)
		require.Len(t, s2, 1)
		assert.Equal(t, "t1", s2[0].ID)

		ref, err := tx.FindSubtask("st1")
		require.NoError(t, err)
		assert.Equal(t, "s2", ref.Sprint.ID, "subtask ancestry follows the moved task")
		return nil
	})
}

func TestInsert_DuplicateIDRejected(t *testing.T) {
	st := seed(t)
	err := st.WithinTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		ref, _ := tx.FindSprint("s2")
		dup := domain.TaskInput{WorkInput: domain.WorkInput{Name: "dup", StartDate: day("2025-01-01"), EndDate: day("2025-01-01")}}.Build("t1", "", testNow)
		return tx.InsertTask(ref.Sprint, dup)
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestView_IsReadOnly(t *testing.T) {
	st := New()
	err := st.View(context.Background(), func(ctx context.Context, tx *Tx) error {
		return tx.InsertTimeline(&domain.Timeline{ID: "x"})
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestSnapshot_IsDetached(t *testing.T) {
	st := seed(t)
	snap := st.Snapshot(context.Background())
	snap.Timelines[0].Sprints[0].Tasks[0].Name = "mutated"

	_ = st.View(context.Background(), func(ctx context.Context, tx *Tx) error {
		ref, _ := tx.FindTask("t1")
		assert.Equal(t, "T1", ref.Task.Name)
		return nil
	})
}

func TestReplace_RoundTrip(t *testing.T) {
	src := seed(t)
	snap := src.Snapshot(context.Background())

	dst := New()
	require.NoError(t, dst.Replace(context.Background(), snap))
	assert.Equal(t, src.Counts(), dst.Counts())
	assert.Equal(t, snap, dst.Snapshot(context.Background()))
}

func TestReplace_RejectsDanglingBackReference(t *testing.T) {
	snap := seed(t).Snapshot(context.Background())
	snap.Timelines[0].Sprints[0].Tasks[0].SprintID = "elsewhere"

	dst := seed(t)
	err := dst.Replace(context.Background(), snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "back-reference")
	assert.Equal(t, 1, dst.Counts().Tasks, "store is unchanged on error")
}

func TestReplace_RejectsDuplicateIDs(t *testing.T) {
	snap := seed(t).Snapshot(context.Background())
	dup := snap.Timelines[0].Clone()
	snap.Timelines = append(snap.Timelines, dup)

	err := New().Replace(context.Background(), snap)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestConcurrentAccess_ReadersSeeConsistentForest(t *testing.T) {
	st := seed(t)
	ctx := context.Background()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			err := st.WithinTx(ctx, func(ctx context.Context, tx *Tx) error {
				ref, err := tx.FindSprint("s2")
				if err != nil {
					return err
				}
				tk := domain.TaskInput{WorkInput: domain.WorkInput{Name: "bulk", StartDate: day("2025-01-15"), EndDate: day("2025-01-16")}}.
					Build(fmt.Sprintf("bulk-%d", i), "", testNow)
				return tx.InsertTask(ref.Sprint, tk)
			})
			if err != nil {
				t.Errorf("writer: %v", err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = st.View(ctx, func(ctx context.Context, tx *Tx) error {
					for _, ref := range tx.AllTasks() {
						if ref.Task.SprintID != ref.Sprint.ID {
							t.Errorf("task %s back-reference %s != %s", ref.Task.ID, ref.Task.SprintID, ref.Sprint.ID)
						}
					}
					return nil
				})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 51, st.Counts().Tasks)
}
