package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (r *recordingSink) Publish(e ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic()
	}
	return out
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	store *store.Store
	svc   *Services
	clock *testutil.FixedClock
	sink  *recordingSink
	obs   *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: store.New(),
		clock: testutil.NewFixedClock(testEpoch),
		sink:  &recordingSink{},
		obs:   &recordingObserver{},
	}
	f.svc = NewServices(f.store, nil,
		WithClock(f.clock.Now),
		WithChangeSink(f.sink),
		WithObserver(f.obs),
		WithIDGenerator(testutil.SequentialIDs("id")),
	)
	return f
}

func (f *fixture) timeline(t *testing.T, name string) *domain.Timeline {
	t.Helper()
	tl, err := f.svc.Timelines.Create(context.Background(), testutil.NewTestTimelineInput(name))
	require.NoError(t, err)
	return tl
}

func (f *fixture) sprint(t *testing.T, timelineID, name, start, end string) *domain.Sprint {
	t.Helper()
	sp, err := f.svc.Sprints.Create(context.Background(), timelineID, testutil.NewTestSprintInput(name, start, end))
	require.NoError(t, err)
	return sp
}

func (f *fixture) task(t *testing.T, sprintID, name, start, end string) *domain.Task {
	t.Helper()
	task, err := f.svc.Tasks.Create(context.Background(), sprintID, testutil.NewTestTaskInput(name, testutil.WithDates(start, end)))
	require.NoError(t, err)
	return task
}

func (f *fixture) subtask(t *testing.T, taskID, name, start, end string) *domain.Subtask {
	t.Helper()
	st, err := f.svc.Subtasks.Create(context.Background(), taskID, testutil.NewTestSubtaskInput(name, testutil.WithDates(start, end)))
	require.NoError(t, err)
	return st
}

func (f *fixture) getTimeline(t *testing.T, id string) *domain.Timeline {
	t.Helper()
	tl, err := f.svc.Timelines.GetByID(context.Background(), id)
	require.NoError(t, err)
	return tl
}

func (f *fixture) getSprint(t *testing.T, id string) *domain.Sprint {
	t.Helper()
	sp, err := f.svc.Sprints.GetByID(context.Background(), id)
	require.NoError(t, err)
	return sp
}

func (f *fixture) getTask(t *testing.T, id string) *domain.Task {
	t.Helper()
	task, err := f.svc.Tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

func assertRange(t *testing.T, start, end string, r domain.DateRange) {
	t.Helper()
	assert.Equal(t, start, domain.FormatDate(r.Start), "start")
	assert.Equal(t, end, domain.FormatDate(r.End), "end")
}

func ptr[T any](v T) *T { return &v }
