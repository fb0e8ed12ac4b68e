package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
	"github.com/google/uuid"
)

// Option configures the hierarchy services.
type Option func(*base)

// WithObserver sets the use-case observer. Nil observers are ignored.
func WithObserver(obs UseCaseObserver) Option {
	return func(b *base) {
		if obs != nil {
			b.observer = obs
		}
	}
}

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// WithChangeSink registers a receiver for change events.
func WithChangeSink(sink ChangeSink) Option {
	return func(b *base) {
		if sink != nil {
			b.sink = sink
		}
	}
}

// WithIDGenerator overrides uuid-based id assignment.
func WithIDGenerator(gen func() string) Option {
	return func(b *base) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// base carries the collaborators every hierarchy service shares.
type base struct {
	store    *store.Store
	observer UseCaseObserver
	sink     ChangeSink
	now      func() time.Time
	newID    func() string
}

func newBase(st *store.Store, opts []Option) base {
	b := base{
		store:    st,
		observer: NoopUseCaseObserver{},
		sink:     noopSink{},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	b.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (b *base) publish(events ...ChangeEvent) {
	for _, e := range events {
		b.sink.Publish(e)
	}
}

// ancestors is the chain above a changed entity, nearest first. Nil links
// are skipped.
type ancestors struct {
	task     *domain.Task
	sprint   *domain.Sprint
	timeline *domain.Timeline
}

// propagate is the single upward pass every mutation ends with. Each
// ancestor, nearest first, re-derives its range from its children and has
// UpdatedAt refreshed. An ancestor with no children keeps its last range.
func (a ancestors) propagate(now time.Time) {
	if a.task != nil {
		a.task.Reconcile()
		a.task.UpdatedAt = now
	}
	if a.sprint != nil {
		a.sprint.Reconcile()
		a.sprint.UpdatedAt = now
	}
	if a.timeline != nil {
		a.timeline.Reconcile()
		a.timeline.UpdatedAt = now
	}
}

// touch refreshes UpdatedAt on the chain without re-deriving ranges; used
// when only non-date fields changed below.
func (a ancestors) touch(now time.Time) {
	if a.task != nil {
		a.task.UpdatedAt = now
	}
	if a.sprint != nil {
		a.sprint.UpdatedAt = now
	}
	if a.timeline != nil {
		a.timeline.UpdatedAt = now
	}
}

func isCallerError(err error) bool {
	return domain.IsNotFound(err) || domain.IsValidation(err)
}

func cloneTasks(in []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
