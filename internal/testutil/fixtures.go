package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Date parses YYYY-MM-DD and panics on bad input. Test-only.
func Date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(fmt.Sprintf("testutil.Date(%q): %v", s, err))
	}
	return t
}

// Timeline options
type TimelineOption func(*domain.TimelineInput)

func WithTimelineDates(start, end string) TimelineOption {
	return func(in *domain.TimelineInput) {
		in.StartDate = Date(start)
		in.EndDate = Date(end)
	}
}

func WithProjectID(id string) TimelineOption {
	return func(in *domain.TimelineInput) {
		in.ProjectID = id
	}
}

func NewTestTimelineInput(name string, opts ...TimelineOption) domain.TimelineInput {
	in := domain.TimelineInput{
		ProjectID: "proj-1",
		Name:      name,
		StartDate: Date("2025-01-01"),
		EndDate:   Date("2025-12-31"),
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// Sprint options
type SprintOption func(*domain.SprintInput)

func WithSprintDepartment(d string) SprintOption {
	return func(in *domain.SprintInput) {
		in.Department = d
	}
}

func WithSprintResources(ids ...string) SprintOption {
	return func(in *domain.SprintInput) {
		in.Resources = ids
	}
}

func NewTestSprintInput(name, start, end string, opts ...SprintOption) domain.SprintInput {
	in := domain.SprintInput{
		Name:      name,
		StartDate: Date(start),
		EndDate:   Date(end),
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// WorkOption configures the fields tasks and subtasks share.
type WorkOption func(*domain.WorkInput)

func WithDates(start, end string) WorkOption {
	return func(in *domain.WorkInput) {
		in.StartDate = Date(start)
		in.EndDate = Date(end)
	}
}

func WithStatus(s domain.TaskStatus) WorkOption {
	return func(in *domain.WorkInput) {
		in.Status = s
	}
}

func WithPriority(p domain.Priority) WorkOption {
	return func(in *domain.WorkInput) {
		in.Priority = p
	}
}

func WithProgress(p int) WorkOption {
	return func(in *domain.WorkInput) {
		in.Progress = p
	}
}

func WithDepartment(d string) WorkOption {
	return func(in *domain.WorkInput) {
		in.Department = d
	}
}

func WithDescription(d string) WorkOption {
	return func(in *domain.WorkInput) {
		in.Description = d
	}
}

func WithResources(ids ...string) WorkOption {
	return func(in *domain.WorkInput) {
		in.Resources = ids
	}
}

func newWorkInput(name string, opts []WorkOption) domain.WorkInput {
	in := domain.WorkInput{
		Name:      name,
		StartDate: Date("2025-01-01"),
		EndDate:   Date("2025-01-05"),
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

func NewTestTaskInput(name string, opts ...WorkOption) domain.TaskInput {
	return domain.TaskInput{WorkInput: newWorkInput(name, opts)}
}

// NewTestTaskInputWithDeps is NewTestTaskInput plus a dependency list.
func NewTestTaskInputWithDeps(name string, deps []string, opts ...WorkOption) domain.TaskInput {
	in := NewTestTaskInput(name, opts...)
	in.Dependencies = deps
	return in
}

func NewTestSubtaskInput(name string, opts ...WorkOption) domain.SubtaskInput {
	return domain.SubtaskInput{WorkInput: newWorkInput(name, opts)}
}

// FixedClock is a controllable time source for WithClock.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(start time.Time) *FixedClock {
	return &FixedClock{now: start.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequentialIDs returns a generator producing prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
