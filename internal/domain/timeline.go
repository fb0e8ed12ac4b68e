package domain

import (
	"slices"
	"time"
)

// Timeline is the root of the hierarchy: a project's planned work.
type Timeline struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Sprints     []*Sprint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Timeline) Range() DateRange { return DateRange{Start: t.StartDate, End: t.EndDate} }

// Duration is derived from the range; timelines do not store it.
func (t *Timeline) Duration() int { return InclusiveDays(t.StartDate, t.EndDate) }

// SetRange overwrites the timeline's dates.
func (t *Timeline) SetRange(r DateRange) {
	t.StartDate, t.EndDate = r.Start, r.End
}

// Reconcile derives the range from the sprints. It reports false and leaves
// the range untouched when there are no sprints.
func (t *Timeline) Reconcile() bool {
	r, ok := Reconcile(t.Sprints)
	if ok {
		t.SetRange(r)
	}
	return ok
}

func (t *Timeline) Clone() *Timeline {
	if t == nil {
		return nil
	}
	c := *t
	if t.Sprints != nil {
		c.Sprints = make([]*Sprint, len(t.Sprints))
		for i, s := range t.Sprints {
			c.Sprints[i] = s.Clone()
		}
	}
	return &c
}

// TaskCount returns the number of tasks across all sprints.
func (t *Timeline) TaskCount() int {
	n := 0
	for _, s := range t.Sprints {
		n += len(s.Tasks)
	}
	return n
}

type Sprint struct {
	ID          string
	TimelineID  string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Duration    int
	Department  string
	Resources   []string
	Tasks       []*Task
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Sprint) Range() DateRange { return DateRange{Start: s.StartDate, End: s.EndDate} }

// SetRange overwrites the dates and recomputes Duration.
func (s *Sprint) SetRange(r DateRange) {
	s.StartDate, s.EndDate = r.Start, r.End
	s.Duration = r.Duration()
}

func (s *Sprint) Reconcile() bool {
	r, ok := Reconcile(s.Tasks)
	if ok {
		s.SetRange(r)
	}
	return ok
}

func (s *Sprint) Clone() *Sprint {
	if s == nil {
		return nil
	}
	c := *s
	c.Resources = slices.Clone(s.Resources)
	if s.Tasks != nil {
		c.Tasks = make([]*Task, len(s.Tasks))
		for i, t := range s.Tasks {
			c.Tasks[i] = t.Clone()
		}
	}
	return &c
}

type Task struct {
	ID           string
	SprintID     string
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	Duration     int
	Status       TaskStatus
	Priority     Priority
	Progress     int
	Department   string
	Resources    []string
	Dependencies []string
	Subtasks     []*Subtask
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t *Task) Range() DateRange { return DateRange{Start: t.StartDate, End: t.EndDate} }

func (t *Task) SetRange(r DateRange) {
	t.StartDate, t.EndDate = r.Start, r.End
	t.Duration = r.Duration()
}

func (t *Task) Reconcile() bool {
	r, ok := Reconcile(t.Subtasks)
	if ok {
		t.SetRange(r)
	}
	return ok
}

// Shift moves the task and all of its subtasks by n days. Durations are
// unchanged. If any shifted date would leave the supported years nothing is
// moved and a ValidationError is returned.
func (t *Task) Shift(n int) error {
	if err := t.Range().ValidateShift("days", n); err != nil {
		return err
	}
	for _, st := range t.Subtasks {
		if err := st.Range().ValidateShift("days", n); err != nil {
			return err
		}
	}
	t.SetRange(DateRange{Start: ShiftDays(t.StartDate, n), End: ShiftDays(t.EndDate, n)})
	for _, st := range t.Subtasks {
		st.SetRange(DateRange{Start: ShiftDays(st.StartDate, n), End: ShiftDays(st.EndDate, n)})
	}
	return nil
}

func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Resources = slices.Clone(t.Resources)
	c.Dependencies = slices.Clone(t.Dependencies)
	if t.Subtasks != nil {
		c.Subtasks = make([]*Subtask, len(t.Subtasks))
		for i, st := range t.Subtasks {
			c.Subtasks[i] = st.Clone()
		}
	}
	return &c
}

// Subtask is the leaf of the hierarchy.
type Subtask struct {
	ID          string
	TaskID      string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Duration    int
	Status      TaskStatus
	Priority    Priority
	Progress    int
	Department  string
	Resources   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Subtask) Range() DateRange { return DateRange{Start: s.StartDate, End: s.EndDate} }

func (s *Subtask) SetRange(r DateRange) {
	s.StartDate, s.EndDate = r.Start, r.End
	s.Duration = r.Duration()
}

func (s *Subtask) Clone() *Subtask {
	if s == nil {
		return nil
	}
	c := *s
	c.Resources = slices.Clone(s.Resources)
	return &c
}

// NormalizeSet trims, drops empties and de-duplicates ids while keeping
// first-seen order. A nil result means the set is empty.
func NormalizeSet(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = trimID(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
