package domain

import (
	"fmt"
	"time"
)

// TimelinePatch holds optional edits; nil fields are left unchanged.
type TimelinePatch struct {
	ProjectID   *string
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Apply validates the merged result and then writes it to t. It reports
// whether the date range changed. On error t is untouched.
func (p TimelinePatch) Apply(t *Timeline) (bool, error) {
	if p.ProjectID != nil && trimID(*p.ProjectID) == "" {
		return false, Required("projectId")
	}
	if err := checkName(p.Name); err != nil {
		return false, err
	}
	r, changed, err := mergeRange(t.Range(), p.StartDate, p.EndDate)
	if err != nil {
		return false, err
	}

	t.ProjectID = trimID(StrFromPtrWithDefault(t.ProjectID, p.ProjectID))
	t.Name = trimID(StrFromPtrWithDefault(t.Name, p.Name))
	t.Description = StrFromPtrWithDefault(t.Description, p.Description)
	t.SetRange(r)
	return changed, nil
}

type SprintPatch struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Department  *string
	Resources   *[]string
}

func (p SprintPatch) Apply(s *Sprint) (bool, error) {
	if err := checkName(p.Name); err != nil {
		return false, err
	}
	r, changed, err := mergeRange(s.Range(), p.StartDate, p.EndDate)
	if err != nil {
		return false, err
	}

	s.Name = trimID(StrFromPtrWithDefault(s.Name, p.Name))
	s.Description = StrFromPtrWithDefault(s.Description, p.Description)
	s.Department = StrFromPtrWithDefault(s.Department, p.Department)
	if p.Resources != nil {
		s.Resources = NormalizeSet(*p.Resources)
	}
	s.SetRange(r)
	return changed, nil
}

// WorkPatch holds the optional edits tasks and subtasks share.
type WorkPatch struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *TaskStatus
	Priority    *Priority
	Progress    *int
	Department  *string
	Resources   *[]string
}

func (p WorkPatch) validate() error {
	if err := checkName(p.Name); err != nil {
		return err
	}
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *p.Status)}
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *p.Priority)}
	}
	if p.Progress != nil {
		return validateProgress(*p.Progress)
	}
	return nil
}

type TaskPatch struct {
	WorkPatch
	Dependencies *[]string
}

func (p TaskPatch) Apply(t *Task) (bool, error) {
	if err := p.validate(); err != nil {
		return false, err
	}
	r, changed, err := mergeRange(t.Range(), p.StartDate, p.EndDate)
	if err != nil {
		return false, err
	}

	t.Name = trimID(StrFromPtrWithDefault(t.Name, p.Name))
	t.Description = StrFromPtrWithDefault(t.Description, p.Description)
	t.Department = StrFromPtrWithDefault(t.Department, p.Department)
	t.Progress = IntFromPtrWithDefault(t.Progress, p.Progress)
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Resources != nil {
		t.Resources = NormalizeSet(*p.Resources)
	}
	if p.Dependencies != nil {
		t.Dependencies = NormalizeSet(*p.Dependencies)
	}
	t.SetRange(r)
	return changed, nil
}

type SubtaskPatch struct {
	WorkPatch
}

func (p SubtaskPatch) Apply(s *Subtask) (bool, error) {
	if err := p.validate(); err != nil {
		return false, err
	}
	r, changed, err := mergeRange(s.Range(), p.StartDate, p.EndDate)
	if err != nil {
		return false, err
	}

	s.Name = trimID(StrFromPtrWithDefault(s.Name, p.Name))
	s.Description = StrFromPtrWithDefault(s.Description, p.Description)
	s.Department = StrFromPtrWithDefault(s.Department, p.Department)
	s.Progress = IntFromPtrWithDefault(s.Progress, p.Progress)
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Priority != nil {
		s.Priority = *p.Priority
	}
	if p.Resources != nil {
		s.Resources = NormalizeSet(*p.Resources)
	}
	s.SetRange(r)
	return changed, nil
}

func checkName(name *string) error {
	if name != nil && trimID(*name) == "" {
		return Required("name")
	}
	return nil
}

// mergeRange overlays the optional dates on cur and validates the result.
// Either bound may be edited alone; the duration is always recomputed from
// the merged pair.
func mergeRange(cur DateRange, start, end *time.Time) (DateRange, bool, error) {
	next := cur
	if start != nil {
		next.Start = NormalizeDate(*start)
	}
	if end != nil {
		next.End = NormalizeDate(*end)
	}
	if err := validateRange(next.Start, next.End); err != nil {
		return cur, false, err
	}
	changed := !next.Start.Equal(cur.Start) || !next.End.Equal(cur.End)
	return next, changed, nil
}
