package domain

import (
	"fmt"
	"time"
)

// TimelineInput carries the caller-supplied fields for a new timeline.
type TimelineInput struct {
	ProjectID   string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

func (in TimelineInput) Validate() error {
	if trimID(in.ProjectID) == "" {
		return Required("projectId")
	}
	if trimID(in.Name) == "" {
		return Required("name")
	}
	return validateRange(in.StartDate, in.EndDate)
}

// Build materializes a Timeline with an empty sprint list.
func (in TimelineInput) Build(id string, now time.Time) *Timeline {
	return &Timeline{
		ID:          id,
		ProjectID:   trimID(in.ProjectID),
		Name:        trimID(in.Name),
		Description: in.Description,
		StartDate:   NormalizeDate(in.StartDate),
		EndDate:     NormalizeDate(in.EndDate),
		Sprints:     []*Sprint{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type SprintInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Department  string
	Resources   []string
}

func (in SprintInput) Validate() error {
	if trimID(in.Name) == "" {
		return Required("name")
	}
	return validateRange(in.StartDate, in.EndDate)
}

func (in SprintInput) Build(id, timelineID string, now time.Time) *Sprint {
	s := &Sprint{
		ID:          id,
		TimelineID:  timelineID,
		Name:        trimID(in.Name),
		Description: in.Description,
		Department:  in.Department,
		Resources:   NormalizeSet(in.Resources),
		Tasks:       []*Task{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.SetRange(DateRange{Start: NormalizeDate(in.StartDate), End: NormalizeDate(in.EndDate)})
	return s
}

// WorkInput holds the fields tasks and subtasks share.
type WorkInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Status      TaskStatus
	Priority    Priority
	Progress    int
	Department  string
	Resources   []string
}

func (in WorkInput) Validate() error {
	if trimID(in.Name) == "" {
		return Required("name")
	}
	if err := validateRange(in.StartDate, in.EndDate); err != nil {
		return err
	}
	if in.Status != "" && !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", in.Status)}
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", in.Priority)}
	}
	return validateProgress(in.Progress)
}

func (in WorkInput) status() TaskStatus {
	return TaskStatus(CoalesceStr(string(in.Status), string(StatusNotStarted)))
}

func (in WorkInput) priority() Priority {
	return Priority(CoalesceStr(string(in.Priority), string(PriorityMedium)))
}

type TaskInput struct {
	WorkInput
	Dependencies []string
}

func (in TaskInput) Build(id, sprintID string, now time.Time) *Task {
	t := &Task{
		ID:           id,
		SprintID:     sprintID,
		Name:         trimID(in.Name),
		Description:  in.Description,
		Status:       in.status(),
		Priority:     in.priority(),
		Progress:     in.Progress,
		Department:   in.Department,
		Resources:    NormalizeSet(in.Resources),
		Dependencies: NormalizeSet(in.Dependencies),
		Subtasks:     []*Subtask{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	t.SetRange(DateRange{Start: NormalizeDate(in.StartDate), End: NormalizeDate(in.EndDate)})
	return t
}

type SubtaskInput struct {
	WorkInput
}

func (in SubtaskInput) Build(id, taskID string, now time.Time) *Subtask {
	s := &Subtask{
		ID:          id,
		TaskID:      taskID,
		Name:        trimID(in.Name),
		Description: in.Description,
		Status:      in.status(),
		Priority:    in.priority(),
		Progress:    in.Progress,
		Department:  in.Department,
		Resources:   NormalizeSet(in.Resources),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.SetRange(DateRange{Start: NormalizeDate(in.StartDate), End: NormalizeDate(in.EndDate)})
	return s
}

func validateProgress(p int) error {
	if p < 0 || p > 100 {
		return &ValidationError{Field: "progress", Message: fmt.Sprintf("%d is outside 0-100", p)}
	}
	return nil
}
