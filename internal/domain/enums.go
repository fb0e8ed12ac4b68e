package domain

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOnHold     TaskStatus = "on-hold"
	StatusCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatuses is the canonical set of accepted status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusOnHold:     true,
	StatusCancelled:  true,
}

func (s TaskStatus) Valid() bool {
	return ValidTaskStatuses[s]
}

// ParseTaskStatus accepts both hyphenated and underscored spellings
// ("in-progress", "in_progress") in any case.
func ParseTaskStatus(s string) (TaskStatus, error) {
	norm := TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !norm.Valid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
	}
	return norm, nil
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[Priority]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

func (p Priority) Valid() bool {
	return ValidPriorities[p]
}

func ParsePriority(s string) (Priority, error) {
	norm := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !norm.Valid() {
		return "", &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", s)}
	}
	return norm, nil
}

// Level identifies a tier of the timeline hierarchy.
type Level string

const (
	LevelTimeline Level = "timeline"
	LevelSprint   Level = "sprint"
	LevelTask     Level = "task"
	LevelSubtask  Level = "subtask"
)
