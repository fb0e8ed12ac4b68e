package api

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
)

// Responses render dates as YYYY-MM-DD and timestamps as RFC3339.

type timelineResponse struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"projectId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	Duration    int              `json:"duration"`
	Sprints     []sprintResponse `json:"sprints"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type sprintResponse struct {
	ID          string         `json:"id"`
	TimelineID  string         `json:"timelineId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Duration    int            `json:"duration"`
	Department  string         `json:"department"`
	Resources   []string       `json:"resources"`
	Tasks       []taskResponse `json:"tasks"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type taskResponse struct {
	ID           string            `json:"id"`
	SprintID     string            `json:"sprintId"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	StartDate    string            `json:"startDate"`
	EndDate      string            `json:"endDate"`
	Duration     int               `json:"duration"`
	Status       string            `json:"status"`
	Priority     string            `json:"priority"`
	Progress     int               `json:"progress"`
	Department   string            `json:"department"`
	Resources    []string          `json:"resources"`
	Dependencies []string          `json:"dependencies"`
	Subtasks     []subtaskResponse `json:"subtasks"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type subtaskResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Duration    int       `json:"duration"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Progress    int       `json:"progress"`
	Department  string    `json:"department"`
	Resources   []string  `json:"resources"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type taskHitResponse struct {
	Task         taskResponse `json:"task"`
	SprintID     string       `json:"sprintId"`
	SprintName   string       `json:"sprintName"`
	TimelineID   string       `json:"timelineId"`
	TimelineName string       `json:"timelineName"`
}

type memberResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toTimelineResponse(t *domain.Timeline) timelineResponse {
	out := timelineResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Name:        t.Name,
		Description: t.Description,
		StartDate:   domain.FormatDate(t.StartDate),
		EndDate:     domain.FormatDate(t.EndDate),
		Duration:    t.Duration(),
		Sprints:     make([]sprintResponse, len(t.Sprints)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for i, s := range t.Sprints {
		out.Sprints[i] = toSprintResponse(s)
	}
	return out
}

func toSprintResponse(s *domain.Sprint) sprintResponse {
	out := sprintResponse{
		ID:          s.ID,
		TimelineID:  s.TimelineID,
		Name:        s.Name,
		Description: s.Description,
		StartDate:   domain.FormatDate(s.StartDate),
		EndDate:     domain.FormatDate(s.EndDate),
		Duration:    s.Duration,
		Department:  s.Department,
		Resources:   nonNil(s.Resources),
		Tasks:       make([]taskResponse, len(s.Tasks)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = toTaskResponse(t)
	}
	return out
}

func toTaskResponse(t *domain.Task) taskResponse {
	out := taskResponse{
		ID:           t.ID,
		SprintID:     t.SprintID,
		Name:         t.Name,
		Description:  t.Description,
		StartDate:    domain.FormatDate(t.StartDate),
		EndDate:      domain.FormatDate(t.EndDate),
		Duration:     t.Duration,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		Progress:     t.Progress,
		Department:   t.Department,
		Resources:    nonNil(t.Resources),
		Dependencies: nonNil(t.Dependencies),
		Subtasks:     make([]subtaskResponse, len(t.Subtasks)),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	for i, st := range t.Subtasks {
		out.Subtasks[i] = toSubtaskResponse(st)
	}
	return out
}

func toSubtaskResponse(s *domain.Subtask) subtaskResponse {
	return subtaskResponse{
		ID:          s.ID,
		TaskID:      s.TaskID,
		Name:        s.Name,
		Description: s.Description,
		StartDate:   domain.FormatDate(s.StartDate),
		EndDate:     domain.FormatDate(s.EndDate),
		Duration:    s.Duration,
		Status:      string(s.Status),
		Priority:    string(s.Priority),
		Progress:    s.Progress,
		Department:  s.Department,
		Resources:   nonNil(s.Resources),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toTaskHitResponses(hits []service.TaskHit) []taskHitResponse {
	out := make([]taskHitResponse, len(hits))
	for i, h := range hits {
		out[i] = taskHitResponse{
			Task:         toTaskResponse(h.Task),
			SprintID:     h.SprintID,
			SprintName:   h.SprintName,
			TimelineID:   h.TimelineID,
			TimelineName: h.TimelineName,
		}
	}
	return out
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role, Department: m.Department}
}
