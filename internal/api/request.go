package api

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Requests double as create bodies and partial updates: absent fields are
// nil. Dates travel as YYYY-MM-DD strings.

type timelineRequest struct {
	ProjectID   *string `json:"projectId"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

type sprintRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	Department  *string   `json:"department"`
	Resources   *[]string `json:"resources"`
}

type workRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	Status      *string   `json:"status"`
	Priority    *string   `json:"priority"`
	Progress    *int      `json:"progress"`
	Department  *string   `json:"department"`
	Resources   *[]string `json:"resources"`
}

type taskRequest struct {
	workRequest
	Dependencies *[]string `json:"dependencies"`
}

type subtaskRequest struct {
	workRequest
}

type moveRequest struct {
	TargetSprintID string `json:"targetSprintId"`
}

type shiftRequest struct {
	Days *int `json:"days"`
}

type memberRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strs(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}

// createDate parses a required date. Absent dates stay zero so input
// validation reports them by field name.
func createDate(field string, p *string) (time.Time, error) {
	if p == nil || *p == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(field, *p)
}

func patchDate(field string, p *string) (*time.Time, error) {
	if p == nil {
		return nil, nil
	}
	t, err := domain.ParseDate(field, *p)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r timelineRequest) input() (domain.TimelineInput, error) {
	start, err := createDate("startDate", r.StartDate)
	if err != nil {
		return domain.TimelineInput{}, err
	}
	end, err := createDate("endDate", r.EndDate)
	if err != nil {
		return domain.TimelineInput{}, err
	}
	return domain.TimelineInput{
		ProjectID:   str(r.ProjectID),
		Name:        str(r.Name),
		Description: str(r.Description),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func (r timelineRequest) patch() (domain.TimelinePatch, error) {
	start, err := patchDate("startDate", r.StartDate)
	if err != nil {
		return domain.TimelinePatch{}, err
	}
	end, err := patchDate("endDate", r.EndDate)
	if err != nil {
		return domain.TimelinePatch{}, err
	}
	return domain.TimelinePatch{
		ProjectID:   r.ProjectID,
		Name:        r.Name,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func (r sprintRequest) input() (domain.SprintInput, error) {
	start, err := createDate("startDate", r.StartDate)
	if err != nil {
		return domain.SprintInput{}, err
	}
	end, err := createDate("endDate", r.EndDate)
	if err != nil {
		return domain.SprintInput{}, err
	}
	return domain.SprintInput{
		Name:        str(r.Name),
		Description: str(r.Description),
		StartDate:   start,
		EndDate:     end,
		Department:  str(r.Department),
		Resources:   strs(r.Resources),
	}, nil
}

func (r sprintRequest) patch() (domain.SprintPatch, error) {
	start, err := patchDate("startDate", r.StartDate)
	if err != nil {
		return domain.SprintPatch{}, err
	}
	end, err := patchDate("endDate", r.EndDate)
	if err != nil {
		return domain.SprintPatch{}, err
	}
	return domain.SprintPatch{
		Name:        r.Name,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		Department:  r.Department,
		Resources:   r.Resources,
	}, nil
}

func (r workRequest) input() (domain.WorkInput, error) {
	start, err := createDate("startDate", r.StartDate)
	if err != nil {
		return domain.WorkInput{}, err
	}
	end, err := createDate("endDate", r.EndDate)
	if err != nil {
		return domain.WorkInput{}, err
	}
	in := domain.WorkInput{
		Name:        str(r.Name),
		Description: str(r.Description),
		StartDate:   start,
		EndDate:     end,
		Department:  str(r.Department),
		Resources:   strs(r.Resources),
	}
	if r.Progress != nil {
		in.Progress = *r.Progress
	}
	if r.Status != nil && *r.Status != "" {
		if in.Status, err = domain.ParseTaskStatus(*r.Status); err != nil {
			return domain.WorkInput{}, err
		}
	}
	if r.Priority != nil && *r.Priority != "" {
		if in.Priority, err = domain.ParsePriority(*r.Priority); err != nil {
			return domain.WorkInput{}, err
		}
	}
	return in, nil
}

func (r workRequest) patch() (domain.WorkPatch, error) {
	start, err := patchDate("startDate", r.StartDate)
	if err != nil {
		return domain.WorkPatch{}, err
	}
	end, err := patchDate("endDate", r.EndDate)
	if err != nil {
		return domain.WorkPatch{}, err
	}
	p := domain.WorkPatch{
		Name:        r.Name,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		Progress:    r.Progress,
		Department:  r.Department,
		Resources:   r.Resources,
	}
	if r.Status != nil {
		s, err := domain.ParseTaskStatus(*r.Status)
		if err != nil {
			return domain.WorkPatch{}, err
		}
		p.Status = &s
	}
	if r.Priority != nil {
		pr, err := domain.ParsePriority(*r.Priority)
		if err != nil {
			return domain.WorkPatch{}, err
		}
		p.Priority = &pr
	}
	return p, nil
}

func (r taskRequest) input() (domain.TaskInput, error) {
	w, err := r.workRequest.input()
	if err != nil {
		return domain.TaskInput{}, err
	}
	return domain.TaskInput{WorkInput: w, Dependencies: strs(r.Dependencies)}, nil
}

func (r taskRequest) patch() (domain.TaskPatch, error) {
	w, err := r.workRequest.patch()
	if err != nil {
		return domain.TaskPatch{}, err
	}
	return domain.TaskPatch{WorkPatch: w, Dependencies: r.Dependencies}, nil
}
