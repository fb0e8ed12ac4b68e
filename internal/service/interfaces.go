package service

import (
	"context"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/importer"
)

// Every method returns detached copies; mutating a returned entity never
// affects the store.

type TimelineService interface {
	Create(ctx context.Context, in domain.TimelineInput) (*domain.Timeline, error)
	GetByID(ctx context.Context, id string) (*domain.Timeline, error)
	List(ctx context.Context) ([]*domain.Timeline, error)
	Update(ctx context.Context, id string, patch domain.TimelinePatch) (*domain.Timeline, error)
	Delete(ctx context.Context, id string) error
}

type SprintService interface {
	Create(ctx context.Context, timelineID string, in domain.SprintInput) (*domain.Sprint, error)
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	ListByTimeline(ctx context.Context, timelineID string) ([]*domain.Sprint, error)
	Update(ctx context.Context, id string, patch domain.SprintPatch) (*domain.Sprint, error)
	Delete(ctx context.Context, id string) error
}

type TaskService interface {
	Create(ctx context.Context, sprintID string, in domain.TaskInput) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListBySprint(ctx context.Context, sprintID string) ([]*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Move(ctx context.Context, taskID, targetSprintID string) (*domain.Task, error)
	Shift(ctx context.Context, taskID string, days int) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type SubtaskService interface {
	Create(ctx context.Context, taskID string, in domain.SubtaskInput) (*domain.Subtask, error)
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Subtask, error)
	Update(ctx context.Context, id string, patch domain.SubtaskPatch) (*domain.Subtask, error)
	Delete(ctx context.Context, id string) error
}

// TaskQuery filters the flattened task list. Empty fields match everything.
type TaskQuery struct {
	Text       string
	Status     domain.TaskStatus
	Priority   domain.Priority
	Department string
	Limit      int
}

// TaskHit is a search result with enough context to label it in a picker.
type TaskHit struct {
	Task         *domain.Task
	SprintID     string
	SprintName   string
	TimelineID   string
	TimelineName string
}

type SearchService interface {
	SearchTasks(ctx context.Context, q TaskQuery) ([]TaskHit, error)
	SearchMembers(ctx context.Context, text string) ([]*domain.Member, error)
	AddMember(ctx context.Context, m domain.Member) (*domain.Member, error)
}

// SnapshotStats summarizes what a save or load moved.
type SnapshotStats struct {
	Timelines int `json:"timelines"`
	Sprints   int `json:"sprints"`
	Tasks     int `json:"tasks"`
	Subtasks  int `json:"subtasks"`
	Members   int `json:"members"`
}

type SnapshotService interface {
	Save(ctx context.Context) (*SnapshotStats, error)
	Load(ctx context.Context) (*SnapshotStats, error)
}

// ImportResult summarizes what a seed import created.
type ImportResult struct {
	TimelineIDs     []string
	SprintCount     int
	TaskCount       int
	SubtaskCount    int
	MemberCount     int
	DependencyCount int
}

type ImportService interface {
	ImportSeed(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSeedFromSchema(ctx context.Context, schema *importer.SeedSchema) (*ImportResult, error)
}
