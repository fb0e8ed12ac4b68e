package service

import (
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/store"
)

// Services is the full set of use cases over one store. Every member shares
// the same options, so observer, clock and change sink are common.
type Services struct {
	Timelines TimelineService
	Sprints   SprintService
	Tasks     TaskService
	Subtasks  SubtaskService
	Search    SearchService
	Import    ImportService
	Snapshots SnapshotService
}

// NewServices wires every service against st. Snapshots is nil when repo is
// nil.
func NewServices(st *store.Store, repo repository.SnapshotRepo, opts ...Option) *Services {
	svc := &Services{
		Timelines: NewTimelineService(st, opts...),
		Sprints:   NewSprintService(st, opts...),
		Tasks:     NewTaskService(st, opts...),
		Subtasks:  NewSubtaskService(st, opts...),
		Search:    NewSearchService(st, opts...),
		Import:    NewImportService(st, opts...),
	}
	if repo != nil {
		svc.Snapshots = NewSnapshotService(st, repo, opts...)
	}
	return svc
}
