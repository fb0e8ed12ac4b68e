package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/importer"
	"github.com/alexanderramin/tempo/internal/store"
)

type importService struct {
	base
	timelines TimelineService
	sprints   SprintService
	tasks     TaskService
	subtasks  SubtaskService
	members   SearchService
}

// NewImportService applies seed files through the hierarchy services, so
// every entity is created, reconciled and published exactly as an API call
// would do it.
func NewImportService(st *store.Store, opts ...Option) ImportService {
	return &importService{
		base:      newBase(st, opts),
		timelines: NewTimelineService(st, opts...),
		sprints:   NewSprintService(st, opts...),
		tasks:     NewTaskService(st, opts...),
		subtasks:  NewSubtaskService(st, opts...),
		members:   NewSearchService(st, opts...),
	}
}

func (s *importService) ImportSeed(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadSeedSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading seed file: %w", err)
	}
	return s.ImportSeedFromSchema(ctx, schema)
}

// ImportSeedFromSchema validates the whole seed before creating anything.
// Dependencies are attached after all tasks exist, so depends_on may refer
// to tasks later in the file.
func (s *importService) ImportSeedFromSchema(ctx context.Context, schema *importer.SeedSchema) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timelines": len(schema.Timelines)}
	defer func() { s.observe(ctx, "seed.import", startedAt, fields, err) }()

	if errs := importer.ValidateSeedSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	result = &ImportResult{}
	for _, m := range schema.Members {
		if _, err := s.members.AddMember(ctx, domain.Member{
			ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role, Department: m.Department,
		}); err != nil {
			return nil, fmt.Errorf("adding member %q: %w", m.Name, err)
		}
		result.MemberCount++
	}

	refs := make(map[string]string)
	type pendingDeps struct {
		taskID string
		refs   []string
	}
	var pending []pendingDeps

	for _, tlSeed := range schema.Timelines {
		tl, err := s.timelines.Create(ctx, domain.TimelineInput{
			ProjectID:   tlSeed.ProjectID,
			Name:        tlSeed.Name,
			Description: tlSeed.Description,
			StartDate:   mustDate(tlSeed.StartDate),
			EndDate:     mustDate(tlSeed.EndDate),
		})
		if err != nil {
			return nil, fmt.Errorf("creating timeline %q: %w", tlSeed.Name, err)
		}
		result.TimelineIDs = append(result.TimelineIDs, tl.ID)

		for _, spSeed := range tlSeed.Sprints {
			sp, err := s.sprints.Create(ctx, tl.ID, domain.SprintInput{
				Name:        spSeed.Name,
				Description: spSeed.Description,
				StartDate:   mustDate(spSeed.StartDate),
				EndDate:     mustDate(spSeed.EndDate),
				Department:  spSeed.Department,
				Resources:   spSeed.Resources,
			})
			if err != nil {
				return nil, fmt.Errorf("creating sprint %q: %w", spSeed.Name, err)
			}
			result.SprintCount++

			for _, tSeed := range spSeed.Tasks {
				task, err := s.tasks.Create(ctx, sp.ID, domain.TaskInput{WorkInput: workInput(tSeed.WorkSeed)})
				if err != nil {
					return nil, fmt.Errorf("creating task %q: %w", tSeed.Name, err)
				}
				result.TaskCount++
				if tSeed.Ref != "" {
					refs[tSeed.Ref] = task.ID
				}
				if len(tSeed.DependsOn) > 0 {
					pending = append(pending, pendingDeps{taskID: task.ID, refs: tSeed.DependsOn})
				}

				for _, stSeed := range tSeed.Subtasks {
					if _, err := s.subtasks.Create(ctx, task.ID, domain.SubtaskInput{WorkInput: workInput(stSeed.WorkSeed)}); err != nil {
						return nil, fmt.Errorf("creating subtask %q: %w", stSeed.Name, err)
					}
					result.SubtaskCount++
				}
			}
		}
	}

	for _, p := range pending {
		ids := make([]string, len(p.refs))
		for i, ref := range p.refs {
			ids[i] = refs[ref]
		}
		if _, err := s.tasks.Update(ctx, p.taskID, domain.TaskPatch{Dependencies: &ids}); err != nil {
			return nil, fmt.Errorf("attaching dependencies: %w", err)
		}
		result.DependencyCount += len(ids)
	}

	fields["sprints"] = result.SprintCount
	fields["tasks"] = result.TaskCount
	fields["subtasks"] = result.SubtaskCount
	return result, nil
}

func workInput(w importer.WorkSeed) domain.WorkInput {
	in := domain.WorkInput{
		Name:        w.Name,
		Description: w.Description,
		StartDate:   mustDate(w.StartDate),
		EndDate:     mustDate(w.EndDate),
		Progress:    w.Progress,
		Department:  w.Department,
		Resources:   w.Resources,
	}
	if w.Status != "" {
		in.Status, _ = domain.ParseTaskStatus(w.Status)
	}
	if w.Priority != "" {
		in.Priority, _ = domain.ParsePriority(w.Priority)
	}
	return in
}

// mustDate parses a date the seed validator has already accepted.
func mustDate(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return &domain.ValidationError{
		Message: fmt.Sprintf("seed validation failed (%d errors):\n  - %s", len(errs), strings.Join(msgs, "\n  - ")),
	}
}
