package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ValidateSeedSchema checks the seed for errors before anything is created.
// Returns a slice of all validation errors found.
func ValidateSeedSchema(schema *SeedSchema) []error {
	var errs []error

	errs = append(errs, validateMembers(schema.Members)...)

	refs := collectTaskRefs(schema, &errs)
	for i, tl := range schema.Timelines {
		errs = append(errs, validateTimeline(fmt.Sprintf("timelines[%d]", i), &tl, refs)...)
	}

	return errs
}

func validateMembers(members []MemberSeed) []error {
	var errs []error
	ids := make(map[string]bool)

	for i, m := range members {
		prefix := fmt.Sprintf("members[%d]", i)
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if m.ID != "" {
			if ids[m.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, m.ID))
			}
			ids[m.ID] = true
		}
	}

	return errs
}

// collectTaskRefs gathers every task ref in the file so depends_on may point
// forward as well as backward.
func collectTaskRefs(schema *SeedSchema, errs *[]error) map[string]bool {
	refs := make(map[string]bool)
	for i, tl := range schema.Timelines {
		for j, sp := range tl.Sprints {
			for k, t := range sp.Tasks {
				if t.Ref == "" {
					continue
				}
				if refs[t.Ref] {
					*errs = append(*errs, fmt.Errorf("timelines[%d].sprints[%d].tasks[%d].ref: duplicate ref %q", i, j, k, t.Ref))
				}
				refs[t.Ref] = true
			}
		}
	}
	return refs
}

func validateTimeline(prefix string, tl *TimelineSeed, refs map[string]bool) []error {
	var errs []error

	if tl.ProjectID == "" {
		errs = append(errs, fmt.Errorf("%s.project_id is required", prefix))
	}
	if tl.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	errs = append(errs, validateRange(prefix, tl.StartDate, tl.EndDate)...)

	for i, sp := range tl.Sprints {
		errs = append(errs, validateSprint(fmt.Sprintf("%s.sprints[%d]", prefix, i), &sp, refs)...)
	}

	return errs
}

func validateSprint(prefix string, sp *SprintSeed, refs map[string]bool) []error {
	var errs []error

	if sp.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	errs = append(errs, validateRange(prefix, sp.StartDate, sp.EndDate)...)

	for i, t := range sp.Tasks {
		taskPrefix := fmt.Sprintf("%s.tasks[%d]", prefix, i)
		errs = append(errs, validateWork(taskPrefix, &t.WorkSeed)...)
		for _, dep := range t.DependsOn {
			if !refs[dep] {
				errs = append(errs, fmt.Errorf("%s.depends_on: ref %q not found in tasks", taskPrefix, dep))
			}
		}
		for j, st := range t.Subtasks {
			errs = append(errs, validateWork(fmt.Sprintf("%s.subtasks[%d]", taskPrefix, j), &st.WorkSeed)...)
		}
	}

	return errs
}

func validateWork(prefix string, w *WorkSeed) []error {
	var errs []error

	if w.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	errs = append(errs, validateRange(prefix, w.StartDate, w.EndDate)...)

	if w.Status != "" {
		if _, err := domain.ParseTaskStatus(w.Status); err != nil {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, w.Status))
		}
	}
	if w.Priority != "" {
		if _, err := domain.ParsePriority(w.Priority); err != nil {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, w.Priority))
		}
	}
	if w.Progress < 0 || w.Progress > 100 {
		errs = append(errs, fmt.Errorf("%s.progress: %d is outside 0-100", prefix, w.Progress))
	}

	return errs
}

func validateRange(prefix, start, end string) []error {
	var errs []error

	startDate, startErr := parseSeedDate(prefix+".start_date", start)
	if startErr != nil {
		errs = append(errs, startErr)
	}
	endDate, endErr := parseSeedDate(prefix+".end_date", end)
	if endErr != nil {
		errs = append(errs, endErr)
	}
	if startErr == nil && endErr == nil && endDate.Before(startDate) {
		errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", prefix, end, start))
	}

	return errs
}

func parseSeedDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}
