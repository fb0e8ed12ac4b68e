package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMinimalSchema() *SeedSchema {
	return &SeedSchema{
		Timelines: []TimelineSeed{{
			ProjectID: "p1",
			Name:      "Roadmap",
			StartDate: "2025-01-01",
			EndDate:   "2025-03-31",
			Sprints: []SprintSeed{{
				Name:      "Sprint 1",
				StartDate: "2025-01-01",
				EndDate:   "2025-01-14",
				Tasks: []TaskSeed{{
					Ref:      "t1",
					WorkSeed: WorkSeed{Name: "Task 1", StartDate: "2025-01-02", EndDate: "2025-01-03"},
				}},
			}},
		}},
	}
}

func TestValidateSeedSchema_ValidMinimal(t *testing.T) {
	errs := ValidateSeedSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateSeedSchema_ValidFile(t *testing.T) {
	schema, err := LoadSeedSchema("testdata/seed.yaml")
	require.NoError(t, err)
	assert.Empty(t, ValidateSeedSchema(schema))
}

func TestValidateSeedSchema_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *SeedSchema)
		wantMsg string
	}{
		{"missing project_id", func(s *SeedSchema) { s.Timelines[0].ProjectID = "" }, "timelines[0].project_id is required"},
		{"missing timeline name", func(s *SeedSchema) { s.Timelines[0].Name = "" }, "timelines[0].name is required"},
		{"missing start", func(s *SeedSchema) { s.Timelines[0].StartDate = "" }, "timelines[0].start_date is required"},
		{"bad end", func(s *SeedSchema) { s.Timelines[0].EndDate = "31/03/2025" }, "timelines[0].end_date: invalid date format"},
		{"inverted sprint", func(s *SeedSchema) { s.Timelines[0].Sprints[0].EndDate = "2024-12-31" }, "timelines[0].sprints[0].end_date \"2024-12-31\" must not be before"},
		{"missing task name", func(s *SeedSchema) { s.Timelines[0].Sprints[0].Tasks[0].Name = "" }, "timelines[0].sprints[0].tasks[0].name is required"},
		{"bad status", func(s *SeedSchema) { s.Timelines[0].Sprints[0].Tasks[0].Status = "blocked" }, "tasks[0].status: invalid value \"blocked\""},
		{"bad priority", func(s *SeedSchema) { s.Timelines[0].Sprints[0].Tasks[0].Priority = "urgent" }, "tasks[0].priority: invalid value \"urgent\""},
		{"progress over 100", func(s *SeedSchema) { s.Timelines[0].Sprints[0].Tasks[0].Progress = 101 }, "tasks[0].progress: 101 is outside 0-100"},
		{"unknown dependency", func(s *SeedSchema) { s.Timelines[0].Sprints[0].Tasks[0].DependsOn = []string{"nope"} }, "depends_on: ref \"nope\" not found in tasks"},
		{"member without name", func(s *SeedSchema) { s.Members = []MemberSeed{{Email: "x@example.com"}} }, "members[0].name is required"},
		{"duplicate member id", func(s *SeedSchema) {
			s.Members = []MemberSeed{{ID: "m1", Name: "A"}, {ID: "m1", Name: "B"}}
		}, "members[1].id: duplicate id \"m1\""},
		{"subtask missing end", func(s *SeedSchema) {
			s.Timelines[0].Sprints[0].Tasks[0].Subtasks = []SubtaskSeed{{WorkSeed: WorkSeed{Name: "ST", StartDate: "2025-01-02"}}}
		}, "tasks[0].subtasks[0].end_date is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			tt.mutate(s)
			errs := ValidateSeedSchema(s)
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.wantMsg) {
					found = true
				}
			}
			assert.True(t, found, "expected error containing %q, got %v", tt.wantMsg, errs)
		})
	}
}

func TestValidateSeedSchema_DuplicateTaskRef(t *testing.T) {
	s := validMinimalSchema()
	sp := &s.Timelines[0].Sprints[0]
	sp.Tasks = append(sp.Tasks, TaskSeed{
		Ref:      "t1",
		WorkSeed: WorkSeed{Name: "Task 2", StartDate: "2025-01-02", EndDate: "2025-01-03"},
	})

	errs := ValidateSeedSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate ref \"t1\"")
}

func TestValidateSeedSchema_ForwardDependency(t *testing.T) {
	s := validMinimalSchema()
	sp := &s.Timelines[0].Sprints[0]
	sp.Tasks[0].DependsOn = []string{"t2"}
	sp.Tasks = append(sp.Tasks, TaskSeed{
		Ref:      "t2",
		WorkSeed: WorkSeed{Name: "Task 2", StartDate: "2025-01-04", EndDate: "2025-01-05"},
	})

	assert.Empty(t, ValidateSeedSchema(s))
}

func TestValidateSeedSchema_CollectsAllErrors(t *testing.T) {
	s := validMinimalSchema()
	s.Timelines[0].Name = ""
	s.Timelines[0].Sprints[0].Name = ""
	s.Timelines[0].Sprints[0].Tasks[0].Name = ""

	assert.Len(t, ValidateSeedSchema(s), 3)
}
