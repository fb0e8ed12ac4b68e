package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearch(t *testing.T, f *fixture) (sprintID string) {
	t.Helper()
	ctx := context.Background()
	tl := f.timeline(t, "Roadmap")
	sp := f.sprint(t, tl.ID, "Sprint 1", "2025-01-01", "2025-01-14")

	inputs := []domain.TaskInput{
		testutil.NewTestTaskInput("Design schema",
			testutil.WithStatus(domain.StatusCompleted),
			testutil.WithPriority(domain.PriorityHigh),
			testutil.WithDepartment("Platform")),
		testutil.NewTestTaskInput("Build API",
			testutil.WithDescription("REST endpoints for the schema"),
			testutil.WithStatus(domain.StatusInProgress),
			testutil.WithDepartment("platform")),
		testutil.NewTestTaskInput("Dashboard",
			testutil.WithPriority(domain.PriorityCritical),
			testutil.WithDepartment("web")),
	}
	for _, in := range inputs {
		_, err := f.svc.Tasks.Create(ctx, sp.ID, in)
		require.NoError(t, err)
	}
	return sp.ID
}

func hitNames(hits []TaskHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Task.Name
	}
	return out
}

func TestSearchService_SearchTasks(t *testing.T) {
	f := newFixture(t)
	seedSearch(t, f)

	tests := []struct {
		name string
		q    TaskQuery
		want []string
	}{
		{"empty query matches all", TaskQuery{}, []string{"Design schema", "Build API", "Dashboard"}},
		{"name is case insensitive", TaskQuery{Text: "DASH"}, []string{"Dashboard"}},
		{"description matches", TaskQuery{Text: "schema"}, []string{"Design schema", "Build API"}},
		{"status", TaskQuery{Status: domain.StatusInProgress}, []string{"Build API"}},
		{"priority", TaskQuery{Priority: domain.PriorityMedium}, []string{"Build API"}},
		{"department folds case", TaskQuery{Department: "PLATFORM"}, []string{"Design schema", "Build API"}},
		{"filters combine", TaskQuery{Text: "schema", Status: domain.StatusCompleted}, []string{"Design schema"}},
		{"limit", TaskQuery{Limit: 2}, []string{"Design schema", "Build API"}},
		{"no match", TaskQuery{Text: "nothing"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := f.svc.Search.SearchTasks(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hitNames(hits))
		})
	}
}

func TestSearchService_HitsCarryContext(t *testing.T) {
	f := newFixture(t)
	sprintID := seedSearch(t, f)

	hits, err := f.svc.Search.SearchTasks(context.Background(), TaskQuery{Text: "dashboard"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, sprintID, hits[0].SprintID)
	assert.Equal(t, "Sprint 1", hits[0].SprintName)
	assert.Equal(t, "Roadmap", hits[0].TimelineName)

	hits[0].Task.Name = "changed"
	again, err := f.svc.Search.SearchTasks(context.Background(), TaskQuery{Text: "dashboard"})
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", again[0].Task.Name)
}

func TestSearchService_Members(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ada, err := f.svc.Search.AddMember(ctx, domain.Member{ID: "m-ada", Name: " Ada Lovelace ", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", ada.Name)

	grace, err := f.svc.Search.AddMember(ctx, domain.Member{Name: "Grace Hopper", Email: "grace@navy.mil"})
	require.NoError(t, err)
	assert.NotEmpty(t, grace.ID)

	byEmail, err := f.svc.Search.SearchMembers(ctx, "NAVY")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, grace.ID, byEmail[0].ID)

	all, err := f.svc.Search.SearchMembers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearchService_AddMemberRejectsDuplicateID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Search.AddMember(ctx, domain.Member{ID: "m-1", Name: "A"})
	require.NoError(t, err)

	_, err = f.svc.Search.AddMember(ctx, domain.Member{ID: "m-1", Name: "B"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
	assert.Equal(t, "member.add", f.obs.last().Name)
	assert.False(t, f.obs.last().Success)

	_, err = f.svc.Search.AddMember(ctx, domain.Member{Name: "  "})
	assert.True(t, domain.IsValidation(err))
}
