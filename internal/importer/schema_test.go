package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedSchema_File(t *testing.T) {
	schema, err := LoadSeedSchema("testdata/seed.yaml")
	require.NoError(t, err)

	require.Len(t, schema.Members, 2)
	assert.Equal(t, "m-ada", schema.Members[0].ID)
	assert.Equal(t, "", schema.Members[1].ID)

	require.Len(t, schema.Timelines, 1)
	tl := schema.Timelines[0]
	assert.Equal(t, "proj-apollo", tl.ProjectID)
	require.Len(t, tl.Sprints, 2)

	api := tl.Sprints[0].Tasks[1]
	assert.Equal(t, "api", api.Ref)
	assert.Equal(t, "Build API", api.Name)
	assert.Equal(t, "in_progress", api.Status)
	assert.Equal(t, []string{"schema"}, api.DependsOn)
	require.Len(t, api.Subtasks, 2)
	assert.Equal(t, "2025-01-10", api.Subtasks[1].StartDate)
}

func TestParseSeedSchema_JSON(t *testing.T) {
	data := []byte(`{"timelines":[{"project_id":"p","name":"T","start_date":"2025-01-01","end_date":"2025-01-31",` +
		`"sprints":[{"name":"S","start_date":"2025-01-01","end_date":"2025-01-10",` +
		`"tasks":[{"ref":"a","name":"A","start_date":"2025-01-02","end_date":"2025-01-03","progress":40}]}]}]}`)

	schema, err := ParseSeedSchema(data)
	require.NoError(t, err)
	task := schema.Timelines[0].Sprints[0].Tasks[0]
	assert.Equal(t, "A", task.Name)
	assert.Equal(t, 40, task.Progress)
}

func TestParseSeedSchema_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseSeedSchema([]byte("timelines: []\nprojects: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing seed file")
}

func TestParseSeedSchema_Empty(t *testing.T) {
	schema, err := ParseSeedSchema(nil)
	require.NoError(t, err)
	assert.Empty(t, schema.Timelines)
}

func TestLoadSeedSchema_MissingFile(t *testing.T) {
	_, err := LoadSeedSchema("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}
