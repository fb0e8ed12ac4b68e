package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedSchema is the top-level structure of a seed file. YAML is the native
// format; JSON files parse too since JSON is valid YAML.
type SeedSchema struct {
	Members   []MemberSeed   `yaml:"members,omitempty" json:"members,omitempty"`
	Timelines []TimelineSeed `yaml:"timelines" json:"timelines"`
}

// MemberSeed is an assignable member. ID is optional.
type MemberSeed struct {
	ID         string `yaml:"id,omitempty" json:"id,omitempty"`
	Name       string `yaml:"name" json:"name"`
	Email      string `yaml:"email,omitempty" json:"email,omitempty"`
	Role       string `yaml:"role,omitempty" json:"role,omitempty"`
	Department string `yaml:"department,omitempty" json:"department,omitempty"`
}

type TimelineSeed struct {
	ProjectID   string       `yaml:"project_id" json:"project_id"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	StartDate   string       `yaml:"start_date" json:"start_date"`
	EndDate     string       `yaml:"end_date" json:"end_date"`
	Sprints     []SprintSeed `yaml:"sprints,omitempty" json:"sprints,omitempty"`
}

type SprintSeed struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	StartDate   string     `yaml:"start_date" json:"start_date"`
	EndDate     string     `yaml:"end_date" json:"end_date"`
	Department  string     `yaml:"department,omitempty" json:"department,omitempty"`
	Resources   []string   `yaml:"resources,omitempty" json:"resources,omitempty"`
	Tasks       []TaskSeed `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// WorkSeed holds the fields tasks and subtasks share.
type WorkSeed struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	StartDate   string   `yaml:"start_date" json:"start_date"`
	EndDate     string   `yaml:"end_date" json:"end_date"`
	Status      string   `yaml:"status,omitempty" json:"status,omitempty"`
	Priority    string   `yaml:"priority,omitempty" json:"priority,omitempty"`
	Progress    int      `yaml:"progress,omitempty" json:"progress,omitempty"`
	Department  string   `yaml:"department,omitempty" json:"department,omitempty"`
	Resources   []string `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// TaskSeed is a task. Ref names the task for other tasks' depends_on lists;
// it is file-local and never stored.
type TaskSeed struct {
	WorkSeed  `yaml:",inline"`
	Ref       string        `yaml:"ref,omitempty" json:"ref,omitempty"`
	DependsOn []string      `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Subtasks  []SubtaskSeed `yaml:"subtasks,omitempty" json:"subtasks,omitempty"`
}

type SubtaskSeed struct {
	WorkSeed `yaml:",inline"`
}

// LoadSeedSchema reads and parses a seed file.
func LoadSeedSchema(path string) (*SeedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeedSchema(data)
}

// ParseSeedSchema parses seed file contents. Unknown keys are rejected.
func ParseSeedSchema(data []byte) (*SeedSchema, error) {
	var schema SeedSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &schema, nil
}
