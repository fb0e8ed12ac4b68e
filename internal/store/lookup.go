package store

import "github.com/alexanderramin/tempo/internal/domain"

// SprintRef is a sprint together with its owning timeline.
type SprintRef struct {
	Sprint   *domain.Sprint
	Timeline *domain.Timeline
}

// TaskRef is a task together with its ancestor chain.
type TaskRef struct {
	Task     *domain.Task
	Sprint   *domain.Sprint
	Timeline *domain.Timeline
}

// SubtaskRef is a subtask together with its ancestor chain.
type SubtaskRef struct {
	Subtask  *domain.Subtask
	Task     *domain.Task
	Sprint   *domain.Sprint
	Timeline *domain.Timeline
}

// Tx is the handle passed to WithinTx and View callbacks.
type Tx struct {
	s        *Store
	writable bool
}

func (tx *Tx) FindTimeline(id string) (*domain.Timeline, error) {
	t, ok := tx.s.timelineIdx[id]
	if !ok {
		return nil, domain.NotFound(domain.LevelTimeline, id)
	}
	return t, nil
}

func (tx *Tx) FindSprint(id string) (SprintRef, error) {
	s, ok := tx.s.sprintIdx[id]
	if !ok {
		return SprintRef{}, domain.NotFound(domain.LevelSprint, id)
	}
	return SprintRef{Sprint: s, Timeline: tx.s.timelineIdx[s.TimelineID]}, nil
}

func (tx *Tx) FindTask(id string) (TaskRef, error) {
	t, ok := tx.s.taskIdx[id]
	if !ok {
		return TaskRef{}, domain.NotFound(domain.LevelTask, id)
	}
	s := tx.s.sprintIdx[t.SprintID]
	return TaskRef{Task: t, Sprint: s, Timeline: tx.s.timelineIdx[s.TimelineID]}, nil
}

func (tx *Tx) FindSubtask(id string) (SubtaskRef, error) {
	st, ok := tx.s.subtaskIdx[id]
	if !ok {
		return SubtaskRef{}, domain.NotFound(domain.LevelSubtask, id)
	}
	t := tx.s.taskIdx[st.TaskID]
	s := tx.s.sprintIdx[t.SprintID]
	return SubtaskRef{Subtask: st, Task: t, Sprint: s, Timeline: tx.s.timelineIdx[s.TimelineID]}, nil
}

// TasksBySprintID distinguishes an absent sprint (NotFound) from a sprint
// with no tasks (empty slice, nil error).
func (tx *Tx) TasksBySprintID(sprintID string) ([]*domain.Task, error) {
	ref, err := tx.FindSprint(sprintID)
	if err != nil {
		return nil, err
	}
	return ref.Sprint.Tasks, nil
}

// Timelines returns the forest roots in display order.
func (tx *Tx) Timelines() []*domain.Timeline {
	return tx.s.timelines
}

// AllTasks flattens every task in the forest, in display order.
func (tx *Tx) AllTasks() []TaskRef {
	var out []TaskRef
	for _, tl := range tx.s.timelines {
		for _, s := range tl.Sprints {
			for _, t := range s.Tasks {
				out = append(out, TaskRef{Task: t, Sprint: s, Timeline: tl})
			}
		}
	}
	return out
}

// Members returns the assignable members in registration order.
func (tx *Tx) Members() []*domain.Member {
	return tx.s.members
}

func (tx *Tx) FindMember(id string) (*domain.Member, error) {
	m, ok := tx.s.memberIdx[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "member", ID: id}
	}
	return m, nil
}
