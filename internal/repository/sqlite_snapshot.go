package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/store"
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo. Save runs inside
// uow; Load reads through conn.
func NewSQLiteSnapshotRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn, uow: uow}
}

// clearOrder lists tables children first so the deletes never trip a
// foreign key.
var clearOrder = []string{
	"task_dependencies",
	"entity_resources",
	"subtasks",
	"tasks",
	"sprints",
	"timelines",
	"members",
	"snapshot_meta",
}

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, snap *store.Snapshot, savedAt time.Time) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, table := range clearOrder {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		for i, tl := range snap.Timelines {
			if err := insertTimeline(ctx, tx, tl, i); err != nil {
				return err
			}
		}
		for i, m := range snap.Members {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO members (id, name, email, role, department, order_index) VALUES (?, ?, ?, ?, ?, ?)`,
				m.ID, m.Name, m.Email, m.Role, m.Department, i,
			); err != nil {
				return fmt.Errorf("inserting member %s: %w", m.ID, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_meta (id, saved_at) VALUES (1, ?)`, formatTimestamp(savedAt),
		); err != nil {
			return fmt.Errorf("recording snapshot time: %w", err)
		}
		return nil
	})
}

func insertTimeline(ctx context.Context, tx db.DBTX, tl *domain.Timeline, order int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO timelines (id, project_id, name, description, start_date, end_date, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tl.ID, tl.ProjectID, tl.Name, tl.Description,
		domain.FormatDate(tl.StartDate), domain.FormatDate(tl.EndDate),
		order, formatTimestamp(tl.CreatedAt), formatTimestamp(tl.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting timeline %s: %w", tl.ID, err)
	}
	for i, sp := range tl.Sprints {
		if err := insertSprint(ctx, tx, sp, i); err != nil {
			return err
		}
	}
	return nil
}

func insertSprint(ctx context.Context, tx db.DBTX, sp *domain.Sprint, order int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sprints (id, timeline_id, name, description, start_date, end_date, duration, department, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.ID, sp.TimelineID, sp.Name, sp.Description,
		domain.FormatDate(sp.StartDate), domain.FormatDate(sp.EndDate), sp.Duration,
		sp.Department, order, formatTimestamp(sp.CreatedAt), formatTimestamp(sp.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sprint %s: %w", sp.ID, err)
	}
	if err := insertResources(ctx, tx, domain.LevelSprint, sp.ID, sp.Resources); err != nil {
		return err
	}
	for i, t := range sp.Tasks {
		if err := insertTask(ctx, tx, t, i); err != nil {
			return err
		}
	}
	return nil
}

func insertTask(ctx context.Context, tx db.DBTX, t *domain.Task, order int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tasks (id, sprint_id, name, description, start_date, end_date, duration, status, priority, progress, department, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SprintID, t.Name, t.Description,
		domain.FormatDate(t.StartDate), domain.FormatDate(t.EndDate), t.Duration,
		string(t.Status), string(t.Priority), t.Progress, t.Department,
		order, formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.ID, err)
	}
	if err := insertResources(ctx, tx, domain.LevelTask, t.ID, t.Resources); err != nil {
		return err
	}
	for i, dep := range t.Dependencies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on_id, order_index) VALUES (?, ?, ?)`,
			t.ID, dep, i,
		); err != nil {
			return fmt.Errorf("inserting dependency %s -> %s: %w", t.ID, dep, err)
		}
	}
	for i, st := range t.Subtasks {
		if err := insertSubtask(ctx, tx, st, i); err != nil {
			return err
		}
	}
	return nil
}

func insertSubtask(ctx context.Context, tx db.DBTX, st *domain.Subtask, order int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO subtasks (id, task_id, name, description, start_date, end_date, duration, status, priority, progress, department, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.TaskID, st.Name, st.Description,
		domain.FormatDate(st.StartDate), domain.FormatDate(st.EndDate), st.Duration,
		string(st.Status), string(st.Priority), st.Progress, st.Department,
		order, formatTimestamp(st.CreatedAt), formatTimestamp(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting subtask %s: %w", st.ID, err)
	}
	return insertResources(ctx, tx, domain.LevelSubtask, st.ID, st.Resources)
}

func insertResources(ctx context.Context, tx db.DBTX, level domain.Level, id string, resources []string) error {
	for i, res := range resources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entity_resources (entity_level, entity_id, resource_id, order_index) VALUES (?, ?, ?, ?)`,
			string(level), id, res, i,
		); err != nil {
			return fmt.Errorf("inserting resource %s for %s %s: %w", res, level, id, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context) (*store.Snapshot, time.Time, error) {
	var savedAt time.Time
	var savedAtStr string
	err := r.db.QueryRowContext(ctx, `SELECT saved_at FROM snapshot_meta WHERE id = 1`).Scan(&savedAtStr)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, time.Time{}, fmt.Errorf("reading snapshot time: %w", err)
	default:
		if savedAt, err = parseTimestamp("saved_at", savedAtStr); err != nil {
			return nil, time.Time{}, err
		}
	}

	snap := &store.Snapshot{}
	timelines, err := r.loadTimelines(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	snap.Timelines = timelines

	sprints, err := r.loadSprints(ctx, timelines)
	if err != nil {
		return nil, time.Time{}, err
	}
	tasks, err := r.loadTasks(ctx, sprints)
	if err != nil {
		return nil, time.Time{}, err
	}
	subtasks, err := r.loadSubtasks(ctx, tasks)
	if err != nil {
		return nil, time.Time{}, err
	}
	if err := r.loadResources(ctx, sprints, tasks, subtasks); err != nil {
		return nil, time.Time{}, err
	}
	if err := r.loadDependencies(ctx, tasks); err != nil {
		return nil, time.Time{}, err
	}
	if snap.Members, err = r.loadMembers(ctx); err != nil {
		return nil, time.Time{}, err
	}
	return snap, savedAt, nil
}

func (r *SQLiteSnapshotRepo) loadTimelines(ctx context.Context) ([]*domain.Timeline, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, description, start_date, end_date, created_at, updated_at
		FROM timelines ORDER BY order_index`)
	if err != nil {
		return nil, fmt.Errorf("listing timelines: %w", err)
	}
	defer rows.Close()

	var out []*domain.Timeline
	for rows.Next() {
		var tl domain.Timeline
		var start, end, created, updated string
		if err := rows.Scan(&tl.ID, &tl.ProjectID, &tl.Name, &tl.Description, &start, &end, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning timeline: %w", err)
		}
		if err := scanDates(&tl.StartDate, &tl.EndDate, &tl.CreatedAt, &tl.UpdatedAt, start, end, created, updated); err != nil {
			return nil, fmt.Errorf("timeline %s: %w", tl.ID, err)
		}
		tl.Sprints = []*domain.Sprint{}
		out = append(out, &tl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timelines: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) loadSprints(ctx context.Context, timelines []*domain.Timeline) (map[string]*domain.Sprint, error) {
	parents := make(map[string]*domain.Timeline, len(timelines))
	for _, tl := range timelines {
		parents[tl.ID] = tl
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timeline_id, name, description, start_date, end_date, duration, department, created_at, updated_at
		FROM sprints ORDER BY timeline_id, order_index`)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Sprint)
	for rows.Next() {
		var sp domain.Sprint
		var start, end, created, updated string
		if err := rows.Scan(&sp.ID, &sp.TimelineID, &sp.Name, &sp.Description, &start, &end, &sp.Duration, &sp.Department, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning sprint: %w", err)
		}
		if err := scanDates(&sp.StartDate, &sp.EndDate, &sp.CreatedAt, &sp.UpdatedAt, start, end, created, updated); err != nil {
			return nil, fmt.Errorf("sprint %s: %w", sp.ID, err)
		}
		parent, ok := parents[sp.TimelineID]
		if !ok {
			return nil, fmt.Errorf("sprint %s: timeline %s missing", sp.ID, sp.TimelineID)
		}
		sp.Tasks = []*domain.Task{}
		parent.Sprints = append(parent.Sprints, &sp)
		out[sp.ID] = &sp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) loadTasks(ctx context.Context, sprints map[string]*domain.Sprint) (map[string]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sprint_id, name, description, start_date, end_date, duration, status, priority, progress, department, created_at, updated_at
		FROM tasks ORDER BY sprint_id, order_index`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Task)
	for rows.Next() {
		var t domain.Task
		var start, end, created, updated, status, priority string
		if err := rows.Scan(&t.ID, &t.SprintID, &t.Name, &t.Description, &start, &end, &t.Duration,
			&status, &priority, &t.Progress, &t.Department, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if err := scanDates(&t.StartDate, &t.EndDate, &t.CreatedAt, &t.UpdatedAt, start, end, created, updated); err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Status = domain.TaskStatus(status)
		t.Priority = domain.Priority(priority)
		parent, ok := sprints[t.SprintID]
		if !ok {
			return nil, fmt.Errorf("task %s: sprint %s missing", t.ID, t.SprintID)
		}
		t.Subtasks = []*domain.Subtask{}
		parent.Tasks = append(parent.Tasks, &t)
		out[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) loadSubtasks(ctx context.Context, tasks map[string]*domain.Task) (map[string]*domain.Subtask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, name, description, start_date, end_date, duration, status, priority, progress, department, created_at, updated_at
		FROM subtasks ORDER BY task_id, order_index`)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Subtask)
	for rows.Next() {
		var st domain.Subtask
		var start, end, created, updated, status, priority string
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Name, &st.Description, &start, &end, &st.Duration,
			&status, &priority, &st.Progress, &st.Department, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning subtask: %w", err)
		}
		if err := scanDates(&st.StartDate, &st.EndDate, &st.CreatedAt, &st.UpdatedAt, start, end, created, updated); err != nil {
			return nil, fmt.Errorf("subtask %s: %w", st.ID, err)
		}
		st.Status = domain.TaskStatus(status)
		st.Priority = domain.Priority(priority)
		parent, ok := tasks[st.TaskID]
		if !ok {
			return nil, fmt.Errorf("subtask %s: task %s missing", st.ID, st.TaskID)
		}
		parent.Subtasks = append(parent.Subtasks, &st)
		out[st.ID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) loadResources(ctx context.Context, sprints map[string]*domain.Sprint, tasks map[string]*domain.Task, subtasks map[string]*domain.Subtask) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_level, entity_id, resource_id FROM entity_resources
		ORDER BY entity_level, entity_id, order_index`)
	if err != nil {
		return fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level, id, res string
		if err := rows.Scan(&level, &id, &res); err != nil {
			return fmt.Errorf("scanning resource: %w", err)
		}
		switch domain.Level(level) {
		case domain.LevelSprint:
			if sp, ok := sprints[id]; ok {
				sp.Resources = append(sp.Resources, res)
			}
		case domain.LevelTask:
			if t, ok := tasks[id]; ok {
				t.Resources = append(t.Resources, res)
			}
		case domain.LevelSubtask:
			if st, ok := subtasks[id]; ok {
				st.Resources = append(st.Resources, res)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating resources: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) loadDependencies(ctx context.Context, tasks map[string]*domain.Task) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, depends_on_id FROM task_dependencies ORDER BY task_id, order_index`)
	if err != nil {
		return fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, dep string
		if err := rows.Scan(&taskID, &dep); err != nil {
			return fmt.Errorf("scanning dependency: %w", err)
		}
		if t, ok := tasks[taskID]; ok {
			t.Dependencies = append(t.Dependencies, dep)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating dependencies: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) loadMembers(ctx context.Context) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, role, department FROM members ORDER BY order_index`)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.Department); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return out, nil
}

func scanDates(start, end, created, updated *time.Time, startStr, endStr, createdStr, updatedStr string) error {
	var err error
	if *start, err = parseDate("start_date", startStr); err != nil {
		return err
	}
	if *end, err = parseDate("end_date", endStr); err != nil {
		return err
	}
	if *created, err = parseTimestamp("created_at", createdStr); err != nil {
		return err
	}
	if *updated, err = parseTimestamp("updated_at", updatedStr); err != nil {
		return err
	}
	return nil
}
