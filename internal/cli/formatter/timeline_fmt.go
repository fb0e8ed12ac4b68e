package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
)

// FormatTimeline renders a timeline header followed by its sprint, task and
// subtask tree. Every line carries the entity's date span.
func FormatTimeline(tl *domain.Timeline) string {
	var b strings.Builder
	b.WriteString(Header(tl.Name) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", TruncID(tl.ID), Dim(tl.ProjectID),
		DateSpan(tl.StartDate, tl.EndDate, tl.Duration())))

	if len(tl.Sprints) == 0 {
		b.WriteString(Dim("  no sprints") + "\n")
		return b.String()
	}

	var items []TreeItem
	for i, sp := range tl.Sprints {
		spLast := i == len(tl.Sprints)-1
		items = append(items, TreeItem{
			Title:  Bold(sp.Name),
			Level:  1,
			IsLast: spLast,
			Detail: DateSpan(sp.StartDate, sp.EndDate, sp.Duration),
		})
		for j, t := range sp.Tasks {
			tLast := j == len(sp.Tasks)-1
			items = append(items, TreeItem{
				Title:     t.Name,
				Level:     2,
				IsLast:    tLast,
				Ancestors: []bool{spLast},
				Status:    t.Status,
				Detail:    DateSpan(t.StartDate, t.EndDate, t.Duration),
			})
			for k, st := range t.Subtasks {
				items = append(items, TreeItem{
					Title:     st.Name,
					Level:     3,
					IsLast:    k == len(t.Subtasks)-1,
					Ancestors: []bool{spLast, tLast},
					Status:    st.Status,
					Detail:    DateSpan(st.StartDate, st.EndDate, st.Duration),
				})
			}
		}
	}
	b.WriteString(RenderTree(items))
	return b.String()
}

// FormatTimelineList renders one summary row per timeline.
func FormatTimelineList(timelines []*domain.Timeline) string {
	if len(timelines) == 0 {
		return Dim("No timelines.") + "\n"
	}
	rows := make([][]string, len(timelines))
	for i, tl := range timelines {
		rows[i] = []string{
			TruncID(tl.ID),
			tl.Name,
			tl.ProjectID,
			DateSpan(tl.StartDate, tl.EndDate, tl.Duration()),
			fmt.Sprintf("%d", len(tl.Sprints)),
			fmt.Sprintf("%d", tl.TaskCount()),
		}
	}
	return RenderTable([]string{"ID", "NAME", "PROJECT", "DATES", "SPRINTS", "TASKS"}, rows)
}

// FormatTask renders a single task after a mutation.
func FormatTask(verb string, t *domain.Task) string {
	return fmt.Sprintf("%s task %s %s  %s\n", verb, Bold(t.Name), TruncID(t.ID),
		DateSpan(t.StartDate, t.EndDate, t.Duration))
}

// FormatImportResult summarizes a seed import.
func FormatImportResult(r *service.ImportResult) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ Imported seed") + "\n")
	b.WriteString(fmt.Sprintf("  timelines:    %d\n", len(r.TimelineIDs)))
	b.WriteString(fmt.Sprintf("  sprints:      %d\n", r.SprintCount))
	b.WriteString(fmt.Sprintf("  tasks:        %d\n", r.TaskCount))
	b.WriteString(fmt.Sprintf("  subtasks:     %d\n", r.SubtaskCount))
	b.WriteString(fmt.Sprintf("  members:      %d\n", r.MemberCount))
	b.WriteString(fmt.Sprintf("  dependencies: %d\n", r.DependencyCount))
	return b.String()
}
