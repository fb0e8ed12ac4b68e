package formatter

import (
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
)

// FormatTaskHits renders search results with their sprint and timeline.
func FormatTaskHits(hits []service.TaskHit) string {
	if len(hits) == 0 {
		return Dim("No matching tasks.") + "\n"
	}
	rows := make([][]string, len(hits))
	for i, h := range hits {
		rows[i] = []string{
			TruncID(h.Task.ID),
			h.Task.Name,
			StatusStyle(h.Task.Status).Render(string(h.Task.Status)),
			PriorityBadge(h.Task.Priority),
			RenderProgress(h.Task.Progress, 10),
			h.SprintName + Dim(" / "+h.TimelineName),
		}
	}
	return RenderTable([]string{"ID", "TASK", "STATUS", "PRIORITY", "PROGRESS", "SPRINT"}, rows)
}

// FormatMembers renders member search results.
func FormatMembers(members []*domain.Member) string {
	if len(members) == 0 {
		return Dim("No matching members.") + "\n"
	}
	rows := make([][]string, len(members))
	for i, m := range members {
		rows[i] = []string{m.ID, m.Name, m.Email, m.Role, m.Department}
	}
	return RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "DEPARTMENT"}, rows)
}
