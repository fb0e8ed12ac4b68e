package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/service"
)

// resolveID matches input against ids: exact first, then unique prefix.
func resolveID(kind, input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}

	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveTimelineID(ctx context.Context, app *App, input string) (string, error) {
	timelines, err := app.Services.Timelines.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(timelines))
	for i, tl := range timelines {
		ids[i] = tl.ID
	}
	return resolveID("timeline", input, ids)
}

func resolveSprintID(ctx context.Context, app *App, input string) (string, error) {
	timelines, err := app.Services.Timelines.List(ctx)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, tl := range timelines {
		for _, sp := range tl.Sprints {
			ids = append(ids, sp.ID)
		}
	}
	return resolveID("sprint", input, ids)
}

func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	hits, err := app.Services.Search.SearchTasks(ctx, service.TaskQuery{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.Task.ID
	}
	return resolveID("task", input, ids)
}
