package store

import (
	"strings"

	"github.com/guimunizramos/studioid/pkg/model"
)

// Filter narrows the task list shown on the board. Zero fields match all.
type Filter struct {
	ClientID string
	Priority *model.Priority
	Search   string
}

func (f Filter) Active() bool {
	return f.ClientID != "" || f.Priority != nil || f.Search != ""
}

func (f Filter) Match(t model.Task) bool {
	if f.ClientID != "" && t.ClientID != f.ClientID {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply returns the tasks matching f in their original order.
func (f Filter) Apply(tasks []model.Task) []model.Task {
	if !f.Active() {
		return tasks
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
