package commands

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
)

// AddOptions are the flags of the add command. Empty strings keep defaults.
type AddOptions struct {
	Client   string // id or name
	Date     string // YYYY-MM-DD, defaults to today
	Time     string // HH:MM, empty leaves the task unscheduled
	Hours    float64
	Priority string
	Status   string
	Type     string
}

var (
	projectTagRe = regexp.MustCompile(`\+(\w+)`)
	stripTagRe   = regexp.MustCompile(`\s*\+\w+\s*`)
)

// HandleAddTask adds a task from the command line. A +Project tag in the
// text links the task to the client's project of that name.
func HandleAddTask(w io.Writer, st *store.Store, taskText string, opts AddOptions, now time.Time) (model.Task, error) {
	client, err := st.FindClient(opts.Client)
	if err != nil {
		return model.Task{}, err
	}

	deadline := model.FormatDate(now)
	if opts.Date != "" {
		d, err := model.ParseDate(opts.Date)
		if err != nil {
			return model.Task{}, fmt.Errorf("error parsing date: %w", err)
		}
		deadline = model.FormatDate(d)
	}

	start, err := model.ParseStartTime(opts.Time)
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		Title:          removeProjectTags(taskText),
		Description:    taskText,
		ClientID:       client.ID,
		Status:         model.StatusPlanned,
		Priority:       model.PriorityMedium,
		Type:           opts.Type,
		EstimatedHours: opts.Hours,
		Deadline:       deadline,
		StartTime:      start,
	}
	if task.EstimatedHours <= 0 {
		task.EstimatedHours = 1
	}
	if opts.Priority != "" {
		if task.Priority, err = model.ParsePriority(opts.Priority); err != nil {
			return model.Task{}, err
		}
	}
	if opts.Status != "" {
		if task.Status, err = model.ParseTaskStatus(opts.Status); err != nil {
			return model.Task{}, err
		}
	}
	if names := extractProjects(taskText); len(names) > 0 {
		task.ProjectID = findProject(st, client.ID, names[0])
	}

	added, err := st.AddTask(task)
	if err != nil {
		return model.Task{}, fmt.Errorf("error adding task: %w", err)
	}
	fmt.Fprintf(w, "Added %s %q for %s on %s\n", shortID(added.ID), added.Title, client.Name, describeSlot(added))
	return added, nil
}

func findProject(st *store.Store, clientID, name string) string {
	for _, p := range st.ListProjects() {
		if p.ClientID == clientID && strings.EqualFold(strings.ReplaceAll(p.Name, " ", ""), name) {
			return p.ID
		}
	}
	return ""
}

// extractProjects finds all +project tags in text
func extractProjects(text string) []string {
	matches := projectTagRe.FindAllStringSubmatch(text, -1)
	var projects []string
	for _, match := range matches {
		projects = append(projects, match[1])
	}
	return projects
}

// removeProjectTags removes +project tags from text for clean title
func removeProjectTags(text string) string {
	return strings.TrimSpace(stripTagRe.ReplaceAllString(text, " "))
}

func describeSlot(t model.Task) string {
	if !t.StartTime.IsSet() {
		return t.Deadline + " (unscheduled)"
	}
	return t.Deadline + " at " + t.StartTime.String()
}

// shortID is enough of a uuid to pass back on the command line.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findTask accepts a full id or a unique prefix of one.
func findTask(st *store.Store, ref string) (model.Task, error) {
	if t, ok := st.Task(ref); ok {
		return t, nil
	}
	var found []model.Task
	for _, t := range st.ListTasks() {
		if strings.HasPrefix(t.ID, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return model.Task{}, fmt.Errorf("no task %q", ref)
	default:
		return model.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(found))
	}
}
