package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
)

// HandleExportCommand writes the state to filename. json is the full state
// blob, txt a day-by-day checklist, gcal a list of Google Calendar events.
func HandleExportCommand(w io.Writer, st *store.Store, filename, exportType string) error {
	// Ensure directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tasks := st.ListTasks()
	var content []byte
	var err error

	switch exportType {
	case "json":
		content, err = json.MarshalIndent(st.State(), "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state to JSON: %w", err)
		}
	case "txt":
		content = []byte(FormatText(tasks))
	case "gcal":
		events := TasksToEvents(tasks, clientNames(st), time.Local)
		content, err = json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling events to JSON: %w", err)
		}
	default:
		return fmt.Errorf("unknown export type: %s", exportType)
	}

	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	fmt.Fprintf(w, "Successfully exported %d task(s) to %s\n", len(tasks), filename)
	return nil
}

// FormatText renders tasks grouped under "DD.MM.YYYY:" headers, oldest day
// first. Lines read "- [x] HH:MM Title (2h)"; the time is omitted for
// unscheduled tasks.
func FormatText(tasks []model.Task) string {
	sorted := append([]model.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Deadline != sorted[j].Deadline {
			return sorted[i].Deadline < sorted[j].Deadline
		}
		return sorted[i].StartTime.Hour() < sorted[j].StartTime.Hour()
	})

	var lines []string
	var lastDate string
	for _, task := range sorted {
		if task.Deadline != lastDate {
			header := task.Deadline
			if d, err := model.ParseDate(task.Deadline); err == nil {
				header = d.Format("02.01.2006")
			}
			lines = append(lines, fmt.Sprintf("\n%s:", header))
			lastDate = task.Deadline
		}

		status := " "
		if task.IsCompleted() {
			status = "x"
		}
		slot := ""
		if task.StartTime.IsSet() {
			slot = task.StartTime.String() + " "
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s%s (%gh)", status, slot, task.Title, task.Duration()))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
