package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
)

var (
	dateLineRe  = regexp.MustCompile(`^(?:(\d{2})\.(\d{2})\.(\d{4})|(\d{4})-(\d{2})-(\d{2})):?$`)
	slotPrefix  = regexp.MustCompile(`^(\d{1,2}:\d{2})\s+`)
	hoursSuffix = regexp.MustCompile(`\s+\((\d+(?:\.\d+)?)h\)$`)
)

// HandleImportCommand reads filename. A .json file replaces the whole state;
// anything else is parsed as the txt checklist and appended for clientRef.
func HandleImportCommand(w io.Writer, st *store.Store, filename, clientRef string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		var state model.AppState
		if err := json.Unmarshal(content, &state); err != nil {
			return fmt.Errorf("error parsing %s: %w", filename, err)
		}
		if err := st.Replace(state); err != nil {
			return err
		}
		fmt.Fprintf(w, "Successfully imported %d client(s) and %d task(s) from %s\n", len(state.Clients), len(state.Tasks), filename)
		return nil
	}

	client, err := st.FindClient(clientRef)
	if err != nil {
		return err
	}

	tasks, err := ParseText(string(content))
	if err != nil {
		return err
	}
	added := 0
	for _, t := range tasks {
		t.ClientID = client.ID
		if _, err := st.AddTask(t); err != nil {
			fmt.Fprintf(w, "Error adding task '%s': %v\n", t.Title, err)
			continue
		}
		added++
	}

	fmt.Fprintf(w, "Successfully imported %d task(s) from %s\n", added, filename)
	return nil
}

// ParseText reads the checklist written by FormatText. Task lines before the
// first date header are rejected.
func ParseText(content string) ([]model.Task, error) {
	var tasks []model.Task
	var currentDate string

	for n, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// DD.MM.YYYY: or YYYY-MM-DD:
		if m := dateLineRe.FindStringSubmatch(line); m != nil {
			var day, month, year int
			if m[1] != "" {
				day, _ = strconv.Atoi(m[1])
				month, _ = strconv.Atoi(m[2])
				year, _ = strconv.Atoi(m[3])
			} else {
				year, _ = strconv.Atoi(m[4])
				month, _ = strconv.Atoi(m[5])
				day, _ = strconv.Atoi(m[6])
			}
			currentDate = model.FormatDate(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local))
			continue
		}

		if !strings.HasPrefix(line, "- ") {
			continue
		}
		if currentDate == "" {
			return nil, fmt.Errorf("line %d: task before any date header", n+1)
		}

		taskText := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		task := model.Task{Status: model.StatusPlanned, Priority: model.PriorityMedium, Deadline: currentDate, EstimatedHours: 1}
		if strings.HasPrefix(taskText, "[x]") {
			task.Status = model.StatusCompleted
			task.CompletedAt = currentDate
			taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[x]"))
		} else {
			taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[ ]"))
		}

		if m := slotPrefix.FindStringSubmatch(taskText); m != nil {
			start, err := model.ParseStartTime(m[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			task.StartTime = start
			taskText = taskText[len(m[0]):]
		}
		if m := hoursSuffix.FindStringSubmatch(taskText); m != nil {
			task.EstimatedHours, _ = strconv.ParseFloat(m[1], 64)
			taskText = taskText[:len(taskText)-len(m[0])]
		}

		task.Title = strings.TrimSpace(taskText)
		task.Description = task.Title
		if task.Title == "" {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
