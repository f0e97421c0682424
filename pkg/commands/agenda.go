package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/reports"
	"github.com/guimunizramos/studioid/pkg/store"
)

// HandleAgenda prints the window around anchor, one block per day: the
// unscheduled tasks first, then the timed ones in grid order.
func HandleAgenda(w io.Writer, st *store.Store, anchor time.Time, mode agenda.ViewMode, g agenda.Grid) {
	tasks := st.ListTasks()
	clients := clientNames(st)
	window := agenda.ComputeViewWindow(anchor, mode)

	fmt.Fprintf(w, "%s view, %s to %s\n", mode, model.FormatDate(window[0]), model.FormatDate(window[len(window)-1]))
	for _, d := range window {
		date := model.FormatDate(d)
		day := agenda.TasksForDate(tasks, date, g)
		if mode == agenda.MonthView && len(day.All) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s %s  (%d tasks, %.1fh open)\n", d.Format("Mon"), date, len(day.All), reports.DayLoad(tasks, date))
		for _, t := range day.Unscheduled {
			fmt.Fprintf(w, "  --:--  %s\n", taskLine(t, clients))
		}
		for _, tt := range day.Scheduled {
			fmt.Fprintf(w, "  %s  %s\n", tt.Task.StartTime, taskLine(tt.Task, clients))
		}
		if hidden := len(day.All) - len(day.Unscheduled) - len(day.Scheduled); hidden > 0 {
			fmt.Fprintf(w, "  (%d outside %02d:00-%02d:00)\n", hidden, g.StartHour, g.EndHour)
		}
	}
}

// HandleMove drops a task on a day, at an hour or in the unscheduled region
// when hour is negative.
func HandleMove(w io.Writer, st *store.Store, taskRef, date string, hour int) error {
	t, err := findTask(st, taskRef)
	if err != nil {
		return err
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return fmt.Errorf("error parsing date: %w", err)
	}

	target := agenda.UnscheduledTarget(d)
	if hour >= 0 {
		if hour > 23 {
			return fmt.Errorf("invalid hour %d", hour)
		}
		target = agenda.TimedTarget(d, hour)
	}

	engine := agenda.NewEngine(st, agenda.DefaultGrid())
	if _, err := engine.Drop(t.ID, target); err != nil {
		return err
	}
	moved, _ := st.Task(t.ID)
	fmt.Fprintf(w, "Moved %q to %s\n", moved.Title, describeSlot(moved))
	return nil
}

// HandleDone toggles a task between completed and planned.
func HandleDone(w io.Writer, st *store.Store, taskRef string) error {
	t, err := findTask(st, taskRef)
	if err != nil {
		return err
	}
	engine := agenda.NewEngine(st, agenda.DefaultGrid())
	if _, err := engine.ToggleComplete(t.ID); err != nil {
		return err
	}
	t, _ = st.Task(t.ID)
	fmt.Fprintf(w, "%q is now %s\n", t.Title, t.Status)
	return nil
}

// HandleResize sets a task's duration by whole hours through the same
// gesture the timeline uses.
func HandleResize(w io.Writer, st *store.Store, taskRef string, deltaHours int) error {
	t, err := findTask(st, taskRef)
	if err != nil {
		return err
	}
	g := agenda.DefaultGrid()
	engine := agenda.NewEngine(st, g)
	if err := engine.BeginResize(t.ID, 0); err != nil {
		return err
	}
	changed, err := engine.CommitResize(deltaHours * g.CellHeight)
	if err != nil {
		return err
	}
	t, _ = st.Task(t.ID)
	if !changed {
		fmt.Fprintf(w, "%q unchanged at %gh\n", t.Title, t.Duration())
		return nil
	}
	fmt.Fprintf(w, "%q now takes %gh\n", t.Title, t.EstimatedHours)
	return nil
}

func clientNames(st *store.Store) map[string]string {
	names := make(map[string]string)
	for _, c := range st.ListClients() {
		names[c.ID] = c.Name
	}
	return names
}

func taskLine(t model.Task, clients map[string]string) string {
	box := "[ ]"
	if t.IsCompleted() {
		box = "[x]"
	}
	client := clients[t.ClientID]
	if client == "" {
		client = "?"
	}
	return fmt.Sprintf("%s %s  %gh  %s  (%s, %s)  %s", box, shortID(t.ID), t.Duration(), t.Title, client, t.Priority, t.Status)
}
