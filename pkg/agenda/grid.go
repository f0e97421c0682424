package agenda

import "github.com/guimunizramos/studioid/pkg/model"

// Default visible hours and pixel height of one hour.
const (
	DefaultStartHour  = 8
	DefaultEndHour    = 20
	DefaultCellHeight = 100
)

// Grid describes the timed part of the agenda: the visible hours
// [StartHour, EndHour] and how tall one hour is (pixels, or lines in a terminal).
type Grid struct {
	StartHour  int
	EndHour    int
	CellHeight int
}

func DefaultGrid() Grid {
	return Grid{StartHour: DefaultStartHour, EndHour: DefaultEndHour, CellHeight: DefaultCellHeight}
}

// Hours lists the visible hours in order.
func (g Grid) Hours() []int {
	if g.EndHour < g.StartHour {
		return nil
	}
	hours := make([]int, 0, g.EndHour-g.StartHour+1)
	for h := g.StartHour; h <= g.EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Visible reports whether hour is drawn in the timed grid.
func (g Grid) Visible(hour int) bool {
	return hour >= g.StartHour && hour <= g.EndHour
}

// TimedTask is a scheduled task with its position in the grid.
type TimedTask struct {
	Task   model.Task
	Hour   int
	Top    int // offset from the first visible hour
	Height int
}

// DayTasks is one day's tasks, split the way the agenda draws them.
type DayTasks struct {
	Date        string
	All         []model.Task // every task due that day, for month counts
	Scheduled   []TimedTask  // tasks in the visible hours only
	Unscheduled []model.Task
}

// TasksForDate filters tasks due on date (YYYY-MM-DD) and partitions them by
// start-time presence. Scheduled tasks outside the visible hours are left out
// of Scheduled but kept in All. Source order is preserved.
func TasksForDate(tasks []model.Task, date string, g Grid) DayTasks {
	day := DayTasks{Date: date}
	for _, t := range tasks {
		if t.Deadline != date {
			continue
		}
		day.All = append(day.All, t)

		if !t.StartTime.IsSet() {
			day.Unscheduled = append(day.Unscheduled, t)
			continue
		}
		hour := t.StartTime.Hour()
		if !g.Visible(hour) {
			continue
		}
		day.Scheduled = append(day.Scheduled, TimedTask{
			Task:   t,
			Hour:   hour,
			Top:    (hour - g.StartHour) * g.CellHeight,
			Height: int(t.Duration() * float64(g.CellHeight)),
		})
	}
	return day
}

// GroupByDate runs TasksForDate for every date of a window.
func GroupByDate(tasks []model.Task, window []string, g Grid) map[string]DayTasks {
	out := make(map[string]DayTasks, len(window))
	for _, d := range window {
		out[d] = TasksForDate(tasks, d, g)
	}
	return out
}
