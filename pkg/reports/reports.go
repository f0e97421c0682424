// Package reports summarises delivered work per client over a week or month.
package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/model"
)

type Period uint8

const (
	PeriodWeek Period = iota
	PeriodMonth
)

func (p Period) String() string {
	if p == PeriodWeek {
		return "week"
	}
	return "month"
}

func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week":
		return PeriodWeek, nil
	case "month", "":
		return PeriodMonth, nil
	}
	return PeriodMonth, fmt.Errorf("unknown period %q (want week or month)", s)
}

// Range is the inclusive day range a period covers around today. The week is
// the agenda's Monday-first week.
func (p Period) Range(today time.Time) (from, to string) {
	var days []time.Time
	if p == PeriodWeek {
		days = agenda.ComputeViewWindow(today, agenda.WeekView)
	} else {
		y, m, _ := today.Date()
		first := time.Date(y, m, 1, 0, 0, 0, 0, today.Location())
		days = []time.Time{first, first.AddDate(0, 1, -1)}
	}
	return model.FormatDate(days[0]), model.FormatDate(days[len(days)-1])
}

// ClientStat is one client's row in the report.
type ClientStat struct {
	Client          model.Client
	TotalTasks      int
	CompletedTasks  int
	PendingTasks    int
	ExecutedHours   float64
	ContractedHours float64
}

// Usage is executed over contracted hours, 0 when nothing is contracted.
func (s ClientStat) Usage() float64 {
	if s.ContractedHours <= 0 {
		return 0
	}
	return s.ExecutedHours / s.ContractedHours
}

// ClientStats builds one row per client, in client order, from the tasks
// whose deadline falls in the period.
func ClientStats(clients []model.Client, tasks []model.Task, period Period, today time.Time) []ClientStat {
	from, to := period.Range(today)
	out := make([]ClientStat, 0, len(clients))
	for _, c := range clients {
		row := ClientStat{Client: c, ContractedHours: c.WeeklyHours}
		if period == PeriodMonth {
			row.ContractedHours = c.WeeklyHours * 4
		}
		for _, t := range tasks {
			// YYYY-MM-DD compares correctly as a string
			if t.ClientID != c.ID || t.Deadline < from || t.Deadline > to {
				continue
			}
			row.TotalTasks++
			if t.IsCompleted() {
				row.CompletedTasks++
				row.ExecutedHours += t.EstimatedHours
			} else {
				row.PendingTasks++
			}
		}
		out = append(out, row)
	}
	return out
}

type Summary struct {
	ExecutedHours  float64
	CompletedTasks int
	PendingTasks   int
}

func Totals(stats []ClientStat) Summary {
	var s Summary
	for _, r := range stats {
		s.ExecutedHours += r.ExecutedHours
		s.CompletedTasks += r.CompletedTasks
		s.PendingTasks += r.PendingTasks
	}
	return s
}

// DayLoad sums the estimated hours of open tasks due on date.
func DayLoad(tasks []model.Task, date string) float64 {
	var h float64
	for _, t := range tasks {
		if t.Deadline == date && !t.IsCompleted() {
			h += t.Duration()
		}
	}
	return h
}
