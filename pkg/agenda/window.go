// Package agenda computes what the agenda shows and how tasks move on it:
// view windows, per-day partitions, drop placement and duration resizing.
package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
)

// ViewMode is the span of the agenda.
type ViewMode int

const (
	WeekView ViewMode = iota
	FortnightView
	MonthView
)

var viewModeNames = [...]string{"week", "fortnight", "month"}

func (m ViewMode) String() string {
	if m < 0 || int(m) >= len(viewModeNames) {
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
	return viewModeNames[m]
}

// Next cycles week -> fortnight -> month -> week.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % ViewMode(len(viewModeNames))
}

func ParseViewMode(s string) (ViewMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range viewModeNames {
		if s == n {
			return ViewMode(i), nil
		}
	}
	return WeekView, fmt.Errorf("unknown view mode %q (expected week, fortnight or month)", s)
}

// Direction of navigation.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ComputeViewWindow returns the ordered dates to render for anchor and mode.
// Week and fortnight start on the Monday on or before anchor. Month lists
// the whole month preceded by enough days of the previous month to start on
// a Monday; the tail is not padded.
func ComputeViewWindow(anchor time.Time, mode ViewMode) []time.Time {
	var start time.Time
	var count int
	switch mode {
	case MonthView:
		y, mo, _ := anchor.Date()
		first := time.Date(y, mo, 1, 0, 0, 0, 0, anchor.Location())
		pad := daysSinceMonday(first.Weekday())
		start = first.AddDate(0, 0, -pad)
		count = pad + daysIn(y, mo, anchor.Location())
	case FortnightView:
		day := model.StartOfDay(anchor)
		start = day.AddDate(0, 0, -daysSinceMonday(day.Weekday()))
		count = 14
	default:
		day := model.StartOfDay(anchor)
		start = day.AddDate(0, 0, -daysSinceMonday(day.Weekday()))
		count = 7
	}

	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// Navigate moves anchor by one window: 7 or 14 days, or one calendar month.
// Month steps clamp the day so Jan 31 -> Feb 29 rather than spilling into March.
func Navigate(anchor time.Time, mode ViewMode, dir Direction) time.Time {
	switch mode {
	case MonthView:
		y, mo, d := anchor.Date()
		target := time.Date(y, mo+time.Month(dir), 1, 0, 0, 0, 0, anchor.Location())
		ty, tm, _ := target.Date()
		if last := daysIn(ty, tm, anchor.Location()); d > last {
			d = last
		}
		h, mi, s := anchor.Clock()
		return time.Date(ty, tm, d, h, mi, s, anchor.Nanosecond(), anchor.Location())
	case FortnightView:
		return anchor.AddDate(0, 0, 14*int(dir))
	default:
		return anchor.AddDate(0, 0, 7*int(dir))
	}
}

func daysSinceMonday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}
