package agenda

import (
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
)

// DropTarget is where a dragged task landed: a day, and optionally an hour.
// Timed=false means the day's unscheduled region.
type DropTarget struct {
	Date  time.Time
	Hour  int
	Timed bool
}

func TimedTarget(date time.Time, hour int) DropTarget {
	return DropTarget{Date: date, Hour: hour, Timed: true}
}

func UnscheduledTarget(date time.Time) DropTarget {
	return DropTarget{Date: date}
}

// Placement is the pair of fields a drop rewrites.
type Placement struct {
	Deadline  string
	StartTime model.StartTime
}

// ResolveDrop computes the new deadline and start time for a drop. The
// deadline is always the target day. A timed target pins the task to HH:00;
// the unscheduled region clears any start time the task had.
func ResolveDrop(_ model.Task, target DropTarget) Placement {
	p := Placement{Deadline: model.FormatDate(target.Date)}
	if target.Timed {
		p.StartTime = model.AtHour(target.Hour)
	}
	return p
}

// Apply returns t with the placement merged in; every other field is kept.
func (p Placement) Apply(t model.Task) model.Task {
	t.Deadline = p.Deadline
	t.StartTime = p.StartTime
	return t
}
