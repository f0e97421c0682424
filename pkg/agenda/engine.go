package agenda

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrResizeActive = errors.New("a resize is already in progress")
	ErrNoResize     = errors.New("no resize in progress")
)

// TaskStore is the live task collection the engine reads from and writes
// back to. UpdateTask replaces the whole record with the same ID.
type TaskStore interface {
	ListTasks() []model.Task
	UpdateTask(model.Task) error
}

// resizeSession is the state of one resize gesture.
type resizeSession struct {
	taskID        string
	startY        int
	startDuration float64
}

// Engine applies drops, resizes and completion toggles to a TaskStore.
// It keeps no copy of the tasks; at most one resize session is alive.
type Engine struct {
	store  TaskStore
	grid   Grid
	resize *resizeSession
	now    func() time.Time
}

func NewEngine(store TaskStore, grid Grid) *Engine {
	if grid.CellHeight <= 0 {
		grid.CellHeight = DefaultCellHeight
	}
	return &Engine{store: store, grid: grid, now: time.Now}
}

func (e *Engine) Grid() Grid { return e.grid }

func (e *Engine) find(id string) (model.Task, bool) {
	for _, t := range e.store.ListTasks() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Drop moves a task to target. A stale or unknown id is ignored: it returns
// false with no error and nothing is written. A known id is always written,
// even when the task already sits on the target slot.
func (e *Engine) Drop(taskID string, target DropTarget) (bool, error) {
	t, ok := e.find(taskID)
	if !ok {
		return false, nil
	}
	updated := ResolveDrop(t, target).Apply(t)
	if err := e.store.UpdateTask(updated); err != nil {
		return false, fmt.Errorf("drop %s: %w", taskID, err)
	}
	return true, nil
}

// BeginResize starts a resize gesture at pointer row y.
func (e *Engine) BeginResize(taskID string, y int) error {
	if e.resize != nil {
		return ErrResizeActive
	}
	t, ok := e.find(taskID)
	if !ok {
		return fmt.Errorf("resize %s: %w", taskID, ErrTaskNotFound)
	}
	e.resize = &resizeSession{taskID: taskID, startY: y, startDuration: t.Duration()}
	return nil
}

func (e *Engine) Resizing() bool { return e.resize != nil }

// ResizingTask returns the id of the task being resized, if any.
func (e *Engine) ResizingTask() (string, bool) {
	if e.resize == nil {
		return "", false
	}
	return e.resize.taskID, true
}

// ResizeMove reports the whole-hour steps the pointer at y is away from the
// gesture start. It never writes.
func (e *Engine) ResizeMove(y int) (int, bool) {
	if e.resize == nil {
		return 0, false
	}
	return e.steps(y), true
}

// PreviewDuration is the duration a release at y would commit.
func (e *Engine) PreviewDuration(y int) (float64, bool) {
	if e.resize == nil {
		return 0, false
	}
	return math.Max(1, e.resize.startDuration+float64(e.steps(y))), true
}

// CommitResize ends the gesture at y. The task is written only when the new
// duration differs from its current estimate. The session is cleared either way.
func (e *Engine) CommitResize(y int) (bool, error) {
	s := e.resize
	if s == nil {
		return false, ErrNoResize
	}
	newDuration := math.Max(1, s.startDuration+float64(e.steps(y)))
	e.resize = nil

	t, ok := e.find(s.taskID)
	if !ok || newDuration == t.EstimatedHours {
		return false, nil
	}
	t.EstimatedHours = newDuration
	if err := e.store.UpdateTask(t); err != nil {
		return false, fmt.Errorf("resize %s: %w", s.taskID, err)
	}
	return true, nil
}

// CancelResize drops the session without writing.
func (e *Engine) CancelResize() {
	e.resize = nil
}

// steps rounds half up, so -0.5 cells is 0 steps and +0.5 cells is 1.
func (e *Engine) steps(y int) int {
	diff := float64(y-e.resize.startY) / float64(e.grid.CellHeight)
	return int(math.Floor(diff + 0.5))
}

// ToggleComplete flips a task between Completed and Planned.
func (e *Engine) ToggleComplete(taskID string) (bool, error) {
	t, ok := e.find(taskID)
	if !ok {
		return false, nil
	}
	if t.Status == model.StatusCompleted {
		t.Status = model.StatusPlanned
		t.CompletedAt = ""
	} else {
		t.Status = model.StatusCompleted
		t.CompletedAt = model.FormatDate(e.now())
	}
	if err := e.store.UpdateTask(t); err != nil {
		return false, fmt.Errorf("toggle %s: %w", taskID, err)
	}
	return true, nil
}
