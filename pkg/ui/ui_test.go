package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/config"
	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
)

type memRepo struct {
	state   model.AppState
	saves   int
	saveErr error
}

func (r *memRepo) Load(context.Context) (model.AppState, error) { return r.state, nil }

func (r *memRepo) Save(_ context.Context, s model.AppState) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.state = s
	return nil
}

// Layout with the sidebar hidden and the default width: a 6-cell gutter and
// 13-cell day columns; the grid starts on line 6 with two lines per hour.
const (
	wedX = gutterWidth + 2*13 + 3
	friX = gutterWidth + 4*13 + 3
)

func hourLine(hour int) int { return gridTop + (hour-8)*2 }

func newTestModel(t *testing.T, tasks ...model.Task) (Model, *store.Store, *memRepo) {
	t.Helper()
	state := model.DefaultAppState()
	state.Tasks = tasks
	state.SidebarCollapsed = true
	repo := &memRepo{state: state}
	st, err := store.Open(context.Background(), repo)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	cfg := config.Config{Agenda: config.AgendaConfig{StartHour: 8, EndHour: 20, CellHeight: 2, DefaultView: "week"}}
	m := NewModel(st, cfg, config.DefaultStyles())
	wed := time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local)
	m.now = func() time.Time { return wed }
	m.anchor = wed
	m.cursor = m.todayCursor()
	m.loadTasks()
	return m, st, repo
}

func logoTask() model.Task {
	return model.Task{
		ID:             "t1",
		Title:          "Logo",
		ClientID:       "c-1",
		Status:         model.StatusPlanned,
		Priority:       model.PriorityHigh,
		EstimatedHours: 2,
		Deadline:       "2024-01-03",
		StartTime:      model.AtHour(10),
	}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(typ tea.MouseEventType, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Type: typ}
}

func TestMouseResize_DragBottomEdgeCommitsWholeHours(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())
	bottom := hourLine(10) + 3

	m = send(m, mouse(tea.MouseLeft, wedX, bottom))
	if !m.engine.Resizing() {
		t.Fatalf("expected a resize to start on the bottom edge")
	}
	m = send(m, mouse(tea.MouseMotion, wedX, bottom+4))
	if m.preview != 4 {
		t.Fatalf("expected preview 4h, got %g", m.preview)
	}
	m = send(m, mouse(tea.MouseRelease, wedX, bottom+4))

	if m.engine.Resizing() {
		t.Fatalf("expected resize to end on release")
	}
	got, _ := st.Task("t1")
	if got.EstimatedHours != 4 {
		t.Fatalf("expected 4h, got %g", got.EstimatedHours)
	}
	if got.StartTime.String() != "10:00" || got.Deadline != "2024-01-03" {
		t.Fatalf("resize must not move the task, got %s %s", got.Deadline, got.StartTime)
	}
}

func TestMouseResize_HalfCellRoundsUp(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())
	bottom := hourLine(10) + 3

	m = send(m, mouse(tea.MouseLeft, wedX, bottom), mouse(tea.MouseRelease, wedX, bottom+1))

	got, _ := st.Task("t1")
	if got.EstimatedHours != 3 {
		t.Fatalf("expected half a cell to round up to 3h, got %g", got.EstimatedHours)
	}
}

func TestMouseResize_EscapeCancelsWithoutWriting(t *testing.T) {
	m, st, repo := newTestModel(t, logoTask())
	bottom := hourLine(10) + 3

	m = send(m,
		mouse(tea.MouseLeft, wedX, bottom),
		mouse(tea.MouseMotion, wedX, bottom+6),
		tea.KeyMsg{Type: tea.KeyEsc},
		mouse(tea.MouseRelease, wedX, bottom+6),
	)

	if m.engine.Resizing() {
		t.Fatalf("expected no resize after escape")
	}
	if got, _ := st.Task("t1"); got.EstimatedHours != 2 {
		t.Fatalf("expected 2h after cancel, got %g", got.EstimatedHours)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no writes, got %d", repo.saves)
	}
}

func TestMouseDrag_BodyOntoHourSlot(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())

	m = send(m,
		mouse(tea.MouseLeft, wedX, hourLine(10)),
		mouse(tea.MouseMotion, friX, hourLine(14)),
		mouse(tea.MouseRelease, friX, hourLine(14)),
	)

	got, _ := st.Task("t1")
	if got.Deadline != "2024-01-05" || got.StartTime.String() != "14:00" {
		t.Fatalf("expected 2024-01-05 14:00, got %s %q", got.Deadline, got.StartTime)
	}
	if got.EstimatedHours != 2 || got.Title != "Logo" {
		t.Fatalf("drop must keep the other fields, got %+v", got)
	}
	if m.drag != nil {
		t.Fatalf("expected drag state cleared")
	}
}

func TestMouseDrag_OntoUnscheduledRegionClearsTime(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())

	send(m,
		mouse(tea.MouseLeft, wedX, hourLine(10)),
		mouse(tea.MouseMotion, friX, headerLines),
		mouse(tea.MouseRelease, friX, headerLines),
	)

	got, _ := st.Task("t1")
	if got.Deadline != "2024-01-05" || got.StartTime.IsSet() {
		t.Fatalf("expected unscheduled on 2024-01-05, got %s %q", got.Deadline, got.StartTime)
	}
}

func TestMouseClick_WithoutMovingDoesNotWrite(t *testing.T) {
	m, _, repo := newTestModel(t, logoTask())

	m = send(m, mouse(tea.MouseLeft, wedX, hourLine(10)), mouse(tea.MouseRelease, wedX, hourLine(10)))

	if repo.saves != 0 {
		t.Fatalf("expected no writes for a click, got %d", repo.saves)
	}
	if got, ok := m.selectedTask(); !ok || got.ID != "t1" {
		t.Fatalf("expected the click to select t1, got %+v %v", got, ok)
	}
}

func TestKeyboard_PickUpAndDropOnAnotherDay(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())
	down := tea.KeyMsg{Type: tea.KeyDown}

	// Row 0 is the unscheduled region, row 3 is 10:00
	m = send(m, down, down, down, runes("m"))
	if m.carrying != "t1" {
		t.Fatalf("expected t1 picked up, got %q", m.carrying)
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := st.Task("t1")
	if got.Deadline != "2024-01-04" || got.StartTime.String() != "10:00" {
		t.Fatalf("expected 2024-01-04 10:00, got %s %q", got.Deadline, got.StartTime)
	}
	if m.carrying != "" {
		t.Fatalf("expected nothing carried after drop")
	}
}

func TestKeyboard_EscapeDropsPickUp(t *testing.T) {
	m, _, repo := newTestModel(t, logoTask())
	down := tea.KeyMsg{Type: tea.KeyDown}

	m = send(m, down, down, down, runes("m"), tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.carrying != "" || repo.saves != 0 {
		t.Fatalf("expected cancelled pick up, carrying=%q saves=%d", m.carrying, repo.saves)
	}
}

func TestKeyboard_ToggleAndResize(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())
	down := tea.KeyMsg{Type: tea.KeyDown}

	m = send(m, down, down, down, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got, _ := st.Task("t1"); !got.IsCompleted() || got.CompletedAt == "" {
		t.Fatalf("expected t1 completed, got %+v", got)
	}

	m = send(m, runes("+"), runes("+"))
	if got, _ := st.Task("t1"); got.EstimatedHours != 4 {
		t.Fatalf("expected 4h after growing twice, got %g", got.EstimatedHours)
	}
	send(m, runes("-"), runes("-"), runes("-"), runes("-"))
	if got, _ := st.Task("t1"); got.EstimatedHours != 1 {
		t.Fatalf("expected the 1h floor, got %g", got.EstimatedHours)
	}
}

func TestAddForm_ValidationKeepsFormOpen(t *testing.T) {
	m, st, _ := newTestModel(t)
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	m = send(m, runes("a"))
	if m.mode != AddMode {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	for i := 0; i < fieldCount; i++ {
		m = send(m, enter)
	}
	if m.mode != AddMode || !errors.Is(m.err, store.ErrValidation) {
		t.Fatalf("expected validation error in add mode, got mode=%v err=%v", m.mode, m.err)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, runes("Hero copy"))
	for i := 0; i < fieldCount; i++ {
		m = send(m, enter)
	}
	if m.mode != NormalMode || m.err != nil {
		t.Fatalf("expected the form to close, got mode=%v err=%v", m.mode, m.err)
	}
	tasks := st.ListTasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Hero copy" || tasks[0].Deadline != "2024-01-03" || tasks[0].StartTime.IsSet() {
		t.Fatalf("unexpected task %+v", tasks[0])
	}
}

func TestAddForm_RetryAfterFailedSaveAddsOnce(t *testing.T) {
	m, st, repo := newTestModel(t)
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	submit := func(m Model) Model {
		for i := 0; i < fieldCount; i++ {
			m = send(m, enter)
		}
		return m
	}

	repo.saveErr = errors.New("disk full")
	m = send(m, runes("a"), tea.KeyMsg{Type: tea.KeyTab}, runes("Hero copy"))
	m = submit(m)
	m = submit(m)
	if m.mode != AddMode || m.err == nil {
		t.Fatalf("expected the form kept open with the error, got mode=%v err=%v", m.mode, m.err)
	}
	if n := len(st.ListTasks()); n != 0 {
		t.Fatalf("expected failed saves to add nothing, got %d tasks", n)
	}

	repo.saveErr = nil
	m = submit(m)
	if m.mode != NormalMode {
		t.Fatalf("expected the form to close, got mode=%v err=%v", m.mode, m.err)
	}
	if n := len(st.ListTasks()); n != 1 {
		t.Fatalf("expected exactly one task after the retry, got %d", n)
	}
}

func TestEditForm_BadHoursIsRejected(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())
	down := tea.KeyMsg{Type: tea.KeyDown}

	m = send(m, down, down, down, runes("e"))
	if m.mode != EditMode || m.editingID != "t1" {
		t.Fatalf("expected to edit t1, got mode=%v id=%q", m.mode, m.editingID)
	}
	m.inputs[fieldHours].SetValue("zero")
	m.focusInput(fieldPriority)
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !errors.Is(m.err, errInvalidHours) {
		t.Fatalf("expected invalid hours error, got %v", m.err)
	}

	m.inputs[fieldHours].SetValue("3")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got, _ := st.Task("t1"); got.EstimatedHours != 3 || got.StartTime.String() != "10:00" {
		t.Fatalf("expected 3h at 10:00, got %+v", got)
	}
}

func TestDelete_ConfirmRemovesTask(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())
	down := tea.KeyMsg{Type: tea.KeyDown}

	m = send(m, down, down, down, runes("d"))
	if m.mode != DeleteConfirmMode {
		t.Fatalf("expected delete confirmation")
	}
	send(m, runes("y"))
	if len(st.ListTasks()) != 0 {
		t.Fatalf("expected task deleted")
	}
}

func TestBoard_RightMovesTaskToNextStatus(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())

	m = send(m, runes("b"))
	if m.display != BoardDisplay {
		t.Fatalf("expected board display")
	}
	send(m, tea.KeyMsg{Type: tea.KeyRight})
	if got, _ := st.Task("t1"); got.Status != model.StatusInProgress {
		t.Fatalf("expected in progress, got %v", got.Status)
	}
}

func TestBoard_FiltersAndGroups(t *testing.T) {
	other := logoTask()
	other.ID, other.Title, other.Priority, other.Status = "t2", "Banner", model.PriorityUrgent, model.StatusBacklog
	m, _, _ := newTestModel(t, logoTask(), other)

	m = send(m, runes("b"), runes("p"))
	if len(m.rowTasks) != 1 || m.rowTasks[0] != "t2" {
		t.Fatalf("expected only the urgent task, got %v", m.rowTasks)
	}

	m = send(m, runes("p"), runes("p"), runes("p"), runes("p"))
	if m.filter.Priority != nil {
		t.Fatalf("expected the priority filter to cycle back to none")
	}

	m = send(m, runes("g"))
	want := []string{"", "t2", "", "t1"}
	if strings.Join(m.rowTasks, ",") != strings.Join(want, ",") {
		t.Fatalf("expected status groups in board order %v, got %v", want, m.rowTasks)
	}
}

func TestNavigation_PeriodsAndViewModes(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = send(m, runes("]"))
	if got := model.FormatDate(m.window()[0]); got != "2024-01-08" {
		t.Fatalf("expected next week to start 2024-01-08, got %s", got)
	}
	m = send(m, runes("t"))
	if got := model.FormatDate(m.window()[0]); got != "2024-01-01" {
		t.Fatalf("expected today's week, got %s", got)
	}

	m = send(m, runes("v"), runes("v"))
	if m.viewMode != agenda.MonthView {
		t.Fatalf("expected month view, got %v", m.viewMode)
	}
	// January 2024 starts on a Monday, so week two begins on the 8th
	c, ok := m.slotAt(0, headerLines+monthRowLines)
	if !ok || model.FormatDate(m.window()[c.day]) != "2024-01-08" {
		t.Fatalf("expected 2024-01-08 under the second month row, got %+v %v", c, ok)
	}
}

func TestMonthView_DropMakesTaskUnscheduled(t *testing.T) {
	m, st, _ := newTestModel(t, logoTask())
	m.viewMode = agenda.MonthView
	m.cursor = m.todayCursor()

	m = send(m, runes("m"), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := st.Task("t1")
	if got.Deadline != "2024-01-10" || got.StartTime.IsSet() {
		t.Fatalf("expected unscheduled on 2024-01-10, got %s %q", got.Deadline, got.StartTime)
	}
}

func TestToggleSidebar_Persists(t *testing.T) {
	m, st, repo := newTestModel(t)

	send(m, runes("\\"))
	if st.SidebarCollapsed() || repo.state.SidebarCollapsed {
		t.Fatalf("expected the sidebar shown and saved")
	}
}

func TestView_RendersAgendaAndBoard(t *testing.T) {
	m, _, _ := newTestModel(t, logoTask())

	if v := m.View(); !strings.Contains(v, "10:00 Logo") {
		t.Fatalf("expected the timed task in the agenda view:\n%s", v)
	}
	m = send(m, runes("v"), runes("v"))
	if v := m.View(); !strings.Contains(v, "1 task") {
		t.Fatalf("expected a task count in the month view:\n%s", v)
	}
	m = send(m, runes("b"))
	if v := m.View(); !strings.Contains(v, "Logo") {
		t.Fatalf("expected the task on the board:\n%s", v)
	}
}
