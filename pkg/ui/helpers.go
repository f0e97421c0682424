package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/utils"
)

// Agenda layout, in terminal cells. View and the mouse hit tests share these.
const (
	defaultWidth     = 100
	sidebarWidth     = 24
	gutterWidth      = 6
	minColumnWidth   = 8
	topLines         = 2 // title bar, info line
	headerLines      = topLines + 1
	unscheduledLines = 2
	gridTop          = headerLines + unscheduledLines + 1 // separator
	monthRowLines    = 3
)

// window is the list of dates the agenda shows.
func (m Model) window() []time.Time {
	return agenda.ComputeViewWindow(m.anchor, m.viewMode)
}

func (m Model) grid() agenda.Grid {
	return m.engine.Grid()
}

// days partitions every task per date of the window.
func (m Model) days() []agenda.DayTasks {
	tasks := m.store.ListTasks()
	window := m.window()
	out := make([]agenda.DayTasks, len(window))
	for i, d := range window {
		out[i] = agenda.TasksForDate(tasks, model.FormatDate(d), m.grid())
	}
	return out
}

func (m Model) clientNames() map[string]string {
	names := make(map[string]string)
	for _, c := range m.store.ListClients() {
		names[c.ID] = c.Name
	}
	return names
}

func (m Model) sidebarVisible() bool {
	return !m.store.SidebarCollapsed()
}

func (m Model) leftWidth() int {
	w := 0
	if m.sidebarVisible() {
		w += sidebarWidth
	}
	if m.viewMode != agenda.MonthView {
		w += gutterWidth
	}
	return w
}

func (m Model) columns() int {
	if m.viewMode == agenda.MonthView {
		return 7
	}
	return len(m.window())
}

func (m Model) columnWidth() int {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	w := (width - m.leftWidth()) / m.columns()
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// shownUnscheduled is how many unscheduled tasks get a line of their own;
// the last line turns into a "+N more" marker when they do not all fit.
func shownUnscheduled(n int) int {
	if n <= unscheduledLines {
		return n
	}
	return unscheduledLines - 1
}

// todayCursor points at today when it is in the window, else the first day.
func (m Model) todayCursor() cursor {
	today := m.now()
	for i, d := range m.window() {
		if model.SameDay(d, today) {
			return cursor{day: i}
		}
	}
	return cursor{}
}

func (m *Model) clampCursor() {
	n := len(m.window())
	if m.cursor.day >= n {
		m.cursor.day = n - 1
	}
	if m.cursor.day < 0 {
		m.cursor.day = 0
	}
	maxRow := len(m.grid().Hours())
	if m.viewMode == agenda.MonthView {
		maxRow = 0
	}
	if m.cursor.row > maxRow {
		m.cursor.row = maxRow
	}
	if m.cursor.row < 0 {
		m.cursor.row = 0
	}
	if k := len(m.slotTasks(m.cursor)); m.cursor.index >= k {
		m.cursor.index = 0
	}
}

// cursorSlot returns the day under the cursor and its hour, -1 for the
// unscheduled region.
func (m Model) cursorSlot() (time.Time, int) {
	window := m.window()
	if len(window) == 0 {
		return m.now(), -1
	}
	day := window[0]
	if m.cursor.day < len(window) {
		day = window[m.cursor.day]
	}
	if m.cursor.row == 0 || m.viewMode == agenda.MonthView {
		return day, -1
	}
	hours := m.grid().Hours()
	if m.cursor.row-1 >= len(hours) {
		return day, -1
	}
	return day, hours[m.cursor.row-1]
}

// target is the drop target for the slot under the cursor.
func (m Model) target() agenda.DropTarget {
	day, hour := m.cursorSlot()
	if hour < 0 {
		return agenda.UnscheduledTarget(day)
	}
	return agenda.TimedTarget(day, hour)
}

// slotTasks lists the tasks sitting in a slot. In month view a day is one
// slot holding all of its tasks.
func (m Model) slotTasks(c cursor) []model.Task {
	window := m.window()
	if c.day < 0 || c.day >= len(window) {
		return nil
	}
	day := agenda.TasksForDate(m.store.ListTasks(), model.FormatDate(window[c.day]), m.grid())
	if m.viewMode == agenda.MonthView {
		return day.All
	}
	if c.row == 0 {
		return day.Unscheduled
	}
	hours := m.grid().Hours()
	if c.row-1 >= len(hours) {
		return nil
	}
	var out []model.Task
	for _, tt := range day.Scheduled {
		if tt.Hour == hours[c.row-1] {
			out = append(out, tt.Task)
		}
	}
	return out
}

// selectedTask is the board row under the table cursor, or the task under
// the agenda cursor.
func (m Model) selectedTask() (model.Task, bool) {
	if m.display == BoardDisplay {
		i := m.table.Cursor()
		if i < 0 || i >= len(m.rowTasks) || m.rowTasks[i] == "" {
			return model.Task{}, false
		}
		return m.store.Task(m.rowTasks[i])
	}
	tasks := m.slotTasks(m.cursor)
	if m.cursor.index < len(tasks) {
		return tasks[m.cursor.index], true
	}
	return model.Task{}, false
}

// slotAt maps a terminal cell to the agenda slot drawn there.
func (m Model) slotAt(x, y int) (cursor, bool) {
	x -= m.leftWidth()
	if x < 0 || y < headerLines {
		return cursor{}, false
	}
	col := x / m.columnWidth()
	if col >= m.columns() {
		return cursor{}, false
	}

	if m.viewMode == agenda.MonthView {
		idx := ((y-headerLines)/monthRowLines)*7 + col
		if idx >= len(m.window()) {
			return cursor{}, false
		}
		return cursor{day: idx}, true
	}

	switch {
	case y < headerLines+unscheduledLines:
		return cursor{day: col}, true
	case y >= gridTop:
		hour := (y - gridTop) / m.grid().CellHeight
		if hour >= len(m.grid().Hours()) {
			return cursor{}, false
		}
		return cursor{day: col, row: hour + 1}, true
	}
	return cursor{}, false
}

// taskAt finds the task drawn at a cell of the timeline. bottom reports a
// hit on the last line of a timed task, where a resize starts.
func (m Model) taskAt(x, y int) (id string, bottom bool, ok bool) {
	if m.viewMode == agenda.MonthView {
		return "", false, false
	}
	c, ok := m.slotAt(x, y)
	if !ok {
		return "", false, false
	}
	day := m.days()[c.day]

	if c.row == 0 {
		line := y - headerLines
		if line < shownUnscheduled(len(day.Unscheduled)) {
			return day.Unscheduled[line].ID, false, true
		}
		return "", false, false
	}

	offset := y - gridTop
	// Later tasks are drawn over earlier ones
	for i := len(day.Scheduled) - 1; i >= 0; i-- {
		tt := day.Scheduled[i]
		height := blockHeight(tt, m.gridLines())
		if offset >= tt.Top && offset < tt.Top+height {
			return tt.Task.ID, height > 1 && offset == tt.Top+height-1, true
		}
	}
	return "", false, false
}

// gridLines is the height of the timed grid.
func (m Model) gridLines() int {
	return len(m.grid().Hours()) * m.grid().CellHeight
}

// blockHeight is a task's drawn height, at least one line and clipped to the
// bottom of the grid.
func blockHeight(tt agenda.TimedTask, gridLines int) int {
	h := tt.Height
	if h < 1 {
		h = 1
	}
	if tt.Top+h > gridLines {
		h = gridLines - tt.Top
	}
	return h
}

// loadTasks rebuilds the board rows from the filtered task list
func (m *Model) loadTasks() {
	tasks := m.filter.Apply(m.store.ListTasks())
	names := m.clientNames()

	groupedTasks := m.GroupTasks(tasks)
	tableRows := []table.Row{}
	rowTasks := []string{}

	for _, group := range groupedTasks {
		if m.groupBy != GroupByNone {
			tableRows = append(tableRows, table.Row{
				lipgloss.NewStyle().
					Bold(true).
					Foreground(lipgloss.Color(m.styles.AccentColor)).
					Render(fmt.Sprintf("== %s ==", group.GroupName)),
				"", "", "", "", "", "",
			})
			rowTasks = append(rowTasks, "")
		}

		for _, t := range group.Tasks {
			check := "[ ]"
			if t.IsCompleted() {
				check = "[x]"
			}
			tableRows = append(tableRows, table.Row{
				fmt.Sprintf("%s %s", check, t.Status),
				t.Deadline,
				t.StartTime.String(),
				t.Title,
				names[t.ClientID],
				t.Priority.String(),
				strconv.FormatFloat(t.Duration(), 'g', -1, 64),
			})
			rowTasks = append(rowTasks, t.ID)
		}
	}

	m.rowTasks = rowTasks
	m.table.SetRows(tableRows)
	if m.table.Cursor() >= len(tableRows) && len(tableRows) > 0 {
		m.table.SetCursor(len(tableRows) - 1)
	}
	m.clampCursor()
}

// refresh reloads after a write and records its error.
func (m *Model) refresh(err error) {
	if err != nil {
		utils.Log("Error: %v", err)
		m.err = err
	}
	m.loadTasks()
}

// jumpToToday re-anchors the agenda on today and selects it
func (m *Model) jumpToToday() {
	m.anchor = m.now()
	m.cursor = m.todayCursor()
	m.clampCursor()
}

// navigate moves the window one period back or forward
func (m *Model) navigate(dir agenda.Direction) {
	m.anchor = agenda.Navigate(m.anchor, m.viewMode, dir)
	m.cursor.index = 0
	m.clampCursor()
}

// moveDay moves the cursor across days, paging the window at its edges
func (m *Model) moveDay(delta int) {
	m.cursor.index = 0
	next := m.cursor.day + delta
	switch {
	case next < 0:
		m.navigate(agenda.Prev)
		m.cursor.day = len(m.window()) - 1
	case next >= len(m.window()):
		m.navigate(agenda.Next)
		m.cursor.day = 0
	default:
		m.cursor.day = next
	}
	m.clampCursor()
}

func (m *Model) moveRow(delta int) {
	m.cursor.index = 0
	if m.viewMode == agenda.MonthView {
		// rows of a month grid are weeks
		m.moveDay(delta * 7)
		return
	}
	m.cursor.row += delta
	m.clampCursor()
}

// dropCarried drops the picked up task on the slot under the cursor
func (m *Model) dropCarried() {
	id := m.carrying
	m.carrying = ""
	moved, err := m.engine.Drop(id, m.target())
	if moved {
		m.status = "Task moved"
	}
	m.refresh(err)
}

// resizeBy lengthens or shortens a task by whole hours through a resize
// gesture of the matching height
func (m *Model) resizeBy(id string, hours int) {
	if err := m.engine.BeginResize(id, 0); err != nil {
		m.err = err
		return
	}
	_, err := m.engine.CommitResize(hours * m.grid().CellHeight)
	m.refresh(err)
}

// cycleClientFilter steps through all clients, then back to none
func (m *Model) cycleClientFilter() {
	clients := m.store.ListClients()
	next := ""
	if m.filter.ClientID == "" {
		if len(clients) > 0 {
			next = clients[0].ID
		}
	} else {
		for i, c := range clients {
			if c.ID == m.filter.ClientID && i+1 < len(clients) {
				next = clients[i+1].ID
			}
		}
	}
	m.filter.ClientID = next
	m.loadTasks()
}

// cyclePriorityFilter steps urgent, high, medium, low, then none
func (m *Model) cyclePriorityFilter() {
	switch {
	case m.filter.Priority == nil:
		p := model.AllPriorities[0]
		m.filter.Priority = &p
	case int(*m.filter.Priority)+1 < len(model.AllPriorities):
		p := model.AllPriorities[int(*m.filter.Priority)+1]
		m.filter.Priority = &p
	default:
		m.filter.Priority = nil
	}
	m.loadTasks()
}

// shiftStatus moves the selected board task to the neighbouring status column
func (m *Model) shiftStatus(delta int) {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	next := int(t.Status) + delta
	if next < 0 || next >= len(model.AllTaskStatuses) {
		return
	}
	m.refresh(m.store.UpdateTaskStatus(t.ID, model.AllTaskStatuses[next]))
}

// focusNextInput cycles through the form inputs
func (m *Model) focusNextInput() {
	m.focusInput((m.activeInput + 1) % fieldCount)
}

// focusPreviousInput cycles through the form inputs
func (m *Model) focusPreviousInput() {
	m.focusInput((m.activeInput + fieldCount - 1) % fieldCount)
}

func (m *Model) focusInput(i int) {
	m.inputs[m.activeInput].Blur()
	m.activeInput = i
	m.inputs[i].Focus()
}

// startEdit fills the form from an existing task
func (m *Model) startEdit(t model.Task) {
	m.mode = EditMode
	m.resetInputs()
	m.editingID = t.ID
	m.inputs[fieldTitle].SetValue(t.Title)
	if c, ok := m.store.Client(t.ClientID); ok {
		m.inputs[fieldClient].SetValue(c.Name)
	}
	m.inputs[fieldDate].SetValue(t.Deadline)
	m.inputs[fieldTime].SetValue(t.StartTime.String())
	m.inputs[fieldHours].SetValue(strconv.FormatFloat(t.Duration(), 'g', -1, 64))
	m.inputs[fieldPriority].SetValue(t.Priority.Key())
}

var errInvalidHours = errors.New("estimated hours must be a positive number")

// taskFromForm applies the form fields on top of base
func (m *Model) taskFromForm(base model.Task) (model.Task, error) {
	value := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }

	t := base
	t.Title = value(fieldTitle)

	client, err := m.store.FindClient(value(fieldClient))
	if err != nil {
		return t, err
	}
	t.ClientID = client.ID

	d, err := model.ParseDate(value(fieldDate))
	if err != nil {
		return t, fmt.Errorf("invalid deadline: use YYYY-MM-DD")
	}
	t.Deadline = model.FormatDate(d)

	if t.StartTime, err = model.ParseStartTime(value(fieldTime)); err != nil {
		return t, err
	}

	hours, err := strconv.ParseFloat(value(fieldHours), 64)
	if err != nil || hours <= 0 {
		return t, errInvalidHours
	}
	t.EstimatedHours = hours

	if p := value(fieldPriority); p != "" {
		if t.Priority, err = model.ParsePriority(p); err != nil {
			return t, err
		}
	}
	return t, nil
}

// submitForm saves the form. On a validation error the form stays open
// with the message shown.
func (m *Model) submitForm() {
	var err error
	switch m.mode {
	case AddMode:
		var t model.Task
		if t, err = m.taskFromForm(model.Task{Status: model.StatusPlanned}); err == nil {
			_, err = m.store.AddTask(t)
		}

	case EditMode:
		base, ok := m.store.Task(m.editingID)
		if !ok {
			err = fmt.Errorf("task no longer exists")
			break
		}
		var t model.Task
		if t, err = m.taskFromForm(base); err == nil {
			_, err = m.store.SaveTask(t)
		}
	}

	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.mode = NormalMode
	m.editingID = ""
	m.loadTasks()
}
