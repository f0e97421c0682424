package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/reports"
)

var formLabels = [fieldCount]string{
	fieldTitle:    "Title:",
	fieldClient:   "Client:",
	fieldDate:     "Deadline (YYYY-MM-DD):",
	fieldTime:     "Start time (HH:MM):",
	fieldHours:    "Estimated hours:",
	fieldPriority: "Priority:",
}

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case NormalMode:
		sb.WriteString(m.titleBar())
		sb.WriteString("\n")
		sb.WriteString(m.infoLine())
		sb.WriteString("\n")

		if m.display == BoardDisplay {
			sb.WriteString(m.table.View())
		} else {
			sb.WriteString(m.renderAgenda())
		}
		sb.WriteString("\n")

	case AddMode:
		sb.WriteString(m.banner(" Add New Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case EditMode:
		sb.WriteString(m.banner(" Edit Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case DeleteConfirmMode:
		sb.WriteString(m.banner(" Delete Task ", m.styles.ErrorColor))
		sb.WriteString("\n\n")

		if t, ok := m.store.Task(m.editingID); ok {
			sb.WriteString("Are you sure you want to delete this task?\n\n")
			sb.WriteString(fmt.Sprintf("Title: %s\n", t.Title))
			sb.WriteString(fmt.Sprintf("Due: %s %s\n", t.Deadline, t.StartTime))
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))
		}

	case SearchMode:
		sb.WriteString(m.banner(" Search Tasks ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString("Enter search term to find tasks:")
		sb.WriteString("\n\n")
		sb.WriteString(m.searchInput.View())

	case HelpViewMode:
		sb.WriteString(m.renderHelp())
	}

	if m.status != "" && m.mode == NormalMode {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.DragColor)).Render(m.status))
		sb.WriteString("\n")
	}
	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render(fmt.Sprintf("Error: %v", m.err)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) banner(text, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(text)
}

func (m Model) titleBar() string {
	name := m.store.Config().Visual.AgencyName
	if m.display == BoardDisplay {
		return m.banner(fmt.Sprintf(" %s - Board ", name), m.styles.AccentColor)
	}
	return m.banner(fmt.Sprintf(" %s - Agenda ", name), m.styles.AccentColor)
}

// infoLine describes what is on screen. It is always a single line.
func (m Model) infoLine() string {
	var info string
	if m.display == BoardDisplay {
		info = m.boardInfo()
	} else {
		info = m.agendaInfo()
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor)).
		Render(truncate(info, width))
}

func (m Model) agendaInfo() string {
	window := m.window()
	var span string
	if m.viewMode == agenda.MonthView {
		span = m.anchor.Format("January 2006")
	} else {
		mode := m.viewMode.String()
		span = fmt.Sprintf("%s%s %s to %s", strings.ToUpper(mode[:1]), mode[1:], window[0].Format("02 Jan"), window[len(window)-1].Format("02 Jan 2006"))
	}
	g := m.grid()
	info := fmt.Sprintf("%s | %02d:00-%02d:00", span, g.StartHour, g.EndHour)

	day, hour := m.cursorSlot()
	slot := "unscheduled"
	if hour >= 0 {
		slot = model.AtHour(hour).String()
	}
	info += fmt.Sprintf(" | %s %s, %gh planned", day.Format("Mon 02"), slot, reports.DayLoad(m.store.ListTasks(), model.FormatDate(day)))

	if id, ok := m.engine.ResizingTask(); ok {
		if t, found := m.store.Task(id); found {
			info += fmt.Sprintf(" | resizing %s to %gh", t.Title, m.preview)
		}
	}
	return info
}

func (m Model) boardInfo() string {
	parts := []string{fmt.Sprintf("%d tasks", len(m.filter.Apply(m.store.ListTasks())))}
	if m.filter.ClientID != "" {
		parts = append(parts, "client: "+m.clientNames()[m.filter.ClientID])
	}
	if m.filter.Priority != nil {
		parts = append(parts, "priority: "+m.filter.Priority.String())
	}
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.filter.Search))
	}

	order := "asc"
	if m.sortOrder == SortDesc {
		order = "desc"
	}
	sortInfo := fmt.Sprintf("sorted by %s (%s)", m.sortBy, order)
	if m.groupBy != GroupByNone {
		sortInfo += ", grouped by " + m.groupBy.String()
	}
	parts = append(parts, sortInfo)
	return "Showing " + strings.Join(parts, " | ")
}

// renderAgenda lays out the sidebar next to the timeline or month grid.
func (m Model) renderAgenda() string {
	var body string
	if m.viewMode == agenda.MonthView {
		body = m.renderMonth()
	} else {
		body = m.renderTimeline()
	}
	if !m.sidebarVisible() {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
}

// renderSidebar lists clients with the hours planned against their weekly
// contract for the week on screen.
func (m Model) renderSidebar() string {
	style := lipgloss.NewStyle().Width(sidebarWidth)
	lines := []string{style.Bold(true).Render("Clients")}

	stats := reports.ClientStats(m.store.ListClients(), m.store.ListTasks(), reports.PeriodWeek, m.anchor)
	for _, s := range stats {
		line := truncate(fmt.Sprintf("%s %g/%gh", s.Client.Name, s.ExecutedHours, s.ContractedHours), sidebarWidth-1)
		st := style.Foreground(lipgloss.Color(m.styles.NormalTextColor))
		if s.Client.ID == m.filter.ClientID {
			st = st.Foreground(lipgloss.Color(m.styles.AccentColor)).Bold(true)
		}
		lines = append(lines, st.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTimeline() string {
	g := m.grid()
	colW := m.columnWidth()
	window := m.window()
	days := m.days()

	faint := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.BorderColor))
	gutterStyle := faint.Width(gutterWidth)

	gutter := []string{gutterStyle.Render(""), gutterStyle.Render("--:--")}
	for i := 1; i < unscheduledLines; i++ {
		gutter = append(gutter, gutterStyle.Render(""))
	}
	gutter = append(gutter, gutterStyle.Render(strings.Repeat("─", gutterWidth-1)))
	for _, h := range g.Hours() {
		gutter = append(gutter, gutterStyle.Render(fmt.Sprintf("%02d:00", h)))
		for i := 1; i < g.CellHeight; i++ {
			gutter = append(gutter, gutterStyle.Render(""))
		}
	}

	blocks := []string{strings.Join(gutter, "\n")}
	for i, day := range days {
		blocks = append(blocks, strings.Join(m.dayColumn(i, window[i], day, colW), "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// dayColumn renders one day of the timeline, one string per terminal line.
func (m Model) dayColumn(col int, date time.Time, day agenda.DayTasks, colW int) []string {
	g := m.grid()
	gridLines := m.gridLines()
	base := lipgloss.NewStyle().Width(colW)
	faint := base.Foreground(lipgloss.Color(m.styles.BorderColor))
	cursorStyle := base.Background(lipgloss.Color(m.styles.SelectedBgColor))
	onCursorDay := col == m.cursor.day

	cell := func(st lipgloss.Style, text string) string {
		return st.Render(truncate(text, colW-1))
	}

	lines := make([]string, 0, gridTop-topLines+gridLines)

	header := base.Bold(true)
	if model.SameDay(date, m.now()) {
		header = header.Foreground(lipgloss.Color(m.styles.TodayColor))
	}
	if onCursorDay {
		header = header.Underline(true)
	}
	lines = append(lines, cell(header, date.Format("Mon 02")))

	// Unscheduled region
	shown := shownUnscheduled(len(day.Unscheduled))
	for i := 0; i < unscheduledLines; i++ {
		slotSelected := onCursorDay && m.cursor.row == 0
		switch {
		case i < shown:
			t := day.Unscheduled[i]
			lines = append(lines, cell(m.taskStyle(base, t, slotSelected && m.cursor.index == i), taskLabel(t)))
		case i == shown && len(day.Unscheduled) > shown:
			lines = append(lines, cell(faint, fmt.Sprintf("+%d more", len(day.Unscheduled)-shown)))
		case slotSelected && i == 0:
			lines = append(lines, cell(cursorStyle, ""))
		default:
			lines = append(lines, cell(base, ""))
		}
	}
	lines = append(lines, faint.Render(strings.Repeat("─", colW)))

	// Timed grid
	grid := make([]string, gridLines)
	for i := range grid {
		st := faint
		if onCursorDay && m.cursor.row == i/g.CellHeight+1 {
			st = cursorStyle
		}
		if i%g.CellHeight == 0 {
			grid[i] = cell(st, "·")
		} else {
			grid[i] = cell(st, "")
		}
	}

	resizingID, resizing := m.engine.ResizingTask()
	slotIndex := map[int]int{}
	for _, tt := range day.Scheduled {
		idx := slotIndex[tt.Hour]
		slotIndex[tt.Hour]++
		selected := onCursorDay && m.cursor.row == tt.Hour-g.StartHour+1 && m.cursor.index == idx

		height := blockHeight(tt, gridLines)
		if resizing && tt.Task.ID == resizingID && m.preview > 0 {
			preview := tt
			preview.Height = int(m.preview * float64(g.CellHeight))
			height = blockHeight(preview, gridLines)
		}

		st := m.taskStyle(base, tt.Task, selected)
		for i := 0; i < height; i++ {
			text := ""
			switch {
			case i == 0:
				text = tt.Task.StartTime.String() + " " + taskLabel(tt.Task)
			case i == height-1:
				text = strings.Repeat("═", colW-1)
			}
			grid[tt.Top+i] = cell(st, text)
		}
	}
	return append(lines, grid...)
}

// taskStyle colours a task by state: the task being moved or resized first,
// then the cursor, then completion and urgency.
func (m Model) taskStyle(base lipgloss.Style, t model.Task, selected bool) lipgloss.Style {
	st := base.Background(lipgloss.Color(m.styles.TaskBgColor)).Foreground(lipgloss.Color(m.styles.NormalTextColor))
	resizingID, _ := m.engine.ResizingTask()
	dragging := m.drag != nil && m.drag.taskID == t.ID

	switch {
	case t.ID == m.carrying || t.ID == resizingID || dragging:
		st = st.Background(lipgloss.Color(m.styles.DragColor)).Foreground(lipgloss.Color(m.styles.SelectedTextColor))
	case selected:
		st = st.Background(lipgloss.Color(m.styles.SelectedBgColor)).Foreground(lipgloss.Color(m.styles.SelectedTextColor)).Bold(true)
	case t.IsCompleted():
		st = st.Foreground(lipgloss.Color(m.styles.CompletedColor)).Strikethrough(true)
	case t.Priority == model.PriorityUrgent:
		st = st.Foreground(lipgloss.Color(m.styles.UrgentColor))
	}
	return st
}

func taskLabel(t model.Task) string {
	if t.IsCompleted() {
		return "✓ " + t.Title
	}
	return t.Title
}

// renderMonth draws the month as weeks of day cells with task counts.
func (m Model) renderMonth() string {
	colW := m.columnWidth()
	base := lipgloss.NewStyle().Width(colW)
	window := m.window()
	days := m.days()
	month := m.anchor.Month()

	var rows []string
	var names []string
	for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		names = append(names, base.Bold(true).Render(d))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, names...))

	for start := 0; start < len(window); start += 7 {
		var cells []string
		for i := start; i < start+7; i++ {
			if i >= len(window) {
				cells = append(cells, base.Render(strings.Repeat("\n", monthRowLines-1)))
				continue
			}
			cells = append(cells, m.monthCell(i, window[i], days[i], month, base, colW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) monthCell(i int, date time.Time, day agenda.DayTasks, month time.Month, base lipgloss.Style, colW int) string {
	st := base.Foreground(lipgloss.Color(m.styles.NormalTextColor))
	switch {
	case i == m.cursor.day && m.carrying != "":
		st = st.Background(lipgloss.Color(m.styles.DragColor)).Foreground(lipgloss.Color(m.styles.SelectedTextColor))
	case i == m.cursor.day:
		st = st.Background(lipgloss.Color(m.styles.SelectedBgColor)).Foreground(lipgloss.Color(m.styles.SelectedTextColor))
	case model.SameDay(date, m.now()):
		st = st.Foreground(lipgloss.Color(m.styles.TodayColor)).Bold(true)
	case date.Month() != month:
		st = st.Foreground(lipgloss.Color(m.styles.BorderColor))
	}

	count, first := "", ""
	if n := len(day.All); n > 0 {
		count = fmt.Sprintf("%d task", n)
		if n > 1 {
			count += "s"
		}
		first = taskLabel(day.All[0])
	}
	lines := []string{
		st.Render(truncate(strconv.Itoa(date.Day()), colW-1)),
		st.Render(truncate(count, colW-1)),
		st.Render(truncate(first, colW-1)),
	}
	return strings.Join(lines, "\n")
}

// renderForm renders the input form for adding/editing tasks
func (m Model) renderForm() string {
	var sb strings.Builder
	for i, in := range m.inputs {
		sb.WriteString(formLabels[i])
		sb.WriteString("\n")
		sb.WriteString(in.View())
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
	sb.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))

	section := func(title string, bindings ...key.Binding) {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
		sb.WriteString("\n")
		for _, b := range bindings {
			sb.WriteString(fmt.Sprintf("%s: %s\n", descStyle.Render(b.Help().Desc), keyStyle.Render(b.Help().Key)))
		}
		sb.WriteString("\n")
	}

	km := m.keyMap
	section("Tasks", km.AddTask, km.EditTask, km.DeleteTask, km.ToggleStatus, km.SearchTasks, km.FilterClient, km.FilterPriority)
	section("Agenda", km.CycleViewMode, km.PrevPeriod, km.NextPeriod, km.JumpToToday,
		km.CursorLeft, km.CursorRight, km.CursorUp, km.CursorDown, km.NextInSlot,
		km.PickUp, km.Drop, km.GrowTask, km.ShrinkTask)
	section("Board", km.ToggleBoard, km.ToggleSortBy, km.ToggleGroupBy, km.ToggleSortOrder)
	section("General", km.ToggleSidebar, km.ShowHelp, km.QuitApp)

	sb.WriteString(descStyle.Render("Mouse: drag a task onto a day or hour; drag its bottom edge to resize; esc cancels."))
	sb.WriteString("\n")
	return sb.String()
}

// helpBar renders a status bar with available actions
func (m Model) helpBar() string {
	var actions []string

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))
	separator := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.BorderColor)).
		Render(" • ")

	addAction := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}
	addBinding := func(b key.Binding, desc string) {
		addAction(b.Help().Key, desc)
	}

	switch m.mode {
	case NormalMode:
		switch {
		case m.engine.Resizing():
			addAction("release", "set duration")
			addAction("esc", "cancel")
		case m.carrying != "":
			addAction("←↑↓→", "choose slot")
			addBinding(m.keyMap.Drop, "drop")
			addAction("esc", "cancel")
		case m.display == BoardDisplay:
			addBinding(m.keyMap.AddTask, "add")
			addBinding(m.keyMap.EditTask, "edit")
			addBinding(m.keyMap.DeleteTask, "del")
			addBinding(m.keyMap.ToggleStatus, "toggle")
			addAction("←/→", "status")
			addAction("s/g/o", "sort/grp/ord")
			addBinding(m.keyMap.ToggleBoard, "agenda")
		default:
			addBinding(m.keyMap.AddTask, "add")
			addBinding(m.keyMap.PickUp, "move")
			addAction("+/-", "resize")
			addBinding(m.keyMap.ToggleStatus, "toggle")
			addBinding(m.keyMap.CycleViewMode, "view")
			addBinding(m.keyMap.ToggleBoard, "board")
		}
		addBinding(m.keyMap.ShowHelp, "help")
		addBinding(m.keyMap.QuitApp, "quit")

	case AddMode, EditMode:
		addAction("tab", "next field")
		addAction("enter", "save")
		addAction("esc", "cancel")

	case DeleteConfirmMode:
		addAction("y", "confirm")
		addAction("n", "cancel")

	case SearchMode:
		addAction("enter", "search")
		addAction("esc", "cancel")

	case HelpViewMode:
		addAction("esc", "back")
		addBinding(m.keyMap.QuitApp, "quit")
	}

	return strings.Join(actions, separator)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
