package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/utils"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case NormalMode:
			if msg.Type == tea.KeyEsc {
				m.cancelGestures()
				return m, nil
			}
			if m.handleNormalKey(msg) {
				return m, tea.Quit
			}

		case AddMode, EditMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.editingID = ""
				m.err = nil
				return m, nil

			case "tab", "down":
				m.focusNextInput()
				return m, nil

			case "shift+tab", "up":
				m.focusPreviousInput()
				return m, nil

			case "enter":
				if m.activeInput == fieldCount-1 {
					m.submitForm()
				} else {
					m.focusNextInput()
				}
				return m, nil
			}

			m.inputs[m.activeInput], cmd = m.inputs[m.activeInput].Update(msg)
			cmds = append(cmds, cmd)

		case SearchMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.filter.Search = ""
				m.loadTasks()
				return m, nil

			case "enter":
				m.filter.Search = m.searchInput.Value()
				utils.Log("Searching for: %s", m.filter.Search)
				m.mode = NormalMode
				m.display = BoardDisplay
				m.loadTasks()
				return m, nil
			}

			m.searchInput, cmd = m.searchInput.Update(msg)
			cmds = append(cmds, cmd)

		case DeleteConfirmMode:
			switch msg.String() {
			case "y", "Y":
				utils.Log("Deleting task ID: %s", m.editingID)
				m.refresh(m.store.DeleteTask(m.editingID))
				m.mode = NormalMode
				m.editingID = ""

			case "n", "N", "esc":
				m.mode = NormalMode
				m.editingID = ""
			}

		case HelpViewMode:
			switch {
			case msg.String() == "esc", key.Matches(msg, m.keyMap.ShowHelp):
				m.mode = NormalMode
			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit
			}
		}

	case tea.MouseMsg:
		if m.mode == NormalMode && m.display == AgendaDisplay {
			m.handleMouse(msg)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 2)
		m.table.SetHeight(msg.Height - 6)
	}

	// Only the board forwards keys to the table
	if m.mode == NormalMode && m.display == BoardDisplay {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleNormalKey runs a NormalMode binding. It reports whether to quit.
func (m *Model) handleNormalKey(msg tea.KeyMsg) bool {
	board := m.display == BoardDisplay
	m.status = ""

	switch {
	case key.Matches(msg, m.keyMap.QuitApp):
		return true

	case key.Matches(msg, m.keyMap.ShowHelp):
		m.mode = HelpViewMode

	case key.Matches(msg, m.keyMap.ToggleBoard):
		if board {
			m.display = AgendaDisplay
		} else {
			m.display = BoardDisplay
		}
		m.cancelGestures()
		m.loadTasks()

	case key.Matches(msg, m.keyMap.ToggleStatus):
		if t, ok := m.selectedTask(); ok {
			_, err := m.engine.ToggleComplete(t.ID)
			m.refresh(err)
		}

	case key.Matches(msg, m.keyMap.AddTask):
		m.mode = AddMode
		m.err = nil
		m.resetInputs()

	case key.Matches(msg, m.keyMap.EditTask):
		if t, ok := m.selectedTask(); ok {
			m.err = nil
			m.startEdit(t)
		}

	case key.Matches(msg, m.keyMap.DeleteTask):
		if t, ok := m.selectedTask(); ok {
			m.mode = DeleteConfirmMode
			m.editingID = t.ID
		}

	case key.Matches(msg, m.keyMap.SearchTasks):
		m.mode = SearchMode
		m.searchInput.SetValue(m.filter.Search)
		m.searchInput.Focus()

	case key.Matches(msg, m.keyMap.FilterClient):
		m.cycleClientFilter()

	case key.Matches(msg, m.keyMap.FilterPriority):
		m.cyclePriorityFilter()

	case key.Matches(msg, m.keyMap.ToggleSortBy):
		m.sortBy = (m.sortBy + 1) % sortByCount
		m.loadTasks()

	case key.Matches(msg, m.keyMap.ToggleGroupBy):
		m.groupBy = (m.groupBy + 1) % groupByCount
		m.loadTasks()

	case key.Matches(msg, m.keyMap.ToggleSortOrder):
		if m.sortOrder == SortAsc {
			m.sortOrder = SortDesc
		} else {
			m.sortOrder = SortAsc
		}
		m.loadTasks()

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.refresh(m.store.SetSidebarCollapsed(!m.store.SidebarCollapsed()))

	case key.Matches(msg, m.keyMap.CursorLeft):
		if board {
			m.shiftStatus(-1)
		} else {
			m.moveDay(-1)
		}

	case key.Matches(msg, m.keyMap.CursorRight):
		if board {
			m.shiftStatus(1)
		} else {
			m.moveDay(1)
		}

	case board:
		// Remaining keys drive the agenda; the table handles its own

	case key.Matches(msg, m.keyMap.CycleViewMode):
		m.viewMode = m.viewMode.Next()
		m.cursor = m.todayCursor()
		if m.viewMode == agenda.MonthView {
			m.cursor.row = 0
		}
		m.clampCursor()

	case key.Matches(msg, m.keyMap.PrevPeriod):
		m.navigate(agenda.Prev)

	case key.Matches(msg, m.keyMap.NextPeriod):
		m.navigate(agenda.Next)

	case key.Matches(msg, m.keyMap.JumpToToday):
		m.jumpToToday()

	case key.Matches(msg, m.keyMap.CursorUp):
		m.moveRow(-1)

	case key.Matches(msg, m.keyMap.CursorDown):
		m.moveRow(1)

	case key.Matches(msg, m.keyMap.NextInSlot):
		if n := len(m.slotTasks(m.cursor)); n > 0 {
			m.cursor.index = (m.cursor.index + 1) % n
		}

	case key.Matches(msg, m.keyMap.PickUp):
		if t, ok := m.selectedTask(); ok {
			m.carrying = t.ID
			m.status = "Moving " + t.Title + ": choose a slot and press enter"
		}

	case key.Matches(msg, m.keyMap.Drop):
		if m.carrying != "" {
			m.dropCarried()
		}

	case key.Matches(msg, m.keyMap.GrowTask):
		if t, ok := m.selectedTask(); ok {
			m.resizeBy(t.ID, 1)
		}

	case key.Matches(msg, m.keyMap.ShrinkTask):
		if t, ok := m.selectedTask(); ok {
			m.resizeBy(t.ID, -1)
		}
	}
	return false
}

// handleMouse drives dragging a task body onto a slot and resizing a task
// from its bottom edge.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseLeft:
		if m.engine.Resizing() || m.drag != nil {
			return
		}
		if c, ok := m.slotAt(msg.X, msg.Y); ok {
			m.cursor = c
		}
		id, bottom, ok := m.taskAt(msg.X, msg.Y)
		if !ok {
			m.clampCursor()
			return
		}
		m.selectInSlot(id)
		if bottom {
			if err := m.engine.BeginResize(id, msg.Y); err != nil {
				m.err = err
				return
			}
			m.preview, _ = m.engine.PreviewDuration(msg.Y)
			return
		}
		m.drag = &mouseDrag{taskID: id}

	case tea.MouseMotion:
		if d, ok := m.engine.PreviewDuration(msg.Y); ok {
			m.preview = d
			return
		}
		if m.drag != nil {
			m.drag.moved = true
			if c, ok := m.slotAt(msg.X, msg.Y); ok {
				m.cursor = c
			}
		}

	case tea.MouseRelease:
		if m.engine.Resizing() {
			_, err := m.engine.CommitResize(msg.Y)
			m.preview = 0
			m.refresh(err)
			return
		}
		if m.drag == nil {
			return
		}
		drag := m.drag
		m.drag = nil
		c, ok := m.slotAt(msg.X, msg.Y)
		if !ok || !drag.moved {
			return
		}
		m.cursor = c
		moved, err := m.engine.Drop(drag.taskID, m.target())
		if moved {
			m.status = "Task moved"
		}
		m.refresh(err)
		m.selectInSlot(drag.taskID)
	}
}

// selectInSlot points the cursor index at id when it sits in the cursor's slot
func (m *Model) selectInSlot(id string) {
	for i, t := range m.slotTasks(m.cursor) {
		if t.ID == id {
			m.cursor.index = i
			return
		}
	}
	m.cursor.index = 0
}

// cancelGestures abandons a resize, a mouse drag or a keyboard pick up
// without writing anything.
func (m *Model) cancelGestures() {
	m.engine.CancelResize()
	m.preview = 0
	m.drag = nil
	m.carrying = ""
	m.status = ""
}
