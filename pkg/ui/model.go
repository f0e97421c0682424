package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/config"
	"github.com/guimunizramos/studioid/pkg/keymaps"
	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode
	EditMode
	DeleteConfirmMode
	SearchMode
	HelpViewMode
)

// Display is the main screen shown in NormalMode.
type Display int

const (
	AgendaDisplay Display = iota
	BoardDisplay
)

// Form fields, in tab order.
const (
	fieldTitle = iota
	fieldClient
	fieldDate
	fieldTime
	fieldHours
	fieldPriority
	fieldCount
)

// mouseDrag is a press on a task body waiting for its release.
type mouseDrag struct {
	taskID string
	moved  bool
}

// Model represents the application state
type Model struct {
	store  *store.Store
	engine *agenda.Engine
	now    func() time.Time

	width, height int
	err           error
	status        string

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap

	// Agenda state
	display  Display
	viewMode agenda.ViewMode
	anchor   time.Time
	cursor   cursor
	carrying string // id of the task picked up with the keyboard
	drag     *mouseDrag
	preview  float64 // duration shown while a resize is in progress

	// Board state
	table     table.Model
	rowTasks  []string // task id per table row, "" for group headers
	sortBy    SortBy
	groupBy   GroupBy
	sortOrder SortOrder

	// Filters
	filter store.Filter

	// Form state
	mode        InputMode
	inputs      []textinput.Model
	searchInput textinput.Model
	activeInput int
	editingID   string
}

// cursor addresses a slot of the agenda: a day of the window, and a row where
// 0 is the unscheduled region and 1..n are the visible hours. index selects
// one of the tasks sharing the slot.
type cursor struct {
	day   int
	row   int
	index int
}

// NewModel creates a new UI model over the store with the provided configuration
func NewModel(st *store.Store, cfg config.Config, styles config.Styles) Model {
	columns := []table.Column{
		{Title: "Status", Width: 18},
		{Title: "Due", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Title", Width: 36},
		{Title: "Client", Width: 16},
		{Title: "Priority", Width: 8},
		{Title: "Hours", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.BorderColor)).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(s)

	// The table only scrolls; every other key belongs to the app
	keyMap := keymaps.BuildKeyMap(cfg.KeyMap)
	t.KeyMap = table.KeyMap{
		LineUp:     keyMap.CursorUp,
		LineDown:   keyMap.CursorDown,
		PageUp:     key.NewBinding(key.WithKeys("pgup")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown")),
		GotoTop:    key.NewBinding(key.WithKeys("home")),
		GotoBottom: key.NewBinding(key.WithKeys("end")),
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search task titles"
	searchInput.Width = 40

	m := Model{
		store:       st,
		engine:      agenda.NewEngine(st, cfg.Agenda.Grid()),
		now:         time.Now,
		config:      cfg,
		styles:      styles,
		keyMap:      keyMap,
		table:       t,
		viewMode:    cfg.Agenda.ViewMode(),
		anchor:      time.Now(),
		mode:        NormalMode,
		inputs:      newFormInputs(),
		searchInput: searchInput,
	}
	m.cursor = m.todayCursor()
	m.loadTasks()

	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

func newFormInputs() []textinput.Model {
	placeholders := [fieldCount]string{
		fieldTitle:    "Title",
		fieldClient:   "Client name",
		fieldDate:     "Deadline (YYYY-MM-DD)",
		fieldTime:     "Start time (HH:MM, empty for unscheduled)",
		fieldHours:    "Estimated hours",
		fieldPriority: "urgent, high, medium or low",
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = 40
		inputs[i] = in
	}
	return inputs
}

// resetInputs clears all form inputs and prefills the slot under the cursor
func (m *Model) resetInputs() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	date, hour := m.cursorSlot()
	m.inputs[fieldDate].SetValue(model.FormatDate(date))
	if hour >= 0 {
		m.inputs[fieldTime].SetValue(model.AtHour(hour).String())
	}
	m.inputs[fieldHours].SetValue("1")
	m.inputs[fieldPriority].SetValue(model.PriorityMedium.Key())
	if len(m.store.ListClients()) == 1 {
		m.inputs[fieldClient].SetValue(m.store.ListClients()[0].Name)
	}

	m.activeInput = fieldTitle
	m.inputs[fieldTitle].Focus()
}
