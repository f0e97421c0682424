package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

// KeyDefinitions lists every configurable action. Several keys for one
// action are separated by commas.
var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":        {"?", "show/hide commands"},
	"QuitApp":         {"q,ctrl+c", "quit"},
	"ToggleStatus":    {"space", "toggle completed"},
	"AddTask":         {"a", "add task"},
	"EditTask":        {"e", "edit task"},
	"DeleteTask":      {"d", "delete task"},
	"ToggleBoard":     {"b", "switch agenda / board"},
	"CycleViewMode":   {"v", "cycle week / fortnight / month"},
	"PrevPeriod":      {"[,pgup", "previous period"},
	"NextPeriod":      {"],pgdown", "next period"},
	"JumpToToday":     {"t", "jump to today"},
	"CursorLeft":      {"left,h", "previous day"},
	"CursorRight":     {"right,l", "next day"},
	"CursorUp":        {"up,k", "previous slot"},
	"CursorDown":      {"down,j", "next slot"},
	"NextInSlot":      {"tab", "next task in slot"},
	"PickUp":          {"m", "pick up task to move"},
	"Drop":            {"enter", "drop task on slot"},
	"GrowTask":        {"+,=", "lengthen task by one hour"},
	"ShrinkTask":      {"-", "shorten task by one hour"},
	"SearchTasks":     {"/", "search tasks"},
	"FilterClient":    {"f", "cycle client filter"},
	"FilterPriority":  {"p", "cycle priority filter"},
	"ToggleSortBy":    {"s", "cycle sort by"},
	"ToggleGroupBy":   {"g", "cycle group by"},
	"ToggleSortOrder": {"o", "toggle sort order"},
	"ToggleSidebar":   {"\\", "show/hide clients"},
}

type KeyMap struct {
	ShowHelp        key.Binding
	QuitApp         key.Binding
	ToggleStatus    key.Binding
	AddTask         key.Binding
	EditTask        key.Binding
	DeleteTask      key.Binding
	ToggleBoard     key.Binding
	CycleViewMode   key.Binding
	PrevPeriod      key.Binding
	NextPeriod      key.Binding
	JumpToToday     key.Binding
	CursorLeft      key.Binding
	CursorRight     key.Binding
	CursorUp        key.Binding
	CursorDown      key.Binding
	NextInSlot      key.Binding
	PickUp          key.Binding
	Drop            key.Binding
	GrowTask        key.Binding
	ShrinkTask      key.Binding
	SearchTasks     key.Binding
	FilterClient    key.Binding
	FilterPriority  key.Binding
	ToggleSortBy    key.Binding
	ToggleGroupBy   key.Binding
	ToggleSortOrder key.Binding
	ToggleSidebar   key.Binding
}

func (km *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"ShowHelp":        &km.ShowHelp,
		"QuitApp":         &km.QuitApp,
		"ToggleStatus":    &km.ToggleStatus,
		"AddTask":         &km.AddTask,
		"EditTask":        &km.EditTask,
		"DeleteTask":      &km.DeleteTask,
		"ToggleBoard":     &km.ToggleBoard,
		"CycleViewMode":   &km.CycleViewMode,
		"PrevPeriod":      &km.PrevPeriod,
		"NextPeriod":      &km.NextPeriod,
		"JumpToToday":     &km.JumpToToday,
		"CursorLeft":      &km.CursorLeft,
		"CursorRight":     &km.CursorRight,
		"CursorUp":        &km.CursorUp,
		"CursorDown":      &km.CursorDown,
		"NextInSlot":      &km.NextInSlot,
		"PickUp":          &km.PickUp,
		"Drop":            &km.Drop,
		"GrowTask":        &km.GrowTask,
		"ShrinkTask":      &km.ShrinkTask,
		"SearchTasks":     &km.SearchTasks,
		"FilterClient":    &km.FilterClient,
		"FilterPriority":  &km.FilterPriority,
		"ToggleSortBy":    &km.ToggleSortBy,
		"ToggleGroupBy":   &km.ToggleGroupBy,
		"ToggleSortOrder": &km.ToggleSortOrder,
		"ToggleSidebar":   &km.ToggleSidebar,
	}
}

// BuildKeyMap applies config overrides on top of the defaults. Action names
// are matched case-insensitively since the config loader lowercases keys.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keys := range configOverrides {
		overrides[strings.ToLower(action)] = keys
	}

	km := KeyMap{}
	for action, binding := range km.bindings() {
		def := KeyDefinitions[action]
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && override != "" {
			keyStr = override
		}
		*binding = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
	}
	return km
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	keys := strings.Split(keyStr, ",")
	for i, k := range keys {
		keys[i] = strings.TrimSpace(k)
	}

	// The space bar arrives as " "
	matchKeys := keys
	for _, k := range keys {
		if k == "space" {
			matchKeys = append(append([]string{}, keys...), " ")
			break
		}
	}

	return key.NewBinding(
		key.WithKeys(matchKeys...),
		key.WithHelp(keys[0], helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}
