package model

// VisualConfig holds branding and theme preferences.
type VisualConfig struct {
	ThemeMode  string `json:"themeMode"` // light | dark
	AgencyName string `json:"agencyName"`
	UserName   string `json:"userName"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

// AppConfig holds the agency's working settings.
type AppConfig struct {
	TotalHoursPerDay float64      `json:"totalHoursPerDay"`
	WorkWindowStart  string       `json:"workWindowStart"`
	WorkWindowEnd    string       `json:"workWindowEnd"`
	Notes            string       `json:"notes"`
	WorkDays         []int        `json:"workDays"` // 0 = Sunday
	Visual           VisualConfig `json:"visual"`
}

// AppState is everything that gets persisted, as one blob.
type AppState struct {
	Clients          []Client  `json:"clients"`
	Projects         []Project `json:"projects"`
	Tasks            []Task    `json:"tasks"`
	Config           AppConfig `json:"config"`
	SidebarCollapsed bool      `json:"isSidebarCollapsed"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		TotalHoursPerDay: 8,
		WorkWindowStart:  "09:00",
		WorkWindowEnd:    "18:00",
		WorkDays:         []int{1, 2, 3, 4, 5},
		Visual: VisualConfig{
			ThemeMode:  "light",
			AgencyName: "StudioFlow",
			UserName:   "Creative",
		},
	}
}

// DefaultAppState is the first-run state: one example client, nothing else.
func DefaultAppState() AppState {
	return AppState{
		Clients: []Client{{
			ID:            "c-1",
			Name:          "Example Client",
			Brand:         "Brand One",
			Category:      "Technology",
			ContractType:  ContractRetainer,
			Color:         "#000000",
			WeeklyHours:   10,
			MinDailyHours: 1,
			Priority:      PriorityMedium,
		}},
		Projects: []Project{},
		Tasks:    []Task{},
		Config:   DefaultAppConfig(),
	}
}

// Normalize fills nil collections and missing visual settings so a partially
// written blob still loads into a usable state.
func (s *AppState) Normalize() {
	if s.Clients == nil {
		s.Clients = []Client{}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	def := DefaultAppConfig()
	if s.Config.TotalHoursPerDay == 0 {
		s.Config.TotalHoursPerDay = def.TotalHoursPerDay
	}
	if s.Config.WorkWindowStart == "" {
		s.Config.WorkWindowStart = def.WorkWindowStart
	}
	if s.Config.WorkWindowEnd == "" {
		s.Config.WorkWindowEnd = def.WorkWindowEnd
	}
	if s.Config.WorkDays == nil {
		s.Config.WorkDays = def.WorkDays
	}
	if s.Config.Visual.ThemeMode == "" {
		s.Config.Visual.ThemeMode = def.Visual.ThemeMode
	}
	if s.Config.Visual.AgencyName == "" {
		s.Config.Visual.AgencyName = def.Visual.AgencyName
	}
	if s.Config.Visual.UserName == "" {
		s.Config.Visual.UserName = def.Visual.UserName
	}
}
