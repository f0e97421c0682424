package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/keymaps"
)

// EnvPrefix is the prefix for environment overrides, e.g. STUDIOID_DATABASE_DSN.
const EnvPrefix = "STUDIOID"

// Config holds the application configuration
type Config struct {
	Database   DatabaseConfig    `mapstructure:"database"`
	Namespace  string            `mapstructure:"namespace"`
	KeyMap     map[string]string `mapstructure:"keymap"`
	StylesFile string            `mapstructure:"styles_file"`
	Agenda     AgendaConfig      `mapstructure:"agenda"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// AgendaConfig sets the visible hour range and how many terminal lines one
// hour takes in the timeline.
type AgendaConfig struct {
	StartHour   int    `mapstructure:"start_hour"`
	EndHour     int    `mapstructure:"end_hour"`
	CellHeight  int    `mapstructure:"cell_height"`
	DefaultView string `mapstructure:"default_view"`
}

// Grid converts the agenda settings for the placement engine.
func (a AgendaConfig) Grid() agenda.Grid {
	return agenda.Grid{StartHour: a.StartHour, EndHour: a.EndHour, CellHeight: a.CellHeight}
}

// ViewMode returns the configured start view, falling back to week.
func (a AgendaConfig) ViewMode() agenda.ViewMode {
	m, err := agenda.ParseViewMode(a.DefaultView)
	if err != nil {
		return agenda.WeekView
	}
	return m
}

// Styles holds the application colors and styling information
type Styles struct {
	// UI element colors
	BorderColor string `json:"border_color"`
	AccentColor string `json:"accent_color"`

	// Text colors
	NormalTextColor   string `json:"normal_text_color"`
	SelectedTextColor string `json:"selected_text_color"`
	SelectedBgColor   string `json:"selected_bg_color"`
	ErrorColor        string `json:"error_color"`

	// Agenda colors
	TodayColor     string `json:"today_color"`
	TaskBgColor    string `json:"task_bg_color"`
	CompletedColor string `json:"completed_color"`
	DragColor      string `json:"drag_color"`
	UrgentColor    string `json:"urgent_color"`
}

// DefaultStyles matches a 256-colour terminal palette.
func DefaultStyles() Styles {
	return Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "252",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		TodayColor:        "214",
		TaskBgColor:       "236",
		CompletedColor:    "243",
		DragColor:         "45",
		UrgentColor:       "196",
	}
}

// Dir is the directory holding the config, styles and default database.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "studioid"), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", filepath.Join(dir, "studioid.db"))
	v.SetDefault("namespace", "studioflow_v3_bw_edition")
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles_file", filepath.Join(dir, "styles.json"))
	v.SetDefault("agenda.start_hour", agenda.DefaultStartHour)
	v.SetDefault("agenda.end_hour", agenda.DefaultEndHour)
	v.SetDefault("agenda.cell_height", 2)
	v.SetDefault("agenda.default_view", agenda.WeekView.String())
}

// Load loads the application configuration from the specified path. A missing
// file is created with the defaults. Environment variables prefixed with
// STUDIOID_ override file values.
func Load(configPath string) (Config, Styles, error) {
	configDir, err := Dir()
	if err != nil {
		return Config{}, Styles{}, err
	}

	// If configPath is empty, use the default path
	if configPath == "" {
		configPath = filepath.Join(configDir, "config.json")
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return Config{}, Styles{}, err
		}
		if err := v.WriteConfigAs(configPath); err != nil {
			return Config{}, Styles{}, fmt.Errorf("error writing default config: %w", err)
		}
	} else if err != nil {
		return Config{}, Styles{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, Styles{}, fmt.Errorf("error reading config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return config, Styles{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, Styles{}, err
	}

	// Now load the styles file
	styles, err := loadStyles(config.StylesFile)
	if err != nil {
		return config, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return config, styles, nil
}

// Validate rejects agenda settings the timeline cannot draw.
func (c Config) Validate() error {
	a := c.Agenda
	if a.StartHour < 0 || a.EndHour > 23 || a.StartHour > a.EndHour {
		return fmt.Errorf("invalid agenda hours %d-%d", a.StartHour, a.EndHour)
	}
	if a.CellHeight <= 0 {
		return fmt.Errorf("invalid agenda cell height %d", a.CellHeight)
	}
	if a.DefaultView != "" {
		if _, err := agenda.ParseViewMode(a.DefaultView); err != nil {
			return err
		}
	}
	return nil
}

// loadStyles loads the application styles from the specified path
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := DefaultStyles()

	// Try to read the styles file
	stylesData, err := os.ReadFile(stylesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return defaultStyles, err
		}

		// If the file doesn't exist, create it with default values
		if err := os.MkdirAll(filepath.Dir(stylesPath), 0755); err != nil {
			return defaultStyles, err
		}
		stylesData, err = json.MarshalIndent(defaultStyles, "", "  ")
		if err != nil {
			return defaultStyles, err
		}
		if err := os.WriteFile(stylesPath, stylesData, 0644); err != nil {
			return defaultStyles, err
		}
		return defaultStyles, nil
	}

	// Missing keys keep their default colour
	loadedStyles := defaultStyles
	if err := json.Unmarshal(stylesData, &loadedStyles); err != nil {
		return defaultStyles, err
	}

	return loadedStyles, nil
}
