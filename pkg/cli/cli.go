package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/guimunizramos/studioid/pkg/config"
	"github.com/guimunizramos/studioid/pkg/database"
	"github.com/guimunizramos/studioid/pkg/store"
	"github.com/guimunizramos/studioid/pkg/ui"
	"github.com/guimunizramos/studioid/pkg/utils"
)

// App carries the global flags and the resources opened for one command.
type App struct {
	ConfigPath string
	Verbose    bool

	Config config.Config
	Styles config.Styles

	db    *sql.DB
	repo  *database.SQLRepository
	store *store.Store
}

// NewRootCmd builds the studioid command tree over app. With no subcommand
// it starts the TUI.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "studioid",
		Short:        "Agency task dashboard with a drag & drop agenda",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive agenda
  studioid

  # Add a task for tomorrow at 14:00
  studioid add "Hero copy +SiteRelaunch" --client Acme --date 2024-01-05 --time 14:00 --hours 2

  # Move it to the unscheduled region of another day
  studioid move 1a2b3c4d --date 2024-01-06
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			utils.InitLogger(app.Verbose)
			cfg, styles, err := config.Load(app.ConfigPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			app.Config, app.Styles = cfg, styles
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newAgendaCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newResizeCmd(app))
	cmd.AddCommand(newClientsCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPurgeCmd(app))
	cmd.AddCommand(newSettingsCmd(app))

	return cmd
}

// Execute runs the root command and reports errors on stderr.
func Execute() int {
	app := &App{}
	if err := execute(app, NewRootCmd(app)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// execute runs cmd and releases app's resources whether or not it failed.
func execute(app *App, cmd *cobra.Command) error {
	defer app.Close()
	return cmd.ExecuteContext(context.Background())
}

// openRepo connects to the configured database and ensures the schema.
func (app *App) openRepo() (*database.SQLRepository, error) {
	if app.repo != nil {
		return app.repo, nil
	}
	driver := app.Config.Database.Driver
	db, err := database.ConnectDB(driver, app.Config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := database.EnsureSchema(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating database schema: %w", err)
	}
	repo, err := database.NewSQLRepository(db, driver, app.Config.Namespace)
	if err != nil {
		db.Close()
		return nil, err
	}
	app.db, app.repo = db, repo
	return repo, nil
}

// openStore loads the saved state once per command.
func (app *App) openStore(ctx context.Context) (*store.Store, error) {
	if app.store != nil {
		return app.store, nil
	}
	repo, err := app.openRepo()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, repo)
	if err != nil {
		return nil, err
	}
	app.store = st
	return st, nil
}

// Close releases the database and the log file. It is safe to call twice.
func (app *App) Close() {
	if app.db != nil {
		app.db.Close()
	}
	app.db, app.repo, app.store = nil, nil, nil
	utils.CloseLogger()
}

func runTUI(ctx context.Context, app *App) error {
	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	m := ui.NewModel(st, app.Config, app.Styles)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
