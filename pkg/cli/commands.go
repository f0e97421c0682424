package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guimunizramos/studioid/pkg/agenda"
	"github.com/guimunizramos/studioid/pkg/commands"
	"github.com/guimunizramos/studioid/pkg/config"
	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/reports"
	"github.com/guimunizramos/studioid/pkg/store"
)

func newAddCmd(app *App) *cobra.Command {
	var opts commands.AddOptions
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task (a +Project tag links it to a project)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			_, err = commands.HandleAddTask(cmd.OutOrStdout(), st, args[0], opts, time.Now())
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Client, "client", "", "Client id or name")
	cmd.Flags().StringVar(&opts.Date, "date", "", "Deadline (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "Start time (HH:MM); leave empty for unscheduled")
	cmd.Flags().Float64Var(&opts.Hours, "hours", 1, "Estimated hours")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "urgent, high, medium or low")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Task status key, e.g. in_progress")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Task type, e.g. Design")
	return cmd
}

func newAgendaCmd(app *App) *cobra.Command {
	var date, view string
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print the week, fortnight or month around a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := parseAnchor(date)
			if err != nil {
				return err
			}
			mode := app.Config.Agenda.ViewMode()
			if view != "" {
				if mode, err = agenda.ParseViewMode(view); err != nil {
					return err
				}
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			commands.HandleAgenda(cmd.OutOrStdout(), st, anchor, mode, app.Config.Agenda.Grid())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Anchor date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&view, "view", "", "week, fortnight or month (default from config)")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var date string
	var hour int
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to a day, at an hour or unscheduled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				return fmt.Errorf("--date is required")
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("hour") {
				hour = -1
			}
			return commands.HandleMove(cmd.OutOrStdout(), st, args[0], date, hour)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Target day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&hour, "hour", -1, "Target hour (0-23); omit to leave the task unscheduled")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle a task between completed and planned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return commands.HandleDone(cmd.OutOrStdout(), st, args[0])
		},
	}
}

func newResizeCmd(app *App) *cobra.Command {
	var by int
	cmd := &cobra.Command{
		Use:   "resize <task-id>",
		Short: "Lengthen or shorten a task by whole hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return commands.HandleResize(cmd.OutOrStdout(), st, args[0], by)
		},
	}
	cmd.Flags().IntVar(&by, "by", 1, "Hours to add (negative to shorten)")
	return cmd
}

func newClientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List, add, edit or delete clients",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			commands.HandleClientsList(cmd.OutOrStdout(), st)
			return nil
		},
	}

	var c model.Client
	var contract, priority string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Name = args[0]
			if err := c.ContractType.UnmarshalText([]byte(contract)); err != nil {
				return err
			}
			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			c.Priority = p
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return commands.HandleClientAdd(cmd.OutOrStdout(), st, c)
		},
	}
	add.Flags().StringVar(&c.Brand, "brand", "", "Brand name")
	add.Flags().StringVar(&c.Category, "category", "", "Business category")
	add.Flags().StringVar(&contract, "contract", "retainer", "retainer or one_off")
	add.Flags().StringVar(&c.Color, "color", "#000000", "Display colour")
	add.Flags().Float64Var(&c.WeeklyHours, "weekly-hours", 0, "Contracted hours per week")
	add.Flags().Float64Var(&c.MinDailyHours, "min-daily-hours", 0, "Minimum hours per day")
	add.Flags().StringVar(&priority, "priority", "medium", "urgent, high, medium or low")

	cmd.AddCommand(list, add, newClientEditCmd(app), newClientDeleteCmd(app))
	return cmd
}

func newClientEditCmd(app *App) *cobra.Command {
	var edit model.Client
	var contract, priority string
	cmd := &cobra.Command{
		Use:   "edit <client>",
		Short: "Change a client's details; only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := st.FindClient(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				c.Name = edit.Name
			}
			if flags.Changed("brand") {
				c.Brand = edit.Brand
			}
			if flags.Changed("category") {
				c.Category = edit.Category
			}
			if flags.Changed("color") {
				c.Color = edit.Color
			}
			if flags.Changed("weekly-hours") {
				c.WeeklyHours = edit.WeeklyHours
			}
			if flags.Changed("min-daily-hours") {
				c.MinDailyHours = edit.MinDailyHours
			}
			if flags.Changed("contract") {
				if err := c.ContractType.UnmarshalText([]byte(contract)); err != nil {
					return err
				}
			}
			if flags.Changed("priority") {
				if c.Priority, err = model.ParsePriority(priority); err != nil {
					return err
				}
			}
			return commands.HandleClientEdit(cmd.OutOrStdout(), st, c)
		},
	}
	cmd.Flags().StringVar(&edit.Name, "name", "", "New name")
	cmd.Flags().StringVar(&edit.Brand, "brand", "", "Brand name")
	cmd.Flags().StringVar(&edit.Category, "category", "", "Business category")
	cmd.Flags().StringVar(&contract, "contract", "", "retainer or one_off")
	cmd.Flags().StringVar(&edit.Color, "color", "", "Display colour")
	cmd.Flags().Float64Var(&edit.WeeklyHours, "weekly-hours", 0, "Contracted hours per week")
	cmd.Flags().Float64Var(&edit.MinDailyHours, "min-daily-hours", 0, "Minimum hours per day")
	cmd.Flags().StringVar(&priority, "priority", "", "urgent, high, medium or low")
	return cmd
}

func newClientDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <client>",
		Short: "Delete a client with its projects and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return commands.HandleClientDelete(cmd.OutOrStdout(), cmd.InOrStdin(), st, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the agency's working settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			commands.HandleSettingsShow(cmd.OutOrStdout(), st)
			return nil
		},
	}

	var edit model.AppConfig
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings; only the given flags are changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c := st.Config()
			flags := cmd.Flags()
			if flags.Changed("hours-per-day") {
				c.TotalHoursPerDay = edit.TotalHoursPerDay
			}
			if flags.Changed("work-start") {
				c.WorkWindowStart = edit.WorkWindowStart
			}
			if flags.Changed("work-end") {
				c.WorkWindowEnd = edit.WorkWindowEnd
			}
			if flags.Changed("work-days") {
				c.WorkDays = edit.WorkDays
			}
			if flags.Changed("notes") {
				c.Notes = edit.Notes
			}
			if flags.Changed("agency") {
				c.Visual.AgencyName = edit.Visual.AgencyName
			}
			if flags.Changed("user") {
				c.Visual.UserName = edit.Visual.UserName
			}
			if flags.Changed("theme") {
				c.Visual.ThemeMode = edit.Visual.ThemeMode
			}
			return commands.HandleSettingsSet(cmd.OutOrStdout(), st, c)
		},
	}
	set.Flags().Float64Var(&edit.TotalHoursPerDay, "hours-per-day", 0, "Working hours per day")
	set.Flags().StringVar(&edit.WorkWindowStart, "work-start", "", "Start of the work window (HH:MM)")
	set.Flags().StringVar(&edit.WorkWindowEnd, "work-end", "", "End of the work window (HH:MM)")
	set.Flags().IntSliceVar(&edit.WorkDays, "work-days", nil, "Working weekdays, 0 = Sunday (e.g. 1,2,3,4,5)")
	set.Flags().StringVar(&edit.Notes, "notes", "", "Free-form notes")
	set.Flags().StringVar(&edit.Visual.AgencyName, "agency", "", "Agency name shown in the title bar")
	set.Flags().StringVar(&edit.Visual.UserName, "user", "", "Your name")
	set.Flags().StringVar(&edit.Visual.ThemeMode, "theme", "", "light or dark")

	cmd.AddCommand(set)
	return cmd
}

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List or add projects",
	}

	var listClient string
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return commands.HandleProjectsList(cmd.OutOrStdout(), st, listClient)
		},
	}
	list.Flags().StringVar(&listClient, "client", "", "Only this client's projects")

	var p model.Project
	var client, status, kind string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project to a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Name = args[0]
			if err := p.Status.UnmarshalText([]byte(status)); err != nil {
				return err
			}
			if err := p.Type.UnmarshalText([]byte(kind)); err != nil {
				return err
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return commands.HandleProjectAdd(cmd.OutOrStdout(), st, client, p)
		},
	}
	add.Flags().StringVar(&client, "client", "", "Client id or name")
	add.Flags().StringVar(&status, "status", "planning", "planning, execution, paused, completed or continuous")
	add.Flags().StringVar(&kind, "type", "launch", "launch, continuous, internal or adjustment")
	add.Flags().StringVar(&p.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	add.Flags().StringVar(&p.EstimatedDeadline, "deadline", "", "Estimated deadline (YYYY-MM-DD)")
	add.Flags().StringVar(&p.Description, "description", "", "Description")

	cmd.AddCommand(list, add)
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	var period, date string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Hours delivered per client this week or month",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := reports.ParsePeriod(period)
			if err != nil {
				return err
			}
			today, err := parseAnchor(date)
			if err != nil {
				return err
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			commands.HandleReport(cmd.OutOrStdout(), st, p, today)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "month", "week or month")
	cmd.Flags().StringVar(&date, "date", "", "Reference day (YYYY-MM-DD, default today)")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var exportType, calendarID string
	var push bool
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export to json, txt or Google Calendar events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if push {
				return pushToCalendar(cmd, st, calendarID)
			}
			if len(args) == 0 {
				return fmt.Errorf("an output file is required unless --push is set")
			}
			return commands.HandleExportCommand(cmd.OutOrStdout(), st, args[0], exportType)
		},
	}
	cmd.Flags().StringVar(&exportType, "type", "json", "Export file type (json, txt, gcal)")
	cmd.Flags().BoolVar(&push, "push", false, "Create or update the events in Google Calendar")
	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "Calendar id for --push")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var client string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a json state file or a txt checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			return commands.HandleImportCommand(cmd.OutOrStdout(), st, args[0], client)
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client for tasks from a txt checklist")
	return cmd
}

func newPurgeCmd(app *App) *cobra.Command {
	var yes, doneOnly, undoneOnly bool
	var date, client string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete the saved state, or only the tasks matching filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" || client != "" || doneOnly || undoneOnly {
				st, err := app.openStore(cmd.Context())
				if err != nil {
					return err
				}
				return commands.HandlePurgeTasks(cmd.OutOrStdout(), st, date, client, doneOnly, undoneOnly)
			}
			repo, err := app.openRepo()
			if err != nil {
				return err
			}
			return commands.HandlePurge(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), repo, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	cmd.Flags().StringVar(&date, "date", "", "Only tasks due on this day")
	cmd.Flags().StringVar(&client, "client", "", "Only this client's tasks")
	cmd.Flags().BoolVar(&doneOnly, "done", false, "Only completed tasks")
	cmd.Flags().BoolVar(&undoneOnly, "undone", false, "Only open tasks")
	return cmd
}

func parseAnchor(date string) (time.Time, error) {
	if date == "" {
		return time.Now(), nil
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing date: %w", err)
	}
	return d, nil
}

// pushToCalendar creates or updates one Google Calendar event per task
func pushToCalendar(cmd *cobra.Command, st *store.Store, calendarID string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	srv, err := commands.NewCalendarService(cmd.Context(), dir)
	if err != nil {
		return err
	}
	names := make(map[string]string)
	for _, c := range st.ListClients() {
		names[c.ID] = c.Name
	}
	events := commands.TasksToEvents(st.ListTasks(), names, time.Local)
	created, updated, err := commands.PushEvents(cmd.Context(), srv, calendarID, events)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d event(s) to %s: %d created, %d updated\n", len(events), calendarID, created, updated)
	return nil
}
