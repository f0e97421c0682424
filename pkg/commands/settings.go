package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
)

// HandleSettingsShow prints the agency's working settings.
func HandleSettingsShow(w io.Writer, st *store.Store) {
	c := st.Config()
	days := make([]string, 0, len(c.WorkDays))
	for _, d := range c.WorkDays {
		days = append(days, time.Weekday(d).String()[:3])
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Agency\t%s\n", c.Visual.AgencyName)
	fmt.Fprintf(tw, "User\t%s\n", c.Visual.UserName)
	fmt.Fprintf(tw, "Theme\t%s\n", c.Visual.ThemeMode)
	fmt.Fprintf(tw, "Hours per day\t%g\n", c.TotalHoursPerDay)
	fmt.Fprintf(tw, "Work window\t%s-%s\n", c.WorkWindowStart, c.WorkWindowEnd)
	fmt.Fprintf(tw, "Work days\t%s\n", strings.Join(days, " "))
	if c.Notes != "" {
		fmt.Fprintf(tw, "Notes\t%s\n", c.Notes)
	}
	tw.Flush()
}

// HandleSettingsSet validates and saves c as the agency's settings.
func HandleSettingsSet(w io.Writer, st *store.Store, c model.AppConfig) error {
	if c.Visual.ThemeMode != "light" && c.Visual.ThemeMode != "dark" {
		return fmt.Errorf("%w: theme must be light or dark", store.ErrValidation)
	}
	if err := st.UpdateConfig(c); err != nil {
		return err
	}
	fmt.Fprintln(w, "Settings saved")
	return nil
}
