package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/reports"
	"github.com/guimunizramos/studioid/pkg/store"
)

// HandleReport prints the per-client delivery table for the period.
func HandleReport(w io.Writer, st *store.Store, period reports.Period, today time.Time) {
	stats := reports.ClientStats(st.ListClients(), st.ListTasks(), period, today)
	from, to := period.Range(today)

	fmt.Fprintf(w, "Report for the %s %s to %s\n\n", period, from, to)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tTASKS\tDONE\tPENDING\tHOURS\tCONTRACTED\tUSAGE")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%g\t%g\t%.0f%%\n",
			s.Client.Name, s.TotalTasks, s.CompletedTasks, s.PendingTasks, s.ExecutedHours, s.ContractedHours, s.Usage()*100)
	}
	tw.Flush()

	sum := reports.Totals(stats)
	fmt.Fprintf(w, "\n%gh executed, %d completed, %d pending\n", sum.ExecutedHours, sum.CompletedTasks, sum.PendingTasks)
}

// HandleClientsList prints every client with its contract.
func HandleClientsList(w io.Writer, st *store.Store) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCONTRACT\tWEEKLY\tPRIORITY")
	for _, c := range st.ListClients() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%gh\t%s\n", shortID(c.ID), c.Name, c.Brand, c.ContractType, c.WeeklyHours, c.Priority)
	}
	tw.Flush()
}

// HandleClientAdd adds a client with a weekly hour budget.
func HandleClientAdd(w io.Writer, st *store.Store, c model.Client) error {
	added, err := st.AddClient(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Added client %s %q\n", shortID(added.ID), added.Name)
	return nil
}

// HandleProjectsList prints projects, optionally for one client.
func HandleProjectsList(w io.Writer, st *store.Store, clientRef string) error {
	var clientID string
	if clientRef != "" {
		c, err := st.FindClient(clientRef)
		if err != nil {
			return err
		}
		clientID = c.ID
	}
	names := clientNames(st)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCLIENT\tSTATUS\tDEADLINE")
	for _, p := range st.ListProjects() {
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", shortID(p.ID), p.Name, names[p.ClientID], p.Status, p.EstimatedDeadline)
	}
	tw.Flush()
	return nil
}

// HandleProjectAdd adds a project to the client named by clientRef.
func HandleProjectAdd(w io.Writer, st *store.Store, clientRef string, p model.Project) error {
	c, err := st.FindClient(clientRef)
	if err != nil {
		return err
	}
	p.ClientID = c.ID
	added, err := st.AddProject(p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Added project %s %q for %s\n", shortID(added.ID), added.Name, c.Name)
	return nil
}
