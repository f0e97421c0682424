package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimunizramos/studioid/pkg/store"
)

// Purger deletes everything stored under one namespace.
type Purger interface {
	Namespace() string
	Purge(ctx context.Context) (int64, error)
}

// HandlePurge wipes the saved state after a y/N confirmation read from in.
func HandlePurge(ctx context.Context, w io.Writer, in io.Reader, p Purger, skipConfirm bool) error {
	// Show confirmation unless --yes flag is used
	if !skipConfirm && !confirm(w, in, fmt.Sprintf("Delete all clients, projects and tasks in %q?", p.Namespace())) {
		return nil
	}

	n, err := p.Purge(ctx)
	if err != nil {
		return fmt.Errorf("error purging state: %w", err)
	}
	if n == 0 {
		fmt.Fprintln(w, "Nothing stored, nothing deleted")
		return nil
	}
	fmt.Fprintf(w, "Successfully deleted saved state %q\n", p.Namespace())
	return nil
}

// confirm asks a y/N question and reports whether the answer was yes.
func confirm(w io.Writer, in io.Reader, question string) bool {
	fmt.Fprintf(w, "%s (y/N): ", question)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	if response != "y" && response != "yes" {
		fmt.Fprintln(w, "Operation cancelled.")
		return false
	}
	return true
}

// HandlePurgeTasks deletes tasks matching the filters and keeps clients and
// projects.
func HandlePurgeTasks(w io.Writer, st *store.Store, date, clientRef string, doneOnly, undoneOnly bool) error {
	var clientID string
	if clientRef != "" {
		c, err := st.FindClient(clientRef)
		if err != nil {
			return err
		}
		clientID = c.ID
	}

	deleted := 0
	for _, t := range st.ListTasks() {
		if date != "" && t.Deadline != date {
			continue
		}
		if clientID != "" && t.ClientID != clientID {
			continue
		}
		if doneOnly && !t.IsCompleted() || undoneOnly && t.IsCompleted() {
			continue
		}
		if err := st.DeleteTask(t.ID); err != nil {
			return err
		}
		deleted++
	}
	fmt.Fprintf(w, "Successfully deleted %d task(s)\n", deleted)
	return nil
}
