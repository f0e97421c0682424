package commands

import (
	"fmt"
	"io"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/store"
)

// HandleClientEdit saves c over the stored client with the same ID.
func HandleClientEdit(w io.Writer, st *store.Store, c model.Client) error {
	if _, ok := st.Client(c.ID); !ok {
		return fmt.Errorf("%w: no client %q", store.ErrClientRequired, c.ID)
	}
	if err := st.UpdateClient(c); err != nil {
		return err
	}
	fmt.Fprintf(w, "Updated client %s %q\n", shortID(c.ID), c.Name)
	return nil
}

// HandleClientDelete removes a client with its projects and tasks, after a
// y/N confirmation that names how much goes with it.
func HandleClientDelete(w io.Writer, in io.Reader, st *store.Store, clientRef string, skipConfirm bool) error {
	c, err := st.FindClient(clientRef)
	if err != nil {
		return err
	}

	projects, tasks := 0, 0
	for _, p := range st.ListProjects() {
		if p.ClientID == c.ID {
			projects++
		}
	}
	for _, t := range st.ListTasks() {
		if t.ClientID == c.ID {
			tasks++
		}
	}

	question := fmt.Sprintf("Delete client %q with %d project(s) and %d task(s)?", c.Name, projects, tasks)
	if !skipConfirm && !confirm(w, in, question) {
		return nil
	}
	if err := st.DeleteClient(c.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted client %q, %d project(s) and %d task(s)\n", c.Name, projects, tasks)
	return nil
}
