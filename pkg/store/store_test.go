package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/guimunizramos/studioid/pkg/model"
)

type fakeRepo struct {
	state   model.AppState
	loadErr error
	saveErr error
	saves   int
}

func (r *fakeRepo) Load(context.Context) (model.AppState, error) {
	return r.state, r.loadErr
}

func (r *fakeRepo) Save(_ context.Context, s model.AppState) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.state = s
	return nil
}

func openWith(t *testing.T, repo *fakeRepo) *Store {
	t.Helper()
	s, err := Open(context.Background(), repo)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestOpen_NothingSavedSeedsDefaults(t *testing.T) {
	s := openWith(t, &fakeRepo{loadErr: ErrNotFound})
	clients := s.ListClients()
	if len(clients) != 1 || clients[0].ID != "c-1" {
		t.Fatalf("expected seeded example client, got %+v", clients)
	}
	if len(s.ListTasks()) != 0 {
		t.Fatalf("expected no tasks")
	}
}

func TestOpen_CorruptStateFallsBackToDefaults(t *testing.T) {
	s := openWith(t, &fakeRepo{loadErr: ErrCorruptState})
	if s.Config().TotalHoursPerDay != 8 {
		t.Fatalf("expected default config, got %+v", s.Config())
	}
}

func TestOpen_OtherErrorsFail(t *testing.T) {
	boom := errors.New("connection refused")
	if _, err := Open(context.Background(), &fakeRepo{loadErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestAddTask_Validation(t *testing.T) {
	repo := &fakeRepo{loadErr: ErrNotFound}
	s := openWith(t, repo)

	if _, err := s.AddTask(model.Task{ClientID: "c-1"}); !errors.Is(err, ErrTitleRequired) || !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := s.AddTask(model.Task{Title: "Post"}); !errors.Is(err, ErrClientRequired) {
		t.Errorf("expected ErrClientRequired, got %v", err)
	}
	if _, err := s.AddTask(model.Task{Title: "Post", ClientID: "nobody"}); !errors.Is(err, ErrClientRequired) {
		t.Errorf("expected ErrClientRequired for unknown client, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("invalid input must not be saved, got %d saves", repo.saves)
	}
}

func TestAddTask_AssignsIDAndSaves(t *testing.T) {
	repo := &fakeRepo{loadErr: ErrNotFound}
	s := openWith(t, repo)

	got, err := s.AddTask(model.Task{Title: "Post", ClientID: "c-1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.ID == "" || got.CreatedAt == "" {
		t.Fatalf("expected id and creation date, got %+v", got)
	}
	if repo.saves != 1 || len(repo.state.Tasks) != 1 {
		t.Fatalf("expected one save with the task, got %d saves", repo.saves)
	}
}

func TestUpdateTask_ReplacesByIDAndIgnoresUnknown(t *testing.T) {
	repo := &fakeRepo{state: model.AppState{
		Clients: []model.Client{{ID: "c-1", Name: "Acme"}},
		Tasks:   []model.Task{{ID: "t1", Title: "Old", ClientID: "c-1"}},
	}}
	s := openWith(t, repo)

	if err := s.UpdateTask(model.Task{ID: "t1", Title: "New", ClientID: "c-1"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := s.Task("t1"); got.Title != "New" {
		t.Fatalf("expected replaced task, got %+v", got)
	}
	if err := s.UpdateTask(model.Task{ID: "ghost"}); err != nil {
		t.Fatalf("expected no error for unknown id, got %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected only the known update to save, got %d", repo.saves)
	}
}

func TestSaveTask_AddsOrUpdates(t *testing.T) {
	s := openWith(t, &fakeRepo{loadErr: ErrNotFound})
	added, err := s.SaveTask(model.Task{Title: "Draft", ClientID: "c-1"})
	if err != nil {
		t.Fatalf("save new: %v", err)
	}
	added.Title = "Final"
	if _, err := s.SaveTask(added); err != nil {
		t.Fatalf("save existing: %v", err)
	}
	tasks := s.ListTasks()
	if len(tasks) != 1 || tasks[0].Title != "Final" {
		t.Fatalf("expected a single updated task, got %+v", tasks)
	}
	added.Title = ""
	if _, err := s.SaveTask(added); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected validation on update, got %v", err)
	}
}

func TestUpdateTaskStatus_TracksCompletion(t *testing.T) {
	s := openWith(t, &fakeRepo{state: model.AppState{Tasks: []model.Task{{ID: "t1"}}}})
	if err := s.UpdateTaskStatus("t1", model.StatusCompleted); err != nil {
		t.Fatalf("status: %v", err)
	}
	if got, _ := s.Task("t1"); got.CompletedAt == "" {
		t.Fatalf("expected completion date set")
	}
	_ = s.UpdateTaskStatus("t1", model.StatusPaused)
	if got, _ := s.Task("t1"); got.CompletedAt != "" || got.Status != model.StatusPaused {
		t.Fatalf("expected completion date cleared, got %+v", got)
	}
}

func TestDeleteClient_Cascades(t *testing.T) {
	repo := &fakeRepo{state: model.AppState{
		Clients:  []model.Client{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Projects: []model.Project{{ID: "p1", ClientID: "a"}, {ID: "p2", ClientID: "b"}},
		Tasks:    []model.Task{{ID: "t1", ClientID: "a"}, {ID: "t2", ClientID: "b"}},
	}}
	s := openWith(t, repo)
	if err := s.DeleteClient("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	st := s.State()
	if len(st.Clients) != 1 || len(st.Projects) != 1 || len(st.Tasks) != 1 || st.Tasks[0].ID != "t2" {
		t.Fatalf("expected only client b's data left, got %+v", st)
	}
}

func TestSaveErrorIsReturned(t *testing.T) {
	boom := errors.New("read-only")
	repo := &fakeRepo{loadErr: ErrNotFound}
	s := openWith(t, repo)
	repo.saveErr = boom
	for i := 0; i < 2; i++ {
		if _, err := s.AddTask(model.Task{Title: "x", ClientID: "c-1"}); !errors.Is(err, boom) {
			t.Fatalf("expected save error, got %v", err)
		}
	}
	if n := len(s.ListTasks()); n != 0 {
		t.Fatalf("expected failed adds to leave no tasks in memory, got %d", n)
	}
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	repo := &fakeRepo{state: model.AppState{
		Clients:  []model.Client{{ID: "a", Name: "A"}},
		Projects: []model.Project{{ID: "p1", ClientID: "a", Name: "Site"}},
		Tasks:    []model.Task{{ID: "t1", ClientID: "a", Title: "Logo", Status: model.StatusPlanned}},
	}}
	s := openWith(t, repo)
	before := s.State()
	repo.saveErr = errors.New("read-only")

	mutations := map[string]func() error{
		"update task": func() error { return s.UpdateTask(model.Task{ID: "t1", ClientID: "a", Title: "Renamed"}) },
		"delete task": func() error { return s.DeleteTask("t1") },
		"status":      func() error { return s.UpdateTaskStatus("t1", model.StatusCompleted) },
		"add client": func() error {
			_, err := s.AddClient(model.Client{Name: "B"})
			return err
		},
		"update client": func() error { return s.UpdateClient(model.Client{ID: "a", Name: "Renamed"}) },
		"delete client": func() error { return s.DeleteClient("a") },
		"add project": func() error {
			_, err := s.AddProject(model.Project{ClientID: "a", Name: "Ads"})
			return err
		},
		"config":  func() error { return s.UpdateConfig(model.DefaultAppConfig()) },
		"sidebar": func() error { return s.SetSidebarCollapsed(true) },
	}
	for name, mutate := range mutations {
		if err := mutate(); err == nil {
			t.Fatalf("%s: expected the save error", name)
		}
		after := s.State()
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("%s: state changed after a failed save:\nbefore %+v\nafter  %+v", name, before, after)
		}
	}
}

func TestUpdateClient(t *testing.T) {
	repo := &fakeRepo{loadErr: ErrNotFound}
	s := openWith(t, repo)
	c, _ := s.Client("c-1")
	c.Name = "Renamed"
	c.WeeklyHours = 20
	if err := s.UpdateClient(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := s.Client("c-1"); got.Name != "Renamed" || got.WeeklyHours != 20 {
		t.Fatalf("expected the client replaced, got %+v", got)
	}
	if repo.state.Clients[0].Name != "Renamed" {
		t.Fatalf("expected the change saved")
	}

	c.Name = " "
	if err := s.UpdateClient(c); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	saves := repo.saves
	if err := s.UpdateClient(model.Client{ID: "nope", Name: "X"}); err != nil || repo.saves != saves {
		t.Fatalf("expected an unknown client to be ignored, got %v with %d saves", err, repo.saves-saves)
	}
}

func TestUpdateConfig(t *testing.T) {
	repo := &fakeRepo{loadErr: ErrNotFound}
	s := openWith(t, repo)

	cfg := s.Config()
	cfg.TotalHoursPerDay = 6
	cfg.WorkWindowStart = "10:00"
	cfg.WorkDays = []int{1, 2, 3, 4}
	if err := s.UpdateConfig(cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}
	got := s.Config()
	if got.TotalHoursPerDay != 6 || got.WorkWindowStart != "10:00" || len(got.WorkDays) != 4 {
		t.Fatalf("expected the settings replaced, got %+v", got)
	}
	cfg.WorkDays[0] = 6
	if s.Config().WorkDays[0] != 1 {
		t.Fatalf("expected the stored work days not to alias the caller's slice")
	}

	for name, bad := range map[string]model.AppConfig{
		"hours":    {TotalHoursPerDay: 0, WorkWindowStart: "09:00", WorkWindowEnd: "18:00"},
		"start":    {TotalHoursPerDay: 8, WorkWindowStart: "9am", WorkWindowEnd: "18:00"},
		"window":   {TotalHoursPerDay: 8, WorkWindowStart: "18:00", WorkWindowEnd: "09:00"},
		"work day": {TotalHoursPerDay: 8, WorkWindowStart: "09:00", WorkWindowEnd: "18:00", WorkDays: []int{7}},
	} {
		if err := s.UpdateConfig(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected a validation error, got %v", name, err)
		}
	}
	if s.Config().TotalHoursPerDay != 6 {
		t.Fatalf("expected rejected settings to leave the config alone")
	}
}

func TestFilter(t *testing.T) {
	high := model.PriorityHigh
	tasks := []model.Task{
		{ID: "1", Title: "Landing Page", ClientID: "a", Priority: model.PriorityHigh},
		{ID: "2", Title: "Newsletter", ClientID: "a", Priority: model.PriorityLow},
		{ID: "3", Title: "landing copy", ClientID: "b", Priority: model.PriorityHigh},
	}
	if got := (Filter{}).Apply(tasks); len(got) != 3 {
		t.Errorf("empty filter should match all, got %d", len(got))
	}
	if got := (Filter{Search: "LANDING"}).Apply(tasks); len(got) != 2 {
		t.Errorf("expected case-insensitive search to match 2, got %d", len(got))
	}
	got := (Filter{ClientID: "a", Priority: &high}).Apply(tasks)
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("expected task 1, got %+v", got)
	}
}

func TestFindClient_ByIDNameOrOnlyClient(t *testing.T) {
	s := openWith(t, &fakeRepo{loadErr: ErrNotFound})

	if c, err := s.FindClient(""); err != nil || c.ID != "c-1" {
		t.Fatalf("expected the only client, got %+v %v", c, err)
	}
	if c, err := s.FindClient("example CLIENT"); err != nil || c.ID != "c-1" {
		t.Fatalf("expected a case-insensitive name match, got %+v %v", c, err)
	}
	if _, err := s.AddClient(model.Client{Name: "Acme"}); err != nil {
		t.Fatalf("add client: %v", err)
	}
	if _, err := s.FindClient(""); !errors.Is(err, ErrClientRequired) {
		t.Fatalf("expected ErrClientRequired with two clients, got %v", err)
	}
	if _, err := s.FindClient("nobody"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}
