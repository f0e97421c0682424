// Package store holds the application state in memory and writes the whole
// state back to a Repository after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/utils"
)

var (
	// ErrNotFound is returned by a Repository that has nothing stored yet.
	ErrNotFound = errors.New("no saved state")
	// ErrCorruptState is returned by a Repository whose payload cannot be decoded.
	ErrCorruptState = errors.New("saved state is corrupt")

	ErrValidation     = errors.New("invalid input")
	ErrTitleRequired  = fmt.Errorf("%w: title is required", ErrValidation)
	ErrClientRequired = fmt.Errorf("%w: a known client is required", ErrValidation)
	ErrNameRequired   = fmt.Errorf("%w: name is required", ErrValidation)
)

// Repository persists the whole AppState as one unit.
type Repository interface {
	Load(ctx context.Context) (model.AppState, error)
	Save(ctx context.Context, state model.AppState) error
}

const saveTimeout = 5 * time.Second

// Store is the in-memory state container. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	repo  Repository
	state model.AppState
	now   func() time.Time
}

// Open loads the state once. A repository with nothing saved yields the
// seeded default state; a corrupt payload is discarded with a warning.
func Open(ctx context.Context, repo Repository) (*Store, error) {
	state, err := repo.Load(ctx)
	switch {
	case err == nil:
		state.Normalize()
	case errors.Is(err, ErrNotFound):
		utils.Log("No saved state, starting from defaults")
		state = model.DefaultAppState()
	case errors.Is(err, ErrCorruptState):
		utils.Warn("discarding saved state: %v", err)
		state = model.DefaultAppState()
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}
	return &Store{repo: repo, state: state, now: time.Now}, nil
}

// commit persists next and only then makes it the current state, so a
// failed save leaves memory as it was. mu must be held.
func (s *Store) commit(next model.AppState) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.state = next
	return nil
}

// snapshot copies the state deep enough that edits to the copy never reach
// s.state. mu must be held.
func (s *Store) snapshot() model.AppState {
	st := s.state
	st.Clients = append([]model.Client(nil), s.state.Clients...)
	st.Projects = append([]model.Project(nil), s.state.Projects...)
	st.Tasks = append([]model.Task(nil), s.state.Tasks...)
	st.Config.WorkDays = append([]int(nil), s.state.Config.WorkDays...)
	return st
}

// State returns a copy of the whole state for read-only use.
func (s *Store) State() model.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) ListTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.state.Tasks...)
}

func (s *Store) ListClients() []model.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Client(nil), s.state.Clients...)
}

func (s *Store) ListProjects() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Project(nil), s.state.Projects...)
}

func (s *Store) Config() model.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Config
}

func (s *Store) SidebarCollapsed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SidebarCollapsed
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.taskIndex(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.state.Tasks[i], true
}

func (s *Store) Client(id string) (model.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.clientIndex(id)
	if i < 0 {
		return model.Client{}, false
	}
	return s.state.Clients[i], true
}

// FindClient matches ref against client ids first, then case-insensitive
// names. An empty ref picks the only client when there is exactly one.
func (s *Store) FindClient(ref string) (model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref = strings.TrimSpace(ref)
	if ref == "" {
		if len(s.state.Clients) == 1 {
			return s.state.Clients[0], nil
		}
		return model.Client{}, ErrClientRequired
	}
	if i := s.clientIndex(ref); i >= 0 {
		return s.state.Clients[i], nil
	}
	for _, c := range s.state.Clients {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return model.Client{}, fmt.Errorf("%w: no client %q", ErrClientRequired, ref)
}

func (s *Store) taskIndex(id string) int {
	for i, t := range s.state.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) clientIndex(id string) int {
	for i, c := range s.state.Clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) projectIndex(id string) int {
	for i, p := range s.state.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ValidateTask checks the fields a task cannot be saved without.
func (s *Store) ValidateTask(t model.Task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateTask(t)
}

func (s *Store) validateTask(t model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	if t.ClientID == "" || s.clientIndex(t.ClientID) < 0 {
		return ErrClientRequired
	}
	return nil
}

// UpdateTask replaces the task with the same ID. An unknown ID is a no-op.
func (s *Store) UpdateTask(t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(t.ID)
	if i < 0 {
		utils.Log("Update of unknown task %s ignored", t.ID)
		return nil
	}
	next := s.snapshot()
	next.Tasks[i] = t
	if err := s.commit(next); err != nil {
		return err
	}
	utils.Log("Updated task: %s", t.ID)
	return nil
}

// AddTask validates t, assigns an ID and creation date when missing, and
// appends it.
func (s *Store) AddTask(t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validateTask(t); err != nil {
		return model.Task{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = model.FormatDate(s.now())
	}
	next := s.snapshot()
	next.Tasks = append(next.Tasks, t)
	if err := s.commit(next); err != nil {
		return model.Task{}, err
	}
	utils.Log("Added task: %s", t.ID)
	return t, nil
}

// SaveTask adds t when its ID is new and replaces it otherwise.
func (s *Store) SaveTask(t model.Task) (model.Task, error) {
	s.mu.RLock()
	exists := t.ID != "" && s.taskIndex(t.ID) >= 0
	s.mu.RUnlock()
	if !exists {
		return s.AddTask(t)
	}
	if err := s.ValidateTask(t); err != nil {
		return model.Task{}, err
	}
	return t, s.UpdateTask(t)
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return nil
	}
	next := s.snapshot()
	next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}
	utils.Log("Deleted task: %s", id)
	return nil
}

// UpdateTaskStatus sets the status and keeps CompletedAt in step with it.
func (s *Store) UpdateTaskStatus(id string, status model.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return nil
	}
	next := s.snapshot()
	t := &next.Tasks[i]
	t.Status = status
	if status == model.StatusCompleted {
		if t.CompletedAt == "" {
			t.CompletedAt = model.FormatDate(s.now())
		}
	} else {
		t.CompletedAt = ""
	}
	return s.commit(next)
}

func (s *Store) AddClient(c model.Client) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(c.Name) == "" {
		return model.Client{}, ErrNameRequired
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	next := s.snapshot()
	next.Clients = append(next.Clients, c)
	if err := s.commit(next); err != nil {
		return model.Client{}, err
	}
	return c, nil
}

// UpdateClient replaces the client with the same ID. An unknown ID is a no-op.
func (s *Store) UpdateClient(c model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.clientIndex(c.ID)
	if i < 0 {
		return nil
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	next := s.snapshot()
	next.Clients[i] = c
	return s.commit(next)
}

// DeleteClient removes the client and every project and task that belongs
// to it.
func (s *Store) DeleteClient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.clientIndex(id)
	if i < 0 {
		return nil
	}
	next := s.snapshot()
	next.Clients = append(next.Clients[:i], next.Clients[i+1:]...)

	projects := next.Projects[:0]
	for _, p := range next.Projects {
		if p.ClientID != id {
			projects = append(projects, p)
		}
	}
	next.Projects = projects

	tasks := next.Tasks[:0]
	for _, t := range next.Tasks {
		if t.ClientID != id {
			tasks = append(tasks, t)
		}
	}
	next.Tasks = tasks
	if err := s.commit(next); err != nil {
		return err
	}
	utils.Log("Deleted client %s with its projects and tasks", id)
	return nil
}

func (s *Store) AddProject(p model.Project) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(p.Name) == "" {
		return model.Project{}, ErrNameRequired
	}
	if s.clientIndex(p.ClientID) < 0 {
		return model.Project{}, ErrClientRequired
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	next := s.snapshot()
	next.Projects = append(next.Projects, p)
	if err := s.commit(next); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (s *Store) UpdateProject(p model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(p.ID)
	if i < 0 {
		return nil
	}
	next := s.snapshot()
	next.Projects[i] = p
	return s.commit(next)
}

// UpdateConfig validates and replaces the agency settings.
func (s *Store) UpdateConfig(c model.AppConfig) error {
	if err := ValidateConfig(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snapshot()
	next.Config = c
	next.Config.WorkDays = append([]int(nil), c.WorkDays...)
	return s.commit(next)
}

func (s *Store) SetSidebarCollapsed(collapsed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snapshot()
	next.SidebarCollapsed = collapsed
	return s.commit(next)
}

// Replace swaps in a whole state, as after an import.
func (s *Store) Replace(state model.AppState) error {
	state.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(state)
}

// ValidateConfig checks the settings a schedule depends on.
func ValidateConfig(c model.AppConfig) error {
	if c.TotalHoursPerDay <= 0 || c.TotalHoursPerDay > 24 {
		return fmt.Errorf("%w: hours per day must be between 0 and 24", ErrValidation)
	}
	start, err := model.ParseClock(c.WorkWindowStart)
	if err != nil {
		return fmt.Errorf("%w: work window start: %v", ErrValidation, err)
	}
	end, err := model.ParseClock(c.WorkWindowEnd)
	if err != nil {
		return fmt.Errorf("%w: work window end: %v", ErrValidation, err)
	}
	if end.Hour*60+end.Minute <= start.Hour*60+start.Minute {
		return fmt.Errorf("%w: work window must end after it starts", ErrValidation)
	}
	for _, d := range c.WorkDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: work day %d out of range 0-6", ErrValidation, d)
		}
	}
	return nil
}
