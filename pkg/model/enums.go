package model

import "fmt"

// TaskStatus is the workflow state of a task. The set of cases is closed:
// AllTaskStatuses lists every value, and unknown keys fail to decode.
type TaskStatus uint8

const (
	StatusBacklog TaskStatus = iota
	StatusPlanned
	StatusInProgress
	StatusWaitingClient
	StatusApproval
	StatusCompleted
	StatusPaused
)

// AllTaskStatuses is the board column order.
var AllTaskStatuses = []TaskStatus{
	StatusBacklog,
	StatusPlanned,
	StatusInProgress,
	StatusWaitingClient,
	StatusApproval,
	StatusCompleted,
	StatusPaused,
}

var taskStatusKeys = [...]string{"backlog", "planned", "in_progress", "waiting_client", "approval", "completed", "paused"}
var taskStatusLabels = [...]string{"Backlog", "Planned", "In progress", "Waiting on client", "In approval", "Completed", "Paused"}

func (s TaskStatus) Valid() bool { return int(s) < len(taskStatusKeys) }

// Key is the stable persisted form.
func (s TaskStatus) Key() string {
	if !s.Valid() {
		return fmt.Sprintf("task_status(%d)", uint8(s))
	}
	return taskStatusKeys[s]
}

func (s TaskStatus) String() string {
	if !s.Valid() {
		return s.Key()
	}
	return taskStatusLabels[s]
}

func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid task status %d", uint8(s))
	}
	return []byte(s.Key()), nil
}

func (s *TaskStatus) UnmarshalText(b []byte) error {
	v, err := ParseTaskStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseTaskStatus accepts a key ("in_progress") or a label ("In progress").
func ParseTaskStatus(s string) (TaskStatus, error) {
	if i, ok := lookupKey(s, taskStatusKeys[:], taskStatusLabels[:]); ok {
		return TaskStatus(i), nil
	}
	return 0, fmt.Errorf("unknown task status %q", s)
}

// Priority of a task or client.
type Priority uint8

const (
	PriorityUrgent Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

var AllPriorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

var priorityKeys = [...]string{"urgent", "high", "medium", "low"}
var priorityLabels = [...]string{"Urgent", "High", "Medium", "Low"}

func (p Priority) Valid() bool { return int(p) < len(priorityKeys) }

func (p Priority) Key() string {
	if !p.Valid() {
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
	return priorityKeys[p]
}

func (p Priority) String() string {
	if !p.Valid() {
		return p.Key()
	}
	return priorityLabels[p]
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", uint8(p))
	}
	return []byte(p.Key()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func ParsePriority(s string) (Priority, error) {
	if i, ok := lookupKey(s, priorityKeys[:], priorityLabels[:]); ok {
		return Priority(i), nil
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus uint8

const (
	ProjectPlanning ProjectStatus = iota
	ProjectExecution
	ProjectPaused
	ProjectCompleted
	ProjectContinuous
)

var projectStatusKeys = [...]string{"planning", "execution", "paused", "completed", "continuous"}
var projectStatusLabels = [...]string{"Planning", "In execution", "Paused", "Completed", "Continuous"}

func (s ProjectStatus) Valid() bool { return int(s) < len(projectStatusKeys) }

func (s ProjectStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("project_status(%d)", uint8(s))
	}
	return projectStatusLabels[s]
}

func (s ProjectStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid project status %d", uint8(s))
	}
	return []byte(projectStatusKeys[s]), nil
}

func (s *ProjectStatus) UnmarshalText(b []byte) error {
	i, ok := lookupKey(string(b), projectStatusKeys[:], projectStatusLabels[:])
	if !ok {
		return fmt.Errorf("unknown project status %q", string(b))
	}
	*s = ProjectStatus(i)
	return nil
}

// ProjectType classifies the kind of engagement.
type ProjectType uint8

const (
	ProjectLaunch ProjectType = iota
	ProjectTypeContinuous
	ProjectInternal
	ProjectAdjustment
)

var projectTypeKeys = [...]string{"launch", "continuous", "internal", "adjustment"}
var projectTypeLabels = [...]string{"Launch", "Continuous", "Internal", "One-off adjustment"}

func (t ProjectType) Valid() bool { return int(t) < len(projectTypeKeys) }

func (t ProjectType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("project_type(%d)", uint8(t))
	}
	return projectTypeLabels[t]
}

func (t ProjectType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid project type %d", uint8(t))
	}
	return []byte(projectTypeKeys[t]), nil
}

func (t *ProjectType) UnmarshalText(b []byte) error {
	i, ok := lookupKey(string(b), projectTypeKeys[:], projectTypeLabels[:])
	if !ok {
		return fmt.Errorf("unknown project type %q", string(b))
	}
	*t = ProjectType(i)
	return nil
}

// ContractType is how a client is billed.
type ContractType uint8

const (
	ContractRetainer ContractType = iota
	ContractOneOff
)

var contractTypeKeys = [...]string{"retainer", "one_off"}
var contractTypeLabels = [...]string{"Retainer / monthly", "One-off / project"}

func (c ContractType) Valid() bool { return int(c) < len(contractTypeKeys) }

func (c ContractType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("contract_type(%d)", uint8(c))
	}
	return contractTypeLabels[c]
}

func (c ContractType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid contract type %d", uint8(c))
	}
	return []byte(contractTypeKeys[c]), nil
}

func (c *ContractType) UnmarshalText(b []byte) error {
	i, ok := lookupKey(string(b), contractTypeKeys[:], contractTypeLabels[:])
	if !ok {
		return fmt.Errorf("unknown contract type %q", string(b))
	}
	*c = ContractType(i)
	return nil
}

func lookupKey(s string, keys, labels []string) (int, bool) {
	for i := range keys {
		if s == keys[i] || s == labels[i] {
			return i, true
		}
	}
	return 0, false
}
