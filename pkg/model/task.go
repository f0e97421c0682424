package model

// Task is a unit of agency work placed on the agenda.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ClientID       string     `json:"clientId"`
	ProjectID      string     `json:"projectId"`
	Status         TaskStatus `json:"status"`
	Type           string     `json:"type"`
	Priority       Priority   `json:"priority"`
	EstimatedHours float64    `json:"estimatedHours"`
	Deadline       string     `json:"deadline"`  // YYYY-MM-DD
	StartTime      StartTime  `json:"startTime"` // null when unscheduled
	CreatedAt      string     `json:"createdAt"`
	CompletedAt    string     `json:"completedAt,omitempty"`
	IsRecurring    bool       `json:"isRecurring"`
}

// Duration is the displayed length in hours; an unset estimate reads as 1.
func (t Task) Duration() float64 {
	if t.EstimatedHours <= 0 {
		return 1
	}
	return t.EstimatedHours
}

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

func (t Task) IsScheduled() bool { return t.StartTime.IsSet() }

// Client is an agency customer.
type Client struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Brand         string       `json:"brand"`
	Category      string       `json:"category"`
	ContractType  ContractType `json:"contractType"`
	Color         string       `json:"color"`
	WeeklyHours   float64      `json:"weeklyHours"`
	MinDailyHours float64      `json:"minDailyHours"`
	Priority      Priority     `json:"priority"`
	Observations  string       `json:"observations,omitempty"`
}

type Project struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	ClientID          string        `json:"clientId"`
	Status            ProjectStatus `json:"status"`
	Type              ProjectType   `json:"type"`
	StartDate         string        `json:"startDate"`
	EstimatedDeadline string        `json:"estimatedDeadline"`
	Description       string        `json:"description"`
}
