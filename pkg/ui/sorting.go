package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guimunizramos/studioid/pkg/model"
)

// SortBy is the board's sort key.
type SortBy int

const (
	SortByDeadline SortBy = iota
	SortByTitle
	SortByPriority
	SortByStatus
	SortByClient
	SortByCreated
	SortByHours
	sortByCount
)

var sortByNames = [...]string{"deadline", "title", "priority", "status", "client", "created", "hours"}

func (s SortBy) String() string { return sortByNames[s] }

// GroupBy splits the board into sections.
type GroupBy int

const (
	GroupByNone GroupBy = iota
	GroupByStatus
	GroupByClient
	GroupByPriority
	GroupByDay
	GroupByWeek
	groupByCount
)

var groupByNames = [...]string{"", "status", "client", "priority", "day", "week"}

func (g GroupBy) String() string { return groupByNames[g] }

type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// GroupedTasks represents tasks grouped by a common attribute
type GroupedTasks struct {
	GroupName string
	Tasks     []model.Task
}

// SortTasks sorts tasks based on the specified criteria
func (m *Model) SortTasks(tasks []model.Task) []model.Task {
	sortedTasks := make([]model.Task, len(tasks))
	copy(sortedTasks, tasks)
	names := m.clientNames()

	sort.SliceStable(sortedTasks, func(i, j int) bool {
		a, b := sortedTasks[i], sortedTasks[j]
		var result bool

		switch m.sortBy {
		case SortByTitle:
			result = strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortByPriority:
			result = a.Priority < b.Priority
		case SortByStatus:
			result = a.Status < b.Status
		case SortByClient:
			result = strings.ToLower(names[a.ClientID]) < strings.ToLower(names[b.ClientID])
		case SortByCreated:
			result = a.CreatedAt < b.CreatedAt
		case SortByHours:
			result = a.Duration() < b.Duration()
		default:
			result = deadlineLess(a, b)
		}

		if m.sortOrder == SortDesc {
			result = !result
		}
		return result
	})

	return sortedTasks
}

// deadlineLess orders by day, then unscheduled before timed, then start time.
func deadlineLess(a, b model.Task) bool {
	if a.Deadline != b.Deadline {
		return a.Deadline < b.Deadline
	}
	return a.StartTime.String() < b.StartTime.String()
}

// GroupTasks groups tasks based on the specified criteria
func (m *Model) GroupTasks(tasks []model.Task) []GroupedTasks {
	if m.groupBy == GroupByNone {
		return []GroupedTasks{{GroupName: "", Tasks: m.SortTasks(tasks)}}
	}

	names := m.clientNames()
	groups := make(map[string][]model.Task)
	order := make(map[string]string)

	for _, task := range tasks {
		var groupKey, orderKey string

		switch m.groupBy {
		case GroupByStatus:
			groupKey = task.Status.String()
			orderKey = fmt.Sprintf("%02d", task.Status)

		case GroupByClient:
			groupKey = names[task.ClientID]
			if groupKey == "" {
				groupKey = "No Client"
			}
			orderKey = strings.ToLower(groupKey)

		case GroupByPriority:
			groupKey = task.Priority.String()
			orderKey = fmt.Sprintf("%02d", task.Priority)

		case GroupByDay:
			groupKey = task.Deadline
			orderKey = task.Deadline

		case GroupByWeek:
			groupKey = "No Deadline"
			if d, err := model.ParseDate(task.Deadline); err == nil {
				year, week := d.ISOWeek()
				groupKey = fmt.Sprintf("Week %d, %d", week, year)
				orderKey = fmt.Sprintf("%04d-%02d", year, week)
			}
		}

		groups[groupKey] = append(groups[groupKey], task)
		order[groupKey] = orderKey
	}

	var groupNames []string
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Slice(groupNames, func(i, j int) bool {
		return order[groupNames[i]] < order[groupNames[j]]
	})

	var result []GroupedTasks
	for _, name := range groupNames {
		result = append(result, GroupedTasks{
			GroupName: name,
			Tasks:     m.SortTasks(groups[name]),
		})
	}

	return result
}
