package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/guimunizramos/studioid/pkg/model"
	"github.com/guimunizramos/studioid/pkg/utils"
)

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "studioid_task_id"

// Google Calendar colour ids
const (
	colorCompleted = "8"  // graphite
	colorUrgent    = "11" // tomato
)

// TaskToEvent converts a task to a calendar event in loc. A timed task spans
// its estimated hours from the start time; an unscheduled task becomes an
// all-day event on its deadline.
func TaskToEvent(t model.Task, clientName string, loc *time.Location) (*calendar.Event, error) {
	day, err := time.ParseInLocation(model.DateLayout, t.Deadline, loc)
	if err != nil {
		return nil, fmt.Errorf("task %s: invalid deadline %q", t.ID, t.Deadline)
	}

	summary := t.Title
	if clientName != "" {
		summary = fmt.Sprintf("[%s] %s", clientName, t.Title)
	}

	event := &calendar.Event{
		Summary:     summary,
		Description: t.Description,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: t.ID},
		},
	}

	if clock, ok := t.StartTime.Get(); ok {
		start := day.Add(time.Duration(clock.Hour)*time.Hour + time.Duration(clock.Minute)*time.Minute)
		end := start.Add(time.Duration(t.Duration() * float64(time.Hour)))
		event.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)}
		event.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)}
	} else {
		// All-day end dates are exclusive
		event.Start = &calendar.EventDateTime{Date: t.Deadline}
		event.End = &calendar.EventDateTime{Date: day.AddDate(0, 0, 1).Format(model.DateLayout)}
	}

	switch {
	case t.IsCompleted():
		event.ColorId = colorCompleted
	case t.Priority == model.PriorityUrgent:
		event.ColorId = colorUrgent
	}
	return event, nil
}

// TasksToEvents converts every task with a valid deadline.
func TasksToEvents(tasks []model.Task, clients map[string]string, loc *time.Location) []*calendar.Event {
	events := make([]*calendar.Event, 0, len(tasks))
	for _, t := range tasks {
		ev, err := TaskToEvent(t, clients[t.ClientID], loc)
		if err != nil {
			utils.Log("Skipping export of task: %v", err)
			continue
		}
		events = append(events, ev)
	}
	return events
}

// NewCalendarService builds an authenticated client from a saved OAuth token.
// When credentials.json sits next to the token the token is refreshed as
// needed; otherwise it is used as is until it expires.
func NewCalendarService(ctx context.Context, configDir string) (*calendar.Service, error) {
	tokenFile := filepath.Join(configDir, "token.json")
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, err
	}

	var src oauth2.TokenSource = oauth2.StaticTokenSource(tok)
	if b, err := os.ReadFile(filepath.Join(configDir, "credentials.json")); err == nil {
		cfg, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse client secret file: %w", err)
		}
		src = cfg.TokenSource(ctx, tok)
	}

	srv, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}
	return srv, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("no calendar token at %s: %w", file, err)
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

// PushEvents creates each event or patches the one already carrying the same
// task id. It returns how many were created and updated.
func PushEvents(ctx context.Context, srv *calendar.Service, calendarID string, events []*calendar.Event) (created, updated int, err error) {
	for _, ev := range events {
		taskID := ev.ExtendedProperties.Private[TaskIDProperty]
		existing, err := srv.Events.List(calendarID).
			PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
			Context(ctx).
			Do()
		if err != nil {
			return created, updated, fmt.Errorf("error searching for event: %w", err)
		}

		if len(existing.Items) > 0 {
			if _, err := srv.Events.Patch(calendarID, existing.Items[0].Id, ev).Context(ctx).Do(); err != nil {
				return created, updated, err
			}
			updated++
			continue
		}
		if _, err := srv.Events.Insert(calendarID, ev).Context(ctx).Do(); err != nil {
			return created, updated, err
		}
		created++
	}
	return created, updated, nil
}
