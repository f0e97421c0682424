package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStartTime_NoneIsDistinctFromMidnight(t *testing.T) {
	none := NoTime()
	midnight := SomeTime(0, 0)

	if none.IsSet() {
		t.Fatalf("expected NoTime to be unset")
	}
	if !midnight.IsSet() {
		t.Fatalf("expected midnight to be set")
	}
	if none.Hour() != -1 {
		t.Errorf("expected Hour()=-1 for unscheduled, got %d", none.Hour())
	}
	if midnight.String() != "00:00" {
		t.Errorf("expected 00:00, got %q", midnight.String())
	}
}

func TestStartTime_JSON(t *testing.T) {
	task := Task{ID: "t1", Deadline: "2024-01-05", StartTime: AtHour(9)}
	b, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"startTime":"09:00"`) {
		t.Fatalf("expected startTime 09:00 in %s", b)
	}

	task.StartTime = NoTime()
	b, _ = json.Marshal(task)
	if !strings.Contains(string(b), `"startTime":null`) {
		t.Fatalf("expected null startTime in %s", b)
	}

	var got Task
	if err := json.Unmarshal([]byte(`{"id":"t2","startTime":""}`), &got); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if got.StartTime.IsSet() {
		t.Errorf("expected empty string to decode as unscheduled")
	}
	if err := json.Unmarshal([]byte(`{"id":"t3"}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"id":"t4","startTime":"9am"}`), &got); err == nil {
		t.Fatalf("expected error for malformed start time")
	}
}

func TestParseClock_Range(t *testing.T) {
	if _, err := ParseClock("24:00"); err == nil {
		t.Errorf("expected 24:00 to be rejected")
	}
	c, err := ParseClock("7:30")
	if err != nil {
		t.Fatalf("parse 7:30: %v", err)
	}
	if c.Hour != 7 || c.Minute != 30 {
		t.Errorf("expected 07:30, got %s", c)
	}
}

func TestTaskStatus_TextRoundTripAndUnknown(t *testing.T) {
	for _, s := range AllTaskStatuses {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		var got TaskStatus
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %q: %v", b, err)
		}
		if got != s {
			t.Errorf("round trip %v -> %v", s, got)
		}
	}

	var s TaskStatus
	if err := s.UnmarshalText([]byte("archived")); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}
	if _, err := TaskStatus(42).MarshalText(); err == nil {
		t.Fatalf("expected out-of-range status to fail marshal")
	}
}

func TestParsePriority_AcceptsLabel(t *testing.T) {
	p, err := ParsePriority("Urgent")
	if err != nil || p != PriorityUrgent {
		t.Fatalf("expected PriorityUrgent, got %v (%v)", p, err)
	}
}

func TestFormatDate_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 23:30 local is already the next day in UTC.
	late := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)
	if got := FormatDate(late); got != "2024-03-10" {
		t.Fatalf("expected local day 2024-03-10, got %s", got)
	}
}

func TestTask_DurationDefaultsToOne(t *testing.T) {
	if d := (Task{}).Duration(); d != 1 {
		t.Fatalf("expected 1, got %v", d)
	}
	if d := (Task{EstimatedHours: 3}).Duration(); d != 3 {
		t.Fatalf("expected 3, got %v", d)
	}
}

func TestAppState_NormalizeFillsDefaults(t *testing.T) {
	var s AppState
	if err := json.Unmarshal([]byte(`{"tasks":[{"id":"t1","status":"planned","priority":"high"}]}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Normalize()
	if s.Clients == nil || s.Projects == nil {
		t.Fatalf("expected non-nil collections")
	}
	if s.Config.Visual.AgencyName != "StudioFlow" {
		t.Errorf("expected default agency name, got %q", s.Config.Visual.AgencyName)
	}
	if s.Tasks[0].Status != StatusPlanned || s.Tasks[0].Priority != PriorityHigh {
		t.Errorf("unexpected enums: %v %v", s.Tasks[0].Status, s.Tasks[0].Priority)
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2024, 2, 29, 23, 59, 59, 5, time.Local))
	if want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
