package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

var reClock = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ClockTime is a 24-hour time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (ClockTime, error) {
	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return ClockTime{}, fmt.Errorf("invalid time %q (out of range)", s)
	}
	return ClockTime{Hour: h, Minute: min}, nil
}

// StartTime is the optional time of day a task is pinned to.
// The zero value is None: the task sits in its day's unscheduled region.
// Midnight is Some(00:00) and stays distinct from None.
type StartTime struct {
	clock ClockTime
	set   bool
}

// SomeTime pins a task to h:m.
func SomeTime(h, m int) StartTime {
	return StartTime{clock: ClockTime{Hour: h, Minute: m}, set: true}
}

// AtHour pins a task to the top of hour h.
func AtHour(h int) StartTime { return SomeTime(h, 0) }

// NoTime is the unscheduled value.
func NoTime() StartTime { return StartTime{} }

// ParseStartTime treats "" as None.
func ParseStartTime(s string) (StartTime, error) {
	if s == "" {
		return NoTime(), nil
	}
	c, err := ParseClock(s)
	if err != nil {
		return NoTime(), err
	}
	return StartTime{clock: c, set: true}, nil
}

func (t StartTime) Get() (ClockTime, bool) { return t.clock, t.set }

func (t StartTime) IsSet() bool { return t.set }

// Hour returns the pinned hour, or -1 when unscheduled.
func (t StartTime) Hour() int {
	if !t.set {
		return -1
	}
	return t.clock.Hour
}

// String is "HH:MM", or "" when unscheduled.
func (t StartTime) String() string {
	if !t.set {
		return ""
	}
	return t.clock.String()
}

func (t StartTime) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.clock.String())
}

func (t *StartTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = NoTime()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	v, err := ParseStartTime(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
