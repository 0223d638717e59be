package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is matched by every ClockError.
var ErrInvalidClock = errors.New("invalid wall-clock time")

// ClockError reports a value that is not a valid "HH:mm" time.
type ClockError struct {
	Value  string
	Reason string
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidClock) match any ClockError.
func (e *ClockError) Is(target error) bool { return target == ErrInvalidClock }

// Clock is a wall-clock time expressed in minutes since midnight.
type Clock int

// NewClock builds a Clock from an hour and a minute.
func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

// ParseClock reads "H:mm", "HH:mm" or "HH:mm:ss". Seconds are dropped.
func ParseClock(value string) (Clock, error) {
	s := strings.TrimSpace(value)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, &ClockError{Value: value, Reason: "expected HH:mm"}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, &ClockError{Value: value, Reason: "hour out of range"}
	}
	if len(parts[1]) != 2 {
		return 0, &ClockError{Value: value, Reason: "minute must have two digits"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, &ClockError{Value: value, Reason: "minute out of range"}
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, &ClockError{Value: value, Reason: "second out of range"}
		}
	}

	return NewClock(hour, minute), nil
}

// MustParseClock panics on malformed input. Intended for tests and literals.
func MustParseClock(value string) Clock {
	c, err := ParseClock(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour of c, 0 to 23.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute within the hour of c.
func (c Clock) Minute() int { return int(c) % 60 }

// Minutes returns c as minutes since midnight.
func (c Clock) Minutes() int { return int(c) }

// String formats c as "HH:mm".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalJSON renders c as "HH:mm".
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the forms ParseClock reads.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ClockError{Value: string(data), Reason: "not a string"}
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
