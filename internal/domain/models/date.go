package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire layout used for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is matched by every DateError.
var ErrInvalidDate = errors.New("invalid date")

// DateError reports a value that could not be read as a calendar date.
type DateError struct {
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidDate) match any DateError.
func (e *DateError) Is(target error) bool { return target == ErrInvalidDate }

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date is a civil calendar date without a time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalizing out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads a plain date or a full ISO-8601 timestamp. Timestamps keep the
// calendar day of their own offset.
func ParseDate(value string) (Date, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return Date{}, &DateError{Value: value, Err: errors.New("empty value")}
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), nil
		}
		lastErr = err
	}
	return Date{}, &DateError{Value: value, Err: lastErr}
}

// requiredDateError reports a required date that is missing or null.
func requiredDateError(field string) error {
	return &DateError{Value: "", Err: fmt.Errorf("%s is required", field)}
}

// MustParseDate panics on malformed input. Intended for tests and literals.
func MustParseDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// AddYears advances d by n calendar years. Feb 29 rolls to Mar 1 in common years.
func (d Date) AddYears(n int) Date { return DateOf(d.Time().AddDate(n, 0, 0)) }

// AddDays advances d by n days.
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool { return d.Time().After(other.Time()) }

// String formats d as "YYYY-MM-DD", or "" when zero.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// MarshalJSON renders d as "YYYY-MM-DD", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, "YYYY-MM-DD" or an ISO-8601 timestamp string.
// null leaves d zero; records reject a zero required date in Validate.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &DateError{Value: string(data), Err: err}
	}

	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
