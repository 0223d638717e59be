// Package schedule lays maintenance records out on the calendar grid: day and
// employee filters, half-hour slots, conflicts and hourly workload. It never
// mutates the records it is given.
package schedule

import (
	"slices"
	"time"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

const (
	DefaultStartHour   = 8
	DefaultEndHour     = 18
	DefaultStepMinutes = 30

	// SlotMinutes is the width of the slot a record is placed in.
	SlotMinutes = 30

	workloadWindowMinutes = 60
)

// RecordsForDay returns the records scheduled on the calendar day of date.
func RecordsForDay(records []models.ScheduledMaintenance, date models.Date) []models.ScheduledMaintenance {
	var out []models.ScheduledMaintenance
	for _, record := range records {
		if record.ScheduledDate == date {
			out = append(out, record)
		}
	}
	return out
}

// RecordsForEmployeeDay narrows RecordsForDay to one employee.
func RecordsForEmployeeDay(records []models.ScheduledMaintenance, date models.Date, employeeID string) []models.ScheduledMaintenance {
	var out []models.ScheduledMaintenance
	for _, record := range RecordsForDay(records, date) {
		if record.EmployeeID == employeeID {
			out = append(out, record)
		}
	}
	return out
}

// WeekDays returns the Monday-start week containing anchor. A Sunday anchor
// belongs to the week that started six days earlier.
func WeekDays(anchor models.Date) [7]models.Date {
	daysSinceMonday := (int(anchor.Weekday()) + 6) % 7
	monday := anchor.AddDays(-daysSinceMonday)

	var week [7]models.Date
	for i := range week {
		week[i] = monday.AddDays(i)
	}
	return week
}

// WeekDaysOf is WeekDays for a time value, using t's own calendar day.
func WeekDaysOf(t time.Time) [7]models.Date {
	return WeekDays(models.DateOf(t))
}

// TimeSlots lists slot start times from startHour to endHour inclusive. The
// last hour only contributes its ":00" slot.
func TimeSlots(startHour, endHour, stepMinutes int) []models.Clock {
	if stepMinutes <= 0 || stepMinutes > 60 {
		stepMinutes = DefaultStepMinutes
	}

	var slots []models.Clock
	for hour := startHour; hour <= endHour; hour++ {
		for minute := 0; minute < 60; minute += stepMinutes {
			if hour == endHour && minute > 0 {
				break
			}
			slots = append(slots, models.NewClock(hour, minute))
		}
	}
	return slots
}

// DefaultTimeSlots is TimeSlots(8, 18, 30): "08:00" through "18:00".
func DefaultTimeSlots() []models.Clock {
	return TimeSlots(DefaultStartHour, DefaultEndHour, DefaultStepMinutes)
}

// SlotsForTime returns the records whose start falls in the slot beginning at
// slot: same hour, minute in [slot minute, slot minute+30). A record occupies
// only the slot of its start time, whatever its duration.
func SlotsForTime(records []models.ScheduledMaintenance, slot models.Clock) []models.ScheduledMaintenance {
	var out []models.ScheduledMaintenance
	for _, record := range records {
		start := record.StartTime
		if start.Hour() != slot.Hour() {
			continue
		}
		if start.Minute() >= slot.Minute() && start.Minute() < slot.Minute()+SlotMinutes {
			out = append(out, record)
		}
	}
	return out
}

func sortedByStart(records []models.ScheduledMaintenance) []models.ScheduledMaintenance {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.ScheduledMaintenance) int {
		return a.StartTime.Minutes() - b.StartTime.Minutes()
	})
	return sorted
}

// DetectConflicts reports whether any record, ordered by start time, ends after
// the next one starts. Records that only touch do not conflict. The caller
// passes records of a single employee and day.
func DetectConflicts(records []models.ScheduledMaintenance) bool {
	if len(records) < 2 {
		return false
	}

	sorted := sortedByStart(records)
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].EndTime.Minutes() > sorted[i+1].StartTime.Minutes() {
			return true
		}
	}
	return false
}

// ConflictingPairs returns the adjacent pairs DetectConflicts would flag.
func ConflictingPairs(records []models.ScheduledMaintenance) []models.ConflictPair {
	if len(records) < 2 {
		return nil
	}

	var pairs []models.ConflictPair
	sorted := sortedByStart(records)
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].EndTime.Minutes() > sorted[i+1].StartTime.Minutes() {
			pairs = append(pairs, models.ConflictPair{FirstID: sorted[i].ID, SecondID: sorted[i+1].ID})
		}
	}
	return pairs
}

// WorkloadPercentage sums the minutes each record overlaps the hour starting at
// slot and returns it as a percentage of that hour, capped at 100.
func WorkloadPercentage(slot models.Clock, records []models.ScheduledMaintenance) float64 {
	windowStart := slot.Minutes()
	windowEnd := windowStart + workloadWindowMinutes

	var busy int
	for _, record := range records {
		start := max(record.StartTime.Minutes(), windowStart)
		end := min(record.EndTime.Minutes(), windowEnd)
		if end > start {
			busy += end - start
		}
	}

	return min(float64(busy)/workloadWindowMinutes*100, 100)
}

// GroupByEmployee splits records per employee, keeping the order in which
// employees first appear and the record order within each employee.
func GroupByEmployee(records []models.ScheduledMaintenance) [][]models.ScheduledMaintenance {
	index := make(map[string]int)
	var groups [][]models.ScheduledMaintenance
	for _, record := range records {
		i, ok := index[record.EmployeeID]
		if !ok {
			i = len(groups)
			index[record.EmployeeID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], record)
	}
	return groups
}
