// Package calendar builds the technician calendar views from scheduled
// maintenances.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/schedule"
)

// ErrUnknownStatus is returned for a status outside the maintenance state machine.
var ErrUnknownStatus = errors.New("unknown maintenance status")

// MaintenanceSource lists maintenances scheduled between two dates, inclusive.
type MaintenanceSource interface {
	ListMaintenances(ctx context.Context, from, to models.Date) ([]models.ScheduledMaintenance, error)
}

// TransitionView lists what a technician may do from a status.
type TransitionView struct {
	Status      models.MaintenanceStatus   `json:"status"`
	Allowed     []models.MaintenanceStatus `json:"allowed"`
	QuickAction models.MaintenanceStatus   `json:"quick_action,omitempty"`
	Terminal    bool                       `json:"terminal"`
}

// Service renders week and day views with slots, workload and conflicts.
type Service struct {
	source   MaintenanceSource
	location *time.Location
	slots    []models.Clock
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a calendar service. A nil location means UTC.
func NewService(source MaintenanceSource, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		source:   source,
		location: location,
		slots:    schedule.DefaultTimeSlots(),
		logger:   logger,
		now:      time.Now,
	}
}

// Today returns the current civil date in the service's timezone.
func (s *Service) Today() models.Date {
	return models.DateOf(s.now().In(s.location))
}

// Week returns the Monday-start week containing anchor. A non-empty employeeID
// restricts the view to that employee.
func (s *Service) Week(ctx context.Context, anchor models.Date, employeeID string) (models.WeekView, error) {
	days := schedule.WeekDays(anchor)
	records, err := s.source.ListMaintenances(ctx, days[0], days[6])
	if err != nil {
		return models.WeekView{}, fmt.Errorf("list maintenances for week of %s: %w", days[0], err)
	}

	week := models.WeekView{Start: days[0], End: days[6], Days: make([]models.DayView, 0, len(days))}
	for _, date := range days {
		week.Days = append(week.Days, s.dayView(records, date, employeeID))
	}

	s.logger.Debug("week view built",
		zap.String("start", week.Start.String()),
		zap.String("employee_id", employeeID),
		zap.Int("records", len(records)))
	return week, nil
}

// Day returns the calendar of a single date.
func (s *Service) Day(ctx context.Context, date models.Date, employeeID string) (models.DayView, error) {
	records, err := s.source.ListMaintenances(ctx, date, date)
	if err != nil {
		return models.DayView{}, fmt.Errorf("list maintenances for %s: %w", date, err)
	}
	return s.dayView(records, date, employeeID), nil
}

// Transitions describes the legal moves out of status. Italian and English
// names are both accepted.
func Transitions(raw string) (TransitionView, error) {
	status, ok := models.ParseMaintenanceStatus(raw)
	if !ok {
		return TransitionView{}, fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}

	view := TransitionView{
		Status:   status,
		Allowed:  append([]models.MaintenanceStatus{}, status.Transitions()...),
		Terminal: status.IsTerminal(),
	}
	if next, ok := status.QuickAction(); ok {
		view.QuickAction = next
	}
	return view, nil
}

func (s *Service) dayView(records []models.ScheduledMaintenance, date models.Date, employeeID string) models.DayView {
	var dayRecords []models.ScheduledMaintenance
	if employeeID != "" {
		dayRecords = schedule.RecordsForEmployeeDay(records, date, employeeID)
	} else {
		dayRecords = schedule.RecordsForDay(records, date)
	}

	view := models.DayView{Date: date, Employees: []models.EmployeeDay{}}
	for _, group := range schedule.GroupByEmployee(dayRecords) {
		view.Employees = append(view.Employees, s.employeeDay(group))
	}
	return view
}

func (s *Service) employeeDay(records []models.ScheduledMaintenance) models.EmployeeDay {
	pairs := schedule.ConflictingPairs(records)
	conflicted := make(map[string]bool, len(pairs)*2)
	for _, pair := range pairs {
		conflicted[pair.FirstID] = true
		conflicted[pair.SecondID] = true
	}

	day := models.EmployeeDay{
		EmployeeID:   records[0].EmployeeID,
		EmployeeName: records[0].EmployeeName,
		Slots:        make([]models.SlotView, 0, len(s.slots)),
		Conflict:     len(pairs) > 0,
		Conflicts:    pairs,
	}

	for _, slot := range s.slots {
		inSlot := schedule.SlotsForTime(records, slot)
		view := models.SlotView{
			Time:     slot,
			Records:  inSlot,
			Workload: schedule.WorkloadPercentage(slot, records),
		}
		for _, record := range inSlot {
			if conflicted[record.ID] {
				view.Conflict = true
				break
			}
		}
		day.Slots = append(day.Slots, view)
	}
	return day
}
