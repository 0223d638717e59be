package models

import (
	"encoding/json"
	"fmt"
)

// MaintenanceType is the kind of scheduled intervention.
type MaintenanceType string

const (
	MaintenanceInstallation MaintenanceType = "installation"
	MaintenanceRoutine      MaintenanceType = "maintenance"
	MaintenanceVerification MaintenanceType = "verification"
	MaintenanceReplacement  MaintenanceType = "replacement"
	MaintenanceDecommission MaintenanceType = "decommission"
)

func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenanceInstallation, MaintenanceRoutine, MaintenanceVerification, MaintenanceReplacement, MaintenanceDecommission:
		return true
	}
	return false
}

// UnmarshalJSON accepts canonical and Italian spellings. Unknown values are kept
// verbatim and report Valid() == false.
func (t *MaintenanceType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t, _ = ParseMaintenanceType(raw)
	return nil
}

// MaintenanceStatus is the lifecycle state of a scheduled intervention.
type MaintenanceStatus string

const (
	StatusScheduled  MaintenanceStatus = "scheduled"
	StatusInProgress MaintenanceStatus = "in_progress"
	StatusCompleted  MaintenanceStatus = "completed"
	StatusCancelled  MaintenanceStatus = "cancelled"
)

// statusTransitions lists the legal next states. Completed and cancelled are terminal.
var statusTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// quickActions are the forward transitions the calendar offers as one-click actions.
var quickActions = map[MaintenanceStatus]MaintenanceStatus{
	StatusScheduled:  StatusInProgress,
	StatusInProgress: StatusCompleted,
}

func (s MaintenanceStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s MaintenanceStatus) IsTerminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
// The engine does not enforce it; callers do.
func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Transitions returns a copy of the legal next states of s.
func (s MaintenanceStatus) Transitions() []MaintenanceStatus {
	return append([]MaintenanceStatus(nil), statusTransitions[s]...)
}

// QuickAction returns the single forward transition offered for s, if any.
func (s MaintenanceStatus) QuickAction() (MaintenanceStatus, bool) {
	next, ok := quickActions[s]
	return next, ok
}

func (s *MaintenanceStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s, _ = ParseMaintenanceStatus(raw)
	return nil
}

// MaintenancePriority is the dispatcher-assigned priority of an intervention.
type MaintenancePriority string

const (
	MaintenancePriorityLow    MaintenancePriority = "low"
	MaintenancePriorityMedium MaintenancePriority = "medium"
	MaintenancePriorityHigh   MaintenancePriority = "high"
	MaintenancePriorityUrgent MaintenancePriority = "urgent"
)

func (p MaintenancePriority) Valid() bool {
	switch p {
	case MaintenancePriorityLow, MaintenancePriorityMedium, MaintenancePriorityHigh, MaintenancePriorityUrgent:
		return true
	}
	return false
}

func (p *MaintenancePriority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p, _ = ParseMaintenancePriority(raw)
	return nil
}

// ScheduledMaintenance is one calendar entry bound to an employee and a product.
type ScheduledMaintenance struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employee_id"`
	EmployeeName    string              `json:"employee_name,omitempty"`
	ProductID       string              `json:"product_id"`
	ProductName     string              `json:"product_name,omitempty"`
	ProductLocation string              `json:"product_location,omitempty"`
	MaintenanceType MaintenanceType     `json:"maintenance_type"`
	ScheduledDate   Date                `json:"scheduled_date"`
	StartTime       Clock               `json:"start_time"`
	EndTime         Clock               `json:"end_time"`
	Duration        int                 `json:"duration"`
	Status          MaintenanceStatus   `json:"status"`
	Priority        MaintenancePriority `json:"priority"`
	Notes           string              `json:"notes,omitempty"`
	GPSLat          *float64            `json:"gps_lat,omitempty"`
	GPSLng          *float64            `json:"gps_lng,omitempty"`
}

// UnmarshalJSON requires start_time and end_time. An absent or null clock would
// otherwise decode as midnight.
func (m *ScheduledMaintenance) UnmarshalJSON(data []byte) error {
	type plain ScheduledMaintenance
	aux := struct {
		*plain
		StartTime *Clock `json:"start_time"`
		EndTime   *Clock `json:"end_time"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.StartTime == nil {
		return &ClockError{Value: "", Reason: "start_time is required"}
	}
	if aux.EndTime == nil {
		return &ClockError{Value: "", Reason: "end_time is required"}
	}
	m.StartTime, m.EndTime = *aux.StartTime, *aux.EndTime
	return nil
}

// Validate reports an entry the grid cannot place: no scheduled date, or an
// end time that is not after the start time.
func (m ScheduledMaintenance) Validate() error {
	if m.ScheduledDate.IsZero() {
		return fmt.Errorf("maintenance %q: %w", m.ID, requiredDateError("scheduled_date"))
	}
	if m.EndTime <= m.StartTime {
		return fmt.Errorf("maintenance %q: %w", m.ID, &ClockError{
			Value:  m.EndTime.String(),
			Reason: "end_time must be after start_time " + m.StartTime.String(),
		})
	}
	return nil
}

// SlotView is one half-hour cell of an employee's day.
type SlotView struct {
	Time     Clock                  `json:"time"`
	Records  []ScheduledMaintenance `json:"records"`
	Workload float64                `json:"workload"`
	Conflict bool                   `json:"conflict"`
}

// ConflictPair names two overlapping entries of the same employee and day.
type ConflictPair struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

// EmployeeDay is an employee's schedule for one date.
type EmployeeDay struct {
	EmployeeID   string         `json:"employee_id"`
	EmployeeName string         `json:"employee_name,omitempty"`
	Slots        []SlotView     `json:"slots"`
	Conflict     bool           `json:"conflict"`
	Conflicts    []ConflictPair `json:"conflicts,omitempty"`
}

// DayView is the calendar for one date across employees.
type DayView struct {
	Date      Date          `json:"date"`
	Employees []EmployeeDay `json:"employees"`
}

// WeekView is a Monday-start week of DayViews.
type WeekView struct {
	Start Date      `json:"start"`
	End   Date      `json:"end"`
	Days  []DayView `json:"days"`
}
