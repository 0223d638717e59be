package models

import "strings"

// The back office stores Italian enum values while the field API uses English
// ones. These tables are the only place the two vocabularies meet.

var maintenanceTypeNames = map[string]MaintenanceType{
	"installation":  MaintenanceInstallation,
	"installazione": MaintenanceInstallation,
	"maintenance":   MaintenanceRoutine,
	"manutenzione":  MaintenanceRoutine,
	"verification":  MaintenanceVerification,
	"verifica":      MaintenanceVerification,
	"replacement":   MaintenanceReplacement,
	"sostituzione":  MaintenanceReplacement,
	"decommission":  MaintenanceDecommission,
	"dismissione":   MaintenanceDecommission,
}

var maintenanceStatusNames = map[string]MaintenanceStatus{
	"scheduled":   StatusScheduled,
	"programmato": StatusScheduled,
	"programmata": StatusScheduled,
	"in_progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"in_corso":    StatusInProgress,
	"completed":   StatusCompleted,
	"completato":  StatusCompleted,
	"completata":  StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"annullato":   StatusCancelled,
	"annullata":   StatusCancelled,
}

var maintenancePriorityNames = map[string]MaintenancePriority{
	"low":     MaintenancePriorityLow,
	"bassa":   MaintenancePriorityLow,
	"medium":  MaintenancePriorityMedium,
	"media":   MaintenancePriorityMedium,
	"high":    MaintenancePriorityHigh,
	"alta":    MaintenancePriorityHigh,
	"urgent":  MaintenancePriorityUrgent,
	"urgente": MaintenancePriorityUrgent,
}

func lookupKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseMaintenanceType translates raw into a canonical type. Unknown values are
// returned unchanged with ok=false.
func ParseMaintenanceType(raw string) (MaintenanceType, bool) {
	if t, ok := maintenanceTypeNames[lookupKey(raw)]; ok {
		return t, true
	}
	return MaintenanceType(strings.TrimSpace(raw)), false
}

// ParseMaintenanceStatus translates raw into a canonical status.
func ParseMaintenanceStatus(raw string) (MaintenanceStatus, bool) {
	if s, ok := maintenanceStatusNames[lookupKey(raw)]; ok {
		return s, true
	}
	return MaintenanceStatus(strings.TrimSpace(raw)), false
}

// ParseMaintenancePriority translates raw into a canonical priority.
func ParseMaintenancePriority(raw string) (MaintenancePriority, bool) {
	if p, ok := maintenancePriorityNames[lookupKey(raw)]; ok {
		return p, true
	}
	return MaintenancePriority(strings.TrimSpace(raw)), false
}
