package expiry

import (
	"math"
	"strings"
	"time"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

const (
	day = 24 * time.Hour

	criticalWindowDays = 30
	warningWindowDays  = 90
	iisVerifyDays      = 180
)

// DaysRemaining returns ceil((expiry - now) / 24h). The expiry date is taken as
// midnight UTC and now is converted to UTC, so the caller's DST rules cannot move
// the result. Negative values mean the film has expired; zero means today.
//
// The difference is taken in Unix seconds: time.Duration saturates near 292
// years and would clamp dates with a mistyped year.
func DaysRemaining(expiry models.Date, now time.Time) int {
	now = now.UTC()
	seconds := float64(expiry.Time().Unix()-now.Unix()) - float64(now.Nanosecond())/1e9
	return int(math.Ceil(seconds / day.Seconds()))
}

// ClassifyPriority maps days remaining onto a priority tier:
// <0 critical, 0..30 high, 31..90 medium, >90 low.
func ClassifyPriority(daysRemaining int) models.Priority {
	switch {
	case daysRemaining < 0:
		return models.PriorityCritical
	case daysRemaining <= criticalWindowDays:
		return models.PriorityHigh
	case daysRemaining <= warningWindowDays:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// ClassifyAlertStatus maps days remaining onto an alert status:
// <0 expired, 0..30 critical, 31..90 warning, >90 ok.
func ClassifyAlertStatus(daysRemaining int) models.AlertStatus {
	switch {
	case daysRemaining < 0:
		return models.AlertExpired
	case daysRemaining <= criticalWindowDays:
		return models.AlertCritical
	case daysRemaining <= warningWindowDays:
		return models.AlertWarning
	default:
		return models.AlertOK
	}
}

type interventionRule struct {
	match  func(days int, class models.FilmClass) bool
	result models.Intervention
}

// interventionRules is evaluated top-down; the first match wins.
var interventionRules = []interventionRule{
	{
		match:  func(days int, _ models.FilmClass) bool { return days <= criticalWindowDays },
		result: models.InterventionReplacement,
	},
	{
		match: func(days int, class models.FilmClass) bool {
			return strings.Contains(string(class), "IIs") && days <= iisVerifyDays
		},
		result: models.InterventionVerification,
	},
	{
		match:  func(int, models.FilmClass) bool { return true },
		result: models.InterventionVerification,
	},
}

// RecommendedIntervention picks the field intervention for a product.
func RecommendedIntervention(daysRemaining int, class models.FilmClass) models.Intervention {
	for _, rule := range interventionRules {
		if rule.match(daysRemaining, class) {
			return rule.result
		}
	}
	return models.InterventionVerification
}
