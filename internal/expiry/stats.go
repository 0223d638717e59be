package expiry

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

// RankByUrgency returns a new slice ordered by priority tier (critical first)
// then by ascending days remaining. Ties keep their input order. A non-empty
// filter keeps only entries with that alert status.
func RankByUrgency(list []models.ExpiryInfo, filter models.AlertStatus) []models.ExpiryInfo {
	ranked := make([]models.ExpiryInfo, 0, len(list))
	for _, info := range list {
		if filter != "" && info.AlertStatus != filter {
			continue
		}
		ranked = append(ranked, info)
	}

	slices.SortStableFunc(ranked, func(a, b models.ExpiryInfo) int {
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra - rb
		}
		return a.DaysRemaining - b.DaysRemaining
	})
	return ranked
}

// Summarize counts list by alert status and due window. An empty list yields
// zero counts and "0.0" percentages.
func Summarize(list []models.ExpiryInfo) models.ExpirySummary {
	summary := models.ExpirySummary{Total: len(list)}

	for _, info := range list {
		switch info.AlertStatus {
		case models.AlertExpired:
			summary.ExpiredCount++
		case models.AlertCritical:
			summary.CriticalCount++
		case models.AlertWarning:
			summary.WarningCount++
		case models.AlertOK:
			summary.OKCount++
		}

		switch {
		case info.DaysRemaining >= 0 && info.DaysRemaining <= criticalWindowDays:
			summary.DueWithin30++
		case info.DaysRemaining > criticalWindowDays && info.DaysRemaining <= warningWindowDays:
			summary.DueWithin31To90++
		}
	}

	summary.PercentExpired = percent(summary.ExpiredCount, summary.Total)
	summary.PercentCriticalOrExpired = percent(summary.ExpiredCount+summary.CriticalCount, summary.Total)
	return summary
}

func percent(count, total int) string {
	if total == 0 {
		return "0.0"
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		StringFixed(1)
}
