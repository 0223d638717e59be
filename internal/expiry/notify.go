package expiry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

type notificationTemplate struct {
	expired   string
	today     string
	countdown string
}

// Templates take the product label and, except for today, a day count and
// the expiry date.
var notificationTemplates = map[models.NotificationKind]notificationTemplate{
	models.NotificationReminder: {
		expired:   "Promemoria: la pellicola del prodotto %s è scaduta da %d giorni (%s). Pianificare la sostituzione.",
		today:     "Promemoria: la pellicola del prodotto %s scade oggi (%s).",
		countdown: "Promemoria: la pellicola del prodotto %s scade tra %d giorni (%s).",
	},
	models.NotificationAlert: {
		expired:   "Attenzione: prodotto %s fuori norma, pellicola scaduta da %d giorni (%s).",
		today:     "Attenzione: la pellicola del prodotto %s scade oggi (%s). Intervento richiesto.",
		countdown: "Attenzione: la pellicola del prodotto %s scade tra %d giorni (%s). Programmare un intervento.",
	},
	models.NotificationCritical: {
		expired:   "CRITICO: prodotto %s con pellicola scaduta da %d giorni (%s). Sostituzione immediata.",
		today:     "CRITICO: la pellicola del prodotto %s scade oggi (%s). Sostituzione immediata.",
		countdown: "CRITICO: la pellicola del prodotto %s scade tra %d giorni (%s). Sostituzione urgente.",
	},
}

// FormatNotification renders the notification text for info. Unknown kinds fall
// back to the reminder template and are logged.
func (e *Engine) FormatNotification(info models.ExpiryInfo, kind models.NotificationKind) string {
	tmpl, ok := notificationTemplates[kind]
	if !ok {
		e.logger.Warn("unknown notification kind, using reminder",
			zap.String("kind", string(kind)),
			zap.String("product_id", info.ProductID))
		tmpl = notificationTemplates[models.NotificationReminder]
	}

	label := info.ProductID
	if info.QRCode != "" {
		label = fmt.Sprintf("%s [%s]", info.ProductID, info.QRCode)
	}
	expiry := info.ExpiryDate.Time().Format("02/01/2006")

	switch {
	case info.DaysRemaining < 0:
		return fmt.Sprintf(tmpl.expired, label, -info.DaysRemaining, expiry)
	case info.DaysRemaining == 0:
		return fmt.Sprintf(tmpl.today, label, expiry)
	default:
		return fmt.Sprintf(tmpl.countdown, label, info.DaysRemaining, expiry)
	}
}

// NotificationKindFor picks the template matching an alert status.
func NotificationKindFor(status models.AlertStatus) models.NotificationKind {
	switch status {
	case models.AlertExpired:
		return models.NotificationCritical
	case models.AlertCritical:
		return models.NotificationAlert
	default:
		return models.NotificationReminder
	}
}
