package models

import (
	"fmt"
	"strings"
	"time"
)

// FilmClass is the regulatory class of the retroreflective sheeting on a sign.
type FilmClass string

const (
	FilmClass1   FilmClass = "class-1"
	FilmClass2   FilmClass = "class-2"
	FilmClassIIs FilmClass = "class-IIs"
)

// filmClassSynonyms is keyed by the lower-cased, dash-joined spelling.
var filmClassSynonyms = map[string]FilmClass{
	"class-1":    FilmClass1,
	"class-i":    FilmClass1,
	"classe-1":   FilmClass1,
	"classe-i":   FilmClass1,
	"class-2":    FilmClass2,
	"class-ii":   FilmClass2,
	"classe-2":   FilmClass2,
	"classe-ii":  FilmClass2,
	"class-iis":  FilmClassIIs,
	"classe-iis": FilmClassIIs,
	"class-2s":   FilmClassIIs,
}

// NormalizeFilmClass maps a film class spelling onto one of the three canonical
// classes. Unrecognized values are returned trimmed with ok=false.
func NormalizeFilmClass(raw string) (FilmClass, bool) {
	trimmed := strings.TrimSpace(raw)
	key := strings.ToLower(trimmed)
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	if class, ok := filmClassSynonyms[key]; ok {
		return class, true
	}
	return FilmClass(trimmed), false
}

// Priority is the urgency tier of a product's expiry.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders tiers from critical (0) to low (3). Unknown tiers sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Weight is the numeric value used when averaging priorities.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

// AlertStatus is the UI-facing bucket derived from the days remaining.
type AlertStatus string

const (
	AlertOK       AlertStatus = "ok"
	AlertWarning  AlertStatus = "warning"
	AlertCritical AlertStatus = "critical"
	AlertExpired  AlertStatus = "expired"
)

// Valid reports whether s is one of the four statuses.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertOK, AlertWarning, AlertCritical, AlertExpired:
		return true
	}
	return false
}

// Intervention is the kind of field work recommended for a sign.
type Intervention string

const (
	InterventionVerification Intervention = "verification"
	InterventionReplacement  Intervention = "replacement"
)

// NotificationKind selects the notification template.
type NotificationKind string

const (
	NotificationReminder NotificationKind = "reminder"
	NotificationAlert    NotificationKind = "alert"
	NotificationCritical NotificationKind = "critical"
)

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// ExpiryRecord is the input describing one installed product.
type ExpiryRecord struct {
	ProductID        string    `json:"product_id"`
	QRCode           string    `json:"qr_code,omitempty"`
	InstallationDate Date      `json:"installation_date"`
	FilmClass        FilmClass `json:"film_class"`
	GPSLat           *float64  `json:"gps_lat,omitempty"`
	GPSLng           *float64  `json:"gps_lng,omitempty"`
}

// Validate reports a record the engine cannot classify. A missing or null
// installation date is a *DateError rather than year zero.
func (r ExpiryRecord) Validate() error {
	if r.InstallationDate.IsZero() {
		return fmt.Errorf("product %q: %w", r.ProductID, requiredDateError("installation_date"))
	}
	return nil
}

// Position returns the record coordinates when both are present.
func (r ExpiryRecord) Position() (GeoPoint, bool) {
	if r.GPSLat == nil || r.GPSLng == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *r.GPSLat, Lng: *r.GPSLng}, true
}

// ExpiryInfo is an ExpiryRecord with its derived expiry fields. It is recomputed
// on demand and never stored.
type ExpiryInfo struct {
	ExpiryRecord
	ExpiryDate              Date         `json:"expiry_date"`
	DaysRemaining           int          `json:"days_remaining"`
	Priority                Priority     `json:"priority"`
	AlertStatus             AlertStatus  `json:"alert_status"`
	RecommendedIntervention Intervention `json:"recommended_intervention"`
	// ClassDefaulted is set when the film class was unknown and the default
	// duration was applied.
	ClassDefaulted bool `json:"class_defaulted,omitempty"`
}

// ExpirySummary aggregates a list of ExpiryInfo.
type ExpirySummary struct {
	Total                    int    `json:"total"`
	ExpiredCount             int    `json:"expired_count"`
	CriticalCount            int    `json:"critical_count"`
	WarningCount             int    `json:"warning_count"`
	OKCount                  int    `json:"ok_count"`
	DueWithin30              int    `json:"due_within_30"`
	DueWithin31To90          int    `json:"due_within_31_to_90"`
	PercentExpired           string `json:"percent_expired"`
	PercentCriticalOrExpired string `json:"percent_critical_or_expired"`
}

// AreaGroup is a set of products planned together.
type AreaGroup struct {
	AreaKey       string       `json:"area_key"`
	Members       []ExpiryInfo `json:"members"`
	MeanPriority  float64      `json:"mean_priority"`
	Centroid      GeoPoint     `json:"centroid"`
	EstimatedDays int          `json:"estimated_days"`
}

// DigestMessage is one notification line of a Digest.
type DigestMessage struct {
	ProductID   string      `json:"product_id"`
	AlertStatus AlertStatus `json:"alert_status"`
	Text        string      `json:"text"`
}

// Digest is the periodic expiry overview produced by the scheduler.
type Digest struct {
	ID          string           `json:"id"`
	Kind        NotificationKind `json:"kind"`
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     ExpirySummary    `json:"summary"`
	Messages    []DigestMessage  `json:"messages"`
}
