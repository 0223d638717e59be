// Package expiry computes reflective-film expiry dates and classifies products
// by urgency. Every function is pure: the evaluation time is always an argument
// and nothing is cached between calls.
package expiry

import (
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

// DefaultYears is the duration applied to unknown film classes.
const DefaultYears = 10

// DefaultClassYears is the regulatory duration of each canonical film class.
var DefaultClassYears = map[models.FilmClass]int{
	models.FilmClass1:   7,
	models.FilmClass2:   10,
	models.FilmClassIIs: 12,
}

// DefaultHook is called whenever an unknown film class falls back to the
// default duration.
type DefaultHook func(class models.FilmClass)

// Engine holds the immutable class table. It is safe for concurrent use.
type Engine struct {
	classYears   map[models.FilmClass]int
	defaultYears int
	onDefault    DefaultHook
	logger       *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithDefaultYears overrides the fallback duration for unknown classes.
func WithDefaultYears(years int) Option {
	return func(e *Engine) {
		if years > 0 {
			e.defaultYears = years
		}
	}
}

// WithClassYears overrides or adds the duration of one canonical class.
func WithClassYears(class models.FilmClass, years int) Option {
	return func(e *Engine) {
		e.classYears[class] = years
	}
}

// WithDefaultHook registers a callback fired on every default-duration lookup.
func WithDefaultHook(hook DefaultHook) Option {
	return func(e *Engine) { e.onDefault = hook }
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds an Engine with the regulatory defaults and the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		classYears:   make(map[models.FilmClass]int, len(DefaultClassYears)),
		defaultYears: DefaultYears,
		logger:       zap.NewNop(),
	}
	for class, years := range DefaultClassYears {
		e.classYears[class] = years
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ClassYears returns the duration for class and whether the class was known.
func (e *Engine) ClassYears(class models.FilmClass) (int, bool) {
	normalized, _ := models.NormalizeFilmClass(string(class))
	if years, ok := e.classYears[normalized]; ok {
		return years, true
	}

	e.logger.Warn("unknown film class, applying default duration",
		zap.String("film_class", string(class)),
		zap.Int("default_years", e.defaultYears))
	if e.onDefault != nil {
		e.onDefault(class)
	}
	return e.defaultYears, false
}

// ExpiryDate advances the installation date by the class duration in calendar
// years. The boolean is false when the default duration was used.
func (e *Engine) ExpiryDate(installation models.Date, class models.FilmClass) (models.Date, bool) {
	years, known := e.ClassYears(class)
	return installation.AddYears(years), known
}

// Info derives the full ExpiryInfo of record as of now.
func (e *Engine) Info(record models.ExpiryRecord, now time.Time) models.ExpiryInfo {
	expiryDate, known := e.ExpiryDate(record.InstallationDate, record.FilmClass)
	days := DaysRemaining(expiryDate, now)

	class := record.FilmClass
	if normalized, ok := models.NormalizeFilmClass(string(class)); ok {
		class = normalized
	}

	return models.ExpiryInfo{
		ExpiryRecord:            record,
		ExpiryDate:              expiryDate,
		DaysRemaining:           days,
		Priority:                ClassifyPriority(days),
		AlertStatus:             ClassifyAlertStatus(days),
		RecommendedIntervention: RecommendedIntervention(days, class),
		ClassDefaulted:          !known,
	}
}

// Infos derives ExpiryInfo for every record, preserving order.
func (e *Engine) Infos(records []models.ExpiryRecord, now time.Time) []models.ExpiryInfo {
	out := make([]models.ExpiryInfo, 0, len(records))
	for _, record := range records {
		out = append(out, e.Info(record, now))
	}
	return out
}
