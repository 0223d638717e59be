package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/service/calendar"
)

// CalendarService is the calendar surface used by CalendarHandler.
type CalendarService interface {
	Today() models.Date
	Week(ctx context.Context, anchor models.Date, employeeID string) (models.WeekView, error)
	Day(ctx context.Context, date models.Date, employeeID string) (models.DayView, error)
}

// CalendarHandler serves the technician calendar endpoints.
type CalendarHandler struct {
	svc    CalendarService
	logger *zap.Logger
}

// NewCalendarHandler constructs the HTTP handler adapter.
func NewCalendarHandler(svc CalendarService, logger *zap.Logger) *CalendarHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarHandler{svc: svc, logger: logger}
}

// Week returns the Monday-start week containing ?date= (default today).
func (h *CalendarHandler) Week(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}

	week, err := h.svc.Week(c.Request.Context(), date, c.Query("employee_id"))
	if err != nil {
		respondError(c, h.logger, "failed building week view", err)
		return
	}

	c.JSON(http.StatusOK, week)
}

// Day returns the calendar of ?date= (default today).
func (h *CalendarHandler) Day(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}

	day, err := h.svc.Day(c.Request.Context(), date, c.Query("employee_id"))
	if err != nil {
		respondError(c, h.logger, "failed building day view", err)
		return
	}

	c.JSON(http.StatusOK, day)
}

// Transitions lists the legal next states of ?status=.
func (h *CalendarHandler) Transitions(c *gin.Context) {
	view, err := calendar.Transitions(c.Query("status"))
	if err != nil {
		respondError(c, h.logger, "invalid maintenance status", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CalendarHandler) dateParam(c *gin.Context) (models.Date, bool) {
	raw := c.Query("date")
	if raw == "" {
		return h.svc.Today(), true
	}

	date, err := models.ParseDate(raw)
	if err != nil {
		respondError(c, h.logger, "invalid date parameter", err)
		return models.Date{}, false
	}
	return date, true
}

// respondError maps boundary validation errors to 400 and everything else,
// which comes from the record source, to 502.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrInvalidClock),
		errors.Is(err, calendar.ErrUnknownStatus):
		logger.Warn(msg, zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "record source unavailable"})
	}
}
