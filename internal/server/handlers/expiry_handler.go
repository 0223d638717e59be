package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/expiry"
	"github.com/mamadbah2/signcare/internal/service/monitoring"
)

// ExpiryService is the monitoring surface used by ExpiryHandler.
type ExpiryService interface {
	Report(ctx context.Context, filter models.AlertStatus) (monitoring.Report, error)
	Summary(ctx context.Context) (models.ExpirySummary, error)
	AreaPlan(ctx context.Context, opts ...expiry.GroupOption) ([]models.AreaGroup, error)
	Digest(ctx context.Context, kind models.NotificationKind) (models.Digest, error)
	Compute(records []models.ExpiryRecord) []models.ExpiryInfo
}

// DigestStore exposes the last scheduled digest.
type DigestStore interface {
	Latest() (models.Digest, bool)
}

// ExpiryHandler serves the expiry monitoring endpoints.
type ExpiryHandler struct {
	svc     ExpiryService
	digests DigestStore
	logger  *zap.Logger
}

// NewExpiryHandler constructs the HTTP handler adapter. digests may be nil.
func NewExpiryHandler(svc ExpiryService, digests DigestStore, logger *zap.Logger) *ExpiryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryHandler{svc: svc, digests: digests, logger: logger}
}

// List returns every product ranked by urgency, optionally filtered by ?status=.
func (h *ExpiryHandler) List(c *gin.Context) {
	status := models.AlertStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of ok, warning, critical, expired"})
		return
	}

	report, err := h.svc.Report(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, "failed building expiry report", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Summary returns the registry counters.
func (h *ExpiryHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed building expiry summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Areas returns the route-planning groups. Accepts ?strategy= and ?max_distance_km=.
func (h *ExpiryHandler) Areas(c *gin.Context) {
	var opts []expiry.GroupOption

	if raw := c.Query("strategy"); raw != "" {
		strategy, ok := expiry.ParseStrategy(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "strategy must be bucket or grid"})
			return
		}
		opts = append(opts, expiry.WithStrategy(strategy))
	}

	if raw := c.Query("max_distance_km"); raw != "" {
		km, err := strconv.ParseFloat(raw, 64)
		if err != nil || km <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_distance_km must be a positive number"})
			return
		}
		opts = append(opts, expiry.WithMaxDistanceKm(km))
	}

	groups, err := h.svc.AreaPlan(c.Request.Context(), opts...)
	if err != nil {
		respondError(c, h.logger, "failed building area plan", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// Digest builds a notification digest on demand. ?kind= forces one template.
func (h *ExpiryHandler) Digest(c *gin.Context) {
	kind := models.NotificationKind(c.Query("kind"))
	switch kind {
	case "", models.NotificationReminder, models.NotificationAlert, models.NotificationCritical:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be one of reminder, alert, critical"})
		return
	}

	digest, err := h.svc.Digest(c.Request.Context(), kind)
	if err != nil {
		respondError(c, h.logger, "failed building digest", err)
		return
	}

	c.JSON(http.StatusOK, digest)
}

// LatestDigest returns the digest produced by the last scheduled run.
func (h *ExpiryHandler) LatestDigest(c *gin.Context) {
	if h.digests == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no digest available yet"})
		return
	}
	digest, ok := h.digests.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no digest available yet"})
		return
	}

	c.JSON(http.StatusOK, digest)
}

// Compute derives expiry infos for the records in the request body. Nothing is stored.
func (h *ExpiryHandler) Compute(c *gin.Context) {
	var records []models.ExpiryRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		h.logger.Warn("invalid compute payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, record := range records {
		if err := record.Validate(); err != nil {
			h.logger.Warn("invalid compute record", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	infos := h.svc.Compute(records)
	c.JSON(http.StatusOK, gin.H{
		"items":   expiry.RankByUrgency(infos, ""),
		"summary": expiry.Summarize(infos),
	})
}
