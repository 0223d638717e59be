// Package monitoring turns the product registry into expiry reports, area
// plans and notification digests.
package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/expiry"
)

// ProductSource lists installed products.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.ExpiryRecord, error)
}

// Report is a ranked view of the registry.
type Report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Summary     models.ExpirySummary `json:"summary"`
	Items       []models.ExpiryInfo  `json:"items"`
}

// Service computes expiry views over a ProductSource.
type Service struct {
	source ProductSource
	engine *expiry.Engine
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a monitoring service instance.
func NewService(source ProductSource, engine *expiry.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = expiry.New(expiry.WithLogger(logger))
	}
	return &Service{source: source, engine: engine, logger: logger, now: time.Now}
}

// Compute derives expiry infos for records supplied by the caller.
func (s *Service) Compute(records []models.ExpiryRecord) []models.ExpiryInfo {
	return s.engine.Infos(records, s.now())
}

// Report ranks every product by urgency. The summary always covers the whole
// registry; filter only narrows Items.
func (s *Service) Report(ctx context.Context, filter models.AlertStatus) (Report, error) {
	now := s.now()
	infos, err := s.infos(ctx, now)
	if err != nil {
		return Report{}, err
	}

	return Report{
		GeneratedAt: now,
		Summary:     expiry.Summarize(infos),
		Items:       expiry.RankByUrgency(infos, filter),
	}, nil
}

// Summary aggregates the registry without listing items.
func (s *Service) Summary(ctx context.Context) (models.ExpirySummary, error) {
	infos, err := s.infos(ctx, s.now())
	if err != nil {
		return models.ExpirySummary{}, err
	}
	return expiry.Summarize(infos), nil
}

// AreaPlan groups the products that need an intervention (any status but ok)
// into areas for route planning.
func (s *Service) AreaPlan(ctx context.Context, opts ...expiry.GroupOption) ([]models.AreaGroup, error) {
	infos, err := s.infos(ctx, s.now())
	if err != nil {
		return nil, err
	}

	actionable := make([]models.ExpiryInfo, 0, len(infos))
	for _, info := range infos {
		if info.AlertStatus != models.AlertOK {
			actionable = append(actionable, info)
		}
	}
	return expiry.GroupByArea(actionable, opts...), nil
}

// Digest builds one notification per product that is not ok, most urgent
// first. An empty kind picks the template matching each product's status.
func (s *Service) Digest(ctx context.Context, kind models.NotificationKind) (models.Digest, error) {
	now := s.now()
	infos, err := s.infos(ctx, now)
	if err != nil {
		return models.Digest{}, err
	}

	digest := models.Digest{
		ID:          uuid.NewString(),
		Kind:        kind,
		GeneratedAt: now,
		Summary:     expiry.Summarize(infos),
		Messages:    []models.DigestMessage{},
	}

	for _, info := range expiry.RankByUrgency(infos, "") {
		if info.AlertStatus == models.AlertOK {
			continue
		}
		k := kind
		if k == "" {
			k = expiry.NotificationKindFor(info.AlertStatus)
		}
		digest.Messages = append(digest.Messages, models.DigestMessage{
			ProductID:   info.ProductID,
			AlertStatus: info.AlertStatus,
			Text:        s.engine.FormatNotification(info, k),
		})
	}

	s.logger.Info("expiry digest built",
		zap.String("digest_id", digest.ID),
		zap.Int("products", digest.Summary.Total),
		zap.Int("messages", len(digest.Messages)))
	return digest, nil
}

func (s *Service) infos(ctx context.Context, now time.Time) ([]models.ExpiryInfo, error) {
	records, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return s.engine.Infos(records, now), nil
}
