package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/config"
	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/metrics"
)

const digestTimeout = 2 * time.Minute

// DigestBuilder produces the expiry digest.
type DigestBuilder interface {
	Digest(ctx context.Context, kind models.NotificationKind) (models.Digest, error)
}

// Scheduler runs the daily expiry digest and keeps the latest result.
type Scheduler struct {
	cron     *cron.Cron
	digests  DigestBuilder
	schedule string
	logger   *zap.Logger

	mu     sync.RWMutex
	latest *models.Digest
}

// NewScheduler creates a scheduler firing on cfg.CronSchedule in cfg.Timezone.
func NewScheduler(cfg config.ExpiryConfig, digests DigestBuilder, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// Standard 5-field parser: min, hour, dom, month, dow.
	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:     c,
		digests:  digests,
		schedule: cfg.CronSchedule,
		logger:   logger,
	}, nil
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDigest); err != nil {
		return fmt.Errorf("schedule expiry digest %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce builds a digest now, publishes the gauges and stores it as latest.
func (s *Scheduler) RunOnce(ctx context.Context) (models.Digest, error) {
	digest, err := s.digests.Digest(ctx, "")
	metrics.RecordDigestRun(err)
	if err != nil {
		return models.Digest{}, err
	}

	metrics.SetProductCounts(digest.Summary)

	s.mu.Lock()
	s.latest = &digest
	s.mu.Unlock()

	return digest, nil
}

// Latest returns the last digest built, if any.
func (s *Scheduler) Latest() (models.Digest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return models.Digest{}, false
	}
	return *s.latest, true
}

func (s *Scheduler) runDigest() {
	s.logger.Info("generating expiry digest")
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	digest, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("failed to generate expiry digest", zap.Error(err))
		return
	}

	for _, msg := range digest.Messages {
		s.logger.Info("expiry notification",
			zap.String("digest_id", digest.ID),
			zap.String("product_id", msg.ProductID),
			zap.String("alert_status", string(msg.AlertStatus)),
			zap.String("text", msg.Text))
	}
	s.logger.Info("expiry digest completed",
		zap.String("digest_id", digest.ID),
		zap.Int("expired", digest.Summary.ExpiredCount),
		zap.Int("critical", digest.Summary.CriticalCount))
}
