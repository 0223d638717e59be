// Package repository selects the record source configured by RECORD_SOURCE.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/config"
	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/repository/api"
	"github.com/mamadbah2/signcare/internal/repository/mongodb"
	"github.com/mamadbah2/signcare/internal/repository/sheets"
)

// ErrUnknownSource is returned for a RECORD_SOURCE that has no adapter.
var ErrUnknownSource = errors.New("unknown record source")

// Source lists products and scheduled maintenances. Every adapter is read-only.
type Source interface {
	ListProducts(ctx context.Context) ([]models.ExpiryRecord, error)
	ListMaintenances(ctx context.Context, from, to models.Date) ([]models.ScheduledMaintenance, error)
}

// CloseFunc releases the resources held by a Source.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// Open builds the Source named by cfg.Source.Kind.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Source, CloseFunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Source.Kind {
	case config.SourceAPI:
		return api.NewClient(cfg.API, logger.Named("repo.api")), noopClose, nil

	case config.SourceSheets:
		reader, err := sheets.NewGoogleSheetReader(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sheets source: %w", err)
		}
		return sheets.NewRegistry(reader, cfg.Sheets, logger.Named("repo.sheets")), noopClose, nil

	case config.SourceMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named("repo.mongodb"))
		if err != nil {
			return nil, nil, fmt.Errorf("open mongodb source: %w", err)
		}
		return repo, repo.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source.Kind)
	}
}
