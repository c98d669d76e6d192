package usecase

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"time"
)

type RecordPropertyViewUseCase struct {
	views port.ViewStatsRepositoryPort
	clock func() time.Time
}

func NewRecordPropertyViewUseCase(views port.ViewStatsRepositoryPort) *RecordPropertyViewUseCase {
	return &RecordPropertyViewUseCase{views: views, clock: time.Now}
}

func (uc *RecordPropertyViewUseCase) Execute(ctx context.Context, view domain.PropertyView) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "RecordPropertyView", "property_id": view.PropertyID})
	logger.Debug("Use case started", nil)

	if view.PropertyID == "" {
		return &domain.ValidationError{Fields: map[string]string{"property_id": "is required"}}
	}
	if view.ViewedAt.IsZero() {
		view.ViewedAt = uc.clock()
	}

	// кэш витрины не сбрасывается: порядок most_viewed отстает не дольше HOMEPAGE_CACHE_TTL
	if err := uc.views.IncrementView(ctx, view.PropertyID, view.ViewedAt.UTC()); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			// объект удален, повторять бессмысленно
			logger.Warn("View for unknown property dropped", nil)
			return nil
		}
		logger.Error("Failed to increment views", err, nil)
		return fmt.Errorf("failed to record property view: %w", err)
	}

	logger.Debug("Use case finished", nil)
	return nil
}

// RecordView позволяет писать просмотры напрямую, когда брокер отключен
func (uc *RecordPropertyViewUseCase) RecordView(ctx context.Context, view domain.PropertyView) error {
	return uc.Execute(ctx, view)
}

type RollupViewsUseCase struct {
	views port.ViewStatsRepositoryPort
	cache port.HomepageCachePort
	clock func() time.Time
}

func NewRollupViewsUseCase(views port.ViewStatsRepositoryPort, cache port.HomepageCachePort) *RollupViewsUseCase {
	return &RollupViewsUseCase{views: views, cache: cache, clock: time.Now}
}

func (uc *RollupViewsUseCase) Execute(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "RollupViews"})
	logger.Info("Use case started", nil)

	now := uc.clock().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	updated, err := uc.views.RollupViews(ctx, today)
	if err != nil {
		logger.Error("Failed to roll up views", err, nil)
		return fmt.Errorf("failed to roll up views: %w", err)
	}

	// рейтинг most_viewed мог измениться
	invalidateHomepage(ctx, uc.cache, logger)

	logger.Info("Use case finished", port.Fields{"updated": updated, "day": today.Format("2006-01-02")})
	return nil
}
