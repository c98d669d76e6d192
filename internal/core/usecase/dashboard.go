package usecase

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"time"
)

const newListingsWindow = 30 * 24 * time.Hour

type GetDashboardStatsUseCase struct {
	stats port.DashboardStatsPort
	clock func() time.Time
}

func NewGetDashboardStatsUseCase(stats port.DashboardStatsPort) *GetDashboardStatsUseCase {
	return &GetDashboardStatsUseCase{stats: stats, clock: time.Now}
}

func (uc *GetDashboardStatsUseCase) Execute(ctx context.Context) (*domain.DashboardStats, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetDashboardStats"})
	logger.Info("Use case started", nil)

	stats, err := uc.stats.GetDashboardStats(ctx, uc.clock().UTC().Add(-newListingsWindow))
	if err != nil {
		logger.Error("Failed to collect dashboard stats", err, nil)
		return nil, fmt.Errorf("failed to collect dashboard stats: %w", err)
	}
	if stats.PropertiesByStatus == nil {
		stats.PropertiesByStatus = map[domain.PropertyStatus]int{}
	}

	logger.Info("Use case finished", nil)
	return stats, nil
}
