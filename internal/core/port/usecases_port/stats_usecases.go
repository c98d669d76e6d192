package usecases_port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type GetDashboardStatsUseCasePort interface {
	Execute(ctx context.Context) (*domain.DashboardStats, error)
}

type RecordPropertyViewUseCasePort interface {
	Execute(ctx context.Context, view domain.PropertyView) error
}

type RollupViewsUseCasePort interface {
	Execute(ctx context.Context) error
}
