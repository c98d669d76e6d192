package port

import (
	"context"
	"showcase-service/internal/core/domain"
	"time"
)

// PropertyRepositoryPort - хранилище объектов недвижимости.
// Списки возвращаются в порядке created_at DESC, id ASC.
type PropertyRepositoryPort interface {
	// ListHomepageCandidates возвращает все объекты без фильтра по статусу
	ListHomepageCandidates(ctx context.Context) ([]domain.Property, error)
	Find(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, int, error)
	// GetByID возвращает domain.ErrPropertyNotFound, если объекта нет
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	FindByGeohashPrefixes(ctx context.Context, prefixes []string, limit int) ([]domain.Property, error)

	Create(ctx context.Context, property domain.Property) error
	// Replace перезаписывает редактируемые поля; счетчики просмотров не трогает
	Replace(ctx context.Context, property domain.Property) error
	UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus, updatedAt time.Time) error
}

// ViewStatsRepositoryPort - счетчики просмотров
type ViewStatsRepositoryPort interface {
	// IncrementView увеличивает totalViews и дневной счетчик за день viewedAt
	IncrementView(ctx context.Context, propertyID string, viewedAt time.Time) error
	// RollupViews пересчитывает недельные и месячные счетчики относительно today.
	// Возвращает число обновленных объектов.
	RollupViews(ctx context.Context, today time.Time) (int64, error)
}

// DashboardStatsPort - агрегаты для админки
type DashboardStatsPort interface {
	GetDashboardStats(ctx context.Context, newSince time.Time) (*domain.DashboardStats, error)
}
