package port

import (
	"context"
	"showcase-service/internal/core/domain"
)

// HomepageCachePort - кэш собранной витрины.
// Запись привязана к версии настроек: при другой версии Get возвращает промах.
type HomepageCachePort interface {
	Get(ctx context.Context, settingsVersion int64) ([]domain.Property, bool, error)
	Set(ctx context.Context, settingsVersion int64, properties []domain.Property) error
	Invalidate(ctx context.Context) error
}
