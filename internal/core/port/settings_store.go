package port

import (
	"context"
	"showcase-service/internal/core/domain"
)

// SettingsStorePort хранит единственную запись настроек витрины
type SettingsStorePort interface {
	// Get возвращает (nil, nil), если настройки еще не сохранялись
	Get(ctx context.Context) (*domain.HomepageSettings, error)
	// Save полностью заменяет запись и увеличивает версию.
	// При expectedVersion != nil и несовпадении версии - domain.ErrSettingsConflict.
	Save(ctx context.Context, settings domain.HomepageSettings, expectedVersion *int64) (*domain.HomepageSettings, error)
}
