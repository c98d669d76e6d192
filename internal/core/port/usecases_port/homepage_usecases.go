package usecases_port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type GetHomepagePropertiesUseCasePort interface {
	Execute(ctx context.Context) ([]domain.Property, error)
}

type GetHomepageSettingsUseCasePort interface {
	Execute(ctx context.Context) (*domain.HomepageSettings, error) // Настройки по умолчанию, если запись еще не создана
}

type SaveHomepageSettingsUseCasePort interface {
	// expectedVersion == nil - последняя запись побеждает
	Execute(ctx context.Context, session *domain.Session, settings domain.HomepageSettings, expectedVersion *int64) (*domain.HomepageSettings, error)
}

type PreviewHomepageUseCasePort interface {
	Execute(ctx context.Context, settings domain.HomepageSettings) ([]domain.Property, error)
}
