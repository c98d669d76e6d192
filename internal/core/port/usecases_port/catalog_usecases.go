package usecases_port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type FindPropertiesUseCasePort interface {
	Execute(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, int, error) // Возвращает страницу и общее количество
}

type GetPropertyDetailsUseCasePort interface {
	Execute(ctx context.Context, id string) (*domain.Property, error)
}

type FindNearbyPropertiesUseCasePort interface {
	Execute(ctx context.Context, query domain.NearbyQuery) ([]domain.PropertyWithDistance, error)
}

type UpdatePropertyStatusUseCasePort interface {
	Execute(ctx context.Context, id string, status domain.PropertyStatus) error
}
