package usecases_port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type GeocodeAddressUseCasePort interface {
	Execute(ctx context.Context, query string) ([]domain.GeocodeResult, error)
}

type ReverseGeocodeUseCasePort interface {
	Execute(ctx context.Context, coords domain.Coordinates) (*domain.GeocodeResult, error)
}
