package port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type GeocoderPort interface {
	Search(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error)
	// Reverse возвращает (nil, nil), если по координатам ничего не найдено
	Reverse(ctx context.Context, coords domain.Coordinates) (*domain.GeocodeResult, error)
}
