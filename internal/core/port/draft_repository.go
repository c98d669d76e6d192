package port

import (
	"context"
	"showcase-service/internal/core/domain"
)

type DraftRepositoryPort interface {
	Create(ctx context.Context, draft *domain.PropertyDraft) error
	// Get возвращает domain.ErrDraftNotFound, если черновика нет
	Get(ctx context.Context, id string) (*domain.PropertyDraft, error)
	Update(ctx context.Context, draft *domain.PropertyDraft) error
	Delete(ctx context.Context, id string) error
}
