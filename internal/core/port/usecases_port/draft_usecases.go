package usecases_port

import (
	"context"
	"encoding/json"
	"showcase-service/internal/core/domain"
)

type CreateDraftUseCasePort interface {
	Execute(ctx context.Context, session *domain.Session) (*domain.PropertyDraft, error)
}

type GetDraftUseCasePort interface {
	Execute(ctx context.Context, id string) (*domain.PropertyDraft, error)
}

type SaveDraftStepUseCasePort interface {
	// При *domain.ValidationError черновик все равно возвращается: введенные данные сохранены
	Execute(ctx context.Context, draftID string, step domain.FormStep, payload json.RawMessage) (*domain.PropertyDraft, error)
}

type StartEditSessionUseCasePort interface {
	Execute(ctx context.Context, session *domain.Session, propertyID string) (*domain.PropertyDraft, error)
}

type PublishDraftUseCasePort interface {
	Execute(ctx context.Context, draftID string) (*domain.Property, error)
}
