package port

import (
	"context"
	"showcase-service/internal/core/domain"
)

// ViewRecorderPort принимает событие просмотра (очередь или прямая запись)
type ViewRecorderPort interface {
	RecordView(ctx context.Context, view domain.PropertyView) error
}

type SettingsEventPublisherPort interface {
	PublishSettingsUpdated(ctx context.Context, event domain.HomepageSettingsUpdated) error
}

// EventListenerPort - входящий адаптер, работающий до отмены контекста
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}

// StepPayloadValidatorPort проверяет JSON шага формы по схеме.
// Ошибки возвращаются как *domain.ValidationError.
type StepPayloadValidatorPort interface {
	ValidateStep(step domain.FormStep, payload []byte) error
}
