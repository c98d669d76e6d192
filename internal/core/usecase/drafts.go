package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type CreateDraftUseCase struct {
	drafts port.DraftRepositoryPort
	clock  func() time.Time
}

func NewCreateDraftUseCase(drafts port.DraftRepositoryPort) *CreateDraftUseCase {
	return &CreateDraftUseCase{drafts: drafts, clock: time.Now}
}

func (uc *CreateDraftUseCase) Execute(ctx context.Context, session *domain.Session) (*domain.PropertyDraft, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "CreateDraft"})
	logger.Info("Use case started", nil)

	draft := domain.NewPropertyDraft(uuid.New().String(), session.Identity(), uc.clock().UTC())
	if err := uc.drafts.Create(ctx, draft); err != nil {
		logger.Error("Failed to create draft", err, nil)
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	logger.Info("Use case finished", port.Fields{"draft_id": draft.ID})
	return draft, nil
}

type GetDraftUseCase struct {
	drafts port.DraftRepositoryPort
}

func NewGetDraftUseCase(drafts port.DraftRepositoryPort) *GetDraftUseCase {
	return &GetDraftUseCase{drafts: drafts}
}

func (uc *GetDraftUseCase) Execute(ctx context.Context, id string) (*domain.PropertyDraft, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetDraft", "draft_id": id})
	logger.Info("Use case started", nil)

	draft, err := uc.drafts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			logger.Warn("Draft not found", nil)
			return nil, err
		}
		logger.Error("Failed to load draft", err, nil)
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return draft, nil
}

type SaveDraftStepUseCase struct {
	drafts    port.DraftRepositoryPort
	validator port.StepPayloadValidatorPort
	clock     func() time.Time
}

func NewSaveDraftStepUseCase(drafts port.DraftRepositoryPort, validator port.StepPayloadValidatorPort) *SaveDraftStepUseCase {
	return &SaveDraftStepUseCase{drafts: drafts, validator: validator, clock: time.Now}
}

// Execute сохраняет данные шага. Шаг засчитывается и мастер переходит дальше,
// только если прошли и схема, и доменные правила.
func (uc *SaveDraftStepUseCase) Execute(ctx context.Context, draftID string, step domain.FormStep, payload json.RawMessage) (*domain.PropertyDraft, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "SaveDraftStep", "draft_id": draftID, "step": step})
	ucLogger.Info("Use case started", nil)

	draft, err := uc.drafts.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			ucLogger.Warn("Draft not found", nil)
			return nil, err
		}
		ucLogger.Error("Failed to load draft", err, nil)
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	schemaErr := uc.validator.ValidateStep(step, payload)

	stepErr, decodeErr := applyStep(draft, step, payload)
	if decodeErr != nil {
		// данные нельзя разложить по полям черновика, сохранять нечего
		ucLogger.Warn("Step payload could not be decoded", port.Fields{"error": decodeErr.Error()})
		if schemaErr != nil {
			return draft, schemaErr
		}
		return draft, &domain.ValidationError{Step: step, Fields: map[string]string{"": "malformed payload"}}
	}

	validationErr := mergeValidation(step, schemaErr, stepErr)
	if validationErr != nil {
		draft.MarkStepIncomplete(step)
		draft.CurrentStep = step
	} else {
		draft.CurrentStep = step.Next()
	}
	draft.UpdatedAt = uc.clock().UTC()

	if err := uc.drafts.Update(ctx, draft); err != nil {
		ucLogger.Error("Failed to persist draft", err, nil)
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	if validationErr != nil {
		ucLogger.Info("Use case finished: step stored with validation errors", port.Fields{"error": validationErr.Error()})
		return draft, validationErr
	}
	ucLogger.Info("Use case finished: step completed", port.Fields{"next_step": draft.CurrentStep})
	return draft, nil
}

// applyStep раскладывает JSON шага в черновик через типизированный сеттер
func applyStep(draft *domain.PropertyDraft, step domain.FormStep, payload json.RawMessage) (stepErr error, decodeErr error) {
	switch step {
	case domain.StepBasicInfo:
		var v domain.BasicInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return draft.SetBasicInfo(v), nil
	case domain.StepLocation:
		var v domain.Location
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return draft.SetLocation(v), nil
	case domain.StepFeatures:
		var v domain.Features
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return draft.SetFeatures(v), nil
	case domain.StepImages:
		var v domain.Media
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return draft.SetImages(v), nil
	case domain.StepHomepageDisplay:
		var v domain.HomepageDisplay
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return draft.SetHomepageDisplay(v), nil
	case domain.StepSEO:
		var v domain.SEOInfo
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return draft.SetSEO(v), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStep, step)
}

// mergeValidation объединяет ошибки схемы и доменных правил в одну
func mergeValidation(step domain.FormStep, errs ...error) error {
	merged := &domain.ValidationError{Step: step}
	for _, err := range errs {
		if err == nil {
			continue
		}
		vErr, ok := domain.AsValidationError(err)
		if !ok {
			merged.Add("", err.Error())
			continue
		}
		for field, msg := range vErr.Fields {
			merged.Add(field, msg)
		}
	}
	return merged.OrNil()
}

type StartEditSessionUseCase struct {
	properties port.PropertyRepositoryPort
	drafts     port.DraftRepositoryPort
	clock      func() time.Time
}

func NewStartEditSessionUseCase(properties port.PropertyRepositoryPort, drafts port.DraftRepositoryPort) *StartEditSessionUseCase {
	return &StartEditSessionUseCase{properties: properties, drafts: drafts, clock: time.Now}
}

func (uc *StartEditSessionUseCase) Execute(ctx context.Context, session *domain.Session, propertyID string) (*domain.PropertyDraft, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "StartEditSession", "property_id": propertyID})
	logger.Info("Use case started", nil)

	property, err := uc.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			logger.Warn("Property to edit not found", nil)
			return nil, err
		}
		logger.Error("Failed to load property", err, nil)
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	draft := domain.NewDraftFromProperty(uuid.New().String(), session.Identity(), *property, uc.clock().UTC())
	if err := uc.drafts.Create(ctx, draft); err != nil {
		logger.Error("Failed to create edit draft", err, nil)
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	logger.Info("Use case finished", port.Fields{"draft_id": draft.ID})
	return draft, nil
}

type PublishDraftUseCase struct {
	drafts     port.DraftRepositoryPort
	properties port.PropertyRepositoryPort
	cache      port.HomepageCachePort
	clock      func() time.Time
}

func NewPublishDraftUseCase(drafts port.DraftRepositoryPort, properties port.PropertyRepositoryPort, cache port.HomepageCachePort) *PublishDraftUseCase {
	return &PublishDraftUseCase{drafts: drafts, properties: properties, cache: cache, clock: time.Now}
}

func (uc *PublishDraftUseCase) Execute(ctx context.Context, draftID string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "PublishDraft", "draft_id": draftID})
	ucLogger.Info("Use case started", nil)

	draft, err := uc.drafts.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			ucLogger.Warn("Draft not found", nil)
			return nil, err
		}
		ucLogger.Error("Failed to load draft", err, nil)
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	if err := draft.Validate(); err != nil {
		ucLogger.Warn("Draft is not ready to publish", port.Fields{"error": err.Error()})
		return nil, err
	}

	now := uc.clock().UTC()
	var property domain.Property

	if draft.SourcePropertyID != "" {
		existing, err := uc.properties.GetByID(ctx, draft.SourcePropertyID)
		if err != nil {
			if errors.Is(err, domain.ErrPropertyNotFound) {
				// объект удалили, пока шло редактирование: сессия больше не нужна
				ucLogger.Warn("Edited property no longer exists, discarding edit session", port.Fields{"property_id": draft.SourcePropertyID})
				uc.discardDraft(ctx, draft.ID, ucLogger)
				return nil, err
			}
			ucLogger.Error("Failed to load edited property", err, nil)
			return nil, fmt.Errorf("failed to load property: %w", err)
		}

		property = draft.ToProperty(existing.ID, now)
		property.CreatedAt = existing.CreatedAt
		property.ViewsStats = existing.ViewsStats
		if err := uc.properties.Replace(ctx, property); err != nil {
			if errors.Is(err, domain.ErrPropertyNotFound) {
				uc.discardDraft(ctx, draft.ID, ucLogger)
				return nil, err
			}
			ucLogger.Error("Failed to replace property", err, nil)
			return nil, fmt.Errorf("failed to save property: %w", err)
		}
	} else {
		property = draft.ToProperty(uuid.New().String(), now)
		if err := uc.properties.Create(ctx, property); err != nil {
			ucLogger.Error("Failed to create property", err, nil)
			return nil, fmt.Errorf("failed to save property: %w", err)
		}
	}

	uc.discardDraft(ctx, draft.ID, ucLogger)
	invalidateHomepage(ctx, uc.cache, ucLogger)

	ucLogger.Info("Use case finished", port.Fields{"property_id": property.ID})
	return &property, nil
}

func (uc *PublishDraftUseCase) discardDraft(ctx context.Context, id string, logger port.LoggerPort) {
	if err := uc.drafts.Delete(ctx, id); err != nil {
		logger.Warn("Failed to delete draft", port.Fields{"error": err.Error()})
	}
}
