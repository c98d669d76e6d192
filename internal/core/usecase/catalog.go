package usecase

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"strings"
	"time"
)

const (
	defaultCatalogLimit = 12
	maxCatalogLimit     = 100
)

type FindPropertiesUseCase struct {
	properties port.PropertyRepositoryPort
}

func NewFindPropertiesUseCase(properties port.PropertyRepositoryPort) *FindPropertiesUseCase {
	return &FindPropertiesUseCase{properties: properties}
}

func (uc *FindPropertiesUseCase) Execute(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, int, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "FindProperties"})
	logger.Info("Use case started", nil)

	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit <= 0 {
		filter.Limit = defaultCatalogLimit
	}
	if filter.Limit > maxCatalogLimit {
		filter.Limit = maxCatalogLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, &domain.ValidationError{Fields: map[string]string{"status": "must be one of active, sold, reserved, draft"}}
	}
	if filter.Status == domain.StatusDraft {
		return nil, 0, &domain.ValidationError{Fields: map[string]string{"status": "drafts are not listed"}}
	}
	if filter.PriceMin != nil && filter.PriceMax != nil && *filter.PriceMin > *filter.PriceMax {
		return nil, 0, &domain.ValidationError{Fields: map[string]string{"price_min": "must not exceed price_max"}}
	}

	properties, total, err := uc.properties.Find(ctx, filter)
	if err != nil {
		logger.Error("Repository failed to find properties", err, nil)
		return nil, 0, fmt.Errorf("failed to find properties: %w", err)
	}

	logger.Info("Use case finished", port.Fields{"count": len(properties), "total": total})
	return properties, total, nil
}

type GetPropertyDetailsUseCase struct {
	properties   port.PropertyRepositoryPort
	viewRecorder port.ViewRecorderPort
	clock        func() time.Time
}

// NewGetPropertyDetailsUseCase - viewRecorder может быть nil
func NewGetPropertyDetailsUseCase(properties port.PropertyRepositoryPort, viewRecorder port.ViewRecorderPort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{properties: properties, viewRecorder: viewRecorder, clock: time.Now}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, id string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetPropertyDetails", "property_id": id})
	ucLogger.Info("Use case started", nil)

	property, err := uc.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Warn("Property not found", nil)
			return nil, err
		}
		ucLogger.Error("Repository failed to get property", err, nil)
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	// черновики не показываются посетителям
	if property.Status == domain.StatusDraft {
		ucLogger.Warn("Property is a draft, hiding from public", nil)
		return nil, domain.ErrPropertyNotFound
	}

	if uc.viewRecorder != nil {
		view := domain.PropertyView{PropertyID: property.ID, ViewedAt: uc.clock().UTC()}
		if err := uc.viewRecorder.RecordView(ctx, view); err != nil {
			ucLogger.Warn("Failed to record property view", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished", nil)
	return property, nil
}

type UpdatePropertyStatusUseCase struct {
	properties port.PropertyRepositoryPort
	cache      port.HomepageCachePort
	clock      func() time.Time
}

func NewUpdatePropertyStatusUseCase(properties port.PropertyRepositoryPort, cache port.HomepageCachePort) *UpdatePropertyStatusUseCase {
	return &UpdatePropertyStatusUseCase{properties: properties, cache: cache, clock: time.Now}
}

func (uc *UpdatePropertyStatusUseCase) Execute(ctx context.Context, id string, status domain.PropertyStatus) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "UpdatePropertyStatus",
		"property_id": id,
		"status":      status,
	})
	logger.Info("Use case started", nil)

	if !status.IsValid() {
		return &domain.ValidationError{Fields: map[string]string{"status": "must be one of active, sold, reserved, draft"}}
	}

	if err := uc.properties.UpdateStatus(ctx, id, status, uc.clock().UTC()); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			logger.Warn("Property not found", nil)
			return err
		}
		logger.Error("Repository failed to update status", err, nil)
		return fmt.Errorf("failed to update property status: %w", err)
	}

	invalidateHomepage(ctx, uc.cache, logger)
	logger.Info("Use case finished", nil)
	return nil
}

// invalidateHomepage сбрасывает кэш витрины; ошибка только логируется
func invalidateHomepage(ctx context.Context, cache port.HomepageCachePort, logger port.LoggerPort) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate homepage cache", port.Fields{"error": err.Error()})
	}
}
