package usecase

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/homepage"
	"showcase-service/internal/core/port"
	"time"
)

type GetHomepageSettingsUseCase struct {
	settingsStore port.SettingsStorePort
}

func NewGetHomepageSettingsUseCase(settingsStore port.SettingsStorePort) *GetHomepageSettingsUseCase {
	return &GetHomepageSettingsUseCase{settingsStore: settingsStore}
}

func (uc *GetHomepageSettingsUseCase) Execute(ctx context.Context) (*domain.HomepageSettings, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetHomepageSettings"})
	logger.Info("Use case started", nil)

	settings, err := loadSettings(ctx, uc.settingsStore)
	if err != nil {
		logger.Error("Failed to load homepage settings", err, nil)
		return nil, err
	}

	logger.Info("Use case finished", port.Fields{"version": settings.Version})
	return settings, nil
}

type SaveHomepageSettingsUseCase struct {
	settingsStore port.SettingsStorePort
	cache         port.HomepageCachePort
	publisher     port.SettingsEventPublisherPort
	clock         func() time.Time
}

// NewSaveHomepageSettingsUseCase - cache и publisher могут быть nil
func NewSaveHomepageSettingsUseCase(settingsStore port.SettingsStorePort,
	cache port.HomepageCachePort,
	publisher port.SettingsEventPublisherPort) *SaveHomepageSettingsUseCase {
	return &SaveHomepageSettingsUseCase{
		settingsStore: settingsStore,
		cache:         cache,
		publisher:     publisher,
		clock:         time.Now,
	}
}

func (uc *SaveHomepageSettingsUseCase) Execute(ctx context.Context, session *domain.Session, settings domain.HomepageSettings, expectedVersion *int64) (*domain.HomepageSettings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "SaveHomepageSettings"})
	ucLogger.Info("Use case started", nil)

	if !session.IsAdmin() {
		ucLogger.Warn("Rejected: session is not an administrator", nil)
		return nil, domain.ErrForbidden
	}
	ucLogger = ucLogger.WithFields(port.Fields{"admin": session.Identity()})

	if settings.ManuallySelectedIDs == nil {
		settings.ManuallySelectedIDs = []string{}
	}
	if settings.Filters.Types == nil {
		settings.Filters.Types = []string{}
	}
	if err := settings.Validate(); err != nil {
		ucLogger.Warn("Settings validation failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	settings.LastUpdated = uc.clock().UTC()
	settings.LastUpdatedBy = session.Identity()

	saved, err := uc.settingsStore.Save(ctx, settings, expectedVersion)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsConflict) {
			fields := port.Fields{}
			if expectedVersion != nil {
				fields["expected_version"] = *expectedVersion
			}
			ucLogger.Warn("Settings were changed concurrently", fields)
			return nil, err
		}
		ucLogger.Error("Failed to persist homepage settings", err, nil)
		return nil, fmt.Errorf("failed to save homepage settings: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			ucLogger.Warn("Failed to invalidate homepage cache", port.Fields{"error": err.Error()})
		}
	}

	if uc.publisher != nil {
		event := domain.HomepageSettingsUpdated{
			Version:     saved.Version,
			DisplayMode: saved.DisplayMode,
			UpdatedBy:   saved.LastUpdatedBy,
			UpdatedAt:   saved.LastUpdated,
		}
		if err := uc.publisher.PublishSettingsUpdated(ctx, event); err != nil {
			ucLogger.Warn("Failed to publish settings updated event", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished", port.Fields{"version": saved.Version})
	return saved, nil
}

// PreviewHomepageUseCase показывает витрину для несохраненных настроек
type PreviewHomepageUseCase struct {
	properties port.PropertyRepositoryPort
	policy     homepage.Policy
}

func NewPreviewHomepageUseCase(properties port.PropertyRepositoryPort, policy homepage.Policy) *PreviewHomepageUseCase {
	return &PreviewHomepageUseCase{properties: properties, policy: policy}
}

func (uc *PreviewHomepageUseCase) Execute(ctx context.Context, settings domain.HomepageSettings) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":     "PreviewHomepage",
		"display_mode": settings.DisplayMode,
	})
	logger.Info("Use case started", nil)

	candidates, err := uc.properties.ListHomepageCandidates(ctx)
	if err != nil {
		logger.Error("Failed to load homepage candidates", err, nil)
		return nil, fmt.Errorf("failed to load homepage candidates: %w", err)
	}

	selected := uc.policy.Select(candidates, settings)
	logger.Info("Use case finished", port.Fields{"selected": len(selected)})
	return selected, nil
}
