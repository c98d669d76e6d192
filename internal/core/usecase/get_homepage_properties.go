package usecase

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/homepage"
	"showcase-service/internal/core/port"
)

type GetHomepagePropertiesUseCase struct {
	settingsStore port.SettingsStorePort
	properties    port.PropertyRepositoryPort
	cache         port.HomepageCachePort
	policy        homepage.Policy
}

// NewGetHomepagePropertiesUseCase - cache может быть nil
func NewGetHomepagePropertiesUseCase(settingsStore port.SettingsStorePort,
	properties port.PropertyRepositoryPort,
	cache port.HomepageCachePort,
	policy homepage.Policy) *GetHomepagePropertiesUseCase {
	return &GetHomepagePropertiesUseCase{
		settingsStore: settingsStore,
		properties:    properties,
		cache:         cache,
		policy:        policy,
	}
}

func (uc *GetHomepagePropertiesUseCase) Execute(ctx context.Context) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetHomepageProperties"})
	ucLogger.Info("Use case started", nil)

	settings, err := loadSettings(ctx, uc.settingsStore)
	if err != nil {
		ucLogger.Error("Failed to load homepage settings", err, nil)
		return nil, err
	}
	ucLogger = ucLogger.WithFields(port.Fields{
		"display_mode":     settings.DisplayMode,
		"settings_version": settings.Version,
	})

	// перемешанную витрину не кэшируем: она должна меняться при каждой загрузке
	cacheable := uc.cache != nil && uc.policy.Deterministic(settings.DisplayMode)
	if cacheable {
		cached, hit, err := uc.cache.Get(ctx, settings.Version)
		if err != nil {
			ucLogger.Warn("Homepage cache read failed, falling back to storage", port.Fields{"error": err.Error()})
		} else if hit {
			ucLogger.Info("Use case finished: served from cache", port.Fields{"count": len(cached)})
			return cached, nil
		}
	}

	candidates, err := uc.properties.ListHomepageCandidates(ctx)
	if err != nil {
		ucLogger.Error("Failed to load homepage candidates", err, nil)
		return nil, fmt.Errorf("failed to load homepage candidates: %w", err)
	}

	selected := uc.policy.Select(candidates, *settings)

	// Set после чужого Invalidate может вернуть устаревшую выборку, она живет до истечения TTL
	if cacheable {
		if err := uc.cache.Set(ctx, settings.Version, selected); err != nil {
			ucLogger.Warn("Failed to store homepage selection in cache", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished", port.Fields{"candidates": len(candidates), "selected": len(selected)})
	return selected, nil
}

// loadSettings возвращает сохраненные настройки или значения по умолчанию
func loadSettings(ctx context.Context, store port.SettingsStorePort) (*domain.HomepageSettings, error) {
	settings, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load homepage settings: %w", err)
	}
	if settings == nil {
		defaults := domain.DefaultHomepageSettings()
		return &defaults, nil
	}
	return settings, nil
}
