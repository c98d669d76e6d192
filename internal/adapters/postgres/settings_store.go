package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsDocument - JSON-представление настроек в колонке document
type settingsDocument struct {
	DisplayMode         domain.DisplayMode      `json:"displayMode"`
	NumberOfProperties  int                     `json:"numberOfProperties"`
	ManuallySelectedIDs []string                `json:"manuallySelectedIds"`
	PopularityPeriod    domain.PopularityPeriod `json:"popularityPeriod"`
	Filters             domain.HomepageFilters  `json:"filters"`
}

// SettingsStore хранит настройки витрины в единственной строке (id = 1)
type SettingsStore struct {
	pool *pgxpool.Pool
}

func NewSettingsStore(pool *pgxpool.Pool) (*SettingsStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &SettingsStore{pool: pool}, nil
}

func (s *SettingsStore) Get(ctx context.Context) (*domain.HomepageSettings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{"component": "SettingsStore", "method": "Get"})

	var (
		doc      settingsDocument
		settings domain.HomepageSettings
	)
	err := s.pool.QueryRow(ctx,
		`SELECT document, version, last_updated, last_updated_by FROM homepage_settings WHERE id = 1`,
	).Scan(&doc, &settings.Version, &settings.LastUpdated, &settings.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Homepage settings were never saved", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to load homepage settings", err, nil)
		return nil, fmt.Errorf("failed to load homepage settings: %w", err)
	}

	settings.DisplayMode = doc.DisplayMode
	settings.NumberOfProperties = doc.NumberOfProperties
	settings.ManuallySelectedIDs = doc.ManuallySelectedIDs
	settings.PopularityPeriod = doc.PopularityPeriod
	settings.Filters = doc.Filters
	if settings.ManuallySelectedIDs == nil {
		settings.ManuallySelectedIDs = []string{}
	}
	return &settings, nil
}

// Save перезаписывает настройки целиком. С expectedVersion запись проходит,
// только если версия в базе не изменилась (0 - настроек еще нет).
func (s *SettingsStore) Save(ctx context.Context, settings domain.HomepageSettings, expectedVersion *int64) (*domain.HomepageSettings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{"component": "SettingsStore", "method": "Save"})

	doc := settingsDocument{
		DisplayMode:         settings.DisplayMode,
		NumberOfProperties:  settings.NumberOfProperties,
		ManuallySelectedIDs: settings.ManuallySelectedIDs,
		PopularityPeriod:    settings.PopularityPeriod,
		Filters:             settings.Filters,
	}
	args := []interface{}{doc, settings.LastUpdated, settings.LastUpdatedBy}

	var query string
	switch {
	case expectedVersion == nil:
		query = `INSERT INTO homepage_settings (id, document, version, last_updated, last_updated_by)
			VALUES (1, $1, 1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document,
				version = homepage_settings.version + 1,
				last_updated = EXCLUDED.last_updated,
				last_updated_by = EXCLUDED.last_updated_by
			RETURNING version`
	case *expectedVersion == 0:
		query = `INSERT INTO homepage_settings (id, document, version, last_updated, last_updated_by)
			VALUES (1, $1, 1, $2, $3)
			ON CONFLICT (id) DO NOTHING
			RETURNING version`
	default:
		query = `UPDATE homepage_settings
			SET document = $1, version = version + 1, last_updated = $2, last_updated_by = $3
			WHERE id = 1 AND version = $4
			RETURNING version`
		args = append(args, *expectedVersion)
	}

	var version int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) && expectedVersion != nil {
			repoLogger.Warn("Homepage settings version mismatch", port.Fields{"expected_version": *expectedVersion})
			return nil, domain.ErrSettingsConflict
		}
		repoLogger.Error("Failed to save homepage settings", err, nil)
		return nil, fmt.Errorf("failed to save homepage settings: %w", err)
	}

	settings.Version = version
	return &settings, nil
}
