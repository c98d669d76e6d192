package rabbitmq

import "time"

// PropertyViewedEventDTO - тело события property.viewed
type PropertyViewedEventDTO struct {
	PropertyID string    `json:"property_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}

// HomepageSettingsUpdatedEventDTO - тело события homepage_settings.updated
type HomepageSettingsUpdatedEventDTO struct {
	Version     int64     `json:"version"`
	DisplayMode string    `json:"display_mode"`
	UpdatedBy   string    `json:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}
