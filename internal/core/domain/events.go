package domain

import "time"

// HomepageSettingsUpdated публикуется после успешного сохранения настроек витрины
type HomepageSettingsUpdated struct {
	Version     int64       `json:"version"`
	DisplayMode DisplayMode `json:"display_mode"`
	UpdatedBy   string      `json:"updated_by"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
