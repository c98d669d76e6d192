package constants

// Обменник событий витрины
const (
	ShowcaseEventsExchange     = "showcase_events"
	ShowcaseEventsExchangeType = "topic"
)

// Имена очередей
const (
	QueuePropertyViews = "showcase_property_views"
)

// Ключи маршрутизации
const (
	RoutingKeyPropertyViewed          = "property.viewed"
	RoutingKeyHomepageSettingsUpdated = "homepage_settings.updated"
)

const (
	FinalDLXExchange   = "showcase_property_views_final_dlx"
	FinalDLQ           = "showcase_property_views_final_dlq"
	FinalDLQRoutingKey = "views.dlq.key"
)

// Тип и версия событий совпадают с JSON-схемами в internal/contracts
const (
	EventPropertyViewed          = "PropertyViewedEvent"
	EventHomepageSettingsUpdated = "HomepageSettingsUpdatedEvent"
	EventVersion                 = "1.0.0"
)
