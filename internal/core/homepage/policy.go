package homepage

import "showcase-service/internal/core/domain"

// Policy собирает витрину: Filter -> Rank -> (Shuffle) -> обрезка.
type Policy struct {
	// Shuffle перемешивает кандидатов на месте в режиме random.
	// nil - порядок сохраняется.
	Shuffle func([]domain.Property)
}

// Select возвращает не более settings.NumberOfProperties объектов из входа.
// Пустой результат - не ошибка.
func (p Policy) Select(properties []domain.Property, settings domain.HomepageSettings) []domain.Property {
	if settings.NumberOfProperties <= 0 {
		return []domain.Property{}
	}

	ranked := Rank(Filter(properties, settings), settings, settings.SelectedIDSet())

	if p.Shuffle != nil && IsRandom(settings.DisplayMode) {
		p.Shuffle(ranked)
	}

	if len(ranked) > settings.NumberOfProperties {
		ranked = ranked[:settings.NumberOfProperties]
	}
	return ranked
}

// Deterministic - результат Select зависит только от входа
func (p Policy) Deterministic(mode domain.DisplayMode) bool {
	return p.Shuffle == nil || !IsRandom(mode)
}

// IsRandom - режим, который ранжируется как random (включая неизвестные)
func IsRandom(mode domain.DisplayMode) bool {
	return mode != domain.DisplayManual && mode != domain.DisplayMostViewed
}

// Select - политика по умолчанию, без перемешивания
func Select(properties []domain.Property, settings domain.HomepageSettings) []domain.Property {
	return Policy{}.Select(properties, settings)
}
