package homepage

import (
	"sort"

	"showcase-service/internal/core/domain"
)

// Rank упорядочивает кандидатов по режиму отображения.
// Сортировка стабильная: при равных ключах сохраняется входной порядок.
// Неизвестный режим ведет себя как random.
func Rank(properties []domain.Property, settings domain.HomepageSettings, selectedIDs map[string]struct{}) []domain.Property {
	switch settings.DisplayMode {
	case domain.DisplayManual:
		return rankManual(properties, selectedIDs)
	case domain.DisplayMostViewed:
		return rankMostViewed(properties, settings.PopularityPeriod)
	default:
		out := make([]domain.Property, len(properties))
		copy(out, properties)
		return out
	}
}

func rankManual(properties []domain.Property, selectedIDs map[string]struct{}) []domain.Property {
	out := make([]domain.Property, 0, len(selectedIDs))
	for _, p := range properties {
		if _, ok := selectedIDs[p.ID]; ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HomepageDisplay.HomepagePriority > out[j].HomepageDisplay.HomepagePriority
	})
	return out
}

func rankMostViewed(properties []domain.Property, period domain.PopularityPeriod) []domain.Property {
	views := viewsFor(period)
	out := make([]domain.Property, len(properties))
	copy(out, properties)
	sort.SliceStable(out, func(i, j int) bool {
		return views(out[i]) > views(out[j])
	})
	return out
}

// viewsFor выбирает счетчик; неизвестный период считается all_time
func viewsFor(period domain.PopularityPeriod) func(domain.Property) int64 {
	switch period {
	case domain.PeriodWeek:
		return func(p domain.Property) int64 { return p.ViewsStats.LastWeekViews }
	case domain.PeriodMonth:
		return func(p domain.Property) int64 { return p.ViewsStats.LastMonthViews }
	default:
		return func(p domain.Property) int64 { return p.ViewsStats.TotalViews }
	}
}
