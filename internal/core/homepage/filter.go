// Package homepage выбирает объекты для витрины главной страницы:
// фильтрация, ранжирование по режиму отображения и обрезка до лимита.
package homepage

import "showcase-service/internal/core/domain"

// Filter оставляет объекты, проходящие фильтры настроек.
// Условия onlyActive и types объединяются через И. Вход не изменяется.
func Filter(properties []domain.Property, settings domain.HomepageSettings) []domain.Property {
	var allowed map[string]struct{}
	if len(settings.Filters.Types) > 0 {
		allowed = make(map[string]struct{}, len(settings.Filters.Types))
		for _, t := range settings.Filters.Types {
			allowed[t] = struct{}{}
		}
	}

	out := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if settings.Filters.OnlyActive && p.Status != domain.StatusActive {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[p.Type]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
