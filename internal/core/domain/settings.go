package domain

import "time"

type DisplayMode string

const (
	DisplayManual     DisplayMode = "manual"
	DisplayMostViewed DisplayMode = "most_viewed"
	DisplayRandom     DisplayMode = "random"
)

type PopularityPeriod string

const (
	PeriodWeek    PopularityPeriod = "week"
	PeriodMonth   PopularityPeriod = "month"
	PeriodAllTime PopularityPeriod = "all_time"
)

type HomepageFilters struct {
	Types      []string `json:"types"`
	OnlyActive bool     `json:"onlyActive"`
}

// HomepageSettings - единственная запись с настройками витрины главной страницы.
// Version растет на каждой записи и используется для обнаружения конфликтов.
type HomepageSettings struct {
	DisplayMode         DisplayMode
	NumberOfProperties  int
	ManuallySelectedIDs []string
	PopularityPeriod    PopularityPeriod
	Filters             HomepageFilters
	LastUpdated         time.Time
	LastUpdatedBy       string
	Version             int64
}

// MaxHomepageProperties - верхняя граница, которую принимает админка
const MaxHomepageProperties = 50

// DefaultHomepageSettings - настройки до первого сохранения
func DefaultHomepageSettings() HomepageSettings {
	return HomepageSettings{
		DisplayMode:         DisplayManual,
		NumberOfProperties:  6,
		ManuallySelectedIDs: []string{},
		PopularityPeriod:    PeriodMonth,
		Filters: HomepageFilters{
			Types:      []string{TypeApartment, TypeHouse, TypeVilla},
			OnlyActive: true,
		},
	}
}

// SelectedIDSet возвращает ручной выбор в виде множества
func (s HomepageSettings) SelectedIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.ManuallySelectedIDs))
	for _, id := range s.ManuallySelectedIDs {
		set[id] = struct{}{}
	}
	return set
}

// Validate проверяет настройки перед сохранением.
// Чтение никогда не валидируется: политика выбора терпима к любым значениям.
func (s HomepageSettings) Validate() error {
	vErr := &ValidationError{}

	switch s.DisplayMode {
	case DisplayManual, DisplayMostViewed, DisplayRandom:
	default:
		vErr.Add("displayMode", "must be one of manual, most_viewed, random")
	}

	if s.NumberOfProperties <= 0 {
		vErr.Add("numberOfProperties", "must be greater than zero")
	} else if s.NumberOfProperties > MaxHomepageProperties {
		vErr.Add("numberOfProperties", "must not exceed 50")
	}

	if s.DisplayMode == DisplayMostViewed {
		switch s.PopularityPeriod {
		case PeriodWeek, PeriodMonth, PeriodAllTime:
		default:
			vErr.Add("popularityPeriod", "must be one of week, month, all_time")
		}
	}

	seen := make(map[string]struct{}, len(s.ManuallySelectedIDs))
	for _, id := range s.ManuallySelectedIDs {
		if id == "" {
			vErr.Add("manuallySelectedIds", "must not contain empty ids")
			break
		}
		if _, dup := seen[id]; dup {
			vErr.Add("manuallySelectedIds", "must not contain duplicates")
			break
		}
		seen[id] = struct{}{}
	}

	for _, t := range s.Filters.Types {
		if t == "" {
			vErr.Add("filters.types", "must not contain empty types")
			break
		}
	}

	return vErr.OrNil()
}
