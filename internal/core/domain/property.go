package domain

import "time"

// PropertyStatus - жизненный цикл объявления
type PropertyStatus string

const (
	StatusActive   PropertyStatus = "active"
	StatusSold     PropertyStatus = "sold"
	StatusReserved PropertyStatus = "reserved"
	StatusDraft    PropertyStatus = "draft"
)

// IsValid проверяет, что статус входит в допустимый набор
func (s PropertyStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSold, StatusReserved, StatusDraft:
		return true
	}
	return false
}

// Встроенные типы объектов. Тип может быть и произвольной строкой.
const (
	TypeApartment  = "apartment"
	TypeHouse      = "house"
	TypeVilla      = "villa"
	TypeCommercial = "commercial"
	TypeLand       = "land"
)

const CurrencyEUR = "EUR"

// LocalizedText - текст на трех языках сайта
type LocalizedText struct {
	Es string `json:"es"`
	En string `json:"en"`
	Ru string `json:"ru"`
}

// IsEmpty - true, если не заполнен ни один язык
func (t LocalizedText) IsEmpty() bool {
	return t.Es == "" && t.En == "" && t.Ru == ""
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero - координаты не выбраны (0,0 приходит из формы по умолчанию)
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

type Location struct {
	Region      string      `json:"region"`
	City        string      `json:"city"`
	Address     string      `json:"address"`
	PostalCode  string      `json:"postalCode,omitempty"`
	Country     string      `json:"country,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Geohash     string      `json:"geohash,omitempty"`
}

type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

type Features struct {
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	TotalArea      float64  `json:"totalArea"`
	LandArea       *float64 `json:"landArea,omitempty"`
	Floor          *int     `json:"floor,omitempty"`
	TotalFloors    *int     `json:"totalFloors,omitempty"`
	HasPool        bool     `json:"hasPool,omitempty"`
	HasGarage      bool     `json:"hasGarage,omitempty"`
	HasTerrace     bool     `json:"hasTerrace,omitempty"`
	HasGarden      bool     `json:"hasGarden,omitempty"`
	HasParking     bool     `json:"hasParking,omitempty"`
	HasSeaView     bool     `json:"hasSeaView,omitempty"`
	DistanceToSea  *float64 `json:"distanceToSea,omitempty"`
	YearBuilt      *int     `json:"yearBuilt,omitempty"`
	YearRenovated  *int     `json:"yearRenovated,omitempty"`
	EnergyRating   string   `json:"energyRating,omitempty"`
	CustomFeatures []string `json:"customFeatures"`
}

type Image struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	IsMain       bool   `json:"isMain"`
	Order        int    `json:"order"`
}

// HomepageDisplay - подсказки для витрины на главной.
// ShowOnHomepage информативен, решение принимает политика выбора.
type HomepageDisplay struct {
	ShowOnHomepage   bool `json:"showOnHomepage"`
	HomepagePriority int  `json:"homepagePriority"`
}

// ViewsStats - счетчики просмотров; недельный и месячный пересчитываются из дневной истории
type ViewsStats struct {
	TotalViews     int64 `json:"totalViews"`
	LastWeekViews  int64 `json:"lastWeekViews"`
	LastMonthViews int64 `json:"lastMonthViews"`
}

type SEO struct {
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Keywords    LocalizedText `json:"keywords"`
}

// Property - объект недвижимости
type Property struct {
	ID              string
	Title           LocalizedText
	Description     LocalizedText
	Type            string
	Location        Location
	Price           Price
	Status          PropertyStatus
	Features        Features
	Images          []Image
	VirtualTourURL  string
	HomepageDisplay HomepageDisplay
	ViewsStats      ViewsStats
	SEO             SEO
	InternalNotes   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PropertyFilter - параметры поиска по каталогу
type PropertyFilter struct {
	Search   string
	Type     string
	Status   PropertyStatus
	Region   string
	PriceMin *float64
	PriceMax *float64
	Limit    int
	Offset   int
}

// NearbyQuery - поиск объектов в радиусе от точки
type NearbyQuery struct {
	Center   Coordinates
	RadiusKm float64
	Limit    int
}

// PropertyWithDistance - результат поиска поблизости
type PropertyWithDistance struct {
	Property   Property
	DistanceKm float64
}

// PropertyView - событие просмотра карточки объекта
type PropertyView struct {
	PropertyID string    `json:"property_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}
