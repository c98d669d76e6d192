package geocoder

import (
	"showcase-service/internal/core/domain"
	"strconv"
)

// nominatimPlace - элемент ответа /search и ответ /reverse
type nominatimPlace struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error,omitempty"`
}

type nominatimAddress struct {
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Province    string `json:"province"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Postcode    string `json:"postcode"`
}

func (p nominatimPlace) toDomain() (domain.GeocodeResult, bool) {
	lat, errLat := strconv.ParseFloat(p.Lat, 64)
	lng, errLng := strconv.ParseFloat(p.Lon, 64)
	if errLat != nil || errLng != nil {
		return domain.GeocodeResult{}, false
	}

	a := p.Address
	street := joinNonEmpty(a.Road, a.HouseNumber)
	region := a.Province
	if region == "" {
		region = a.State
	}

	return domain.GeocodeResult{
		DisplayName: p.DisplayName,
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		Address: domain.AddressDetails{
			Street:     street,
			City:       firstNonEmpty(a.City, a.Town, a.Village),
			Region:     region,
			Country:    a.Country,
			PostalCode: a.Postcode,
		},
	}, true
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
