package usecase

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"strings"
	"unicode/utf8"
)

const (
	geocodeMinQueryLength = 3
	geocodeResultLimit    = 5
)

type GeocodeAddressUseCase struct {
	geocoder port.GeocoderPort
}

func NewGeocodeAddressUseCase(geocoder port.GeocoderPort) *GeocodeAddressUseCase {
	return &GeocodeAddressUseCase{geocoder: geocoder}
}

func (uc *GeocodeAddressUseCase) Execute(ctx context.Context, query string) ([]domain.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GeocodeAddress", "query": query})
	logger.Info("Use case started", nil)

	// короткий запрос - еще печатают
	if utf8.RuneCountInString(query) < geocodeMinQueryLength {
		return []domain.GeocodeResult{}, nil
	}

	results, err := uc.geocoder.Search(ctx, query, geocodeResultLimit)
	if err != nil {
		logger.Error("Geocoder search failed", err, nil)
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	logger.Info("Use case finished", port.Fields{"count": len(results)})
	return results, nil
}

type ReverseGeocodeUseCase struct {
	geocoder port.GeocoderPort
}

func NewReverseGeocodeUseCase(geocoder port.GeocoderPort) *ReverseGeocodeUseCase {
	return &ReverseGeocodeUseCase{geocoder: geocoder}
}

func (uc *ReverseGeocodeUseCase) Execute(ctx context.Context, coords domain.Coordinates) (*domain.GeocodeResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ReverseGeocode", "lat": coords.Lat, "lng": coords.Lng})
	logger.Info("Use case started", nil)

	vErr := &domain.ValidationError{}
	if coords.Lat < -90 || coords.Lat > 90 {
		vErr.Add("lat", "must be between -90 and 90")
	}
	if coords.Lng < -180 || coords.Lng > 180 {
		vErr.Add("lng", "must be between -180 and 180")
	}
	if err := vErr.OrNil(); err != nil {
		return nil, err
	}

	result, err := uc.geocoder.Reverse(ctx, coords)
	if err != nil {
		logger.Error("Reverse geocoding failed", err, nil)
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	if result == nil {
		// точка в море или вне покрытия: отдаем только координаты
		result = &domain.GeocodeResult{Coordinates: coords}
	}
	if result.Address.City == "" || result.Address.Region == "" {
		if city, region, ok := domain.InferCityRegion(result.DisplayName); ok {
			if result.Address.City == "" {
				result.Address.City = city
			}
			if result.Address.Region == "" {
				result.Address.Region = region
			}
		}
	}

	logger.Info("Use case finished", nil)
	return result, nil
}
