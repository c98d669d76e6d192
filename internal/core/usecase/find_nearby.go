package usecase

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"sort"

	"github.com/mmcloughlin/geohash"
	"github.com/umahmood/haversine"
)

const (
	defaultNearbyRadiusKm = 5.0
	maxNearbyRadiusKm     = 50.0
	defaultNearbyLimit    = 20
	// из SQL берем с запасом: часть кандидатов отсеется по точному расстоянию
	nearbyCandidateFactor = 5
)

// минимальная сторона ячейки geohash по длине хэша, км
var geohashCellKm = []float64{0, 5000, 625, 156, 19.5, 4.89, 0.61, 0.153}

type FindNearbyPropertiesUseCase struct {
	properties port.PropertyRepositoryPort
}

func NewFindNearbyPropertiesUseCase(properties port.PropertyRepositoryPort) *FindNearbyPropertiesUseCase {
	return &FindNearbyPropertiesUseCase{properties: properties}
}

func (uc *FindNearbyPropertiesUseCase) Execute(ctx context.Context, query domain.NearbyQuery) ([]domain.PropertyWithDistance, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "FindNearbyProperties",
		"lat":      query.Center.Lat,
		"lng":      query.Center.Lng,
	})
	logger.Info("Use case started", nil)

	vErr := &domain.ValidationError{}
	if query.Center.Lat < -90 || query.Center.Lat > 90 {
		vErr.Add("lat", "must be between -90 and 90")
	}
	if query.Center.Lng < -180 || query.Center.Lng > 180 {
		vErr.Add("lng", "must be between -180 and 180")
	}
	if query.RadiusKm < 0 || query.RadiusKm > maxNearbyRadiusKm {
		vErr.Add("radius_km", "must be between 0 and 50")
	}
	if err := vErr.OrNil(); err != nil {
		return nil, err
	}
	if query.RadiusKm == 0 {
		query.RadiusKm = defaultNearbyRadiusKm
	}
	if query.Limit <= 0 {
		query.Limit = defaultNearbyLimit
	}

	prefixes := CoveringGeohashes(query.Center, query.RadiusKm)
	candidates, err := uc.properties.FindByGeohashPrefixes(ctx, prefixes, query.Limit*nearbyCandidateFactor)
	if err != nil {
		logger.Error("Repository failed to find properties by geohash", err, port.Fields{"prefixes": prefixes})
		return nil, fmt.Errorf("failed to find nearby properties: %w", err)
	}

	center := haversine.Coord{Lat: query.Center.Lat, Lon: query.Center.Lng}
	out := make([]domain.PropertyWithDistance, 0, len(candidates))
	for _, p := range candidates {
		if p.Status != domain.StatusActive || p.Location.Coordinates.IsZero() {
			continue
		}
		_, km := haversine.Distance(center, haversine.Coord{Lat: p.Location.Coordinates.Lat, Lon: p.Location.Coordinates.Lng})
		if km <= query.RadiusKm {
			out = append(out, domain.PropertyWithDistance{Property: p, DistanceKm: km})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > query.Limit {
		out = out[:query.Limit]
	}

	logger.Info("Use case finished", port.Fields{"candidates": len(candidates), "found": len(out)})
	return out, nil
}

// CoveringGeohashes возвращает ячейку центра и ее соседей такой длины,
// чтобы круг радиуса radiusKm целиком попадал в эти 9 ячеек.
func CoveringGeohashes(center domain.Coordinates, radiusKm float64) []string {
	precision := uint(1)
	for p := len(geohashCellKm) - 1; p >= 1; p-- {
		if geohashCellKm[p] >= radiusKm {
			precision = uint(p)
			break
		}
	}

	hash := geohash.EncodeWithPrecision(center.Lat, center.Lng, precision)
	return append([]string{hash}, geohash.Neighbors(hash)...)
}
