package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"strconv"
	"time"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimClient - геокодер OpenStreetMap.
// Политика Nominatim требует осмысленный User-Agent.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	language   string
	httpClient *http.Client
}

func NewNominatimClient(baseURL, userAgent string) (*NominatimClient, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("nominatim requires a User-Agent")
	}
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		language:   "ru",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *NominatimClient) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read nominatim response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nominatim returned non-success status code %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Search ищет адреса в Испании
func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{"component": "NominatimClient", "method": "Search"})

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")
	params.Set("countrycodes", "es")
	params.Set("accept-language", c.language)

	body, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		clientLogger.Error("Search request failed", err, nil)
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		clientLogger.Error("Failed to decode search response", err, nil)
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	results := make([]domain.GeocodeResult, 0, len(places))
	for _, p := range places {
		if r, ok := p.toDomain(); ok {
			results = append(results, r)
		}
	}
	clientLogger.Debug("Search finished", port.Fields{"count": len(results)})
	return results, nil
}

// Reverse возвращает (nil, nil), если Nominatim не нашел адрес
func (c *NominatimClient) Reverse(ctx context.Context, coords domain.Coordinates) (*domain.GeocodeResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{"component": "NominatimClient", "method": "Reverse"})

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lng, 'f', -1, 64))
	params.Set("addressdetails", "1")
	params.Set("accept-language", c.language)

	body, err := c.doRequest(ctx, "/reverse", params)
	if err != nil {
		clientLogger.Error("Reverse request failed", err, nil)
		return nil, err
	}

	var place nominatimPlace
	if err := json.Unmarshal(body, &place); err != nil {
		clientLogger.Error("Failed to decode reverse response", err, nil)
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if place.Error != "" {
		clientLogger.Debug("Nothing found at coordinates", port.Fields{"reason": place.Error})
		return nil, nil
	}
	result, ok := place.toDomain()
	if !ok {
		return nil, nil
	}
	return &result, nil
}
