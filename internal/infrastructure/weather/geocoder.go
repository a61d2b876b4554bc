package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	appscheduling "github.com/ridgeline/backend/internal/application/scheduling"
	"github.com/ridgeline/backend/internal/infrastructure/config"
)

// ZippopotamGeocoder resolves US postal codes to coordinates via the
// zippopotam.us API.
type ZippopotamGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewZippopotamGeocoder creates a new geocoder from weather configuration
func NewZippopotamGeocoder(cfg config.WeatherConfig) *ZippopotamGeocoder {
	return &ZippopotamGeocoder{
		baseURL: cfg.GeocodeBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

type zippopotamResponse struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// Locate resolves a postal code to a coordinate pair. Unlike the forecast
// source this surfaces errors: an unresolvable ZIP means the tenant's
// configuration is wrong and the caller needs to know.
func (g *ZippopotamGeocoder) Locate(ctx context.Context, postalCode string) (appscheduling.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/us/%s", g.baseURL, url.PathEscape(postalCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return appscheduling.GeoPoint{}, fmt.Errorf("zippopotam: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return appscheduling.GeoPoint{}, fmt.Errorf("zippopotam: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return appscheduling.GeoPoint{}, fmt.Errorf("zippopotam: HTTP %d for postal code %s", resp.StatusCode, postalCode)
	}

	var body zippopotamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return appscheduling.GeoPoint{}, fmt.Errorf("zippopotam: failed to parse response: %w", err)
	}
	if len(body.Places) == 0 {
		return appscheduling.GeoPoint{}, fmt.Errorf("zippopotam: no places for postal code %s", postalCode)
	}

	lat, err := strconv.ParseFloat(body.Places[0].Latitude, 64)
	if err != nil {
		return appscheduling.GeoPoint{}, fmt.Errorf("zippopotam: bad latitude %q: %w", body.Places[0].Latitude, err)
	}
	lon, err := strconv.ParseFloat(body.Places[0].Longitude, 64)
	if err != nil {
		return appscheduling.GeoPoint{}, fmt.Errorf("zippopotam: bad longitude %q: %w", body.Places[0].Longitude, err)
	}

	return appscheduling.GeoPoint{Latitude: lat, Longitude: lon}, nil
}

// Ensure ZippopotamGeocoder implements the Geocoder port
var _ appscheduling.Geocoder = (*ZippopotamGeocoder)(nil)
