package scheduling

import (
	"context"

	"github.com/ridgeline/backend/internal/domain/scheduling"
)

// GeoPoint is a resolved postal-code location.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a postal code to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, postalCode string) (GeoPoint, error)
}

// ForecastResult is a daily forecast plus the timezone offset the upstream
// resolved for the coordinates. The offset drives local-date arithmetic.
type ForecastResult struct {
	Days             scheduling.Forecast
	UTCOffsetSeconds int
}

// ForecastSource fetches a daily forecast for a location. Implementations are
// fail-soft: upstream trouble yields an empty Days slice, not an error.
type ForecastSource interface {
	DailyForecast(ctx context.Context, point GeoPoint, days int) (ForecastResult, error)
}
