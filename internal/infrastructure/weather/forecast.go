package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	appscheduling "github.com/ridgeline/backend/internal/application/scheduling"
	"github.com/ridgeline/backend/internal/domain/scheduling"
	"github.com/ridgeline/backend/internal/infrastructure/config"
)

// OpenMeteoForecastSource fetches daily forecasts from the Open-Meteo API.
//
// It is deliberately fail-soft: any transport, HTTP or decode failure is
// logged and an empty forecast returned, so a flaky upstream degrades the
// rain policy to a no-op instead of failing scheduling requests.
type OpenMeteoForecastSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenMeteoForecastSource creates a new forecast source from weather configuration
func NewOpenMeteoForecastSource(cfg config.WeatherConfig, logger *zap.Logger) *OpenMeteoForecastSource {
	return &OpenMeteoForecastSource{
		baseURL: cfg.ForecastBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.Named("openmeteo"),
	}
}

type openMeteoResponse struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	Daily            struct {
		Time                 []string   `json:"time"`
		PrecipProbabilityMax []*int     `json:"precipitation_probability_max"`
		Temperature2mMax     []*float64 `json:"temperature_2m_max"`
		Temperature2mMin     []*float64 `json:"temperature_2m_min"`
		WeatherCode          []*int     `json:"weather_code"`
	} `json:"daily"`
}

// DailyForecast fetches up to days daily forecast entries for the point.
func (s *OpenMeteoForecastSource) DailyForecast(ctx context.Context, point appscheduling.GeoPoint, days int) (appscheduling.ForecastResult, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(point.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(point.Longitude, 'f', 4, 64))
	query.Set("daily", "precipitation_probability_max,temperature_2m_max,temperature_2m_min,weather_code")
	query.Set("timezone", "auto")
	query.Set("forecast_days", strconv.Itoa(days))

	endpoint := fmt.Sprintf("%s/v1/forecast?%s", s.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return appscheduling.ForecastResult{}, fmt.Errorf("openmeteo: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("forecast fetch failed, continuing without weather data", zap.Error(err))
		return appscheduling.ForecastResult{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("forecast upstream returned non-200, continuing without weather data",
			zap.Int("status", resp.StatusCode))
		return appscheduling.ForecastResult{}, nil
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		s.logger.Warn("forecast response unparseable, continuing without weather data", zap.Error(err))
		return appscheduling.ForecastResult{}, nil
	}

	result := appscheduling.ForecastResult{
		UTCOffsetSeconds: body.UTCOffsetSeconds,
		Days:             make(scheduling.Forecast, 0, len(body.Daily.Time)),
	}
	for i, date := range body.Daily.Time {
		day := scheduling.ForecastDay{Date: date}
		if i < len(body.Daily.PrecipProbabilityMax) && body.Daily.PrecipProbabilityMax[i] != nil {
			day.PrecipProb = *body.Daily.PrecipProbabilityMax[i]
		}
		if i < len(body.Daily.Temperature2mMax) {
			day.TempMax = body.Daily.Temperature2mMax[i]
		}
		if i < len(body.Daily.Temperature2mMin) {
			day.TempMin = body.Daily.Temperature2mMin[i]
		}
		if i < len(body.Daily.WeatherCode) {
			day.Code = body.Daily.WeatherCode[i]
		}
		result.Days = append(result.Days, day)
	}

	return result, nil
}

// Ensure OpenMeteoForecastSource implements the ForecastSource port
var _ appscheduling.ForecastSource = (*OpenMeteoForecastSource)(nil)
