package scheduling

import "time"

// DateLayout is the calendar-date layout used throughout forecast handling.
// ISO dates compare correctly as strings, which the shift planner relies on.
const DateLayout = "2006-01-02"

// ForecastDay is one day of a daily precipitation forecast.
type ForecastDay struct {
	Date       string `json:"date"`        // calendar date, DateLayout
	PrecipProb int    `json:"precip_prob"` // precipitation probability percent, 0-100
	TempMax    *float64
	TempMin    *float64
	Code       *int // WMO weather code
}

// Forecast is an ordered sequence of forecast days, ascending by date.
type Forecast []ForecastDay

// LocalDate converts an instant to the calendar date of the timezone
// described by utcOffsetSeconds (local = UTC + offset). A zero offset
// yields the UTC calendar date.
func LocalDate(t time.Time, utcOffsetSeconds int) string {
	return t.UTC().Add(time.Duration(utcOffsetSeconds) * time.Second).Format(DateLayout)
}
