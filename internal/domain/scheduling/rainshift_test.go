package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(date string, prob int) ForecastDay {
	return ForecastDay{Date: date, PrecipProb: prob}
}

func TestPlanRainShift_NoQualifyingDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		forecast Forecast
	}{
		{"empty forecast", Forecast{}},
		{"all below threshold", Forecast{
			day("2025-06-01", 40),
			day("2025-06-02", 69),
			day("2025-06-03", 0),
		}},
		{"qualifying day in the past", Forecast{
			day("2025-05-30", 90),
			day("2025-05-31", 95),
			day("2025-06-01", 10),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := PlanRainShift(now, tt.forecast, DefaultRainThreshold, 0)
			assert.False(t, ok)
		})
	}
}

func TestPlanRainShift_ThresholdIsInclusive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	forecast := Forecast{day("2025-06-02", 70)}

	plan, ok := PlanRainShift(now, forecast, 70, 0)
	require.True(t, ok, "a day exactly at threshold counts as risky")
	assert.Equal(t, "2025-06-02", plan.FirstRain)
	assert.Equal(t, 1, plan.ShiftDays)
}

func TestPlanRainShift_RunLengthDeterminesShiftDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	forecast := Forecast{
		day("2025-06-01", 10),
		day("2025-06-02", 70),
		day("2025-06-03", 80),
		day("2025-06-04", 65),
		day("2025-06-05", 90),
	}

	plan, ok := PlanRainShift(now, forecast, 70, 0)
	require.True(t, ok)
	assert.Equal(t, "2025-06-02", plan.FirstRain)
	// Two consecutive qualifying days, then a dry one: shift by the run, not 1.
	assert.Equal(t, 2, plan.ShiftDays)
}

func TestPlanRainShift_SingleRainyDayShiftsOne(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	forecast := Forecast{
		day("2025-06-03", 75),
		day("2025-06-04", 30),
	}

	plan, ok := PlanRainShift(now, forecast, 70, 0)
	require.True(t, ok)
	assert.Equal(t, 1, plan.ShiftDays)
}

func TestPlanRainShift_RunExtendsToForecastEnd(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	forecast := Forecast{
		day("2025-06-02", 85),
		day("2025-06-03", 85),
		day("2025-06-04", 85),
	}

	plan, ok := PlanRainShift(now, forecast, 70, 0)
	require.True(t, ok)
	assert.Equal(t, 3, plan.ShiftDays)
}

func TestPlanRainShift_LocalTodayRespectsUTCOffset(t *testing.T) {
	// 04:00 UTC on Jan 1 is still 23:00 Dec 31 at UTC-5.
	now := time.Date(2025, 1, 1, 4, 0, 0, 0, time.UTC)
	forecast := Forecast{
		day("2024-12-31", 80),
		day("2025-01-01", 20),
	}

	plan, ok := PlanRainShift(now, forecast, 70, -18000)
	require.True(t, ok, "Dec 31 is still today locally and must qualify")
	assert.Equal(t, "2024-12-31", plan.FirstRain)

	// Without the offset the same forecast is entirely in the past.
	_, ok = PlanRainShift(now, forecast, 70, 0)
	assert.False(t, ok)
}

func TestRainShiftPlan_Covers(t *testing.T) {
	plan := RainShiftPlan{FirstRain: "2025-06-10", ShiftDays: 2}

	assert.False(t, plan.Covers("2025-06-09"), "day before the anchor never shifts")
	assert.True(t, plan.Covers("2025-06-10"), "anchor day always shifts")
	assert.True(t, plan.Covers("2025-06-15"))
}

func TestRainShiftPlan_SelectShiftable(t *testing.T) {
	tenantID := uuid.New()
	plan := RainShiftPlan{FirstRain: "2025-06-10", ShiftDays: 1}

	mkJob := func(start time.Time) Appointment {
		job, err := NewJob(tenantID, "Smith re-roof", nil, start, start)
		require.NoError(t, err)
		return *job
	}

	before, _ := NewAppointment(tenantID, "Estimate visit", time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC), false)
	jobs := []Appointment{
		mkJob(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)),  // day before anchor
		mkJob(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)), // on anchor
		mkJob(time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)), // after anchor
		*before, // timed appointment, never a job
	}

	selected := plan.SelectShiftable(jobs, 0)
	require.Len(t, selected, 2)
	assert.Equal(t, "2025-06-10", selected[0].StartDateIn(0))
	assert.Equal(t, "2025-06-12", selected[1].StartDateIn(0))
}

func TestRainShiftPlan_SelectShiftable_OffsetMovesBoundary(t *testing.T) {
	tenantID := uuid.New()
	plan := RainShiftPlan{FirstRain: "2025-06-10", ShiftDays: 1}

	// Midnight June 10 local (UTC-5) is stored as 05:00 UTC.
	job, err := NewJob(tenantID, "Jones tear-off", nil,
		time.Date(2025, 6, 10, 5, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 5, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	selected := plan.SelectShiftable([]Appointment{*job}, -18000)
	assert.Len(t, selected, 1, "local start date matches the anchor")

	// Interpreted as UTC the same instant is still June 10, but at UTC-6
	// midnight stored as 05:00 UTC becomes June 9 local and must not shift.
	selected = plan.SelectShiftable([]Appointment{*job}, -21600)
	assert.Empty(t, selected)
}

func TestLocalDate(t *testing.T) {
	instant := time.Date(2025, 1, 1, 4, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-01-01", LocalDate(instant, 0))
	assert.Equal(t, "2024-12-31", LocalDate(instant, -18000))
	assert.Equal(t, "2025-01-01", LocalDate(instant, 3600))
}
