package scheduling

import (
	"sort"
	"time"
)

// DefaultRainThreshold is the precipitation probability percent at or above
// which a forecast day counts as rain risk.
const DefaultRainThreshold = 70

// RainShiftPlan describes the move the rain policy decided on: every job
// starting on or after FirstRain shifts forward by ShiftDays calendar days.
type RainShiftPlan struct {
	FirstRain string // anchor date, DateLayout
	ShiftDays int    // length of the consecutive rain run, minimum 1
}

// PlanRainShift inspects a daily forecast and decides whether scheduled jobs
// need to move. It returns false when no forecast day at or after the local
// today reaches the threshold, which makes the whole policy a no-op.
//
// "Today" is taken in the forecast's local timezone (utcOffsetSeconds, local =
// UTC + offset) so that a tenant west of UTC does not see tomorrow's date
// shortly before local midnight. The shift amount is the length of the
// consecutive run of qualifying days starting at the anchor: a one-day shower
// pushes jobs one day, a three-day system pushes them past the whole span.
func PlanRainShift(now time.Time, forecast Forecast, threshold int, utcOffsetSeconds int) (RainShiftPlan, bool) {
	if threshold <= 0 {
		threshold = DefaultRainThreshold
	}
	today := LocalDate(now, utcOffsetSeconds)

	risky := make([]string, 0, len(forecast))
	for _, day := range forecast {
		if day.PrecipProb >= threshold && day.Date >= today {
			risky = append(risky, day.Date)
		}
	}
	if len(risky) == 0 {
		return RainShiftPlan{}, false
	}
	sort.Strings(risky)
	firstRain := risky[0]

	shiftDays := 1
	for i, day := range forecast {
		if day.Date != firstRain {
			continue
		}
		shiftDays = 0
		for _, run := range forecast[i:] {
			if run.PrecipProb < threshold {
				break
			}
			shiftDays++
		}
		if shiftDays < 1 {
			shiftDays = 1
		}
		break
	}

	return RainShiftPlan{FirstRain: firstRain, ShiftDays: shiftDays}, true
}

// Covers reports whether a job starting on the given local calendar date
// falls inside the plan. Only the start date is compared: a job starting the
// day before the rain stays put even if its span overlaps the rain window.
func (p RainShiftPlan) Covers(localStartDate string) bool {
	return localStartDate >= p.FirstRain
}

// SelectShiftable filters job appointments down to the ones the plan moves:
// real jobs whose local start date is on or after the rain anchor. Jobs
// already in progress before the rain onset are not touched.
func (p RainShiftPlan) SelectShiftable(appointments []Appointment, utcOffsetSeconds int) []Appointment {
	selected := make([]Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if !appt.IsJob() {
			continue
		}
		if p.Covers(appt.StartDateIn(utcOffsetSeconds)) {
			selected = append(selected, appt)
		}
	}
	return selected
}
