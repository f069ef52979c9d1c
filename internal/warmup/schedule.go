package warmup

import (
	"math"
	"time"
)

// ScheduleDays is the length of the warm-up ramp.
const ScheduleDays = 7

// rampCurve is the percent share of the total list contacted on each warm-up
// day. Shares never decrease day over day, so volume ramps instead of spiking.
var rampCurve = [ScheduleDays]float64{5, 8, 12, 15, 20, 20, 20}

// DayQuota is one entry of the daily quota curve.
type DayQuota struct {
	Day   int `json:"day"`
	Quota int `json:"quota"`
}

// Schedule splits a recipient total across the warm-up days. Quotas are
// derived from cumulative rounded targets, so every quota is non-negative
// and the curve sums to the total exactly, with any rounding remainder
// landing on the final day.
type Schedule struct {
	total  int
	quotas [ScheduleDays]int
}

// NewSchedule builds the quota curve for totalRecipients. A non-positive
// total yields an all-zero schedule.
func NewSchedule(totalRecipients int) Schedule {
	s := Schedule{total: totalRecipients}
	if totalRecipients <= 0 {
		s.total = 0
		return s
	}

	cumPct := 0.0
	prev := 0
	for d := 0; d < ScheduleDays; d++ {
		cumPct += rampCurve[d]
		cum := int(math.Round(float64(totalRecipients) * cumPct / 100))
		if d == ScheduleDays-1 {
			cum = totalRecipients
		}
		s.quotas[d] = cum - prev
		prev = cum
	}
	return s
}

// Total returns the recipient total the schedule was built from.
func (s Schedule) Total() int {
	return s.total
}

// QuotaForDay returns the send quota for a 1-based warm-up day. Days outside
// the schedule return 0, which callers treat as the advance/complete signal.
func (s Schedule) QuotaForDay(day int) int {
	if day < 1 || day > ScheduleDays {
		return 0
	}
	return s.quotas[day-1]
}

// DailyQuotas returns the full ordered quota curve.
func (s Schedule) DailyQuotas() []DayQuota {
	quotas := make([]DayQuota, ScheduleDays)
	for d := 0; d < ScheduleDays; d++ {
		quotas[d] = DayQuota{Day: d + 1, Quota: s.quotas[d]}
	}
	return quotas
}

// EstimatedCompletion projects when the ramp finishes for a warm-up that
// started at startedAt.
func (s Schedule) EstimatedCompletion(startedAt time.Time) time.Time {
	return startedAt.AddDate(0, 0, ScheduleDays)
}
