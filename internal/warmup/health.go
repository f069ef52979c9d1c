package warmup

import (
	"fmt"

	"github.com/arkadyv/fangate/internal/models"
)

// HealthLevel classifies deliverability risk.
type HealthLevel string

const (
	HealthHealthy  HealthLevel = "healthy"
	HealthWarning  HealthLevel = "warning"
	HealthCritical HealthLevel = "critical"
)

// Classification thresholds, in percent of sent volume.
const (
	bounceCritical    = 5.0
	bounceWarning     = 3.0
	complaintCritical = 0.1
	complaintWarning  = 0.05
)

// Health is the outcome of a health check: rates, classification and a pause
// recommendation. The check itself never writes; callers apply the pause.
type Health struct {
	Level           HealthLevel `json:"level"`
	BounceRate      float64     `json:"bounce_rate"`
	ComplaintRate   float64     `json:"complaint_rate"`
	TotalSent       int         `json:"total_sent"`
	TotalBounced    int         `json:"total_bounced"`
	TotalComplaints int         `json:"total_complaints"`
	ShouldPause     bool        `json:"should_pause"`
	PauseReason     string      `json:"pause_reason,omitempty"`
}

// ClassifyHealth computes bounce/complaint rates from event aggregates and
// classifies them. Zero sent volume classifies as healthy.
func ClassifyHealth(stats models.EventStats) Health {
	h := Health{
		Level:           HealthHealthy,
		TotalSent:       stats.TotalSent,
		TotalBounced:    stats.TotalBounced,
		TotalComplaints: stats.TotalComplaints,
	}
	if stats.TotalSent == 0 {
		return h
	}

	h.BounceRate = float64(stats.TotalBounced) / float64(stats.TotalSent) * 100
	h.ComplaintRate = float64(stats.TotalComplaints) / float64(stats.TotalSent) * 100

	switch {
	case h.BounceRate > bounceCritical:
		h.Level = HealthCritical
		h.ShouldPause = true
		h.PauseReason = fmt.Sprintf("bounce rate %.1f%% exceeds %.0f%% threshold", h.BounceRate, bounceCritical)
	case h.ComplaintRate > complaintCritical:
		h.Level = HealthCritical
		h.ShouldPause = true
		h.PauseReason = fmt.Sprintf("complaint rate %.2f%% exceeds %.1f%% threshold", h.ComplaintRate, complaintCritical)
	case h.BounceRate >= bounceWarning || h.ComplaintRate >= complaintWarning:
		h.Level = HealthWarning
	}

	return h
}
