package warmup

import (
	"testing"
	"time"
)

func TestScheduleSumEqualsTotal(t *testing.T) {
	totals := []int{0, 1, 2, 3, 5, 6, 7, 13, 50, 70, 99, 100, 1000, 12345}

	for _, total := range totals {
		s := NewSchedule(total)
		sum := 0
		for _, dq := range s.DailyQuotas() {
			if dq.Quota < 0 {
				t.Errorf("total=%d: day %d quota = %d, want >= 0", total, dq.Day, dq.Quota)
			}
			sum += dq.Quota
		}
		if sum != total {
			t.Errorf("total=%d: quota sum = %d, want %d", total, sum, total)
		}
	}
}

func TestScheduleQuotaForDayOutOfRange(t *testing.T) {
	s := NewSchedule(1000)

	for _, day := range []int{-1, 0, 8, 100} {
		if got := s.QuotaForDay(day); got != 0 {
			t.Errorf("QuotaForDay(%d) = %d, want 0", day, got)
		}
	}
}

func TestScheduleZeroRecipients(t *testing.T) {
	s := NewSchedule(0)

	for d := 1; d <= ScheduleDays; d++ {
		if got := s.QuotaForDay(d); got != 0 {
			t.Errorf("QuotaForDay(%d) = %d, want 0", d, got)
		}
	}
}

func TestScheduleDayOne(t *testing.T) {
	// 5% of 70 rounds up to 4
	s := NewSchedule(70)
	if got := s.QuotaForDay(1); got != 4 {
		t.Errorf("QuotaForDay(1) = %d, want 4", got)
	}
}

func TestScheduleRampNeverSpikesEarly(t *testing.T) {
	// Percent shares never decrease day over day; with integer rounding the
	// absolute quotas may wobble by one, so check the curve itself.
	for d := 1; d < ScheduleDays; d++ {
		if rampCurve[d] < rampCurve[d-1] {
			t.Errorf("rampCurve[%d] = %v < rampCurve[%d] = %v", d, rampCurve[d], d-1, rampCurve[d-1])
		}
	}
}

func TestScheduleSmallTotals(t *testing.T) {
	// Fewer recipients than schedule days must still distribute cleanly.
	for total := 1; total < ScheduleDays; total++ {
		s := NewSchedule(total)
		sum := 0
		for d := 1; d <= ScheduleDays; d++ {
			q := s.QuotaForDay(d)
			if q < 0 {
				t.Fatalf("total=%d day=%d quota = %d, want >= 0", total, d, q)
			}
			sum += q
		}
		if sum != total {
			t.Errorf("total=%d: quota sum = %d, want %d", total, sum, total)
		}
	}
}

func TestScheduleEstimatedCompletion(t *testing.T) {
	s := NewSchedule(100)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	got := s.EstimatedCompletion(start)
	want := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EstimatedCompletion() = %v, want %v", got, want)
	}
}
