package s1_universe

import (
	"context"
	"fmt"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Schedule maps trading dates to their monthly rebalance date
// (the first open day of the calendar month). One Schedule per run.
type Schedule struct {
	calendar contracts.Calendar
	months   map[string]string // YYYYMM → first open date
}

// NewSchedule creates a run-scoped rebalance schedule
func NewSchedule(calendar contracts.Calendar) *Schedule {
	return &Schedule{
		calendar: calendar,
		months:   make(map[string]string),
	}
}

// RebalanceDate returns the first open trading day of date's month
func (s *Schedule) RebalanceDate(ctx context.Context, date string) (string, error) {
	if len(date) != 8 {
		return "", fmt.Errorf("invalid date %q, expected YYYYMMDD", date)
	}

	month := date[:6]
	if first, ok := s.months[month]; ok {
		return first, nil
	}

	open, err := s.calendar.OpenDates(ctx, month+"01", month+"31")
	if err != nil {
		return "", &contracts.UpstreamError{Op: "trade_cal", Date: date, Err: err}
	}
	if len(open) == 0 {
		return "", &contracts.DataQualityError{Date: date, Field: "trade_cal", Message: fmt.Sprintf("no open trading day in %s", month)}
	}

	first := open[0]
	for _, d := range open[1:] {
		if d < first {
			first = d
		}
	}

	s.months[month] = first
	return first, nil
}

// Cached returns the number of memoized months
func (s *Schedule) Cached() int {
	return len(s.months)
}
