package application

import (
	"context"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// clockRangeProvider computes next week from a clock in a fixed location.
type clockRangeProvider struct {
	now      func() time.Time
	location *time.Location
}

// NewClockRangeProvider returns a DateRangeProvider reading now in loc.
// A nil now uses time.Now.
func NewClockRangeProvider(now func() time.Time, loc *time.Location) DateRangeProvider {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &clockRangeProvider{now: now, location: loc}
}

func (p *clockRangeProvider) NextWeek(_ context.Context) (time.Time, time.Time) {
	return domain.NextWeekRange(p.now().In(p.location))
}
