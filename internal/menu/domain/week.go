package domain

import (
	"fmt"
	"time"
)

// WorkingDays lists the weekdays that get a day-slot, in display order.
var WorkingDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// DateOnly truncates t to its calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextWeekRange returns the Monday to Friday range of the week after now.
// On a Monday it returns the following Monday, never the current one.
func NextWeekRange(now time.Time) (time.Time, time.Time) {
	today := DateOnly(now)
	days := (8 - int(today.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	start := today.AddDate(0, 0, days)
	return start, start.AddDate(0, 0, 4)
}

// MenuKey identifies the single menu allowed for a date range and scope.
type MenuKey struct {
	Start time.Time
	End   time.Time
	Scope Scope
}

// NewMenuKey normalises the range to calendar dates and validates it.
func NewMenuKey(start, end time.Time, scope Scope) (MenuKey, error) {
	start = DateOnly(start)
	end = DateOnly(end)
	if start.After(end) {
		return MenuKey{}, ErrInvalidRange
	}
	return MenuKey{Start: start, End: end, Scope: scope}, nil
}

func (k MenuKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Start.Format(time.DateOnly), k.End.Format(time.DateOnly), k.Scope)
}
