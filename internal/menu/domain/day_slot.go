package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// OptionSlots is the number of option references a day-slot carries (A..E).
	OptionSlots = 5
	// DefaultMaxOptions caps how many options are presented by default.
	DefaultMaxOptions = 3
)

// DaySlot is one weekday of a menu with up to five selectable options.
type DaySlot struct {
	ID         string
	MenuID     string
	Weekday    time.Weekday
	Options    [OptionSlots]string
	MaxOptions int
	ScheduleID string
}

// Option returns the option id configured for letter.
func (d DaySlot) Option(letter Selection) (string, bool) {
	idx := letter.Index()
	if idx < 0 {
		return "", false
	}
	id := strings.TrimSpace(d.Options[idx])
	return id, id != ""
}

// Offers reports whether letter has an option configured on this day.
func (d DaySlot) Offers(letter Selection) bool {
	_, ok := d.Option(letter)
	return ok
}

// HasCoreOption reports whether any of A, B or C is configured.
func (d DaySlot) HasCoreOption() bool {
	for _, letter := range CoreAlphabet {
		if d.Offers(letter) {
			return true
		}
	}
	return false
}

// OfferedLetters lists the configured letters up to MaxOptions.
func (d DaySlot) OfferedLetters() []Selection {
	limit := d.MaxOptions
	if limit <= 0 || limit > OptionSlots {
		limit = OptionSlots
	}
	result := make([]Selection, 0, limit)
	for i := 0; i < limit; i++ {
		if strings.TrimSpace(d.Options[i]) != "" {
			result = append(result, SelectionAt(i))
		}
	}
	return result
}

// ValidateMaxOptions checks that n is a presentable option count.
func ValidateMaxOptions(n int) error {
	if n < 1 || n > OptionSlots {
		return fmt.Errorf("%w: max options must be between 1 and %d", ErrInvalidDaySlot, OptionSlots)
	}
	return nil
}

// ScaffoldDaySlots builds the Monday to Friday slots for a newly created menu.
// Every slot starts with no options and DefaultMaxOptions.
func ScaffoldDaySlots(menuID string) []DaySlot {
	slots := make([]DaySlot, 0, len(WorkingDays))
	for _, day := range WorkingDays {
		slots = append(slots, DaySlot{
			MenuID:     menuID,
			Weekday:    day,
			MaxOptions: DefaultMaxOptions,
		})
	}
	return slots
}
