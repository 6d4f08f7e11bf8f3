package domain

import (
	"time"

	menudomain "github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// SelectionSummary counts responses per day and letter for one menu.
// It is the read model billing snapshots are taken from.
type SelectionSummary struct {
	MenuID    string
	StartDate time.Time
	EndDate   time.Time
	Days      []DaySummary
	Total     int
}

// DaySummary counts the responses of a single day-slot.
type DaySummary struct {
	DaySlotID string
	Weekday   time.Weekday
	Counts    map[menudomain.Selection]int
	Total     int
}

// Summarize aggregates responses over the menu's day-slots, in weekday order.
// Responses for slots outside the menu are ignored.
func Summarize(menu *menudomain.Menu, responses []menudomain.Response) SelectionSummary {
	slots := append([]menudomain.DaySlot(nil), menu.DaySlots...)
	menudomain.SortDaySlots(slots)

	index := make(map[string]int, len(slots))
	days := make([]DaySummary, 0, len(slots))
	for i, slot := range slots {
		index[slot.ID] = i
		days = append(days, DaySummary{
			DaySlotID: slot.ID,
			Weekday:   slot.Weekday,
			Counts:    make(map[menudomain.Selection]int),
		})
	}

	total := 0
	for _, response := range responses {
		i, ok := index[response.DaySlotID]
		if !ok {
			continue
		}
		days[i].Counts[response.Selection]++
		days[i].Total++
		total++
	}

	return SelectionSummary{
		MenuID:    menu.ID,
		StartDate: menu.StartDate,
		EndDate:   menu.EndDate,
		Days:      days,
		Total:     total,
	}
}
