package common

import (
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// ScopePayload is the JSON form of a menu scope.
type ScopePayload struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// OptionPayload is one lettered option of a day-slot.
type OptionPayload struct {
	Letter   string `json:"letter"`
	OptionID string `json:"optionId"`
}

// DaySlotPayload is the JSON form of a day-slot.
type DaySlotPayload struct {
	ID         string          `json:"id"`
	Weekday    string          `json:"weekday"`
	Options    []OptionPayload `json:"options"`
	MaxOptions int             `json:"maxOptions"`
	ScheduleID string          `json:"scheduleId,omitempty"`
}

// AddOnPayload is the JSON form of a menu add-on.
type AddOnPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// MenuPayload is the JSON form of a menu shared by employee and admin routes.
type MenuPayload struct {
	ID               string           `json:"id"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	Scope            ScopePayload     `json:"scope"`
	SurveyOpen       bool             `json:"surveyOpen"`
	ClosedManually   bool             `json:"closedManually"`
	ManualCloseDate  *time.Time       `json:"manualCloseDate,omitempty"`
	ReopenedManually bool             `json:"reopenedManually"`
	DaySlots         []DaySlotPayload `json:"daySlots"`
	AddOns           []AddOnPayload   `json:"addOns"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// NewDaySlotPayload lists only the letters offered on the day, capped by MaxOptions.
func NewDaySlotPayload(slot domain.DaySlot) DaySlotPayload {
	payload := DaySlotPayload{
		ID:         slot.ID,
		Weekday:    slot.Weekday.String(),
		Options:    make([]OptionPayload, 0, domain.OptionSlots),
		MaxOptions: slot.MaxOptions,
		ScheduleID: slot.ScheduleID,
	}
	for _, letter := range slot.OfferedLetters() {
		id, _ := slot.Option(letter)
		payload.Options = append(payload.Options, OptionPayload{Letter: string(letter), OptionID: id})
	}
	return payload
}

// NewMenuPayload converts a menu and its loaded day-slots.
func NewMenuPayload(menu domain.Menu) MenuPayload {
	payload := MenuPayload{
		ID:               menu.ID,
		StartDate:        FormatDate(menu.StartDate),
		EndDate:          FormatDate(menu.EndDate),
		Scope:            ScopePayload{Kind: string(menu.Scope.Kind()), ID: menu.Scope.ID()},
		SurveyOpen:       menu.SurveyOpen(),
		ClosedManually:   menu.ClosedManually,
		ManualCloseDate:  menu.ManualCloseDate,
		ReopenedManually: menu.ReopenedManually,
		DaySlots:         make([]DaySlotPayload, 0, len(menu.DaySlots)),
		AddOns:           make([]AddOnPayload, 0, len(menu.AddOns)),
		CreatedAt:        menu.CreatedAt,
		UpdatedAt:        menu.UpdatedAt,
	}
	for _, slot := range menu.DaySlots {
		payload.DaySlots = append(payload.DaySlots, NewDaySlotPayload(slot))
	}
	for _, addOn := range menu.AddOns {
		payload.AddOns = append(payload.AddOns, AddOnPayload{ID: addOn.ID, Name: addOn.Name, Price: addOn.Price})
	}
	return payload
}
