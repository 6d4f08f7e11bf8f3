package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Menu is the set of selectable meal options for one week and one scope.
type Menu struct {
	ID               string
	StartDate        time.Time
	EndDate          time.Time
	Scope            Scope
	ClosedManually   bool
	ManualCloseDate  *time.Time
	ReopenedManually bool
	DaySlots         []DaySlot
	AddOns           []AddOn
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AddOn is a fixed extra offered with every day of a menu.
type AddOn struct {
	ID    string
	Name  string
	Price int
}

// NewMenu builds an unsaved menu for key.
func NewMenu(key MenuKey, now time.Time) *Menu {
	return &Menu{
		StartDate: key.Start,
		EndDate:   key.End,
		Scope:     key.Scope,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *Menu) Key() MenuKey {
	return MenuKey{Start: m.StartDate, End: m.EndDate, Scope: m.Scope}
}

// Clone returns a deep copy so shared results can be handed to several callers.
func (m *Menu) Clone() *Menu {
	if m == nil {
		return nil
	}
	clone := *m
	if m.ManualCloseDate != nil {
		closedAt := *m.ManualCloseDate
		clone.ManualCloseDate = &closedAt
	}
	clone.DaySlots = append([]DaySlot(nil), m.DaySlots...)
	clone.AddOns = append([]AddOn(nil), m.AddOns...)
	return &clone
}

// HasConfiguredDay reports whether at least one day-slot has A, B or C set.
func (m *Menu) HasConfiguredDay() bool {
	for _, slot := range m.DaySlots {
		if slot.HasCoreOption() {
			return true
		}
	}
	return false
}

// SurveyOpen is false only while the menu is closed and not reopened.
func (m *Menu) SurveyOpen() bool {
	return !m.ClosedManually || m.ReopenedManually
}

func (m *Menu) Close(at time.Time) {
	closedAt := at
	m.ClosedManually = true
	m.ManualCloseDate = &closedAt
	m.ReopenedManually = false
	m.UpdatedAt = at
}

func (m *Menu) Reopen(at time.Time) {
	m.ReopenedManually = true
	m.UpdatedAt = at
}

// AddAddOn appends a new add-on after validating it.
func (m *Menu) AddAddOn(addOn AddOn) error {
	addOn.Name = strings.TrimSpace(addOn.Name)
	if addOn.ID == "" {
		return fmt.Errorf("%w: add-on id is required", ErrInvalidArgument)
	}
	if addOn.Name == "" {
		return fmt.Errorf("%w: add-on name is required", ErrInvalidArgument)
	}
	if addOn.Price < 0 {
		return fmt.Errorf("%w: add-on price must be >= 0", ErrInvalidArgument)
	}
	m.AddOns = append(m.AddOns, addOn)
	return nil
}

// RemoveAddOn drops the add-on with id.
func (m *Menu) RemoveAddOn(id string) error {
	for i, addOn := range m.AddOns {
		if addOn.ID == id {
			m.AddOns = append(m.AddOns[:i], m.AddOns[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("add-on %s: %w", id, ErrNotFound)
}

// SortDaySlots orders slots by weekday ascending.
func SortDaySlots(slots []DaySlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Weekday < slots[j].Weekday
	})
}
