package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks caller mistakes. No mutation is performed when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotFound is returned when an entity a use-case depends on does not exist.
var ErrNotFound = errors.New("not found")

var (
	ErrInvalidSelection = fmt.Errorf("%w: selection is not in the allowed alphabet", ErrInvalidArgument)
	ErrScopeRequired    = fmt.Errorf("%w: company or branch is required", ErrInvalidArgument)
	ErrInvalidRange     = fmt.Errorf("%w: start date must not be after end date", ErrInvalidArgument)
	ErrOptionNotOffered = fmt.Errorf("%w: option is not offered for this day", ErrInvalidArgument)
	ErrInvalidDaySlot   = fmt.Errorf("%w: invalid day-slot configuration", ErrInvalidArgument)
)

// ErrSurveyClosed is returned when a selection targets a manually closed menu.
var ErrSurveyClosed = errors.New("menu survey is closed")

// ErrDuplicateMenu signals that another writer already created the menu for the same key.
var ErrDuplicateMenu = errors.New("menu already exists for range and scope")

// ErrDuplicateResponse signals a concurrent first submission for the same employee and day-slot.
var ErrDuplicateResponse = errors.New("response already exists for employee and day-slot")
