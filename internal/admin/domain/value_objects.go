package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxNameRunes = 120

// OptionID references a catalogue dish. Empty means the letter is unset.
type OptionID string

func NewOptionID(value string) (OptionID, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > 64 {
		return "", fmt.Errorf("option id too long")
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return "", fmt.Errorf("invalid option id: %q", trimmed)
	}
	return OptionID(trimmed), nil
}

func (o OptionID) String() string {
	return string(o)
}

// OptionIDList holds the A..E references of one day-slot.
type OptionIDList []OptionID

func NewOptionIDList(values []string, limit int) (OptionIDList, error) {
	if len(values) > limit {
		return nil, fmt.Errorf("options must be <= %d", limit)
	}
	result := make(OptionIDList, 0, len(values))
	for _, raw := range values {
		id, err := NewOptionID(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}

func (l OptionIDList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

type Money int

func NewMoney(value int) (Money, error) {
	if value < 0 {
		return 0, fmt.Errorf("money must be >= 0")
	}
	return Money(value), nil
}

func (m Money) Int() int {
	return int(m)
}

// Name is a display name for add-ons.
type Name string

func NewName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNameRunes {
		return "", fmt.Errorf("name must be <= %d characters", maxNameRunes)
	}
	return Name(trimmed), nil
}

func (n Name) String() string {
	return string(n)
}
