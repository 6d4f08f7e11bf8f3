package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// DateLayout is the wire format of menu dates.
const DateLayout = "2006-01-02"

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// ParseDate parses a YYYY-MM-DD value. Empty input yields the zero time.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s は YYYY-MM-DD 形式で指定してください", domain.ErrInvalidArgument, field)
	}
	return parsed, nil
}

// FormatDate renders a menu date for responses.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
