package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNegativePrice = errors.New("price must not be negative")

// timeLayouts are tried in order; the last three are what a datetime-local
// input and the seed spreadsheet produce.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses s in loc. An empty string yields nil.
func ParseTime(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", s)
}

// ParsePrice parses a non-negative decimal. An empty string yields a null
// decimal.
func ParsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid price %q", s)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, ErrNegativePrice
	}
	return decimal.NewNullDecimal(d.Round(2)), nil
}

// ParseOptionalInt parses s as an int. An empty string yields nil.
func ParseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return &v, nil
}

// ParseIDs parses every entry as an unsigned id, skipping blanks.
func ParseIDs(values []string) ([]uint, error) {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", v)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// StringPtr returns nil for an empty (after trim) string.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
