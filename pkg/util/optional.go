package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Optional records whether a JSON key was present and whether it was null.
// Set is false when the key is absent; Valid is false when it was null.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when null.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// Flag is a boolean that also accepts the 1/0 and "1"/"0" forms HTML forms
// and the dashboard send.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	b, err := ParseFlag(raw)
	if err != nil {
		return err
	}
	*f = Flag(b)
	return nil
}

// UnmarshalParam lets gin bind a Flag from a form or query value.
func (f *Flag) UnmarshalParam(param string) error {
	b, err := ParseFlag(param)
	if err != nil {
		return err
	}
	*f = Flag(b)
	return nil
}

// ParseFlag parses true/false/1/0/on/off, case-insensitively.
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// Price is a nullable decimal that accepts a JSON number, a numeric string,
// or "" for null.
type Price struct {
	decimal.NullDecimal
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		p.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	v, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	p.NullDecimal = v
	return nil
}

func (p *Price) UnmarshalParam(param string) error {
	v, err := ParsePrice(param)
	if err != nil {
		return err
	}
	p.NullDecimal = v
	return nil
}

// Int is a nullable integer that accepts a JSON number, a numeric string,
// or "" for null.
type Int struct {
	Value int
	Valid bool
}

func (n *Int) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*n = Int{}
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	return n.UnmarshalParam(raw)
}

func (n *Int) UnmarshalParam(param string) error {
	v, err := ParseOptionalInt(param)
	if err != nil {
		return err
	}
	if v == nil {
		*n = Int{}
		return nil
	}
	*n = Int{Value: *v, Valid: true}
	return nil
}

// Ptr returns nil when null.
func (n Int) Ptr() *int {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
