package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an integer that accepts native JSON numbers, string-encoded
// numbers and null. Football data feeds are inconsistent about quoting shirt
// numbers, ages and ids; this coerces them transparently.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	n, ok, err := flexNumber(data)
	if err != nil {
		return fmt.Errorf("flex int: %w", err)
	}
	if ok {
		// "28.5" truncates to 28
		*f = FlexInt(int64(n))
	}
	return nil
}

// Int returns the value as a plain int.
func (f FlexInt) Int() int { return int(f) }

// FlexFloat is the float counterpart of FlexInt.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	n, ok, err := flexNumber(data)
	if err != nil {
		return fmt.Errorf("flex float: %w", err)
	}
	if ok {
		*f = FlexFloat(n)
	}
	return nil
}

// Float returns the value as a plain float64.
func (f FlexFloat) Float() float64 { return float64(f) }

// flexNumber decodes a JSON number, a quoted number, null or an empty string.
// ok is false when the value is absent (null, "" or an unparsable string).
func flexNumber(data []byte) (float64, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, false, nil
	}

	// Fast path: native number
	if data[0] != '"' {
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return 0, false, err
		}
		return n, true, nil
	}

	// Slow path: string-encoded value
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, false, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}
