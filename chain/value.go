package chain

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a coin amount in the smallest currency unit.
type Value uint64

// ParseValue reads a non-negative decimal coin amount.
func ParseValue(s string) (Value, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", s, ErrInvalidEncoding)
	}
	return Value(v), nil
}

// Add returns v+other, or ErrOutOfRange when the sum wraps.
func (v Value) Add(other Value) (Value, error) {
	if other > math.MaxUint64-v {
		return 0, fmt.Errorf("value sum %d+%d: %w", v, other, ErrOutOfRange)
	}
	return v + other, nil
}

// String returns the decimal form of the value.
func (v Value) String() string {
	return strconv.FormatUint(uint64(v), 10)
}
