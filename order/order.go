package order

import (
	"errors"
	"strings"
)

// Side designates the direction of a trade instruction
type Side string

// Sides the engine understands. Anything else is rejected before execution
const (
	Buy     Side = "BUY"
	Sell    Side = "SELL"
	Unknown Side = "UNKNOWN"
)

// ErrSideIsInvalid occurs when the order side is invalid
var ErrSideIsInvalid = errors.New("order side is invalid")

// IsValid returns whether the side can be acted upon
func (s Side) IsValid() bool {
	return s == Buy || s == Sell
}

// String implements the stringer interface
func (s Side) String() string {
	return string(s)
}

// SideFromString parses a side from its string representation
func SideFromString(s string) (Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return Unknown, ErrSideIsInvalid
}
