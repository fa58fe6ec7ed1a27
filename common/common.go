// Package common holds errors and helpers shared across the backtester
package common

import "errors"

var (
	// ErrNilArguments is returned when a function receives nil where a
	// value was required
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilEvent is returned when an event is nil
	ErrNilEvent = errors.New("nil event received")
)

// SimpleTimeFormat is the human readable timestamp format used in output
const SimpleTimeFormat = "2006-01-02 15:04:05"
