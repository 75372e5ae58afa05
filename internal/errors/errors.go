// Package errors defines sentinel errors used across multiple packages.
package errors

import "errors"

// ErrNonPositiveMax is returned when a track is rendered against a maximum progress of zero or less.
var ErrNonPositiveMax = errors.New("max progress must be positive")

// ErrInvalidColor is returned when a colour string cannot be parsed.
var ErrInvalidColor = errors.New("invalid colour")

// ErrUnknownCommand is returned when a script line names a command that does not exist.
var ErrUnknownCommand = errors.New("unknown command")
