package matcher

import "errors"

var (
	// ErrCompile is returned when an expression does not parse or type-check.
	ErrCompile = errors.New("invalid column expression")
	// ErrNotBoolean is returned when an expression does not yield a bool.
	ErrNotBoolean = errors.New("column expression must return bool")
)
