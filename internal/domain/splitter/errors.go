package splitter

import "errors"

// Sentinel error kinds for this package.
var (
	ErrEmptyInput   = errors.New("the file is empty")
	ErrInvalidParts = errors.New("invalid part count")
)
