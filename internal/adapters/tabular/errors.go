package tabular

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks filesystem failures: open, read, create, write, rename.
	ErrIO = errors.New("io error")
	// ErrMalformedFile marks content the delimited reader cannot parse.
	ErrMalformedFile = errors.New("malformed file")
	// ErrUnsupportedFormat is returned for spreadsheet formats other than xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports ErrIO as the kind of e.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// MalformedFileError wraps a parse failure, typically a *csv.ParseError.
type MalformedFileError struct {
	Path string
	Err  error
}

func (e *MalformedFileError) Error() string {
	return fmt.Sprintf("malformed file %s: %v", e.Path, e.Err)
}

func (e *MalformedFileError) Unwrap() error { return e.Err }

// Is reports ErrMalformedFile as the kind of e.
func (e *MalformedFileError) Is(target error) bool { return target == ErrMalformedFile }
