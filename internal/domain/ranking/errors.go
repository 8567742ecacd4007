package ranking

import (
	"errors"
	"fmt"
)

// ErrMalformedData is the sentinel kind behind every MalformedDataError.
var ErrMalformedData = errors.New("malformed data")

// MalformedDataError reports a metric cell that is not a number. Row is the
// 1-based data row, not counting the header.
type MalformedDataError struct {
	Column string
	Row    int
	Value  string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed data: column %q row %d: %q is not a number", e.Column, e.Row, e.Value)
}

// Is reports ErrMalformedData as the kind of e.
func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }
