package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound is the sentinel kind behind every ColumnNotFoundError.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError reports a matcher that accepted no header.
type ColumnNotFoundError struct {
	Token   string
	Columns []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Columns) == 0 {
		return fmt.Sprintf("column not found: no header matches %q (table has no header)", e.Token)
	}
	return fmt.Sprintf("column not found: no header matches %q (have: %s)", e.Token, strings.Join(e.Columns, ", "))
}

// Is reports ErrColumnNotFound as the kind of e.
func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }
