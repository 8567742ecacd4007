// Package splitter partitions a row sequence into contiguous chunks. Every
// chunk but the last holds floor(total/parts) rows; the last one absorbs the
// remainder.
package splitter

import "fmt"

// DefaultParts is the number of chunks a file is split into.
const DefaultParts = 10

// Span is a half-open [Start, End) range of row indexes.
type Span struct {
	Start int
	End   int
}

// Len returns the number of rows covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Spans computes the chunk boundaries for total rows split into parts.
func Spans(total, parts int) ([]Span, error) {
	if parts < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidParts, parts)
	}
	if total == 0 {
		return nil, ErrEmptyInput
	}
	per := total / parts
	spans := make([]Span, parts)
	for i := range spans {
		spans[i] = Span{Start: i * per, End: (i + 1) * per}
	}
	spans[parts-1].End = total
	return spans, nil
}

// Partition splits rows into parts contiguous chunks. Chunks share the
// backing array of rows.
func Partition[T any](rows []T, parts int) ([][]T, error) {
	spans, err := Spans(len(rows), parts)
	if err != nil {
		return nil, err
	}
	chunks := make([][]T, len(spans))
	for i, s := range spans {
		chunks[i] = rows[s.Start:s.End]
	}
	return chunks, nil
}
