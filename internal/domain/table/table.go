// Package table holds the in-memory tabular model shared by both pipelines
// and the header resolution used to locate semantic columns.
package table

import "strings"

// Row is an ordered sequence of string cells.
type Row []string

// Table is a header plus ordered rows. Header names are kept exactly as read;
// lookups trim them first.
type Table struct {
	Header []string
	Rows   []Row
}

// New builds a Table from a header and rows.
func New(header []string, rows ...Row) Table {
	return Table{Header: header, Rows: rows}
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Columns returns the header names with surrounding whitespace removed.
func (t Table) Columns() []string {
	cols := make([]string, len(t.Header))
	for i, h := range t.Header {
		cols[i] = strings.TrimSpace(h)
	}
	return cols
}

// Cell returns the value at column idx of row, or "" when the row is short.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}
