package table

// Resolve scans the trimmed header in order and returns the index and name of
// the first column m accepts.
func Resolve(t Table, m Matcher) (int, string, error) {
	cols := t.Columns()
	for i, c := range cols {
		if m.Match(c) {
			return i, c, nil
		}
	}
	return -1, "", &ColumnNotFoundError{Token: m.String(), Columns: cols}
}

// ResolveColumn returns the first header containing token, case-insensitively.
func ResolveColumn(t Table, token string) (string, error) {
	_, name, err := Resolve(t, Contains(token))
	return name, err
}
