package ranking

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/rankmerge/internal/domain/dedupe"
	"github.com/okian/rankmerge/internal/domain/table"
)

type keyedMetric struct {
	key    string
	metric float64
}

// Build ranks the metric column of t by the key column. Both columns are
// located with the given matchers; the first row of a repeated key wins.
func Build(t table.Table, key, metric table.Matcher) (RankTable, error) {
	keyIdx, _, err := table.Resolve(t, key)
	if err != nil {
		return RankTable{}, err
	}
	metricIdx, metricName, err := table.Resolve(t, metric)
	if err != nil {
		return RankTable{}, err
	}

	rows := make([]keyedMetric, 0, len(t.Rows))
	for i, r := range t.Rows {
		raw := r.Cell(metricIdx)
		v, ok := parseMetric(raw)
		if !ok {
			return RankTable{}, &MalformedDataError{Column: metricName, Row: i + 1, Value: raw}
		}
		rows = append(rows, keyedMetric{key: r.Cell(keyIdx), metric: v})
	}

	rows = dedupe.KeepFirst(rows, func(r keyedMetric) string { return r.key })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].metric > rows[j].metric })

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{Key: r.key, Metric: r.metric, Rank: i + 1}
	}
	return RankTable{Entries: entries}, nil
}

// parseMetric accepts decimal floats, including Inf and values that overflow
// to ±Inf. NaN cannot be ordered and is rejected along with empty, hex and
// non-numeric cells.
func parseMetric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || isHex(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
