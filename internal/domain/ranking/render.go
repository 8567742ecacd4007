package ranking

import (
	"strconv"

	"github.com/okian/rankmerge/internal/domain/table"
)

// Columns names the key and the two metrics in rendered output.
type Columns struct {
	Key       string
	Primary   string
	Secondary string
}

// DefaultColumns renders PACK, WLOCK and EVENT_COUNT.
func DefaultColumns() Columns {
	return Columns{Key: "PACK", Primary: "WLOCK", Secondary: "EVENT_COUNT"}
}

// Header returns the output header, e.g.
// PACK, WLOCK, WLOCK_RANK, EVENT_COUNT, EVENT_COUNT_RANK, RANK_SUM, FINAL_RANK.
func (c Columns) Header() []string {
	return []string{
		c.Key,
		c.Primary, c.Primary + "_RANK",
		c.Secondary, c.Secondary + "_RANK",
		"RANK_SUM", "FINAL_RANK",
	}
}

// Rows renders entries in order. Absent metrics become empty cells.
func Rows(entries []MergedEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			e.Key,
			formatMetric(e.PrimaryMetric), strconv.Itoa(e.PrimaryRank),
			formatMetric(e.SecondaryMetric), strconv.Itoa(e.SecondaryRank),
			strconv.Itoa(e.RankSum), strconv.Itoa(e.FinalRank),
		}
	}
	return rows
}

func formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
