package ranking

import "sort"

// SentinelRank is the rank imputed for a key missing from one side.
func SentinelRank(a, b RankTable) int {
	return max(a.Len(), b.Len()) + 1
}

// Merge outer-joins a and b on key and orders the result by ascending rank
// sum. FinalRank is dense: 1..N with no gaps, even across equal sums.
func Merge(a, b RankTable, opts ...Option) []MergedEntry {
	o := newOptions(opts)
	sentinel := SentinelRank(a, b)
	ia, ib := a.index(), b.index()

	keys := joinKeys(a, b, o.joinOrder)
	out := make([]MergedEntry, 0, len(keys))
	for _, k := range keys {
		m := MergedEntry{Key: k, PrimaryRank: sentinel, SecondaryRank: sentinel}
		if e, ok := ia[k]; ok {
			v := e.Metric
			m.PrimaryMetric, m.PrimaryRank = &v, e.Rank
		}
		if e, ok := ib[k]; ok {
			v := e.Metric
			m.SecondaryMetric, m.SecondaryRank = &v, e.Rank
		}
		m.RankSum = m.PrimaryRank + m.SecondaryRank
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].RankSum < out[j].RankSum })
	for i := range out {
		out[i].FinalRank = i + 1
	}
	return out
}

// MergeRankings merges a and b and paginates the result.
func MergeRankings(a, b RankTable, opts ...Option) ([]MergedEntry, []Page) {
	o := newOptions(opts)
	merged := Merge(a, b, opts...)
	return merged, Paginate(merged, o.pageSize, o.maxPages)
}

func joinKeys(a, b RankTable, order JoinOrder) []string {
	keys := make([]string, 0, a.Len()+b.Len())
	seen := make(map[string]struct{}, a.Len()+b.Len())
	for _, rt := range []RankTable{a, b} {
		for _, e := range rt.Entries {
			if _, ok := seen[e.Key]; ok {
				continue
			}
			seen[e.Key] = struct{}{}
			keys = append(keys, e.Key)
		}
	}
	if order == JoinByKey {
		sort.Strings(keys)
	}
	return keys
}
