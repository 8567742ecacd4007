// Package ranking builds per-source rank tables and merges two of them into a
// single rank-sum ordering.
//
// A rank table ranks one metric: rank 1 is the largest value, ties keep the
// order of first appearance. Merging outer-joins two tables on key, gives a
// key missing from one side the sentinel rank max(|A|,|B|)+1 on that side,
// sums the two ranks and orders ascending by that sum. The merged sequence is
// then cut into fixed-size pages.
package ranking

// Entry is one ranked key of a single source.
type Entry struct {
	Key    string
	Metric float64
	Rank   int
}

// RankTable is a deduplicated source ordered by rank (1..N).
type RankTable struct {
	Entries []Entry
}

// Len returns N, the number of ranked keys.
func (rt RankTable) Len() int { return len(rt.Entries) }

func (rt RankTable) index() map[string]Entry {
	idx := make(map[string]Entry, len(rt.Entries))
	for _, e := range rt.Entries {
		idx[e.Key] = e
	}
	return idx
}

// MergedEntry is one key of the merged ranking. A nil metric means the key
// was absent from that source and its rank on that side is the sentinel.
type MergedEntry struct {
	Key             string
	PrimaryMetric   *float64
	PrimaryRank     int
	SecondaryMetric *float64
	SecondaryRank   int
	RankSum         int
	FinalRank       int
}

// Page is a 1-based inclusive window [Start, End] of the merged ranking.
type Page struct {
	Start   int
	End     int
	Entries []MergedEntry
}

// Result is a merged ranking and its pages.
type Result struct {
	Entries []MergedEntry
	Pages   []Page
}
