package ranking_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/okian/rankmerge/internal/domain/ranking"
	"github.com/okian/rankmerge/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func rankTable(pairs ...any) ranking.RankTable {
	rows := make([]table.Row, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, table.Row{pairs[i].(string), fmt.Sprint(pairs[i+1])})
	}
	rt, err := ranking.Build(table.New([]string{"PACK", "METRIC"}, rows...), table.Contains("PACK"), table.Contains("METRIC"))
	if err != nil {
		panic(err)
	}
	return rt
}

func keys(entries []ranking.MergedEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func TestBuild(t *testing.T) {
	Convey("Given a table with duplicate keys and tied metrics", t, func() {
		tbl := table.New([]string{" Pack Name ", "WLOCK total"},
			table.Row{"P1", "10"},
			table.Row{"P2", "30"},
			table.Row{"P1", "99"},
			table.Row{"P3", "10"},
			table.Row{"P4", " 30 "},
		)

		Convey("When building the rank table", func() {
			rt, err := ranking.Build(tbl, table.Contains("PACK"), table.Contains("WLOCK"))
			So(err, ShouldBeNil)

			Convey("Then the first occurrence of a key is kept", func() {
				So(rt.Len(), ShouldEqual, 4)
				for _, e := range rt.Entries {
					if e.Key == "P1" {
						So(e.Metric, ShouldEqual, 10)
					}
				}
			})

			Convey("Then ranks are 1..N by descending metric, stable on ties", func() {
				got := make([]string, 0, rt.Len())
				for i, e := range rt.Entries {
					So(e.Rank, ShouldEqual, i+1)
					got = append(got, e.Key)
				}
				So(got, ShouldResemble, []string{"P2", "P4", "P1", "P3"})
			})
		})
	})

	Convey("Given a metric cell that is not a number", t, func() {
		tbl := table.New([]string{"PACK", "EVENT_COUNT"},
			table.Row{"P1", "5"},
			table.Row{"P2", "n/a"},
		)

		Convey("Then Build fails with a MalformedDataError naming the cell", func() {
			_, err := ranking.Build(tbl, table.Contains("PACK"), table.Tokens("EVENT", "COUNT"))
			So(errors.Is(err, ranking.ErrMalformedData), ShouldBeTrue)

			var mde *ranking.MalformedDataError
			So(errors.As(err, &mde), ShouldBeTrue)
			So(mde.Column, ShouldEqual, "EVENT_COUNT")
			So(mde.Row, ShouldEqual, 2)
			So(mde.Value, ShouldEqual, "n/a")
		})
	})

	Convey("Given metric cells beyond the float64 range", t, func() {
		tbl := table.New([]string{"PACK", "WLOCK"},
			table.Row{"P1", "-1e400"},
			table.Row{"P2", "7"},
			table.Row{"P3", "1e400"},
		)

		Convey("Then they rank as infinities", func() {
			rt, err := ranking.Build(tbl, table.Contains("PACK"), table.Contains("WLOCK"))
			So(err, ShouldBeNil)
			So(rt.Entries[0].Key, ShouldEqual, "P3")
			So(math.IsInf(rt.Entries[0].Metric, 1), ShouldBeTrue)
			So(rt.Entries[2].Key, ShouldEqual, "P1")
			So(math.IsInf(rt.Entries[2].Metric, -1), ShouldBeTrue)
		})
	})

	Convey("Given empty, NaN and hex metric cells", t, func() {
		for _, v := range []string{"", "  ", "NaN", "0x1p4", "-0X10"} {
			tbl := table.New([]string{"PACK", "WLOCK"}, table.Row{"P1", v})
			_, err := ranking.Build(tbl, table.Contains("PACK"), table.Contains("WLOCK"))
			So(errors.Is(err, ranking.ErrMalformedData), ShouldBeTrue)
		}
	})

	Convey("Given a table without the metric column", t, func() {
		tbl := table.New([]string{"PACK", "OTHER"}, table.Row{"P1", "1"})

		Convey("Then Build reports the missing column", func() {
			_, err := ranking.Build(tbl, table.Contains("PACK"), table.Contains("WLOCK"))
			So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a header-only table", t, func() {
		rt, err := ranking.Build(table.New([]string{"PACK", "WLOCK"}), table.Contains("PACK"), table.Contains("WLOCK"))

		Convey("Then the rank table is empty", func() {
			So(err, ShouldBeNil)
			So(rt.Len(), ShouldEqual, 0)
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given the two-source worked example", t, func() {
		a := rankTable("P1", 100, "P2", 50)
		b := rankTable("P2", 30, "P3", 10)

		Convey("When merging", func() {
			merged := ranking.Merge(a, b)

			Convey("Then entries are ordered by rank sum with dense final ranks", func() {
				So(keys(merged), ShouldResemble, []string{"P2", "P1", "P3"})
				So(merged[0].RankSum, ShouldEqual, 3)
				So(merged[1].RankSum, ShouldEqual, 4)
				So(merged[2].RankSum, ShouldEqual, 5)
				for i, e := range merged {
					So(e.FinalRank, ShouldEqual, i+1)
				}
			})

			Convey("Then absent sides carry the sentinel rank and no metric", func() {
				p1, p3 := merged[1], merged[2]
				So(p1.SecondaryRank, ShouldEqual, 3)
				So(p1.SecondaryMetric, ShouldBeNil)
				So(*p1.PrimaryMetric, ShouldEqual, 100)
				So(p3.PrimaryRank, ShouldEqual, 3)
				So(p3.PrimaryMetric, ShouldBeNil)
			})
		})
	})

	Convey("Given |A| = 5 and |B| = 8", t, func() {
		a := rankTable("A1", 5, "A2", 4, "A3", 3, "A4", 2, "ONLY_A", 1)
		b := rankTable("A1", 8, "A2", 7, "A3", 6, "A4", 5, "B1", 4, "B2", 3, "B3", 2, "B4", 1)

		Convey("Then a key present only in A gets B-rank 9", func() {
			So(ranking.SentinelRank(a, b), ShouldEqual, 9)
			for _, e := range ranking.Merge(a, b) {
				if e.Key == "ONLY_A" {
					So(e.SecondaryRank, ShouldEqual, 9)
					So(e.RankSum, ShouldEqual, 14)
				}
			}
		})

		Convey("Then every key of the union appears exactly once", func() {
			merged := ranking.Merge(a, b)
			So(len(merged), ShouldEqual, 9)
			seen := map[string]bool{}
			for _, e := range merged {
				So(seen[e.Key], ShouldBeFalse)
				seen[e.Key] = true
				So(e.RankSum, ShouldEqual, e.PrimaryRank+e.SecondaryRank)
			}
		})
	})

	Convey("Given equal rank sums", t, func() {
		a := rankTable("Z", 2, "A", 1)
		b := rankTable("A", 2, "Z", 1)

		Convey("When joining by key", func() {
			merged := ranking.Merge(a, b, ranking.WithJoinOrder(ranking.JoinByKey))
			Convey("Then ties keep lexicographic key order", func() {
				So(keys(merged), ShouldResemble, []string{"A", "Z"})
			})
		})

		Convey("When joining by source", func() {
			merged := ranking.Merge(a, b, ranking.WithJoinOrder(ranking.JoinBySource))
			Convey("Then ties keep primary rank order", func() {
				So(keys(merged), ShouldResemble, []string{"Z", "A"})
			})
		})
	})

	Convey("Given two empty rank tables", t, func() {
		merged, pages := ranking.MergeRankings(ranking.RankTable{}, ranking.RankTable{})

		Convey("Then there are no entries and no pages", func() {
			So(merged, ShouldBeEmpty)
			So(pages, ShouldBeEmpty)
		})
	})
}

func TestPaginate(t *testing.T) {
	entries := func(n int) []ranking.MergedEntry {
		out := make([]ranking.MergedEntry, n)
		for i := range out {
			out[i] = ranking.MergedEntry{Key: fmt.Sprintf("K%d", i), FinalRank: i + 1}
		}
		return out
	}

	Convey("Given fewer entries than one page", t, func() {
		pages := ranking.Paginate(entries(7), 1000, 4)

		Convey("Then exactly one page covers them", func() {
			So(len(pages), ShouldEqual, 1)
			So(pages[0].FileName(), ShouldEqual, "Top1-7.csv")
			So(len(pages[0].Entries), ShouldEqual, 7)
		})
	})

	Convey("Given 2500 entries", t, func() {
		pages := ranking.Paginate(entries(2500), 1000, 4)

		Convey("Then three pages are produced with a short last page", func() {
			So(len(pages), ShouldEqual, 3)
			So(pages[0].FileName(), ShouldEqual, "Top1-1000.csv")
			So(pages[1].FileName(), ShouldEqual, "Top1001-2000.csv")
			So(pages[2].FileName(), ShouldEqual, "Top2001-2500.csv")
		})
	})

	Convey("Given more entries than the page cap", t, func() {
		all := entries(4321)
		pages := ranking.Paginate(all, 1000, 4)

		Convey("Then four pages cover exactly the first 4000 entries in order", func() {
			So(len(pages), ShouldEqual, 4)
			So(pages[3].FileName(), ShouldEqual, "Top3001-4000.csv")

			var joined []ranking.MergedEntry
			for _, p := range pages {
				joined = append(joined, p.Entries...)
			}
			So(joined, ShouldResemble, all[:4000])
		})

		Convey("Then removing the cap pages everything", func() {
			pages := ranking.Paginate(all, 1000, 0)
			So(len(pages), ShouldEqual, 5)
			So(pages[4].FileName(), ShouldEqual, "Top4001-4321.csv")
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given the worked example merged", t, func() {
		merged := ranking.Merge(rankTable("P1", 100, "P2", 50.5), rankTable("P2", 30, "P3", 10))

		Convey("Then the default header names both metrics and their ranks", func() {
			So(ranking.DefaultColumns().Header(), ShouldResemble, []string{
				"PACK", "WLOCK", "WLOCK_RANK", "EVENT_COUNT", "EVENT_COUNT_RANK", "RANK_SUM", "FINAL_RANK",
			})
		})

		Convey("Then rows render metrics plainly and leave absent metrics empty", func() {
			rows := ranking.Rows(merged)
			So(rows[0], ShouldResemble, table.Row{"P2", "50.5", "2", "30", "1", "3", "1"})
			So(rows[1], ShouldResemble, table.Row{"P1", "100", "1", "", "3", "4", "2"})
			So(rows[2], ShouldResemble, table.Row{"P3", "", "3", "10", "2", "5", "3"})
		})
	})
}
