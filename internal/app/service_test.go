package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/rankmerge/internal/app"
	"github.com/okian/rankmerge/internal/adapters/tabular"
	"github.com/okian/rankmerge/internal/domain/ranking"
	"github.com/okian/rankmerge/internal/domain/splitter"
	"github.com/okian/rankmerge/internal/domain/table"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	s := strings.TrimSuffix(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestSplit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file of 23 lines", t, func() {
		dir := t.TempDir()
		var b strings.Builder
		for i := 1; i <= 23; i++ {
			fmt.Fprintf(&b, "row%d,\"a, %d\"\n", i, i)
		}
		path := writeInput(t, dir, "events.csv", b.String())
		svc := service.New()

		Convey("When splitting it", func() {
			res, err := svc.Split(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then ten files are written to the sibling _split directory", func() {
				So(res.OutputDir, ShouldEqual, filepath.Join(dir, "events_split"))
				So(len(res.Files), ShouldEqual, 10)
				So(res.Files[0], ShouldEqual, filepath.Join(dir, "events_split", "output_1.csv"))
				So(res.Files[9], ShouldEqual, filepath.Join(dir, "events_split", "output_10.csv"))
			})

			Convey("Then files 1..9 hold floor(23/10) rows and the last holds the rest", func() {
				So(res.Chunks, ShouldResemble, []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 5})
			})

			Convey("Then concatenating the chunks reproduces the input with CRLF line ends", func() {
				var got strings.Builder
				for _, f := range res.Files {
					raw, err := os.ReadFile(f)
					So(err, ShouldBeNil)
					got.Write(raw)
				}
				So(got.String(), ShouldEqual, strings.ReplaceAll(b.String(), "\n", "\r\n"))
			})

			Convey("Then splitting again overwrites the same files", func() {
				again, err := svc.Split(ctx, path)
				So(err, ShouldBeNil)
				So(again.Files, ShouldResemble, res.Files)
				entries, err := os.ReadDir(res.OutputDir)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 10)
			})
		})
	})

	Convey("Given ten lines of which two are empty", t, func() {
		path := writeInput(t, t.TempDir(), "gaps.csv", "r1\nr2\n\nr4\nr5\n\nr7\nr8\nr9\nr10\n")

		Convey("When splitting it", func() {
			res, err := service.New().Split(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then the empty lines count as rows and are written back", func() {
				So(res.Chunks, ShouldResemble, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
				third, err := os.ReadFile(res.Files[2])
				So(err, ShouldBeNil)
				So(string(third), ShouldEqual, "\r\n")
				last, err := os.ReadFile(res.Files[9])
				So(err, ShouldBeNil)
				So(string(last), ShouldEqual, "r10\r\n")
			})
		})
	})

	Convey("Given a file that starts with a byte order mark", t, func() {
		path := writeInput(t, t.TempDir(), "bom.csv", "\ufeffid,v\n1,2\n")

		Convey("When splitting it in two", func() {
			res, err := service.New(service.WithSplitParts(2)).Split(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then the mark is carried into the first chunk", func() {
				first, err := os.ReadFile(res.Files[0])
				So(err, ShouldBeNil)
				So(string(first), ShouldEqual, "\ufeffid,v\r\n")
			})
		})
	})

	Convey("Given a file with fewer rows than parts", t, func() {
		path := writeInput(t, t.TempDir(), "small.tsv", "a\tb\nc\td\ne\n")

		Convey("When splitting with a custom layout", func() {
			svc := service.New(
				service.WithSplitParts(4),
				service.WithSplitLayout(splitter.Layout{DirSuffix: "_parts", FilePrefix: "part-", FileExt: ".tsv"}),
			)
			res, err := svc.Split(ctx, path)

			Convey("Then leading files are empty, the last holds every row, and tabs are kept", func() {
				So(err, ShouldBeNil)
				So(res.Chunks, ShouldResemble, []int{0, 0, 0, 3})
				So(filepath.Base(res.Files[3]), ShouldEqual, "part-4.tsv")
				So(readLines(t, res.Files[0]), ShouldBeEmpty)
				So(readLines(t, res.Files[3]), ShouldResemble, []string{"a\tb", "c\td", "e"})
			})
		})
	})

	Convey("Given an empty file", t, func() {
		path := writeInput(t, t.TempDir(), "empty.csv", "")

		Convey("When splitting it", func() {
			_, err := service.New().Split(ctx, path)

			Convey("Then the empty input error is returned and nothing is written", func() {
				So(errors.Is(err, splitter.ErrEmptyInput), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "the file is empty")
				So(service.ErrorKind(err), ShouldEqual, service.KindEmptyInput)
				_, statErr := os.Stat(filepath.Join(filepath.Dir(path), "empty_split"))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := service.New().Split(ctx, filepath.Join(t.TempDir(), "nope.csv"))

		Convey("Then an io error wrapping os.ErrNotExist is returned", func() {
			So(service.ErrorKind(err), ShouldEqual, service.KindIO)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}

const (
	primaryCSV = "PACK, WLOCK_TOTAL ,OTHER\nP1,100,x\nP2,50,y\nP1,7,z\nP4,50,w\n"
	eventCSV   = "pack,Event Count\nP2,30\nP3,10\nP4,30\n"
)

func TestRank(t *testing.T) {
	ctx := context.Background()

	Convey("Given a WLOCK source and an EVENT_COUNT source", t, func() {
		dir := t.TempDir()
		primary := writeInput(t, dir, "wlock.csv", primaryCSV)
		secondary := writeInput(t, t.TempDir(), "events.csv", eventCSV)

		Convey("When ranking them", func() {
			res, err := service.New().Rank(ctx, primary, secondary)
			So(err, ShouldBeNil)

			Convey("Then the output lands next to the primary source", func() {
				So(res.OutputDir, ShouldEqual, filepath.Join(dir, "processed_rankings"))
				So(res.FullFile, ShouldEqual, filepath.Join(dir, "processed_rankings", "full_rankings.csv"))
			})

			Convey("Then the full ranking matches the golden file", func() {
				got, err := os.ReadFile(res.FullFile)
				So(err, ShouldBeNil)
				g := goldie.New(t,
					goldie.WithFixtureDir("testdata/golden"),
					goldie.WithNameSuffix(".golden"),
				)
				g.Assert(t, "full_rankings", got)
			})

			Convey("Then a single page holds every entry", func() {
				So(len(res.Pages), ShouldEqual, 1)
				So(res.PageFiles, ShouldResemble, []string{filepath.Join(res.OutputDir, "Top1-4.csv")})
				So(readLines(t, res.PageFiles[0]), ShouldResemble, readLines(t, res.FullFile))
			})
		})
	})

	Convey("Given sources larger than the page cap", t, func() {
		dir := t.TempDir()
		var a, b strings.Builder
		a.WriteString("PACK,WLOCK\n")
		b.WriteString("PACK,EVENT_COUNT\n")
		for i := 0; i < 4321; i++ {
			fmt.Fprintf(&a, "K%05d,%d\n", i, 10000-i)
			fmt.Fprintf(&b, "K%05d,%d\n", i, i%97)
		}
		primary := writeInput(t, dir, "a.csv", a.String())
		secondary := writeInput(t, dir, "b.csv", b.String())

		Convey("When ranking them", func() {
			res, err := service.New().Rank(ctx, primary, secondary)
			So(err, ShouldBeNil)

			Convey("Then four pages are written and they match the first 4000 full rows", func() {
				So(len(res.Entries), ShouldEqual, 4321)
				So(len(res.PageFiles), ShouldEqual, 4)
				So(filepath.Base(res.PageFiles[3]), ShouldEqual, "Top3001-4000.csv")

				full := readLines(t, res.FullFile)
				So(len(full), ShouldEqual, 4322)
				var paged []string
				for _, p := range res.PageFiles {
					lines := readLines(t, p)
					So(lines[0], ShouldEqual, full[0])
					paged = append(paged, lines[1:]...)
				}
				So(paged, ShouldResemble, full[1:4001])
			})
		})
	})

	Convey("Given a secondary source without the event count column", t, func() {
		dir := t.TempDir()
		primary := writeInput(t, dir, "wlock.csv", primaryCSV)
		secondary := writeInput(t, dir, "events.csv", "PACK,EVENTS\nP1,3\n")

		Convey("When ranking them", func() {
			_, err := service.New().Rank(ctx, primary, secondary)

			Convey("Then the missing token is named and nothing is written", func() {
				So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "EVENT+COUNT")
				So(err.Error(), ShouldContainSubstring, secondary)
				So(service.ErrorKind(err), ShouldEqual, service.KindColumnNotFound)
				_, statErr := os.Stat(filepath.Join(dir, "processed_rankings"))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})

	Convey("Given a non-numeric metric", t, func() {
		dir := t.TempDir()
		primary := writeInput(t, dir, "wlock.csv", "PACK,WLOCK\nP1,lots\n")
		secondary := writeInput(t, dir, "events.csv", eventCSV)

		Convey("Then ranking fails with the malformed data kind", func() {
			_, err := service.New().Rank(ctx, primary, secondary)
			So(errors.Is(err, ranking.ErrMalformedData), ShouldBeTrue)
			So(service.ErrorKind(err), ShouldEqual, service.KindMalformedData)
		})
	})

	Convey("Given an absolute output directory and custom names", t, func() {
		dir := t.TempDir()
		out := filepath.Join(t.TempDir(), "ranked")
		primary := writeInput(t, dir, "wlock.csv", primaryCSV)
		secondary := writeInput(t, dir, "events.csv", eventCSV)
		svc := service.New(
			service.WithOutputNames(out, "all.csv"),
			service.WithPagination(2, 1),
			service.WithJoinOrder(ranking.JoinBySource),
		)

		Convey("When ranking", func() {
			res, err := svc.Rank(ctx, primary, secondary)

			Convey("Then files go to that directory with the configured paging", func() {
				So(err, ShouldBeNil)
				So(res.FullFile, ShouldEqual, filepath.Join(out, "all.csv"))
				So(res.PageFiles, ShouldResemble, []string{filepath.Join(out, "Top1-2.csv")})
				So(len(readLines(t, res.FullFile)), ShouldEqual, 5)
			})
		})
	})
}

func TestRankTables(t *testing.T) {
	Convey("Given the two-source worked example in memory", t, func() {
		a := table.New([]string{"PACK", "WLOCK"}, table.Row{"P1", "100"}, table.Row{"P2", "50"})
		b := table.New([]string{"PACK", "EVENT_COUNT"}, table.Row{"P2", "30"}, table.Row{"P3", "10"})

		Convey("When merging with a custom spec", func() {
			spec := service.DefaultRankingSpec()
			spec.Primary.Name = "LOCKS"
			res, err := service.New(service.WithRankingSpec(spec)).RankTables(a, b)

			Convey("Then the merged order is P2, P1, P3", func() {
				So(err, ShouldBeNil)
				got := make([]string, len(res.Entries))
				for i, e := range res.Entries {
					got[i] = fmt.Sprintf("%s:%d:%d", e.Key, e.RankSum, e.FinalRank)
				}
				So(got, ShouldResemble, []string{"P2:3:1", "P1:4:2", "P3:5:3"})
				So(len(res.Pages), ShouldEqual, 1)
			})
		})

		Convey("When the primary table has no header", func() {
			_, err := service.New().RankTables(table.Table{}, b)

			Convey("Then the error names the primary side", func() {
				So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
				So(err.Error(), ShouldStartWith, "primary: ")
			})
		})
	})
}

func TestErrorKind(t *testing.T) {
	Convey("Given errors of every kind", t, func() {
		cases := []struct {
			err  error
			kind string
		}{
			{nil, ""},
			{context.Canceled, service.KindCanceled},
			{fmt.Errorf("x: %w", context.DeadlineExceeded), service.KindCanceled},
			{splitter.ErrEmptyInput, service.KindEmptyInput},
			{&table.ColumnNotFoundError{Token: "X"}, service.KindColumnNotFound},
			{&ranking.MalformedDataError{}, service.KindMalformedData},
			{&tabular.MalformedFileError{Path: "p"}, service.KindMalformedData},
			{&tabular.IOError{Op: "open", Path: "p"}, service.KindIO},
			{errors.New("boom"), service.KindInternal},
		}

		Convey("Then each maps to its kind", func() {
			for _, c := range cases {
				So(service.ErrorKind(c.err), ShouldEqual, c.kind)
			}
		})
	})
}
