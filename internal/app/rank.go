package service

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/okian/rankmerge/internal/adapters/tabular"
	"github.com/okian/rankmerge/internal/domain/ranking"
	"github.com/okian/rankmerge/internal/domain/table"
	"github.com/okian/rankmerge/pkg/logger"
	"github.com/okian/rankmerge/pkg/metrics"
)

// Rank reads the primary and secondary sources, merges their rankings and
// writes the full ranking plus one file per page under the output directory
// next to primaryPath. Nothing is written unless both sources rank cleanly.
func (s *Service) Rank(ctx context.Context, primaryPath, secondaryPath string) (RankingResult, error) {
	r := s.begin(ctx, PipelineRank,
		logger.String("primary", primaryPath),
		logger.String("secondary", secondaryPath),
	)
	res, err := s.rank(ctx, primaryPath, secondaryPath)
	if err != nil {
		return RankingResult{}, s.end(ctx, r, err)
	}
	return res, s.end(ctx, r, nil,
		logger.String("output_dir", res.OutputDir),
		logger.Int("entries", len(res.Entries)),
		logger.Int("pages", len(res.Pages)),
	)
}

func (s *Service) rank(ctx context.Context, primaryPath, secondaryPath string) (RankingResult, error) {
	var primary, secondary table.Table
	rd := s.reader()

	// The two reads are independent; everything after them is sequential.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := rd.ReadTable(gctx, primaryPath)
		primary = t
		return err
	})
	g.Go(func() error {
		t, err := rd.ReadTable(gctx, secondaryPath)
		secondary = t
		return err
	})
	if err := g.Wait(); err != nil {
		return RankingResult{}, err
	}
	metrics.RecordRowsRead(PipelineRank, primary.Len()+secondary.Len())

	merged, err := s.rankTables(primary, secondary, primaryPath, secondaryPath)
	if err != nil {
		return RankingResult{}, err
	}

	dir := s.outputDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(primaryPath), dir)
	}
	res := RankingResult{OutputDir: dir, FullFile: filepath.Join(dir, s.fullFile), Result: merged}
	if err := s.writeRanking(ctx, &res); err != nil {
		return RankingResult{}, err
	}
	metrics.UpdateMergedEntries(len(merged.Entries))
	metrics.UpdatePagesWritten(len(merged.Pages))
	metrics.RecordFilesWritten(PipelineRank, 1+len(res.PageFiles))
	return res, nil
}

// RankTables merges two in-memory sources without touching the filesystem.
func (s *Service) RankTables(primary, secondary table.Table) (ranking.Result, error) {
	return s.rankTables(primary, secondary, "primary", "secondary")
}

func (s *Service) rankTables(primary, secondary table.Table, primaryName, secondaryName string) (ranking.Result, error) {
	a, err := ranking.Build(primary, s.spec.Key.Matcher, s.spec.Primary.Matcher)
	if err != nil {
		return ranking.Result{}, fmt.Errorf("%s: %w", primaryName, err)
	}
	b, err := ranking.Build(secondary, s.spec.Key.Matcher, s.spec.Secondary.Matcher)
	if err != nil {
		return ranking.Result{}, fmt.Errorf("%s: %w", secondaryName, err)
	}
	entries, pages := ranking.MergeRankings(a, b,
		ranking.WithJoinOrder(s.joinOrder),
		ranking.WithPageSize(s.pageSize),
		ranking.WithMaxPages(s.maxPages),
	)
	return ranking.Result{Entries: entries, Pages: pages}, nil
}

func (s *Service) writeRanking(ctx context.Context, res *RankingResult) error {
	if err := tabular.EnsureDir(res.OutputDir); err != nil {
		return err
	}
	header := s.spec.columns().Header()
	b := tabular.NewWriter().Batch()
	defer b.Discard()

	if err := b.AddTable(ctx, res.FullFile, table.New(header, ranking.Rows(res.Entries)...)); err != nil {
		return err
	}
	pageFiles := make([]string, 0, len(res.Pages))
	for _, p := range res.Pages {
		name := filepath.Join(res.OutputDir, p.FileName())
		if err := b.AddTable(ctx, name, table.New(header, ranking.Rows(p.Entries)...)); err != nil {
			return err
		}
		pageFiles = append(pageFiles, name)
	}
	if err := b.Commit(); err != nil {
		return err
	}
	res.PageFiles = pageFiles
	return nil
}
