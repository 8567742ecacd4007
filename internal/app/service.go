// Package service runs the two file pipelines: splitting one table into
// chunk files and merging two ranking sources into one ranked output.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rankmerge/internal/adapters/tabular"
	"github.com/okian/rankmerge/internal/domain/ranking"
	"github.com/okian/rankmerge/internal/domain/splitter"
	"github.com/okian/rankmerge/internal/domain/table"
	"github.com/okian/rankmerge/pkg/logger"
	"github.com/okian/rankmerge/pkg/metrics"
)

// Pipeline names used in logs and metric labels.
const (
	PipelineSplit = "split"
	PipelineRank  = "rank"
)

// Column locates one semantic column and names it in the output.
type Column struct {
	Name    string
	Matcher table.Matcher
}

// RankingSpec describes the key column and the two metric columns.
type RankingSpec struct {
	Key       Column
	Primary   Column
	Secondary Column
}

// DefaultRankingSpec matches PACK, WLOCK and EVENT+COUNT headers.
func DefaultRankingSpec() RankingSpec {
	return RankingSpec{
		Key:       Column{Name: "PACK", Matcher: table.Contains("PACK")},
		Primary:   Column{Name: "WLOCK", Matcher: table.Contains("WLOCK")},
		Secondary: Column{Name: "EVENT_COUNT", Matcher: table.Tokens("EVENT", "COUNT")},
	}
}

func (rs RankingSpec) columns() ranking.Columns {
	return ranking.Columns{Key: rs.Key.Name, Primary: rs.Primary.Name, Secondary: rs.Secondary.Name}
}

// SplitResult describes the chunk files written by Split.
type SplitResult struct {
	OutputDir string
	Files     []string
	// Chunks holds the row count of each file, in file order.
	Chunks []int
}

// RankingResult describes the files written by Rank.
type RankingResult struct {
	OutputDir string
	FullFile  string
	PageFiles []string
	ranking.Result
}

// Service orchestrates read, compute and write for both pipelines. It holds
// no per-run state and is safe for concurrent use.
type Service struct {
	parts     int
	layout    splitter.Layout
	delimiter rune
	sheet     string

	spec      RankingSpec
	pageSize  int
	maxPages  int
	outputDir string
	fullFile  string
	joinOrder ranking.JoinOrder

	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSplitParts sets the number of chunk files.
func WithSplitParts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parts = n
		}
	}
}

// WithSplitLayout sets the chunk directory and file naming.
func WithSplitLayout(l splitter.Layout) Option {
	return func(s *Service) {
		s.layout = l
	}
}

// WithDelimiter forces the input delimiter; zero infers it per file.
func WithDelimiter(d rune) Option {
	return func(s *Service) {
		s.delimiter = d
	}
}

// WithSheet selects the worksheet read from .xlsx inputs.
func WithSheet(name string) Option {
	return func(s *Service) {
		s.sheet = name
	}
}

// WithRankingSpec sets the columns the rank pipeline resolves and writes.
func WithRankingSpec(spec RankingSpec) Option {
	return func(s *Service) {
		s.spec = spec
	}
}

// WithPagination sets the page size and the page cap (0 = no cap).
func WithPagination(size, maxPages int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
		if maxPages >= 0 {
			s.maxPages = maxPages
		}
	}
}

// WithOutputNames sets the ranking output directory, relative to the primary
// input's directory unless absolute, and the full ranking file name.
func WithOutputNames(dir, fullFile string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
		if fullFile != "" {
			s.fullFile = fullFile
		}
	}
}

// WithJoinOrder sets how merged keys are ordered before the rank-sum sort.
func WithJoinOrder(order ranking.JoinOrder) Option {
	return func(s *Service) {
		if order != "" {
			s.joinOrder = order
		}
	}
}

// New constructs a Service with the default layout and ranking spec.
func New(opts ...Option) *Service {
	s := &Service{
		parts:     splitter.DefaultParts,
		layout:    splitter.DefaultLayout(),
		spec:      DefaultRankingSpec(),
		pageSize:  ranking.DefaultPageSize,
		maxPages:  ranking.DefaultMaxPages,
		outputDir: "processed_rankings",
		fullFile:  "full_rankings.csv",
		joinOrder: ranking.JoinByKey,
		logger:    logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) reader(extra ...tabular.ReaderOption) *tabular.Reader {
	opts := []tabular.ReaderOption{tabular.WithDelimiter(s.delimiter), tabular.WithSheet(s.sheet)}
	return tabular.NewReader(append(opts, extra...)...)
}

// run is the per-invocation bookkeeping shared by both pipelines.
type run struct {
	pipeline string
	log      logger.Logger
	start    time.Time
}

func (s *Service) begin(ctx context.Context, pipeline string, fields ...logger.Field) *run {
	r := &run{
		pipeline: pipeline,
		log:      s.logger.Named(pipeline).With(logger.String("run_id", uuid.NewString())),
		start:    s.now(),
	}
	r.log.Info(ctx, "pipeline started", fields...)
	return r
}

// end records the outcome of r and returns err unchanged.
func (s *Service) end(ctx context.Context, r *run, err error, fields ...logger.Field) error {
	elapsed := s.now().Sub(r.start)
	metrics.RecordPipelineDuration(r.pipeline, elapsed)
	fields = append(fields, logger.Duration("duration", elapsed))
	if err != nil {
		kind := ErrorKind(err)
		metrics.RecordPipelineRun(r.pipeline, "error")
		metrics.RecordPipelineError(r.pipeline, kind)
		r.log.Error(ctx, "pipeline failed", append(fields, logger.String("kind", kind), logger.Error(err))...)
		return err
	}
	metrics.RecordPipelineRun(r.pipeline, "ok")
	r.log.Info(ctx, "pipeline finished", fields...)
	return nil
}
