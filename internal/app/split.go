package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/rankmerge/internal/adapters/tabular"
	"github.com/okian/rankmerge/internal/domain/splitter"
	"github.com/okian/rankmerge/pkg/logger"
	"github.com/okian/rankmerge/pkg/metrics"
)

// Split partitions every row of path, the first line included, into the
// configured number of chunk files in a sibling directory. Existing chunk
// files are overwritten.
func (s *Service) Split(ctx context.Context, path string) (SplitResult, error) {
	r := s.begin(ctx, PipelineSplit, logger.String("path", path), logger.Int("parts", s.parts))
	res, err := s.split(ctx, path)
	if err != nil {
		return SplitResult{}, s.end(ctx, r, err)
	}
	return res, s.end(ctx, r, nil,
		logger.String("output_dir", res.OutputDir),
		logger.Any("chunks", res.Chunks),
	)
}

func (s *Service) split(ctx context.Context, path string) (SplitResult, error) {
	// Chunks reproduce the input: every record, blank lines and a leading BOM
	// included.
	rd := s.reader(tabular.WithRaggedRows(), tabular.WithBlankRows(), tabular.WithBOM())
	rows, err := rd.ReadRows(ctx, path)
	if err != nil {
		return SplitResult{}, err
	}
	metrics.RecordRowsRead(PipelineSplit, len(rows))

	chunks, err := splitter.Partition(rows, s.parts)
	if err != nil {
		return SplitResult{}, fmt.Errorf("%s: %w", path, err)
	}

	dir := s.layout.OutputDir(path)
	if err := tabular.EnsureDir(dir); err != nil {
		return SplitResult{}, err
	}

	// xlsx chunks are written as comma-separated text.
	delim := rd.Delimiter(path)
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".xlsx" || ext == ".xlsm" {
		delim = ','
	}
	b := tabular.NewWriter(tabular.WithOutputDelimiter(delim), tabular.WithCRLF()).Batch()
	defer b.Discard()

	res := SplitResult{OutputDir: dir, Files: make([]string, len(chunks)), Chunks: make([]int, len(chunks))}
	for i, chunk := range chunks {
		name := filepath.Join(dir, s.layout.FileName(i))
		if err := b.Add(ctx, name, chunk); err != nil {
			return SplitResult{}, err
		}
		res.Files[i] = name
		res.Chunks[i] = len(chunk)
	}
	if err := b.Commit(); err != nil {
		return SplitResult{}, err
	}
	metrics.RecordFilesWritten(PipelineSplit, len(chunks))
	return res, nil
}
