package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/okian/rankmerge/internal/adapters/matcher"
	service "github.com/okian/rankmerge/internal/app"
	"github.com/okian/rankmerge/internal/config"
	"github.com/okian/rankmerge/internal/domain/ranking"
	"github.com/okian/rankmerge/internal/domain/splitter"
	"github.com/okian/rankmerge/pkg/logger"
)

// NewService builds the pipeline service described by cfg.
func NewService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	spec, err := rankingSpec(cfg.Ranking)
	if err != nil {
		return nil, err
	}
	delim, _ := utf8.DecodeRuneInString(cfg.Input.Delimiter)
	if delim == utf8.RuneError {
		delim = 0
	}

	layout := splitter.DefaultLayout()
	layout.DirSuffix = cfg.Split.DirSuffix
	layout.FilePrefix = cfg.Split.FilePrefix

	return service.New(
		service.WithLogger(log),
		service.WithSplitParts(cfg.Split.Parts),
		service.WithSplitLayout(layout),
		service.WithDelimiter(delim),
		service.WithSheet(cfg.Input.Sheet),
		service.WithRankingSpec(spec),
		service.WithPagination(cfg.Ranking.PageSize, cfg.Ranking.MaxPages),
		service.WithOutputNames(cfg.Ranking.OutputDir, cfg.Ranking.FullFile),
		service.WithJoinOrder(ranking.JoinOrder(cfg.Ranking.JoinOrder)),
	), nil
}

func rankingSpec(rc config.RankingConfig) (service.RankingSpec, error) {
	spec := service.DefaultRankingSpec()
	for _, c := range []struct {
		cfg config.ColumnConfig
		dst *service.Column
	}{
		{rc.Key, &spec.Key},
		{rc.Primary, &spec.Primary},
		{rc.Secondary, &spec.Secondary},
	} {
		m, err := matcher.Build(c.cfg.Tokens, c.cfg.Expr, c.dst.Matcher)
		if err != nil {
			return service.RankingSpec{}, fmt.Errorf("column %s: %w", c.cfg.Name, err)
		}
		if c.cfg.Name != "" {
			c.dst.Name = c.cfg.Name
		}
		c.dst.Matcher = m
	}
	return spec, nil
}
