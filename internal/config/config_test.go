package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/rankmerge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it reproduces the standard output layout", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Split.Parts, convey.ShouldEqual, 10)
			convey.So(cfg.Split.DirSuffix, convey.ShouldEqual, "_split")
			convey.So(cfg.Split.FilePrefix, convey.ShouldEqual, "output_")
			convey.So(cfg.Ranking.OutputDir, convey.ShouldEqual, "processed_rankings")
			convey.So(cfg.Ranking.FullFile, convey.ShouldEqual, "full_rankings.csv")
			convey.So(cfg.Ranking.PageSize, convey.ShouldEqual, 1000)
			convey.So(cfg.Ranking.MaxPages, convey.ShouldEqual, 4)
			convey.So(cfg.Ranking.Secondary.Tokens, convey.ShouldResemble, []string{"EVENT", "COUNT"})
			convey.So(cfg.Metrics.RefreshInterval, convey.ShouldEqual, 10*time.Second)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(config.Validate(context.Background(), cfg), convey.ShouldBeNil)
		})
	})
}
