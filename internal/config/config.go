// Package config defines the rankmerge configuration and its loading.
//
// Conventions:
// - New builds a Config holding every default.
// - Load layers a YAML file and environment variables on top of New.
// - Errors wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// BaseDir confines paths accepted by the HTTP API; empty allows any path.
	BaseDir string `koanf:"base_dir"`

	Split   SplitConfig   `koanf:"split"`
	Input   InputConfig   `koanf:"input"`
	Ranking RankingConfig `koanf:"ranking"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// SplitConfig shapes the chunk files of the split pipeline.
type SplitConfig struct {
	Parts      int    `koanf:"parts" validate:"min=1"`
	DirSuffix  string `koanf:"dir_suffix" validate:"required"`
	FilePrefix string `koanf:"file_prefix" validate:"required"`
}

// InputConfig controls how input files are parsed.
type InputConfig struct {
	// Delimiter is a single character; empty infers it from the extension.
	Delimiter string `koanf:"delimiter" validate:"max=1"`
	// Sheet names the worksheet read from .xlsx inputs; empty is the first.
	Sheet string `koanf:"sheet"`
}

// RankingConfig shapes the ranking pipeline and its output.
type RankingConfig struct {
	OutputDir string `koanf:"output_dir" validate:"required"`
	FullFile  string `koanf:"full_file" validate:"required"`
	PageSize  int    `koanf:"page_size" validate:"min=1"`
	// MaxPages caps page files; 0 writes every page.
	MaxPages  int    `koanf:"max_pages" validate:"min=0"`
	JoinOrder string `koanf:"join_order" validate:"oneof=key source"`

	Key       ColumnConfig `koanf:"key"`
	Primary   ColumnConfig `koanf:"primary"`
	Secondary ColumnConfig `koanf:"secondary"`
}

// ColumnConfig locates one semantic column and names it in the output.
// Expr, a CEL expression over name and upper, takes precedence over Tokens.
type ColumnConfig struct {
	Name   string   `koanf:"name" validate:"required"`
	Tokens []string `koanf:"tokens" validate:"required_without=Expr"`
	Expr   string   `koanf:"expr"`
}

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gt=0"`

	// Namespace replaces "rankmerge" in every metric name.
	Namespace string `koanf:"namespace" validate:"omitempty,metricname"`
	// Prefix is inserted before each metric name, e.g. rankmerge_pipeline_<prefix>_runs_total.
	Prefix string `koanf:"prefix" validate:"omitempty,metricname"`
	// Labels are constant labels attached to every series.
	Labels map[string]string `koanf:"labels" validate:"dive,keys,metricname,endkeys,required"`
	// DurationBuckets overrides the pipeline duration histogram buckets, in seconds.
	DurationBuckets []float64 `koanf:"duration_buckets" validate:"dive,gt=0"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":9080",
		Split: SplitConfig{
			Parts:      10,
			DirSuffix:  "_split",
			FilePrefix: "output_",
		},
		Ranking: RankingConfig{
			OutputDir: "processed_rankings",
			FullFile:  "full_rankings.csv",
			PageSize:  1000,
			MaxPages:  4,
			JoinOrder: "key",
			Key:       ColumnConfig{Name: "PACK", Tokens: []string{"PACK"}},
			Primary:   ColumnConfig{Name: "WLOCK", Tokens: []string{"WLOCK"}},
			Secondary: ColumnConfig{Name: "EVENT_COUNT", Tokens: []string{"EVENT", "COUNT"}},
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			RefreshInterval: 10 * time.Second,
		},
	}
}
