package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	EnvPrefix     = "RANKMERGE_"
	EnvConfigFile = "RANKMERGE_CONFIG"
	envNestDelim  = "__"

	// configFileKey is RANKMERGE_CONFIG after prefix stripping; Load
	// consumes it and never unmarshals it.
	configFileKey = "config"
)

// LoadOption applies a configuration option to Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file string
}

// WithFile reads path instead of the file named by RANKMERGE_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.file = path
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. YAML file from WithFile or RANKMERGE_CONFIG
//  3. env (prefix RANKMERGE_, "__" separates nested keys)
func Load(ctx context.Context, opts ...LoadOption) (*Config, error) {
	o := loadOptions{file: os.Getenv(EnvConfigFile)}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, o.file, err)
		}
	}

	// RANKMERGE_RANKING__PAGE_SIZE -> ranking.page_size
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if s == configFileKey {
			return ""
		}
		return strings.ReplaceAll(s, envNestDelim, ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := New()
	// ZeroFields replaces default slices instead of overwriting them index by
	// index; "a,b" strings from env become lists.
	dc := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf", DecoderConfig: dc}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := Validate(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// metricName matches Prometheus metric and label name segments.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the struct tags of cfg.
func Validate(ctx context.Context, cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("metricname", func(fl validator.FieldLevel) bool {
		return metricName.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := v.StructCtx(ctx, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
