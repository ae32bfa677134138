package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. PREP_SPLIT_FRACTION.
const EnvPrefix = "PREP"

// Config represents the complete preprocessing configuration
type Config struct {
	Input  InputConfig   `yaml:"input" envconfig:"INPUT"`
	Prep   PrepConfig    `yaml:"prep" envconfig:"PREP"`
	Split  SplitConfig   `yaml:"split" envconfig:"SPLIT"`
	Output OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Log    LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the dataset
type InputConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// PrepConfig selects imputation and standardization policies
type PrepConfig struct {
	Impute       string `yaml:"impute" validate:"omitempty,oneof=running column"`
	ZeroVariance string `yaml:"zero_variance" split_words:"true" validate:"omitempty,oneof=error propagate center"`
}

// SplitConfig controls the train/test partition
type SplitConfig struct {
	// Fraction is a pointer so an explicit 0 survives default filling.
	Fraction   *float64 `yaml:"fraction" validate:"omitempty,gte=0,lte=1"`
	Seed       int64    `yaml:"seed"`
	FitOnTrain bool     `yaml:"fit_on_train" split_words:"true"`
}

// OutputConfig controls what gets printed or plotted
type OutputConfig struct {
	Format  string `yaml:"format" validate:"omitempty,oneof=plain table"`
	Preview int    `yaml:"preview" validate:"gte=0"`
	PlotDir string `yaml:"plot_dir" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// DefaultFraction is the training share used when none is configured.
const DefaultFraction = 0.8

// Load reads the optional YAML file at path, applies PREP_* environment
// overrides, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to load config from file")
		}
	}

	// Only variables that are set touch cfg; no envconfig defaults are used
	// so file values are not clobbered.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config from env")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func loadFromFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(raw, cfg)
}

func (c *Config) applyDefaults() {
	if c.Prep.Impute == "" {
		c.Prep.Impute = "running"
	}
	if c.Prep.ZeroVariance == "" {
		c.Prep.ZeroVariance = "error"
	}
	if c.Split.Fraction == nil {
		f := DefaultFraction
		c.Split.Fraction = &f
	}
	if c.Output.Format == "" {
		c.Output.Format = "plain"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// TrainFraction returns the configured training share.
func (c *Config) TrainFraction() float64 {
	if c.Split.Fraction == nil {
		return DefaultFraction
	}
	return *c.Split.Fraction
}
