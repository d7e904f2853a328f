package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/sysreport/internal/report"
)

const envPrefix = "SYSREPORT_"

// MaxInterval is the longest interval, in seconds, a time.Duration can hold.
const MaxInterval = int(math.MaxInt64 / int64(time.Second))

var (
	ErrInvalidInterval = errors.New("interval must be a positive integer")
	ErrInvalidFormat   = errors.New("invalid format, choose from 'text', 'json', or 'csv'")
	ErrInvalidLogLevel = errors.New("invalid log level, choose from 'debug', 'info', 'warn', or 'error'")
)

// Config carries runtime options for sysreport.
type Config struct {
	Interval  int    `yaml:"interval" env:"INTERVAL"` // seconds between cycles
	Format    string `yaml:"format" env:"FORMAT"`
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	TUI       bool   `yaml:"tui" env:"TUI"`
	Count     int    `yaml:"count" env:"COUNT"` // cycles to run, 0 = until interrupted
}

func Default() Config {
	return Config{
		Interval:  10,
		Format:    string(report.Text),
		OutputDir: ".",
		LogLevel:  "info",
	}
}

// Load builds a Config from defaults, an optional YAML file and SYSREPORT_* environment
// overrides. A missing file is not an error. Flags are applied by the caller afterwards.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

// Validate rejects values the loop cannot run with.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, c.Interval)
	}
	if c.Interval > MaxInterval {
		return fmt.Errorf("%w: %d exceeds %d seconds", ErrInvalidInterval, c.Interval, MaxInterval)
	}
	if err := c.ValidateFormat(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative: got %d", c.Count)
	}
	return nil
}

// ValidateFormat checks only the report encoding.
func (c Config) ValidateFormat() error {
	if _, err := report.ParseEncoding(c.Format); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Format)
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

func (c Config) Period() time.Duration { return time.Duration(c.Interval) * time.Second }

// Encoding is only meaningful after Validate succeeded.
func (c Config) Encoding() report.Encoding { return report.Encoding(c.Format) }
