package tpool

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the pool options.
type Config struct {
	MinWorkers           uint32        `yaml:"min_workers"`
	MaxWorkers           uint32        `yaml:"max_workers"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	ShutdownPollInterval time.Duration `yaml:"shutdown_poll_interval"`
	MetricsPrefix        string        `yaml:"metrics_prefix"`
}

func DefaultConfig() Config {
	return Config{
		MinWorkers:           0,
		MaxWorkers:           uint32(runtime.NumCPU()),
		IdleTimeout:          defaultIdleTimeout,
		ShutdownPollInterval: defaultPollInterval,
		MetricsPrefix:        defaultMetricPrefix,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	// #nosec G304 -- path comes from the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxWorkers == 0 {
		return fmt.Errorf("%w: max_workers must be positive", ErrInvalidConfig)
	}
	if c.MaxWorkers > math.MaxInt32 {
		return fmt.Errorf("%w: max_workers %d exceeds %d", ErrInvalidConfig, c.MaxWorkers, math.MaxInt32)
	}
	if c.MinWorkers > c.MaxWorkers {
		return fmt.Errorf("%w: min_workers %d exceeds max_workers %d", ErrInvalidConfig, c.MinWorkers, c.MaxWorkers)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("%w: idle_timeout must not be negative", ErrInvalidConfig)
	}
	if c.ShutdownPollInterval < 0 {
		return fmt.Errorf("%w: shutdown_poll_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Options() []Option {
	return []Option{
		WithIdleTimeout(c.IdleTimeout),
		WithShutdownPollInterval(c.ShutdownPollInterval),
		WithMetricsPrefix(c.MetricsPrefix),
	}
}

// NewThreadPool builds a pool from c; extra options are applied last.
func (c Config) NewThreadPool(extra ...Option) *ThreadPool {
	return NewThreadPool(c.MinWorkers, c.MaxWorkers, append(c.Options(), extra...)...)
}
