package main

import (
	"flag"
	"os"
	"strconv"
	"time"
)

type CLIConfig struct {
	ConfigPath  string
	Jobs        int
	Batches     int
	Sleep       time.Duration
	FailEvery   int
	MetricsAddr string
	Debug       bool
}

func parseFlags(args []string) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet("tpoolstress", flag.ContinueOnError)

	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("TPOOL_CONFIG", ""),
		"Path to pool YAML config, defaults are used when empty (env: TPOOL_CONFIG)")

	fs.IntVar(&cfg.Jobs, "jobs",
		getEnvInt("TPOOL_JOBS", 100),
		"Jobs per batch (env: TPOOL_JOBS)")

	fs.IntVar(&cfg.Batches, "batches",
		getEnvInt("TPOOL_BATCHES", 1),
		"Number of batches to run (env: TPOOL_BATCHES)")

	fs.DurationVar(&cfg.Sleep, "sleep",
		getEnvDuration("TPOOL_SLEEP", 50*time.Millisecond),
		"Time each job sleeps (env: TPOOL_SLEEP)")

	fs.IntVar(&cfg.FailEvery, "fail-every",
		getEnvInt("TPOOL_FAIL_EVERY", 0),
		"Make every n-th job fail, 0 to disable (env: TPOOL_FAIL_EVERY)")

	fs.StringVar(&cfg.MetricsAddr, "metrics-addr",
		getEnv("TPOOL_METRICS_ADDR", ""),
		"Serve prometheus metrics on this address while running (env: TPOOL_METRICS_ADDR)")

	fs.BoolVar(&cfg.Debug, "debug", false, "Log pool lifecycle")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
