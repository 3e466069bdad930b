package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yongpi/tpool"
)

func TestParseFlags(t *testing.T) {
	t.Setenv("TPOOL_JOBS", "12")

	cfg, err := parseFlags([]string{"-sleep", "5ms", "-fail-every", "3"})
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Jobs)
	assert.Equal(t, 1, cfg.Batches)
	assert.Equal(t, 5*time.Millisecond, cfg.Sleep)
	assert.Equal(t, 3, cfg.FailEvery)
	assert.Empty(t, cfg.ConfigPath)
}

func TestRunBatch(t *testing.T) {
	pool := tpool.NewThreadPool(1, 4, tpool.WithLogger(quietLogger{}))
	defer pool.Close()

	s := runBatch(pool, 9, time.Millisecond, 3)
	assert.Equal(t, 6, s.ok)
	assert.Equal(t, 3, s.failed)
	assert.Equal(t, 0, s.rejected)

	pool.Shutdown(false)
	s = runBatch(pool, 2, time.Millisecond, 0)
	assert.Equal(t, 2, s.rejected)
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_workers: 1\nmax_workers: 2\nidle_timeout: 100ms\n"), 0600))

	err := run(&CLIConfig{ConfigPath: path, Jobs: 4, Batches: 2, Sleep: time.Millisecond})
	assert.NoError(t, err)

	err = run(&CLIConfig{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
