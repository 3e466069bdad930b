package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yongpi/putil/plog"

	"github.com/yongpi/tpool"
)

// quietLogger drops lifecycle noise and keeps work failures.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}

func (quietLogger) Errorf(format string, args ...interface{}) {
	plog.Errorf(format, args...)
}

type batchSummary struct {
	ok       int
	failed   int
	rejected int
	elapsed  time.Duration
}

func main() {
	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if err := run(cli); err != nil {
		plog.Errorf("[tpoolstress]: %v", err)
		os.Exit(1)
	}
}

func run(cli *CLIConfig) error {
	cfg := tpool.DefaultConfig()
	if cli.ConfigPath != "" {
		loaded, err := tpool.LoadConfig(cli.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	registry := prometheus.NewRegistry()
	opts := []tpool.Option{tpool.WithMetricsRegisterer(registry)}
	if !cli.Debug {
		opts = append(opts, tpool.WithLogger(quietLogger{}))
	}

	pool := cfg.NewThreadPool(opts...)
	defer pool.Close()

	if cli.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cli.MetricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				plog.Errorf("[tpoolstress]: metrics server: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	fmt.Printf("pool min=%d max=%d idle=%v\n", pool.Min(), pool.Max(), pool.IdleTimeout())
	for b := 0; b < cli.Batches; b++ {
		s := runBatch(pool, cli.Jobs, cli.Sleep, cli.FailEvery)
		fmt.Printf("batch %d: ok=%d failed=%d rejected=%d elapsed=%v workers=%d\n",
			b+1, s.ok, s.failed, s.rejected, s.elapsed, pool.Workers())
	}

	stats := pool.Stats()
	fmt.Printf("submitted=%d completed=%d failed=%d retired=%d\n",
		stats.Submitted, stats.Completed, stats.Failed, stats.Retired)
	return nil
}

func sleepJob(args tpool.Args, _ tpool.Kwargs) (interface{}, error) {
	n := args[0].(int)
	d := args[1].(time.Duration)
	failEvery := args[2].(int)

	time.Sleep(d)
	if failEvery > 0 && n%failEvery == 0 {
		return nil, fmt.Errorf("job %d failed on purpose", n)
	}
	return n, nil
}

func runBatch(pool tpool.Pool, jobs int, sleep time.Duration, failEvery int) batchSummary {
	works := make([]tpool.Work, jobs)
	for i := range works {
		works[i] = tpool.CallArgs(sleepJob, i+1, sleep, failEvery)
	}

	start := time.Now()
	outcomes := pool.QueueWorksAndWait(works)

	s := batchSummary{elapsed: time.Since(start)}
	for _, o := range outcomes {
		switch {
		case o.OK:
			s.ok++
		case o.Err != nil:
			s.failed++
		default:
			s.rejected++
		}
	}
	return s
}
