package tpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

type Option func(options *Options)

type Options struct {
	IdleTimeout          time.Duration
	ShutdownPollInterval time.Duration
	PanicHandler         func(interface{})
	Logger               Logger
	Registerer           prometheus.Registerer
	MetricsPrefix        string
	Tracer               trace.Tracer
}

// WithIdleTimeout sets how long a worker above the floor waits for work
// before it retires.
func WithIdleTimeout(t time.Duration) Option {
	return func(options *Options) {
		options.IdleTimeout = t
	}
}

func WithShutdownPollInterval(t time.Duration) Option {
	return func(options *Options) {
		options.ShutdownPollInterval = t
	}
}

func WithPanicHandler(handler func(interface{})) Option {
	return func(options *Options) {
		options.PanicHandler = handler
	}
}

func WithLogger(logger Logger) Option {
	return func(options *Options) {
		options.Logger = logger
	}
}

// WithMetricsRegisterer enables prometheus metrics on the given registerer.
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(options *Options) {
		options.Registerer = registerer
	}
}

func WithMetricsPrefix(prefix string) Option {
	return func(options *Options) {
		options.MetricsPrefix = prefix
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(options *Options) {
		options.Tracer = tracer
	}
}
