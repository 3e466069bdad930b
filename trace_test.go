package tpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestThreadPool_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	p := NewThreadPool(1, 1, WithTracer(provider.Tracer("test")), WithLogger(quiet{}))
	defer p.Close()

	p.QueueWorksAndWait([]Work{
		value("fine"),
		Call(func() (interface{}, error) { return nil, errors.New("broken") }),
	})

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	for _, s := range spans {
		assert.Equal(t, "tpool.work", s.Name())
	}
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "broken", spans[1].Status().Description)
}
