package tpool

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type worker struct {
	id   string
	pool *threadPool
}

func newWorker(pool *threadPool) *worker {
	return &worker{
		id:   uuid.NewString(),
		pool: pool,
	}
}

func (w *worker) run() {
	go func() {
		defer w.pool.removeWorker(w)

		for {
			item, ok := w.pool.queue.pop(w.pool.config.IdleTimeout)
			if !ok {
				if w.pool.retire(w) {
					return
				}
				continue
			}

			// hand the item (or the sentinel) back for whoever drains the queue
			if w.pool.isShutdown() {
				w.pool.queue.push(item)
				return
			}

			if item == nil {
				continue
			}
			w.execute(item)
		}
	}()
}

func (w *worker) execute(item *WorkItem) {
	p := w.pool
	_, span := p.config.Tracer.Start(context.Background(), "tpool.work",
		trace.WithAttributes(
			attribute.String("tpool.worker.id", w.id),
			attribute.Int("tpool.work.kind", int(item.work.Kind())),
		))

	start := time.Now()
	result, err := w.invoke(item)
	duration := time.Since(start)

	if err != nil {
		// panics were already reported by invoke
		var pe *PanicError
		if !errors.As(err, &pe) {
			p.config.Logger.Errorf("[ThreadPool:worker]: worker %s work failed, err = %v", w.id, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	p.finished(err, duration)
	item.markDone(result, err)
}

func (w *worker) invoke(item *WorkItem) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)
			err = &PanicError{Value: r, Stack: buf[:n]}

			if ph := w.pool.config.PanicHandler; ph != nil {
				ph(r)
			} else {
				w.pool.config.Logger.Errorf("[ThreadPool:worker]: work panic = %v, stack = %s", r, string(buf[:n]))
			}
		}
	}()

	return item.work.invoke()
}
