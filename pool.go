package tpool

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yongpi/putil/plog"
	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/yongpi/tpool"

type defaultLogger struct {
}

func (d *defaultLogger) Debugf(format string, args ...interface{}) {
	plog.Debugf(format, args...)
}

func (d *defaultLogger) Errorf(format string, args ...interface{}) {
	plog.Errorf(format, args...)
}

// ThreadPool is the handle returned to callers. Workers only reference the
// inner threadPool, so an abandoned handle can be collected and its
// finalizer can shut the pool down.
type ThreadPool struct {
	*threadPool
}

type threadPool struct {
	min     int32
	max     int32
	state   int32
	config  *Options
	metrics *metrics
	queue   *workQueue

	// lock guards workers and shutdown.
	lock     sync.Mutex
	workers  Workers
	shutdown bool

	submitted int64
	completed int64
	failed    int64
	rejected  int64
	retired   int64
}

var _ Pool = (*ThreadPool)(nil)

// NewThreadPool starts a pool with min workers that grows on demand up to
// max. max is clamped to [1, math.MaxInt32] and min to max.
func NewThreadPool(min, max uint32, options ...Option) *ThreadPool {
	if max == 0 {
		max = 1
	}
	if max > math.MaxInt32 {
		max = math.MaxInt32
	}
	if min > max {
		min = max
	}

	p := &threadPool{
		min:     int32(min),
		max:     int32(max),
		config:  new(Options),
		queue:   newWorkQueue(),
		workers: NewWorkerMap(),
	}

	for _, option := range options {
		option(p.config)
	}

	if p.config.IdleTimeout <= 0 {
		p.config.IdleTimeout = defaultIdleTimeout
	}
	if p.config.ShutdownPollInterval <= 0 {
		p.config.ShutdownPollInterval = defaultPollInterval
	}
	if p.config.Logger == nil {
		p.config.Logger = new(defaultLogger)
	}
	if p.config.Tracer == nil {
		p.config.Tracer = otel.Tracer(tracerName)
	}
	if p.config.Registerer != nil {
		prefix := p.config.MetricsPrefix
		if prefix == "" {
			prefix = defaultMetricPrefix
		}
		m, err := newMetrics(p.config.Registerer, prefix, p.Pending)
		if err != nil {
			p.config.Logger.Errorf("[ThreadPool:NewThreadPool]: metrics disabled, err = %v", err)
		} else {
			p.metrics = m
		}
	}

	p.lock.Lock()
	for i := int32(0); i < p.min; i++ {
		p.addWorkerLocked()
	}
	p.lock.Unlock()

	pool := &ThreadPool{p}
	runtime.SetFinalizer(pool, func(pool *ThreadPool) {
		pool.Shutdown(true)
	})
	return pool
}

// Close shuts the pool down and waits for every worker to exit. Prefer it,
// in a defer, over relying on the finalizer.
func (pool *ThreadPool) Close() error {
	runtime.SetFinalizer(pool, nil)
	pool.Shutdown(false)
	return nil
}

func (p *threadPool) addWorkerLocked() bool {
	if p.shutdown || p.workers.Len() >= int(p.max) {
		return false
	}

	w := newWorker(p)
	if err := p.workers.Insert(w); err != nil {
		p.config.Logger.Errorf("[ThreadPool:addWorker]: %v", err)
		return false
	}
	w.run()

	n := p.workers.Len()
	p.metrics.setWorkers(n)
	p.config.Logger.Debugf("[ThreadPool:addWorker]: add worker %s, workers = %d", w.id, n)
	return true
}

// removeWorkerLocked drops w from the registry and terminates the pool once
// the last worker of a shutting down pool is gone.
func (p *threadPool) removeWorkerLocked(w *worker) bool {
	if !p.workers.Remove(w.id) {
		return false
	}

	n := p.workers.Len()
	p.metrics.setWorkers(n)
	p.config.Logger.Debugf("[ThreadPool:removeWorker]: remove worker %s, workers = %d", w.id, n)

	if p.shutdown && n == 0 {
		p.terminateLocked()
	}
	return true
}

func (p *threadPool) removeWorker(w *worker) {
	p.lock.Lock()
	p.removeWorkerLocked(w)
	p.lock.Unlock()
}

// retire is called after an idle timeout. It reports whether w should exit.
func (p *threadPool) retire(w *worker) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.shutdown {
		return true
	}
	// never below the floor, and never strand queued work
	if p.workers.Len() <= int(p.min) || p.queue.len() > 0 {
		return false
	}

	p.removeWorkerLocked(w)
	atomic.AddInt64(&p.retired, 1)
	p.metrics.retire()
	p.config.Logger.Debugf("[ThreadPool:retire]: worker %s idle for %v", w.id, p.config.IdleTimeout)
	return true
}

// terminateLocked fails whatever was still queued when the last worker left.
func (p *threadPool) terminateLocked() {
	list := p.queue.drain()
	for _, item := range list {
		item.markDone(nil, ErrPoolShutdown)
	}

	atomic.StoreInt32(&p.state, int32(Terminated))
	p.config.Logger.Debugf("[ThreadPool:terminate]: pool terminated, discarded = %d", len(list))
}

func (p *threadPool) finished(err error, d time.Duration) {
	atomic.AddInt64(&p.completed, 1)
	if err != nil {
		atomic.AddInt64(&p.failed, 1)
	}
	p.metrics.observe(err, d)
}

func (p *threadPool) isShutdown() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.shutdown
}

// QueueWork queues work and returns its item without waiting. It returns nil
// once the pool is shutting down or when work is not valid.
func (p *threadPool) QueueWork(work Work) *WorkItem {
	if !work.Valid() {
		p.reject()
		return nil
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if p.shutdown {
		p.reject()
		return nil
	}

	p.addWorkerLocked()

	item := newWorkItem(work)
	p.queue.push(item)

	atomic.AddInt64(&p.submitted, 1)
	p.metrics.submit()
	return item
}

func (p *threadPool) reject() {
	atomic.AddInt64(&p.rejected, 1)
	p.metrics.reject()
}

func (p *threadPool) QueueWorkAndWait(work Work) Outcome {
	return p.QueueWorksAndWait([]Work{work})[0]
}

// QueueWorksAndWait queues every work and joins them in submission order.
// The result has one Outcome per work; a failed item never affects the others.
func (p *threadPool) QueueWorksAndWait(works []Work) []Outcome {
	items := make([]*WorkItem, len(works))
	for i, work := range works {
		items[i] = p.QueueWork(work)
	}

	outcomes := make([]Outcome, len(works))
	for i, item := range items {
		if item == nil {
			continue
		}

		value, err := item.Join(0)
		if err != nil {
			outcomes[i] = Outcome{Err: err}
			continue
		}
		outcomes[i] = Outcome{OK: true, Value: value}
	}
	return outcomes
}

// Shutdown stops accepting work and wakes one worker with the sentinel; each
// worker that sees the flag hands what it popped back to the queue and exits.
// Unless noWait is set it polls until every worker is gone. Calling it again
// only waits.
func (p *threadPool) Shutdown(noWait bool) {
	p.lock.Lock()
	if !p.shutdown {
		p.shutdown = true
		atomic.StoreInt32(&p.state, int32(ShuttingDown))
		p.queue.push(nil)
		p.config.Logger.Debugf("[ThreadPool:Shutdown]: shutting down, workers = %d", p.workers.Len())

		if p.workers.Len() == 0 {
			p.terminateLocked()
		}
	}
	p.lock.Unlock()

	if noWait {
		return
	}

	for {
		p.lock.Lock()
		n := p.workers.Len()
		ids := p.workers.IDs()
		p.lock.Unlock()

		if n == 0 {
			return
		}
		p.config.Logger.Debugf("[ThreadPool:Shutdown]: waiting for %d workers %v", n, ids)
		time.Sleep(p.config.ShutdownPollInterval)
	}
}

func (p *threadPool) State() State {
	return State(atomic.LoadInt32(&p.state))
}

func (p *threadPool) Workers() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.workers.Len()
}

func (p *threadPool) Pending() int {
	return p.queue.len()
}

func (p *threadPool) Min() int32 {
	return p.min
}

func (p *threadPool) Max() int32 {
	return p.max
}

func (p *threadPool) IdleTimeout() time.Duration {
	return p.config.IdleTimeout
}

func (p *threadPool) Stats() Stats {
	return Stats{
		Workers:   p.Workers(),
		Pending:   p.Pending(),
		Submitted: atomic.LoadInt64(&p.submitted),
		Completed: atomic.LoadInt64(&p.completed),
		Failed:    atomic.LoadInt64(&p.failed),
		Rejected:  atomic.LoadInt64(&p.rejected),
		Retired:   atomic.LoadInt64(&p.retired),
	}
}
