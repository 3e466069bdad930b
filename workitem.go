package tpool

import (
	"context"
	"time"
)

// WorkItem is one queued unit of work and its eventual outcome. It is written
// once by the worker that runs it; closing done publishes result and err to
// every joiner.
type WorkItem struct {
	work   Work
	done   chan struct{}
	result interface{}
	err    error
}

func newWorkItem(work Work) *WorkItem {
	return &WorkItem{
		work: work,
		done: make(chan struct{}),
	}
}

// Join waits for the item to finish and returns its result or the error the
// work returned. A timeout <= 0 waits forever. On timeout it returns
// ErrJoinTimeout and the item can be joined again later.
func (i *WorkItem) Join(timeout time.Duration) (interface{}, error) {
	if timeout <= 0 {
		<-i.done
		return i.result, i.err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-i.done:
		return i.result, i.err
	case <-timer.C:
		return nil, ErrJoinTimeout
	}
}

func (i *WorkItem) JoinContext(ctx context.Context) (interface{}, error) {
	select {
	case <-i.done:
		return i.result, i.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (i *WorkItem) Done() <-chan struct{} {
	return i.done
}

func (i *WorkItem) IsDone() bool {
	select {
	case <-i.done:
		return true
	default:
		return false
	}
}

// markDone must be called exactly once.
func (i *WorkItem) markDone(result interface{}, err error) {
	if err != nil {
		i.err = err
	} else {
		i.result = result
	}
	close(i.done)
}
