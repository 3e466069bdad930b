package tpool

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// workQueue is an unbounded FIFO of work items. A nil item is the shutdown
// sentinel.
type workQueue struct {
	mu      sync.Mutex
	items   *queue.Queue
	pending int
	notify  chan struct{}
}

func newWorkQueue() *workQueue {
	return &workQueue{
		items:  queue.New(),
		notify: make(chan struct{}, 1),
	}
}

func (q *workQueue) push(item *WorkItem) {
	q.mu.Lock()
	q.items.Add(item)
	if item != nil {
		q.pending++
	}
	q.mu.Unlock()

	q.wake()
}

func (q *workQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// pop blocks up to timeout for the next item. ok is false when nothing
// arrived in time.
func (q *workQueue) pop(timeout time.Duration) (item *WorkItem, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if q.items.Length() > 0 {
			item = q.items.Remove().(*WorkItem)
			if item != nil {
				q.pending--
			}
			more := q.items.Length() > 0
			q.mu.Unlock()

			// pass the wakeup on, a single token may stand for several pushes
			if more {
				q.wake()
			}
			return item, true
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-timer.C:
			return nil, false
		}
	}
}

// drain empties the queue and returns the real work items it held.
func (q *workQueue) drain() []*WorkItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	var list []*WorkItem
	for q.items.Length() > 0 {
		if item := q.items.Remove().(*WorkItem); item != nil {
			list = append(list, item)
		}
	}
	q.pending = 0
	return list
}

// len counts queued work items, not sentinels.
func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
