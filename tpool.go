// Package tpool is a bounded, auto-scaling worker pool with idle worker
// retirement, graceful shutdown and batched submission.
package tpool

import "time"

type Pool interface {
	QueueWork(work Work) *WorkItem
	QueueWorkAndWait(work Work) Outcome
	QueueWorksAndWait(works []Work) []Outcome
	Shutdown(noWait bool)
	Close() error
	Workers() int
	Pending() int
	State() State
	Min() int32
	Max() int32
	IdleTimeout() time.Duration
	Stats() Stats
}

type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type State int32

const (
	Active State = iota
	ShuttingDown
	Terminated
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case ShuttingDown:
		return "shutting-down"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

var (
	defaultIdleTimeout  = time.Second
	defaultPollInterval = 100 * time.Millisecond
	defaultMetricPrefix = "tpool"
)

// Outcome is the result of one joined work item. A zero Outcome means the
// work was never queued.
type Outcome struct {
	OK    bool
	Value interface{}
	Err   error
}

type Stats struct {
	Workers   int   `json:"workers"`
	Pending   int   `json:"pending"`
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Rejected  int64 `json:"rejected"`
	Retired   int64 `json:"retired"`
}
