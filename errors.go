package tpool

import (
	"errors"
	"fmt"
)

var (
	ErrJoinTimeout   = errors.New("work item not done before timeout")
	ErrPoolShutdown  = errors.New("pool shut down before work was dispatched")
	ErrInvalidConfig = errors.New("invalid pool config")
)

// PanicError is stored on a work item whose invocable panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("work panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
