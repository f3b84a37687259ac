// Package task runs a single unit of background work with explicit
// stop, cancel and dispose semantics.
//
// Cancellation is tagged: the work function reads context.Cause to tell an
// intentional Stop apart from disposal or a cancelled parent context.
package task

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrAlreadyStarted = errors.New("task already started")
	ErrDisposed       = errors.New("task disposed")
	ErrStopped        = errors.New("task stopped")
)

// Func is the work run by a Task. ctx is cancelled on Stop, Dispose or
// when the parent context ends.
type Func func(ctx context.Context) error

// Task wraps one asynchronous function
type Task struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	done   chan struct{}

	mu       sync.Mutex
	started  bool
	disposed bool
	err      error
}

// New creates a task whose context derives from parent
func New(parent context.Context) *Task {
	ctx, cancel := context.WithCancelCause(parent)
	return &Task{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// IsStopped reports whether ctx was cancelled by Task.Stop
func IsStopped(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrStopped)
}

// Start runs fn on its own goroutine. It can be called once.
func (t *Task) Start(fn Func) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed {
		return ErrDisposed
	}
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true

	go func() {
		err := fn(t.ctx)
		// Release the context even when nobody disposes the task
		t.cancel(nil)

		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		close(t.done)
	}()
	return nil
}

// Stop marks the task as intentionally stopped and cancels it.
// The returned channel closes once the work has exited.
func (t *Task) Stop() <-chan struct{} {
	t.cancel(ErrStopped)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started && !t.disposed {
		// Nothing will ever run, so nothing to wait for
		t.disposed = true
		close(t.done)
	}
	return t.done
}

// Stopped reports whether Stop won the cancellation
func (t *Task) Stopped() bool {
	return IsStopped(t.ctx)
}

// Done closes when the work has exited or the task was disposed unstarted
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the work's error once Done is closed
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Dispose cancels the task unless already cancelled, waits for the work to
// exit and releases the context. The work's own error is not returned; ctx
// only bounds the wait.
func (t *Task) Dispose(ctx context.Context) error {
	t.cancel(ErrDisposed)

	t.mu.Lock()
	if !t.started {
		if !t.disposed {
			t.disposed = true
			close(t.done)
		}
		t.mu.Unlock()
		return nil
	}
	t.disposed = true
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
