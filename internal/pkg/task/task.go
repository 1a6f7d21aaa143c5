// Package task runs one unit of work per inbound platform event and lets the
// caller hold the event open until that work has finished.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Handle tracks a single running task.
type Handle struct {
	name string
	done chan struct{}
	err  error
}

// Wait blocks until the task has completed and returns its error.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Done is closed when the task has completed.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Group starts tasks and remembers them until they complete, so shutdown can
// drain in-flight events.
type Group struct {
	wg sync.WaitGroup
}

// Go runs fn in its own goroutine. The task context is detached from ctx
// cancellation: once accepted, an event is always handled to completion.
// A panic inside fn is turned into the task's error.
func (g *Group) Go(ctx context.Context, name string, fn func(ctx context.Context) error) *Handle {
	h := &Handle{name: name, done: make(chan struct{})}
	taskCtx := context.WithoutCancel(ctx)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("task panicked", "task", name, "panic", r)
				h.err = fmt.Errorf("task %s panicked: %v", name, r)
			}
		}()
		h.err = fn(taskCtx)
	}()
	return h
}

// Wait blocks until every started task has completed or ctx is done.
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
