package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_WaitReturnsTaskError(t *testing.T) {
	var g Group
	boom := errors.New("boom")
	h := g.Go(context.Background(), "push", func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, h.Wait(), boom)
}

func TestGroup_TaskOutlivesCallerCancellation(t *testing.T) {
	var g Group
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	h := g.Go(ctx, "push", func(ctx context.Context) error {
		<-release
		return ctx.Err()
	})
	cancel()
	close(release)
	assert.NoError(t, h.Wait())
}

func TestGroup_PanicBecomesError(t *testing.T) {
	var g Group
	h := g.Go(context.Background(), "click", func(ctx context.Context) error { panic("oops") })
	err := h.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")
}

func TestGroup_WaitDrainsInFlightTasks(t *testing.T) {
	var g Group
	release := make(chan struct{})
	g.Go(context.Background(), "push", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, g.Wait(context.Background()))
}
