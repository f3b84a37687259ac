package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("channel was not closed in time")
	}
}

func TestTask_StartTwice(t *testing.T) {
	task := New(context.Background())
	defer task.Dispose(context.Background())

	block := func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}

	require.NoError(t, task.Start(block))
	assert.ErrorIs(t, task.Start(block), ErrAlreadyStarted)
}

func TestTask_StopIsVisibleToWork(t *testing.T) {
	task := New(context.Background())
	stopped := make(chan bool, 1)

	require.NoError(t, task.Start(func(ctx context.Context) error {
		<-ctx.Done()
		stopped <- IsStopped(ctx)
		return nil
	}))

	waitClosed(t, task.Stop())
	assert.True(t, <-stopped)
	assert.True(t, task.Stopped())
	assert.NoError(t, task.Dispose(context.Background()))
}

func TestTask_DisposeIsNotStop(t *testing.T) {
	task := New(context.Background())
	stopped := make(chan bool, 1)

	require.NoError(t, task.Start(func(ctx context.Context) error {
		<-ctx.Done()
		stopped <- IsStopped(ctx)
		return nil
	}))

	require.NoError(t, task.Dispose(context.Background()))
	assert.False(t, <-stopped)
	assert.False(t, task.Stopped())
}

func TestTask_ParentCancelIsNotStop(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	task := New(parent)
	stopped := make(chan bool, 1)

	require.NoError(t, task.Start(func(ctx context.Context) error {
		<-ctx.Done()
		stopped <- IsStopped(ctx)
		return nil
	}))

	cancel()
	waitClosed(t, task.Done())
	assert.False(t, <-stopped)
}

func TestTask_DisposeSwallowsWorkError(t *testing.T) {
	task := New(context.Background())
	workErr := errors.New("boom")

	require.NoError(t, task.Start(func(ctx context.Context) error {
		<-ctx.Done()
		return workErr
	}))

	assert.NoError(t, task.Dispose(context.Background()))
	assert.ErrorIs(t, task.Err(), workErr)
}

func TestTask_DisposeIdempotent(t *testing.T) {
	task := New(context.Background())
	require.NoError(t, task.Start(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}))

	assert.NoError(t, task.Dispose(context.Background()))
	assert.NoError(t, task.Dispose(context.Background()))
	assert.ErrorIs(t, task.Start(func(context.Context) error { return nil }), ErrDisposed)
}

func TestTask_NeverStarted(t *testing.T) {
	t.Run("dispose does not hang", func(t *testing.T) {
		task := New(context.Background())
		assert.NoError(t, task.Dispose(context.Background()))
		waitClosed(t, task.Done())
	})

	t.Run("stop resolves immediately", func(t *testing.T) {
		task := New(context.Background())
		waitClosed(t, task.Stop())
		assert.True(t, task.Stopped())
		assert.NoError(t, task.Dispose(context.Background()))
	})
}

func TestTask_DisposeBoundedByContext(t *testing.T) {
	task := New(context.Background())
	release := make(chan struct{})
	require.NoError(t, task.Start(func(ctx context.Context) error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, task.Dispose(ctx), context.DeadlineExceeded)
	close(release)
	waitClosed(t, task.Done())
}

func TestTask_CompletesOnItsOwn(t *testing.T) {
	task := New(context.Background())
	require.NoError(t, task.Start(func(ctx context.Context) error {
		return nil
	}))

	waitClosed(t, task.Done())
	assert.False(t, task.Stopped())
	assert.NoError(t, task.Dispose(context.Background()))
}
