package collector

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalContext_CancelledBySignal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Signal tests not supported on Windows")
	}

	var flushed atomic.Bool
	ctx, stop := SignalContext(context.Background(), func() { flushed.Store(true) })
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be cancelled initially")
	default:
	}

	p, _ := os.FindProcess(os.Getpid())
	p.Signal(os.Interrupt)

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled after signal")
	}
	assert.True(t, flushed.Load(), "shutdown hook should run before cancellation")
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent, func() { t.Error("hook must not run without a signal") })
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should follow its parent")
	}
}

func TestSignalContext_StopReleasesGoroutineAfterSignal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Signal tests not supported on Windows")
	}

	ctx, stop, exited := signalContext(context.Background(), nil)

	p, _ := os.FindProcess(os.Getpid())
	p.Signal(os.Interrupt)

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled after signal")
	}

	select {
	case <-exited:
		t.Fatal("goroutine should keep waiting for a second signal until stopped")
	case <-time.After(50 * time.Millisecond):
	}

	stop()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("stop should release the signal goroutine")
	}
	stop()
}

func TestSignalContext_ParentCancelReleasesGoroutine(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	_, stop, exited := signalContext(parent, nil)
	defer stop()

	cancel()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("goroutine should exit with its parent")
	}
}
