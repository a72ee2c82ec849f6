package collector

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext returns a context cancelled on the first SIGINT/SIGTERM.
// onShutdown, if set, runs before cancellation so callers can flush state.
// A second signal exits immediately.
func SignalContext(parent context.Context, onShutdown func()) (context.Context, context.CancelFunc) {
	ctx, stop, _ := signalContext(parent, onShutdown)
	return ctx, stop
}

// signalContext is SignalContext plus a channel closed once the signal
// goroutine has returned
func signalContext(parent context.Context, onShutdown func()) (context.Context, context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	stopped := make(chan struct{})
	exited := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(stopped)
			cancel()
		})
	}

	go func() {
		defer close(exited)

		select {
		case <-ctx.Done():
			signal.Stop(sigCh)
			return
		case sig := <-sigCh:
			log.Printf("[Signal] Received %v, shutting down...", sig)
		}

		if onShutdown != nil {
			onShutdown()
		}
		cancel()

		select {
		case <-stopped:
		case sig := <-sigCh:
			log.Printf("[Signal] Received second %v, forcing exit", sig)
			os.Exit(1)
		}
	}()

	return ctx, stop, exited
}
