package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// setupSignalHandler returns a context cancelled on the first SIGINT or
// SIGTERM, which lets the run stop and save the session. A second signal
// exits at once without saving. The returned func must be deferred.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	return watchSignals(sigChan, os.Stderr, func() { os.Exit(130) })
}

// watchSignals cancels the context on the first value from sigChan and
// calls exit on the second, until the returned func is called.
func watchSignals(sigChan chan os.Signal, errOut io.Writer, exit func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() { close(stopped) })
		cancel()
	}

	go func() {
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
			cancel()
		case <-stopped:
			return
		}

		// ctx is already done here; only stop ends the wait.
		select {
		case <-sigChan:
			_, _ = fmt.Fprintln(errOut, "\nForce exit, session not saved")
			exit()
		case <-stopped:
		}
	}()

	return ctx, stop
}
