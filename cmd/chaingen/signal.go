package main

import (
	"os"
	"os/signal"
	"syscall"
)

// interruptListener returns a channel that is closed when an interrupt or
// termination signal is received.
func interruptListener() <-chan struct{} {
	interrupt := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	spawn("interruptListener", func() {
		sig := <-signals
		log.Infof("Received signal (%s). Shutting down...", sig)
		close(interrupt)
	})
	return interrupt
}
