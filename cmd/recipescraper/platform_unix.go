//go:build !windows

package main

import (
	"os"
	"syscall"
)

func enableANSI() {
	// Unix terminals support ANSI natively.
}

// stopSignals lists the signals that cancel a running command.
func stopSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}
