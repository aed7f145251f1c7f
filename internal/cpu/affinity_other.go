//go:build !linux && !darwin && !windows

package cpu

import (
	"errors"
	"runtime"
)

// Pin only locks the goroutine to an OS thread on this platform.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, errors.ErrUnsupported
}

// Current is not available on this platform.
func Current() ([]int, error) {
	return nil, errors.ErrUnsupported
}
