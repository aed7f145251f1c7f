//go:build darwin

package cpu

import (
	"errors"
	"runtime"
)

// Pin locks the goroutine to an OS thread. macOS has no API for pinning a
// thread to a core, so it always reports ErrUnsupported alongside release.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, errors.ErrUnsupported
}

// Current is not available on macOS.
func Current() ([]int, error) {
	return nil, errors.ErrUnsupported
}
