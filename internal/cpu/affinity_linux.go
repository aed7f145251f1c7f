//go:build linux

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to core workerID % NumCPU. release unlocks the thread and must be called
// from the same goroutine; a goroutine that exits without calling it has its
// thread discarded by the runtime. release is never nil, even on error.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	core := CoreFor(workerID)

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return release, fmt.Errorf("pin to core %d: %w", core, err)
	}
	return release, nil
}

// Current returns the cores the calling thread may run on.
func Current() ([]int, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, err
	}

	cores := make([]int, 0, mask.Count())
	for i := range runtime.NumCPU() {
		if mask.IsSet(i) {
			cores = append(cores, i)
		}
	}
	return cores, nil
}
