//go:build windows

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// Pin locks the goroutine to its OS thread and sets that thread's affinity
// mask to core workerID % NumCPU.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	core := CoreFor(workerID)
	// Bit N = CPU N
	mask := uintptr(1) << core

	prev, _, callErr := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if prev == 0 {
		return release, fmt.Errorf("pin to core %d: %w", core, callErr)
	}
	return release, nil
}

// Current is not implemented on Windows.
func Current() ([]int, error) {
	return nil, fmt.Errorf("cpu.Current: %w", windows.ERROR_CALL_NOT_IMPLEMENTED)
}
