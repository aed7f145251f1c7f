// Package cpu pins worker goroutines to CPU cores.
package cpu

import "runtime"

// CoreFor maps a worker ordinal onto a logical core.
func CoreFor(workerID int) int {
	n := runtime.NumCPU()
	core := workerID % n
	if core < 0 {
		core += n
	}
	return core
}
