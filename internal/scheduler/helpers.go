package scheduler

// defaultInitialCapacity is the starting ring size of an unbounded queue.
const defaultInitialCapacity = 64

// nextPowerOfTwo returns the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	if n&(n-1) == 0 {
		return n
	}

	power := 1
	for power < n {
		power *= 2
	}
	return power
}
