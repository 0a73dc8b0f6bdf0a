package main

import "runtime"

// maxPoolSize caps printed-resume browsers; each one is a Chrome process.
const maxPoolSize = 8

// resolvePoolSize determines how many browsers serve may start.
// Priority: config/flag > GOMAXPROCS-based calculation.
func resolvePoolSize(configured int) int {
	if configured > 0 {
		return min(configured, maxPoolSize)
	}

	// Adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / 2
	return min(max(n, 1), maxPoolSize)
}
