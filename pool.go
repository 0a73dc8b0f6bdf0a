package folio

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers keeps the strictly sequential page loop.
	MinWorkers = 1

	// MaxWorkers caps concurrent MuPDF documents; each holds its own copy
	// of the decoded document plus one page bitmap.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the HTTP server and the resume browser.
	cpuDivisor = 2
)

// ResolveWorkers determines how many pages may render concurrently.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return min(workers, MaxWorkers)
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinWorkers), MaxWorkers)
}
