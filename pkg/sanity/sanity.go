// Package sanity checks parsed bees snapshots for values that parse fine but
// make no sense. Failures are data-quality signals; nothing is dropped.
package sanity

import (
	"fmt"

	"github.com/danpilch/bees-exporter/pkg/status"
)

// Result holds the outcome of a single check.
type Result struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// Check validates the progress rows of a snapshot against the invariants bees
// is expected to keep. Missing sections are reported by the parser instead.
func Check(snap *status.Snapshot) []Result {
	var results []Result

	seen := make(map[status.ExtentSize]bool)
	for _, row := range snap.Progress {
		if seen[row.ExtentSize] {
			results = append(results, Result{
				Check:   fmt.Sprintf("%s unique", row.ExtentSize),
				Passed:  false,
				Details: "extent size appears more than once",
			})
		}
		seen[row.ExtentSize] = true

		// gen_max below gen_min is passed through to the metrics as-is.
		if row.GenMax < row.GenMin {
			results = append(results, Result{
				Check:   fmt.Sprintf("%s generations", row.ExtentSize),
				Passed:  false,
				Details: fmt.Sprintf("gen_max %d < gen_min %d", row.GenMax, row.GenMin),
			})
		} else {
			results = append(results, Result{
				Check:   fmt.Sprintf("%s generations", row.ExtentSize),
				Passed:  true,
				Details: fmt.Sprintf("%d..%d", row.GenMin, row.GenMax),
			})
		}
	}

	return results
}

// Failed returns only the failed results.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
