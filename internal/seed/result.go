package seed

import (
	"fmt"
	"time"

	"github.com/johnwards/takeout/internal/store"
)

// Result is the outcome of one seeding stage.
type Result struct {
	Created  int
	Updated  int
	Failed   int
	Duration time.Duration
	Errors   []string
}

// TotalProcessed is the number of items the stage handled.
func (r Result) TotalProcessed() int {
	return r.Created + r.Updated + r.Failed
}

// SuccessRate is the percentage of processed items that were written. A
// stage that processed nothing is 100% successful.
func (r Result) SuccessRate() float64 {
	total := r.TotalProcessed()
	if total == 0 {
		return 100
	}
	return 100 * float64(r.Created+r.Updated) / float64(total)
}

// DurationSeconds returns Duration in seconds.
func (r Result) DurationSeconds() float64 {
	return r.Duration.Seconds()
}

// Merge sums results field by field. Derived values are recomputed from the
// sums, never added.
func Merge(results ...Result) Result {
	var out Result
	for _, r := range results {
		out.Created += r.Created
		out.Updated += r.Updated
		out.Failed += r.Failed
		out.Duration += r.Duration
		out.Errors = append(out.Errors, r.Errors...)
	}
	return out
}

// Total merges every result of a run. Errors keep the given data type order.
func Total(results map[string]Result, order []string) Result {
	merged := make([]Result, 0, len(results))
	for _, dt := range order {
		if r, ok := results[dt]; ok {
			merged = append(merged, r)
		}
	}
	return Merge(merged...)
}

// fail records a per-item failure against key. Fatal storage errors are
// returned instead so the stage can abort.
func (r *Result) fail(key string, err error) error {
	if store.IsFatal(err) {
		return fmt.Errorf("%s: %w", key, err)
	}
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", key, err))
	return nil
}
