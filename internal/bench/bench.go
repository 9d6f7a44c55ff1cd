// Package bench times repeated query runs for the analyze command. It is a
// measurement helper only; nothing in the query engine depends on it.
package bench

import (
	"fmt"
	"math/rand"
	"time"
)

// Result is the timing of n repeated runs.
type Result struct {
	Runs    int
	Total   time.Duration
	Average time.Duration
}

// String renders the result the way the analyze command prints it.
func (r Result) String() string {
	return fmt.Sprintf("%.4fs averaged by %d runs", r.Average.Seconds(), r.Runs)
}

// Repeat calls fn n times and reports total and average wall time. It stops at
// the first error. n must be at least 1.
func Repeat(n int, fn func() error) (Result, error) {
	if n < 1 {
		return Result{}, fmt.Errorf("repeat count must be >= 1, got %d", n)
	}
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			return Result{}, fmt.Errorf("run %d: %w", i+1, err)
		}
	}
	total := time.Since(start)
	return Result{Runs: n, Total: total, Average: total / time.Duration(n)}, nil
}

// RandomInterval draws a closed interval [a, b] with 0 <= a <= b <= domainMax:
// b uniformly in [0, domainMax], then a uniformly in [0, b].
func RandomInterval(rng *rand.Rand, domainMax int) (int, int) {
	b := rng.Intn(domainMax + 1)
	a := rng.Intn(b + 1)
	return a, b
}
