// Package health provides liveness and readiness checks for the service.
package health

import (
	"context"
	"sync"
	"time"
)

// Checker reports whether a dependency is healthy.
type Checker func(ctx context.Context) error

// Check is the outcome of a single dependency probe.
type Check struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// Registry holds named dependency checks.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	timeout  time.Duration
}

// NewRegistry creates an empty registry with a per-check timeout.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Registry{
		checkers: make(map[string]Checker),
		timeout:  timeout,
	}
}

// Register adds or replaces a named check.
func (r *Registry) Register(name string, c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = c
}

// CheckAll runs every registered check and reports per-dependency results.
// The second return value is true only when every check passed.
func (r *Registry) CheckAll(ctx context.Context) ([]Check, bool) {
	r.mu.RLock()
	names := make([]string, 0, len(r.checkers))
	checkers := make(map[string]Checker, len(r.checkers))
	for name, c := range r.checkers {
		names = append(names, name)
		checkers[name] = c
	}
	r.mu.RUnlock()

	results := make([]Check, 0, len(names))
	healthy := true
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		start := time.Now()
		err := checkers[name](cctx)
		cancel()

		check := Check{
			Name:    name,
			Healthy: err == nil,
			Latency: time.Since(start).Round(time.Microsecond).String(),
		}
		if err != nil {
			check.Error = err.Error()
			healthy = false
		}
		results = append(results, check)
	}
	return results, healthy
}
