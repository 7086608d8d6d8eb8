package metrics

import (
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Engine computes metrics with optional memoization keyed by the normalized
// input record. Results are identical to Compute on in.Normalize().
type Engine struct {
	logger   *zap.Logger
	capacity int

	mu    sync.Mutex
	cache map[Input]Metrics
}

// NewEngine creates an engine keeping at most capacity results.
// A capacity of zero or less disables memoization.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger, capacity int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger, capacity: capacity}
	if capacity > 0 {
		e.cache = make(map[Input]Metrics, capacity)
	}
	return e
}

// Compute returns the metrics for the normalized record. Normalizing first
// keeps the cache key and the result in agreement for -0 and +0 amounts.
func (e *Engine) Compute(in Input) Metrics {
	in = in.Normalize()
	if e.cache == nil {
		return Compute(in)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if cached, ok := e.cache[in]; ok {
		e.logger.Debug("metrics cache hit",
			zap.String("op", "metrics.Engine.Compute"),
			zap.String("company", in.Company),
		)
		return clone(cached)
	}

	m := Compute(in)
	if len(e.cache) >= e.capacity {
		e.logger.Debug("metrics cache full, resetting",
			zap.String("op", "metrics.Engine.Compute"),
			zap.Int("capacity", e.capacity),
		)
		clear(e.cache)
	}
	e.cache[in] = clone(m)
	return m
}

// Len returns the number of memoized results.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}

func clone(m Metrics) Metrics {
	m.RevenueChart = slices.Clone(m.RevenueChart)
	m.RevenueShare = slices.Clone(m.RevenueShare)
	return m
}
