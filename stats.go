package qsim

import (
	"maps"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// latencyWindowSize bounds the execution times kept for percentile estimates.
const latencyWindowSize = 1000

// SimulationStats accumulates across ExecuteCircuit calls on one simulator.
type SimulationStats struct {
	TotalOperations     int                      `yaml:"total_operations"`
	TotalSimulationTime time.Duration            `yaml:"total_simulation_time"`
	CircuitsExecuted    int                      `yaml:"circuits_executed"`
	MemoryUsageMB       float64                  `yaml:"memory_usage_mb"`
	GateTimings         map[string]time.Duration `yaml:"gate_timings"`
	ParallelEfficiency  float64                  `yaml:"parallel_efficiency"`
	SparseLayers        int                      `yaml:"sparse_layers"`

	AverageLatency time.Duration `yaml:"average_latency"`
	P95Latency     time.Duration `yaml:"p95_latency"`
	P99Latency     time.Duration `yaml:"p99_latency"`
}

// Export flattens the counters for reporting.
func (s SimulationStats) Export() map[string]any {
	return map[string]any{
		"total_operations":    s.TotalOperations,
		"circuits_executed":   s.CircuitsExecuted,
		"total_time_ms":       s.TotalSimulationTime.Milliseconds(),
		"avg_latency_ms":      s.AverageLatency.Milliseconds(),
		"p95_latency_ms":      s.P95Latency.Milliseconds(),
		"p99_latency_ms":      s.P99Latency.Milliseconds(),
		"memory_usage_mb":     s.MemoryUsageMB,
		"parallel_efficiency": s.ParallelEfficiency,
		"sparse_layers":       s.SparseLayers,
	}
}

/*
statsRecorder guards a SimulationStats with a mutex so a simulator shared
between goroutines keeps consistent counters.
*/
type statsRecorder struct {
	mu    sync.Mutex
	stats SimulationStats

	parallelGroups int
	totalGroups    int
	latencyWindow  []float64
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{
		stats:         SimulationStats{GateTimings: make(map[string]time.Duration)},
		latencyWindow: make([]float64, 0, latencyWindowSize),
	}
}

func (r *statsRecorder) recordGate(mnemonic string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.GateTimings[mnemonic] += elapsed
}

// recordGroups tracks how many parallel groups were actually fanned out.
func (r *statsRecorder) recordGroups(total, parallel int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalGroups += total
	r.parallelGroups += parallel
	if r.totalGroups > 0 {
		r.stats.ParallelEfficiency = float64(r.parallelGroups) / float64(r.totalGroups)
	}
}

func (r *statsRecorder) recordSparseLayer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.SparseLayers++
}

func (r *statsRecorder) recordExecution(operations int, elapsed time.Duration, memoryMB float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.TotalOperations += operations
	r.stats.TotalSimulationTime += elapsed
	r.stats.CircuitsExecuted++
	r.stats.MemoryUsageMB = memoryMB
	r.stats.AverageLatency = r.stats.TotalSimulationTime / time.Duration(r.stats.CircuitsExecuted)

	r.latencyWindow = append(r.latencyWindow, float64(elapsed))
	if len(r.latencyWindow) > latencyWindowSize {
		r.latencyWindow = r.latencyWindow[1:]
	}

	sorted := slices.Clone(r.latencyWindow)
	slices.Sort(sorted)
	r.stats.P95Latency = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))
	r.stats.P99Latency = time.Duration(stat.Quantile(0.99, stat.Empirical, sorted, nil))
}

func (r *statsRecorder) snapshot() SimulationStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.stats
	out.GateTimings = maps.Clone(r.stats.GateTimings)
	return out
}

func (r *statsRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats = SimulationStats{GateTimings: make(map[string]time.Duration)}
	r.parallelGroups = 0
	r.totalGroups = 0
	r.latencyWindow = r.latencyWindow[:0]
}
