package qsim

import (
	"fmt"
	"strings"
)

/*
OptimizationLevel selects how much layer structure the executor exploits.
Levels are ordered: None < Basic < Aggressive < UltraOptimized.
*/
type OptimizationLevel int

const (
	// OptimizationNone applies every gate through the generic matrix kernel.
	OptimizationNone OptimizationLevel = iota
	// OptimizationBasic uses closed-form kernels where one exists.
	OptimizationBasic
	// OptimizationAggressive buckets each layer by arity: 1-qubit, 2-qubit, then the rest.
	OptimizationAggressive
	// OptimizationUltra walks the layer's parallel groups and fans qubit-disjoint groups out.
	OptimizationUltra
)

var levelNames = []string{"none", "basic", "aggressive", "ultra"}

func (l OptimizationLevel) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("OptimizationLevel(%d)", int(l))
}

// ParseOptimizationLevel accepts the String form, case-insensitively.
func ParseOptimizationLevel(s string) (OptimizationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "sequential":
		return OptimizationNone, nil
	case "basic":
		return OptimizationBasic, nil
	case "aggressive":
		return OptimizationAggressive, nil
	case "ultra", "ultraoptimized", "ultra_optimized":
		return OptimizationUltra, nil
	}
	return OptimizationNone, fmt.Errorf("unknown optimization level %q", s)
}

/*
SimulationConfig is fixed for the lifetime of a simulator; replace it as a
whole with SetConfig rather than mutating fields in place.
*/
type SimulationConfig struct {
	OptimizationLevel       OptimizationLevel
	MemoryLimitGB           float64
	SparseThreshold         float64
	UseSparseRepresentation bool
	MaxParallelGates        int

	// UseGPUAcceleration is accepted and ignored; there is no GPU backend.
	UseGPUAcceleration bool

	// ParallelThreshold is the smallest register, in amplitudes, for which
	// a parallel group is spread over the worker pool.
	ParallelThreshold int
}

func NewSimulationConfig() SimulationConfig {
	return SimulationConfig{
		OptimizationLevel:       OptimizationUltra,
		MemoryLimitGB:           8.0,
		SparseThreshold:         DefaultSparseThreshold,
		UseSparseRepresentation: true,
		MaxParallelGates:        16,
		UseGPUAcceleration:      false,
		ParallelThreshold:       1 << 12,
	}
}

// workers is the pool size implied by MaxParallelGates.
func (cfg SimulationConfig) workers() int {
	if cfg.MaxParallelGates < 1 {
		return 1
	}
	return cfg.MaxParallelGates
}
