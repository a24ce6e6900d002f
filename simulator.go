package qsim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
)

// QuantumResult is produced once per ExecuteCircuit call and owned by the caller.
type QuantumResult struct {
	RunID           string
	CircuitName     string
	FinalState      *QuantumState
	Measurements    []MeasurementOutcome
	ExecutionTime   time.Duration
	OperationsCount int
}

// SimulatorOption configures a StateVectorSimulator at construction.
type SimulatorOption func(*StateVectorSimulator)

func WithConfig(cfg SimulationConfig) SimulatorOption {
	return func(s *StateVectorSimulator) {
		s.config = cfg
	}
}

// WithRand sets the random source used for measurement sampling.
func WithRand(rng *rand.Rand) SimulatorOption {
	return func(s *StateVectorSimulator) {
		s.rng = rng
	}
}

// WithSeed makes measurement sampling reproducible.
func WithSeed(seed uint64) SimulatorOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

/*
StateVectorSimulator executes circuits against a fresh dense state. Layers
run strictly in order; only the gates inside one layer may be reordered or
applied concurrently, according to the configured OptimizationLevel.

Close releases the worker pool used by OptimizationUltra.
*/
type StateVectorSimulator struct {
	config SimulationConfig
	stats  *statsRecorder

	rngMu sync.Mutex
	rng   *rand.Rand

	poolMu sync.Mutex
	pool   *Pool
}

func NewStateVectorSimulator(opts ...SimulatorOption) *StateVectorSimulator {
	s := &StateVectorSimulator{
		config: NewSimulationConfig(),
		stats:  newStatsRecorder(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

func (s *StateVectorSimulator) Config() SimulationConfig {
	return s.config
}

// SetConfig replaces the whole configuration; the worker pool is rebuilt on next use.
func (s *StateVectorSimulator) SetConfig(cfg SimulationConfig) {
	s.config = cfg
	s.closePool()
}

// Stats returns a copy of the cumulative counters.
func (s *StateVectorSimulator) Stats() SimulationStats {
	return s.stats.snapshot()
}

func (s *StateVectorSimulator) ResetStats() {
	s.stats.reset()
}

func (s *StateVectorSimulator) Close() {
	s.closePool()
}

/*
ExecuteCircuit validates the circuit, evolves |0...0> through every layer,
samples the scheduled measurements and returns the result. The memory
budget and qubit bounds are checked before the state is allocated, so a
rejected circuit leaves the simulator untouched.
*/
func (s *StateVectorSimulator) ExecuteCircuit(circuit *QuantumCircuit) (*QuantumResult, error) {
	startTime := time.Now()

	if err := s.validateCircuit(circuit); err != nil {
		return nil, err
	}

	state := NewQuantumState(circuit.numQubits)
	state.SparseThreshold = s.config.SparseThreshold

	for i := range circuit.layers {
		if err := s.executeLayer(state, &circuit.layers[i]); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}

		if s.shouldCompressState(state) {
			s.stats.recordSparseLayer()
			s.compressState(state)
		}
	}

	measurements, err := s.performMeasurements(state, circuit.MeasuredQubits())
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(startTime)
	operations := circuit.GateCount()
	s.stats.recordExecution(operations, elapsed, EstimateMemoryMB(circuit.numQubits))

	errnie.Info(
		"ExecuteCircuit %s - qubits %d, layers %d, gates %d, measurements %d, level %s, took %v",
		circuit.Name, circuit.numQubits, circuit.TotalDepth(), operations,
		len(measurements), s.config.OptimizationLevel, elapsed,
	)

	return &QuantumResult{
		RunID:           uuid.NewString(),
		CircuitName:     circuit.Name,
		FinalState:      state,
		Measurements:    measurements,
		ExecutionTime:   elapsed,
		OperationsCount: operations,
	}, nil
}

func (s *StateVectorSimulator) validateCircuit(circuit *QuantumCircuit) error {
	if err := NewMemoryGovernor(s.config.MemoryLimitGB).Admit(circuit.numQubits); err != nil {
		return err
	}

	for _, layer := range circuit.layers {
		for _, gate := range layer.Gates {
			if err := circuit.validateGate(gate); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *StateVectorSimulator) executeLayer(state *QuantumState, layer *CircuitLayer) error {
	switch s.config.OptimizationLevel {
	case OptimizationUltra:
		return s.executeLayerUltra(state, layer)
	case OptimizationAggressive:
		s.executeLayerAggressive(state, layer)
	case OptimizationBasic:
		for _, gate := range layer.Gates {
			s.applyGateOptimized(state, gate)
		}
	default:
		for _, gate := range layer.Gates {
			s.applyGateGeneric(state, gate)
		}
	}
	return nil
}

// executeLayerAggressive applies 1-qubit gates, then 2-qubit gates, then the rest.
func (s *StateVectorSimulator) executeLayerAggressive(state *QuantumState, layer *CircuitLayer) {
	var single, double, other []Gate
	for _, gate := range layer.Gates {
		switch len(gate.qubits) {
		case 1:
			single = append(single, gate)
		case 2:
			double = append(double, gate)
		default:
			other = append(other, gate)
		}
	}

	for _, bucket := range [][]Gate{single, double, other} {
		for _, gate := range bucket {
			s.applyGateOptimized(state, gate)
		}
	}
}

func (s *StateVectorSimulator) executeLayerUltra(state *QuantumState, layer *CircuitLayer) error {
	if len(layer.ParallelGroups) == 0 {
		s.executeLayerAggressive(state, layer)
		return nil
	}

	fannedOut := 0
	for _, group := range layer.ParallelGroups {
		if len(group) == 1 {
			s.applyGateOptimized(state, layer.Gates[group[0]])
			continue
		}

		parallel, err := s.applyParallelGroup(state, layer, group)
		if err != nil {
			return err
		}
		if parallel {
			fannedOut++
		}
	}

	s.stats.recordGroups(len(layer.ParallelGroups), fannedOut)
	return nil
}

func (s *StateVectorSimulator) applyGateOptimized(state *QuantumState, gate Gate) {
	start := time.Now()
	applyFastPath(state.Amplitudes, gate, gate.qubits)
	if !hasFastPath(gate.kind) {
		state.IsNormalized = state.IsNormalized && gate.unitary
	}
	s.stats.recordGate(gate.Mnemonic(), time.Since(start))
}

func (s *StateVectorSimulator) applyGateGeneric(state *QuantumState, gate Gate) {
	start := time.Now()
	applyMatrix(state.Amplitudes, gate.qubits, gate.matrix)
	state.IsNormalized = state.IsNormalized && gate.unitary
	s.stats.recordGate(gate.Mnemonic(), time.Since(start))
}

// shouldCompressState fires when fewer than a quarter of the amplitudes are non-zero.
func (s *StateVectorSimulator) shouldCompressState(state *QuantumState) bool {
	if !s.config.UseSparseRepresentation {
		return false
	}

	return state.NonZeroCount() < len(state.Amplitudes)/4
}

// compressState keeps the dense layout; sparse storage is not implemented.
func (s *StateVectorSimulator) compressState(*QuantumState) {}

func (s *StateVectorSimulator) ensurePool() *Pool {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	if s.pool == nil {
		s.pool = NewPool(context.Background(), s.config.workers())
	}
	return s.pool
}

func (s *StateVectorSimulator) closePool() {
	s.poolMu.Lock()
	pool := s.pool
	s.pool = nil
	s.poolMu.Unlock()

	pool.Close()
}
