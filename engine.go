package qsim

import (
	"fmt"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
QuantumEngine keeps a registry of named circuits and one simulator that
runs them. The most recently created circuit is the active one.
*/
type QuantumEngine struct {
	mu        sync.RWMutex
	simulator *StateVectorSimulator
	circuits  map[string]*QuantumCircuit
	active    string
}

func NewQuantumEngine(opts ...SimulatorOption) *QuantumEngine {
	return &QuantumEngine{
		simulator: NewStateVectorSimulator(opts...),
		circuits:  make(map[string]*QuantumCircuit),
	}
}

// CreateCircuit registers an empty circuit under name, replacing any previous one.
func (e *QuantumEngine) CreateCircuit(name string, numQubits int) *QuantumCircuit {
	e.mu.Lock()
	defer e.mu.Unlock()

	circuit := NewNamedCircuit(numQubits, name)
	e.circuits[name] = circuit
	e.active = name

	errnie.Info("CreateCircuit - %s with %d qubits", name, numQubits)
	return circuit
}

func (e *QuantumEngine) Circuit(name string) (*QuantumCircuit, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	circuit, ok := e.circuits[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCircuit, name)
	}
	return circuit, nil
}

// ActiveCircuit returns the most recently created circuit, or ErrUnknownCircuit when there is none.
func (e *QuantumEngine) ActiveCircuit() (*QuantumCircuit, error) {
	e.mu.RLock()
	name := e.active
	e.mu.RUnlock()

	if name == "" {
		return nil, ErrUnknownCircuit
	}
	return e.Circuit(name)
}

func (e *QuantumEngine) SetActive(name string) error {
	if _, err := e.Circuit(name); err != nil {
		return err
	}

	e.mu.Lock()
	e.active = name
	e.mu.Unlock()
	return nil
}

func (e *QuantumEngine) RunCircuit(name string) (*QuantumResult, error) {
	circuit, err := e.Circuit(name)
	if err != nil {
		return nil, err
	}
	return e.simulator.ExecuteCircuit(circuit)
}

// ApplyCommand applies one command line to the active circuit.
func (e *QuantumEngine) ApplyCommand(line string) error {
	circuit, err := e.ActiveCircuit()
	if err != nil {
		return err
	}
	return ApplyCommand(circuit, line)
}

// CircuitNames lists the registered circuits in no particular order.
func (e *QuantumEngine) CircuitNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.circuits))
	for name := range e.circuits {
		names = append(names, name)
	}
	return names
}

func (e *QuantumEngine) Simulator() *StateVectorSimulator {
	return e.simulator
}

func (e *QuantumEngine) Close() {
	e.simulator.Close()
}
