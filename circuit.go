package qsim

import (
	"fmt"
	"slices"
)

/*
QuantumCircuit is an ordered list of depth layers over a fixed register.
Gates added through AddGate are scheduled greedily: a gate joins the most
recent layer when it is disjoint from every gate there, otherwise it opens
a new layer. Earlier layers are never revisited.

Measurements are recorded as a set of qubits to sample once every layer
has run. The value slot of the map is scratch space and is not read by
the simulator.
*/
type QuantumCircuit struct {
	Name     string
	Metadata map[string]string

	numQubits    int
	layers       []CircuitLayer
	measurements map[int]*bool
}

// NewQuantumCircuit returns an empty circuit named Circuit_<n>.
func NewQuantumCircuit(numQubits int) *QuantumCircuit {
	return NewNamedCircuit(numQubits, fmt.Sprintf("Circuit_%d", numQubits))
}

// NewNamedCircuit returns an empty circuit over numQubits qubits.
func NewNamedCircuit(numQubits int, name string) *QuantumCircuit {
	return &QuantumCircuit{
		Name:         name,
		Metadata:     make(map[string]string),
		numQubits:    numQubits,
		measurements: make(map[int]*bool),
	}
}

// NumQubits is the register width fixed at construction.
func (c *QuantumCircuit) NumQubits() int { return c.numQubits }

// TotalDepth is the number of layers.
func (c *QuantumCircuit) TotalDepth() int { return len(c.layers) }

// validateGate checks every target against the register and rejects repeated targets.
func (c *QuantumCircuit) validateGate(gate Gate) error {
	seen := make(map[int]struct{}, len(gate.qubits))
	for _, q := range gate.qubits {
		if q < 0 || q >= c.numQubits {
			return &QubitOutOfBoundsError{Qubit: q, NumQubits: c.numQubits}
		}
		if _, ok := seen[q]; ok {
			return &DuplicateQubitError{Qubit: q, Gate: gate.Name()}
		}
		seen[q] = struct{}{}
	}
	return nil
}

// AddGate validates gate and schedules it onto the last layer or a new one.
func (c *QuantumCircuit) AddGate(gate Gate) error {
	if err := c.validateGate(gate); err != nil {
		return err
	}

	if n := len(c.layers); n > 0 && !c.layers[n-1].conflicts(gate) {
		c.layers[n-1].addGate(gate)
		return nil
	}

	layer := newCircuitLayer(len(c.layers))
	layer.addGate(gate)
	c.layers = append(c.layers, layer)
	return nil
}

/*
AddLayer appends gates as one layer, exactly as given. Qubit bounds are
checked, but gates sharing a qubit are not rejected: keeping such a layer
well formed is the caller's responsibility. Nothing is appended on error.
*/
func (c *QuantumCircuit) AddLayer(gates []Gate) error {
	layer := newCircuitLayer(len(c.layers))
	for _, gate := range gates {
		if err := c.validateGate(gate); err != nil {
			return err
		}
		layer.addGate(gate)
	}

	c.layers = append(c.layers, layer)
	return nil
}

/*
The convenience methods below build the named gate and schedule it with
AddGate, returning its validation error.
*/

// I adds an Identity gate.
func (c *QuantumCircuit) I(qubit int) error { return c.AddGate(NewIdentity(qubit)) }

// H adds a Hadamard gate.
func (c *QuantumCircuit) H(qubit int) error { return c.AddGate(NewHadamard(qubit)) }

// X adds a Pauli-X gate.
func (c *QuantumCircuit) X(qubit int) error { return c.AddGate(NewPauliX(qubit)) }

// Y adds a Pauli-Y gate.
func (c *QuantumCircuit) Y(qubit int) error { return c.AddGate(NewPauliY(qubit)) }

// Z adds a Pauli-Z gate.
func (c *QuantumCircuit) Z(qubit int) error { return c.AddGate(NewPauliZ(qubit)) }

// S adds an S gate.
func (c *QuantumCircuit) S(qubit int) error { return c.AddGate(NewS(qubit)) }

// T adds a T gate.
func (c *QuantumCircuit) T(qubit int) error { return c.AddGate(NewT(qubit)) }

// Phase adds diag(1, e^{i theta}) on qubit.
func (c *QuantumCircuit) Phase(qubit int, theta float64) error {
	return c.AddGate(NewPhase(qubit, theta))
}

// RX adds an X-axis rotation.
func (c *QuantumCircuit) RX(qubit int, theta float64) error {
	return c.AddGate(NewRX(qubit, theta))
}

// RY adds a Y-axis rotation.
func (c *QuantumCircuit) RY(qubit int, theta float64) error {
	return c.AddGate(NewRY(qubit, theta))
}

// RZ adds a Z-axis rotation.
func (c *QuantumCircuit) RZ(qubit int, theta float64) error {
	return c.AddGate(NewRZ(qubit, theta))
}

// CNOT adds a controlled X with control as local bit 0.
func (c *QuantumCircuit) CNOT(control, target int) error {
	return c.AddGate(NewCNOT(control, target))
}

// CZ adds a controlled Z.
func (c *QuantumCircuit) CZ(control, target int) error {
	return c.AddGate(NewCZ(control, target))
}

// SWAP adds a swap of qubit1 and qubit2.
func (c *QuantumCircuit) SWAP(qubit1, qubit2 int) error {
	return c.AddGate(NewSWAP(qubit1, qubit2))
}

// CPhase adds a controlled phase e^{i theta} on |11>.
func (c *QuantumCircuit) CPhase(control, target int, theta float64) error {
	return c.AddGate(NewCPhase(control, target, theta))
}

// Toffoli adds a doubly controlled X.
func (c *QuantumCircuit) Toffoli(control1, control2, target int) error {
	return c.AddGate(NewToffoli(control1, control2, target))
}

// Fredkin adds a controlled swap.
func (c *QuantumCircuit) Fredkin(control, target1, target2 int) error {
	return c.AddGate(NewFredkin(control, target1, target2))
}

// Measure schedules qubit for sampling after the last layer.
func (c *QuantumCircuit) Measure(qubit int) error {
	if qubit < 0 || qubit >= c.numQubits {
		return &QubitOutOfBoundsError{Qubit: qubit, NumQubits: c.numQubits}
	}
	c.measurements[qubit] = nil
	return nil
}

// MeasureAll schedules every qubit for sampling.
func (c *QuantumCircuit) MeasureAll() {
	for q := 0; q < c.numQubits; q++ {
		c.measurements[q] = nil
	}
}

// MeasuredQubits lists the scheduled measurements in ascending order.
func (c *QuantumCircuit) MeasuredQubits() []int {
	out := make([]int, 0, len(c.measurements))
	for q := range c.measurements {
		out = append(out, q)
	}
	slices.Sort(out)
	return out
}

// IsMeasured reports whether qubit is scheduled for sampling.
func (c *QuantumCircuit) IsMeasured(qubit int) bool {
	_, ok := c.measurements[qubit]
	return ok
}

// Layers returns a copy of the layer list.
func (c *QuantumCircuit) Layers() []CircuitLayer {
	out := make([]CircuitLayer, len(c.layers))
	for i, layer := range c.layers {
		out[i] = layer.clone()
	}
	return out
}

// Gates flattens the circuit in execution order.
func (c *QuantumCircuit) Gates() []Gate {
	out := make([]Gate, 0, c.GateCount())
	for _, layer := range c.layers {
		out = append(out, layer.Gates...)
	}
	return out
}

// GateCount is the number of gates over all layers.
func (c *QuantumCircuit) GateCount() int {
	count := 0
	for _, layer := range c.layers {
		count += len(layer.Gates)
	}
	return count
}

// GateCountByType maps gate mnemonics (X, RX, CNOT, ...) to their number of occurrences.
func (c *QuantumCircuit) GateCountByType() map[string]int {
	counts := make(map[string]int)
	for _, layer := range c.layers {
		for _, gate := range layer.Gates {
			counts[gate.Mnemonic()]++
		}
	}
	return counts
}

/*
QubitConnectivity returns, for every qubit, the sorted list of qubits it
shares a multi-qubit gate with.
*/
func (c *QuantumCircuit) QubitConnectivity() [][]int {
	connections := make([]map[int]struct{}, max(c.numQubits, 0))
	for i := range connections {
		connections[i] = make(map[int]struct{})
	}

	for _, layer := range c.layers {
		for _, gate := range layer.Gates {
			for i := 0; i < len(gate.qubits); i++ {
				for j := i + 1; j < len(gate.qubits); j++ {
					a, b := gate.qubits[i], gate.qubits[j]
					connections[a][b] = struct{}{}
					connections[b][a] = struct{}{}
				}
			}
		}
	}

	out := make([][]int, len(connections))
	for q, set := range connections {
		out[q] = make([]int, 0, len(set))
		for other := range set {
			out[q] = append(out[q], other)
		}
		slices.Sort(out[q])
	}
	return out
}

// Compose appends other's layers verbatim.
func (c *QuantumCircuit) Compose(other *QuantumCircuit) error {
	if c.numQubits != other.numQubits {
		return &QubitCountMismatchError{Left: c.numQubits, Right: other.numQubits}
	}

	for _, layer := range other.layers {
		if err := c.AddLayer(layer.Gates); err != nil {
			return fmt.Errorf("compose %s: %w", other.Name, err)
		}
	}
	return nil
}

// Clone deep-copies the layers, metadata and measurement set.
func (c *QuantumCircuit) Clone() *QuantumCircuit {
	out := NewNamedCircuit(c.numQubits, c.Name)
	for k, v := range c.Metadata {
		out.Metadata[k] = v
	}
	out.layers = c.Layers()
	for q := range c.measurements {
		out.measurements[q] = nil
	}
	return out
}

// Info is a short multi-line summary used by the CLI.
func (c *QuantumCircuit) Info() string {
	return fmt.Sprintf(
		"Circuit: %s\nQubits: %d\nDepth: %d\nGates: %d\nLayers: %d",
		c.Name, c.numQubits, c.TotalDepth(), c.GateCount(), len(c.layers),
	)
}

// renumber restores Depth == position after layers were dropped.
func (c *QuantumCircuit) renumber() {
	for i := range c.layers {
		c.layers[i].Depth = i
	}
}
