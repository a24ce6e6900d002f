package qsim

/*
CircuitBuilder chains gate additions. The first error stops further
additions and is returned by Build.

Example:

	circuit, err := NewCircuitBuilder(2).H(0).CNOT(0, 1).MeasureAll().Build()
*/
type CircuitBuilder struct {
	circuit *QuantumCircuit
	err     error
}

func NewCircuitBuilder(numQubits int) *CircuitBuilder {
	return &CircuitBuilder{circuit: NewQuantumCircuit(numQubits)}
}

func NewNamedCircuitBuilder(numQubits int, name string) *CircuitBuilder {
	return &CircuitBuilder{circuit: NewNamedCircuit(numQubits, name)}
}

func (b *CircuitBuilder) do(fn func() error) *CircuitBuilder {
	if b.err == nil {
		b.err = fn()
	}
	return b
}

func (b *CircuitBuilder) Gate(gate Gate) *CircuitBuilder {
	return b.do(func() error { return b.circuit.AddGate(gate) })
}

func (b *CircuitBuilder) Layer(gates ...Gate) *CircuitBuilder {
	return b.do(func() error { return b.circuit.AddLayer(gates) })
}

func (b *CircuitBuilder) H(q int) *CircuitBuilder { return b.Gate(NewHadamard(q)) }
func (b *CircuitBuilder) X(q int) *CircuitBuilder { return b.Gate(NewPauliX(q)) }
func (b *CircuitBuilder) Y(q int) *CircuitBuilder { return b.Gate(NewPauliY(q)) }
func (b *CircuitBuilder) Z(q int) *CircuitBuilder { return b.Gate(NewPauliZ(q)) }
func (b *CircuitBuilder) S(q int) *CircuitBuilder { return b.Gate(NewS(q)) }
func (b *CircuitBuilder) T(q int) *CircuitBuilder { return b.Gate(NewT(q)) }

func (b *CircuitBuilder) RX(q int, theta float64) *CircuitBuilder { return b.Gate(NewRX(q, theta)) }
func (b *CircuitBuilder) RY(q int, theta float64) *CircuitBuilder { return b.Gate(NewRY(q, theta)) }
func (b *CircuitBuilder) RZ(q int, theta float64) *CircuitBuilder { return b.Gate(NewRZ(q, theta)) }

func (b *CircuitBuilder) CNOT(control, target int) *CircuitBuilder {
	return b.Gate(NewCNOT(control, target))
}

func (b *CircuitBuilder) CZ(control, target int) *CircuitBuilder {
	return b.Gate(NewCZ(control, target))
}

func (b *CircuitBuilder) SWAP(q1, q2 int) *CircuitBuilder {
	return b.Gate(NewSWAP(q1, q2))
}

func (b *CircuitBuilder) Toffoli(c1, c2, target int) *CircuitBuilder {
	return b.Gate(NewToffoli(c1, c2, target))
}

func (b *CircuitBuilder) Measure(q int) *CircuitBuilder {
	return b.do(func() error { return b.circuit.Measure(q) })
}

func (b *CircuitBuilder) MeasureAll() *CircuitBuilder {
	return b.do(func() error {
		b.circuit.MeasureAll()
		return nil
	})
}

func (b *CircuitBuilder) Build() (*QuantumCircuit, error) {
	return b.circuit, b.err
}
