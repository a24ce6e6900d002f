package qsim

import "fmt"

// MaxUnitaryQubits bounds Unitary; the matrix holds 4^n entries.
const MaxUnitaryQubits = 10

/*
Unitary returns the row-major 2^n x 2^n matrix of the whole circuit.
Column j is the state reached from basis state |j> after every layer,
evolved with the generic kernel. Measurements are ignored.
*/
func (c *QuantumCircuit) Unitary() ([]complex128, error) {
	if c.numQubits < 0 {
		return nil, fmt.Errorf("%w: negative register size %d", ErrQubitOutOfBounds, c.numQubits)
	}
	if c.numQubits > MaxUnitaryQubits {
		return nil, fmt.Errorf(
			"%w: %d qubits, at most %d", ErrCircuitTooLarge, c.numQubits, MaxUnitaryQubits,
		)
	}

	dim := 1 << c.numQubits
	out := make([]complex128, dim*dim)
	column := make([]complex128, dim)

	for j := 0; j < dim; j++ {
		clear(column)
		column[j] = 1

		for _, layer := range c.layers {
			for _, gate := range layer.Gates {
				applyMatrix(column, gate.qubits, gate.matrix)
			}
		}

		for i, amp := range column {
			out[i*dim+j] = amp
		}
	}
	return out, nil
}
