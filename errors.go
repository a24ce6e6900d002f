package qsim

import (
	"errors"
	"fmt"
)

var (
	ErrQubitOutOfBounds          = errors.New("qubit out of bounds")
	ErrDuplicateQubit            = errors.New("gate references the same qubit twice")
	ErrMatrixSizeMismatch        = errors.New("gate matrix size mismatch")
	ErrMemoryBudgetExceeded      = errors.New("memory budget exceeded")
	ErrCircuitQubitCountMismatch = errors.New("circuit qubit count mismatch")
	ErrCircuitTooLarge           = errors.New("circuit too large for matrix representation")
	ErrZeroProbabilityBranch     = errors.New("cannot collapse onto a zero-probability branch")
	ErrUnknownCommand            = errors.New("unknown command")
	ErrMalformedCommand          = errors.New("malformed command")
	ErrUnknownCircuit            = errors.New("circuit not found")
	ErrPoolClosed                = errors.New("worker pool is closed")
)

/*
QubitOutOfBoundsError reports a gate or measurement that names a qubit
outside the circuit's declared register.
*/
type QubitOutOfBoundsError struct {
	Qubit     int
	NumQubits int
}

func (e *QubitOutOfBoundsError) Error() string {
	return fmt.Sprintf("qubit %d out of bounds for %d-qubit circuit", e.Qubit, e.NumQubits)
}

func (e *QubitOutOfBoundsError) Unwrap() error {
	return ErrQubitOutOfBounds
}

// DuplicateQubitError reports a gate whose qubit list repeats an index.
type DuplicateQubitError struct {
	Qubit int
	Gate  string
}

func (e *DuplicateQubitError) Error() string {
	return fmt.Sprintf("gate %s references qubit %d more than once", e.Gate, e.Qubit)
}

func (e *DuplicateQubitError) Unwrap() error {
	return ErrDuplicateQubit
}

// MatrixSizeError reports a custom matrix whose length does not fit its qubit count.
type MatrixSizeError struct {
	Got       int
	Expected  int
	NumQubits int
}

func (e *MatrixSizeError) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("no matrix fits a %d-qubit gate, got %d entries", e.NumQubits, e.Got)
	}
	return fmt.Sprintf(
		"matrix size %d doesn't match expected %d for %d qubits",
		e.Got, e.Expected, e.NumQubits,
	)
}

func (e *MatrixSizeError) Unwrap() error {
	return ErrMatrixSizeMismatch
}

/*
MemoryBudgetError is returned before any amplitude buffer is allocated when
the dense state of a circuit would not fit the configured memory limit.
*/
type MemoryBudgetError struct {
	NumQubits  int
	RequiredGB float64
	LimitGB    float64
}

func (e *MemoryBudgetError) Error() string {
	return fmt.Sprintf(
		"circuit with %d qubits requires %.2f GB but limit is %.2f GB",
		e.NumQubits, e.RequiredGB, e.LimitGB,
	)
}

func (e *MemoryBudgetError) Unwrap() error {
	return ErrMemoryBudgetExceeded
}

// QubitCountMismatchError is returned when composing circuits of different widths.
type QubitCountMismatchError struct {
	Left  int
	Right int
}

func (e *QubitCountMismatchError) Error() string {
	return fmt.Sprintf(
		"cannot compose a %d-qubit circuit with a %d-qubit circuit", e.Left, e.Right,
	)
}

func (e *QubitCountMismatchError) Unwrap() error {
	return ErrCircuitQubitCountMismatch
}
