package qsim

import "math"

// bytesPerAmplitude is the size of one complex128.
const bytesPerAmplitude = 16

/*
MemoryGovernor is the admission check run before a state vector is
allocated. A register of n qubits needs 2^n * 16 bytes; anything above the
limit is refused with a MemoryBudgetError.

Example:

	governor := NewMemoryGovernor(8)
	if err := governor.Admit(30); err != nil { ... }
*/
type MemoryGovernor struct {
	limitGB float64
}

func NewMemoryGovernor(limitGB float64) MemoryGovernor {
	return MemoryGovernor{limitGB: limitGB}
}

// RequiredGB is the dense state size for numQubits, computed without integer overflow.
func RequiredGB(numQubits int) float64 {
	return math.Ldexp(bytesPerAmplitude, numQubits) / (1 << 30)
}

// EstimateMemoryMB is the dense state size for numQubits in MB.
func EstimateMemoryMB(numQubits int) float64 {
	return math.Ldexp(bytesPerAmplitude, numQubits) / (1 << 20)
}

// MaxQubitsForMemory is the largest register whose state fits in memoryLimitGB.
func MaxQubitsForMemory(memoryLimitGB float64) int {
	limitMB := memoryLimitGB * 1024
	qubits := 0
	for qubits < 62 && EstimateMemoryMB(qubits+1) <= limitMB {
		qubits++
	}
	return qubits
}

func (g MemoryGovernor) LimitGB() float64 { return g.limitGB }

// Admit returns a MemoryBudgetError when numQubits does not fit the limit.
func (g MemoryGovernor) Admit(numQubits int) error {
	required := RequiredGB(numQubits)
	if numQubits < 0 || numQubits >= 63 || required > g.limitGB {
		return &MemoryBudgetError{
			NumQubits:  numQubits,
			RequiredGB: required,
			LimitGB:    g.limitGB,
		}
	}
	return nil
}
