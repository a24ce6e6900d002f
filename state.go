package qsim

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// DefaultSparseThreshold is the magnitude |a| at or below which an amplitude counts as zero.
const DefaultSparseThreshold = 1e-12

/*
QuantumState is the dense amplitude buffer of an n-qubit register.
Bit q of a basis index is the computational value of qubit q; every gate
kernel and every measurement formula in this package uses that convention.

The buffer length is fixed at 2^n for the lifetime of the state.
IsNormalized is a best-effort flag, it is not re-verified on read.
*/
type QuantumState struct {
	NumQubits       int
	Amplitudes      []complex128
	IsNormalized    bool
	SparseThreshold float64
}

// NewQuantumState returns |0...0>.
func NewQuantumState(numQubits int) *QuantumState {
	return NewBasisState(numQubits, 0)
}

/*
NewBasisState returns |index>; an index outside the register leaves every
amplitude zero. A negative register size gives an empty state with no
amplitudes at all.
*/
func NewBasisState(numQubits, index int) *QuantumState {
	if numQubits < 0 {
		return &QuantumState{SparseThreshold: DefaultSparseThreshold}
	}

	amplitudes := make([]complex128, 1<<numQubits)
	if index >= 0 && index < len(amplitudes) {
		amplitudes[index] = 1
	}

	return &QuantumState{
		NumQubits:       numQubits,
		Amplitudes:      amplitudes,
		IsNormalized:    true,
		SparseThreshold: DefaultSparseThreshold,
	}
}

// Len is the number of basis states.
func (qs *QuantumState) Len() int {
	return len(qs.Amplitudes)
}

func (qs *QuantumState) Clone() *QuantumState {
	out := *qs
	out.Amplitudes = append([]complex128(nil), qs.Amplitudes...)
	return &out
}

// Probabilities returns |amplitude|^2 for every basis state.
func (qs *QuantumState) Probabilities() []float64 {
	probs := make([]float64, len(qs.Amplitudes))
	for i, amp := range qs.Amplitudes {
		probs[i] = normSqr(amp)
	}
	return probs
}

// TotalProbability is the squared norm of the state.
func (qs *QuantumState) TotalProbability() float64 {
	return floats.Sum(qs.Probabilities())
}

// ProbabilityZero is the marginal probability that qubit reads 0.
func (qs *QuantumState) ProbabilityZero(qubit int) float64 {
	return qs.MeasureProbability(qubit, false)
}

// MeasureProbability is the marginal probability that qubit reads value, without collapsing.
func (qs *QuantumState) MeasureProbability(qubit int, value bool) float64 {
	mask := 1 << qubit
	target := 0
	if value {
		target = mask
	}

	prob := 0.0
	for i, amp := range qs.Amplitudes {
		if i&mask == target {
			prob += normSqr(amp)
		}
	}
	return prob
}

/*
Collapse projects qubit onto the zero branch (toZero) or the one branch,
zeroing every inconsistent amplitude and dividing the survivors by the
square root of the branch probability.
*/
func (qs *QuantumState) Collapse(qubit int, toZero bool) error {
	if qubit < 0 || qubit >= qs.NumQubits {
		return &QubitOutOfBoundsError{Qubit: qubit, NumQubits: qs.NumQubits}
	}

	mask := 1 << qubit
	keep := mask
	if toZero {
		keep = 0
	}

	branch := qs.MeasureProbability(qubit, !toZero)
	if branch <= 0 {
		return fmt.Errorf("qubit %d: %w", qubit, ErrZeroProbabilityBranch)
	}

	norm := complex(math.Sqrt(branch), 0)
	for i := range qs.Amplitudes {
		if i&mask == keep {
			qs.Amplitudes[i] /= norm
		} else {
			qs.Amplitudes[i] = 0
		}
	}

	qs.IsNormalized = true
	return nil
}

// Normalize rescales the state to unit norm unless it is already flagged normalized.
func (qs *QuantumState) Normalize() {
	if qs.IsNormalized {
		return
	}

	norm := math.Sqrt(qs.TotalProbability())
	if norm > 0 {
		scale := complex(1/norm, 0)
		for i := range qs.Amplitudes {
			qs.Amplitudes[i] *= scale
		}
	}
	qs.IsNormalized = true
}

// Fidelity is |<self|other>|^2, or 0 for registers of different size.
func (qs *QuantumState) Fidelity(other *QuantumState) float64 {
	if other == nil || qs.NumQubits != other.NumQubits {
		return 0
	}

	var overlap complex128
	for i, amp := range qs.Amplitudes {
		overlap += cmplx.Conj(amp) * other.Amplitudes[i]
	}
	return normSqr(overlap)
}

// NonZeroCount counts amplitudes whose magnitude exceeds the sparse threshold.
func (qs *QuantumState) NonZeroCount() int {
	count := 0
	for _, amp := range qs.Amplitudes {
		if cmplx.Abs(amp) > qs.SparseThreshold {
			count++
		}
	}
	return count
}

// IsSparse reports fewer than 10% non-zero amplitudes.
func (qs *QuantumState) IsSparse() bool {
	return float64(qs.NonZeroCount()) < float64(len(qs.Amplitudes))*0.1
}

// BasisAmplitude is a labelled non-zero entry of the state.
type BasisAmplitude struct {
	Basis string  `yaml:"basis"`
	Real  float64 `yaml:"re"`
	Imag  float64 `yaml:"im"`
	Prob  float64 `yaml:"p"`
}

// NonZero lists the amplitudes above the sparse threshold in basis order.
func (qs *QuantumState) NonZero() []BasisAmplitude {
	out := make([]BasisAmplitude, 0)
	for i, amp := range qs.Amplitudes {
		if cmplx.Abs(amp) > qs.SparseThreshold {
			out = append(out, BasisAmplitude{
				Basis: qs.BasisLabel(i),
				Real:  real(amp),
				Imag:  imag(amp),
				Prob:  normSqr(amp),
			})
		}
	}
	return out
}

// BasisLabel renders index as an n-character bitstring, qubit n-1 first.
func (qs *QuantumState) BasisLabel(index int) string {
	if qs.NumQubits == 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", qs.NumQubits, index)
}

/*
SampleCounts draws shots basis states from the current distribution
without collapsing and returns bitstring counts.
*/
func (qs *QuantumState) SampleCounts(shots int, rng *rand.Rand) map[string]int {
	probs := qs.Probabilities()
	counts := make(map[string]int)

	for range shots {
		r := rng.Float64()
		cumulative := 0.0
		picked := len(probs) - 1
		for i, p := range probs {
			cumulative += p
			if r <= cumulative {
				picked = i
				break
			}
		}
		counts[qs.BasisLabel(picked)]++
	}
	return counts
}

func normSqr(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
