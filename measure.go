package qsim

import (
	"fmt"
	"strings"
)

/*
MeasurementOutcome is one sampled measurement. CollapsedToZero is true when
the uniform draw landed in the zero bucket (r < P(qubit = 0)), in which case
the state was projected onto qubit = 0.
*/
type MeasurementOutcome struct {
	Qubit           int  `yaml:"qubit"`
	CollapsedToZero bool `yaml:"collapsed_to_zero"`
}

// Value is the classical bit the qubit collapsed to.
func (m MeasurementOutcome) Value() int {
	if m.CollapsedToZero {
		return 0
	}
	return 1
}

/*
performMeasurements samples each qubit once, in ascending order, after all
layers have run. A draw below P(0) collapses onto 0. If rounding leaves the
chosen branch with no weight at all, the other branch is taken.
*/
func (s *StateVectorSimulator) performMeasurements(state *QuantumState, qubits []int) ([]MeasurementOutcome, error) {
	results := make([]MeasurementOutcome, 0, len(qubits))

	for _, qubit := range qubits {
		probZero := state.ProbabilityZero(qubit)
		toZero := s.draw() < probZero

		if !toZero && state.MeasureProbability(qubit, true) <= 0 {
			toZero = true
		}

		if err := state.Collapse(qubit, toZero); err != nil {
			return nil, fmt.Errorf("measure: %w", err)
		}
		results = append(results, MeasurementOutcome{Qubit: qubit, CollapsedToZero: toZero})
	}
	return results, nil
}

func (s *StateVectorSimulator) draw() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

// Bitstring renders the outcomes in measurement order, one character per qubit.
func (r *QuantumResult) Bitstring() string {
	var sb strings.Builder
	for _, m := range r.Measurements {
		fmt.Fprintf(&sb, "%d", m.Value())
	}
	return sb.String()
}
