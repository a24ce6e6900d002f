package qsim

import (
	"fmt"
	"slices"
	"time"
)

/*
groupPlan describes how a qubit-disjoint group splits the register. The
group's gates only ever mix amplitudes whose indices agree on every bit
outside the union of their qubits, so each such block of 2^k indices is
independent of every other block and can be evolved on its own.
*/
type groupPlan struct {
	gates     []Gate
	positions [][]int
	offsets   []int
	free      []int
	blocks    int
}

func newGroupPlan(layer *CircuitLayer, group []int, numQubits int) groupPlan {
	union := layer.qubitSet(group)
	slices.Sort(union)

	local := make(map[int]int, len(union))
	for b, q := range union {
		local[q] = b
	}

	plan := groupPlan{
		gates:     make([]Gate, len(group)),
		positions: make([][]int, len(group)),
		offsets:   make([]int, 1<<len(union)),
		blocks:    1 << (numQubits - len(union)),
	}

	for i, idx := range group {
		gate := layer.Gates[idx]
		plan.gates[i] = gate
		plan.positions[i] = make([]int, len(gate.qubits))
		for b, q := range gate.qubits {
			plan.positions[i][b] = local[q]
		}
	}

	for j := range plan.offsets {
		for b, q := range union {
			if j&(1<<b) != 0 {
				plan.offsets[j] |= 1 << q
			}
		}
	}

	for q := 0; q < numQubits; q++ {
		if _, ok := local[q]; !ok {
			plan.free = append(plan.free, q)
		}
	}
	return plan
}

// base spreads the bits of block over the free qubit positions.
func (plan groupPlan) base(block int) int {
	out := 0
	for t, q := range plan.free {
		if block&(1<<t) != 0 {
			out |= 1 << q
		}
	}
	return out
}

// evolve gathers, evolves and scatters blocks [from, to) using one scratch buffer.
func (plan groupPlan) evolve(amps []complex128, from, to int) {
	scratch := make([]complex128, len(plan.offsets))

	for block := from; block < to; block++ {
		base := plan.base(block)
		for j, off := range plan.offsets {
			scratch[j] = amps[base|off]
		}
		for i, gate := range plan.gates {
			applyFastPath(scratch, gate, plan.positions[i])
		}
		for j, off := range plan.offsets {
			amps[base|off] = scratch[j]
		}
	}
}

/*
applyParallelGroup applies a group of qubit-disjoint gates. Large registers
are cut into contiguous ranges of blocks, one job per worker; small ones,
or groups that cover the whole register, run in place. It reports whether
the group was actually spread over the pool.
*/
func (s *StateVectorSimulator) applyParallelGroup(state *QuantumState, layer *CircuitLayer, group []int) (bool, error) {
	plan := newGroupPlan(layer, group, state.NumQubits)
	workers := s.config.workers()

	if len(state.Amplitudes) < s.config.ParallelThreshold || plan.blocks < 2 || workers < 2 {
		for _, idx := range group {
			s.applyGateOptimized(state, layer.Gates[idx])
		}
		return false, nil
	}

	start := time.Now()
	jobs := min(workers, plan.blocks)
	per := (plan.blocks + jobs - 1) / jobs

	fns := make([]func() error, 0, jobs)
	for from := 0; from < plan.blocks; from += per {
		to := min(from+per, plan.blocks)
		fns = append(fns, func() error {
			plan.evolve(state.Amplitudes, from, to)
			return nil
		})
	}

	if err := s.ensurePool().Run(fmt.Sprintf("layer-%d", layer.Depth), fns); err != nil {
		return false, err
	}

	share := time.Since(start) / time.Duration(len(plan.gates))
	for _, gate := range plan.gates {
		s.stats.recordGate(gate.Mnemonic(), share)
	}
	return true, nil
}
