package qsim

/*
CircuitLayer is one depth slice of a circuit. Layers built by AddGate never
hold two gates that share a qubit; layers built by AddLayer hold exactly
what the caller passed.

ParallelGroups partitions the indices of Gates into runs whose members act
on pairwise disjoint qubits. It is rebuilt whenever the layer changes.
*/
type CircuitLayer struct {
	Gates          []Gate
	Depth          int
	ParallelGroups [][]int
}

func newCircuitLayer(depth int) CircuitLayer {
	return CircuitLayer{Depth: depth}
}

func (layer *CircuitLayer) addGate(gate Gate) {
	layer.Gates = append(layer.Gates, gate)
	layer.updateParallelization()
}

// conflicts reports whether gate shares a qubit with any gate already in the layer.
func (layer *CircuitLayer) conflicts(gate Gate) bool {
	used := make(map[int]struct{})
	for _, existing := range layer.Gates {
		for _, q := range existing.qubits {
			used[q] = struct{}{}
		}
	}
	return gate.touches(used)
}

/*
updateParallelization scans the gates in order and keeps extending the
current group while the next gate is disjoint from every qubit the group
already claims; otherwise it closes the group and starts a new one.
*/
func (layer *CircuitLayer) updateParallelization() {
	layer.ParallelGroups = layer.ParallelGroups[:0]

	var current []int
	used := make(map[int]struct{})

	for idx, gate := range layer.Gates {
		if gate.touches(used) {
			layer.ParallelGroups = append(layer.ParallelGroups, current)
			current = nil
			used = make(map[int]struct{})
		}

		current = append(current, idx)
		for _, q := range gate.qubits {
			used[q] = struct{}{}
		}
	}

	if len(current) > 0 {
		layer.ParallelGroups = append(layer.ParallelGroups, current)
	}
}

// clone deep-copies the slices so callers cannot disturb the circuit's own layer.
func (layer CircuitLayer) clone() CircuitLayer {
	out := CircuitLayer{
		Gates:          append([]Gate(nil), layer.Gates...),
		Depth:          layer.Depth,
		ParallelGroups: make([][]int, len(layer.ParallelGroups)),
	}
	for i, group := range layer.ParallelGroups {
		out.ParallelGroups[i] = append([]int(nil), group...)
	}
	return out
}

// qubitSet is the union of qubits touched by the gates at indices.
func (layer *CircuitLayer) qubitSet(indices []int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, idx := range indices {
		for _, q := range layer.Gates[idx].qubits {
			if _, ok := seen[q]; !ok {
				seen[q] = struct{}{}
				out = append(out, q)
			}
		}
	}
	return out
}
