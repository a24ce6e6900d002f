package qsim

import (
	"math"

	"github.com/theapemachine/errnie"
)

// rotationEpsilon is the smallest merged angle that is still emitted as a gate.
const rotationEpsilon = 1e-10

// OptimizationReport summarises one Optimize call.
type OptimizationReport struct {
	GatesBefore       int `yaml:"gates_before"`
	GatesAfter        int `yaml:"gates_after"`
	DepthBefore       int `yaml:"depth_before"`
	DepthAfter        int `yaml:"depth_after"`
	IdentitiesRemoved int `yaml:"identities_removed"`
	RotationsMerged   int `yaml:"rotations_merged"`
	GatesCancelled    int `yaml:"gates_cancelled"`
}

/*
Optimize runs three passes in a fixed order: identity removal, rotation
merging and cancellation of adjacent self-inverse pairs. Every pass works
inside one layer at a time and never moves a gate across a layer boundary.

Because AddGate already keeps one gate per qubit per layer, the last two
passes only find work in layers built with AddLayer or Compose.
*/
func (c *QuantumCircuit) Optimize() OptimizationReport {
	report := OptimizationReport{
		GatesBefore: c.GateCount(),
		DepthBefore: c.TotalDepth(),
	}

	report.IdentitiesRemoved = c.removeIdentityGates()
	report.RotationsMerged = c.mergeSingleQubitRotations()
	report.GatesCancelled = c.cancelAdjacentGates()

	report.GatesAfter = c.GateCount()
	report.DepthAfter = c.TotalDepth()

	errnie.Info(
		"Optimize %s - gates %d -> %d, depth %d -> %d (identities %d, merged %d, cancelled %d)",
		c.Name,
		report.GatesBefore, report.GatesAfter,
		report.DepthBefore, report.DepthAfter,
		report.IdentitiesRemoved, report.RotationsMerged, report.GatesCancelled,
	)
	return report
}

// removeIdentityGates drops Identity gates and any layer left empty.
func (c *QuantumCircuit) removeIdentityGates() int {
	removed := 0
	layers := c.layers[:0]

	for _, layer := range c.layers {
		kept := layer.Gates[:0]
		for _, gate := range layer.Gates {
			if gate.kind == GateIdentity {
				removed++
				continue
			}
			kept = append(kept, gate)
		}

		if len(kept) == 0 {
			continue
		}
		if len(kept) != len(layer.Gates) {
			layer.Gates = kept
			layer.updateParallelization()
		}
		layers = append(layers, layer)
	}

	clear(c.layers[len(layers):])
	c.layers = layers
	c.renumber()
	return removed
}

/*
mergeSingleQubitRotations sums the RX, RY and RZ angles of each qubit in a
layer, deletes the input rotations and appends at most one RX, one RY
and one RZ per qubit, in order of the qubit's first rotation. It returns
the net number of gates removed.
*/
func (c *QuantumCircuit) mergeSingleQubitRotations() int {
	removed := 0

	for i := range c.layers {
		layer := &c.layers[i]

		var (
			kept  []Gate
			order []int
			sums  = make(map[int]*[3]float64)
		)

		for _, gate := range layer.Gates {
			axis := -1
			switch gate.kind {
			case GateRX:
				axis = 0
			case GateRY:
				axis = 1
			case GateRZ:
				axis = 2
			}
			if axis < 0 {
				kept = append(kept, gate)
				continue
			}

			q := gate.qubits[0]
			if _, ok := sums[q]; !ok {
				sums[q] = &[3]float64{}
				order = append(order, q)
			}
			sums[q][axis] += gate.theta
		}

		if len(order) == 0 {
			continue
		}

		before := len(layer.Gates)
		for _, q := range order {
			angles := sums[q]
			if math.Abs(angles[0]) > rotationEpsilon {
				kept = append(kept, NewRX(q, angles[0]))
			}
			if math.Abs(angles[1]) > rotationEpsilon {
				kept = append(kept, NewRY(q, angles[1]))
			}
			if math.Abs(angles[2]) > rotationEpsilon {
				kept = append(kept, NewRZ(q, angles[2]))
			}
		}

		layer.Gates = kept
		layer.updateParallelization()
		removed += before - len(kept)
	}
	return removed
}

func selfInverse(kind GateKind) bool {
	switch kind {
	case GatePauliX, GatePauliY, GatePauliZ, GateHadamard:
		return true
	}
	return false
}

/*
cancelAdjacentGates walks each layer tracking the latest single-qubit gate
seen per qubit. Two matching self-inverse gates (X/X, Y/Y, Z/Z, H/H) on the
same qubit are both dropped and the qubit's tracking entry is cleared.
Multi-qubit gates do not reset tracking.
*/
func (c *QuantumCircuit) cancelAdjacentGates() int {
	type seen struct {
		index int
		kind  GateKind
	}

	cancelled := 0
	for i := range c.layers {
		layer := &c.layers[i]
		previous := make(map[int]seen)
		drop := make(map[int]struct{})

		for idx, gate := range layer.Gates {
			if len(gate.qubits) != 1 {
				continue
			}

			q := gate.qubits[0]
			if prev, ok := previous[q]; ok && prev.kind == gate.kind && selfInverse(gate.kind) {
				drop[prev.index] = struct{}{}
				drop[idx] = struct{}{}
				delete(previous, q)
				continue
			}
			previous[q] = seen{index: idx, kind: gate.kind}
		}

		if len(drop) == 0 {
			continue
		}

		kept := make([]Gate, 0, len(layer.Gates)-len(drop))
		for idx, gate := range layer.Gates {
			if _, ok := drop[idx]; !ok {
				kept = append(kept, gate)
			}
		}
		layer.Gates = kept
		layer.updateParallelization()
		cancelled += len(drop)
	}
	return cancelled
}
