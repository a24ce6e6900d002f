package qsim

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOptimizeIdentities(t *testing.T) {
	Convey("Given a circuit with identity gates", t, func() {
		circuit := NewQuantumCircuit(2)
		So(circuit.I(0), ShouldBeNil)
		So(circuit.I(1), ShouldBeNil)
		So(circuit.H(0), ShouldBeNil)
		So(circuit.I(1), ShouldBeNil)

		report := circuit.Optimize()

		Convey("Identities and the layers they emptied should be gone", func() {
			So(report.IdentitiesRemoved, ShouldEqual, 3)
			So(report.GatesBefore, ShouldEqual, 4)
			So(report.GatesAfter, ShouldEqual, 1)
			So(circuit.TotalDepth(), ShouldEqual, 1)
			So(circuit.Layers()[0].Depth, ShouldEqual, 0)
			So(circuit.Layers()[0].ParallelGroups, ShouldResemble, [][]int{{0}})
		})
	})
}

func TestOptimizeRotations(t *testing.T) {
	Convey("Given a layer of rotations on the same qubits", t, func() {
		circuit := NewQuantumCircuit(2)
		So(circuit.AddLayer([]Gate{
			NewRZ(1, 0.25),
			NewHadamard(0),
			NewRX(0, 0.5),
			NewRZ(1, 0.5),
			NewRX(0, 0.25),
			NewRY(1, 0.3),
			NewRY(1, -0.3),
		}), ShouldBeNil)

		report := circuit.Optimize()
		gates := circuit.Gates()

		Convey("Angles should be summed and non-rotations kept first", func() {
			So(gates, ShouldHaveLength, 3)
			So(gates[0].Kind(), ShouldEqual, GateHadamard)

			So(gates[1].Kind(), ShouldEqual, GateRZ)
			So(gates[1].Qubits(), ShouldResemble, []int{1})
			So(gates[1].Theta(), ShouldAlmostEqual, 0.75, 1e-12)

			So(gates[2].Kind(), ShouldEqual, GateRX)
			So(gates[2].Qubits(), ShouldResemble, []int{0})
			So(gates[2].Theta(), ShouldAlmostEqual, 0.75, 1e-12)
		})

		Convey("Cancelling rotations should disappear", func() {
			for _, gate := range gates {
				So(gate.Kind(), ShouldNotEqual, GateRY)
			}
			So(report.RotationsMerged, ShouldEqual, 4)
		})
	})
}

func TestOptimizeCancellation(t *testing.T) {
	Convey("Given adjacent self-inverse pairs in one layer", t, func() {
		circuit := NewQuantumCircuit(3)
		So(circuit.AddLayer([]Gate{
			NewHadamard(0),
			NewCNOT(1, 2),
			NewHadamard(0),
			NewPauliX(1),
			NewPauliX(1),
			NewPauliX(1),
			NewS(2),
			NewS(2),
		}), ShouldBeNil)

		report := circuit.Optimize()

		Convey("Matching pairs should cancel across multi-qubit gates", func() {
			So(report.GatesCancelled, ShouldEqual, 4)
			So(circuit.GateCountByType(), ShouldResemble, map[string]int{"CNOT": 1, "X": 1, "S": 2})
		})
	})

	Convey("Given a layer the cancellation empties", t, func() {
		circuit := NewQuantumCircuit(1)
		So(circuit.AddLayer([]Gate{NewPauliZ(0), NewPauliZ(0)}), ShouldBeNil)

		circuit.Optimize()

		Convey("The empty layer should stay in place", func() {
			So(circuit.TotalDepth(), ShouldEqual, 1)
			So(circuit.GateCount(), ShouldEqual, 0)
		})
	})
}

func TestOptimizeIsIdempotent(t *testing.T) {
	Convey("Given an already optimized circuit", t, func() {
		circuit := NewQuantumCircuit(3)
		So(circuit.AddLayer([]Gate{NewRX(0, 0.1), NewRX(0, 0.2), NewIdentity(1), NewHadamard(2), NewHadamard(2)}), ShouldBeNil)
		So(circuit.CNOT(0, 1), ShouldBeNil)

		circuit.Optimize()
		before := circuit.Gates()

		report := circuit.Optimize()

		Convey("A second pass should change nothing", func() {
			So(report.IdentitiesRemoved, ShouldEqual, 0)
			So(report.RotationsMerged, ShouldEqual, 0)
			So(report.GatesCancelled, ShouldEqual, 0)
			So(circuit.Gates(), ShouldHaveLength, len(before))
			for i, gate := range circuit.Gates() {
				So(gate.Kind(), ShouldEqual, before[i].Kind())
				So(gate.Theta(), ShouldEqual, before[i].Theta())
			}
		})
	})
}
