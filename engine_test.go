package qsim

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantumEngine(t *testing.T) {
	Convey("Given an engine", t, func() {
		engine := NewQuantumEngine(WithSeed(5))
		Reset(engine.Close)

		Convey("Running an unknown circuit should fail", func() {
			_, err := engine.RunCircuit("missing")
			So(errors.Is(err, ErrUnknownCircuit), ShouldBeTrue)

			_, err = engine.ActiveCircuit()
			So(errors.Is(err, ErrUnknownCircuit), ShouldBeTrue)
		})

		Convey("A created circuit should become active", func() {
			engine.CreateCircuit("bell", 2)
			So(engine.ApplyCommand("H 0"), ShouldBeNil)
			So(engine.ApplyCommand("CNOT 0 1"), ShouldBeNil)

			active, err := engine.ActiveCircuit()
			So(err, ShouldBeNil)
			So(active.Name, ShouldEqual, "bell")
			So(active.GateCount(), ShouldEqual, 2)

			result, err := engine.RunCircuit("bell")
			So(err, ShouldBeNil)
			So(result.CircuitName, ShouldEqual, "bell")
			So(result.FinalState.Probabilities()[3], ShouldAlmostEqual, 0.5, 1e-12)
			So(engine.Simulator().Stats().CircuitsExecuted, ShouldEqual, 1)
		})

		Convey("SetActive should switch between registered circuits", func() {
			engine.CreateCircuit("a", 1)
			engine.CreateCircuit("b", 1)
			So(engine.CircuitNames(), ShouldHaveLength, 2)

			So(engine.SetActive("a"), ShouldBeNil)
			So(engine.ApplyCommand("X 0"), ShouldBeNil)

			a, _ := engine.Circuit("a")
			b, _ := engine.Circuit("b")
			So(a.GateCount(), ShouldEqual, 1)
			So(b.GateCount(), ShouldEqual, 0)

			So(errors.Is(engine.SetActive("c"), ErrUnknownCircuit), ShouldBeTrue)
		})
	})
}
