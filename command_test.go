package qsim

import (
	"errors"
	"math"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApplyCommand(t *testing.T) {
	Convey("Given a 3-qubit circuit", t, func() {
		circuit := NewQuantumCircuit(3)

		Convey("Gate commands should be case-insensitive", func() {
			So(ApplyCommand(circuit, "h 0"), ShouldBeNil)
			So(ApplyCommand(circuit, "CNOT 0 1"), ShouldBeNil)
			So(ApplyCommand(circuit, "  rz   2   pi/2 "), ShouldBeNil)
			So(ApplyCommand(circuit, "Toffoli 0 1 2"), ShouldBeNil)

			gates := circuit.Gates()
			So(gates, ShouldHaveLength, 4)
			So(gates[0].Kind(), ShouldEqual, GateHadamard)
			So(gates[1].Qubits(), ShouldResemble, []int{0, 1})
			So(gates[2].Theta(), ShouldAlmostEqual, math.Pi/2, 1e-12)
			So(gates[3].Kind(), ShouldEqual, GateToffoli)
		})

		Convey("Measurement commands should schedule measurements", func() {
			So(ApplyCommand(circuit, "MEASURE 1"), ShouldBeNil)
			So(circuit.MeasuredQubits(), ShouldResemble, []int{1})

			So(ApplyCommand(circuit, "measure_all"), ShouldBeNil)
			So(circuit.MeasuredQubits(), ShouldResemble, []int{0, 1, 2})
		})

		Convey("Unknown mnemonics should be rejected", func() {
			err := ApplyCommand(circuit, "FOO 1")
			So(errors.Is(err, ErrUnknownCommand), ShouldBeTrue)
		})

		Convey("Wrong arity and bad tokens should be malformed", func() {
			for _, line := range []string{
				"", "H", "H 0 1", "CNOT 0", "RX 0", "RX 0 abc", "RX x pi", "TOFFOLI 0 1",
				"MEASURE", "MEASURE_ALL 1", "X one",
			} {
				So(errors.Is(ApplyCommand(circuit, line), ErrMalformedCommand), ShouldBeTrue)
			}
			So(circuit.GateCount(), ShouldEqual, 0)
		})

		Convey("A non-finite angle should not reach the circuit", func() {
			So(errors.Is(ApplyCommand(circuit, "RX 0 NaN"), ErrMalformedCommand), ShouldBeTrue)
			So(errors.Is(ApplyCommand(circuit, "rz 1 inf"), ErrMalformedCommand), ShouldBeTrue)
			So(circuit.GateCount(), ShouldEqual, 0)
		})

		Convey("Out-of-range qubits should surface the bounds error", func() {
			So(errors.Is(ApplyCommand(circuit, "X 3"), ErrQubitOutOfBounds), ShouldBeTrue)
			So(errors.Is(ApplyCommand(circuit, "MEASURE 7"), ErrQubitOutOfBounds), ShouldBeTrue)
		})
	})
}

func TestParseAngle(t *testing.T) {
	Convey("Given angle expressions", t, func() {
		for _, tc := range []struct {
			in   string
			want float64
		}{
			{"1.5", 1.5},
			{"-0.25", -0.25},
			{"3e-2", 0.03},
			{"pi", math.Pi},
			{"PI/4", math.Pi / 4},
			{"2pi", 2 * math.Pi},
			{"2*pi", 2 * math.Pi},
			{"-3*pi/4", -3 * math.Pi / 4},
			{"-pi/2", -math.Pi / 2},
		} {
			got, err := ParseAngle(tc.in)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, tc.want, 1e-12)
		}

		for _, bad := range []string{"", "tau", "pi/0", "pi/", "1.2.3", "NaN", "nan", "Inf", "-inf", "+Infinity", "1e400"} {
			_, err := ParseAngle(bad)
			So(errors.Is(err, ErrMalformedCommand), ShouldBeTrue)
		}
	})
}

func TestParseScript(t *testing.T) {
	Convey("Given a script with comments and blank lines", t, func() {
		script := `
# Bell pair
H 0
CNOT 0 1   # entangle

MEASURE_ALL
`
		circuit, err := ParseScript(strings.NewReader(script), 2)
		So(err, ShouldBeNil)
		So(circuit.GateCount(), ShouldEqual, 2)
		So(circuit.MeasuredQubits(), ShouldResemble, []int{0, 1})

		Convey("Errors should carry the line number", func() {
			_, err := ParseScript(strings.NewReader("H 0\nBOGUS 1\n"), 2)
			So(errors.Is(err, ErrUnknownCommand), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "line 2:")
		})
	})
}
