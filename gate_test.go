package qsim

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func allFixedGates() []Gate {
	return []Gate{
		NewIdentity(0), NewPauliX(0), NewPauliY(0), NewPauliZ(0), NewHadamard(0),
		NewT(0), NewS(0), NewPhase(0, 0.7), NewRX(0, 1.1), NewRY(0, -0.4), NewRZ(0, 2.3),
		NewCNOT(0, 1), NewCZ(0, 1), NewSWAP(0, 1), NewCPhase(0, 1, 0.9),
		NewToffoli(0, 1, 2), NewFredkin(0, 1, 2),
	}
}

func matMul(a, b []complex128, dim int) []complex128 {
	out := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var sum complex128
			for k := 0; k < dim; k++ {
				sum += a[i*dim+k] * b[k*dim+j]
			}
			out[i*dim+j] = sum
		}
	}
	return out
}

func isIdentity(m []complex128, dim int) bool {
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(m[i*dim+j]-want) > 1e-9 {
				return false
			}
		}
	}
	return true
}

func TestGateConstruction(t *testing.T) {
	Convey("Given the built-in gate factories", t, func() {
		Convey("Every matrix should have (2^k)^2 entries and be unitary", func() {
			for _, gate := range allFixedGates() {
				So(len(gate.Matrix()), ShouldEqual, gate.Dim()*gate.Dim())
				So(gate.IsUnitary(), ShouldBeTrue)
				So(isUnitary(gate.matrix, gate.Dim()), ShouldBeTrue)
			}
		})

		Convey("Parametric gates should keep their angle", func() {
			So(NewRX(0, 1.25).Theta(), ShouldEqual, 1.25)
			So(NewCPhase(0, 1, -0.5).Theta(), ShouldEqual, -0.5)
			So(GateRY.IsParametric(), ShouldBeTrue)
			So(GateHadamard.IsParametric(), ShouldBeFalse)
		})

		Convey("Accessors should return copies", func() {
			gate := NewCNOT(0, 1)
			qubits := gate.Qubits()
			qubits[0] = 5
			matrix := gate.Matrix()
			matrix[0] = 9

			So(gate.Qubits(), ShouldResemble, []int{0, 1})
			So(gate.Matrix()[0], ShouldEqual, complex128(1))
		})

		Convey("RZ(theta) should be diag(e^{-i theta/2}, e^{i theta/2})", func() {
			m := NewRZ(0, math.Pi/2).Matrix()
			So(real(m[0]), ShouldAlmostEqual, math.Cos(-math.Pi/4), 1e-12)
			So(imag(m[0]), ShouldAlmostEqual, math.Sin(-math.Pi/4), 1e-12)
			So(imag(m[3]), ShouldAlmostEqual, math.Sin(math.Pi/4), 1e-12)
		})
	})
}

func TestCustomGate(t *testing.T) {
	Convey("Given a custom matrix", t, func() {
		Convey("A size mismatch should be rejected", func() {
			_, err := NewCustomGate([]int{0, 1}, make([]complex128, 4))
			So(errors.Is(err, ErrMatrixSizeMismatch), ShouldBeTrue)

			var sizeErr *MatrixSizeError
			So(errors.As(err, &sizeErr), ShouldBeTrue)
			So(sizeErr.Expected, ShouldEqual, 16)
			So(sizeErr.Got, ShouldEqual, 4)
		})

		Convey("A non-unitary matrix should be kept verbatim and flagged", func() {
			matrix := []complex128{2, 0, 0, 1}
			gate, err := NewCustomGate([]int{0}, matrix)
			So(err, ShouldBeNil)
			So(gate.IsUnitary(), ShouldBeFalse)
			So(gate.Matrix(), ShouldResemble, matrix)
			So(gate.Kind(), ShouldEqual, GateCustom)
			So(gate.Name(), ShouldEqual, "CUSTOM")
		})

		Convey("Too many targets should be rejected without indexing the matrix", func() {
			qubits := make([]int, 32)
			for i := range qubits {
				qubits[i] = i
			}

			for _, matrix := range [][]complex128{nil, {1}} {
				_, err := NewCustomGate(qubits, matrix)
				So(errors.Is(err, ErrMatrixSizeMismatch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "32-qubit")
			}

			_, err := NewCustomGate(qubits[:MaxCustomGateQubits+1], nil)
			So(errors.Is(err, ErrMatrixSizeMismatch), ShouldBeTrue)
		})

		Convey("A unitary matrix should be flagged unitary", func() {
			gate, err := NewCustomGate([]int{2}, NewHadamard(0).Matrix())
			So(err, ShouldBeNil)
			So(gate.IsUnitary(), ShouldBeTrue)
		})
	})
}

func TestGateAdjoint(t *testing.T) {
	Convey("Given any gate", t, func() {
		Convey("U times its adjoint should be the identity", func() {
			for _, gate := range allFixedGates() {
				adj := gate.Adjoint()
				So(adj.Qubits(), ShouldResemble, gate.Qubits())
				So(isIdentity(matMul(gate.matrix, adj.matrix, gate.Dim()), gate.Dim()), ShouldBeTrue)
			}
		})

		Convey("Rotations should negate their angle", func() {
			adj := NewRY(0, 0.3).Adjoint()
			So(adj.Kind(), ShouldEqual, GateRY)
			So(adj.Theta(), ShouldEqual, -0.3)
		})

		Convey("S and T should become phase gates with matching matrices", func() {
			for _, tc := range []struct {
				gate  Gate
				theta float64
			}{
				{NewS(0), -math.Pi / 2},
				{NewT(0), -math.Pi / 4},
			} {
				adj := tc.gate.Adjoint()
				So(adj.Kind(), ShouldEqual, GatePhase)
				So(adj.Theta(), ShouldAlmostEqual, tc.theta, 1e-12)

				want := NewPhase(0, tc.theta).Matrix()
				for i := range want {
					So(cmplx.Abs(adj.matrix[i]-want[i]), ShouldBeLessThan, 1e-12)
				}
			}
		})
	})
}

func TestGateNames(t *testing.T) {
	Convey("Given gates of every kind", t, func() {
		So(NewHadamard(0).Mnemonic(), ShouldEqual, "H")
		So(NewRX(0, 1).Name(), ShouldEqual, "RX(1.000)")
		So(NewPhase(0, 0.5).Name(), ShouldEqual, "P(0.500)")
		So(NewCPhase(0, 1, 0.25).Name(), ShouldEqual, "CP(0.250)")
		So(NewToffoli(0, 1, 2).Name(), ShouldEqual, "CCX")
		So(NewFredkin(0, 1, 2).Name(), ShouldEqual, "CSWAP")
		So(NewCNOT(1, 0).String(), ShouldEqual, "CNOT[1 0]")
		So(GateKind(99).String(), ShouldEqual, "GateKind(99)")
	})
}
