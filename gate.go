package qsim

import (
	"fmt"
	"math"
	"math/cmplx"
)

// GateKind tags the operation a Gate performs.
type GateKind int

const (
	GateIdentity GateKind = iota
	GatePauliX
	GatePauliY
	GatePauliZ
	GateHadamard
	GatePhase
	GateRX
	GateRY
	GateRZ
	GateT
	GateS
	GateCNOT
	GateCZ
	GateSWAP
	GateCPhase
	GateToffoli
	GateFredkin
	GateCustom
)

// MaxCustomGateQubits bounds NewCustomGate; a wider matrix could not be indexed.
const MaxCustomGateQubits = 30

// unitaryTolerance bounds the entry-wise deviation of U†U from the identity.
const unitaryTolerance = 1e-9

var mnemonics = map[GateKind]string{
	GateIdentity: "I",
	GatePauliX:   "X",
	GatePauliY:   "Y",
	GatePauliZ:   "Z",
	GateHadamard: "H",
	GatePhase:    "P",
	GateRX:       "RX",
	GateRY:       "RY",
	GateRZ:       "RZ",
	GateT:        "T",
	GateS:        "S",
	GateCNOT:     "CNOT",
	GateCZ:       "CZ",
	GateSWAP:     "SWAP",
	GateCPhase:   "CPhase",
	GateToffoli:  "Toffoli",
	GateFredkin:  "Fredkin",
	GateCustom:   "Custom",
}

func (k GateKind) String() string {
	if name, ok := mnemonics[k]; ok {
		return name
	}
	return fmt.Sprintf("GateKind(%d)", int(k))
}

// IsParametric reports whether the kind carries a rotation or phase angle.
func (k GateKind) IsParametric() bool {
	switch k {
	case GatePhase, GateRX, GateRY, GateRZ, GateCPhase:
		return true
	}
	return false
}

/*
Matrix tables. A row or column index of a k-qubit matrix is a local k-bit
number whose bit b is the computational value of the gate's qubits[b].
So for CNOT(control, target) local bit 0 is the control, and the table
flips local bit 1 whenever bit 0 is set.
*/
var (
	invSqrt2 = 1 / math.Sqrt2

	identityMatrix = [4]complex128{1, 0, 0, 1}
	pauliXMatrix   = [4]complex128{0, 1, 1, 0}
	pauliYMatrix   = [4]complex128{0, -1i, 1i, 0}
	pauliZMatrix   = [4]complex128{1, 0, 0, -1}
	hadamardMatrix = [4]complex128{
		complex(invSqrt2, 0), complex(invSqrt2, 0),
		complex(invSqrt2, 0), complex(-invSqrt2, 0),
	}
	tMatrix = [4]complex128{1, 0, 0, complex(invSqrt2, invSqrt2)}
	sMatrix = [4]complex128{1, 0, 0, 1i}

	cnotMatrix = [16]complex128{
		1, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
		0, 1, 0, 0,
	}
	czMatrix = [16]complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	}
	swapMatrix = [16]complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}

	// Toffoli swaps |c1=1,c2=1,t=0> (local 3) with |1,1,1> (local 7).
	toffoliMatrix = permutationMatrix([]int{0, 1, 2, 7, 4, 5, 6, 3})
	// Fredkin swaps |c=1,t1=1,t2=0> (local 3) with |1,0,1> (local 5).
	fredkinMatrix = permutationMatrix([]int{0, 1, 2, 5, 4, 3, 6, 7})
)

func permutationMatrix(perm []int) []complex128 {
	dim := len(perm)
	m := make([]complex128, dim*dim)
	for row, col := range perm {
		m[row*dim+col] = 1
	}
	return m
}

/*
Gate is an immutable description of an operation on an ordered list of
qubits. The order of qubits defines the bit-to-matrix-index mapping, so
CNOT(0, 1) and CNOT(1, 0) are different gates.
*/
type Gate struct {
	kind    GateKind
	theta   float64
	qubits  []int
	matrix  []complex128
	unitary bool
}

func newGate(kind GateKind, theta float64, matrix []complex128, qubits ...int) Gate {
	return Gate{
		kind:    kind,
		theta:   theta,
		qubits:  append([]int(nil), qubits...),
		matrix:  append([]complex128(nil), matrix...),
		unitary: true,
	}
}

// NewIdentity is the no-op on qubit; Optimize removes it.
func NewIdentity(qubit int) Gate { return newGate(GateIdentity, 0, identityMatrix[:], qubit) }

// NewPauliX flips qubit.
func NewPauliX(qubit int) Gate { return newGate(GatePauliX, 0, pauliXMatrix[:], qubit) }

// NewPauliY is the Y rotation by pi, [[0, -i], [i, 0]].
func NewPauliY(qubit int) Gate { return newGate(GatePauliY, 0, pauliYMatrix[:], qubit) }

// NewPauliZ negates the |1> component of qubit.
func NewPauliZ(qubit int) Gate { return newGate(GatePauliZ, 0, pauliZMatrix[:], qubit) }

// NewHadamard maps |0> to |+> and |1> to |->.
func NewHadamard(qubit int) Gate { return newGate(GateHadamard, 0, hadamardMatrix[:], qubit) }

// NewT is diag(1, e^{i pi/4}).
func NewT(qubit int) Gate { return newGate(GateT, 0, tMatrix[:], qubit) }

// NewS is diag(1, i).
func NewS(qubit int) Gate { return newGate(GateS, 0, sMatrix[:], qubit) }

// NewPhase builds diag(1, e^{iθ}).
func NewPhase(qubit int, theta float64) Gate {
	return newGate(GatePhase, theta, []complex128{
		1, 0,
		0, complex(math.Cos(theta), math.Sin(theta)),
	}, qubit)
}

// NewRX rotates qubit by theta about the X axis, exp(-i theta X/2).
func NewRX(qubit int, theta float64) Gate {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return newGate(GateRX, theta, []complex128{
		complex(c, 0), complex(0, -s),
		complex(0, -s), complex(c, 0),
	}, qubit)
}

// NewRY rotates qubit by theta about the Y axis, exp(-i theta Y/2).
func NewRY(qubit int, theta float64) Gate {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return newGate(GateRY, theta, []complex128{
		complex(c, 0), complex(-s, 0),
		complex(s, 0), complex(c, 0),
	}, qubit)
}

// NewRZ rotates qubit by theta about the Z axis, diag(e^{-i theta/2}, e^{i theta/2}).
func NewRZ(qubit int, theta float64) Gate {
	half := theta / 2
	return newGate(GateRZ, theta, []complex128{
		complex(math.Cos(-half), math.Sin(-half)), 0,
		0, complex(math.Cos(half), math.Sin(half)),
	}, qubit)
}

// NewCNOT flips target when control is 1.
func NewCNOT(control, target int) Gate {
	return newGate(GateCNOT, 0, cnotMatrix[:], control, target)
}

// NewCZ negates the |11> component of (control, target).
func NewCZ(control, target int) Gate {
	return newGate(GateCZ, 0, czMatrix[:], control, target)
}

// NewSWAP exchanges the states of qubit1 and qubit2.
func NewSWAP(qubit1, qubit2 int) Gate {
	return newGate(GateSWAP, 0, swapMatrix[:], qubit1, qubit2)
}

// NewCPhase applies e^{iθ} to the |11> component of (control, target).
func NewCPhase(control, target int, theta float64) Gate {
	return newGate(GateCPhase, theta, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, complex(math.Cos(theta), math.Sin(theta)),
	}, control, target)
}

// NewToffoli flips target when both controls are 1.
func NewToffoli(control1, control2, target int) Gate {
	return newGate(GateToffoli, 0, toffoliMatrix, control1, control2, target)
}

// NewFredkin swaps target1 and target2 when control is 1.
func NewFredkin(control, target1, target2 int) Gate {
	return newGate(GateFredkin, 0, fredkinMatrix, control, target1, target2)
}

/*
NewCustomGate wraps a caller supplied matrix. The matrix must hold
(2^k)^2 entries for k qubits. It is stored as given: a non-unitary matrix is
accepted and only reported through IsUnitary. More than
MaxCustomGateQubits targets is always a MatrixSizeError.
*/
func NewCustomGate(qubits []int, matrix []complex128) (Gate, error) {
	if len(qubits) > MaxCustomGateQubits {
		return Gate{}, &MatrixSizeError{Got: len(matrix), NumQubits: len(qubits)}
	}

	dim := 1 << len(qubits)
	if len(matrix) != dim*dim {
		return Gate{}, &MatrixSizeError{
			Got:       len(matrix),
			Expected:  dim * dim,
			NumQubits: len(qubits),
		}
	}

	gate := newGate(GateCustom, 0, matrix, qubits...)
	gate.unitary = isUnitary(gate.matrix, dim)
	return gate, nil
}

// isUnitary checks U†U = I column pair by column pair.
func isUnitary(matrix []complex128, dim int) bool {
	for a := 0; a < dim; a++ {
		for b := a; b < dim; b++ {
			var dot complex128
			for row := 0; row < dim; row++ {
				dot += cmplx.Conj(matrix[row*dim+a]) * matrix[row*dim+b]
			}
			want := complex128(0)
			if a == b {
				want = 1
			}
			if cmplx.Abs(dot-want) > unitaryTolerance {
				return false
			}
		}
	}
	return true
}

func (g Gate) Kind() GateKind  { return g.kind }
func (g Gate) Theta() float64  { return g.theta }
func (g Gate) Arity() int      { return len(g.qubits) }
func (g Gate) IsUnitary() bool { return g.unitary }

// Qubits returns a copy of the ordered target list.
func (g Gate) Qubits() []int {
	return append([]int(nil), g.qubits...)
}

// Matrix returns a copy of the row-major matrix.
func (g Gate) Matrix() []complex128 {
	return append([]complex128(nil), g.matrix...)
}

// Dim is the side length of the gate matrix.
func (g Gate) Dim() int {
	return 1 << len(g.qubits)
}

/*
Adjoint returns the conjugate transpose acting on the same qubits. The kind
is chosen so it still describes the new matrix: rotations and phases negate
their angle, S and T become phases, everything self-inverse keeps its kind.
*/
func (g Gate) Adjoint() Gate {
	dim := g.Dim()
	adj := make([]complex128, len(g.matrix))
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			adj[j*dim+i] = cmplx.Conj(g.matrix[i*dim+j])
		}
	}

	out := Gate{
		kind:    g.kind,
		theta:   g.theta,
		qubits:  g.Qubits(),
		matrix:  adj,
		unitary: g.unitary,
	}

	switch g.kind {
	case GatePhase, GateRX, GateRY, GateRZ, GateCPhase:
		out.theta = -g.theta
	case GateS:
		out.kind, out.theta = GatePhase, -math.Pi/2
	case GateT:
		out.kind, out.theta = GatePhase, -math.Pi/4
	}
	return out
}

// Mnemonic is the counting key used by GateCountByType.
func (g Gate) Mnemonic() string {
	return g.kind.String()
}

// Name is the display label.
func (g Gate) Name() string {
	switch g.kind {
	case GatePhase:
		return fmt.Sprintf("P(%.3f)", g.theta)
	case GateRX, GateRY, GateRZ:
		return fmt.Sprintf("%s(%.3f)", g.kind, g.theta)
	case GateCPhase:
		return fmt.Sprintf("CP(%.3f)", g.theta)
	case GateToffoli:
		return "CCX"
	case GateFredkin:
		return "CSWAP"
	case GateCustom:
		return "CUSTOM"
	}
	return g.kind.String()
}

func (g Gate) String() string {
	return fmt.Sprintf("%s%v", g.Name(), g.qubits)
}

// touches reports whether the gate acts on any qubit in set.
func (g Gate) touches(set map[int]struct{}) bool {
	for _, q := range g.qubits {
		if _, ok := set[q]; ok {
			return true
		}
	}
	return false
}
