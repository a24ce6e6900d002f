package qsim

import "math"

/*
Kernels work on a raw amplitude slice and explicit qubit positions rather
than on a QuantumState, so the same code evolves the full register and the
per-block scratch buffers used for concurrent group application.

Every closed form below must agree with applyMatrix for the gate's matrix.
For an index i with bit q clear, i0 = i and i1 = i | 1<<q.
*/

// hasFastPath reports whether applyFastPath has a closed form for kind.
func hasFastPath(kind GateKind) bool {
	switch kind {
	case GateFredkin, GateCustom:
		return false
	}
	return true
}

// applyFastPath evolves amps by g on positions pos, falling back to the matrix form.
func applyFastPath(amps []complex128, g Gate, pos []int) {
	switch g.kind {
	case GateIdentity:
	case GatePauliX:
		applyPauliX(amps, pos[0])
	case GatePauliY:
		applyPauliY(amps, pos[0])
	case GatePauliZ:
		applyPauliZ(amps, pos[0])
	case GateHadamard:
		applyHadamard(amps, pos[0])
	case GateRX:
		applyRX(amps, pos[0], g.theta)
	case GateRY:
		applyRY(amps, pos[0], g.theta)
	case GateRZ, GateS, GateT, GatePhase:
		// diagonal: the factors are the matrix diagonal, which keeps adjoints exact
		applyDiagonal(amps, pos[0], g.matrix[0], g.matrix[3])
	case GateCNOT:
		applyCNOT(amps, pos[0], pos[1])
	case GateCZ:
		applyCZ(amps, pos[0], pos[1])
	case GateSWAP:
		applySWAP(amps, pos[0], pos[1])
	case GateCPhase:
		applyControlledPhase(amps, pos[0], pos[1], g.matrix[15])
	case GateToffoli:
		applyToffoli(amps, pos[0], pos[1], pos[2])
	default:
		applyMatrix(amps, pos, g.matrix)
	}
}

func applyPauliX(amps []complex128, q int) {
	mask := 1 << q
	for i := range amps {
		if i&mask == 0 {
			j := i | mask
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

func applyPauliY(amps []complex128, q int) {
	mask := 1 << q
	for i := range amps {
		if i&mask == 0 {
			j := i | mask
			a0, a1 := amps[i], amps[j]
			amps[i] = complex(imag(a1), -real(a1))
			amps[j] = complex(-imag(a0), real(a0))
		}
	}
}

func applyPauliZ(amps []complex128, q int) {
	mask := 1 << q
	for i := range amps {
		if i&mask != 0 {
			amps[i] = -amps[i]
		}
	}
}

func applyHadamard(amps []complex128, q int) {
	mask := 1 << q
	h := complex(invSqrt2, 0)
	for i := range amps {
		if i&mask == 0 {
			j := i | mask
			a0, a1 := amps[i], amps[j]
			amps[i] = (a0 + a1) * h
			amps[j] = (a0 - a1) * h
		}
	}
}

func applyRX(amps []complex128, q int, theta float64) {
	mask := 1 << q
	c := complex(math.Cos(theta/2), 0)
	is := complex(0, math.Sin(theta/2))
	for i := range amps {
		if i&mask == 0 {
			j := i | mask
			a0, a1 := amps[i], amps[j]
			amps[i] = c*a0 - is*a1
			amps[j] = c*a1 - is*a0
		}
	}
}

func applyRY(amps []complex128, q int, theta float64) {
	mask := 1 << q
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	for i := range amps {
		if i&mask == 0 {
			j := i | mask
			a0, a1 := amps[i], amps[j]
			amps[i] = c*a0 - s*a1
			amps[j] = c*a1 + s*a0
		}
	}
}

// applyDiagonal multiplies by f0 where bit q is 0 and by f1 where it is 1.
func applyDiagonal(amps []complex128, q int, f0, f1 complex128) {
	mask := 1 << q
	for i := range amps {
		if i&mask == 0 {
			if f0 != 1 {
				amps[i] *= f0
			}
		} else {
			amps[i] *= f1
		}
	}
}

// applyCNOT visits each (control=1, target=0) index once and swaps it with its partner.
func applyCNOT(amps []complex128, control, target int) {
	cMask, tMask := 1<<control, 1<<target
	for i := range amps {
		if i&cMask != 0 && i&tMask == 0 {
			j := i | tMask
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

func applyCZ(amps []complex128, control, target int) {
	both := 1<<control | 1<<target
	for i := range amps {
		if i&both == both {
			amps[i] = -amps[i]
		}
	}
}

func applySWAP(amps []complex128, q1, q2 int) {
	m1, m2 := 1<<q1, 1<<q2
	for i := range amps {
		if i&m1 != 0 && i&m2 == 0 {
			j := (i &^ m1) | m2
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

func applyControlledPhase(amps []complex128, control, target int, factor complex128) {
	both := 1<<control | 1<<target
	for i := range amps {
		if i&both == both {
			amps[i] *= factor
		}
	}
}

func applyToffoli(amps []complex128, control1, control2, target int) {
	controls := 1<<control1 | 1<<control2
	tMask := 1 << target
	for i := range amps {
		if i&controls == controls && i&tMask == 0 {
			j := i | tMask
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

/*
applyMatrix is the generic k-qubit embedding. For every global index i the
local index reads i's bits at pos (pos[b] is local bit b) and

	new[i] = sum_j matrix[local(i)*2^k + j] * old[i with its target bits set to j]

Indices are visited block by block: a block is the 2^k indices that agree
outside pos, so each block is gathered, multiplied and scattered in place.
*/
func applyMatrix(amps []complex128, pos []int, matrix []complex128) {
	dim := 1 << len(pos)

	offsets := make([]int, dim)
	targetMask := 0
	for _, q := range pos {
		targetMask |= 1 << q
	}
	for j := range offsets {
		for b, q := range pos {
			if j&(1<<b) != 0 {
				offsets[j] |= 1 << q
			}
		}
	}

	in := make([]complex128, dim)
	for base := range amps {
		if base&targetMask != 0 {
			continue
		}

		for j, off := range offsets {
			in[j] = amps[base+off]
		}
		for row, off := range offsets {
			var sum complex128
			rowStart := row * dim
			for j := 0; j < dim; j++ {
				sum += matrix[rowStart+j] * in[j]
			}
			amps[base+off] = sum
		}
	}
}
