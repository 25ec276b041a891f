package qcircuit

import (
	"math"
	"strings"
)

// GateKind tags the variant held by a Gate.
type GateKind uint8

const (
	KindIdentity   GateKind = iota // leaves the register untouched
	KindSingle                     // 2x2 unitary on one target
	KindControlled                 // 2x2 unitary on a target, gated by control qubits
)

func (k GateKind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindSingle:
		return "single"
	case KindControlled:
		return "controlled"
	default:
		return "unknown"
	}
}

// Matrix is a 2x2 unitary in row-major order acting on (|0⟩, |1⟩).
type Matrix [2][2]complex128

/*
Gate describes a unitary to apply to a register. It is a plain value: the
matrix is an array, so copies never share state with the package-level gates.

For a controlled gate the first Controls operands passed to Register.Apply are
control qubits and the last operand is the target.
*/
type Gate struct {
	Name     string
	Kind     GateKind
	Matrix   Matrix
	Controls int
}

var (
	// Hadamard = 1/√2 [[1, 1], [1, -1]]
	Hadamard = Gate{
		Name: "h",
		Kind: KindSingle,
		Matrix: Matrix{
			{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
			{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
		},
	}

	// PauliX = [[0, 1], [1, 0]]
	PauliX = Gate{
		Name:   "x",
		Kind:   KindSingle,
		Matrix: Matrix{{0, 1}, {1, 0}},
	}

	Identity = Gate{
		Name:   "i",
		Kind:   KindIdentity,
		Matrix: Matrix{{1, 0}, {0, 1}},
	}

	CNOT = Controlled(PauliX, 1)
)

// Controlled wraps a single-qubit gate so it only acts where all of its
// controls are 1.
func Controlled(gate Gate, controls int) Gate {
	return Gate{
		Name:     strings.Repeat("c", controls) + gate.Name,
		Kind:     KindControlled,
		Matrix:   gate.Matrix,
		Controls: controls,
	}
}

// Arity is the number of qubit operands the gate expects.
func (g Gate) Arity() int {
	if g.Kind == KindControlled {
		return g.Controls + 1
	}
	return 1
}

// GateByName resolves the names used in circuit descriptions.
func GateByName(name string) (Gate, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "h", "hadamard":
		return Hadamard, true
	case "x", "not", "paulix":
		return PauliX, true
	case "i", "id", "identity":
		return Identity, true
	case "cx", "cnot":
		return CNOT, true
	}
	return Gate{}, false
}
