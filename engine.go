package qcircuit

import "fmt"

/*
applyPairs applies m to every amplitude pair that differs only in the target
bit, restricted to indices where every bit of controlMask is set. Only the
i0 side (target bit 0) is visited, and both amplitudes are read before
either is written, so no value is read after it was overwritten.
*/
func applyPairs(amps []complex128, m Matrix, target int, controlMask int) {
	bit := 1 << target

	for i0 := range amps {
		if i0&bit != 0 || i0&controlMask != controlMask {
			continue
		}

		i1 := i0 | bit
		a0, a1 := amps[i0], amps[i1]

		amps[i0] = m[0][0]*a0 + m[0][1]*a1
		amps[i1] = m[1][0]*a0 + m[1][1]*a1
	}
}

// applyGate dispatches on the gate kind. Operands are already validated.
func applyGate(amps []complex128, gate Gate, operands []int) {
	switch gate.Kind {
	case KindIdentity:
	case KindSingle:
		applyPairs(amps, gate.Matrix, operands[0], 0)
	case KindControlled:
		mask := 0
		for _, control := range operands[:gate.Controls] {
			mask |= 1 << control
		}
		applyPairs(amps, gate.Matrix, operands[gate.Controls], mask)
	}
}

// validateOperands checks arity, range and distinctness of gate operands.
func validateOperands(gate Gate, operands []int, numQubits int) error {
	if gate.Kind == KindControlled && gate.Controls < 1 {
		return fmt.Errorf("%w: controlled gate %s has %d controls", ErrInvalidOperands, gate.Name, gate.Controls)
	}
	if len(operands) != gate.Arity() {
		return fmt.Errorf(
			"%w: gate %s takes %d qubit(s), got %d",
			ErrInvalidOperands, gate.Name, gate.Arity(), len(operands),
		)
	}
	return checkQubits("gate "+gate.Name, operands, numQubits)
}

// checkQubits requires every qubit to be in [0, numQubits) and used once.
func checkQubits(label string, qubits []int, numQubits int) error {
	seen := make(map[int]struct{}, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= numQubits {
			return fmt.Errorf("%w: %s on qubit %d of %d", ErrQubitOutOfRange, label, q, numQubits)
		}
		if _, dup := seen[q]; dup {
			return fmt.Errorf("%w: %s uses qubit %d twice", ErrInvalidOperands, label, q)
		}
		seen[q] = struct{}{}
	}
	return nil
}

/*
HadamardLayer applies a Hadamard to each of the given qubits in turn. Gates on
distinct qubits commute, so the order within the layer does not matter. The
layer stops at the first invalid qubit, leaving earlier qubits rotated.
*/
func HadamardLayer(reg *Register, qubits []int) error {
	for _, q := range qubits {
		if err := reg.Apply(Hadamard, q); err != nil {
			return err
		}
	}
	return nil
}

// qubitRange returns [from, to).
func qubitRange(from, to int) []int {
	qubits := make([]int, 0, to-from)
	for q := from; q < to; q++ {
		qubits = append(qubits, q)
	}
	return qubits
}
