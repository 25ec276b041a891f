package qcircuit

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

// Operation binds a gate to the qubits it acts on.
type Operation struct {
	Gate   Gate
	Qubits []int
}

/*
Oracle is the unitary encoding f(x) on the ancilla by phase kickback, held as
an ordered, possibly empty, list of operations. Replacing one oracle with
another is a data substitution; the driver's sequence never changes.
*/
type Oracle struct {
	Name       string
	Operations []Operation
}

/*
ConstantOracle encodes f(x) = value. For 0 the operation list is empty. For 1
it is a single X on the ancilla, which only adds a global phase and therefore
measures the same as 0.
*/
func ConstantOracle(value int, ancilla int) (Oracle, error) {
	switch value {
	case 0:
		return Oracle{Name: "constant-0"}, nil
	case 1:
		return Oracle{
			Name:       "constant-1",
			Operations: []Operation{{Gate: PauliX, Qubits: []int{ancilla}}},
		}, nil
	}
	return Oracle{}, fmt.Errorf("%w: constant oracle value %d", ErrInvalidOperands, value)
}

/*
BalancedOracle encodes f(x) = parity(x & mask), with one CNOT from every input
whose mask bit is set onto the ancilla. Bit k of mask selects inputs[k]. A zero
mask would be constant and is rejected, as are bits beyond len(inputs).
*/
func BalancedOracle(mask uint64, inputs []int, ancilla int) (Oracle, error) {
	if mask == 0 || mask>>uint(len(inputs)) != 0 {
		return Oracle{}, fmt.Errorf("%w: balanced mask %b for %d inputs", ErrInvalidOperands, mask, len(inputs))
	}

	oracle := Oracle{Name: fmt.Sprintf("balanced-%b", mask)}
	for k, input := range inputs {
		if mask&(1<<uint(k)) != 0 {
			oracle.Operations = append(oracle.Operations, Operation{
				Gate:   CNOT,
				Qubits: []int{input, ancilla},
			})
		}
	}

	return oracle, nil
}

/*
ApplyOracle runs the oracle stage. It is always invoked as an explicit stage,
including for the empty constant-0 oracle. The inputs and ancilla must be
distinct qubits of the register; operations are applied in order and the
first failing operation aborts the stage.
*/
func ApplyOracle(reg *Register, oracle Oracle, inputs []int, ancilla int) error {
	qubits := append(append(make([]int, 0, len(inputs)+1), inputs...), ancilla)
	if err := checkQubits("oracle "+oracle.Name, qubits, reg.NumQubits()); err != nil {
		return err
	}

	for i, op := range oracle.Operations {
		if err := reg.Apply(op.Gate, op.Qubits...); err != nil {
			return fmt.Errorf("oracle %s operation %d: %w", oracle.Name, i, err)
		}
	}

	errnie.Info("ApplyOracle - oracle %s, operations %d", oracle.Name, len(oracle.Operations))
	return nil
}
