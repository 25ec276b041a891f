package qcircuit

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOracles(t *testing.T) {
	Convey("Given three inputs and an ancilla", t, func() {
		inputs := []int{0, 1, 2}
		ancilla := 3

		Convey("The constant-0 oracle is an empty operation list", func() {
			oracle, err := ConstantOracle(0, ancilla)
			So(err, ShouldBeNil)
			So(oracle.Name, ShouldEqual, "constant-0")
			So(oracle.Operations, ShouldBeEmpty)
		})

		Convey("The constant-1 oracle is a single X on the ancilla", func() {
			oracle, err := ConstantOracle(1, ancilla)
			So(err, ShouldBeNil)
			So(oracle.Operations, ShouldHaveLength, 1)
			So(oracle.Operations[0].Gate, ShouldResemble, PauliX)
			So(oracle.Operations[0].Qubits, ShouldResemble, []int{ancilla})
		})

		Convey("Other constants are rejected", func() {
			_, err := ConstantOracle(2, ancilla)
			So(errors.Is(err, ErrInvalidOperands), ShouldBeTrue)
		})

		Convey("A balanced oracle has one CNOT per set mask bit", func() {
			oracle, err := BalancedOracle(0b101, inputs, ancilla)
			So(err, ShouldBeNil)
			So(oracle.Name, ShouldEqual, "balanced-101")
			So(oracle.Operations, ShouldResemble, []Operation{
				{Gate: CNOT, Qubits: []int{0, 3}},
				{Gate: CNOT, Qubits: []int{2, 3}},
			})
		})

		Convey("Zero masks and masks wider than the inputs are rejected", func() {
			_, err := BalancedOracle(0, inputs, ancilla)
			So(errors.Is(err, ErrInvalidOperands), ShouldBeTrue)

			_, err = BalancedOracle(0b1000, inputs, ancilla)
			So(errors.Is(err, ErrInvalidOperands), ShouldBeTrue)
		})
	})
}

func TestApplyOracle(t *testing.T) {
	Convey("Given a prepared four qubit register", t, func() {
		reg, err := NewRegister(4, nil)
		So(err, ShouldBeNil)
		So(reg.Apply(PauliX, 3), ShouldBeNil)
		So(HadamardLayer(reg, []int{0, 1, 2, 3}), ShouldBeNil)
		before := reg.Amplitudes()

		Convey("The constant-0 oracle leaves the register untouched", func() {
			oracle, _ := ConstantOracle(0, 3)
			So(ApplyOracle(reg, oracle, []int{0, 1, 2}, 3), ShouldBeNil)
			So(reg.Amplitudes(), ShouldResemble, before)
		})

		Convey("A balanced oracle kicks a phase back onto the inputs", func() {
			oracle, _ := BalancedOracle(0b001, []int{0, 1, 2}, 3)
			So(ApplyOracle(reg, oracle, []int{0, 1, 2}, 3), ShouldBeNil)
			So(reg.Amplitudes(), ShouldNotResemble, before)
			So(reg.Normalized(), ShouldBeTrue)
		})

		Convey("The ancilla may not be one of the inputs", func() {
			oracle, _ := ConstantOracle(0, 2)
			err := ApplyOracle(reg, oracle, []int{0, 1, 2}, 2)
			So(errors.Is(err, ErrInvalidOperands), ShouldBeTrue)
		})

		Convey("An ancilla outside the register is out of range", func() {
			oracle, _ := ConstantOracle(0, 4)
			err := ApplyOracle(reg, oracle, []int{0, 1, 2}, 4)
			So(errors.Is(err, ErrQubitOutOfRange), ShouldBeTrue)
		})

		Convey("A failing operation aborts the stage", func() {
			oracle := Oracle{
				Name:       "broken",
				Operations: []Operation{{Gate: PauliX, Qubits: []int{7}}},
			}
			err := ApplyOracle(reg, oracle, []int{0, 1, 2}, 3)
			So(errors.Is(err, ErrQubitOutOfRange), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "oracle broken operation 0")
		})
	})
}
