package qcircuit

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

/*
Circuit drives one Deutsch-Jozsa run over n input qubits and one ancilla.

Inputs are qubits 0..n-1 and the ancilla is qubit n. The run goes through
Prepare, ApplyOracle, Rotate and Measure exactly once and in that order. The
first failure moves the circuit to Failed; from then on every transition
returns ErrInvalidDriverState wrapping that failure. The circuit owns its
register for the whole run and drops it once Measure returns.
*/
type Circuit struct {
	config   *Config
	inputs   int
	oracle   Oracle
	state    DriverState
	register *Register
	err      error
}

func NewCircuit(inputs int, oracle Oracle, config *Config) *Circuit {
	return &Circuit{
		config: orDefault(config),
		inputs: inputs,
		oracle: oracle,
		state:  Uninitialized,
	}
}

func (c *Circuit) State() DriverState { return c.state }

// Ancilla is the index of the ancilla qubit.
func (c *Circuit) Ancilla() int { return c.inputs }

// InputQubits lists the measured qubits, 0..n-1.
func (c *Circuit) InputQubits() []int { return qubitRange(0, c.inputs) }

// Err is the failure that halted the run, if any.
func (c *Circuit) Err() error { return c.err }

/*
Prepare allocates the register, flips the ancilla to |1⟩ and applies a
Hadamard to every qubit. Uninitialized → Prepared.
*/
func (c *Circuit) Prepare() error {
	if err := c.expect(Uninitialized, "prepare"); err != nil {
		return err
	}

	if c.inputs <= 0 {
		return c.fail(fmt.Errorf("%w: %d input qubits", ErrInvalidSize, c.inputs))
	}

	reg, err := NewRegister(c.inputs+1, c.config)
	if err != nil {
		return c.fail(err)
	}

	if err := reg.Apply(PauliX, c.Ancilla()); err != nil {
		return c.fail(err)
	}

	if err := HadamardLayer(reg, qubitRange(0, c.inputs+1)); err != nil {
		return c.fail(err)
	}

	c.register = reg
	return c.advance(Prepared)
}

// ApplyOracle runs the oracle stage, even for an empty oracle.
// Prepared → OracleApplied.
func (c *Circuit) ApplyOracle() error {
	if err := c.expect(Prepared, "apply oracle"); err != nil {
		return err
	}

	if err := ApplyOracle(c.register, c.oracle, c.InputQubits(), c.Ancilla()); err != nil {
		return c.fail(err)
	}

	return c.advance(OracleApplied)
}

// Rotate applies a Hadamard to the input qubits only. OracleApplied → Rotated.
func (c *Circuit) Rotate() error {
	if err := c.expect(OracleApplied, "rotate"); err != nil {
		return err
	}

	if err := HadamardLayer(c.register, c.InputQubits()); err != nil {
		return c.fail(err)
	}

	return c.advance(Rotated)
}

// Measure samples the input qubits and releases the register.
// Rotated → Measured.
func (c *Circuit) Measure(shots int, rng RandomSource) (Counts, error) {
	if err := c.expect(Rotated, "measure"); err != nil {
		return nil, err
	}

	counts, err := NewSampler(rng, c.config).Sample(c.register, MeasurementSpec{
		Qubits: c.InputQubits(),
		Shots:  shots,
	})
	if err != nil {
		return nil, c.fail(err)
	}

	c.register = nil
	return counts, c.advance(Measured)
}

// Run performs every transition in order.
func (c *Circuit) Run(shots int, rng RandomSource) (Counts, error) {
	for _, step := range []func() error{c.Prepare, c.ApplyOracle, c.Rotate} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return c.Measure(shots, rng)
}

func (c *Circuit) expect(want DriverState, transition string) error {
	if c.state == Failed {
		return fmt.Errorf("%w: %s after failure: %w", ErrInvalidDriverState, transition, c.err)
	}

	if c.state != want {
		return c.fail(fmt.Errorf(
			"%w: cannot %s in state %s, expected %s",
			ErrInvalidDriverState, transition, c.state, want,
		))
	}

	return nil
}

func (c *Circuit) advance(next DriverState) error {
	errnie.Info("Circuit - oracle %s, %s -> %s", c.oracle.Name, c.state, next)
	c.state = next
	return nil
}

func (c *Circuit) fail(err error) error {
	errnie.Info("Circuit - oracle %s, failed in %s: %v", c.oracle.Name, c.state, err)
	c.state = Failed
	c.err = err
	c.register = nil
	return err
}
