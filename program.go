package qcircuit

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

// Program is the generalized circuit description: a register size, an
// ordered list of operations and a measurement.
type Program struct {
	Qubits     int
	Operations []Operation
	Measure    MeasurementSpec
}

/*
Execute runs a Program on a fresh register and samples it. It fails at the
first invalid operation and returns no partial counts.
*/
func Execute(program Program, rng RandomSource, config *Config) (Counts, error) {
	reg, err := NewRegister(program.Qubits, config)
	if err != nil {
		return nil, err
	}

	for i, op := range program.Operations {
		if err := reg.Apply(op.Gate, op.Qubits...); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}

	errnie.Info("Execute - qubits %d, operations %d", program.Qubits, len(program.Operations))
	return NewSampler(rng, config).Sample(reg, program.Measure)
}
