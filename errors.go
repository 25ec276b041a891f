package qcircuit

import "errors"

var (
	// ErrInvalidSize is returned when a register is requested with a qubit
	// count that is non-positive or beyond the configured capacity.
	ErrInvalidSize = errors.New("invalid register size")

	// ErrQubitOutOfRange is returned when a gate or measurement references a
	// qubit index outside [0, N).
	ErrQubitOutOfRange = errors.New("qubit index out of range")

	// ErrInvalidOperands is returned when a gate receives the wrong number of
	// qubits, the same qubit twice, or an oracle's ancilla overlaps its inputs.
	ErrInvalidOperands = errors.New("invalid gate operands")

	// ErrInvalidMeasurementSpec is returned for an empty, duplicated or
	// out-of-range set of measured qubits.
	ErrInvalidMeasurementSpec = errors.New("invalid measurement spec")

	// ErrInvalidShotCount is returned when the shot count is not positive.
	ErrInvalidShotCount = errors.New("invalid shot count")

	// ErrInvalidDriverState is returned when a circuit transition is invoked
	// out of sequence, or after the run has already failed.
	ErrInvalidDriverState = errors.New("invalid driver state")

	// ErrInvalidConfig is returned by LoadConfig for values outside hard bounds.
	ErrInvalidConfig = errors.New("invalid config")
)
