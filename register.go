package qcircuit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/theapemachine/errnie"
)

/*
Register holds the statevector of N qubits as 2^N complex amplitudes. Bit i of
a basis index is the state of qubit i.

A Register is owned by a single run and is not safe for concurrent use.
*/
type Register struct {
	amplitudes []complex128
	numQubits  int
	tolerance  float64
}

/*
NewRegister allocates a register in |0...0⟩. The qubit count must be in
[1, config.MaxQubits]; a nil config uses NewConfig defaults.
*/
func NewRegister(n int, config *Config) (*Register, error) {
	config = orDefault(config)

	if n <= 0 || n > config.MaxQubits {
		return nil, fmt.Errorf("%w: %d qubits, capacity is %d", ErrInvalidSize, n, config.MaxQubits)
	}

	amplitudes := make([]complex128, 1<<n)
	amplitudes[0] = 1

	errnie.Info("NewRegister - qubits %d, amplitudes %d", n, len(amplitudes))

	return &Register{
		amplitudes: amplitudes,
		numQubits:  n,
		tolerance:  config.Tolerance,
	}, nil
}

// Apply mutates the register in place with gate on the given qubits.
func (r *Register) Apply(gate Gate, targets ...int) error {
	if err := validateOperands(gate, targets, r.numQubits); err != nil {
		return err
	}

	applyGate(r.amplitudes, gate, targets)
	return nil
}

// Probability is the Born-rule probability of a basis state, or 0 for an
// index outside the register.
func (r *Register) Probability(index int) float64 {
	if index < 0 || index >= len(r.amplitudes) {
		return 0
	}

	amp := r.amplitudes[index]
	return real(amp)*real(amp) + imag(amp)*imag(amp)
}

func (r *Register) NumQubits() int { return r.numQubits }

// Size is the number of amplitudes, 2^NumQubits.
func (r *Register) Size() int { return len(r.amplitudes) }

func (r *Register) Amplitude(index int) complex128 {
	if index < 0 || index >= len(r.amplitudes) {
		return 0
	}
	return r.amplitudes[index]
}

// Amplitudes returns a copy of the statevector.
func (r *Register) Amplitudes() []complex128 {
	out := make([]complex128, len(r.amplitudes))
	copy(out, r.amplitudes)
	return out
}

// Norm is the sum of squared magnitudes.
func (r *Register) Norm() float64 {
	var total float64
	for _, amp := range r.amplitudes {
		abs := cmplx.Abs(amp)
		total += abs * abs
	}
	return total
}

// Normalized reports whether Norm is 1 within the configured tolerance.
func (r *Register) Normalized() bool {
	return math.Abs(r.Norm()-1) <= r.tolerance
}
