package qcircuit

import "strings"

// Verdict is what a Deutsch-Jozsa outcome table says about f.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictConstant
	VerdictBalanced
)

func (v Verdict) String() string {
	switch v {
	case VerdictConstant:
		return "constant"
	case VerdictBalanced:
		return "balanced"
	default:
		return "unknown"
	}
}

/*
Classify reads a Deutsch-Jozsa outcome table. A constant f sends every shot
to the all-zero string; any other outcome means f is balanced.
*/
func Classify(counts Counts) Verdict {
	if len(counts) == 0 {
		return VerdictUnknown
	}

	for outcome := range counts {
		if strings.ContainsRune(outcome, '1') {
			return VerdictBalanced
		}
	}
	return VerdictConstant
}

// DeutschJozsa runs the full driver sequence for one oracle.
func DeutschJozsa(inputs int, oracle Oracle, shots int, rng RandomSource, config *Config) (Counts, error) {
	return NewCircuit(inputs, oracle, config).Run(shots, rng)
}
