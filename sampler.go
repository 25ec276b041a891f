package qcircuit

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// MeasurementSpec selects the measured qubits and the number of shots. The
// order of Qubits is the character order of outcome strings.
type MeasurementSpec struct {
	Qubits []int
	Shots  int
}

// Counts maps an outcome bit string to how often it was drawn.
type Counts map[string]int

// Total is the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Outcomes returns the keys in lexical order.
func (c Counts) Outcomes() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

/*
NewRandomSource returns a PCG generator. Equal seeds give equal streams; a
zero seed is replaced with one derived from the clock.
*/
func NewRandomSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// LockedSource serializes access to a RandomSource shared between runs.
type LockedSource struct {
	mu     sync.Mutex
	source RandomSource
}

func NewLockedSource(source RandomSource) *LockedSource {
	return &LockedSource{source: source}
}

func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.source.Float64()
}

/*
outcome is one entry of a marginal distribution. index packs the measured
bits: bit k is the value of the k-th measured qubit.
*/
type outcome struct {
	index       int
	probability float64
}

func (o outcome) bits(width int) string {
	var sb strings.Builder
	sb.Grow(width)
	for k := 0; k < width; k++ {
		if o.index&(1<<k) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func validateSpec(reg *Register, spec MeasurementSpec) error {
	if len(spec.Qubits) == 0 {
		return fmt.Errorf("%w: no qubits to measure", ErrInvalidMeasurementSpec)
	}

	seen := make(map[int]struct{}, len(spec.Qubits))
	for _, q := range spec.Qubits {
		if q < 0 || q >= reg.NumQubits() {
			return fmt.Errorf("%w: %w: qubit %d of %d", ErrInvalidMeasurementSpec, ErrQubitOutOfRange, q, reg.NumQubits())
		}
		if _, dup := seen[q]; dup {
			return fmt.Errorf("%w: qubit %d listed twice", ErrInvalidMeasurementSpec, q)
		}
		seen[q] = struct{}{}
	}

	if spec.Shots <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShotCount, spec.Shots)
	}

	return nil
}

// marginal folds the statevector onto the measured qubits, sorted by index.
func marginal(reg *Register, qubits []int) []outcome {
	probs := make([]float64, 1<<len(qubits))

	for i := 0; i < reg.Size(); i++ {
		p := reg.Probability(i)
		if p == 0 {
			continue
		}

		key := 0
		for k, q := range qubits {
			if i&(1<<q) != 0 {
				key |= 1 << k
			}
		}
		probs[key] += p
	}

	out := make([]outcome, 0, len(probs))
	for key, p := range probs {
		if p > 0 {
			out = append(out, outcome{index: key, probability: p})
		}
	}
	return out
}

/*
Marginal returns the probability of every outcome string over the measured
qubits. Outcomes with zero probability are omitted.
*/
func Marginal(reg *Register, qubits []int) (map[string]float64, error) {
	if err := validateSpec(reg, MeasurementSpec{Qubits: qubits, Shots: 1}); err != nil {
		return nil, err
	}

	dist := make(map[string]float64)
	for _, o := range marginal(reg, qubits) {
		dist[o.bits(len(qubits))] = o.probability
	}
	return dist, nil
}

/*
Sampler draws Born-rule samples from a register. It never mutates the
register, so measuring does not collapse the state.
*/
type Sampler struct {
	rng     RandomSource
	epsilon float64
}

// NewSampler draws from rng; a nil rng gets a clock-seeded generator.
func NewSampler(rng RandomSource, config *Config) *Sampler {
	if rng == nil {
		rng = NewRandomSource(0)
	}

	return &Sampler{
		rng:     rng,
		epsilon: orDefault(config).Epsilon,
	}
}

/*
Sample draws spec.Shots independent outcomes over spec.Qubits.

Marginal probabilities below epsilon are dropped so floating point leakage
cannot produce spurious outcomes, and the rest are scaled by their total.
Each draw picks the first outcome whose cumulative probability exceeds a
uniform value, so a distribution with a single outcome maps every shot to it.
*/
func (s *Sampler) Sample(reg *Register, spec MeasurementSpec) (Counts, error) {
	if err := validateSpec(reg, spec); err != nil {
		return nil, err
	}

	var (
		kept       []outcome
		cumulative []float64
		total      float64
	)
	for _, o := range marginal(reg, spec.Qubits) {
		if o.probability < s.epsilon {
			continue
		}
		total += o.probability
		kept = append(kept, o)
		cumulative = append(cumulative, total)
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no outcome above epsilon %g", ErrInvalidMeasurementSpec, s.epsilon)
	}

	width := len(spec.Qubits)
	labels := make([]string, len(kept))
	for i, o := range kept {
		labels[i] = o.bits(width)
	}

	counts := make(Counts, len(kept))
	for shot := 0; shot < spec.Shots; shot++ {
		r := s.rng.Float64() * total
		i := sort.SearchFloat64s(cumulative, r)
		// SearchFloat64s finds the first cumulative >= r; an exact hit on a
		// boundary belongs to the next interval.
		for i < len(cumulative)-1 && cumulative[i] <= r {
			i++
		}
		if i >= len(kept) {
			i = len(kept) - 1
		}
		counts[labels[i]]++
	}

	errnie.Info("Sample - qubits %v, shots %d, outcomes %d", spec.Qubits, spec.Shots, len(counts))
	return counts, nil
}
