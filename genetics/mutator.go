// Package genetics mutates gene code. Operators work on plain word slices
// and return a non-empty result for non-empty input, so a mutated gene keeps
// a first word and with it an entry coordinate.
package genetics

import (
	"math"
	"math/rand"
	"sync"
)

// Operator is a single mutation operation over a code sequence. Apply
// never modifies the input slice.
type Operator interface {
	Apply(code []uint32, rng *rand.Rand) []uint32
	Name() string
	Probability() float32
}

// Mutator picks an operator by roulette over operator probabilities and
// applies it. Zero value is unusable; construct with NewMutator.
type Mutator struct {
	operators []Operator

	mu     sync.Mutex
	counts map[string]uint64
}

// NewMutator creates a mutator over the given operators. With none given
// it uses the default set: point mutation, insertion, segment duplication
// and segment deletion.
func NewMutator(operators ...Operator) *Mutator {
	if len(operators) == 0 {
		operators = []Operator{
			PointMutation{probability: 0.4},
			WordInsertion{probability: 0.2},
			SegmentDuplication{probability: 0.2},
			SegmentDeletion{probability: 0.2},
		}
	}
	return &Mutator{
		operators: operators,
		counts:    make(map[string]uint64),
	}
}

// Mutate applies one operator chosen by probability and returns the new
// code. The input is never modified.
func (m *Mutator) Mutate(code []uint32, rng *rand.Rand) []uint32 {
	var total float32
	for _, op := range m.operators {
		total += op.Probability()
	}
	roll := rng.Float32() * total
	op := m.operators[len(m.operators)-1]
	for _, candidate := range m.operators {
		roll -= candidate.Probability()
		if roll < 0 {
			op = candidate
			break
		}
	}

	m.mu.Lock()
	m.counts[op.Name()]++
	m.mu.Unlock()

	return op.Apply(code, rng)
}

// Counts returns how often each operator has been applied.
func (m *Mutator) Counts() map[string]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]uint64, len(m.counts))
	for name, n := range m.counts {
		counts[name] = n
	}
	return counts
}

// segmentLength draws a small length, mostly 1-10 words.
func segmentLength(rng *rand.Rand) int {
	l := int(math.Ceil(math.Abs(rng.NormFloat64() * 5)))
	if l < 1 {
		l = 1
	}
	return l
}

// PointMutation replaces one word with a random word.
type PointMutation struct {
	probability float32
}

func (o PointMutation) Name() string         { return "point" }
func (o PointMutation) Probability() float32 { return o.probability }

func (o PointMutation) Apply(code []uint32, rng *rand.Rand) []uint32 {
	mutated := append([]uint32(nil), code...)
	if len(mutated) == 0 {
		return mutated
	}
	mutated[rng.Intn(len(mutated))] = rng.Uint32()
	return mutated
}

// WordInsertion inserts one random word at a random position.
type WordInsertion struct {
	probability float32
}

func (o WordInsertion) Name() string         { return "insert" }
func (o WordInsertion) Probability() float32 { return o.probability }

func (o WordInsertion) Apply(code []uint32, rng *rand.Rand) []uint32 {
	i := rng.Intn(len(code) + 1)
	mutated := make([]uint32, 0, len(code)+1)
	mutated = append(mutated, code[:i]...)
	mutated = append(mutated, rng.Uint32())
	mutated = append(mutated, code[i:]...)
	return mutated
}

// SegmentDuplication copies a segment in place, the classic way genomes
// grow material for later divergence.
type SegmentDuplication struct {
	probability float32
}

func (o SegmentDuplication) Name() string         { return "duplicate" }
func (o SegmentDuplication) Probability() float32 { return o.probability }

func (o SegmentDuplication) Apply(code []uint32, rng *rand.Rand) []uint32 {
	if len(code) == 0 {
		return append([]uint32(nil), code...)
	}
	i := rng.Intn(len(code))
	l := segmentLength(rng)
	mutated := make([]uint32, 0, len(code)+l)
	mutated = append(mutated, code[:i]...)
	for j := i; j < i+l; j++ {
		mutated = append(mutated, code[j%len(code)])
	}
	mutated = append(mutated, code[i:]...)
	return mutated
}

// SegmentDeletion removes a segment, but never the whole code.
type SegmentDeletion struct {
	probability float32
}

func (o SegmentDeletion) Name() string         { return "delete" }
func (o SegmentDeletion) Probability() float32 { return o.probability }

func (o SegmentDeletion) Apply(code []uint32, rng *rand.Rand) []uint32 {
	if len(code) <= 1 {
		return append([]uint32(nil), code...)
	}
	i := rng.Intn(len(code))
	l := segmentLength(rng)
	if i+l > len(code) {
		l = len(code) - i
	}
	if l >= len(code) {
		l = len(code) - 1
	}
	mutated := make([]uint32, 0, len(code)-l)
	mutated = append(mutated, code[:i]...)
	mutated = append(mutated, code[i+l:]...)
	return mutated
}
