package core

import (
	"time"

	"github.com/nmxmxh/protocell/lookup"
)

// InstructionLookup is the frozen dispatch table: instructions indexed by
// their coordinates, resolved by nearest-neighbor match. Build it once,
// before the first processor steps; an empty table is a programmer error.
type InstructionLookup struct {
	table *lookup.Lookup[Instruction]
}

// NewInstructionLookup creates an empty dispatch table.
func NewInstructionLookup() *InstructionLookup {
	return &InstructionLookup{table: lookup.New[Instruction]()}
}

// Register adds an instruction at its own coordinates.
func (l *InstructionLookup) Register(i Instruction) {
	l.table.Add(i.Coordinates(), i)
}

// Find returns the registered instruction nearest to the low 24 bits of
// the query word.
func (l *InstructionLookup) Find(word uint32) (Instruction, error) {
	return l.table.Find(word)
}

// Len returns the number of registered instructions.
func (l *InstructionLookup) Len() int {
	return l.table.Len()
}

// Config is the immutable per-run configuration of a world.
type Config struct {
	// MaxStackSize bounds the data stack; when exceeded the lower half is
	// truncated and a failure is counted.
	MaxStackSize int
	// MaxCallStackSize bounds the call stack the same way, dropping the
	// oldest frames.
	MaxCallStackSize int
	// InstructionLookup is the populated dispatch table.
	InstructionLookup *InstructionLookup

	// QuarantineThreshold enables per-processor failure quarantine when
	// non-zero: a processor whose steps fail this many times in a row is
	// skipped until QuarantineCooldown lapses.
	QuarantineThreshold uint32
	QuarantineCooldown  time.Duration
}

// DefaultConfig returns a config with the full instruction set and the
// bounds used throughout the test corpus. Quarantine is off by default;
// it trades determinism of scheduling for protection against degenerate
// genomes.
func DefaultConfig() Config {
	return Config{
		MaxStackSize:       1000,
		MaxCallStackSize:   1000,
		InstructionLookup:  DefaultInstructionLookup(),
		QuarantineCooldown: 10 * time.Second,
	}
}
