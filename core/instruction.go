package core

import "math/rand"

// Instruction is anything the dispatch table can hold. A failed execution
// is counted by the processor and pushes nothing, but operands it already
// popped stay consumed (Over and Rot clear the whole stack). Effects are
// not applied here; they are requests the scheduler applies after the step
// returns.
type Instruction interface {
	Coordinates() uint32
	Execute(p *Processor, w *World, rng *rand.Rand) (Effect, error)
}

// Effect is a deferred world mutation produced by a processor step. A nil
// Effect means the step only touched processor-local state.
type Effect interface {
	isEffect()
}

// GeneWriteEffect appends Value to the code of the target gene.
type GeneWriteEffect struct {
	Gene  GeneKey
	Value uint32
}

// GeneCreateEffect creates a gene with the given pre-allocated ID, with
// empty code, inside the target cell.
type GeneCreateEffect struct {
	Cell CellKey
	ID   uint32
}

func (GeneWriteEffect) isEffect()  {}
func (GeneCreateEffect) isEffect() {}

// ProcessorInstruction is an instruction that needs the processor's cell
// and gene context, not just the data stack.
type ProcessorInstruction int

const (
	JF ProcessorInstruction = iota
	JB
	Lookup
	Call
	GeneRead
	GeneWrite
	GeneCreate
)

var processorInstructionNames = map[ProcessorInstruction]string{
	JF: "JF", JB: "JB", Lookup: "Lookup", Call: "Call",
	GeneRead: "GeneRead", GeneWrite: "GeneWrite", GeneCreate: "GeneCreate",
}

var processorInstructionCoordinates = map[ProcessorInstruction]uint32{
	JF:         0x010100,
	JB:         0x010110,
	Lookup:     0x010120,
	Call:       0x010130,
	GeneRead:   0x010140,
	GeneWrite:  0x010150,
	GeneCreate: 0x010160,
}

func (i ProcessorInstruction) String() string {
	return processorInstructionNames[i]
}

// Coordinates returns the dispatch coordinate of the instruction.
func (i ProcessorInstruction) Coordinates() uint32 {
	return processorInstructionCoordinates[i]
}

// Execute runs the instruction against the processor.
func (i ProcessorInstruction) Execute(p *Processor, w *World, rng *rand.Rand) (Effect, error) {
	switch i {
	case JF:
		first, second, ok := p.Stack.Pop2()
		if !ok {
			return nil, ErrUnderflow
		}
		if !nrToBool(first) || second == 0 {
			return nil, nil
		}
		return nil, p.jump(int(second), w)
	case JB:
		first, second, ok := p.Stack.Pop2()
		if !ok {
			return nil, ErrUnderflow
		}
		if !nrToBool(first) || second == 0 {
			return nil, nil
		}
		// the extra -1 makes JB(n) land n words before the JB word itself,
		// so the minimum backward loop is 1
		return nil, p.jump(-(int(second) + 1), w)
	case Lookup:
		query, ok := p.Stack.Pop()
		if !ok {
			return nil, ErrUnderflow
		}
		return nil, p.lookupGene(query, w)
	case Call:
		geneID, ok := p.Stack.Pop()
		if !ok {
			return nil, ErrUnderflow
		}
		return nil, p.call(geneID, w)
	case GeneRead:
		first, second, ok := p.Stack.Pop2()
		if !ok {
			return nil, ErrUnderflow
		}
		return nil, p.geneRead(first, second, w)
	case GeneWrite:
		first, second, ok := p.Stack.Pop2()
		if !ok {
			return nil, ErrUnderflow
		}
		return p.geneWrite(first, second, w)
	case GeneCreate:
		id := w.allocateGeneID(rng)
		p.Stack.Push(id)
		return GeneCreateEffect{Cell: p.cellKey, ID: id}, nil
	}
	return nil, ErrOutOfRange
}

// Execute lets a pure stack instruction serve as a table entry.
func (i StackInstruction) Execute(p *Processor, _ *World, _ *rand.Rand) (Effect, error) {
	if err := i.Apply(&p.Stack); err != nil {
		return nil, err
	}
	return nil, nil
}

// DefaultInstructionLookup builds a dispatch table holding the complete
// instruction set at its canonical coordinates. Registration order is
// fixed so that tie-breaks are reproducible across runs.
func DefaultInstructionLookup() *InstructionLookup {
	l := NewInstructionLookup()
	for instr := Add; instr <= Rot; instr++ {
		l.Register(instr)
	}
	for instr := JF; instr <= GeneCreate; instr++ {
		l.Register(instr)
	}
	return l
}
