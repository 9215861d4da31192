package core

import "math/rand"

// ProcessorKey is the world's stable handle for a processor.
type ProcessorKey uint32

// CallFrame records where execution resumes when the current gene runs off
// its end. The caller is remembered by gene ID, not key, so the reference
// is subject to the same cell-local resolution as every other gene ID.
type CallFrame struct {
	GeneID   uint32
	ReturnPC int
}

// Processor executes words against a cell+gene context. It owns a bounded
// data stack, a bounded call stack, a cyclic program counter and a failure
// counter. Processors are stepped externally and never halt: failures are
// counted and execution continues.
type Processor struct {
	cellKey CellKey
	geneKey GeneKey

	Stack     Stack
	CallStack []CallFrame
	Failures  uint32

	pc int
}

// NewProcessor creates a processor positioned at the start of a gene.
func NewProcessor(cellKey CellKey, geneKey GeneKey) *Processor {
	return &Processor{
		cellKey: cellKey,
		geneKey: geneKey,
	}
}

// CellKey returns the processor's home cell.
func (p *Processor) CellKey() CellKey {
	return p.cellKey
}

// GeneKey returns the gene currently being executed.
func (p *Processor) GeneKey() GeneKey {
	return p.geneKey
}

// PC returns the current program counter.
func (p *Processor) PC() int {
	return p.pc
}

// execute runs one word. The returned effect, if any, must be applied to
// the world by the scheduler before the next processor steps. The error
// reports whether the word's instruction failed; the failure has already
// been counted.
func (p *Processor) execute(w *World, rng *rand.Rand) (Effect, error) {
	value := w.genes[p.geneKey].Code[p.pc]
	p.pc++

	t := TripletFromInt(value)
	var effect Effect
	var stepErr error
	switch t.Mode {
	case ModeNumber:
		// the whole word is data, mode byte included
		p.Stack.Push(value)
	case ModeInstruction:
		instruction, err := w.config.InstructionLookup.Find(value)
		if err != nil {
			p.Failures++
			stepErr = err
			break
		}
		effect, stepErr = instruction.Execute(p, w, rng)
		if stepErr != nil {
			p.Failures++
		}
	case ModeCall, ModeNoop:
		// reserved modes
	}

	// end of gene: return to the calling gene, or wrap to the start
	if p.pc >= len(w.genes[p.geneKey].Code) {
		if frame, ok := p.popCallFrame(); ok {
			if key, err := w.resolveGene(p.cellKey, frame.GeneID); err == nil {
				p.geneKey = key
				p.pc = frame.ReturnPC
			} else {
				p.pc = 0
			}
		} else {
			p.pc = 0
		}
	}

	p.shrinkStackOnOverflow(&w.config)
	return effect, stepErr
}

func (p *Processor) popCallFrame() (CallFrame, bool) {
	if len(p.CallStack) == 0 {
		return CallFrame{}, false
	}
	frame := p.CallStack[len(p.CallStack)-1]
	p.CallStack = p.CallStack[:len(p.CallStack)-1]
	return frame, true
}

// jump moves the pc by adjust within the current gene.
func (p *Processor) jump(adjust int, w *World) error {
	newPC := p.pc + adjust
	if newPC < 0 || newPC >= len(w.genes[p.geneKey].Code) {
		return ErrOutOfRange
	}
	p.pc = newPC
	return nil
}

// lookupGene pushes the ID of the member gene nearest to the query
// coordinate. The executing gene's own entry keeps the cell lookup
// non-empty, so this only fails for a processor started on a gene that was
// never indexed.
func (p *Processor) lookupGene(query uint32, w *World) error {
	key, err := w.cells[p.cellKey].LookupGene(query & 0xFFFFFF)
	if err != nil {
		return err
	}
	p.Stack.Push(w.genes[key].ID)
	return nil
}

// call switches execution to another gene of the cell, remembering where
// to resume. A Call in the last slot of a gene records return pc 0, so the
// caller re-enters from its start when the callee finishes.
func (p *Processor) call(geneID uint32, w *World) error {
	key, err := w.resolveGene(p.cellKey, geneID)
	if err != nil {
		return err
	}
	gene := w.genes[p.geneKey]
	returnPC := p.pc
	if returnPC >= len(gene.Code) {
		returnPC = 0
	}
	p.CallStack = append(p.CallStack, CallFrame{GeneID: gene.ID, ReturnPC: returnPC})
	p.shrinkCallStackOnOverflow(&w.config)
	p.geneKey = key
	p.pc = 0
	return nil
}

// geneRead pushes one word of another gene's code.
func (p *Processor) geneRead(geneID, index uint32, w *World) error {
	key, err := w.resolveGene(p.cellKey, geneID)
	if err != nil {
		return err
	}
	gene := w.genes[key]
	if index >= uint32(len(gene.Code)) {
		return ErrOutOfRange
	}
	p.Stack.Push(gene.Code[index])
	return nil
}

// geneWrite requests an append to another gene's code. The mutation is
// deferred to the scheduler so a step never writes the world directly.
func (p *Processor) geneWrite(geneID, value uint32, w *World) (Effect, error) {
	key, err := w.resolveGene(p.cellKey, geneID)
	if err != nil {
		return nil, err
	}
	return GeneWriteEffect{Gene: key, Value: value}, nil
}

// shrinkStackOnOverflow drops the lower half of the data stack when it
// outgrows the configured bound.
func (p *Processor) shrinkStackOnOverflow(config *Config) {
	if len(p.Stack) <= config.MaxStackSize {
		return
	}
	p.Failures++
	p.Stack = append(p.Stack[:0], p.Stack[config.MaxStackSize/2:]...)
}

// shrinkCallStackOnOverflow drops the oldest call frames the same way.
func (p *Processor) shrinkCallStackOnOverflow(config *Config) {
	if len(p.CallStack) <= config.MaxCallStackSize {
		return
	}
	p.Failures++
	p.CallStack = append(p.CallStack[:0], p.CallStack[config.MaxCallStackSize/2:]...)
}
