package core

// GeneKey is the world's stable handle for a gene. Keys are never reused.
type GeneKey uint32

// Gene is a typed bytecode sequence with a cell-unique numeric identity.
// Execution only ever appends to Code, which is what makes GeneWrite safe
// without reindexing any spatial lookup. World.MutateGene can replace Code
// wholesale; the entry coordinate stays where it was captured.
type Gene struct {
	ID   uint32
	Code []uint32
}

// NewGene creates a gene with a copy of the given code.
func NewGene(id uint32, code []uint32) *Gene {
	return &Gene{
		ID:   id,
		Code: append([]uint32(nil), code...),
	}
}

// Coordinates returns the gene's entry coordinate, the low 24 bits of its
// first code word regardless of that word's mode.
func (g *Gene) Coordinates() uint32 {
	return g.Code[0] & 0xFFFFFF
}
