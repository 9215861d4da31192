package core

import (
	"encoding/binary"
	"math/rand"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/nmxmxh/protocell/utils"
)

// expected gene population for sizing the used-ID filter; the filter only
// has to keep the allocator's fast path honest, false positives fall back
// to the authoritative map
const usedIDFilterCapacity = 1 << 16

// World owns every cell, gene and processor of a simulation, plus the
// world-global gene-ID index. All mutation goes through the world; cells
// and processors hold keys, never references.
type World struct {
	id     string
	config Config
	log    *utils.Logger

	cells      map[CellKey]*Cell
	genes      map[GeneKey]*Gene
	processors map[ProcessorKey]*Processor

	// processors step in creation order, every tick
	processorOrder []ProcessorKey

	nextCellKey      uint32
	nextGeneKey      uint32
	nextProcessorKey uint32

	// world-global ID index; a gene ID resolves to a concrete gene only
	// within the cell claiming it
	geneByID map[uint32]GeneKey
	cellOf   map[GeneKey]CellKey
	usedIDs  *bloom.BloomFilter

	quarantine *quarantine
	stats      Stats
}

// Stats counts what a world has done since creation.
type Stats struct {
	Ticks           uint64
	Steps           uint64
	GeneWrites      uint64
	GeneCreates     uint64
	QuarantineSkips uint64
}

// NewWorld constructs an empty world.
func NewWorld(config Config) *World {
	w := &World{
		id:         utils.GenerateID(),
		config:     config,
		log:        utils.DefaultLogger("world"),
		cells:      make(map[CellKey]*Cell),
		genes:      make(map[GeneKey]*Gene),
		processors: make(map[ProcessorKey]*Processor),
		geneByID:   make(map[uint32]GeneKey),
		cellOf:     make(map[GeneKey]CellKey),
		usedIDs:    bloom.NewWithEstimates(usedIDFilterCapacity, 0.01),
	}
	if config.QuarantineThreshold > 0 {
		w.quarantine = newQuarantine(config)
	}
	w.log.Debug("world created", utils.String("id", w.id))
	return w
}

// ID returns the world's instance ID.
func (w *World) ID() string {
	return w.id
}

// Config returns the world's immutable configuration.
func (w *World) Config() Config {
	return w.config
}

// Stats returns a snapshot of the world's counters.
func (w *World) Stats() Stats {
	return w.stats
}

// CreateCell adds an empty cell.
func (w *World) CreateCell() CellKey {
	key := CellKey(w.nextCellKey)
	w.nextCellKey++
	w.cells[key] = NewCell()
	return key
}

// CreateGene adds a gene that belongs to no cell. Its ID is zero and
// unregistered; useful for driving a processor without cell semantics.
func (w *World) CreateGene(code []uint32) GeneKey {
	return w.insertGene(NewGene(0, code))
}

// CreateGeneInCell adds a gene to a cell, assigning a fresh random ID and
// indexing the gene at its entry coordinate.
func (w *World) CreateGeneInCell(cellKey CellKey, code []uint32, rng *rand.Rand) GeneKey {
	id := w.allocateGeneID(rng)
	gene := NewGene(id, code)
	key := w.insertGene(gene)
	w.registerGeneID(id, key)
	w.cells[cellKey].addGene(key, gene.Coordinates())
	w.cellOf[key] = cellKey
	return key
}

// CreateProcessor adds a processor positioned at the start of a gene.
func (w *World) CreateProcessor(cellKey CellKey, geneKey GeneKey) ProcessorKey {
	key := ProcessorKey(w.nextProcessorKey)
	w.nextProcessorKey++
	w.processors[key] = NewProcessor(cellKey, geneKey)
	w.processorOrder = append(w.processorOrder, key)
	return key
}

// Cell returns a cell by key.
func (w *World) Cell(key CellKey) *Cell {
	return w.cells[key]
}

// Gene returns a gene by key.
func (w *World) Gene(key GeneKey) *Gene {
	return w.genes[key]
}

// Processor returns a processor by key.
func (w *World) Processor(key ProcessorKey) *Processor {
	return w.processors[key]
}

func (w *World) insertGene(gene *Gene) GeneKey {
	key := GeneKey(w.nextGeneKey)
	w.nextGeneKey++
	w.genes[key] = gene
	return key
}

// resolveGene maps a gene ID to a key, but only if the cell claims the
// gene. Cross-cell references fail here; that failure is the selective
// pressure the whole design is built around.
func (w *World) resolveGene(cellKey CellKey, geneID uint32) (GeneKey, error) {
	key, ok := w.geneByID[geneID]
	if !ok {
		return 0, ErrUnknownGene
	}
	if !w.cells[cellKey].HasGene(key) {
		return 0, ErrUnknownGene
	}
	return key, nil
}

// allocateGeneID samples uniformly until it finds an unused ID. The bloom
// filter answers the common case without touching the map; a positive is
// double-checked against geneByID.
func (w *World) allocateGeneID(rng *rand.Rand) uint32 {
	var buf [4]byte
	for {
		id := rng.Uint32()
		binary.LittleEndian.PutUint32(buf[:], id)
		if !w.usedIDs.Test(buf[:]) {
			return id
		}
		if _, taken := w.geneByID[id]; !taken {
			return id
		}
	}
}

// MutateGene replaces a gene's code with the result of mutate, typically a
// genetics.Mutator. The gene's entry coordinate was captured at insertion
// and does not move, however the first word changes. A mutation that would
// leave the gene empty is discarded.
func (w *World) MutateGene(key GeneKey, rng *rand.Rand, mutate func(code []uint32, rng *rand.Rand) []uint32) {
	gene := w.genes[key]
	mutated := mutate(gene.Code, rng)
	if len(mutated) == 0 {
		return
	}
	gene.Code = mutated
}

func (w *World) registerGeneID(id uint32, key GeneKey) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], id)
	w.usedIDs.Add(buf[:])
	w.geneByID[id] = key
}
