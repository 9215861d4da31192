package core

import (
	"github.com/nmxmxh/protocell/lookup"
	"github.com/nmxmxh/protocell/utils"
)

// CellKey is the world's stable handle for a cell.
type CellKey uint32

// Cell is a named bag of genes plus a spatial lookup over their entry
// coordinates. Genes call one another only within their own cell, so the
// lookup is the cell's entire address space.
type Cell struct {
	Name string

	members    map[GeneKey]struct{}
	geneLookup *lookup.Lookup[GeneKey]
}

// NewCell creates an empty cell with a generated name.
func NewCell() *Cell {
	return &Cell{
		Name:       utils.GenerateID(),
		members:    make(map[GeneKey]struct{}),
		geneLookup: lookup.New[GeneKey](),
	}
}

// addGene registers a gene and indexes it at its entry coordinate. The
// coordinate is captured once; later code mutations do not move the entry.
func (c *Cell) addGene(key GeneKey, coordinates uint32) {
	c.geneLookup.Add(coordinates, key)
	c.members[key] = struct{}{}
}

// addMember registers a gene without a lookup entry. Used for genes born
// with empty code; they become addressable on their first write.
func (c *Cell) addMember(key GeneKey) {
	c.members[key] = struct{}{}
}

// index adds a lookup entry for an already registered member.
func (c *Cell) index(key GeneKey, coordinates uint32) {
	c.geneLookup.Add(coordinates, key)
}

// HasGene reports whether the gene belongs to this cell.
func (c *Cell) HasGene(key GeneKey) bool {
	_, ok := c.members[key]
	return ok
}

// LookupGene returns the member gene whose entry coordinate is nearest to
// the low 24 bits of the query.
func (c *Cell) LookupGene(coordinates uint32) (GeneKey, error) {
	key, err := c.geneLookup.Find(coordinates)
	if err != nil {
		return 0, ErrEmptyLookup
	}
	return key, nil
}

// GeneCount returns the number of member genes.
func (c *Cell) GeneCount() int {
	return len(c.members)
}
