package core

import "math/rand"

// instruction words: the instruction bit in the mode byte plus the
// instruction's canonical coordinate
const instrBit uint32 = 0x01000000

var (
	addNr        = Add.Coordinates() | instrBit
	subNr        = Sub.Coordinates() | instrBit
	dupNr        = Dup.Coordinates() | instrBit
	dropNr       = Drop.Coordinates() | instrBit
	jfNr         = JF.Coordinates() | instrBit
	jbNr         = JB.Coordinates() | instrBit
	lookupNr     = Lookup.Coordinates() | instrBit
	callNr       = Call.Coordinates() | instrBit
	geneReadNr   = GeneRead.Coordinates() | instrBit
	geneWriteNr  = GeneWrite.Coordinates() | instrBit
	geneCreateNr = GeneCreate.Coordinates() | instrBit
)

func testConfig() Config {
	return DefaultConfig()
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}
