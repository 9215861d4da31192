package lookup

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindExact(t *testing.T) {
	l := New[int]()
	l.Add(0x010101, 1)

	v, err := l.Find(0x010101)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFindNear(t *testing.T) {
	l := New[int]()
	l.Add(0x010101, 1)
	l.Add(0xF0F0F0, 2)

	v, err := l.Find(0x020202)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = l.Find(0xE0E0E0)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestFindEmpty(t *testing.T) {
	l := New[int]()

	_, err := l.Find(0x010101)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFindIgnoresHighByte(t *testing.T) {
	l := New[int]()
	l.Add(0x010101, 1)

	// the mode byte is not part of the coordinate
	v, err := l.Find(0xFF010101)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestDuplicateCoordinates(t *testing.T) {
	l := New[int]()
	l.Add(0x010101, 1)
	l.Add(0x010101, 2)

	require.Equal(t, 2, l.Len())

	// ties resolve the same way every time for a given table
	first, err := l.Find(0x010101)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		v, err := l.Find(0x010101)
		require.NoError(t, err)
		assert.Equal(t, first, v)
	}
}

// TestFindMatchesLinearScan cross-checks the kd-tree against a brute-force
// scan over a few hundred random points.
func TestFindMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	type entry struct {
		coord uint32
		value int
	}
	var entries []entry
	l := New[int]()
	for i := 0; i < 300; i++ {
		c := rng.Uint32() & 0xFFFFFF
		entries = append(entries, entry{coord: c, value: i})
		l.Add(c, i)
	}

	dist := func(a, b uint32) float32 {
		pa, pb := coordinatesToPoint(a), coordinatesToPoint(b)
		return squaredDistance(pa, pb)
	}

	for i := 0; i < 500; i++ {
		q := rng.Uint32() & 0xFFFFFF
		got, err := l.Find(q)
		require.NoError(t, err)

		best := dist(q, entries[0].coord)
		for _, e := range entries[1:] {
			if d := dist(q, e.coord); d < best {
				best = d
			}
		}
		// the returned value must sit at the minimum distance; which value
		// wins among equally distant ones is up to the table
		assert.Equal(t, best, dist(q, entries[got].coord))
	}
}
