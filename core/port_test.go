package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPort(t *testing.T) {
	port := NewPort()
	port.Reset([]uint32{10, 20}, []uint32{30})

	assert.Equal(t, uint32(10), port.Read())
	assert.Equal(t, uint32(20), port.Read())
	assert.Equal(t, uint32(0), port.Read())
	assert.Equal(t, uint32(0), port.Read())
	assert.False(t, port.IsDone())

	port.Write(40)
	assert.True(t, port.IsDone())
	assert.Equal(t, []uint32{40}, port.Output())
}

func TestPortReset(t *testing.T) {
	port := NewPort()
	port.Reset([]uint32{1}, []uint32{2})
	port.Write(9)

	port.Reset([]uint32{5}, []uint32{6, 7})
	assert.Equal(t, uint32(5), port.Read())
	assert.Empty(t, port.Output())
	assert.False(t, port.IsDone())
}
