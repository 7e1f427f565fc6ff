package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinHeapOrder(t *testing.T) {
	var h MinHeap
	assert.True(t, math.IsInf(h.PeekKey(), 1))

	keys := []float64{5, 1, 4, 1.5, 3, 0, 2}
	for i, k := range keys {
		h.Push(uint32(i), k)
	}
	assert.Equal(t, len(keys), h.Len())
	assert.Equal(t, 0.0, h.PeekKey())

	var got []float64
	for h.Len() > 0 {
		got = append(got, h.Pop().Key)
	}
	assert.Equal(t, []float64{0, 1, 1.5, 2, 3, 4, 5}, got)
}

func TestMinHeapReset(t *testing.T) {
	var h MinHeap
	h.Push(1, 10)
	h.Push(2, 20)
	h.Reset()

	assert.Zero(t, h.Len())
	h.Push(3, 30)
	assert.Equal(t, PQItem{Node: 3, Key: 30}, h.Pop())
}
