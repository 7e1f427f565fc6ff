package graph

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osmparser "algo_router/pkg/osm"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	for i := range uint32(5) {
		assert.Equal(t, i, uf.Find(i))
	}

	assert.True(t, uf.Union(0, 1))
	assert.True(t, uf.Union(2, 3))
	assert.False(t, uf.Union(1, 0), "already joined")

	assert.Equal(t, uf.Find(0), uf.Find(1))
	assert.Equal(t, uf.Find(2), uf.Find(3))
	assert.NotEqual(t, uf.Find(0), uf.Find(2))

	uf.Union(1, 3)
	assert.Equal(t, uf.Find(0), uf.Find(3))
	assert.Equal(t, uint32(4), uf.Size(2))
	assert.Equal(t, uint32(1), uf.Size(4))
}

// twoComponents builds 0-1-2 (ways 1, 2) and 3-4 (way 3), with a
// restriction inside the big component.
func twoComponents() *Graph {
	result := &osmparser.ParseResult{
		Edges: []osmparser.RawEdge{
			{WayID: 3, FromNodeID: 40, ToNodeID: 50, Weight: 300, Flags: openBoth},
			{WayID: 1, FromNodeID: 10, ToNodeID: 20, Weight: 100, Flags: openBoth},
			{WayID: 2, FromNodeID: 20, ToNodeID: 30, Weight: 200, Flags: openForward},
		},
		Restrictions: []osmparser.RawRestriction{{FromWay: 1, ViaNode: 20, ToWay: 2}},
		NodeLat:      map[osm.NodeID]float64{10: 1.0, 20: 1.1, 30: 1.2, 40: 2.0, 50: 2.1},
		NodeLon:      map[osm.NodeID]float64{10: 103.0, 20: 103.1, 30: 103.2, 40: 104.0, 50: 104.1},
	}
	return Build(result)
}

func TestLargestComponent(t *testing.T) {
	g := twoComponents()

	nodes := LargestComponent(g)

	require.Len(t, nodes, 3)
	for _, n := range nodes {
		assert.GreaterOrEqual(t, g.NodeLat[n], 1.0)
		assert.LessOrEqual(t, g.NodeLat[n], 1.2)
	}

	assert.Nil(t, LargestComponent(&Graph{}))
}

func TestFilterToComponent(t *testing.T) {
	g := twoComponents()

	filtered := FilterToComponent(g, LargestComponent(g))

	require.Equal(t, uint32(3), filtered.NumNodes)
	require.Equal(t, uint32(2), filtered.NumEdges)
	assert.Equal(t, 2*filtered.NumEdges, filtered.FirstOut[filtered.NumNodes])

	var total uint32
	for _, d := range filtered.Distance {
		total += d
	}
	assert.Equal(t, uint32(300), total)

	// The restriction survives renumbering.
	require.Len(t, filtered.Restrictions, 1)
	for turn := range filtered.Restrictions {
		assert.Equal(t, uint32(100), filtered.Distance[turn.FromEdge])
		assert.Equal(t, uint32(200), filtered.Distance[turn.ToEdge])
		assert.Equal(t, openForward, filtered.Flags[turn.ToEdge])
		assert.Less(t, turn.Via, filtered.NumNodes)
	}

	assert.Zero(t, FilterToComponent(g, nil).NumNodes)
}
