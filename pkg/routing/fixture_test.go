package routing

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	osmparser "algo_router/pkg/osm"
)

func newCar(t testing.TB) *encoding.CarFlagEncoder {
	t.Helper()
	enc, err := encoding.NewCarFlagEncoder()
	require.NoError(t, err)
	return enc
}

// buildTestGraph creates a small street grid. Weights in millimeters,
// speeds in km/h.
//
//	0 ---200--- 1 ---200--- 2      upper road: 20 km/h, 50 km/h on 2-5
//	|           |           |
//	160        500         150
//	|           |           |
//	3 ---200--- 4 ---200--- 5      lower road: 80 km/h
//
// Shortest 0 -> 5 is the upper road (550 m), fastest the lower one.
// Ways: 1 (0-1), 2 (1-2), 3 (0-3), 4 (1-4), 5 (2-5), 6 (3-4), 7 (4-5).
func buildTestGraph(t testing.TB, enc *encoding.CarFlagEncoder, opts ...func(*osmparser.ParseResult)) *graph.Graph {
	t.Helper()
	both := func(speed float64) uint32 { return enc.Flags(speed, true, true) }
	result := &osmparser.ParseResult{
		Edges: []osmparser.RawEdge{
			{WayID: 1, FromNodeID: 10, ToNodeID: 20, Weight: 200_000, Flags: both(20)},
			{WayID: 2, FromNodeID: 20, ToNodeID: 30, Weight: 200_000, Flags: both(20)},
			{WayID: 3, FromNodeID: 10, ToNodeID: 40, Weight: 160_000, Flags: both(80)},
			{WayID: 4, FromNodeID: 20, ToNodeID: 50, Weight: 500_000, Flags: both(50)},
			{WayID: 5, FromNodeID: 30, ToNodeID: 60, Weight: 150_000, Flags: both(50)},
			{WayID: 6, FromNodeID: 40, ToNodeID: 50, Weight: 200_000, Flags: both(80)},
			{WayID: 7, FromNodeID: 50, ToNodeID: 60, Weight: 200_000, Flags: both(80)},
		},
		NodeLat: map[osm.NodeID]float64{10: 1.301, 20: 1.301, 30: 1.301, 40: 1.300, 50: 1.300, 60: 1.300},
		NodeLon: map[osm.NodeID]float64{10: 103.800, 20: 103.801, 30: 103.802, 40: 103.800, 50: 103.801, 60: 103.802},
	}
	for _, opt := range opts {
		opt(result)
	}
	return graph.Build(result)
}

// withOneway makes way 2 (1-2) passable from 1 to 2 only.
func withOneway(enc *encoding.CarFlagEncoder) func(*osmparser.ParseResult) {
	return func(r *osmparser.ParseResult) {
		for i := range r.Edges {
			if r.Edges[i].WayID == 2 {
				r.Edges[i].Flags = enc.Flags(20, true, false)
			}
		}
	}
}

// withNoStraightOn forbids driving from way 1 into way 2 at node 1.
func withNoStraightOn(r *osmparser.ParseResult) {
	r.Restrictions = append(r.Restrictions, osmparser.RawRestriction{FromWay: 1, ViaNode: 20, ToWay: 2})
}

// withIsland adds a separate two-node component, nodes 6 and 7.
func withIsland(enc *encoding.CarFlagEncoder) func(*osmparser.ParseResult) {
	return func(r *osmparser.ParseResult) {
		r.Edges = append(r.Edges, osmparser.RawEdge{
			WayID: 8, FromNodeID: 70, ToNodeID: 80, Weight: 200_000, Flags: enc.Flags(50, true, true),
		})
		r.NodeLat[70], r.NodeLon[70] = 1.310, 103.810
		r.NodeLat[80], r.NodeLon[80] = 1.310, 103.811
	}
}

// buildGrid creates an n x n grid of two-way 120 m streets, roughly 111 m
// apart. Use gridNode to find a node by row and column.
func buildGrid(t testing.TB, enc *encoding.CarFlagEncoder, n int) *graph.Graph {
	t.Helper()
	result := &osmparser.ParseResult{
		NodeLat: make(map[osm.NodeID]float64),
		NodeLon: make(map[osm.NodeID]float64),
	}
	id := func(r, c int) osm.NodeID { return osm.NodeID(r*n + c + 1) }
	flags := enc.Flags(50, true, true)
	way := osm.WayID(0)
	for r := range n {
		for c := range n {
			result.NodeLat[id(r, c)] = 1.3 + float64(r)*0.001
			result.NodeLon[id(r, c)] = 103.8 + float64(c)*0.001
			if c+1 < n {
				way++
				result.Edges = append(result.Edges, osmparser.RawEdge{WayID: way, FromNodeID: id(r, c), ToNodeID: id(r, c+1), Weight: 120_000, Flags: flags})
			}
			if r+1 < n {
				way++
				result.Edges = append(result.Edges, osmparser.RawEdge{WayID: way, FromNodeID: id(r, c), ToNodeID: id(r+1, c), Weight: 120_000, Flags: flags})
			}
		}
	}
	return graph.Build(result)
}

func gridNode(t testing.TB, g *graph.Graph, r, c int) uint32 {
	t.Helper()
	lat, lon := 1.3+float64(r)*0.001, 103.8+float64(c)*0.001
	for n := range g.NumNodes {
		if g.NodeLat[n] == lat && g.NodeLon[n] == lon {
			return n
		}
	}
	t.Fatalf("no grid node at row %d, column %d", r, c)
	return 0
}

// requireConsistentPath checks that the path is a connected walk from
// From to To and that its length matches its edges.
func requireConsistentPath(t *testing.T, g *graph.Graph, p *Path) {
	t.Helper()
	require.NotEmpty(t, p.Nodes)
	require.Equal(t, p.From, p.Nodes[0])
	require.Equal(t, p.To, p.Nodes[len(p.Nodes)-1])
	require.Len(t, p.Edges, len(p.Nodes)-1)

	var meters float64
	for i, e := range p.Edges {
		require.Equal(t, p.Nodes[i+1], g.OtherNode(e, p.Nodes[i]), "edge %d does not join node %d", e, p.Nodes[i])
		meters += float64(g.Distance[e]) / 1000
	}
	require.InDelta(t, meters, p.DistanceMeters, 1e-6)
}
