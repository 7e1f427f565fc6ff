package routing

import (
	"github.com/paulmach/orb"

	"algo_router/pkg/graph"
)

// LatLng represents a geographic coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Path is the result of a successful query.
type Path struct {
	From, To uint32

	// Weight is the path cost in the units of the bound weighting.
	Weight         float64
	DistanceMeters float64
	TimeSeconds    float64

	Nodes []uint32 // From, ..., To
	Edges []uint32 // len(Nodes) - 1
}

// step is one edge of a path in travel order.
type step struct {
	edge uint32
	node uint32 // node reached
}

// buildPath sums weight, length and travel time over steps.
func (b *searchBase) buildPath(from, to uint32, steps []step) *Path {
	p := &Path{
		From:  from,
		To:    to,
		Nodes: make([]uint32, 0, len(steps)+1),
		Edges: make([]uint32, 0, len(steps)),
	}
	p.Nodes = append(p.Nodes, from)

	for _, s := range steps {
		e := b.g.Edge(s.edge, b.g.OtherNode(s.edge, s.node))
		meters := e.DistanceMeters()

		p.Weight += b.w.Weight(e, e.Reverse)
		p.DistanceMeters += meters
		if speed := b.enc.Speed(e.Flags, e.Reverse); speed > 0 {
			p.TimeSeconds += meters / (speed / 3.6)
		}
		p.Nodes = append(p.Nodes, s.node)
		p.Edges = append(p.Edges, s.edge)
	}
	return p
}

// Points returns the coordinates of the path nodes.
func (p *Path) Points(g *graph.Graph) []LatLng {
	pts := make([]LatLng, len(p.Nodes))
	for i, n := range p.Nodes {
		pts[i] = LatLng{Lat: g.NodeLat[n], Lng: g.NodeLon[n]}
	}
	return pts
}

// LineString returns the path geometry in lon/lat order.
func (p *Path) LineString(g *graph.Graph) orb.LineString {
	ls := make(orb.LineString, len(p.Nodes))
	for i, n := range p.Nodes {
		ls[i] = orb.Point{g.NodeLon[n], g.NodeLat[n]}
	}
	return ls
}

// reverseSteps reverses steps in place.
func reverseSteps(steps []step) {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
}
