package graph

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"algo_router/pkg/geo"
)

// ErrNoNearbyNode is returned when no routable node lies within the
// snapping radius of a query point.
var ErrNoNearbyNode = errors.New("no graph node within snapping distance")

// SnapResult is a query point snapped to a graph node.
type SnapResult struct {
	Node           uint32
	DistanceMeters float64 // from the query point to the node
}

// Snapper finds the nearest routable node for a coordinate. Points are
// indexed in lon/lat order. Nodes without edges are left out.
type Snapper struct {
	g         *Graph
	tree      rtree.RTreeG[uint32]
	maxMeters float64
}

// NewSnapper indexes the nodes of g. Queries further than maxMeters from
// every node fail with ErrNoNearbyNode.
func NewSnapper(g *Graph, maxMeters float64) *Snapper {
	s := &Snapper{g: g, maxMeters: maxMeters}
	for n := uint32(0); n < g.NumNodes; n++ {
		if start, end := g.EdgesFrom(n); start == end {
			continue
		}
		pt := [2]float64{g.NodeLon[n], g.NodeLat[n]}
		s.tree.Insert(pt, pt, n)
	}
	return s
}

// Len returns the number of indexed nodes.
func (s *Snapper) Len() int { return s.tree.Len() }

// Snap returns the closest indexed node to lat/lng. Ties go to the lower
// node id so results are stable.
func (s *Snapper) Snap(lat, lng float64) (SnapResult, error) {
	dLat, dLon := geo.MetersToDegrees(s.maxMeters, lat)
	lo := [2]float64{lng - dLon, lat - dLat}
	hi := [2]float64{lng + dLon, lat + dLat}

	best := SnapResult{Node: ^uint32(0), DistanceMeters: math.Inf(1)}
	s.tree.Search(lo, hi, func(_, _ [2]float64, n uint32) bool {
		d := geo.Haversine(lat, lng, s.g.NodeLat[n], s.g.NodeLon[n])
		if d < best.DistanceMeters || (d == best.DistanceMeters && n < best.Node) {
			best = SnapResult{Node: n, DistanceMeters: d}
		}
		return true
	})

	if best.Node == ^uint32(0) || best.DistanceMeters > s.maxMeters {
		return SnapResult{}, ErrNoNearbyNode
	}
	return best, nil
}
