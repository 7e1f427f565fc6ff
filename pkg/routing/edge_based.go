package routing

import (
	"context"
	"math"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// Edge-based searches label directed edges instead of nodes, which lets
// them honour turn restrictions and forbid immediate U-turns. A state is
// edge*2, plus one when the edge is travelled against its stored
// orientation.

const noState = ^uint32(0)

func stateID(edge uint32, reverse bool) uint32 {
	if reverse {
		return edge*2 + 1
	}
	return edge * 2
}

func stateEdge(s uint32) uint32 { return s / 2 }

// stateHead returns the node a state arrives at.
func stateHead(g *graph.Graph, s uint32) uint32 {
	if s&1 == 1 {
		return g.EdgeBase[s/2]
	}
	return g.EdgeAdj[s/2]
}

// edgeSearch is unidirectional edge-based Dijkstra or A*.
type edgeSearch struct {
	searchBase
	dist    []float64
	parent  []uint32
	settled []bool
	pq      MinHeap
}

func newEdgeSearch(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (edgeSearch, error) {
	base, err := newSearchBase(g, enc, w)
	if err != nil {
		return edgeSearch{}, err
	}
	return edgeSearch{searchBase: base}, nil
}

func (s *edgeSearch) reset() {
	n := 2 * int(s.g.NumEdges)
	if len(s.dist) != n {
		s.dist = make([]float64, n)
		s.parent = make([]uint32, n)
		s.settled = make([]bool, n)
		s.pq = MinHeap{items: make([]PQItem, 0, 256)}
	}
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
		s.parent[i] = noState
		s.settled[i] = false
	}
	s.pq.Reset()
	s.visited = 0
}

// label stores d for state st if it improves the current label.
func (s *edgeSearch) label(st, parent uint32, d, key float64) {
	if s.settled[st] || d >= s.dist[st] {
		return
	}
	s.dist[st] = d
	s.parent[st] = parent
	s.pq.Push(st, key)
}

func (s *edgeSearch) run(ctx context.Context, from, to uint32, h func(uint32) float64) (*Path, error) {
	if err := s.checkNodes(from, to); err != nil {
		return nil, err
	}
	s.reset()
	if from == to {
		return s.buildPath(from, to, nil), nil
	}

	start, end := s.g.EdgesFrom(from)
	for a := start; a < end; a++ {
		e := s.g.EdgeAt(a)
		if c, ok := s.cost(e, e.Reverse); ok {
			s.label(stateID(e.ID, e.Reverse), noState, c, c+h(e.To))
		}
	}

	iterations := 0
	for s.pq.Len() > 0 {
		iterations++
		if err := canceled(ctx, iterations); err != nil {
			return nil, err
		}

		st := s.pq.Pop().Node
		if s.settled[st] {
			continue // stale entry
		}
		s.settled[st] = true
		s.visited++

		v := stateHead(s.g, st)
		if v == to {
			return s.buildPath(from, to, s.trace(st)), nil
		}

		in := stateEdge(st)
		start, end := s.g.EdgesFrom(v)
		for a := start; a < end; a++ {
			e := s.g.EdgeAt(a)
			if e.ID == in || s.g.TurnRestricted(in, v, e.ID) {
				continue
			}
			c, ok := s.cost(e, e.Reverse)
			if !ok {
				continue
			}
			d := s.dist[st] + c
			s.label(stateID(e.ID, e.Reverse), st, d, d+h(e.To))
		}
	}
	return nil, ErrNoRoute
}

func (s *edgeSearch) trace(last uint32) []step {
	var steps []step
	for st := last; st != noState; st = s.parent[st] {
		steps = append(steps, step{edge: stateEdge(st), node: stateHead(s.g, st)})
	}
	reverseSteps(steps)
	return steps
}

// EdgeDijkstra is unidirectional edge-based Dijkstra.
type EdgeDijkstra struct {
	edgeSearch
}

func NewEdgeDijkstra(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*EdgeDijkstra, error) {
	s, err := newEdgeSearch(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &EdgeDijkstra{edgeSearch: s}, nil
}

func (d *EdgeDijkstra) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	return d.run(ctx, from, to, zeroHeuristic)
}

func (d *EdgeDijkstra) Name() string     { return d.Variant().String() }
func (d *EdgeDijkstra) Variant() Variant { return VariantEdgeDijkstra }

// EdgeAStar is unidirectional edge-based A*.
type EdgeAStar struct {
	edgeSearch
	approximate bool
}

func NewEdgeAStar(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*EdgeAStar, error) {
	s, err := newEdgeSearch(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &EdgeAStar{edgeSearch: s}, nil
}

// SetApproximation switches to the faster, inflated heuristic. Paths are
// then no longer guaranteed to be optimal.
func (a *EdgeAStar) SetApproximation(approximate bool) *EdgeAStar {
	a.approximate = approximate
	return a
}

func (a *EdgeAStar) Approximation() bool { return a.approximate }

func (a *EdgeAStar) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	if err := a.checkNodes(from, to); err != nil {
		return nil, err
	}
	return a.run(ctx, from, to, a.heuristic(to, a.approximate))
}

func (a *EdgeAStar) Name() string     { return a.Variant().String() }
func (a *EdgeAStar) Variant() Variant { return VariantEdgeAStar }
