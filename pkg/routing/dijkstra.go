package routing

import (
	"context"
	"math"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// nodeSearch is a unidirectional node-based label-setting search. With a
// zero heuristic it is plain Dijkstra; otherwise it is A*.
type nodeSearch struct {
	searchBase
	dist       []float64
	parent     []uint32
	parentEdge []uint32
	settled    []bool
	pq         MinHeap
}

func newNodeSearch(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (nodeSearch, error) {
	base, err := newSearchBase(g, enc, w)
	if err != nil {
		return nodeSearch{}, err
	}
	return nodeSearch{searchBase: base}, nil
}

func (s *nodeSearch) reset() {
	n := int(s.g.NumNodes)
	if len(s.dist) != n {
		s.dist = make([]float64, n)
		s.parent = make([]uint32, n)
		s.parentEdge = make([]uint32, n)
		s.settled = make([]bool, n)
		s.pq = MinHeap{items: make([]PQItem, 0, 256)}
	}
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
		s.parent[i] = noNode
		s.parentEdge[i] = noEdge
		s.settled[i] = false
	}
	s.pq.Reset()
	s.visited = 0
}

func (s *nodeSearch) run(ctx context.Context, from, to uint32, h func(uint32) float64) (*Path, error) {
	if err := s.checkNodes(from, to); err != nil {
		return nil, err
	}
	s.reset()
	s.dist[from] = 0
	s.pq.Push(from, h(from))

	iterations := 0
	for s.pq.Len() > 0 {
		iterations++
		if err := canceled(ctx, iterations); err != nil {
			return nil, err
		}

		u := s.pq.Pop().Node
		if s.settled[u] {
			continue // stale entry
		}
		s.settled[u] = true
		s.visited++
		if u == to {
			return s.buildPath(from, to, s.trace(to)), nil
		}

		start, end := s.g.EdgesFrom(u)
		for a := start; a < end; a++ {
			e := s.g.EdgeAt(a)
			if s.settled[e.To] {
				continue
			}
			c, ok := s.cost(e, e.Reverse)
			if !ok {
				continue
			}
			if d := s.dist[u] + c; d < s.dist[e.To] {
				s.dist[e.To] = d
				s.parent[e.To] = u
				s.parentEdge[e.To] = e.ID
				s.pq.Push(e.To, d+h(e.To))
			}
		}
	}
	return nil, ErrNoRoute
}

func (s *nodeSearch) trace(to uint32) []step {
	var steps []step
	for v := to; s.parentEdge[v] != noEdge; v = s.parent[v] {
		steps = append(steps, step{edge: s.parentEdge[v], node: v})
	}
	reverseSteps(steps)
	return steps
}

func zeroHeuristic(uint32) float64 { return 0 }

// Dijkstra is unidirectional node-based Dijkstra.
type Dijkstra struct {
	nodeSearch
}

func NewDijkstra(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*Dijkstra, error) {
	s, err := newNodeSearch(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &Dijkstra{nodeSearch: s}, nil
}

func (d *Dijkstra) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	return d.run(ctx, from, to, zeroHeuristic)
}

func (d *Dijkstra) Name() string     { return d.Variant().String() }
func (d *Dijkstra) Variant() Variant { return VariantDijkstra }

// AStar is unidirectional node-based A* guided by the straight-line
// distance to the target. It always runs the exact heuristic.
type AStar struct {
	nodeSearch
}

func NewAStar(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*AStar, error) {
	s, err := newNodeSearch(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &AStar{nodeSearch: s}, nil
}

func (a *AStar) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	if err := a.checkNodes(from, to); err != nil {
		return nil, err
	}
	return a.run(ctx, from, to, a.heuristic(to, false))
}

func (a *AStar) Name() string     { return a.Variant().String() }
func (a *AStar) Variant() Variant { return VariantAStar }
