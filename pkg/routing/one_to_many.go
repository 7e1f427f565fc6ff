package routing

import (
	"context"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// DijkstraOneToMany is node-based Dijkstra that keeps its shortest-path
// tree between queries. Consecutive queries from the same source resume
// the existing search instead of starting over, so asking for many
// targets costs roughly one full search.
type DijkstraOneToMany struct {
	nodeSearch
	source uint32
}

func NewDijkstraOneToMany(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*DijkstraOneToMany, error) {
	s, err := newNodeSearch(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &DijkstraOneToMany{nodeSearch: s, source: noNode}, nil
}

func (d *DijkstraOneToMany) Name() string     { return d.Variant().String() }
func (d *DijkstraOneToMany) Variant() Variant { return VariantDijkstraOneToMany }

// Clear drops the kept tree. The next query starts from scratch.
func (d *DijkstraOneToMany) Clear() {
	d.source = noNode
}

// Source returns the source of the kept tree.
func (d *DijkstraOneToMany) Source() (uint32, bool) {
	return d.source, d.source != noNode
}

func (d *DijkstraOneToMany) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	if err := d.checkNodes(from, to); err != nil {
		return nil, err
	}
	if err := d.settle(ctx, from, to); err != nil {
		return nil, err
	}
	if !d.settled[to] {
		return nil, ErrNoRoute
	}
	return d.buildPath(from, to, d.trace(to)), nil
}

// Weight returns the cost of the cheapest path from the source to to,
// extending the tree as needed.
func (d *DijkstraOneToMany) Weight(ctx context.Context, from, to uint32) (float64, error) {
	if err := d.checkNodes(from, to); err != nil {
		return 0, err
	}
	if err := d.settle(ctx, from, to); err != nil {
		return 0, err
	}
	if !d.settled[to] {
		return 0, ErrNoRoute
	}
	return d.dist[to], nil
}

// settle grows the tree rooted at from until to is settled or the queue
// is exhausted. A different source discards the kept tree.
func (d *DijkstraOneToMany) settle(ctx context.Context, from, to uint32) error {
	if d.source != from {
		d.reset()
		d.source = from
		d.dist[from] = 0
		d.pq.Push(from, 0)
	}

	iterations := 0
	for !d.settled[to] && d.pq.Len() > 0 {
		iterations++
		if err := canceled(ctx, iterations); err != nil {
			return err
		}

		u := d.pq.Pop().Node
		if d.settled[u] {
			continue // stale entry
		}
		d.settled[u] = true
		d.visited++

		start, end := d.g.EdgesFrom(u)
		for a := start; a < end; a++ {
			e := d.g.EdgeAt(a)
			if d.settled[e.To] {
				continue
			}
			c, ok := d.cost(e, e.Reverse)
			if !ok {
				continue
			}
			if nd := d.dist[u] + c; nd < d.dist[e.To] {
				d.dist[e.To] = nd
				d.parent[e.To] = u
				d.parentEdge[e.To] = e.ID
				d.pq.Push(e.To, nd)
			}
		}
	}
	return nil
}
